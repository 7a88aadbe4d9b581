package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/trade"
)

func TestGormWholesaleRepository_ExternalOrderDedup(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormWholesaleRepository(db)
	ctx := context.Background()

	inputs := []trade.WholesaleItemInput{
		{ProductID: uuid.New(), ProductName: "Apples", Quantity: decimal.NewFromInt(3), UnitPrice: 1500},
	}
	wholesale, err := trade.NewExternalWholesale(uuid.New(), "20260901-777", inputs, "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, wholesale))

	t.Run("lookup by external order ID", func(t *testing.T) {
		found, err := repo.FindByExternalOrderID(ctx, "20260901-777")
		require.NoError(t, err)
		assert.Equal(t, wholesale.ID, found.ID)
		require.Len(t, found.Items, 1)
		assert.Equal(t, "3", found.Items[0].Quantity.String())
	})

	t.Run("unknown external order ID", func(t *testing.T) {
		_, err := repo.FindByExternalOrderID(ctx, "never-seen")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("second row with the same external ID is rejected", func(t *testing.T) {
		dup, err := trade.NewExternalWholesale(uuid.New(), "20260901-777", inputs, "")
		require.NoError(t, err)

		require.Error(t, repo.Save(ctx, dup))
	})
}

func TestGormWholesaleRepository_ReplaceItems(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormWholesaleRepository(db)
	ctx := context.Background()

	productID := uuid.New()
	wholesale, err := trade.NewPendingWholesale(uuid.New(), []trade.WholesaleItemInput{
		{ProductID: productID, ProductName: "Apples", Quantity: decimal.NewFromInt(6), UnitPrice: 1500},
		{ProductID: uuid.New(), ProductName: "Pears", Quantity: decimal.NewFromInt(2), UnitPrice: 900},
	}, "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, wholesale))

	previous, err := wholesale.ReplaceItems([]trade.WholesaleItemInput{
		{ProductID: productID, ProductName: "Apples", Quantity: decimal.NewFromInt(9), UnitPrice: 1500},
	})
	require.NoError(t, err)

	oldIDs := make([]uuid.UUID, 0, len(previous))
	for _, item := range previous {
		oldIDs = append(oldIDs, item.ID)
	}
	require.NoError(t, repo.DeleteItems(ctx, wholesale.ID, oldIDs))
	require.NoError(t, repo.Save(ctx, wholesale))

	reloaded, err := repo.FindByID(ctx, wholesale.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Items, 1)
	assert.Equal(t, "9", reloaded.Items[0].Quantity.String())
	assert.Equal(t, int64(13500), reloaded.TotalPrice)
}
