package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stockroom/backend/internal/domain/catalog"
	"github.com/stockroom/backend/internal/domain/integration"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/trade"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalog.Store{},
		&catalog.Vendor{},
		&catalog.Product{},
		&inventory.StockRecord{},
		&trade.PurchaseOrder{},
		&trade.PurchaseOrderItem{},
		&trade.Receipt{},
		&trade.ReceiptItem{},
		&trade.Wholesale{},
		&trade.WholesaleItem{},
		&integration.FeedToken{},
	))
	return db
}

func TestGormStockRecordRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStockRecordRepository(db)
	ctx := context.Background()

	record, err := inventory.NewStockRecord(uuid.New(), uuid.New())
	require.NoError(t, err)
	require.NoError(t, record.IncreaseWarehouse(decimal.NewFromInt(10)))

	require.NoError(t, repo.Save(ctx, record))

	found, err := repo.FindByProduct(ctx, record.ProductID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, found.ID)
	assert.Equal(t, "10", found.WarehouseStock.String())

	_, err = repo.FindByProduct(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormStockRecordRepository_SaveWithLock(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStockRecordRepository(db)
	ctx := context.Background()

	record, err := inventory.NewStockRecord(uuid.New(), uuid.New())
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, record))

	t.Run("succeeds when version matches", func(t *testing.T) {
		fresh, err := repo.FindByID(ctx, record.ID)
		require.NoError(t, err)
		require.NoError(t, fresh.IncreaseWarehouse(decimal.NewFromInt(5)))

		require.NoError(t, repo.SaveWithLock(ctx, fresh))

		reloaded, err := repo.FindByID(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, "5", reloaded.WarehouseStock.String())
		assert.Equal(t, fresh.Version, reloaded.Version)
	})

	t.Run("conflicts when another writer moved the version", func(t *testing.T) {
		first, err := repo.FindByID(ctx, record.ID)
		require.NoError(t, err)
		second, err := repo.FindByID(ctx, record.ID)
		require.NoError(t, err)

		require.NoError(t, first.IncreaseWarehouse(decimal.NewFromInt(1)))
		require.NoError(t, repo.SaveWithLock(ctx, first))

		require.NoError(t, second.IncreaseWarehouse(decimal.NewFromInt(1)))
		err = repo.SaveWithLock(ctx, second)

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}

func TestGormStockRecordRepository_FindBelowTrigger(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormStockRecordRepository(db)
	ctx := context.Background()
	storeID := uuid.New()

	low, err := inventory.NewStockRecord(storeID, uuid.New())
	require.NoError(t, err)
	require.NoError(t, low.UpdateManually(decimal.Zero, decimal.NewFromInt(2), decimal.NewFromInt(5)))
	require.NoError(t, repo.Save(ctx, low))

	healthy, err := inventory.NewStockRecord(storeID, uuid.New())
	require.NoError(t, err)
	require.NoError(t, healthy.UpdateManually(decimal.Zero, decimal.NewFromInt(50), decimal.NewFromInt(5)))
	require.NoError(t, repo.Save(ctx, healthy))

	records, err := repo.FindBelowTrigger(ctx, storeID, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, low.ID, records[0].ID)
}
