package trade

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockroom/backend/internal/domain/shared"
)

func testOrderInputs() []PurchaseOrderItemInput {
	return []PurchaseOrderItemInput{
		{ProductID: uuid.New(), ProductName: "Apples", Quantity: decimal.NewFromInt(10), UnitPrice: 1200},
		{ProductID: uuid.New(), ProductName: "Pears", Quantity: decimal.NewFromInt(5), UnitPrice: 800},
	}
}

func createTestOrder(t *testing.T) *PurchaseOrder {
	t.Helper()
	order, err := NewPurchaseOrder(uuid.New(), uuid.New(), testOrderInputs(), nil, "")
	require.NoError(t, err)
	return order
}

func TestNewPurchaseOrder(t *testing.T) {
	t.Run("creates order with totals", func(t *testing.T) {
		order := createTestOrder(t)

		assert.Equal(t, PurchaseOrderStatusRequest, order.Status)
		require.Len(t, order.Items, 2)
		assert.Equal(t, int64(12000), order.Items[0].Amount)
		assert.Equal(t, int64(4000), order.Items[1].Amount)
		assert.Equal(t, int64(16000), order.TotalPrice)
		assert.Nil(t, order.ExpectedArrival)
	})

	t.Run("lead time fixes the expected arrival at creation", func(t *testing.T) {
		leadTime := 14
		order, err := NewPurchaseOrder(uuid.New(), uuid.New(), testOrderInputs(), &leadTime, "")
		require.NoError(t, err)

		require.NotNil(t, order.ExpectedArrival)
		expected := time.Now().AddDate(0, 0, leadTime)
		assert.WithinDuration(t, expected, *order.ExpectedArrival, time.Minute)

		// production start must not overwrite the fixed estimate
		require.NoError(t, order.StartProduction(30))
		assert.WithinDuration(t, expected, *order.ExpectedArrival, time.Minute)
	})

	t.Run("empty item list rejected before anything is built", func(t *testing.T) {
		order, err := NewPurchaseOrder(uuid.New(), uuid.New(), nil, nil, "")

		assert.ErrorIs(t, err, ErrOrderItemEmpty)
		assert.Nil(t, order)
	})

	t.Run("zero quantity item rejected", func(t *testing.T) {
		inputs := []PurchaseOrderItemInput{{ProductID: uuid.New(), ProductName: "Apples", Quantity: decimal.Zero, UnitPrice: 100}}

		_, err := NewPurchaseOrder(uuid.New(), uuid.New(), inputs, nil, "")

		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
	})
}

func TestPurchaseOrder_Lifecycle(t *testing.T) {
	t.Run("full happy path", func(t *testing.T) {
		order := createTestOrder(t)

		require.NoError(t, order.StartProduction(7))
		assert.Equal(t, PurchaseOrderStatusInProduction, order.Status)
		require.NotNil(t, order.ExpectedArrival)
		wantArrival := time.Now().AddDate(0, 0, 7)
		assert.WithinDuration(t, wantArrival, *order.ExpectedArrival, time.Minute)

		require.NoError(t, order.MarkPendingShipment())
		require.NoError(t, order.MarkDelivered())
		assert.Equal(t, PurchaseOrderStatusDelivered, order.Status)
	})

	t.Run("skipping a state is rejected", func(t *testing.T) {
		order := createTestOrder(t)

		err := order.MarkDelivered()

		require.Error(t, err)
		assert.Equal(t, PurchaseOrderStatusRequest, order.Status)
	})

	t.Run("cancel allowed from any non-delivered state", func(t *testing.T) {
		order := createTestOrder(t)
		require.NoError(t, order.StartProduction(3))
		require.NoError(t, order.MarkPendingShipment())

		require.NoError(t, order.Cancel())
		assert.Equal(t, PurchaseOrderStatusCanceled, order.Status)
	})

	t.Run("cancel after delivery rejected", func(t *testing.T) {
		order := createTestOrder(t)
		require.NoError(t, order.StartProduction(3))
		require.NoError(t, order.MarkPendingShipment())
		require.NoError(t, order.MarkDelivered())

		err := order.Cancel()

		assert.ErrorIs(t, err, ErrOrderAlreadyDelivered)
	})

	t.Run("double cancel rejected", func(t *testing.T) {
		order := createTestOrder(t)
		require.NoError(t, order.Cancel())

		err := order.Cancel()

		assert.ErrorIs(t, err, ErrOrderAlreadyCanceled)
	})
}

func TestPurchaseOrder_ChangeItemQuantity(t *testing.T) {
	t.Run("returns signed delta and recalculates totals", func(t *testing.T) {
		order := createTestOrder(t)
		itemID := order.Items[0].ID

		delta, err := order.ChangeItemQuantity(itemID, decimal.NewFromInt(15))

		require.NoError(t, err)
		assert.Equal(t, "5", delta.String())
		assert.Equal(t, int64(18000), order.Items[0].Amount)
		assert.Equal(t, int64(22000), order.TotalPrice)

		delta, err = order.ChangeItemQuantity(itemID, decimal.NewFromInt(8))
		require.NoError(t, err)
		assert.Equal(t, "-7", delta.String())
	})

	t.Run("rejected on terminal order", func(t *testing.T) {
		order := createTestOrder(t)
		require.NoError(t, order.Cancel())

		_, err := order.ChangeItemQuantity(order.Items[0].ID, decimal.NewFromInt(1))

		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("unknown item", func(t *testing.T) {
		order := createTestOrder(t)

		_, err := order.ChangeItemQuantity(uuid.New(), decimal.NewFromInt(1))

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestPurchaseOrder_ValidateStoreAccess(t *testing.T) {
	order := createTestOrder(t)

	assert.NoError(t, order.ValidateStoreAccess(order.StoreID))
	assert.ErrorIs(t, order.ValidateStoreAccess(uuid.New()), ErrOrderAccessDenied)
}
