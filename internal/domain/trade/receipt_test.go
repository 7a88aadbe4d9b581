package trade

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockroom/backend/internal/domain/shared"
)

func createTestReceipt(t *testing.T) *Receipt {
	t.Helper()
	order := createTestOrder(t)
	receipt, err := NewReceiptFromOrder(order)
	require.NoError(t, err)
	return receipt
}

func TestNewReceiptFromOrder(t *testing.T) {
	t.Run("copies expected quantities from order items", func(t *testing.T) {
		order := createTestOrder(t)

		receipt, err := NewReceiptFromOrder(order)

		require.NoError(t, err)
		assert.Equal(t, order.ID, receipt.PurchaseOrderID)
		assert.Equal(t, order.StoreID, receipt.StoreID)
		assert.Equal(t, ReceiptStatusPending, receipt.Status)
		require.Len(t, receipt.Items, 2)
		for i, item := range receipt.Items {
			assert.Equal(t, order.Items[i].ID, item.OrderItemID)
			assert.True(t, item.ExpectedQuantity.Equal(order.Items[i].Quantity))
			assert.Nil(t, item.ActualQuantity)
		}
	})

	t.Run("refused for canceled orders", func(t *testing.T) {
		order := createTestOrder(t)
		require.NoError(t, order.Cancel())

		receipt, err := NewReceiptFromOrder(order)

		assert.ErrorIs(t, err, ErrReceiptCreationNotAllowedFromOrder)
		assert.Nil(t, receipt)
	})
}

func TestReceipt_CorrectItem(t *testing.T) {
	t.Run("records actual and derives error rate", func(t *testing.T) {
		receipt := createTestReceipt(t)
		item := receipt.Items[0] // expected 10 at 1200

		previous, err := receipt.CorrectItem(item.ID, decimal.NewFromInt(8), "two crates damaged")

		require.NoError(t, err)
		assert.Equal(t, "10", previous.String())
		corrected, err := receipt.FindItem(item.ID)
		require.NoError(t, err)
		require.NotNil(t, corrected.ActualQuantity)
		assert.Equal(t, "8", corrected.ActualQuantity.String())
		assert.Equal(t, int64(9600), corrected.Amount)
		assert.Equal(t, "-0.2", corrected.ErrorRate.String())
		assert.Equal(t, "two crates damaged", corrected.Note)
	})

	t.Run("second correction returns previously applied quantity", func(t *testing.T) {
		receipt := createTestReceipt(t)
		itemID := receipt.Items[0].ID

		_, err := receipt.CorrectItem(itemID, decimal.NewFromInt(8), "")
		require.NoError(t, err)

		previous, err := receipt.CorrectItem(itemID, decimal.NewFromInt(9), "")
		require.NoError(t, err)
		assert.Equal(t, "8", previous.String())

		// Re-recording the same count: delta against previous is zero.
		previous, err = receipt.CorrectItem(itemID, decimal.NewFromInt(9), "")
		require.NoError(t, err)
		assert.Equal(t, "9", previous.String())
	})

	t.Run("negative actual rejected", func(t *testing.T) {
		receipt := createTestReceipt(t)

		_, err := receipt.CorrectItem(receipt.Items[0].ID, decimal.NewFromInt(-1), "")

		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
	})

	t.Run("rejected on canceled receipt", func(t *testing.T) {
		receipt := createTestReceipt(t)
		require.NoError(t, receipt.Cancel())

		_, err := receipt.CorrectItem(receipt.Items[0].ID, decimal.NewFromInt(1), "")

		assert.ErrorIs(t, err, ErrReceiptAlreadyCanceled)
	})
}

func TestReceipt_Confirm(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		receipt := createTestReceipt(t)

		require.NoError(t, receipt.Confirm())

		assert.Equal(t, ReceiptStatusConfirmed, receipt.Status)
		assert.NotNil(t, receipt.ConfirmedAt)
	})

	t.Run("double confirm rejected", func(t *testing.T) {
		receipt := createTestReceipt(t)
		require.NoError(t, receipt.Confirm())

		assert.ErrorIs(t, receipt.Confirm(), ErrReceiptAlreadyConfirmed)
	})

	t.Run("confirm after cancel rejected", func(t *testing.T) {
		receipt := createTestReceipt(t)
		require.NoError(t, receipt.Cancel())

		assert.ErrorIs(t, receipt.Confirm(), ErrReceiptAlreadyCanceled)
	})
}

func TestReceiptItem_AppliedQuantity(t *testing.T) {
	receipt := createTestReceipt(t)
	item := &receipt.Items[0]

	assert.Equal(t, "10", item.AppliedQuantity().String())

	actual := decimal.NewFromInt(7)
	item.ActualQuantity = &actual
	assert.Equal(t, "7", item.AppliedQuantity().String())
}
