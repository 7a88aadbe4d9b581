package integration

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRemoteOrder() RemoteOrder {
	return RemoteOrder{
		OrderID:   "20260901-0000123",
		Status:    RemoteOrderStatusPaid,
		Buyer:     "Acme Mart",
		OrderedAt: time.Now(),
		Items: []RemoteOrderItem{
			{ProductCode: "SKU-001", ProductName: "Apples", Quantity: decimal.NewFromInt(3), UnitPrice: 1500},
		},
	}
}

func TestRemoteOrder_Validate(t *testing.T) {
	t.Run("valid order passes", func(t *testing.T) {
		order := validRemoteOrder()
		assert.NoError(t, order.Validate())
	})

	t.Run("missing order ID", func(t *testing.T) {
		order := validRemoteOrder()
		order.OrderID = ""
		require.Error(t, order.Validate())
	})

	t.Run("unknown status", func(t *testing.T) {
		order := validRemoteOrder()
		order.Status = "SHRUGGING"
		require.Error(t, order.Validate())
	})

	t.Run("no items", func(t *testing.T) {
		order := validRemoteOrder()
		order.Items = nil
		require.Error(t, order.Validate())
	})

	t.Run("zero quantity item", func(t *testing.T) {
		order := validRemoteOrder()
		order.Items[0].Quantity = decimal.Zero
		require.Error(t, order.Validate())
	})
}

func TestOrderPullRequest_Validate(t *testing.T) {
	t.Run("account required", func(t *testing.T) {
		req := OrderPullRequest{}
		assert.ErrorIs(t, req.Validate(), ErrFeedNotConfigured)
	})

	t.Run("window must be ordered", func(t *testing.T) {
		now := time.Now()
		req := OrderPullRequest{AccountID: "shop-1", Since: now, Until: now.Add(-time.Hour)}
		require.Error(t, req.Validate())
	})

	t.Run("valid request", func(t *testing.T) {
		req := OrderPullRequest{AccountID: "shop-1", Since: time.Now().Add(-time.Hour)}
		assert.NoError(t, req.Validate())
	})
}

func TestIsTransientFeedError(t *testing.T) {
	assert.True(t, IsTransientFeedError(ErrFeedUnavailable))
	assert.True(t, IsTransientFeedError(ErrFeedRateLimited))
	assert.False(t, IsTransientFeedError(ErrFeedAuthFailed))
	assert.False(t, IsTransientFeedError(nil))
}

func TestFeedToken(t *testing.T) {
	token := NewFeedToken("shop-1", "access", "refresh", time.Now().Add(30*time.Minute))

	assert.False(t, token.IsExpiringWithin(10*time.Minute))
	assert.True(t, token.IsExpiringWithin(time.Hour))

	token.Rotate("access2", "", time.Now().Add(2*time.Hour))
	assert.Equal(t, "access2", token.AccessToken)
	assert.Equal(t, "refresh", token.RefreshToken)
	assert.False(t, token.IsExpiringWithin(time.Hour))
}
