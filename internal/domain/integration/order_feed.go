package integration

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// OrderFeed Errors
// ---------------------------------------------------------------------------

var (
	ErrFeedNotConfigured   = errors.New("integration: feed account not configured")
	ErrFeedUnavailable     = errors.New("integration: feed temporarily unavailable")
	ErrFeedRequestFailed   = errors.New("integration: feed request failed")
	ErrFeedInvalidResponse = errors.New("integration: invalid feed response")
	ErrFeedAuthFailed      = errors.New("integration: feed authentication failed")
	ErrFeedTokenExpired    = errors.New("integration: feed token expired")
	ErrFeedRateLimited     = errors.New("integration: feed rate limited")
	ErrFeedOrderNotFound   = errors.New("integration: remote order not found")
)

// IsTransientFeedError reports whether an error is worth retrying on the
// next poll rather than surfacing as a hard failure
func IsTransientFeedError(err error) bool {
	return errors.Is(err, ErrFeedUnavailable) ||
		errors.Is(err, ErrFeedRateLimited) ||
		errors.Is(err, ErrFeedRequestFailed)
}

// ---------------------------------------------------------------------------
// RemoteOrderStatus
// ---------------------------------------------------------------------------

// RemoteOrderStatus is the payment/fulfillment state a remote shop
// reports for an order
type RemoteOrderStatus string

const (
	// RemoteOrderStatusUnpaid indicates the buyer placed the order but
	// payment has not cleared
	RemoteOrderStatusUnpaid RemoteOrderStatus = "UNPAID"
	// RemoteOrderStatusPaid indicates payment cleared, pending shipment
	RemoteOrderStatusPaid RemoteOrderStatus = "PAID"
	// RemoteOrderStatusCanceled indicates the buyer or shop canceled
	RemoteOrderStatusCanceled RemoteOrderStatus = "CANCELED"
)

// IsValid returns true if the status is valid
func (s RemoteOrderStatus) IsValid() bool {
	switch s {
	case RemoteOrderStatusUnpaid, RemoteOrderStatusPaid, RemoteOrderStatusCanceled:
		return true
	default:
		return false
	}
}

// String returns the string representation
func (s RemoteOrderStatus) String() string {
	return string(s)
}

// ---------------------------------------------------------------------------
// Remote order value objects
// ---------------------------------------------------------------------------

// RemoteOrder is an order as the feed reports it. It is a read-only
// snapshot; the ingestion service decides what to do with it.
type RemoteOrder struct {
	OrderID   string            `json:"order_id"`
	Status    RemoteOrderStatus `json:"status"`
	Buyer     string            `json:"buyer"`
	OrderedAt time.Time         `json:"ordered_at"`
	PaidAt    *time.Time        `json:"paid_at,omitempty"`
	Items     []RemoteOrderItem `json:"items"`
}

// RemoteOrderItem is one product line of a remote order. ProductCode is
// matched against the local catalog; unknown codes get a placeholder
// product provisioned.
type RemoteOrderItem struct {
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   int64           `json:"unit_price"`
}

// Validate checks the remote order carries the minimum usable data
func (o *RemoteOrder) Validate() error {
	if o.OrderID == "" {
		return errors.New("integration: remote order has no ID")
	}
	if !o.Status.IsValid() {
		return errors.New("integration: remote order has unknown status " + string(o.Status))
	}
	if len(o.Items) == 0 {
		return errors.New("integration: remote order has no items")
	}
	for _, item := range o.Items {
		if item.ProductCode == "" {
			return errors.New("integration: remote order item has no product code")
		}
		if !item.Quantity.IsPositive() {
			return errors.New("integration: remote order item quantity must be positive")
		}
	}
	return nil
}

// OrderPullRequest describes one fetch against the feed
type OrderPullRequest struct {
	AccountID string
	Statuses  []RemoteOrderStatus
	Since     time.Time
	Until     time.Time
	Limit     int
}

// Validate checks the pull request parameters
func (r *OrderPullRequest) Validate() error {
	if r.AccountID == "" {
		return ErrFeedNotConfigured
	}
	if !r.Until.IsZero() && r.Until.Before(r.Since) {
		return errors.New("integration: pull window ends before it starts")
	}
	if r.Limit < 0 {
		return errors.New("integration: pull limit must not be negative")
	}
	return nil
}

// ---------------------------------------------------------------------------
// OrderFeed port
// ---------------------------------------------------------------------------

// OrderFeed is the port to a remote shop's order API. Implementations
// live in infrastructure; the ingestion service depends only on this.
type OrderFeed interface {
	// FetchOrders pulls orders matching the request. The result is a
	// snapshot; calling twice may return overlapping sets.
	FetchOrders(ctx context.Context, req OrderPullRequest) ([]RemoteOrder, error)

	// FetchOrderDetail pulls one order by its remote ID
	FetchOrderDetail(ctx context.Context, accountID, orderID string) (*RemoteOrder, error)
}
