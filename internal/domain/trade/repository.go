package trade

import (
	"context"

	"github.com/google/uuid"

	"github.com/stockroom/backend/internal/domain/shared"
)

// PurchaseOrderRepository defines the interface for purchase order persistence
type PurchaseOrderRepository interface {
	// FindByID finds an order with its items by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseOrder, error)

	// FindByIDForStore finds an order by ID within a store
	FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*PurchaseOrder, error)

	// FindAllForStore finds all orders belonging to a store
	FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, error)

	// FindByStatus finds orders in a given status within a store
	FindByStatus(ctx context.Context, storeID uuid.UUID, status PurchaseOrderStatus, filter shared.Filter) ([]PurchaseOrder, error)

	// Save creates or updates an order with its items
	Save(ctx context.Context, order *PurchaseOrder) error

	// CountForStore counts orders matching the filter
	CountForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (int64, error)
}

// ReceiptRepository defines the interface for receipt persistence
type ReceiptRepository interface {
	// FindByID finds a receipt with its items by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Receipt, error)

	// FindByIDForStore finds a receipt by ID within a store
	FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*Receipt, error)

	// FindByOrder finds the receipt of a purchase order, if any
	FindByOrder(ctx context.Context, purchaseOrderID uuid.UUID) (*Receipt, error)

	// FindAllForStore finds all receipts belonging to a store
	FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]Receipt, error)

	// Save creates or updates a receipt with its items
	Save(ctx context.Context, receipt *Receipt) error
}

// WholesaleRepository defines the interface for wholesale order persistence
type WholesaleRepository interface {
	// FindByID finds a wholesale order with its items by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Wholesale, error)

	// FindByIDForStore finds a wholesale order by ID within a store
	FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*Wholesale, error)

	// FindByExternalOrderID finds the local order ingested for a remote
	// order ID; returns shared.ErrNotFound when it was never seen
	FindByExternalOrderID(ctx context.Context, externalOrderID string) (*Wholesale, error)

	// FindAllForStore finds all wholesale orders belonging to a store
	FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]Wholesale, error)

	// FindByStatus finds wholesale orders in a given status within a store
	FindByStatus(ctx context.Context, storeID uuid.UUID, status WholesaleStatus, filter shared.Filter) ([]Wholesale, error)

	// Save creates or updates a wholesale order with its items
	Save(ctx context.Context, wholesale *Wholesale) error

	// DeleteItems removes the given item rows; used when a PENDING
	// order's line-up is replaced
	DeleteItems(ctx context.Context, wholesaleID uuid.UUID, itemIDs []uuid.UUID) error

	// CountForStore counts wholesale orders matching the filter
	CountForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (int64, error)
}
