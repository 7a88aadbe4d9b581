package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/stockroom/backend/internal/domain/shared"
)

// StockRecordRepository defines the interface for stock record persistence
type StockRecordRepository interface {
	// FindByID finds a stock record by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockRecord, error)

	// FindByProduct finds the single stock record of a product
	FindByProduct(ctx context.Context, productID uuid.UUID) (*StockRecord, error)

	// FindByProducts finds the stock records of multiple products
	FindByProducts(ctx context.Context, productIDs []uuid.UUID) ([]StockRecord, error)

	// FindAllForStore finds all stock records belonging to a store
	FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]StockRecord, error)

	// FindBelowTrigger finds records at or under their reorder trigger point
	FindBelowTrigger(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]StockRecord, error)

	// Save creates or updates a stock record
	Save(ctx context.Context, record *StockRecord) error

	// SaveWithLock saves with optimistic locking; returns
	// shared.ErrConcurrencyConflict when the version moved underneath
	SaveWithLock(ctx context.Context, record *StockRecord) error

	// CountForStore counts stock records matching the filter
	CountForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (int64, error)
}
