package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/stockroom/backend/internal/domain/shared"
)

// StoreRepository defines the interface for store persistence
type StoreRepository interface {
	// FindByID finds a store by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Store, error)

	// FindAll finds stores matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Store, error)

	// Save creates or updates a store
	Save(ctx context.Context, store *Store) error
}

// VendorRepository defines the interface for vendor persistence
type VendorRepository interface {
	// FindByID finds a vendor by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Vendor, error)

	// FindByIDForStore finds a vendor by ID within a store
	FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*Vendor, error)

	// FindAllForStore finds all vendors belonging to a store
	FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]Vendor, error)

	// Save creates or updates a vendor
	Save(ctx context.Context, vendor *Vendor) error
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByIDForStore finds a product by ID within a store
	FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*Product, error)

	// FindByCode finds a product by its external code within a store
	FindByCode(ctx context.Context, storeID uuid.UUID, code string) (*Product, error)

	// FindByIDs finds multiple products by their IDs
	FindByIDs(ctx context.Context, storeID uuid.UUID, ids []uuid.UUID) ([]Product, error)

	// FindAllForStore finds all products belonging to a store
	FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]Product, error)

	// FindNeedingReview finds auto-provisioned products awaiting review
	FindNeedingReview(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// CountForStore counts products matching the filter
	CountForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (int64, error)
}
