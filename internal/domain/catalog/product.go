package catalog

import (
	"github.com/google/uuid"

	"github.com/stockroom/backend/internal/domain/shared"
)

// Product errors
var (
	ErrProductAccessDenied = shared.NewDomainError("PRODUCT_ACCESS_DENIED", "Product belongs to another store")
)

// Product is a sellable item supplied by a vendor. Code is the external
// identifier used to match remote order lines; it is unique per store.
type Product struct {
	shared.StoreAggregateRoot
	VendorID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Name           string    `gorm:"size:150;not null"`
	Code           string    `gorm:"size:64;not null;uniqueIndex:idx_products_store_code,priority:2"`
	Unit           string    `gorm:"size:20;not null;default:'EA'"`
	CostPrice      int64     `gorm:"not null;default:0"`
	RetailPrice    int64     `gorm:"not null;default:0"`
	WholesalePrice int64     `gorm:"not null;default:0"`
	Activated      bool      `gorm:"not null;default:true"`
	// NeedsReview marks products auto-provisioned from a remote order
	// feed; an operator has to fill in real pricing before they are
	// trusted.
	NeedsReview bool `gorm:"not null;default:false"`
}

// TableName returns the database table name
func (Product) TableName() string {
	return "products"
}

// NewProduct creates an activated product under the given store and vendor
func NewProduct(storeID, vendorID uuid.UUID, name, code, unit string, costPrice, retailPrice, wholesalePrice int64) (*Product, error) {
	if name == "" {
		return nil, shared.NewDomainError("PRODUCT_NAME_REQUIRED", "Product name is required")
	}
	if code == "" {
		return nil, shared.NewDomainError("PRODUCT_CODE_REQUIRED", "Product code is required")
	}
	if unit == "" {
		unit = "EA"
	}
	if costPrice < 0 || retailPrice < 0 || wholesalePrice < 0 {
		return nil, shared.NewDomainError("INVALID_PRICE", "Prices must not be negative")
	}
	return &Product{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		VendorID:           vendorID,
		Name:               name,
		Code:               code,
		Unit:               unit,
		CostPrice:          costPrice,
		RetailPrice:        retailPrice,
		WholesalePrice:     wholesalePrice,
		Activated:          true,
	}, nil
}

// NewPlaceholderProduct creates a product from a remote order line that
// matched nothing in the catalog. It carries zero prices and is flagged
// for operator review.
func NewPlaceholderProduct(storeID, vendorID uuid.UUID, name, code string) (*Product, error) {
	p, err := NewProduct(storeID, vendorID, name, code, "EA", 0, 0, 0)
	if err != nil {
		return nil, err
	}
	p.NeedsReview = true
	return p, nil
}

// ValidateStoreAccess checks the product belongs to the given store
func (p *Product) ValidateStoreAccess(storeID uuid.UUID) error {
	if !p.BelongsTo(storeID) {
		return ErrProductAccessDenied
	}
	return nil
}

// MarkReviewed clears the review flag after an operator fixed the record
func (p *Product) MarkReviewed() {
	p.NeedsReview = false
	p.IncrementVersion()
}

// UpdatePrices replaces the three price points
func (p *Product) UpdatePrices(costPrice, retailPrice, wholesalePrice int64) error {
	if costPrice < 0 || retailPrice < 0 || wholesalePrice < 0 {
		return shared.NewDomainError("INVALID_PRICE", "Prices must not be negative")
	}
	p.CostPrice = costPrice
	p.RetailPrice = retailPrice
	p.WholesalePrice = wholesalePrice
	p.IncrementVersion()
	return nil
}

// Deactivate marks the product inactive
func (p *Product) Deactivate() {
	p.Activated = false
	p.IncrementVersion()
}
