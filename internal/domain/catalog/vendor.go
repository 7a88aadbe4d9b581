package catalog

import (
	"github.com/google/uuid"

	"github.com/stockroom/backend/internal/domain/shared"
)

// Vendor is a supplier that purchase orders are placed against.
// A vendor belongs to exactly one store.
type Vendor struct {
	shared.StoreAggregateRoot
	Name        string `gorm:"size:100;not null"`
	ContactName string `gorm:"size:100"`
	Phone       string `gorm:"size:30"`
	// LeadTimeDays is the default production lead time in days used to
	// project an order's expected arrival. Zero means unknown.
	LeadTimeDays int  `gorm:"not null;default:0"`
	Activated    bool `gorm:"not null;default:true"`
}

// TableName returns the database table name
func (Vendor) TableName() string {
	return "vendors"
}

// NewVendor creates an activated vendor under the given store
func NewVendor(storeID uuid.UUID, name, contactName, phone string, leadTimeDays int) (*Vendor, error) {
	if name == "" {
		return nil, shared.NewDomainError("VENDOR_NAME_REQUIRED", "Vendor name is required")
	}
	if leadTimeDays < 0 {
		return nil, shared.NewDomainError("INVALID_LEAD_TIME", "Lead time must not be negative")
	}
	return &Vendor{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Name:               name,
		ContactName:        contactName,
		Phone:              phone,
		LeadTimeDays:       leadTimeDays,
		Activated:          true,
	}, nil
}

// UpdateLeadTime changes the default production lead time
func (v *Vendor) UpdateLeadTime(days int) error {
	if days < 0 {
		return shared.NewDomainError("INVALID_LEAD_TIME", "Lead time must not be negative")
	}
	v.LeadTimeDays = days
	v.IncrementVersion()
	return nil
}
