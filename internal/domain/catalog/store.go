package catalog

import (
	"github.com/stockroom/backend/internal/domain/shared"
)

// Store represents an operating unit that owns products, stock records
// and trade documents. Everything store-scoped is checked against it.
type Store struct {
	shared.BaseAggregateRoot
	Name      string `gorm:"size:100;not null"`
	Address   string `gorm:"size:255"`
	Phone     string `gorm:"size:30"`
	Activated bool   `gorm:"not null;default:true"`
}

// TableName returns the database table name
func (Store) TableName() string {
	return "stores"
}

// NewStore creates an activated store
func NewStore(name, address, phone string) (*Store, error) {
	if name == "" {
		return nil, shared.NewDomainError("STORE_NAME_REQUIRED", "Store name is required")
	}
	return &Store{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Address:           address,
		Phone:             phone,
		Activated:         true,
	}, nil
}

// Deactivate marks the store inactive
func (s *Store) Deactivate() {
	s.Activated = false
	s.IncrementVersion()
}
