package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockroom/backend/internal/domain/shared"
)

// Receipt errors
var (
	ErrReceiptCreationNotAllowedFromOrder = shared.NewDomainError("RECEIPT_CREATION_NOT_ALLOWED_FROM_ORDER", "Receipts cannot be created from canceled orders")
	ErrReceiptAlreadyExists               = shared.NewDomainError("RECEIPT_ALREADY_EXISTS", "The order already has a receipt")
	ErrReceiptAccessDenied                = shared.NewDomainError("RECEIPT_ACCESS_DENIED", "Receipt belongs to another store")
	ErrReceiptAlreadyConfirmed            = shared.NewDomainError("RECEIPT_ALREADY_CONFIRMED", "Receipt is already confirmed")
	ErrReceiptAlreadyCanceled             = shared.NewDomainError("RECEIPT_ALREADY_CANCELED", "Receipt is already canceled")
)

// ReceiptStatus represents the lifecycle state of a receipt
type ReceiptStatus string

const (
	ReceiptStatusPending   ReceiptStatus = "PENDING"
	ReceiptStatusConfirmed ReceiptStatus = "CONFIRMED"
	ReceiptStatusCanceled  ReceiptStatus = "CANCELED"
)

// IsValid checks if the status is valid
func (s ReceiptStatus) IsValid() bool {
	switch s {
	case ReceiptStatusPending, ReceiptStatusConfirmed, ReceiptStatusCanceled:
		return true
	}
	return false
}

// Receipt reconciles what a purchase order promised against what was
// physically counted at the dock. Each order has at most one receipt.
// Confirmation is the single point where the warehouse is credited.
type Receipt struct {
	shared.StoreAggregateRoot
	PurchaseOrderID uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex"`
	Status          ReceiptStatus `gorm:"size:20;not null;default:'PENDING'"`
	ConfirmedAt     *time.Time
	Note            string `gorm:"size:500"`

	Items []ReceiptItem `gorm:"foreignKey:ReceiptID;references:ID"`
}

// TableName returns the table name for GORM
func (Receipt) TableName() string {
	return "receipts"
}

// ReceiptItem is one order line under reconciliation. ExpectedQuantity
// is copied from the order at creation and never changes afterwards;
// ActualQuantity stays nil until somebody counts the delivery.
type ReceiptItem struct {
	shared.BaseEntity
	ReceiptID        uuid.UUID        `gorm:"type:uuid;not null;index"`
	OrderItemID      uuid.UUID        `gorm:"type:uuid;not null"`
	ProductID        uuid.UUID        `gorm:"type:uuid;not null;index"`
	ProductName      string           `gorm:"size:150;not null"`
	ExpectedQuantity decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	ActualQuantity   *decimal.Decimal `gorm:"type:decimal(18,4)"`
	UnitPrice        int64            `gorm:"not null"`
	Amount           int64            `gorm:"not null"`
	ErrorRate        decimal.Decimal  `gorm:"type:decimal(10,3);not null;default:0"`
	Note             string           `gorm:"size:255"`
}

// TableName returns the table name for GORM
func (ReceiptItem) TableName() string {
	return "receipt_items"
}

// AppliedQuantity is the quantity the ledger is (or will be) credited
// with: the counted actual when present, the expected otherwise.
func (i *ReceiptItem) AppliedQuantity() decimal.Decimal {
	if i.ActualQuantity != nil {
		return *i.ActualQuantity
	}
	return i.ExpectedQuantity
}

// NewReceiptFromOrder creates a PENDING receipt mirroring the order's
// items. The ledger is untouched; only confirmation moves stock.
func NewReceiptFromOrder(order *PurchaseOrder) (*Receipt, error) {
	if order.Status == PurchaseOrderStatusCanceled {
		return nil, ErrReceiptCreationNotAllowedFromOrder
	}
	receipt := &Receipt{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(order.StoreID),
		PurchaseOrderID:    order.ID,
		Status:             ReceiptStatusPending,
		Items:              make([]ReceiptItem, 0, len(order.Items)),
	}
	for _, orderItem := range order.Items {
		item := ReceiptItem{
			BaseEntity:       shared.NewBaseEntity(),
			ReceiptID:        receipt.ID,
			OrderItemID:      orderItem.ID,
			ProductID:        orderItem.ProductID,
			ProductName:      orderItem.ProductName,
			ExpectedQuantity: orderItem.Quantity,
			UnitPrice:        orderItem.UnitPrice,
			Amount:           itemAmount(orderItem.Quantity, orderItem.UnitPrice),
			ErrorRate:        decimal.Zero,
		}
		receipt.Items = append(receipt.Items, item)
	}
	receipt.AddDomainEvent(NewReceiptCreatedEvent(receipt))
	return receipt, nil
}

// ValidateStoreAccess checks the receipt belongs to the given store
func (r *Receipt) ValidateStoreAccess(storeID uuid.UUID) error {
	if !r.BelongsTo(storeID) {
		return ErrReceiptAccessDenied
	}
	return nil
}

// IsConfirmed reports whether the receipt was confirmed
func (r *Receipt) IsConfirmed() bool {
	return r.Status == ReceiptStatusConfirmed
}

// CorrectItem records the counted quantity for one line and returns the
// quantity that was applied before the correction. On a confirmed
// receipt the caller settles the warehouse with the difference between
// the new and the returned value, which makes re-recording the same
// count a no-op.
func (r *Receipt) CorrectItem(itemID uuid.UUID, actual decimal.Decimal, note string) (decimal.Decimal, error) {
	if r.Status == ReceiptStatusCanceled {
		return decimal.Zero, ErrReceiptAlreadyCanceled
	}
	if actual.IsNegative() {
		return decimal.Zero, shared.ErrInvalidQuantity
	}
	for i := range r.Items {
		if r.Items[i].ID == itemID {
			previous := r.Items[i].AppliedQuantity()
			actualCopy := actual
			r.Items[i].ActualQuantity = &actualCopy
			r.Items[i].Amount = itemAmount(actual, r.Items[i].UnitPrice)
			r.Items[i].ErrorRate = errorRate(r.Items[i].ExpectedQuantity, actual)
			if note != "" {
				r.Items[i].Note = note
			}
			r.touch()
			return previous, nil
		}
	}
	return decimal.Zero, shared.ErrNotFound
}

// errorRate is (actual - expected) / expected to three decimal places
func errorRate(expected, actual decimal.Decimal) decimal.Decimal {
	if expected.IsZero() {
		return decimal.Zero
	}
	return actual.Sub(expected).Div(expected).Round(3)
}

// Confirm closes the reconciliation. The caller walks the items and
// credits the ledger with ConfirmIncoming(expected, applied) per line.
func (r *Receipt) Confirm() error {
	switch r.Status {
	case ReceiptStatusConfirmed:
		return ErrReceiptAlreadyConfirmed
	case ReceiptStatusCanceled:
		return ErrReceiptAlreadyCanceled
	}
	now := time.Now()
	r.Status = ReceiptStatusConfirmed
	r.ConfirmedAt = &now
	r.touch()
	r.AddDomainEvent(NewReceiptConfirmedEvent(r))
	return nil
}

// Cancel abandons a pending receipt. The caller releases the incoming
// reservations the underlying order still holds.
func (r *Receipt) Cancel() error {
	switch r.Status {
	case ReceiptStatusConfirmed:
		return ErrReceiptAlreadyConfirmed
	case ReceiptStatusCanceled:
		return ErrReceiptAlreadyCanceled
	}
	r.Status = ReceiptStatusCanceled
	r.touch()
	return nil
}

// FindItem returns the receipt line with the given ID
func (r *Receipt) FindItem(itemID uuid.UUID) (*ReceiptItem, error) {
	for i := range r.Items {
		if r.Items[i].ID == itemID {
			return &r.Items[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *Receipt) touch() {
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}
