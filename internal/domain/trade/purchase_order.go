package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockroom/backend/internal/domain/shared"
)

// Purchase order errors
var (
	ErrOrderItemEmpty        = shared.NewDomainError("ORDER_ITEM_EMPTY", "Purchase order must contain at least one item")
	ErrOrderAccessDenied     = shared.NewDomainError("ORDER_ACCESS_DENIED", "Purchase order belongs to another store")
	ErrVendorAccessDenied    = shared.NewDomainError("VENDOR_ACCESS_DENIED", "Vendor belongs to another store")
	ErrOrderAlreadyDelivered = shared.NewDomainError("ORDER_ALREADY_DELIVERED", "Delivered orders cannot be changed")
	ErrOrderAlreadyCanceled  = shared.NewDomainError("ORDER_ALREADY_CANCELED", "Canceled orders cannot be changed")
)

// PurchaseOrderStatus represents the lifecycle state of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusRequest         PurchaseOrderStatus = "REQUEST"
	PurchaseOrderStatusInProduction    PurchaseOrderStatus = "IN_PRODUCTION"
	PurchaseOrderStatusPendingShipment PurchaseOrderStatus = "PENDING_SHIPMENT"
	PurchaseOrderStatusDelivered       PurchaseOrderStatus = "DELIVERED"
	PurchaseOrderStatusCanceled        PurchaseOrderStatus = "CANCELED"
)

// IsValid checks if the status is valid
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusRequest, PurchaseOrderStatusInProduction,
		PurchaseOrderStatusPendingShipment, PurchaseOrderStatusDelivered,
		PurchaseOrderStatusCanceled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions are possible
func (s PurchaseOrderStatus) IsTerminal() bool {
	return s == PurchaseOrderStatusDelivered || s == PurchaseOrderStatusCanceled
}

// CanTransitionTo checks if transition to target status is allowed.
// Cancellation is reachable from every state except DELIVERED.
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	if target == PurchaseOrderStatusCanceled {
		return s != PurchaseOrderStatusDelivered && s != PurchaseOrderStatusCanceled
	}
	transitions := map[PurchaseOrderStatus][]PurchaseOrderStatus{
		PurchaseOrderStatusRequest:         {PurchaseOrderStatusInProduction},
		PurchaseOrderStatusInProduction:    {PurchaseOrderStatusPendingShipment},
		PurchaseOrderStatusPendingShipment: {PurchaseOrderStatusDelivered},
	}
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// PurchaseOrder is an order placed with a vendor to replenish stock.
// Creating one reserves incoming stock per item; cancellation releases
// it. The warehouse is only credited through the order's receipt.
type PurchaseOrder struct {
	shared.StoreAggregateRoot
	VendorID        uuid.UUID           `gorm:"type:uuid;not null;index"`
	Status          PurchaseOrderStatus `gorm:"size:20;not null;default:'REQUEST'"`
	OrderedAt       time.Time           `gorm:"not null"`
	ExpectedArrival *time.Time
	Note            string `gorm:"size:500"`
	TotalPrice      int64  `gorm:"not null;default:0"`

	Items []PurchaseOrderItem `gorm:"foreignKey:PurchaseOrderID;references:ID"`
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// PurchaseOrderItem is a single product line on a purchase order
type PurchaseOrderItem struct {
	shared.BaseEntity
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName     string          `gorm:"size:150;not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice       int64           `gorm:"not null"`
	Amount          int64           `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// PurchaseOrderItemInput carries the data needed to build an order line
type PurchaseOrderItemInput struct {
	ProductID   uuid.UUID
	ProductName string
	Quantity    decimal.Decimal
	UnitPrice   int64
}

// NewPurchaseOrder creates an order in REQUEST state. The item list must
// not be empty; this is checked before anything is built. A lead time in
// days projects the expected arrival from today; without one the arrival
// stays open until production starts.
func NewPurchaseOrder(storeID, vendorID uuid.UUID, inputs []PurchaseOrderItemInput, leadTimeDays *int, note string) (*PurchaseOrder, error) {
	if len(inputs) == 0 {
		return nil, ErrOrderItemEmpty
	}
	order := &PurchaseOrder{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		VendorID:           vendorID,
		Status:             PurchaseOrderStatusRequest,
		OrderedAt:          time.Now(),
		Note:               note,
		Items:              make([]PurchaseOrderItem, 0, len(inputs)),
	}
	if leadTimeDays != nil && *leadTimeDays > 0 {
		arrival := time.Now().AddDate(0, 0, *leadTimeDays)
		order.ExpectedArrival = &arrival
	}
	for _, input := range inputs {
		if input.Quantity.IsNegative() || input.Quantity.IsZero() {
			return nil, shared.ErrInvalidQuantity
		}
		item := PurchaseOrderItem{
			BaseEntity:      shared.NewBaseEntity(),
			PurchaseOrderID: order.ID,
			ProductID:       input.ProductID,
			ProductName:     input.ProductName,
			Quantity:        input.Quantity,
			UnitPrice:       input.UnitPrice,
			Amount:          itemAmount(input.Quantity, input.UnitPrice),
		}
		order.Items = append(order.Items, item)
	}
	order.recalculateTotal()
	order.AddDomainEvent(NewPurchaseOrderCreatedEvent(order))
	return order, nil
}

func itemAmount(quantity decimal.Decimal, unitPrice int64) int64 {
	return quantity.Mul(decimal.NewFromInt(unitPrice)).Round(0).IntPart()
}

func (o *PurchaseOrder) recalculateTotal() {
	var total int64
	for _, item := range o.Items {
		total += item.Amount
	}
	o.TotalPrice = total
}

// ValidateStoreAccess checks the order belongs to the given store
func (o *PurchaseOrder) ValidateStoreAccess(storeID uuid.UUID) error {
	if !o.BelongsTo(storeID) {
		return ErrOrderAccessDenied
	}
	return nil
}

// StartProduction moves the order to IN_PRODUCTION. An arrival estimate
// fixed at creation is kept; otherwise the vendor's lead time in days
// projects one now.
func (o *PurchaseOrder) StartProduction(leadTimeDays int) error {
	if err := o.transitionTo(PurchaseOrderStatusInProduction); err != nil {
		return err
	}
	if o.ExpectedArrival == nil && leadTimeDays > 0 {
		arrival := time.Now().AddDate(0, 0, leadTimeDays)
		o.ExpectedArrival = &arrival
	}
	o.touch()
	return nil
}

// MarkPendingShipment records that the vendor finished production
func (o *PurchaseOrder) MarkPendingShipment() error {
	if err := o.transitionTo(PurchaseOrderStatusPendingShipment); err != nil {
		return err
	}
	o.touch()
	return nil
}

// MarkDelivered closes the order after the goods arrived. Ledger credit
// happens through the receipt, not here.
func (o *PurchaseOrder) MarkDelivered() error {
	if err := o.transitionTo(PurchaseOrderStatusDelivered); err != nil {
		return err
	}
	o.touch()
	return nil
}

// Cancel terminates the order. The caller releases the incoming
// reservations of every item.
func (o *PurchaseOrder) Cancel() error {
	if o.Status == PurchaseOrderStatusDelivered {
		return ErrOrderAlreadyDelivered
	}
	if o.Status == PurchaseOrderStatusCanceled {
		return ErrOrderAlreadyCanceled
	}
	o.Status = PurchaseOrderStatusCanceled
	o.touch()
	o.AddDomainEvent(NewPurchaseOrderCanceledEvent(o))
	return nil
}

// ChangeItemQuantity updates one line and returns the signed quantity
// delta the caller applies to the product's incoming reservation.
func (o *PurchaseOrder) ChangeItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) (decimal.Decimal, error) {
	if o.Status.IsTerminal() {
		return decimal.Zero, shared.ErrInvalidState
	}
	if quantity.IsNegative() || quantity.IsZero() {
		return decimal.Zero, shared.ErrInvalidQuantity
	}
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			delta := quantity.Sub(o.Items[i].Quantity)
			o.Items[i].Quantity = quantity
			o.Items[i].Amount = itemAmount(quantity, o.Items[i].UnitPrice)
			o.recalculateTotal()
			o.touch()
			return delta, nil
		}
	}
	return decimal.Zero, shared.ErrNotFound
}

// FindItem returns the order line with the given ID
func (o *PurchaseOrder) FindItem(itemID uuid.UUID) (*PurchaseOrderItem, error) {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return &o.Items[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

func (o *PurchaseOrder) transitionTo(target PurchaseOrderStatus) error {
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			"Cannot transition purchase order from "+string(o.Status)+" to "+string(target))
	}
	o.Status = target
	return nil
}

func (o *PurchaseOrder) touch() {
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}
