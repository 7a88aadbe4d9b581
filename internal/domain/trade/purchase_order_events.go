package trade

import (
	"github.com/google/uuid"

	"github.com/stockroom/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypePurchaseOrder = "PurchaseOrder"
	AggregateTypeReceipt       = "Receipt"
	AggregateTypeWholesale     = "Wholesale"
)

// Event type constants
const (
	EventTypePurchaseOrderCreated  = "PurchaseOrderCreated"
	EventTypePurchaseOrderCanceled = "PurchaseOrderCanceled"
	EventTypeReceiptCreated        = "ReceiptCreated"
	EventTypeReceiptConfirmed      = "ReceiptConfirmed"
	EventTypeWholesaleCreated      = "WholesaleCreated"
	EventTypeWholesaleConfirmed    = "WholesaleConfirmed"
	EventTypeWholesaleCanceled     = "WholesaleCanceled"
)

// PurchaseOrderCreatedEvent is raised when an order is placed with a vendor
type PurchaseOrderCreatedEvent struct {
	shared.BaseDomainEvent
	VendorID   uuid.UUID `json:"vendor_id"`
	ItemCount  int       `json:"item_count"`
	TotalPrice int64     `json:"total_price"`
}

// NewPurchaseOrderCreatedEvent creates a new PurchaseOrderCreatedEvent
func NewPurchaseOrderCreatedEvent(order *PurchaseOrder) *PurchaseOrderCreatedEvent {
	return &PurchaseOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCreated, AggregateTypePurchaseOrder, order.ID, order.StoreID),
		VendorID:        order.VendorID,
		ItemCount:       len(order.Items),
		TotalPrice:      order.TotalPrice,
	}
}

// PurchaseOrderCanceledEvent is raised when an order is canceled
type PurchaseOrderCanceledEvent struct {
	shared.BaseDomainEvent
	VendorID uuid.UUID `json:"vendor_id"`
}

// NewPurchaseOrderCanceledEvent creates a new PurchaseOrderCanceledEvent
func NewPurchaseOrderCanceledEvent(order *PurchaseOrder) *PurchaseOrderCanceledEvent {
	return &PurchaseOrderCanceledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePurchaseOrderCanceled, AggregateTypePurchaseOrder, order.ID, order.StoreID),
		VendorID:        order.VendorID,
	}
}

// ReceiptCreatedEvent is raised when a receipt is opened for an order
type ReceiptCreatedEvent struct {
	shared.BaseDomainEvent
	PurchaseOrderID uuid.UUID `json:"purchase_order_id"`
	ItemCount       int       `json:"item_count"`
}

// NewReceiptCreatedEvent creates a new ReceiptCreatedEvent
func NewReceiptCreatedEvent(receipt *Receipt) *ReceiptCreatedEvent {
	return &ReceiptCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceiptCreated, AggregateTypeReceipt, receipt.ID, receipt.StoreID),
		PurchaseOrderID: receipt.PurchaseOrderID,
		ItemCount:       len(receipt.Items),
	}
}

// ReceiptConfirmedEvent is raised when reconciliation closes
type ReceiptConfirmedEvent struct {
	shared.BaseDomainEvent
	PurchaseOrderID uuid.UUID `json:"purchase_order_id"`
}

// NewReceiptConfirmedEvent creates a new ReceiptConfirmedEvent
func NewReceiptConfirmedEvent(receipt *Receipt) *ReceiptConfirmedEvent {
	return &ReceiptConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReceiptConfirmed, AggregateTypeReceipt, receipt.ID, receipt.StoreID),
		PurchaseOrderID: receipt.PurchaseOrderID,
	}
}

// WholesaleCreatedEvent is raised when a wholesale order is registered
type WholesaleCreatedEvent struct {
	shared.BaseDomainEvent
	Status          WholesaleStatus `json:"status"`
	ExternalOrderID string          `json:"external_order_id,omitempty"`
	ItemCount       int             `json:"item_count"`
}

// NewWholesaleCreatedEvent creates a new WholesaleCreatedEvent
func NewWholesaleCreatedEvent(wholesale *Wholesale) *WholesaleCreatedEvent {
	externalID := ""
	if wholesale.ExternalOrderID != nil {
		externalID = *wholesale.ExternalOrderID
	}
	return &WholesaleCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWholesaleCreated, AggregateTypeWholesale, wholesale.ID, wholesale.StoreID),
		Status:          wholesale.Status,
		ExternalOrderID: externalID,
		ItemCount:       len(wholesale.Items),
	}
}

// WholesaleConfirmedEvent is raised when a wholesale order ships
type WholesaleConfirmedEvent struct {
	shared.BaseDomainEvent
	TotalPrice int64 `json:"total_price"`
}

// NewWholesaleConfirmedEvent creates a new WholesaleConfirmedEvent
func NewWholesaleConfirmedEvent(wholesale *Wholesale) *WholesaleConfirmedEvent {
	return &WholesaleConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWholesaleConfirmed, AggregateTypeWholesale, wholesale.ID, wholesale.StoreID),
		TotalPrice:      wholesale.TotalPrice,
	}
}

// WholesaleCanceledEvent is raised when a wholesale order is canceled
type WholesaleCanceledEvent struct {
	shared.BaseDomainEvent
	WasUnpaid bool `json:"was_unpaid"`
}

// NewWholesaleCanceledEvent creates a new WholesaleCanceledEvent
func NewWholesaleCanceledEvent(wholesale *Wholesale) *WholesaleCanceledEvent {
	return &WholesaleCanceledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeWholesaleCanceled, AggregateTypeWholesale, wholesale.ID, wholesale.StoreID),
	}
}
