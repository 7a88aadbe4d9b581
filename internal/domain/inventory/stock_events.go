package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockroom/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeStockRecord = "StockRecord"

// Event type constants
const (
	EventTypeIncomingReserved  = "IncomingReserved"
	EventTypeIncomingReleased  = "IncomingReleased"
	EventTypeIncomingConfirmed = "IncomingConfirmed"
	EventTypeOutgoingReserved  = "OutgoingReserved"
	EventTypeOutgoingReleased  = "OutgoingReleased"
	EventTypeOutgoingConfirmed = "OutgoingConfirmed"
	EventTypeStockMoved        = "StockMoved"
	EventTypeDisplayDeducted   = "DisplayDeducted"
	EventTypeStockBelowTrigger = "StockBelowTrigger"
)

// IncomingReservedEvent is raised when vendor-ordered quantity is reserved
type IncomingReservedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// NewIncomingReservedEvent creates a new IncomingReservedEvent
func NewIncomingReservedEvent(record *StockRecord, quantity decimal.Decimal) *IncomingReservedEvent {
	return &IncomingReservedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeIncomingReserved, AggregateTypeStockRecord, record.ID, record.StoreID),
		ProductID:       record.ProductID,
		Quantity:        quantity,
	}
}

// IncomingReleasedEvent is raised when an incoming reservation is released
type IncomingReleasedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// NewIncomingReleasedEvent creates a new IncomingReleasedEvent
func NewIncomingReleasedEvent(record *StockRecord, quantity decimal.Decimal) *IncomingReleasedEvent {
	return &IncomingReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeIncomingReleased, AggregateTypeStockRecord, record.ID, record.StoreID),
		ProductID:       record.ProductID,
		Quantity:        quantity,
	}
}

// IncomingConfirmedEvent is raised when received goods enter the warehouse
type IncomingConfirmedEvent struct {
	shared.BaseDomainEvent
	ProductID        uuid.UUID       `json:"product_id"`
	ExpectedQuantity decimal.Decimal `json:"expected_quantity"`
	ActualQuantity   decimal.Decimal `json:"actual_quantity"`
}

// NewIncomingConfirmedEvent creates a new IncomingConfirmedEvent
func NewIncomingConfirmedEvent(record *StockRecord, expected, actual decimal.Decimal) *IncomingConfirmedEvent {
	return &IncomingConfirmedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeIncomingConfirmed, AggregateTypeStockRecord, record.ID, record.StoreID),
		ProductID:        record.ProductID,
		ExpectedQuantity: expected,
		ActualQuantity:   actual,
	}
}

// OutgoingReservedEvent is raised when stock is promised to a wholesale order
type OutgoingReservedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// NewOutgoingReservedEvent creates a new OutgoingReservedEvent
func NewOutgoingReservedEvent(record *StockRecord, quantity decimal.Decimal) *OutgoingReservedEvent {
	return &OutgoingReservedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOutgoingReserved, AggregateTypeStockRecord, record.ID, record.StoreID),
		ProductID:       record.ProductID,
		Quantity:        quantity,
	}
}

// OutgoingReleasedEvent is raised when a wholesale reservation is released
type OutgoingReleasedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// NewOutgoingReleasedEvent creates a new OutgoingReleasedEvent
func NewOutgoingReleasedEvent(record *StockRecord, quantity decimal.Decimal) *OutgoingReleasedEvent {
	return &OutgoingReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOutgoingReleased, AggregateTypeStockRecord, record.ID, record.StoreID),
		ProductID:       record.ProductID,
		Quantity:        quantity,
	}
}

// OutgoingConfirmedEvent is raised when a wholesale reservation ships
type OutgoingConfirmedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// NewOutgoingConfirmedEvent creates a new OutgoingConfirmedEvent
func NewOutgoingConfirmedEvent(record *StockRecord, quantity decimal.Decimal) *OutgoingConfirmedEvent {
	return &OutgoingConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOutgoingConfirmed, AggregateTypeStockRecord, record.ID, record.StoreID),
		ProductID:       record.ProductID,
		Quantity:        quantity,
	}
}

// StockMovedEvent is raised when stock moves between warehouse and display
type StockMovedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	Direction MoveDirection   `json:"direction"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// NewStockMovedEvent creates a new StockMovedEvent
func NewStockMovedEvent(record *StockRecord, direction MoveDirection, quantity decimal.Decimal) *StockMovedEvent {
	return &StockMovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockMoved, AggregateTypeStockRecord, record.ID, record.StoreID),
		ProductID:       record.ProductID,
		Direction:       direction,
		Quantity:        quantity,
	}
}

// DisplayDeductedEvent is raised when a retail sale leaves the shop floor
type DisplayDeductedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// NewDisplayDeductedEvent creates a new DisplayDeductedEvent
func NewDisplayDeductedEvent(record *StockRecord, quantity decimal.Decimal) *DisplayDeductedEvent {
	return &DisplayDeductedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDisplayDeducted, AggregateTypeStockRecord, record.ID, record.StoreID),
		ProductID:       record.ProductID,
		Quantity:        quantity,
	}
}

// StockBelowTriggerEvent is raised when the warehouse level drops to or
// below the reorder trigger point
type StockBelowTriggerEvent struct {
	shared.BaseDomainEvent
	ProductID      uuid.UUID       `json:"product_id"`
	WarehouseStock decimal.Decimal `json:"warehouse_stock"`
	TriggerPoint   decimal.Decimal `json:"trigger_point"`
	Health         StockHealth     `json:"health"`
}

// NewStockBelowTriggerEvent creates a new StockBelowTriggerEvent
func NewStockBelowTriggerEvent(record *StockRecord) *StockBelowTriggerEvent {
	return &StockBelowTriggerEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockBelowTrigger, AggregateTypeStockRecord, record.ID, record.StoreID),
		ProductID:       record.ProductID,
		WarehouseStock:  record.WarehouseStock,
		TriggerPoint:    record.ReorderTriggerPoint,
		Health:          record.Health(),
	}
}
