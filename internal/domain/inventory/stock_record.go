package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockroom/backend/internal/domain/shared"
)

// Ledger errors. Every mutation validates before touching any pool, so a
// returned error guarantees the record is unchanged.
var (
	ErrIncomingStockNotEnough  = shared.NewDomainError("INCOMING_STOCK_NOT_ENOUGH", "Incoming reservation is smaller than the requested quantity")
	ErrWarehouseStockNotEnough = shared.NewDomainError("WAREHOUSE_STOCK_NOT_ENOUGH", "Warehouse stock is smaller than the requested quantity")
	ErrDisplayStockNotEnough   = shared.NewDomainError("DISPLAY_STOCK_NOT_ENOUGH", "Display stock is smaller than the requested quantity")
	ErrOutgoingStockNotEnough  = shared.NewDomainError("OUTGOING_STOCK_NOT_ENOUGH", "Outgoing reservation is smaller than the requested quantity")
	ErrStockAccessDenied       = shared.NewDomainError("STOCK_ACCESS_DENIED", "Stock record belongs to another store")
)

// StockHealth is a derived reading of a record's warehouse level. It is
// computed on demand and never stored.
type StockHealth string

const (
	StockHealthNormal     StockHealth = "NORMAL"
	StockHealthLow        StockHealth = "LOW"
	StockHealthOutOfStock StockHealth = "OUT_OF_STOCK"
)

// MoveDirection identifies which way a display/warehouse transfer goes
type MoveDirection string

const (
	MoveWarehouseToDisplay MoveDirection = "WAREHOUSE_TO_DISPLAY"
	MoveDisplayToWarehouse MoveDirection = "DISPLAY_TO_WAREHOUSE"
)

// StockRecord tracks the stock of one product across four pools:
//
//   - DisplayStock: on the shop floor, sellable retail
//   - WarehouseStock: in the back room
//   - OutgoingReserved: promised to wholesale orders, still physically
//     in the warehouse
//   - IncomingReserved: ordered from a vendor, not yet received
//
// There is exactly one record per product. All pool arithmetic is exact
// decimal and every pool stays non-negative at all times.
type StockRecord struct {
	shared.StoreAggregateRoot
	ProductID           uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	DisplayStock        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	WarehouseStock      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OutgoingReserved    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	IncomingReserved    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReorderTriggerPoint decimal.Decimal `gorm:"type:decimal(10,3);not null;default:0"`
}

// TableName returns the table name for GORM
func (StockRecord) TableName() string {
	return "stock_records"
}

// NewStockRecord creates an empty stock record for a product
func NewStockRecord(storeID, productID uuid.UUID) (*StockRecord, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	return &StockRecord{
		StoreAggregateRoot:  shared.NewStoreAggregateRoot(storeID),
		ProductID:           productID,
		DisplayStock:        decimal.Zero,
		WarehouseStock:      decimal.Zero,
		OutgoingReserved:    decimal.Zero,
		IncomingReserved:    decimal.Zero,
		ReorderTriggerPoint: decimal.Zero,
	}, nil
}

// ValidateStoreAccess checks the record belongs to the given store
func (r *StockRecord) ValidateStoreAccess(storeID uuid.UUID) error {
	if !r.BelongsTo(storeID) {
		return ErrStockAccessDenied
	}
	return nil
}

// AvailableStock is warehouse stock minus what is already promised to
// wholesale orders. Reservation checks run against this, never against
// the raw warehouse pool.
func (r *StockRecord) AvailableStock() decimal.Decimal {
	return r.WarehouseStock.Sub(r.OutgoingReserved)
}

// Health classifies the warehouse level against the reorder trigger point
func (r *StockRecord) Health() StockHealth {
	if r.WarehouseStock.IsZero() {
		return StockHealthOutOfStock
	}
	if r.WarehouseStock.LessThanOrEqual(r.ReorderTriggerPoint) && r.ReorderTriggerPoint.IsPositive() {
		return StockHealthLow
	}
	return StockHealthNormal
}

func validateQuantity(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.ErrInvalidQuantity
	}
	return nil
}

// IncreaseIncoming records quantity ordered from a vendor
func (r *StockRecord) IncreaseIncoming(quantity decimal.Decimal) error {
	if err := validateQuantity(quantity); err != nil {
		return err
	}
	r.IncomingReserved = r.IncomingReserved.Add(quantity)
	r.touch()
	r.AddDomainEvent(NewIncomingReservedEvent(r, quantity))
	return nil
}

// DecreaseIncoming releases quantity from the incoming reservation, for
// example when an order line shrinks or a receipt line is removed
func (r *StockRecord) DecreaseIncoming(quantity decimal.Decimal) error {
	if err := validateQuantity(quantity); err != nil {
		return err
	}
	if r.IncomingReserved.LessThan(quantity) {
		return ErrIncomingStockNotEnough
	}
	r.IncomingReserved = r.IncomingReserved.Sub(quantity)
	r.touch()
	r.AddDomainEvent(NewIncomingReleasedEvent(r, quantity))
	return nil
}

// AdjustIncoming applies a signed delta to the incoming reservation.
// Positive deltas always succeed; negative deltas are bounded by the
// current reservation.
func (r *StockRecord) AdjustIncoming(delta decimal.Decimal) error {
	if delta.IsNegative() {
		return r.DecreaseIncoming(delta.Neg())
	}
	return r.IncreaseIncoming(delta)
}

// ConfirmIncoming converts a vendor reservation into warehouse stock.
// The expected quantity is released from the reservation while the
// counted actual is credited to the warehouse; the two differ when the
// delivery was short or over.
func (r *StockRecord) ConfirmIncoming(expected, actual decimal.Decimal) error {
	if err := validateQuantity(expected); err != nil {
		return err
	}
	if err := validateQuantity(actual); err != nil {
		return err
	}
	if r.IncomingReserved.LessThan(expected) {
		return ErrIncomingStockNotEnough
	}
	r.IncomingReserved = r.IncomingReserved.Sub(expected)
	r.WarehouseStock = r.WarehouseStock.Add(actual)
	r.touch()
	r.AddDomainEvent(NewIncomingConfirmedEvent(r, expected, actual))
	return nil
}

// IncreaseWarehouse credits the warehouse directly, outside any order
// flow. Used by post-confirmation receipt corrections.
func (r *StockRecord) IncreaseWarehouse(quantity decimal.Decimal) error {
	if err := validateQuantity(quantity); err != nil {
		return err
	}
	r.WarehouseStock = r.WarehouseStock.Add(quantity)
	r.touch()
	return nil
}

// DecreaseWarehouse debits the warehouse directly, outside any order flow
func (r *StockRecord) DecreaseWarehouse(quantity decimal.Decimal) error {
	if err := validateQuantity(quantity); err != nil {
		return err
	}
	if r.WarehouseStock.LessThan(quantity) {
		return ErrWarehouseStockNotEnough
	}
	r.WarehouseStock = r.WarehouseStock.Sub(quantity)
	r.touch()
	return nil
}

// MoveToDisplay transfers quantity from the warehouse to the shop floor
func (r *StockRecord) MoveToDisplay(quantity decimal.Decimal) error {
	if err := validateQuantity(quantity); err != nil {
		return err
	}
	if r.WarehouseStock.LessThan(quantity) {
		return ErrWarehouseStockNotEnough
	}
	r.WarehouseStock = r.WarehouseStock.Sub(quantity)
	r.DisplayStock = r.DisplayStock.Add(quantity)
	r.touch()
	r.AddDomainEvent(NewStockMovedEvent(r, MoveWarehouseToDisplay, quantity))
	return nil
}

// MoveToWarehouse transfers quantity from the shop floor back to the warehouse
func (r *StockRecord) MoveToWarehouse(quantity decimal.Decimal) error {
	if err := validateQuantity(quantity); err != nil {
		return err
	}
	if r.DisplayStock.LessThan(quantity) {
		return ErrDisplayStockNotEnough
	}
	r.DisplayStock = r.DisplayStock.Sub(quantity)
	r.WarehouseStock = r.WarehouseStock.Add(quantity)
	r.touch()
	r.AddDomainEvent(NewStockMovedEvent(r, MoveDisplayToWarehouse, quantity))
	return nil
}

// DecreaseDisplay deducts a retail sale from the shop floor
func (r *StockRecord) DecreaseDisplay(quantity decimal.Decimal) error {
	if err := validateQuantity(quantity); err != nil {
		return err
	}
	if r.DisplayStock.LessThan(quantity) {
		return ErrDisplayStockNotEnough
	}
	r.DisplayStock = r.DisplayStock.Sub(quantity)
	r.touch()
	r.AddDomainEvent(NewDisplayDeductedEvent(r, quantity))
	return nil
}

// IncreaseOutgoing promises quantity to a wholesale order. The check runs
// against AvailableStock so stacked reservations cannot overcommit the
// warehouse.
func (r *StockRecord) IncreaseOutgoing(quantity decimal.Decimal) error {
	if err := validateQuantity(quantity); err != nil {
		return err
	}
	if r.AvailableStock().LessThan(quantity) {
		return ErrWarehouseStockNotEnough
	}
	r.OutgoingReserved = r.OutgoingReserved.Add(quantity)
	r.touch()
	r.AddDomainEvent(NewOutgoingReservedEvent(r, quantity))
	return nil
}

// DecreaseOutgoing releases a wholesale reservation without shipping
// anything, for example on cancellation
func (r *StockRecord) DecreaseOutgoing(quantity decimal.Decimal) error {
	if err := validateQuantity(quantity); err != nil {
		return err
	}
	if r.OutgoingReserved.LessThan(quantity) {
		return ErrOutgoingStockNotEnough
	}
	r.OutgoingReserved = r.OutgoingReserved.Sub(quantity)
	r.touch()
	r.AddDomainEvent(NewOutgoingReleasedEvent(r, quantity))
	return nil
}

// ConfirmOutgoing ships a wholesale reservation: the reservation is
// released and the warehouse deducted in one step. Both guards run
// before either pool moves.
func (r *StockRecord) ConfirmOutgoing(quantity decimal.Decimal) error {
	if err := validateQuantity(quantity); err != nil {
		return err
	}
	if r.OutgoingReserved.LessThan(quantity) {
		return ErrOutgoingStockNotEnough
	}
	if r.WarehouseStock.LessThan(quantity) {
		return ErrWarehouseStockNotEnough
	}
	r.OutgoingReserved = r.OutgoingReserved.Sub(quantity)
	r.WarehouseStock = r.WarehouseStock.Sub(quantity)
	r.touch()
	r.AddDomainEvent(NewOutgoingConfirmedEvent(r, quantity))
	if r.Health() != StockHealthNormal {
		r.AddDomainEvent(NewStockBelowTriggerEvent(r))
	}
	return nil
}

// UpdateManually overwrites the physically counted pools and the trigger
// point after a stock taking. Reserved pools are never edited by hand;
// they always reconcile through their order documents.
func (r *StockRecord) UpdateManually(displayStock, warehouseStock, reorderTriggerPoint decimal.Decimal) error {
	if displayStock.IsNegative() || warehouseStock.IsNegative() || reorderTriggerPoint.IsNegative() {
		return shared.ErrInvalidQuantity
	}
	r.DisplayStock = displayStock
	r.WarehouseStock = warehouseStock
	r.ReorderTriggerPoint = reorderTriggerPoint
	r.touch()
	return nil
}

func (r *StockRecord) touch() {
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}
