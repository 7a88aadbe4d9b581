package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockroom/backend/internal/domain/inventory"
)

// StockRecordResponse is the read model of one product's stock ledger.
// AvailableStock and Health are computed from the pools on the way out;
// neither is ever stored.
type StockRecordResponse struct {
	ID                  uuid.UUID `json:"id"`
	ProductID           uuid.UUID `json:"product_id"`
	DisplayStock        string    `json:"display_stock"`
	WarehouseStock      string    `json:"warehouse_stock"`
	OutgoingReserved    string    `json:"outgoing_reserved"`
	IncomingReserved    string    `json:"incoming_reserved"`
	AvailableStock      string    `json:"available_stock"`
	ReorderTriggerPoint string    `json:"reorder_trigger_point"`
	Health              string    `json:"health"`
	Version             int       `json:"version"`
}

// ToStockRecordResponse converts a stock record to its response
func ToStockRecordResponse(record *inventory.StockRecord) StockRecordResponse {
	return StockRecordResponse{
		ID:                  record.ID,
		ProductID:           record.ProductID,
		DisplayStock:        record.DisplayStock.String(),
		WarehouseStock:      record.WarehouseStock.String(),
		OutgoingReserved:    record.OutgoingReserved.String(),
		IncomingReserved:    record.IncomingReserved.String(),
		AvailableStock:      record.AvailableStock().String(),
		ReorderTriggerPoint: record.ReorderTriggerPoint.String(),
		Health:              string(record.Health()),
		Version:             record.Version,
	}
}

// ToStockRecordResponses converts a list of stock records
func ToStockRecordResponses(records []inventory.StockRecord) []StockRecordResponse {
	responses := make([]StockRecordResponse, 0, len(records))
	for i := range records {
		responses = append(responses, ToStockRecordResponse(&records[i]))
	}
	return responses
}

// StockListFilter controls stock record listing
type StockListFilter struct {
	Page         int
	PageSize     int
	OrderBy      string
	OrderDir     string
	Search       string
	BelowTrigger bool
}

// MoveStockRequest transfers quantity between warehouse and display
type MoveStockRequest struct {
	ProductID uuid.UUID
	Direction inventory.MoveDirection
	Quantity  decimal.Decimal
}

// RetailSaleRequest deducts a shop-floor sale
type RetailSaleRequest struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
}

// ManualUpdateRequest overwrites the counted pools after a stock taking
type ManualUpdateRequest struct {
	ProductID           uuid.UUID
	DisplayStock        decimal.Decimal
	WarehouseStock      decimal.Decimal
	ReorderTriggerPoint decimal.Decimal
}
