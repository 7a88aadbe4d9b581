package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockroom/backend/internal/domain/trade"
)

// PurchaseOrderItemRequest is one requested order line
type PurchaseOrderItemRequest struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
	UnitPrice int64
}

// CreatePurchaseOrderRequest creates a purchase order with a vendor
type CreatePurchaseOrderRequest struct {
	VendorID     uuid.UUID
	LeadTimeDays *int
	Note         string
	Items        []PurchaseOrderItemRequest
}

// ChangeOrderItemQuantityRequest amends one line on an open order
type ChangeOrderItemQuantityRequest struct {
	ItemID   uuid.UUID
	Quantity decimal.Decimal
}

// PurchaseOrderItemResponse is the read model of an order line
type PurchaseOrderItemResponse struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    string    `json:"quantity"`
	UnitPrice   int64     `json:"unit_price"`
	Amount      int64     `json:"amount"`
}

// PurchaseOrderResponse is the read model of a purchase order
type PurchaseOrderResponse struct {
	ID              uuid.UUID                   `json:"id"`
	VendorID        uuid.UUID                   `json:"vendor_id"`
	Status          string                      `json:"status"`
	OrderedAt       time.Time                   `json:"ordered_at"`
	ExpectedArrival *time.Time                  `json:"expected_arrival,omitempty"`
	Note            string                      `json:"note,omitempty"`
	TotalPrice      int64                       `json:"total_price"`
	Items           []PurchaseOrderItemResponse `json:"items"`
}

// ToPurchaseOrderResponse converts a purchase order to its response
func ToPurchaseOrderResponse(order *trade.PurchaseOrder) PurchaseOrderResponse {
	items := make([]PurchaseOrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, PurchaseOrderItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity.String(),
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		})
	}
	return PurchaseOrderResponse{
		ID:              order.ID,
		VendorID:        order.VendorID,
		Status:          string(order.Status),
		OrderedAt:       order.OrderedAt,
		ExpectedArrival: order.ExpectedArrival,
		Note:            order.Note,
		TotalPrice:      order.TotalPrice,
		Items:           items,
	}
}

// ToPurchaseOrderResponses converts a list of purchase orders
func ToPurchaseOrderResponses(orders []trade.PurchaseOrder) []PurchaseOrderResponse {
	responses := make([]PurchaseOrderResponse, 0, len(orders))
	for i := range orders {
		responses = append(responses, ToPurchaseOrderResponse(&orders[i]))
	}
	return responses
}

// CorrectReceiptItemRequest records the counted quantity for one line
type CorrectReceiptItemRequest struct {
	ItemID         uuid.UUID
	ActualQuantity decimal.Decimal
	Note           string
}

// ReceiptItemResponse is the read model of a receipt line
type ReceiptItemResponse struct {
	ID               uuid.UUID `json:"id"`
	OrderItemID      uuid.UUID `json:"order_item_id"`
	ProductID        uuid.UUID `json:"product_id"`
	ProductName      string    `json:"product_name"`
	ExpectedQuantity string    `json:"expected_quantity"`
	ActualQuantity   *string   `json:"actual_quantity,omitempty"`
	UnitPrice        int64     `json:"unit_price"`
	Amount           int64     `json:"amount"`
	ErrorRate        string    `json:"error_rate"`
	Note             string    `json:"note,omitempty"`
}

// ReceiptResponse is the read model of a receipt
type ReceiptResponse struct {
	ID              uuid.UUID             `json:"id"`
	PurchaseOrderID uuid.UUID             `json:"purchase_order_id"`
	Status          string                `json:"status"`
	ConfirmedAt     *time.Time            `json:"confirmed_at,omitempty"`
	Note            string                `json:"note,omitempty"`
	Items           []ReceiptItemResponse `json:"items"`
}

// ToReceiptResponse converts a receipt to its response
func ToReceiptResponse(receipt *trade.Receipt) ReceiptResponse {
	items := make([]ReceiptItemResponse, 0, len(receipt.Items))
	for _, item := range receipt.Items {
		var actual *string
		if item.ActualQuantity != nil {
			value := item.ActualQuantity.String()
			actual = &value
		}
		items = append(items, ReceiptItemResponse{
			ID:               item.ID,
			OrderItemID:      item.OrderItemID,
			ProductID:        item.ProductID,
			ProductName:      item.ProductName,
			ExpectedQuantity: item.ExpectedQuantity.String(),
			ActualQuantity:   actual,
			UnitPrice:        item.UnitPrice,
			Amount:           item.Amount,
			ErrorRate:        item.ErrorRate.String(),
			Note:             item.Note,
		})
	}
	return ReceiptResponse{
		ID:              receipt.ID,
		PurchaseOrderID: receipt.PurchaseOrderID,
		Status:          string(receipt.Status),
		ConfirmedAt:     receipt.ConfirmedAt,
		Note:            receipt.Note,
		Items:           items,
	}
}

// WholesaleItemRequest is one requested wholesale line
type WholesaleItemRequest struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
	UnitPrice int64
	Note      string
}

// CreateWholesaleRequest creates a wholesale order
type CreateWholesaleRequest struct {
	OrderReference string
	Items          []WholesaleItemRequest
}

// ConfirmWholesaleRequest ships a wholesale order
type ConfirmWholesaleRequest struct {
	ReleaseDate   *time.Time
	InvoiceNumber string
}

// UpdateWholesaleItemsRequest replaces the item list of a pending order
type UpdateWholesaleItemsRequest struct {
	Items []WholesaleItemRequest
}

// WholesaleItemResponse is the read model of a wholesale line
type WholesaleItemResponse struct {
	ID                uuid.UUID `json:"id"`
	ProductID         uuid.UUID `json:"product_id"`
	ProductName       string    `json:"product_name"`
	Quantity          string    `json:"quantity"`
	UnitPrice         int64     `json:"unit_price"`
	Amount            int64     `json:"amount"`
	Note              string    `json:"note,omitempty"`
	InsufficientStock bool      `json:"insufficient_stock"`
}

// WholesaleResponse is the read model of a wholesale order
type WholesaleResponse struct {
	ID              uuid.UUID               `json:"id"`
	Status          string                  `json:"status"`
	ExternalOrderID *string                 `json:"external_order_id,omitempty"`
	OrderReference  string                  `json:"order_reference,omitempty"`
	ReleaseDate     *time.Time              `json:"release_date,omitempty"`
	InvoiceNumber   string                  `json:"invoice_number,omitempty"`
	ProcessedAt     *time.Time              `json:"processed_at,omitempty"`
	TotalPrice      int64                   `json:"total_price"`
	Items           []WholesaleItemResponse `json:"items"`
}

// ToWholesaleResponse converts a wholesale order to its response
func ToWholesaleResponse(wholesale *trade.Wholesale) WholesaleResponse {
	items := make([]WholesaleItemResponse, 0, len(wholesale.Items))
	for _, item := range wholesale.Items {
		items = append(items, WholesaleItemResponse{
			ID:                item.ID,
			ProductID:         item.ProductID,
			ProductName:       item.ProductName,
			Quantity:          item.Quantity.String(),
			UnitPrice:         item.UnitPrice,
			Amount:            item.Amount,
			Note:              item.Note,
			InsufficientStock: item.InsufficientStock,
		})
	}
	return WholesaleResponse{
		ID:              wholesale.ID,
		Status:          string(wholesale.Status),
		ExternalOrderID: wholesale.ExternalOrderID,
		OrderReference:  wholesale.OrderReference,
		ReleaseDate:     wholesale.ReleaseDate,
		InvoiceNumber:   wholesale.InvoiceNumber,
		ProcessedAt:     wholesale.ProcessedAt,
		TotalPrice:      wholesale.TotalPrice,
		Items:           items,
	}
}

// ToWholesaleResponses converts a list of wholesale orders
func ToWholesaleResponses(wholesales []trade.Wholesale) []WholesaleResponse {
	responses := make([]WholesaleResponse, 0, len(wholesales))
	for i := range wholesales {
		responses = append(responses, ToWholesaleResponse(&wholesales[i]))
	}
	return responses
}

// ListFilter controls order listing
type ListFilter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Status   string
}

func (f ListFilter) normalized() ListFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 20
	}
	return f
}
