package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	inventoryapp "github.com/stockroom/backend/internal/application/inventory"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared/valueobject"
	"github.com/stockroom/backend/internal/interfaces/http/dto"
)

// StockHandler handles stock ledger API endpoints
type StockHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *inventoryapp.StockService) *StockHandler {
	return &StockHandler{
		stockService: stockService,
	}
}

// StockListQuery represents stock listing query parameters
type StockListQuery struct {
	dto.ListRequest
	BelowTrigger bool `form:"below_trigger"`
}

// MoveStockRequest represents a warehouse/display transfer request
type MoveStockRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Direction string `json:"direction" binding:"required,oneof=WAREHOUSE_TO_DISPLAY DISPLAY_TO_WAREHOUSE"`
	Quantity  string `json:"quantity" binding:"required"`
}

// RetailSaleRequest represents a shop-floor sale deduction
type RetailSaleRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  string `json:"quantity" binding:"required"`
}

// ManualUpdateRequest represents a stock taking correction
type ManualUpdateRequest struct {
	ProductID           string `json:"product_id" binding:"required,uuid"`
	DisplayStock        string `json:"display_stock" binding:"required"`
	WarehouseStock      string `json:"warehouse_stock" binding:"required"`
	ReorderTriggerPoint string `json:"reorder_trigger_point" binding:"required"`
}

// parseQuantity parses a decimal quantity from its wire representation.
// Negative amounts are rejected here so they never reach a service.
func parseQuantity(raw string) (decimal.Decimal, bool) {
	quantity, err := valueobject.NewQuantityFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return quantity.Amount(), true
}

// GetByProduct returns the stock record for one product. Products without
// a persisted record report all pools as zero.
func (h *StockHandler) GetByProduct(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	record, err := h.stockService.GetByProduct(c.Request.Context(), storeID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// List returns a paginated list of stock records
func (h *StockHandler) List(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	var query StockListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := inventoryapp.StockListFilter{
		Page:         query.Page,
		PageSize:     query.PageSize,
		OrderBy:      query.OrderBy,
		OrderDir:     query.OrderDir,
		Search:       query.Search,
		BelowTrigger: query.BelowTrigger,
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	records, total, err := h.stockService.List(c.Request.Context(), storeID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, records, total, filter.Page, filter.PageSize)
}

// ListBelowTrigger returns all records at or below their reorder trigger point
func (h *StockHandler) ListBelowTrigger(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	records, err := h.stockService.ListBelowTrigger(c.Request.Context(), storeID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, records)
}

// Move transfers quantity between the warehouse and the shop floor
func (h *StockHandler) Move(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	var req MoveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	quantity, ok := parseQuantity(req.Quantity)
	if !ok {
		h.BadRequest(c, "Invalid quantity format")
		return
	}

	record, err := h.stockService.Move(c.Request.Context(), storeID, inventoryapp.MoveStockRequest{
		ProductID: uuid.MustParse(req.ProductID),
		Direction: inventory.MoveDirection(req.Direction),
		Quantity:  quantity,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// RecordRetailSale deducts a retail sale from display stock
func (h *StockHandler) RecordRetailSale(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	var req RetailSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	quantity, ok := parseQuantity(req.Quantity)
	if !ok {
		h.BadRequest(c, "Invalid quantity format")
		return
	}

	record, err := h.stockService.RecordRetailSale(c.Request.Context(), storeID, inventoryapp.RetailSaleRequest{
		ProductID: uuid.MustParse(req.ProductID),
		Quantity:  quantity,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// UpdateManually overwrites the counted pools after a stock taking
func (h *StockHandler) UpdateManually(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	var req ManualUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	display, ok := parseQuantity(req.DisplayStock)
	if !ok {
		h.BadRequest(c, "Invalid display stock format")
		return
	}
	warehouse, ok := parseQuantity(req.WarehouseStock)
	if !ok {
		h.BadRequest(c, "Invalid warehouse stock format")
		return
	}
	trigger, ok := parseQuantity(req.ReorderTriggerPoint)
	if !ok {
		h.BadRequest(c, "Invalid reorder trigger point format")
		return
	}

	record, err := h.stockService.UpdateManually(c.Request.Context(), storeID, inventoryapp.ManualUpdateRequest{
		ProductID:           uuid.MustParse(req.ProductID),
		DisplayStock:        display,
		WarehouseStock:      warehouse,
		ReorderTriggerPoint: trigger,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// RegisterRoutes registers all stock routes
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	stock := rg.Group("/stock")
	{
		stock.GET("", h.List)
		stock.GET("/below-trigger", h.ListBelowTrigger)
		stock.GET("/products/:productId", h.GetByProduct)
		stock.POST("/move", h.Move)
		stock.POST("/retail-sale", h.RecordRetailSale)
		stock.PUT("/manual", h.UpdateManually)
	}
}
