package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	tradeapp "github.com/stockroom/backend/internal/application/trade"
	"github.com/stockroom/backend/internal/interfaces/http/dto"
)

// WholesaleHandler handles wholesale order API endpoints
type WholesaleHandler struct {
	BaseHandler
	wholesaleService *tradeapp.WholesaleService
}

// NewWholesaleHandler creates a new WholesaleHandler
func NewWholesaleHandler(wholesaleService *tradeapp.WholesaleService) *WholesaleHandler {
	return &WholesaleHandler{
		wholesaleService: wholesaleService,
	}
}

// WholesaleItemRequest represents one requested wholesale line
type WholesaleItemRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  string `json:"quantity" binding:"required"`
	UnitPrice int64  `json:"unit_price" binding:"gte=0"`
	Note      string `json:"note" binding:"max=500"`
}

// CreateWholesaleRequest represents a wholesale order creation request
type CreateWholesaleRequest struct {
	OrderReference string                 `json:"order_reference" binding:"max=200"`
	Items          []WholesaleItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ConfirmWholesaleRequest ships a wholesale order
type ConfirmWholesaleRequest struct {
	ReleaseDate   *time.Time `json:"release_date"`
	InvoiceNumber string     `json:"invoice_number" binding:"max=100"`
}

// UpdateWholesaleItemsRequest replaces the item list of a pending order
type UpdateWholesaleItemsRequest struct {
	Items []WholesaleItemRequest `json:"items" binding:"required,min=1,dive"`
}

func (h *WholesaleHandler) buildItems(c *gin.Context, items []WholesaleItemRequest) ([]tradeapp.WholesaleItemRequest, bool) {
	result := make([]tradeapp.WholesaleItemRequest, 0, len(items))
	for _, item := range items {
		quantity, ok := parseQuantity(item.Quantity)
		if !ok {
			h.BadRequest(c, "Invalid quantity format")
			return nil, false
		}
		result = append(result, tradeapp.WholesaleItemRequest{
			ProductID: uuid.MustParse(item.ProductID),
			Quantity:  quantity,
			UnitPrice: item.UnitPrice,
			Note:      item.Note,
		})
	}
	return result, true
}

// Create creates a wholesale order and reserves outgoing stock
func (h *WholesaleHandler) Create(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	var req CreateWholesaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	items, ok := h.buildItems(c, req.Items)
	if !ok {
		return
	}

	wholesale, err := h.wholesaleService.Create(c.Request.Context(), storeID, tradeapp.CreateWholesaleRequest{
		OrderReference: req.OrderReference,
		Items:          items,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, wholesale)
}

// Get returns one wholesale order by ID
func (h *WholesaleHandler) Get(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid wholesale order ID format")
		return
	}

	wholesale, err := h.wholesaleService.Get(c.Request.Context(), storeID, uuid.MustParse(idReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, wholesale)
}

// List returns a paginated list of wholesale orders
func (h *WholesaleHandler) List(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	var query OrderListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := query.toFilter()
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	wholesales, total, err := h.wholesaleService.List(c.Request.Context(), storeID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, wholesales, total, filter.Page, filter.PageSize)
}

// MarkPaid records payment for an externally ingested order
func (h *WholesaleHandler) MarkPaid(c *gin.Context) {
	h.transition(c, h.wholesaleService.MarkPaid)
}

// Confirm ships the order and deducts warehouse stock
func (h *WholesaleHandler) Confirm(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid wholesale order ID format")
		return
	}

	var req ConfirmWholesaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	wholesale, err := h.wholesaleService.Confirm(c.Request.Context(), storeID, uuid.MustParse(idReq.ID),
		tradeapp.ConfirmWholesaleRequest{
			ReleaseDate:   req.ReleaseDate,
			InvoiceNumber: req.InvoiceNumber,
		})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, wholesale)
}

// Cancel cancels a wholesale order and releases its reservations
func (h *WholesaleHandler) Cancel(c *gin.Context) {
	h.transition(c, h.wholesaleService.Cancel)
}

// UpdateItems replaces the item list of a pending order
func (h *WholesaleHandler) UpdateItems(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid wholesale order ID format")
		return
	}

	var req UpdateWholesaleItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	items, ok := h.buildItems(c, req.Items)
	if !ok {
		return
	}

	wholesale, err := h.wholesaleService.UpdateItems(c.Request.Context(), storeID, uuid.MustParse(idReq.ID),
		tradeapp.UpdateWholesaleItemsRequest{Items: items})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, wholesale)
}

// transition applies a status transition identified by the wholesale ID in the path
func (h *WholesaleHandler) transition(
	c *gin.Context,
	fn func(ctx context.Context, storeID, wholesaleID uuid.UUID) (*tradeapp.WholesaleResponse, error),
) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid wholesale order ID format")
		return
	}

	wholesale, err := fn(c.Request.Context(), storeID, uuid.MustParse(idReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, wholesale)
}

// RegisterRoutes registers all wholesale routes
func (h *WholesaleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	wholesales := rg.Group("/wholesales")
	{
		wholesales.GET("", h.List)
		wholesales.GET("/:id", h.Get)
		wholesales.POST("", h.Create)
		wholesales.POST("/:id/mark-paid", h.MarkPaid)
		wholesales.POST("/:id/confirm", h.Confirm)
		wholesales.POST("/:id/cancel", h.Cancel)
		wholesales.PUT("/:id/items", h.UpdateItems)
	}
}
