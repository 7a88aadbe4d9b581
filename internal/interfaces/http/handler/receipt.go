package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	tradeapp "github.com/stockroom/backend/internal/application/trade"
	"github.com/stockroom/backend/internal/interfaces/http/dto"
)

// ReceiptHandler handles goods receipt API endpoints
type ReceiptHandler struct {
	BaseHandler
	receiptService *tradeapp.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(receiptService *tradeapp.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{
		receiptService: receiptService,
	}
}

// CreateReceiptRequest creates a receipt from a purchase order
type CreateReceiptRequest struct {
	PurchaseOrderID string `json:"purchase_order_id" binding:"required,uuid"`
}

// CorrectReceiptItemRequest records the counted quantity for one line
type CorrectReceiptItemRequest struct {
	ItemID         string `json:"item_id" binding:"required,uuid"`
	ActualQuantity string `json:"actual_quantity" binding:"required"`
	Note           string `json:"note" binding:"max=500"`
}

// CreateFromOrder creates the single receipt attached to a purchase order
func (h *ReceiptHandler) CreateFromOrder(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	var req CreateReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	receipt, err := h.receiptService.CreateFromOrder(c.Request.Context(), storeID, uuid.MustParse(req.PurchaseOrderID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, receipt)
}

// Get returns one receipt by ID
func (h *ReceiptHandler) Get(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid receipt ID format")
		return
	}

	receipt, err := h.receiptService.Get(c.Request.Context(), storeID, uuid.MustParse(idReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receipt)
}

// List returns receipts for the store
func (h *ReceiptHandler) List(c *gin.Context) {
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

	receipts, err := h.receiptService.List(c.Request.Context(), storeID, query.toFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receipts)
}

// CorrectItem records the counted quantity for one receipt line
func (h *ReceiptHandler) CorrectItem(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid receipt ID format")
		return
	}

	var req CorrectReceiptItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	actual, ok := parseQuantity(req.ActualQuantity)
	if !ok {
		h.BadRequest(c, "Invalid actual quantity format")
		return
	}

	receipt, err := h.receiptService.CorrectItem(c.Request.Context(), storeID, uuid.MustParse(idReq.ID),
		tradeapp.CorrectReceiptItemRequest{
			ItemID:         uuid.MustParse(req.ItemID),
			ActualQuantity: actual,
			Note:           req.Note,
		})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receipt)
}

// Confirm settles the receipt into warehouse stock and delivers the order
func (h *ReceiptHandler) Confirm(c *gin.Context) {
	h.transition(c, h.receiptService.Confirm)
}

// Cancel voids a pending receipt
func (h *ReceiptHandler) Cancel(c *gin.Context) {
	h.transition(c, h.receiptService.Cancel)
}

// transition applies a status transition identified by the receipt ID in the path
func (h *ReceiptHandler) transition(
	c *gin.Context,
	fn func(ctx context.Context, storeID, receiptID uuid.UUID) (*tradeapp.ReceiptResponse, error),
) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid receipt ID format")
		return
	}

	receipt, err := fn(c.Request.Context(), storeID, uuid.MustParse(idReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receipt)
}

// RegisterRoutes registers all receipt routes
func (h *ReceiptHandler) RegisterRoutes(rg *gin.RouterGroup) {
	receipts := rg.Group("/receipts")
	{
		receipts.GET("", h.List)
		receipts.GET("/:id", h.Get)
		receipts.POST("", h.CreateFromOrder)
		receipts.PUT("/:id/items", h.CorrectItem)
		receipts.POST("/:id/confirm", h.Confirm)
		receipts.POST("/:id/cancel", h.Cancel)
	}

	rg.GET("/purchase-orders/:id/receipt", h.GetByOrder)
}

// GetByOrder resolves the receipt attached to the purchase order in the path
func (h *ReceiptHandler) GetByOrder(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	receipt, err := h.receiptService.GetByOrder(c.Request.Context(), storeID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, receipt)
}
