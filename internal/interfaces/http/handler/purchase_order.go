package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	tradeapp "github.com/stockroom/backend/internal/application/trade"
	"github.com/stockroom/backend/internal/interfaces/http/dto"
)

// PurchaseOrderHandler handles purchase order API endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	orderService *tradeapp.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(orderService *tradeapp.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{
		orderService: orderService,
	}
}

// PurchaseOrderItemRequest represents one requested order line
type PurchaseOrderItemRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  string `json:"quantity" binding:"required"`
	UnitPrice int64  `json:"unit_price" binding:"gte=0"`
}

// CreatePurchaseOrderRequest represents a purchase order creation request
type CreatePurchaseOrderRequest struct {
	VendorID     string                     `json:"vendor_id" binding:"required,uuid"`
	LeadTimeDays *int                       `json:"lead_time_days" binding:"omitempty,min=1,max=365"`
	Note         string                     `json:"note" binding:"max=500"`
	Items        []PurchaseOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// ChangeItemQuantityRequest amends one line on an open order
type ChangeItemQuantityRequest struct {
	ItemID   string `json:"item_id" binding:"required,uuid"`
	Quantity string `json:"quantity" binding:"required"`
}

// OrderListQuery represents order listing query parameters
type OrderListQuery struct {
	dto.ListRequest
	Status string `form:"status"`
}

func (q OrderListQuery) toFilter() tradeapp.ListFilter {
	return tradeapp.ListFilter{
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
		Status:   q.Status,
	}
}

// Create creates a purchase order and reserves incoming stock
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	var req CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	items := make([]tradeapp.PurchaseOrderItemRequest, 0, len(req.Items))
	for _, item := range req.Items {
		quantity, ok := parseQuantity(item.Quantity)
		if !ok {
			h.BadRequest(c, "Invalid quantity format")
			return
		}
		items = append(items, tradeapp.PurchaseOrderItemRequest{
			ProductID: uuid.MustParse(item.ProductID),
			Quantity:  quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	order, err := h.orderService.Create(c.Request.Context(), storeID, tradeapp.CreatePurchaseOrderRequest{
		VendorID:     uuid.MustParse(req.VendorID),
		LeadTimeDays: req.LeadTimeDays,
		Note:         req.Note,
		Items:        items,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// Get returns one purchase order by ID
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	order, err := h.orderService.Get(c.Request.Context(), storeID, uuid.MustParse(idReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// List returns a paginated list of purchase orders
func (h *PurchaseOrderHandler) List(c *gin.Context) {
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

	orders, total, err := h.orderService.List(c.Request.Context(), storeID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// StartProduction moves an order from REQUEST to IN_PRODUCTION
func (h *PurchaseOrderHandler) StartProduction(c *gin.Context) {
	h.transition(c, h.orderService.StartProduction)
}

// MarkPendingShipment moves an order from IN_PRODUCTION to PENDING_SHIPMENT
func (h *PurchaseOrderHandler) MarkPendingShipment(c *gin.Context) {
	h.transition(c, h.orderService.MarkPendingShipment)
}

// Cancel cancels an order and releases its incoming reservations
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	h.transition(c, h.orderService.Cancel)
}

// ChangeItemQuantity amends one line and adjusts the incoming reservation
func (h *PurchaseOrderHandler) ChangeItemQuantity(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	var req ChangeItemQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	quantity, ok := parseQuantity(req.Quantity)
	if !ok {
		h.BadRequest(c, "Invalid quantity format")
		return
	}

	order, err := h.orderService.ChangeItemQuantity(c.Request.Context(), storeID, uuid.MustParse(idReq.ID),
		tradeapp.ChangeOrderItemQuantityRequest{
			ItemID:   uuid.MustParse(req.ItemID),
			Quantity: quantity,
		})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// transition applies a status transition identified by the order ID in the path
func (h *PurchaseOrderHandler) transition(
	c *gin.Context,
	fn func(ctx context.Context, storeID, orderID uuid.UUID) (*tradeapp.PurchaseOrderResponse, error),
) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid purchase order ID format")
		return
	}

	order, err := fn(c.Request.Context(), storeID, uuid.MustParse(idReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// RegisterRoutes registers all purchase order routes
func (h *PurchaseOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/purchase-orders")
	{
		orders.GET("", h.List)
		orders.GET("/:id", h.Get)
		orders.POST("", h.Create)
		orders.POST("/:id/start-production", h.StartProduction)
		orders.POST("/:id/pending-shipment", h.MarkPendingShipment)
		orders.POST("/:id/cancel", h.Cancel)
		orders.PUT("/:id/items", h.ChangeItemQuantity)
	}
}
