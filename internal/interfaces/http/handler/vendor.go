package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/stockroom/backend/internal/application/catalog"
	"github.com/stockroom/backend/internal/interfaces/http/dto"
)

// VendorHandler handles vendor API endpoints
type VendorHandler struct {
	BaseHandler
	vendorService *catalogapp.VendorService
}

// NewVendorHandler creates a new VendorHandler
func NewVendorHandler(vendorService *catalogapp.VendorService) *VendorHandler {
	return &VendorHandler{
		vendorService: vendorService,
	}
}

// CreateVendorRequest represents a vendor creation request
type CreateVendorRequest struct {
	Name         string `json:"name" binding:"required,max=100"`
	ContactName  string `json:"contact_name" binding:"max=100"`
	Phone        string `json:"phone" binding:"max=30"`
	LeadTimeDays int    `json:"lead_time_days" binding:"gte=0"`
}

// UpdateLeadTimeRequest changes a vendor's default production lead time
type UpdateLeadTimeRequest struct {
	LeadTimeDays int `json:"lead_time_days" binding:"gte=0"`
}

// Create adds a vendor to the store
func (h *VendorHandler) Create(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	var req CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	vendor, err := h.vendorService.Create(c.Request.Context(), storeID, catalogapp.CreateVendorRequest{
		Name:         req.Name,
		ContactName:  req.ContactName,
		Phone:        req.Phone,
		LeadTimeDays: req.LeadTimeDays,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, vendor)
}

// Get returns one vendor by ID
func (h *VendorHandler) Get(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid vendor ID format")
		return
	}

	vendor, err := h.vendorService.Get(c.Request.Context(), storeID, uuid.MustParse(idReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, vendor)
}

// List returns vendors for the store
func (h *VendorHandler) List(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	var query dto.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	vendors, err := h.vendorService.List(c.Request.Context(), storeID, catalogapp.ListFilter{
		Page:     query.Page,
		PageSize: query.PageSize,
		OrderBy:  query.OrderBy,
		OrderDir: query.OrderDir,
		Search:   query.Search,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, vendors)
}

// UpdateLeadTime changes a vendor's default production lead time
func (h *VendorHandler) UpdateLeadTime(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid vendor ID format")
		return
	}

	var req UpdateLeadTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	vendor, err := h.vendorService.UpdateLeadTime(c.Request.Context(), storeID, uuid.MustParse(idReq.ID), req.LeadTimeDays)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, vendor)
}

// RegisterRoutes registers all vendor routes
func (h *VendorHandler) RegisterRoutes(rg *gin.RouterGroup) {
	vendors := rg.Group("/vendors")
	{
		vendors.GET("", h.List)
		vendors.GET("/:id", h.Get)
		vendors.POST("", h.Create)
		vendors.PUT("/:id/lead-time", h.UpdateLeadTime)
	}
}
