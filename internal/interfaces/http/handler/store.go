package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/stockroom/backend/internal/application/catalog"
	"github.com/stockroom/backend/internal/interfaces/http/dto"
)

// StoreHandler handles store API endpoints. Stores are not themselves
// store-scoped, so none of these read the X-Store-ID header.
type StoreHandler struct {
	BaseHandler
	storeService *catalogapp.StoreService
}

// NewStoreHandler creates a new StoreHandler
func NewStoreHandler(storeService *catalogapp.StoreService) *StoreHandler {
	return &StoreHandler{
		storeService: storeService,
	}
}

// CreateStoreRequest represents a store creation request
type CreateStoreRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Address string `json:"address" binding:"max=255"`
	Phone   string `json:"phone" binding:"max=30"`
}

// Create registers a new store
func (h *StoreHandler) Create(c *gin.Context) {
	var req CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	store, err := h.storeService.Create(c.Request.Context(), catalogapp.CreateStoreRequest{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, store)
}

// Get returns one store by ID
func (h *StoreHandler) Get(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid store ID format")
		return
	}

	store, err := h.storeService.Get(c.Request.Context(), uuid.MustParse(idReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, store)
}

// List returns all stores
func (h *StoreHandler) List(c *gin.Context) {
	var query dto.ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	stores, err := h.storeService.List(c.Request.Context(), catalogapp.ListFilter{
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

	h.Success(c, stores)
}

// Deactivate marks a store inactive
func (h *StoreHandler) Deactivate(c *gin.Context) {
	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid store ID format")
		return
	}

	store, err := h.storeService.Deactivate(c.Request.Context(), uuid.MustParse(idReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, store)
}

// RegisterRoutes registers all store routes
func (h *StoreHandler) RegisterRoutes(rg *gin.RouterGroup) {
	stores := rg.Group("/stores")
	{
		stores.GET("", h.List)
		stores.GET("/:id", h.Get)
		stores.POST("", h.Create)
		stores.POST("/:id/deactivate", h.Deactivate)
	}
}
