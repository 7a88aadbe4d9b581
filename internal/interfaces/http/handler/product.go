package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/stockroom/backend/internal/application/catalog"
	"github.com/stockroom/backend/internal/interfaces/http/dto"
)

// ProductHandler handles product catalog API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	VendorID       string `json:"vendor_id" binding:"required,uuid"`
	Name           string `json:"name" binding:"required,max=150"`
	Code           string `json:"code" binding:"required,max=64"`
	Unit           string `json:"unit" binding:"max=20"`
	CostPrice      int64  `json:"cost_price" binding:"gte=0"`
	RetailPrice    int64  `json:"retail_price" binding:"gte=0"`
	WholesalePrice int64  `json:"wholesale_price" binding:"gte=0"`
}

// ReviewProductRequest completes the review of a placeholder product
type ReviewProductRequest struct {
	Name           string `json:"name" binding:"max=150"`
	CostPrice      int64  `json:"cost_price" binding:"gte=0"`
	RetailPrice    int64  `json:"retail_price" binding:"gte=0"`
	WholesalePrice int64  `json:"wholesale_price" binding:"gte=0"`
}

// UpdatePricesRequest replaces the three price points of a product
type UpdatePricesRequest struct {
	CostPrice      int64 `json:"cost_price" binding:"gte=0"`
	RetailPrice    int64 `json:"retail_price" binding:"gte=0"`
	WholesalePrice int64 `json:"wholesale_price" binding:"gte=0"`
}

// Create adds a product to the catalog
func (h *ProductHandler) Create(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.productService.Create(c.Request.Context(), storeID, catalogapp.CreateProductRequest{
		VendorID:       uuid.MustParse(req.VendorID),
		Name:           req.Name,
		Code:           req.Code,
		Unit:           req.Unit,
		CostPrice:      req.CostPrice,
		RetailPrice:    req.RetailPrice,
		WholesalePrice: req.WholesalePrice,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// Get returns one product by ID
func (h *ProductHandler) Get(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	product, err := h.productService.Get(c.Request.Context(), storeID, uuid.MustParse(idReq.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// List returns a paginated list of products
func (h *ProductHandler) List(c *gin.Context) {
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

	filter := catalogapp.ListFilter{
		Page:     query.Page,
		PageSize: query.PageSize,
		OrderBy:  query.OrderBy,
		OrderDir: query.OrderDir,
		Search:   query.Search,
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	products, total, err := h.productService.List(c.Request.Context(), storeID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}

// ListNeedingReview returns placeholder products awaiting operator review
func (h *ProductHandler) ListNeedingReview(c *gin.Context) {
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

	products, err := h.productService.ListNeedingReview(c.Request.Context(), storeID, catalogapp.ListFilter{
		Page:     query.Page,
		PageSize: query.PageSize,
		OrderBy:  query.OrderBy,
		OrderDir: query.OrderDir,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, products)
}

// Review fixes up a placeholder product and clears its review flag
func (h *ProductHandler) Review(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req ReviewProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.productService.Review(c.Request.Context(), storeID, uuid.MustParse(idReq.ID),
		catalogapp.ReviewProductRequest{
			Name:           req.Name,
			CostPrice:      req.CostPrice,
			RetailPrice:    req.RetailPrice,
			WholesalePrice: req.WholesalePrice,
		})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// UpdatePrices replaces the three price points of a product
func (h *ProductHandler) UpdatePrices(c *gin.Context) {
	storeID, err := getStoreID(c)
	if err != nil {
		h.BadRequest(c, "Invalid store ID")
		return
	}

	var idReq dto.IDRequest
	if err := c.ShouldBindUri(&idReq); err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req UpdatePricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.productService.UpdatePrices(c.Request.Context(), storeID, uuid.MustParse(idReq.ID),
		req.CostPrice, req.RetailPrice, req.WholesalePrice)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.GET("", h.List)
		products.GET("/needing-review", h.ListNeedingReview)
		products.GET("/:id", h.Get)
		products.POST("", h.Create)
		products.POST("/:id/review", h.Review)
		products.PUT("/:id/prices", h.UpdatePrices)
	}
}
