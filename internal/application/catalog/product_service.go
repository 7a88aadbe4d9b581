package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stockroom/backend/internal/domain/catalog"
	"github.com/stockroom/backend/internal/domain/shared"
)

// ProductService manages the product catalog, including the review queue
// of placeholders auto-provisioned from the remote order feed.
type ProductService struct {
	productRepo catalog.ProductRepository
	vendorRepo  catalog.VendorRepository
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	vendorRepo catalog.VendorRepository,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		vendorRepo:  vendorRepo,
		logger:      logger,
	}
}

// Create adds a product to the catalog
func (s *ProductService) Create(ctx context.Context, storeID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	if _, err := s.vendorRepo.FindByIDForStore(ctx, storeID, req.VendorID); err != nil {
		return nil, err
	}

	if _, err := s.productRepo.FindByCode(ctx, storeID, req.Code); err == nil {
		return nil, shared.ErrAlreadyExists
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	product, err := catalog.NewProduct(storeID, req.VendorID, req.Name, req.Code, req.Unit,
		req.CostPrice, req.RetailPrice, req.WholesalePrice)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Get returns one product by ID
func (s *ProductService) Get(ctx context.Context, storeID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForStore(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List returns a paginated list of products
func (s *ProductService) List(ctx context.Context, storeID uuid.UUID, filter ListFilter) ([]ProductResponse, int64, error) {
	filter = filter.normalized()
	repoFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}

	products, err := s.productRepo.FindAllForStore(ctx, storeID, repoFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.CountForStore(ctx, storeID, repoFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductResponses(products), total, nil
}

// ListNeedingReview returns placeholder products awaiting operator review
func (s *ProductService) ListNeedingReview(ctx context.Context, storeID uuid.UUID, filter ListFilter) ([]ProductResponse, error) {
	filter = filter.normalized()
	products, err := s.productRepo.FindNeedingReview(ctx, storeID, shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	})
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products), nil
}

// Review fixes up a placeholder product and clears its review flag
func (s *ProductService) Review(ctx context.Context, storeID, productID uuid.UUID, req ReviewProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForStore(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		product.Name = req.Name
	}
	if err := product.UpdatePrices(req.CostPrice, req.RetailPrice, req.WholesalePrice); err != nil {
		return nil, err
	}
	product.MarkReviewed()

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("Product reviewed",
		zap.String("product_id", product.ID.String()),
		zap.String("code", product.Code),
	)

	response := ToProductResponse(product)
	return &response, nil
}

// UpdatePrices replaces the three price points of a product
func (s *ProductService) UpdatePrices(ctx context.Context, storeID, productID uuid.UUID, costPrice, retailPrice, wholesalePrice int64) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForStore(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}

	if err := product.UpdatePrices(costPrice, retailPrice, wholesalePrice); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}
