package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/stockroom/backend/internal/domain/catalog"
	"github.com/stockroom/backend/internal/domain/shared"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, storeID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCode(ctx context.Context, storeID uuid.UUID, code string) (*catalog.Product, error) {
	args := m.Called(ctx, storeID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, storeID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, storeID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, storeID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindNeedingReview(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, storeID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) CountForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, storeID, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockVendorRepository struct {
	mock.Mock
}

func (m *MockVendorRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Vendor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Vendor), args.Error(1)
}

func (m *MockVendorRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*catalog.Vendor, error) {
	args := m.Called(ctx, storeID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Vendor), args.Error(1)
}

func (m *MockVendorRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]catalog.Vendor, error) {
	args := m.Called(ctx, storeID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Vendor), args.Error(1)
}

func (m *MockVendorRepository) Save(ctx context.Context, vendor *catalog.Vendor) error {
	args := m.Called(ctx, vendor)
	return args.Error(0)
}

func newProductFixture(t *testing.T) (*ProductService, *MockProductRepository, *MockVendorRepository, uuid.UUID) {
	t.Helper()
	productRepo := new(MockProductRepository)
	vendorRepo := new(MockVendorRepository)
	service := NewProductService(productRepo, vendorRepo, zap.NewNop())
	return service, productRepo, vendorRepo, uuid.New()
}

func TestProductService_Create(t *testing.T) {
	service, productRepo, vendorRepo, storeID := newProductFixture(t)
	ctx := context.Background()

	vendor, err := catalog.NewVendor(storeID, "Hillside Tea Estate", "Mei", "555-0101", 14)
	require.NoError(t, err)

	vendorRepo.On("FindByIDForStore", ctx, storeID, vendor.ID).Return(vendor, nil)
	productRepo.On("FindByCode", ctx, storeID, "P-OOLONG-250").Return(nil, shared.ErrNotFound)
	productRepo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

	product, err := service.Create(ctx, storeID, CreateProductRequest{
		VendorID:       vendor.ID,
		Name:           "Oolong 250g",
		Code:           "P-OOLONG-250",
		Unit:           "EA",
		CostPrice:      300,
		RetailPrice:    650,
		WholesalePrice: 500,
	})

	require.NoError(t, err)
	assert.Equal(t, "P-OOLONG-250", product.Code)
	assert.False(t, product.NeedsReview)
	productRepo.AssertExpectations(t)
}

func TestProductService_Create_DuplicateCode(t *testing.T) {
	service, productRepo, vendorRepo, storeID := newProductFixture(t)
	ctx := context.Background()

	vendor, err := catalog.NewVendor(storeID, "Hillside Tea Estate", "", "", 14)
	require.NoError(t, err)
	existing, err := catalog.NewProduct(storeID, vendor.ID, "Oolong 250g", "P-OOLONG-250", "EA", 300, 650, 500)
	require.NoError(t, err)

	vendorRepo.On("FindByIDForStore", ctx, storeID, vendor.ID).Return(vendor, nil)
	productRepo.On("FindByCode", ctx, storeID, "P-OOLONG-250").Return(existing, nil)

	_, err = service.Create(ctx, storeID, CreateProductRequest{
		VendorID: vendor.ID,
		Name:     "Oolong 250g",
		Code:     "P-OOLONG-250",
	})

	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductService_Review_ClearsFlagAndSetsPrices(t *testing.T) {
	service, productRepo, _, storeID := newProductFixture(t)
	ctx := context.Background()

	placeholder, err := catalog.NewPlaceholderProduct(storeID, uuid.New(), "Unknown P-NEW", "P-NEW")
	require.NoError(t, err)
	require.True(t, placeholder.NeedsReview)

	productRepo.On("FindByIDForStore", ctx, storeID, placeholder.ID).Return(placeholder, nil)
	productRepo.On("Save", ctx, placeholder).Return(nil)

	reviewed, err := service.Review(ctx, storeID, placeholder.ID, ReviewProductRequest{
		Name:           "Jasmine Pearls 100g",
		CostPrice:      200,
		RetailPrice:    480,
		WholesalePrice: 380,
	})

	require.NoError(t, err)
	assert.False(t, reviewed.NeedsReview)
	assert.Equal(t, "Jasmine Pearls 100g", reviewed.Name)
	assert.Equal(t, int64(480), reviewed.RetailPrice)
}

func TestProductService_Review_NegativePriceRejected(t *testing.T) {
	service, productRepo, _, storeID := newProductFixture(t)
	ctx := context.Background()

	placeholder, err := catalog.NewPlaceholderProduct(storeID, uuid.New(), "Unknown P-NEW", "P-NEW")
	require.NoError(t, err)

	productRepo.On("FindByIDForStore", ctx, storeID, placeholder.ID).Return(placeholder, nil)

	_, err = service.Review(ctx, storeID, placeholder.ID, ReviewProductRequest{
		CostPrice:   -1,
		RetailPrice: 480,
	})

	require.Error(t, err)
	assert.True(t, placeholder.NeedsReview)
	productRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductService_ListNeedingReview(t *testing.T) {
	service, productRepo, _, storeID := newProductFixture(t)
	ctx := context.Background()

	placeholder, err := catalog.NewPlaceholderProduct(storeID, uuid.New(), "Unknown P-NEW", "P-NEW")
	require.NoError(t, err)

	productRepo.On("FindNeedingReview", ctx, storeID, mock.AnythingOfType("shared.Filter")).
		Return([]catalog.Product{*placeholder}, nil)

	products, err := service.ListNeedingReview(ctx, storeID, ListFilter{})

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.True(t, products[0].NeedsReview)
}

func TestVendorService_UpdateLeadTime(t *testing.T) {
	vendorRepo := new(MockVendorRepository)
	service := NewVendorService(vendorRepo)
	ctx := context.Background()
	storeID := uuid.New()

	vendor, err := catalog.NewVendor(storeID, "Hillside Tea Estate", "", "", 7)
	require.NoError(t, err)

	vendorRepo.On("FindByIDForStore", ctx, storeID, vendor.ID).Return(vendor, nil)
	vendorRepo.On("Save", ctx, vendor).Return(nil)

	updated, err := service.UpdateLeadTime(ctx, storeID, vendor.ID, 21)

	require.NoError(t, err)
	assert.Equal(t, 21, updated.LeadTimeDays)
}

func TestVendorService_UpdateLeadTime_NegativeRejected(t *testing.T) {
	vendorRepo := new(MockVendorRepository)
	service := NewVendorService(vendorRepo)
	ctx := context.Background()
	storeID := uuid.New()

	vendor, err := catalog.NewVendor(storeID, "Hillside Tea Estate", "", "", 7)
	require.NoError(t, err)

	vendorRepo.On("FindByIDForStore", ctx, storeID, vendor.ID).Return(vendor, nil)

	_, err = service.UpdateLeadTime(ctx, storeID, vendor.ID, -1)

	require.Error(t, err)
	vendorRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
