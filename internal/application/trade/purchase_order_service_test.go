package trade

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/stockroom/backend/internal/domain/catalog"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/trade"
)

type orderServiceFixture struct {
	orderRepo   *MockPurchaseOrderRepository
	vendorRepo  *MockVendorRepository
	productRepo *MockProductRepository
	ledger      *fakeStockLedger
	service     *PurchaseOrderService
}

func newOrderServiceFixture() *orderServiceFixture {
	f := &orderServiceFixture{
		orderRepo:   new(MockPurchaseOrderRepository),
		vendorRepo:  new(MockVendorRepository),
		productRepo: new(MockProductRepository),
		ledger:      newFakeStockLedger(),
	}
	f.service = NewPurchaseOrderService(f.orderRepo, f.vendorRepo, f.productRepo, f.ledger, zap.NewNop())
	return f
}

func testVendor(t *testing.T, storeID uuid.UUID, leadTimeDays int) *catalog.Vendor {
	t.Helper()
	vendor, err := catalog.NewVendor(storeID, "Mountain Tea Co", "Kim", "010-1111-2222", leadTimeDays)
	require.NoError(t, err)
	return vendor
}

func testProduct(t *testing.T, storeID uuid.UUID, name, code string) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(storeID, uuid.New(), name, code, "box", 500, 900, 700)
	require.NoError(t, err)
	return product
}

func TestPurchaseOrderService_Create(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.New()
	f := newOrderServiceFixture()

	vendor := testVendor(t, storeID, 7)
	productA := testProduct(t, storeID, "Oolong 250g", "P-001")
	productB := testProduct(t, storeID, "Sencha 100g", "P-002")

	f.vendorRepo.On("FindByIDForStore", ctx, storeID, vendor.ID).Return(vendor, nil)
	f.productRepo.On("FindByIDs", ctx, storeID, mock.Anything).Return([]catalog.Product{*productA, *productB}, nil)
	f.orderRepo.On("Save", ctx, mock.Anything).Return(nil)

	response, err := f.service.Create(ctx, storeID, CreatePurchaseOrderRequest{
		VendorID: vendor.ID,
		Note:     "autumn restock",
		Items: []PurchaseOrderItemRequest{
			{ProductID: productA.ID, Quantity: decimal.NewFromInt(30), UnitPrice: 500},
			{ProductID: productB.ID, Quantity: decimal.NewFromInt(10), UnitPrice: 300},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, string(trade.PurchaseOrderStatusRequest), response.Status)
	assert.Equal(t, int64(30*500+10*300), response.TotalPrice)
	assert.Len(t, response.Items, 2)
	assert.Equal(t, "Oolong 250g", response.Items[0].ProductName)

	reserved := f.ledger.callsFor("ReserveIncoming")
	require.Len(t, reserved, 2)
	assert.Equal(t, productA.ID, reserved[0].ProductID)
	assert.True(t, reserved[0].Quantity.Equal(decimal.NewFromInt(30)))
	f.orderRepo.AssertExpectations(t)
}

func TestPurchaseOrderService_Create_LeadTimeSetsExpectedArrival(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.New()
	f := newOrderServiceFixture()

	vendor := testVendor(t, storeID, 7)
	product := testProduct(t, storeID, "Oolong 250g", "P-001")

	f.vendorRepo.On("FindByIDForStore", ctx, storeID, vendor.ID).Return(vendor, nil)
	f.productRepo.On("FindByIDs", ctx, storeID, mock.Anything).Return([]catalog.Product{*product}, nil)
	f.orderRepo.On("Save", ctx, mock.Anything).Return(nil)

	leadTime := 21
	response, err := f.service.Create(ctx, storeID, CreatePurchaseOrderRequest{
		VendorID:     vendor.ID,
		LeadTimeDays: &leadTime,
		Items: []PurchaseOrderItemRequest{
			{ProductID: product.ID, Quantity: decimal.NewFromInt(10), UnitPrice: 500},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, response.ExpectedArrival)
	assert.WithinDuration(t, time.Now().AddDate(0, 0, leadTime), *response.ExpectedArrival, time.Minute)
}

func TestPurchaseOrderService_Create_CrossStoreProductDenied(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.New()
	otherStoreID := uuid.New()
	f := newOrderServiceFixture()

	vendor := testVendor(t, storeID, 7)
	foreign := testProduct(t, otherStoreID, "Oolong 250g", "P-001")

	f.vendorRepo.On("FindByIDForStore", ctx, storeID, vendor.ID).Return(vendor, nil)
	f.productRepo.On("FindByIDs", ctx, storeID, mock.Anything).Return([]catalog.Product{}, nil)
	f.productRepo.On("FindByID", ctx, foreign.ID).Return(foreign, nil)

	_, err := f.service.Create(ctx, storeID, CreatePurchaseOrderRequest{
		VendorID: vendor.ID,
		Items: []PurchaseOrderItemRequest{
			{ProductID: foreign.ID, Quantity: decimal.NewFromInt(5), UnitPrice: 500},
		},
	})
	assert.ErrorIs(t, err, catalog.ErrProductAccessDenied)
	assert.Empty(t, f.ledger.callsFor("ReserveIncoming"))
}

func TestPurchaseOrderService_Create_UnknownVendor(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.New()
	f := newOrderServiceFixture()

	vendorID := uuid.New()
	f.vendorRepo.On("FindByIDForStore", ctx, storeID, vendorID).Return(nil, shared.ErrNotFound)

	_, err := f.service.Create(ctx, storeID, CreatePurchaseOrderRequest{
		VendorID: vendorID,
		Items:    []PurchaseOrderItemRequest{{ProductID: uuid.New(), Quantity: decimal.NewFromInt(1)}},
	})
	require.Error(t, err)
	assert.Empty(t, f.ledger.callsFor("ReserveIncoming"))
}

func TestPurchaseOrderService_Create_RollsBackOnPartialReservation(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.New()
	f := newOrderServiceFixture()

	vendor := testVendor(t, storeID, 7)
	productA := testProduct(t, storeID, "Oolong 250g", "P-001")
	productB := testProduct(t, storeID, "Sencha 100g", "P-002")

	f.vendorRepo.On("FindByIDForStore", ctx, storeID, vendor.ID).Return(vendor, nil)
	f.productRepo.On("FindByIDs", ctx, storeID, mock.Anything).Return([]catalog.Product{*productA, *productB}, nil)
	f.ledger.failOn["ReserveIncoming"] = productB.ID
	f.ledger.failWith = inventory.ErrWarehouseStockNotEnough

	_, err := f.service.Create(ctx, storeID, CreatePurchaseOrderRequest{
		VendorID: vendor.ID,
		Items: []PurchaseOrderItemRequest{
			{ProductID: productA.ID, Quantity: decimal.NewFromInt(30), UnitPrice: 500},
			{ProductID: productB.ID, Quantity: decimal.NewFromInt(10), UnitPrice: 300},
		},
	})
	require.Error(t, err)

	released := f.ledger.callsFor("ReleaseIncoming")
	require.Len(t, released, 1)
	assert.Equal(t, productA.ID, released[0].ProductID)
	f.orderRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPurchaseOrderService_StartProduction(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.New()
	f := newOrderServiceFixture()

	vendor := testVendor(t, storeID, 14)
	order := testOrder(t, storeID, vendor.ID)

	f.orderRepo.On("FindByIDForStore", ctx, storeID, order.ID).Return(order, nil)
	f.vendorRepo.On("FindByID", ctx, vendor.ID).Return(vendor, nil)
	f.orderRepo.On("Save", ctx, order).Return(nil)

	response, err := f.service.StartProduction(ctx, storeID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, string(trade.PurchaseOrderStatusInProduction), response.Status)
	require.NotNil(t, response.ExpectedArrival)
}

func TestPurchaseOrderService_Cancel_ReleasesIncoming(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.New()
	f := newOrderServiceFixture()

	order := testOrder(t, storeID, uuid.New())
	f.orderRepo.On("FindByIDForStore", ctx, storeID, order.ID).Return(order, nil)
	f.orderRepo.On("Save", ctx, order).Return(nil)

	response, err := f.service.Cancel(ctx, storeID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, string(trade.PurchaseOrderStatusCanceled), response.Status)

	released := f.ledger.callsFor("ReleaseIncoming")
	require.Len(t, released, 1)
	assert.True(t, released[0].Quantity.Equal(decimal.NewFromInt(30)))
}

func TestPurchaseOrderService_Cancel_DeliveredOrderRejected(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.New()
	f := newOrderServiceFixture()

	order := testOrder(t, storeID, uuid.New())
	require.NoError(t, order.StartProduction(0))
	require.NoError(t, order.MarkPendingShipment())
	require.NoError(t, order.MarkDelivered())

	f.orderRepo.On("FindByIDForStore", ctx, storeID, order.ID).Return(order, nil)

	_, err := f.service.Cancel(ctx, storeID, order.ID)
	assert.ErrorIs(t, err, trade.ErrOrderAlreadyDelivered)
	assert.Empty(t, f.ledger.callsFor("ReleaseIncoming"))
}

func TestPurchaseOrderService_ChangeItemQuantity(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.New()
	f := newOrderServiceFixture()

	order := testOrder(t, storeID, uuid.New())
	item := order.Items[0]

	f.orderRepo.On("FindByIDForStore", ctx, storeID, order.ID).Return(order, nil)
	f.orderRepo.On("Save", ctx, order).Return(nil)

	// 30 ordered, amended to 25: the reservation shrinks by 5
	response, err := f.service.ChangeItemQuantity(ctx, storeID, order.ID, ChangeOrderItemQuantityRequest{
		ItemID:   item.ID,
		Quantity: decimal.NewFromInt(25),
	})
	require.NoError(t, err)
	assert.Equal(t, "25", response.Items[0].Quantity)

	adjusted := f.ledger.callsFor("AdjustIncoming")
	require.Len(t, adjusted, 1)
	assert.True(t, adjusted[0].Quantity.Equal(decimal.NewFromInt(-5)))
}

func testOrder(t *testing.T, storeID, vendorID uuid.UUID) *trade.PurchaseOrder {
	t.Helper()
	order, err := trade.NewPurchaseOrder(storeID, vendorID, []trade.PurchaseOrderItemInput{
		{ProductID: uuid.New(), ProductName: "Oolong 250g", Quantity: decimal.NewFromInt(30), UnitPrice: 500},
	}, nil, "")
	require.NoError(t, err)
	order.ClearDomainEvents()
	return order
}
