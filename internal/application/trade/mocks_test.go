package trade

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/stockroom/backend/internal/domain/catalog"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/trade"
)

// MockPurchaseOrderRepository is a mock implementation of PurchaseOrderRepository
type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PurchaseOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*trade.PurchaseOrder, error) {
	args := m.Called(ctx, storeID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]trade.PurchaseOrder, error) {
	args := m.Called(ctx, storeID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindByStatus(ctx context.Context, storeID uuid.UUID, status trade.PurchaseOrderStatus, filter shared.Filter) ([]trade.PurchaseOrder, error) {
	args := m.Called(ctx, storeID, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) Save(ctx context.Context, order *trade.PurchaseOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockPurchaseOrderRepository) CountForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, storeID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockReceiptRepository is a mock implementation of ReceiptRepository
type MockReceiptRepository struct {
	mock.Mock
}

func (m *MockReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Receipt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*trade.Receipt, error) {
	args := m.Called(ctx, storeID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) FindByOrder(ctx context.Context, purchaseOrderID uuid.UUID) (*trade.Receipt, error) {
	args := m.Called(ctx, purchaseOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]trade.Receipt, error) {
	args := m.Called(ctx, storeID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.Receipt), args.Error(1)
}

func (m *MockReceiptRepository) Save(ctx context.Context, receipt *trade.Receipt) error {
	args := m.Called(ctx, receipt)
	return args.Error(0)
}

// MockWholesaleRepository is a mock implementation of WholesaleRepository
type MockWholesaleRepository struct {
	mock.Mock
}

func (m *MockWholesaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Wholesale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Wholesale), args.Error(1)
}

func (m *MockWholesaleRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*trade.Wholesale, error) {
	args := m.Called(ctx, storeID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Wholesale), args.Error(1)
}

func (m *MockWholesaleRepository) FindByExternalOrderID(ctx context.Context, externalOrderID string) (*trade.Wholesale, error) {
	args := m.Called(ctx, externalOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Wholesale), args.Error(1)
}

func (m *MockWholesaleRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]trade.Wholesale, error) {
	args := m.Called(ctx, storeID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.Wholesale), args.Error(1)
}

func (m *MockWholesaleRepository) FindByStatus(ctx context.Context, storeID uuid.UUID, status trade.WholesaleStatus, filter shared.Filter) ([]trade.Wholesale, error) {
	args := m.Called(ctx, storeID, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.Wholesale), args.Error(1)
}

func (m *MockWholesaleRepository) Save(ctx context.Context, wholesale *trade.Wholesale) error {
	args := m.Called(ctx, wholesale)
	return args.Error(0)
}

func (m *MockWholesaleRepository) DeleteItems(ctx context.Context, wholesaleID uuid.UUID, itemIDs []uuid.UUID) error {
	args := m.Called(ctx, wholesaleID, itemIDs)
	return args.Error(0)
}

func (m *MockWholesaleRepository) CountForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, storeID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockVendorRepository is a mock implementation of VendorRepository
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

// MockProductRepository is a mock implementation of ProductRepository
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

// ledgerCall records one ledger operation for assertions
type ledgerCall struct {
	Op        string
	ProductID uuid.UUID
	Quantity  decimal.Decimal
	Expected  decimal.Decimal
}

// fakeStockLedger records calls and fails selected operations per product
type fakeStockLedger struct {
	mu        sync.Mutex
	calls     []ledgerCall
	failOn    map[string]uuid.UUID
	failWith  error
	available map[uuid.UUID]decimal.Decimal
}

func newFakeStockLedger() *fakeStockLedger {
	return &fakeStockLedger{
		failOn:    make(map[string]uuid.UUID),
		available: make(map[uuid.UUID]decimal.Decimal),
	}
}

func (f *fakeStockLedger) record(op string, productID uuid.UUID, quantity, expected decimal.Decimal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if target, ok := f.failOn[op]; ok && target == productID {
		return f.failWith
	}
	f.calls = append(f.calls, ledgerCall{Op: op, ProductID: productID, Quantity: quantity, Expected: expected})
	return nil
}

func (f *fakeStockLedger) callsFor(op string) []ledgerCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []ledgerCall
	for _, call := range f.calls {
		if call.Op == op {
			matched = append(matched, call)
		}
	}
	return matched
}

func (f *fakeStockLedger) ReserveIncoming(_ context.Context, _, productID uuid.UUID, quantity decimal.Decimal) error {
	return f.record("ReserveIncoming", productID, quantity, decimal.Zero)
}

func (f *fakeStockLedger) ReleaseIncoming(_ context.Context, _, productID uuid.UUID, quantity decimal.Decimal) error {
	return f.record("ReleaseIncoming", productID, quantity, decimal.Zero)
}

func (f *fakeStockLedger) AdjustIncoming(_ context.Context, _, productID uuid.UUID, delta decimal.Decimal) error {
	return f.record("AdjustIncoming", productID, delta, decimal.Zero)
}

func (f *fakeStockLedger) ConfirmIncoming(_ context.Context, _, productID uuid.UUID, expected, actual decimal.Decimal) error {
	return f.record("ConfirmIncoming", productID, actual, expected)
}

func (f *fakeStockLedger) SettleWarehouse(_ context.Context, _, productID uuid.UUID, delta decimal.Decimal) error {
	return f.record("SettleWarehouse", productID, delta, decimal.Zero)
}

func (f *fakeStockLedger) ReserveOutgoing(_ context.Context, _, productID uuid.UUID, quantity decimal.Decimal) error {
	return f.record("ReserveOutgoing", productID, quantity, decimal.Zero)
}

func (f *fakeStockLedger) ReleaseOutgoing(_ context.Context, _, productID uuid.UUID, quantity decimal.Decimal) error {
	return f.record("ReleaseOutgoing", productID, quantity, decimal.Zero)
}

func (f *fakeStockLedger) ConfirmOutgoing(_ context.Context, _, productID uuid.UUID, quantity decimal.Decimal) error {
	return f.record("ConfirmOutgoing", productID, quantity, decimal.Zero)
}

func (f *fakeStockLedger) Available(_ context.Context, _, productID uuid.UUID) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.available[productID], nil
}
