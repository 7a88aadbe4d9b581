package trade_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	inventoryapp "github.com/stockroom/backend/internal/application/inventory"
	tradeapp "github.com/stockroom/backend/internal/application/trade"
	"github.com/stockroom/backend/internal/domain/catalog"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/trade"
	"github.com/stockroom/backend/internal/infrastructure/persistence"
)

// workflowFixture wires the trade services against a real database so
// that transactional behavior is observable end to end.
type workflowFixture struct {
	db            *persistence.Database
	stockRepo     *persistence.GormStockRecordRepository
	productRepo   *persistence.GormProductRepository
	vendorRepo    *persistence.GormVendorRepository
	orderRepo     *persistence.GormPurchaseOrderRepository
	receiptRepo   *persistence.GormReceiptRepository
	wholesaleRepo *persistence.GormWholesaleRepository
	ledger        *inventoryapp.StockService
	orders        *tradeapp.PurchaseOrderService
	receipts      *tradeapp.ReceiptService
	wholesales    *tradeapp.WholesaleService
}

func newWorkflowFixture(t *testing.T) *workflowFixture {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(
		&catalog.Vendor{},
		&catalog.Product{},
		&inventory.StockRecord{},
		&trade.PurchaseOrder{},
		&trade.PurchaseOrderItem{},
		&trade.Receipt{},
		&trade.ReceiptItem{},
		&trade.Wholesale{},
		&trade.WholesaleItem{},
	))

	f := &workflowFixture{
		db:            &persistence.Database{DB: gdb},
		stockRepo:     persistence.NewGormStockRecordRepository(gdb),
		productRepo:   persistence.NewGormProductRepository(gdb),
		vendorRepo:    persistence.NewGormVendorRepository(gdb),
		orderRepo:     persistence.NewGormPurchaseOrderRepository(gdb),
		receiptRepo:   persistence.NewGormReceiptRepository(gdb),
		wholesaleRepo: persistence.NewGormWholesaleRepository(gdb),
	}
	f.ledger = inventoryapp.NewStockService(f.stockRepo, f.productRepo)
	f.orders = tradeapp.NewPurchaseOrderService(f.orderRepo, f.vendorRepo, f.productRepo, f.ledger, zap.NewNop())
	f.orders.SetTransactor(f.db)
	f.receipts = tradeapp.NewReceiptService(f.receiptRepo, f.orderRepo, f.ledger, zap.NewNop())
	f.receipts.SetTransactor(f.db)
	f.wholesales = tradeapp.NewWholesaleService(f.wholesaleRepo, f.productRepo, f.ledger, zap.NewNop())
	f.wholesales.SetTransactor(f.db)
	return f
}

func (f *workflowFixture) addProduct(t *testing.T, storeID uuid.UUID, name, code string, warehouse int64) *catalog.Product {
	t.Helper()
	ctx := context.Background()
	product, err := catalog.NewProduct(storeID, uuid.New(), name, code, "box", 500, 900, 700)
	require.NoError(t, err)
	require.NoError(t, f.productRepo.Save(ctx, product))

	record, err := inventory.NewStockRecord(storeID, product.ID)
	require.NoError(t, err)
	if warehouse > 0 {
		require.NoError(t, record.IncreaseWarehouse(decimal.NewFromInt(warehouse)))
	}
	record.ClearDomainEvents()
	require.NoError(t, f.stockRepo.Save(ctx, record))
	return product
}

func (f *workflowFixture) setWarehouse(t *testing.T, productID uuid.UUID, warehouse int64) {
	t.Helper()
	ctx := context.Background()
	record, err := f.stockRepo.FindByProduct(ctx, productID)
	require.NoError(t, err)
	require.NoError(t, record.UpdateManually(record.DisplayStock, decimal.NewFromInt(warehouse), record.ReorderTriggerPoint))
	record.ClearDomainEvents()
	require.NoError(t, f.stockRepo.Save(ctx, record))
}

func (f *workflowFixture) pools(t *testing.T, productID uuid.UUID) *inventory.StockRecord {
	t.Helper()
	record, err := f.stockRepo.FindByProduct(context.Background(), productID)
	require.NoError(t, err)
	return record
}

// A wholesale confirmation that fails on one line must leave every other
// line's pools and the order status exactly as they were, and a retry
// after restocking must succeed.
func TestWholesaleService_Confirm_PartialFailureRollsBackEveryLine(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.New()
	f := newWorkflowFixture(t)

	productA := f.addProduct(t, storeID, "Oolong 250g", "P-001", 6)
	productB := f.addProduct(t, storeID, "Sencha 100g", "P-002", 5)

	created, err := f.wholesales.Create(ctx, storeID, tradeapp.CreateWholesaleRequest{
		OrderReference: "cafe dasoni",
		Items: []tradeapp.WholesaleItemRequest{
			{ProductID: productA.ID, Quantity: decimal.NewFromInt(4), UnitPrice: 700},
			{ProductID: productB.ID, Quantity: decimal.NewFromInt(5), UnitPrice: 450},
		},
	})
	require.NoError(t, err)

	// a stock taking finds fewer of B than the order reserved
	f.setWarehouse(t, productB.ID, 2)

	_, err = f.wholesales.Confirm(ctx, storeID, created.ID, tradeapp.ConfirmWholesaleRequest{InvoiceNumber: "INV-100"})
	require.Error(t, err)
	assert.ErrorIs(t, err, inventory.ErrWarehouseStockNotEnough)

	reloaded, err := f.wholesaleRepo.FindByIDForStore(ctx, storeID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.WholesaleStatusPending, reloaded.Status)

	recordA := f.pools(t, productA.ID)
	assert.Equal(t, "6", recordA.WarehouseStock.String())
	assert.Equal(t, "4", recordA.OutgoingReserved.String())
	recordB := f.pools(t, productB.ID)
	assert.Equal(t, "2", recordB.WarehouseStock.String())
	assert.Equal(t, "5", recordB.OutgoingReserved.String())

	// restock B and retry
	f.setWarehouse(t, productB.ID, 5)

	confirmed, err := f.wholesales.Confirm(ctx, storeID, created.ID, tradeapp.ConfirmWholesaleRequest{InvoiceNumber: "INV-100"})
	require.NoError(t, err)
	assert.Equal(t, string(trade.WholesaleStatusConfirmed), confirmed.Status)

	recordA = f.pools(t, productA.ID)
	assert.Equal(t, "2", recordA.WarehouseStock.String())
	assert.True(t, recordA.OutgoingReserved.IsZero())
	recordB = f.pools(t, productB.ID)
	assert.True(t, recordB.WarehouseStock.IsZero())
	assert.True(t, recordB.OutgoingReserved.IsZero())
}

// Receipt confirmation settles the receipt, the order and every line's
// incoming reservation in one unit: a line failure must leave the other
// lines reserved and both documents in their prior state.
func TestReceiptService_Confirm_PartialFailureRollsBackEveryLine(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.New()
	f := newWorkflowFixture(t)

	vendor, err := catalog.NewVendor(storeID, "Mountain Tea Co", "Kim", "010-1111-2222", 7)
	require.NoError(t, err)
	require.NoError(t, f.vendorRepo.Save(ctx, vendor))

	productA := f.addProduct(t, storeID, "Oolong 250g", "P-001", 0)
	productB := f.addProduct(t, storeID, "Sencha 100g", "P-002", 0)

	order, err := f.orders.Create(ctx, storeID, tradeapp.CreatePurchaseOrderRequest{
		VendorID: vendor.ID,
		Items: []tradeapp.PurchaseOrderItemRequest{
			{ProductID: productA.ID, Quantity: decimal.NewFromInt(10), UnitPrice: 500},
			{ProductID: productB.ID, Quantity: decimal.NewFromInt(10), UnitPrice: 300},
		},
	})
	require.NoError(t, err)
	_, err = f.orders.StartProduction(ctx, storeID, order.ID)
	require.NoError(t, err)
	_, err = f.orders.MarkPendingShipment(ctx, storeID, order.ID)
	require.NoError(t, err)

	receipt, err := f.receipts.CreateFromOrder(ctx, storeID, order.ID)
	require.NoError(t, err)

	// drain B's incoming reservation behind the receipt's back
	require.NoError(t, f.ledger.ReleaseIncoming(ctx, storeID, productB.ID, decimal.NewFromInt(10)))

	_, err = f.receipts.Confirm(ctx, storeID, receipt.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, inventory.ErrIncomingStockNotEnough)

	reloadedReceipt, err := f.receiptRepo.FindByIDForStore(ctx, storeID, receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.ReceiptStatusPending, reloadedReceipt.Status)
	reloadedOrder, err := f.orderRepo.FindByIDForStore(ctx, storeID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.PurchaseOrderStatusPendingShipment, reloadedOrder.Status)

	recordA := f.pools(t, productA.ID)
	assert.Equal(t, "10", recordA.IncomingReserved.String())
	assert.True(t, recordA.WarehouseStock.IsZero())

	// re-book B and retry
	require.NoError(t, f.ledger.ReserveIncoming(ctx, storeID, productB.ID, decimal.NewFromInt(10)))

	confirmed, err := f.receipts.Confirm(ctx, storeID, receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, string(trade.ReceiptStatusConfirmed), confirmed.Status)

	recordA = f.pools(t, productA.ID)
	assert.Equal(t, "10", recordA.WarehouseStock.String())
	assert.True(t, recordA.IncomingReserved.IsZero())
	reloadedOrder, err = f.orderRepo.FindByIDForStore(ctx, storeID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.PurchaseOrderStatusDelivered, reloadedOrder.Status)
}
