package inventory

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockroom/backend/internal/domain/catalog"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
)

// maxSaveAttempts bounds the optimistic-lock retry loop. A conflict means
// another request updated the same record between our load and save, so the
// whole load-mutate-save cycle is replayed on a fresh copy.
const maxSaveAttempts = 3

// StockService coordinates all stock ledger mutations. Every write goes
// through loadOrCreate + SaveWithLock so concurrent requests against the
// same product serialize on the record version.
type StockService struct {
	stockRepo      inventory.StockRecordRepository
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
}

// NewStockService creates a stock application service
func NewStockService(stockRepo inventory.StockRecordRepository, productRepo catalog.ProductRepository) *StockService {
	return &StockService{
		stockRepo:   stockRepo,
		productRepo: productRepo,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *StockService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// GetByProduct returns the stock record for a product, provisioning a zero
// record in memory when none exists yet so reads never fail on fresh products.
func (s *StockService) GetByProduct(ctx context.Context, storeID, productID uuid.UUID) (*StockRecordResponse, error) {
	record, err := s.stockRepo.FindByProduct(ctx, productID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		record, err = s.provision(ctx, storeID, productID)
		if err != nil {
			return nil, err
		}
	}
	if err := record.ValidateStoreAccess(storeID); err != nil {
		return nil, err
	}
	response := ToStockRecordResponse(record)
	return &response, nil
}

// List returns a page of stock records for a store
func (s *StockService) List(ctx context.Context, storeID uuid.UUID, filter StockListFilter) ([]StockRecordResponse, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	repoFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}

	var (
		records []inventory.StockRecord
		err     error
	)
	if filter.BelowTrigger {
		records, err = s.stockRepo.FindBelowTrigger(ctx, storeID, repoFilter)
	} else {
		records, err = s.stockRepo.FindAllForStore(ctx, storeID, repoFilter)
	}
	if err != nil {
		return nil, 0, err
	}
	total, err := s.stockRepo.CountForStore(ctx, storeID, repoFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToStockRecordResponses(records), total, nil
}

// ListBelowTrigger returns every record whose available stock is at or
// below its reorder trigger point
func (s *StockService) ListBelowTrigger(ctx context.Context, storeID uuid.UUID) ([]StockRecordResponse, error) {
	records, err := s.stockRepo.FindBelowTrigger(ctx, storeID, shared.Filter{})
	if err != nil {
		return nil, err
	}
	return ToStockRecordResponses(records), nil
}

// Move transfers quantity between the warehouse and display pools
func (s *StockService) Move(ctx context.Context, storeID uuid.UUID, req MoveStockRequest) (*StockRecordResponse, error) {
	return s.mutate(ctx, storeID, req.ProductID, func(record *inventory.StockRecord) error {
		switch req.Direction {
		case inventory.MoveWarehouseToDisplay:
			return record.MoveToDisplay(req.Quantity)
		case inventory.MoveDisplayToWarehouse:
			return record.MoveToWarehouse(req.Quantity)
		default:
			return shared.NewDomainError("INVALID_MOVE_DIRECTION", "Unknown stock move direction")
		}
	})
}

// RecordRetailSale deducts a shop-floor sale from display stock
func (s *StockService) RecordRetailSale(ctx context.Context, storeID uuid.UUID, req RetailSaleRequest) (*StockRecordResponse, error) {
	return s.mutate(ctx, storeID, req.ProductID, func(record *inventory.StockRecord) error {
		return record.DecreaseDisplay(req.Quantity)
	})
}

// UpdateManually overwrites the counted pools after a physical stock taking
func (s *StockService) UpdateManually(ctx context.Context, storeID uuid.UUID, req ManualUpdateRequest) (*StockRecordResponse, error) {
	return s.mutate(ctx, storeID, req.ProductID, func(record *inventory.StockRecord) error {
		return record.UpdateManually(req.DisplayStock, req.WarehouseStock, req.ReorderTriggerPoint)
	})
}

// ReserveIncoming adds an expected delivery quantity to the incoming pool
func (s *StockService) ReserveIncoming(ctx context.Context, storeID, productID uuid.UUID, quantity decimal.Decimal) error {
	_, err := s.mutate(ctx, storeID, productID, func(record *inventory.StockRecord) error {
		return record.IncreaseIncoming(quantity)
	})
	return err
}

// ReleaseIncoming removes an expectation that will no longer be delivered
func (s *StockService) ReleaseIncoming(ctx context.Context, storeID, productID uuid.UUID, quantity decimal.Decimal) error {
	_, err := s.mutate(ctx, storeID, productID, func(record *inventory.StockRecord) error {
		return record.DecreaseIncoming(quantity)
	})
	return err
}

// AdjustIncoming applies a signed correction to the incoming pool
func (s *StockService) AdjustIncoming(ctx context.Context, storeID, productID uuid.UUID, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}
	_, err := s.mutate(ctx, storeID, productID, func(record *inventory.StockRecord) error {
		return record.AdjustIncoming(delta)
	})
	return err
}

// ConfirmIncoming settles a delivery: the expected quantity leaves the
// incoming pool and the actually received quantity lands in the warehouse
func (s *StockService) ConfirmIncoming(ctx context.Context, storeID, productID uuid.UUID, expected, actual decimal.Decimal) error {
	_, err := s.mutate(ctx, storeID, productID, func(record *inventory.StockRecord) error {
		return record.ConfirmIncoming(expected, actual)
	})
	return err
}

// SettleWarehouse applies a signed post-settlement correction to the
// warehouse pool, used when a confirmed receipt line is amended
func (s *StockService) SettleWarehouse(ctx context.Context, storeID, productID uuid.UUID, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}
	_, err := s.mutate(ctx, storeID, productID, func(record *inventory.StockRecord) error {
		if delta.IsNegative() {
			return record.DecreaseWarehouse(delta.Neg())
		}
		return record.IncreaseWarehouse(delta)
	})
	return err
}

// ReserveOutgoing earmarks warehouse stock for a wholesale order
func (s *StockService) ReserveOutgoing(ctx context.Context, storeID, productID uuid.UUID, quantity decimal.Decimal) error {
	_, err := s.mutate(ctx, storeID, productID, func(record *inventory.StockRecord) error {
		return record.IncreaseOutgoing(quantity)
	})
	return err
}

// ReleaseOutgoing returns an earmarked quantity to general availability
func (s *StockService) ReleaseOutgoing(ctx context.Context, storeID, productID uuid.UUID, quantity decimal.Decimal) error {
	_, err := s.mutate(ctx, storeID, productID, func(record *inventory.StockRecord) error {
		return record.DecreaseOutgoing(quantity)
	})
	return err
}

// ConfirmOutgoing ships an earmarked quantity out of the warehouse
func (s *StockService) ConfirmOutgoing(ctx context.Context, storeID, productID uuid.UUID, quantity decimal.Decimal) error {
	_, err := s.mutate(ctx, storeID, productID, func(record *inventory.StockRecord) error {
		return record.ConfirmOutgoing(quantity)
	})
	return err
}

// Available returns the quantity still promisable for a product, which is
// zero for products that have no stock record yet
func (s *StockService) Available(ctx context.Context, storeID, productID uuid.UUID) (decimal.Decimal, error) {
	record, err := s.stockRepo.FindByProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}
	if err := record.ValidateStoreAccess(storeID); err != nil {
		return decimal.Zero, err
	}
	return record.AvailableStock(), nil
}

// mutate loads the record, applies op and saves with version check,
// replaying the cycle on a concurrency conflict.
func (s *StockService) mutate(ctx context.Context, storeID, productID uuid.UUID, op func(*inventory.StockRecord) error) (*StockRecordResponse, error) {
	var lastErr error
	for attempt := 0; attempt < maxSaveAttempts; attempt++ {
		record, created, err := s.loadOrCreate(ctx, storeID, productID)
		if err != nil {
			return nil, err
		}
		if err := op(record); err != nil {
			return nil, err
		}
		// a freshly provisioned record has no row to version-check against
		if created {
			if err := s.stockRepo.Save(ctx, record); err != nil {
				return nil, err
			}
		} else if err := s.stockRepo.SaveWithLock(ctx, record); err != nil {
			if errors.Is(err, shared.ErrConcurrencyConflict) {
				lastErr = err
				continue
			}
			return nil, err
		}
		s.publishDomainEvents(ctx, record)
		response := ToStockRecordResponse(record)
		return &response, nil
	}
	return nil, lastErr
}

func (s *StockService) loadOrCreate(ctx context.Context, storeID, productID uuid.UUID) (*inventory.StockRecord, bool, error) {
	record, err := s.stockRepo.FindByProduct(ctx, productID)
	if err == nil {
		if err := record.ValidateStoreAccess(storeID); err != nil {
			return nil, false, err
		}
		return record, false, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, false, err
	}
	record, err = s.provision(ctx, storeID, productID)
	if err != nil {
		return nil, false, err
	}
	return record, true, nil
}

// provision creates a zero record for a product that has never had stock.
// The product must exist in the store; otherwise the missing record is a
// caller error, not a fresh product.
func (s *StockService) provision(ctx context.Context, storeID, productID uuid.UUID) (*inventory.StockRecord, error) {
	if _, err := s.productRepo.FindByIDForStore(ctx, storeID, productID); err != nil {
		return nil, err
	}
	return inventory.NewStockRecord(storeID, productID)
}

func (s *StockService) publishDomainEvents(ctx context.Context, record *inventory.StockRecord) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range record.GetDomainEvents() {
		// event delivery is best-effort, the ledger write already committed
		_ = s.eventPublisher.Publish(ctx, event)
	}
	record.ClearDomainEvents()
}
