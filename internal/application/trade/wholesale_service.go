package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/stockroom/backend/internal/domain/catalog"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/trade"
)

// WholesaleService coordinates the bulk order lifecycle. Creation
// reserves outgoing stock per line, confirmation deducts the warehouse
// exactly once, cancellation releases whatever is still reserved.
type WholesaleService struct {
	wholesaleRepo  trade.WholesaleRepository
	productRepo    catalog.ProductRepository
	ledger         StockLedger
	transactor     shared.Transactor
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewWholesaleService creates a wholesale application service
func NewWholesaleService(
	wholesaleRepo trade.WholesaleRepository,
	productRepo catalog.ProductRepository,
	ledger StockLedger,
	logger *zap.Logger,
) *WholesaleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WholesaleService{
		wholesaleRepo: wholesaleRepo,
		productRepo:   productRepo,
		ledger:        ledger,
		logger:        logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *WholesaleService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetTransactor makes confirmation and cancellation run their status
// transition and ledger movements in one database transaction
func (s *WholesaleService) SetTransactor(tx shared.Transactor) {
	s.transactor = tx
}

// Create places a new PENDING order and reserves outgoing stock for
// every line. Partial failures roll the earlier reservations back.
func (s *WholesaleService) Create(ctx context.Context, storeID uuid.UUID, req CreateWholesaleRequest) (*WholesaleResponse, error) {
	inputs, err := s.buildItemInputs(ctx, storeID, req.Items)
	if err != nil {
		return nil, err
	}

	wholesale, err := trade.NewPendingWholesale(storeID, inputs, req.OrderReference)
	if err != nil {
		return nil, err
	}

	reserved := make([]trade.WholesaleItem, 0, len(wholesale.Items))
	for _, item := range wholesale.Items {
		if err := s.ledger.ReserveOutgoing(ctx, storeID, item.ProductID, item.Quantity); err != nil {
			s.rollbackOutgoing(ctx, storeID, reserved)
			return nil, err
		}
		reserved = append(reserved, item)
	}

	if err := s.wholesaleRepo.Save(ctx, wholesale); err != nil {
		s.rollbackOutgoing(ctx, storeID, reserved)
		return nil, err
	}
	s.publishDomainEvents(ctx, &wholesale.StoreAggregateRoot)

	response := ToWholesaleResponse(wholesale)
	return &response, nil
}

// Get returns one wholesale order with its items
func (s *WholesaleService) Get(ctx context.Context, storeID, wholesaleID uuid.UUID) (*WholesaleResponse, error) {
	wholesale, err := s.wholesaleRepo.FindByIDForStore(ctx, storeID, wholesaleID)
	if err != nil {
		return nil, err
	}
	response := ToWholesaleResponse(wholesale)
	return &response, nil
}

// List returns a page of wholesale orders, optionally filtered by status
func (s *WholesaleService) List(ctx context.Context, storeID uuid.UUID, filter ListFilter) ([]WholesaleResponse, int64, error) {
	filter = filter.normalized()
	repoFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	}

	var (
		wholesales []trade.Wholesale
		err        error
	)
	if filter.Status != "" {
		status := trade.WholesaleStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.ErrInvalidInput
		}
		wholesales, err = s.wholesaleRepo.FindByStatus(ctx, storeID, status, repoFilter)
	} else {
		wholesales, err = s.wholesaleRepo.FindAllForStore(ctx, storeID, repoFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.wholesaleRepo.CountForStore(ctx, storeID, repoFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToWholesaleResponses(wholesales), total, nil
}

// MarkPaid moves an external order out of PAYMENT_PENDING
func (s *WholesaleService) MarkPaid(ctx context.Context, storeID, wholesaleID uuid.UUID) (*WholesaleResponse, error) {
	wholesale, err := s.wholesaleRepo.FindByIDForStore(ctx, storeID, wholesaleID)
	if err != nil {
		return nil, err
	}
	if err := wholesale.MarkPaid(); err != nil {
		return nil, err
	}
	if err := s.wholesaleRepo.Save(ctx, wholesale); err != nil {
		return nil, err
	}
	response := ToWholesaleResponse(wholesale)
	return &response, nil
}

// Confirm ships the order: every reserved line leaves the warehouse
// through its outgoing reservation. Lines flagged as insufficient were
// never reserved and are settled by hand, so they are skipped here.
func (s *WholesaleService) Confirm(ctx context.Context, storeID, wholesaleID uuid.UUID, req ConfirmWholesaleRequest) (*WholesaleResponse, error) {
	var wholesale *trade.Wholesale
	err := runAtomically(ctx, s.transactor, func(ctx context.Context) error {
		var err error
		wholesale, err = s.wholesaleRepo.FindByIDForStore(ctx, storeID, wholesaleID)
		if err != nil {
			return err
		}
		if err := wholesale.Confirm(req.ReleaseDate, req.InvoiceNumber); err != nil {
			return err
		}
		for _, item := range wholesale.Items {
			if item.InsufficientStock {
				continue
			}
			if err := s.ledger.ConfirmOutgoing(ctx, storeID, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return s.wholesaleRepo.Save(ctx, wholesale)
	})
	if err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, &wholesale.StoreAggregateRoot)

	response := ToWholesaleResponse(wholesale)
	return &response, nil
}

// Cancel terminates the order and releases its outgoing reservations,
// skipping lines that never got one
func (s *WholesaleService) Cancel(ctx context.Context, storeID, wholesaleID uuid.UUID) (*WholesaleResponse, error) {
	var wholesale *trade.Wholesale
	err := runAtomically(ctx, s.transactor, func(ctx context.Context) error {
		var err error
		wholesale, err = s.wholesaleRepo.FindByIDForStore(ctx, storeID, wholesaleID)
		if err != nil {
			return err
		}
		if err := wholesale.Cancel(); err != nil {
			return err
		}
		for _, item := range wholesale.Items {
			if item.InsufficientStock {
				continue
			}
			if err := s.ledger.ReleaseOutgoing(ctx, storeID, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return s.wholesaleRepo.Save(ctx, wholesale)
	})
	if err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, &wholesale.StoreAggregateRoot)

	response := ToWholesaleResponse(wholesale)
	return &response, nil
}

// UpdateItems replaces the line-up of a PENDING order. Every new
// quantity is validated against available stock plus what the order
// already holds before any reservation moves, so a failed update leaves
// the ledger exactly as it was.
func (s *WholesaleService) UpdateItems(ctx context.Context, storeID, wholesaleID uuid.UUID, req UpdateWholesaleItemsRequest) (*WholesaleResponse, error) {
	var wholesale *trade.Wholesale
	err := runAtomically(ctx, s.transactor, func(ctx context.Context) error {
		var err error
		wholesale, err = s.wholesaleRepo.FindByIDForStore(ctx, storeID, wholesaleID)
		if err != nil {
			return err
		}
		return s.replaceItems(ctx, storeID, wholesale, req)
	})
	if err != nil {
		return nil, err
	}

	response := ToWholesaleResponse(wholesale)
	return &response, nil
}

func (s *WholesaleService) replaceItems(ctx context.Context, storeID uuid.UUID, wholesale *trade.Wholesale, req UpdateWholesaleItemsRequest) error {
	inputs, err := s.buildItemInputs(ctx, storeID, req.Items)
	if err != nil {
		return err
	}

	oldItems := wholesale.Items
	newTotals := make(map[uuid.UUID]decimal.Decimal, len(inputs))
	for _, input := range inputs {
		newTotals[input.ProductID] = newTotals[input.ProductID].Add(input.Quantity)
	}

	// validate first: the order's own reservation counts as available
	for productID, quantity := range newTotals {
		available, err := s.ledger.Available(ctx, storeID, productID)
		if err != nil {
			return err
		}
		if quantity.GreaterThan(available.Add(trade.OldQuantityFor(oldItems, productID))) {
			return inventory.ErrWarehouseStockNotEnough
		}
	}

	previous, err := wholesale.ReplaceItems(inputs)
	if err != nil {
		return err
	}

	// re-book reservations as signed deltas per product
	touched := make(map[uuid.UUID]struct{}, len(previous)+len(newTotals))
	for _, item := range previous {
		touched[item.ProductID] = struct{}{}
	}
	for productID := range newTotals {
		touched[productID] = struct{}{}
	}
	for productID := range touched {
		delta := newTotals[productID].Sub(trade.OldQuantityFor(previous, productID))
		switch {
		case delta.IsPositive():
			if err := s.ledger.ReserveOutgoing(ctx, storeID, productID, delta); err != nil {
				return err
			}
		case delta.IsNegative():
			if err := s.ledger.ReleaseOutgoing(ctx, storeID, productID, delta.Neg()); err != nil {
				return err
			}
		}
	}

	removed := make([]uuid.UUID, 0, len(previous))
	for _, item := range previous {
		removed = append(removed, item.ID)
	}
	if err := s.wholesaleRepo.DeleteItems(ctx, wholesale.ID, removed); err != nil {
		return err
	}
	return s.wholesaleRepo.Save(ctx, wholesale)
}

func (s *WholesaleService) buildItemInputs(ctx context.Context, storeID uuid.UUID, items []WholesaleItemRequest) ([]trade.WholesaleItemInput, error) {
	if len(items) == 0 {
		return nil, trade.ErrWholesaleItemEmpty
	}
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.productRepo.FindByIDs(ctx, storeID, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(products))
	for _, product := range products {
		names[product.ID] = product.Name
	}

	inputs := make([]trade.WholesaleItemInput, 0, len(items))
	for _, item := range items {
		name, ok := names[item.ProductID]
		if !ok {
			return nil, classifyMissingProduct(ctx, s.productRepo, storeID, item.ProductID)
		}
		inputs = append(inputs, trade.WholesaleItemInput{
			ProductID:   item.ProductID,
			ProductName: name,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Note:        item.Note,
		})
	}
	return inputs, nil
}

func (s *WholesaleService) rollbackOutgoing(ctx context.Context, storeID uuid.UUID, items []trade.WholesaleItem) {
	for _, item := range items {
		if err := s.ledger.ReleaseOutgoing(ctx, storeID, item.ProductID, item.Quantity); err != nil {
			s.logger.Error("failed to roll back outgoing reservation",
				zap.String("product_id", item.ProductID.String()),
				zap.String("quantity", item.Quantity.String()),
				zap.Error(err))
		}
	}
}

func (s *WholesaleService) publishDomainEvents(ctx context.Context, root *shared.StoreAggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range root.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	root.ClearDomainEvents()
}
