package trade

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stockroom/backend/internal/domain/catalog"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/trade"
)

// PurchaseOrderService coordinates the vendor order lifecycle. Creating
// an order reserves incoming stock per item and cancellation releases
// it; the warehouse itself is only touched through the receipt flow.
type PurchaseOrderService struct {
	orderRepo      trade.PurchaseOrderRepository
	vendorRepo     catalog.VendorRepository
	productRepo    catalog.ProductRepository
	ledger         StockLedger
	transactor     shared.Transactor
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewPurchaseOrderService creates a purchase order application service
func NewPurchaseOrderService(
	orderRepo trade.PurchaseOrderRepository,
	vendorRepo catalog.VendorRepository,
	productRepo catalog.ProductRepository,
	ledger StockLedger,
	logger *zap.Logger,
) *PurchaseOrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PurchaseOrderService{
		orderRepo:   orderRepo,
		vendorRepo:  vendorRepo,
		productRepo: productRepo,
		ledger:      ledger,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *PurchaseOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetTransactor makes cancellation and quantity changes apply the order
// update and its ledger movements in one database transaction
func (s *PurchaseOrderService) SetTransactor(tx shared.Transactor) {
	s.transactor = tx
}

// Create places a new order with a vendor and reserves incoming stock
// for every line. When a later reservation fails the earlier ones are
// rolled back so no half-reserved order is ever persisted.
func (s *PurchaseOrderService) Create(ctx context.Context, storeID uuid.UUID, req CreatePurchaseOrderRequest) (*PurchaseOrderResponse, error) {
	if _, err := s.vendorRepo.FindByIDForStore(ctx, storeID, req.VendorID); err != nil {
		return nil, err
	}

	inputs, err := s.buildItemInputs(ctx, storeID, req.Items)
	if err != nil {
		return nil, err
	}

	order, err := trade.NewPurchaseOrder(storeID, req.VendorID, inputs, req.LeadTimeDays, req.Note)
	if err != nil {
		return nil, err
	}

	reserved := make([]trade.PurchaseOrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		if err := s.ledger.ReserveIncoming(ctx, storeID, item.ProductID, item.Quantity); err != nil {
			s.rollbackIncoming(ctx, storeID, reserved)
			return nil, err
		}
		reserved = append(reserved, item)
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		s.rollbackIncoming(ctx, storeID, reserved)
		return nil, err
	}
	s.publishDomainEvents(ctx, &order.StoreAggregateRoot)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Get returns one order with its items
func (s *PurchaseOrderService) Get(ctx context.Context, storeID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForStore(ctx, storeID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// List returns a page of orders, optionally filtered by status
func (s *PurchaseOrderService) List(ctx context.Context, storeID uuid.UUID, filter ListFilter) ([]PurchaseOrderResponse, int64, error) {
	filter = filter.normalized()
	repoFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	}

	var (
		orders []trade.PurchaseOrder
		err    error
	)
	if filter.Status != "" {
		status := trade.PurchaseOrderStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.ErrInvalidInput
		}
		orders, err = s.orderRepo.FindByStatus(ctx, storeID, status, repoFilter)
	} else {
		orders, err = s.orderRepo.FindAllForStore(ctx, storeID, repoFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.CountForStore(ctx, storeID, repoFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToPurchaseOrderResponses(orders), total, nil
}

// StartProduction moves the order to IN_PRODUCTION and projects its
// expected arrival from the vendor lead time
func (s *PurchaseOrderService) StartProduction(ctx context.Context, storeID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForStore(ctx, storeID, orderID)
	if err != nil {
		return nil, err
	}
	vendor, err := s.vendorRepo.FindByID(ctx, order.VendorID)
	if err != nil {
		return nil, err
	}
	if err := order.StartProduction(vendor.LeadTimeDays); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// MarkPendingShipment records that the vendor finished production
func (s *PurchaseOrderService) MarkPendingShipment(ctx context.Context, storeID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	order, err := s.orderRepo.FindByIDForStore(ctx, storeID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.MarkPendingShipment(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// Cancel terminates the order and releases the incoming reservation of
// every line
func (s *PurchaseOrderService) Cancel(ctx context.Context, storeID, orderID uuid.UUID) (*PurchaseOrderResponse, error) {
	var order *trade.PurchaseOrder
	err := runAtomically(ctx, s.transactor, func(ctx context.Context) error {
		var err error
		order, err = s.orderRepo.FindByIDForStore(ctx, storeID, orderID)
		if err != nil {
			return err
		}
		if err := order.Cancel(); err != nil {
			return err
		}
		for _, item := range order.Items {
			if err := s.ledger.ReleaseIncoming(ctx, storeID, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return s.orderRepo.Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, &order.StoreAggregateRoot)

	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

// ChangeItemQuantity amends one line on an open order and applies the
// signed difference to the product's incoming reservation
func (s *PurchaseOrderService) ChangeItemQuantity(ctx context.Context, storeID, orderID uuid.UUID, req ChangeOrderItemQuantityRequest) (*PurchaseOrderResponse, error) {
	var order *trade.PurchaseOrder
	err := runAtomically(ctx, s.transactor, func(ctx context.Context) error {
		var err error
		order, err = s.orderRepo.FindByIDForStore(ctx, storeID, orderID)
		if err != nil {
			return err
		}
		item, err := order.FindItem(req.ItemID)
		if err != nil {
			return err
		}
		productID := item.ProductID

		delta, err := order.ChangeItemQuantity(req.ItemID, req.Quantity)
		if err != nil {
			return err
		}
		if err := s.ledger.AdjustIncoming(ctx, storeID, productID, delta); err != nil {
			return err
		}
		return s.orderRepo.Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	response := ToPurchaseOrderResponse(order)
	return &response, nil
}

func (s *PurchaseOrderService) buildItemInputs(ctx context.Context, storeID uuid.UUID, items []PurchaseOrderItemRequest) ([]trade.PurchaseOrderItemInput, error) {
	if len(items) == 0 {
		return nil, trade.ErrOrderItemEmpty
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

	inputs := make([]trade.PurchaseOrderItemInput, 0, len(items))
	for _, item := range items {
		name, ok := names[item.ProductID]
		if !ok {
			return nil, classifyMissingProduct(ctx, s.productRepo, storeID, item.ProductID)
		}
		inputs = append(inputs, trade.PurchaseOrderItemInput{
			ProductID:   item.ProductID,
			ProductName: name,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	return inputs, nil
}

// rollbackIncoming undoes reservations made before a failed create. A
// failed release leaves the pool inflated, which the next stock taking
// corrects, so it is logged rather than propagated.
func (s *PurchaseOrderService) rollbackIncoming(ctx context.Context, storeID uuid.UUID, items []trade.PurchaseOrderItem) {
	for _, item := range items {
		if err := s.ledger.ReleaseIncoming(ctx, storeID, item.ProductID, item.Quantity); err != nil {
			s.logger.Error("failed to roll back incoming reservation",
				zap.String("product_id", item.ProductID.String()),
				zap.String("quantity", item.Quantity.String()),
				zap.Error(err))
		}
	}
}

func (s *PurchaseOrderService) publishDomainEvents(ctx context.Context, root *shared.StoreAggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range root.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	root.ClearDomainEvents()
}
