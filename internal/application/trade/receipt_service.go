package trade

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/trade"
)

// ReceiptService reconciles deliveries against purchase orders. Each
// order has at most one receipt and receipt confirmation is the single
// point where the warehouse pool is credited.
type ReceiptService struct {
	receiptRepo    trade.ReceiptRepository
	orderRepo      trade.PurchaseOrderRepository
	ledger         StockLedger
	transactor     shared.Transactor
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewReceiptService creates a receipt application service
func NewReceiptService(
	receiptRepo trade.ReceiptRepository,
	orderRepo trade.PurchaseOrderRepository,
	ledger StockLedger,
	logger *zap.Logger,
) *ReceiptService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReceiptService{
		receiptRepo: receiptRepo,
		orderRepo:   orderRepo,
		ledger:      ledger,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *ReceiptService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetTransactor makes confirmation settle the receipt, the order and
// every ledger line in one database transaction
func (s *ReceiptService) SetTransactor(tx shared.Transactor) {
	s.transactor = tx
}

// CreateFromOrder opens the reconciliation for a delivered shipment.
// The receipt mirrors the order's lines; nothing moves in the ledger
// until confirmation.
func (s *ReceiptService) CreateFromOrder(ctx context.Context, storeID, orderID uuid.UUID) (*ReceiptResponse, error) {
	order, err := s.orderRepo.FindByIDForStore(ctx, storeID, orderID)
	if err != nil {
		return nil, err
	}

	if _, err := s.receiptRepo.FindByOrder(ctx, order.ID); err == nil {
		return nil, trade.ErrReceiptAlreadyExists
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	receipt, err := trade.NewReceiptFromOrder(order)
	if err != nil {
		return nil, err
	}
	if err := s.receiptRepo.Save(ctx, receipt); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, &receipt.StoreAggregateRoot)

	response := ToReceiptResponse(receipt)
	return &response, nil
}

// Get returns one receipt with its items
func (s *ReceiptService) Get(ctx context.Context, storeID, receiptID uuid.UUID) (*ReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByIDForStore(ctx, storeID, receiptID)
	if err != nil {
		return nil, err
	}
	response := ToReceiptResponse(receipt)
	return &response, nil
}

// GetByOrder returns the receipt of a purchase order
func (s *ReceiptService) GetByOrder(ctx context.Context, storeID, orderID uuid.UUID) (*ReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := receipt.ValidateStoreAccess(storeID); err != nil {
		return nil, err
	}
	response := ToReceiptResponse(receipt)
	return &response, nil
}

// List returns a page of receipts for a store
func (s *ReceiptService) List(ctx context.Context, storeID uuid.UUID, filter ListFilter) ([]ReceiptResponse, error) {
	filter = filter.normalized()
	receipts, err := s.receiptRepo.FindAllForStore(ctx, storeID, shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
	})
	if err != nil {
		return nil, err
	}
	responses := make([]ReceiptResponse, 0, len(receipts))
	for i := range receipts {
		responses = append(responses, ToReceiptResponse(&receipts[i]))
	}
	return responses, nil
}

// CorrectItem records the counted quantity for one line. On a pending
// receipt this only updates the paperwork; on a confirmed receipt the
// warehouse is settled with the difference against what was applied
// before, so submitting the same count twice changes nothing.
func (s *ReceiptService) CorrectItem(ctx context.Context, storeID, receiptID uuid.UUID, req CorrectReceiptItemRequest) (*ReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByIDForStore(ctx, storeID, receiptID)
	if err != nil {
		return nil, err
	}
	item, err := receipt.FindItem(req.ItemID)
	if err != nil {
		return nil, err
	}
	productID := item.ProductID

	previous, err := receipt.CorrectItem(req.ItemID, req.ActualQuantity, req.Note)
	if err != nil {
		return nil, err
	}
	if receipt.IsConfirmed() {
		delta := req.ActualQuantity.Sub(previous)
		if err := s.ledger.SettleWarehouse(ctx, storeID, productID, delta); err != nil {
			return nil, err
		}
	}
	if err := s.receiptRepo.Save(ctx, receipt); err != nil {
		return nil, err
	}
	response := ToReceiptResponse(receipt)
	return &response, nil
}

// Confirm closes the reconciliation: every line's incoming reservation
// is settled into the warehouse at its applied quantity and the
// underlying order is marked delivered.
func (s *ReceiptService) Confirm(ctx context.Context, storeID, receiptID uuid.UUID) (*ReceiptResponse, error) {
	var (
		receipt *trade.Receipt
		order   *trade.PurchaseOrder
	)
	err := runAtomically(ctx, s.transactor, func(ctx context.Context) error {
		var err error
		receipt, err = s.receiptRepo.FindByIDForStore(ctx, storeID, receiptID)
		if err != nil {
			return err
		}
		order, err = s.orderRepo.FindByIDForStore(ctx, storeID, receipt.PurchaseOrderID)
		if err != nil {
			return err
		}

		// both state transitions are validated before the ledger moves
		if err := receipt.Confirm(); err != nil {
			return err
		}
		if err := order.MarkDelivered(); err != nil {
			return err
		}

		for i := range receipt.Items {
			item := &receipt.Items[i]
			if err := s.ledger.ConfirmIncoming(ctx, storeID, item.ProductID, item.ExpectedQuantity, item.AppliedQuantity()); err != nil {
				return err
			}
		}

		if err := s.receiptRepo.Save(ctx, receipt); err != nil {
			return err
		}
		return s.orderRepo.Save(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, &receipt.StoreAggregateRoot)
	s.publishDomainEvents(ctx, &order.StoreAggregateRoot)

	response := ToReceiptResponse(receipt)
	return &response, nil
}

// Cancel abandons a pending receipt. The order keeps its incoming
// reservations; releasing them is a decision for order cancellation.
func (s *ReceiptService) Cancel(ctx context.Context, storeID, receiptID uuid.UUID) (*ReceiptResponse, error) {
	receipt, err := s.receiptRepo.FindByIDForStore(ctx, storeID, receiptID)
	if err != nil {
		return nil, err
	}
	if err := receipt.Cancel(); err != nil {
		return nil, err
	}
	if err := s.receiptRepo.Save(ctx, receipt); err != nil {
		return nil, err
	}
	response := ToReceiptResponse(receipt)
	return &response, nil
}

func (s *ReceiptService) publishDomainEvents(ctx context.Context, root *shared.StoreAggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range root.GetDomainEvents() {
		_ = s.eventPublisher.Publish(ctx, event)
	}
	root.ClearDomainEvents()
}
