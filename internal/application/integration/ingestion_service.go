package integration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apptrade "github.com/stockroom/backend/internal/application/trade"
	"github.com/stockroom/backend/internal/domain/catalog"
	"github.com/stockroom/backend/internal/domain/integration"
	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/trade"
)

// paidKeyTTL keeps the exactly-once deduction marker alive long enough
// to outlast any realistic replay of historical poll windows.
const paidKeyTTL = 30 * 24 * time.Hour

// AlertSink receives operator notifications about provisioned products
// and stock shortages found during ingestion
type AlertSink interface {
	Send(ctx context.Context, message string) error
}

// IngestionResult summarizes one feed ingestion run
type IngestionResult struct {
	Total          int
	Ingested       int
	Skipped        int
	Failed         int
	FailedOrderIDs []string
}

// OrderIngestionService pulls orders from the remote shop feed and
// mirrors them as wholesale orders. Each remote order maps to at most
// one local order, keyed by its external ID; paid orders deduct the
// warehouse exactly once even when the same window is polled again.
type OrderIngestionService struct {
	feed          integration.OrderFeed
	wholesaleRepo trade.WholesaleRepository
	productRepo   catalog.ProductRepository
	ledger        apptrade.StockLedger
	idempotency   shared.IdempotencyStore
	sink          AlertSink
	accountID     string
	storeID       uuid.UUID
	vendorID      uuid.UUID
	logger        *zap.Logger
}

// NewOrderIngestionService creates an ingestion service. storeID and
// vendorID name the tenant that ingested orders and placeholder
// products are filed under.
func NewOrderIngestionService(
	feed integration.OrderFeed,
	wholesaleRepo trade.WholesaleRepository,
	productRepo catalog.ProductRepository,
	ledger apptrade.StockLedger,
	idempotency shared.IdempotencyStore,
	sink AlertSink,
	accountID string,
	storeID, vendorID uuid.UUID,
	logger *zap.Logger,
) *OrderIngestionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderIngestionService{
		feed:          feed,
		wholesaleRepo: wholesaleRepo,
		productRepo:   productRepo,
		ledger:        ledger,
		idempotency:   idempotency,
		sink:          sink,
		accountID:     accountID,
		storeID:       storeID,
		vendorID:      vendorID,
		logger:        logger,
	}
}

type ingestOutcome int

const (
	outcomeIngested ingestOutcome = iota
	outcomeSkipped
	outcomeFailed
)

// Run pulls every order in the window and ingests them one by one.
// A broken order never stops the run; it is counted and reported so
// the next poll can pick it up again.
func (s *OrderIngestionService) Run(ctx context.Context, since, until time.Time) (*IngestionResult, error) {
	orders, err := s.feed.FetchOrders(ctx, integration.OrderPullRequest{
		AccountID: s.accountID,
		Statuses: []integration.RemoteOrderStatus{
			integration.RemoteOrderStatusUnpaid,
			integration.RemoteOrderStatusPaid,
			integration.RemoteOrderStatusCanceled,
		},
		Since: since,
		Until: until,
	})
	if err != nil {
		return nil, err
	}

	result := &IngestionResult{Total: len(orders)}
	for i := range orders {
		outcome, err := s.ingestOne(ctx, &orders[i])
		switch outcome {
		case outcomeIngested:
			result.Ingested++
		case outcomeSkipped:
			result.Skipped++
		case outcomeFailed:
			result.Failed++
			result.FailedOrderIDs = append(result.FailedOrderIDs, orders[i].OrderID)
			s.logger.Warn("failed to ingest remote order",
				zap.String("order_id", orders[i].OrderID),
				zap.Error(err))
		}
	}

	s.logger.Info("feed ingestion run finished",
		zap.Int("total", result.Total),
		zap.Int("ingested", result.Ingested),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed))
	return result, nil
}

// IngestOrder pulls and ingests a single order by its remote ID,
// used by the manual re-sync endpoint
func (s *OrderIngestionService) IngestOrder(ctx context.Context, orderID string) error {
	order, err := s.feed.FetchOrderDetail(ctx, s.accountID, orderID)
	if err != nil {
		return err
	}
	outcome, err := s.ingestOne(ctx, order)
	if outcome == outcomeFailed {
		return err
	}
	return nil
}

func (s *OrderIngestionService) ingestOne(ctx context.Context, order *integration.RemoteOrder) (ingestOutcome, error) {
	if err := order.Validate(); err != nil {
		return outcomeFailed, err
	}

	existing, err := s.wholesaleRepo.FindByExternalOrderID(ctx, order.OrderID)
	if err == nil {
		return s.reconcile(ctx, existing, order)
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return outcomeFailed, err
	}

	// a cancellation for an order that was never ingested carries no work
	if order.Status == integration.RemoteOrderStatusCanceled {
		return outcomeSkipped, nil
	}
	return s.create(ctx, order)
}

// create ingests a remote order seen for the first time. The order is
// persisted even when some lines cannot be reserved; those lines are
// flagged and an operator settles the shortage by hand.
func (s *OrderIngestionService) create(ctx context.Context, order *integration.RemoteOrder) (ingestOutcome, error) {
	inputs := make([]trade.WholesaleItemInput, 0, len(order.Items))
	for _, item := range order.Items {
		product, err := s.resolveProduct(ctx, item)
		if err != nil {
			return outcomeFailed, err
		}
		inputs = append(inputs, trade.WholesaleItemInput{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	wholesale, err := trade.NewExternalWholesale(s.storeID, order.OrderID, inputs, order.Buyer)
	if err != nil {
		return outcomeFailed, err
	}

	for _, item := range wholesale.Items {
		if err := s.ledger.ReserveOutgoing(ctx, s.storeID, item.ProductID, item.Quantity); err != nil {
			wholesale.MarkItemInsufficient(item.ProductID)
			s.notify(ctx, fmt.Sprintf(
				"Order %s: could not reserve %s x %s, line flagged for manual settlement",
				order.OrderID, item.ProductName, item.Quantity.String()))
		}
	}

	if err := s.wholesaleRepo.Save(ctx, wholesale); err != nil {
		return outcomeFailed, err
	}

	if order.Status == integration.RemoteOrderStatusPaid {
		if err := s.settlePayment(ctx, wholesale); err != nil {
			return outcomeFailed, err
		}
	}
	return outcomeIngested, nil
}

// reconcile applies a status change the feed reports for an order that
// was already ingested. Re-seen orders with nothing new are duplicates.
func (s *OrderIngestionService) reconcile(ctx context.Context, wholesale *trade.Wholesale, order *integration.RemoteOrder) (ingestOutcome, error) {
	switch order.Status {
	case integration.RemoteOrderStatusPaid:
		if !wholesale.IsUnpaid() {
			return outcomeSkipped, nil
		}
		if err := s.settlePayment(ctx, wholesale); err != nil {
			return outcomeFailed, err
		}
		return outcomeIngested, nil

	case integration.RemoteOrderStatusCanceled:
		if wholesale.Status.IsTerminal() {
			return outcomeSkipped, nil
		}
		if err := wholesale.Cancel(); err != nil {
			return outcomeFailed, err
		}
		for _, item := range wholesale.Items {
			if item.InsufficientStock {
				continue
			}
			if err := s.ledger.ReleaseOutgoing(ctx, s.storeID, item.ProductID, item.Quantity); err != nil {
				return outcomeFailed, err
			}
		}
		if err := s.wholesaleRepo.Save(ctx, wholesale); err != nil {
			return outcomeFailed, err
		}
		return outcomeIngested, nil

	default:
		return outcomeSkipped, nil
	}
}

// settlePayment moves a paid order to CONFIRMED and deducts the
// warehouse through the outgoing reservations. The idempotency marker
// guards the deduction: when a previous run already claimed it, only
// the status catches up and the ledger stays untouched.
func (s *OrderIngestionService) settlePayment(ctx context.Context, wholesale *trade.Wholesale) error {
	if wholesale.IsUnpaid() {
		if err := wholesale.MarkPaid(); err != nil {
			return err
		}
	}

	if wholesale.ExternalOrderID == nil {
		return shared.ErrInvalidState
	}
	claimed, err := s.idempotency.MarkProcessed(ctx, "wholesale:paid:"+*wholesale.ExternalOrderID, paidKeyTTL)
	if err != nil {
		return err
	}
	if claimed {
		for _, item := range wholesale.Items {
			if item.InsufficientStock {
				continue
			}
			if err := s.ledger.ConfirmOutgoing(ctx, s.storeID, item.ProductID, item.Quantity); err != nil {
				wholesale.MarkItemInsufficient(item.ProductID)
				s.notify(ctx, fmt.Sprintf(
					"Order %s: could not deduct %s x %s, line flagged for manual settlement",
					*wholesale.ExternalOrderID, item.ProductName, item.Quantity.String()))
			}
		}
	}

	if err := wholesale.Confirm(nil, ""); err != nil {
		return err
	}
	return s.wholesaleRepo.Save(ctx, wholesale)
}

// resolveProduct matches a remote line against the catalog by product
// code. Unknown codes get a placeholder provisioned so the order can
// land; the product is flagged for review.
func (s *OrderIngestionService) resolveProduct(ctx context.Context, item integration.RemoteOrderItem) (*catalog.Product, error) {
	product, err := s.productRepo.FindByCode(ctx, s.storeID, item.ProductCode)
	if err == nil {
		return product, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	product, err = catalog.NewPlaceholderProduct(s.storeID, s.vendorID, item.ProductName, item.ProductCode)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.notify(ctx, fmt.Sprintf(
		"Auto-provisioned product %q for unknown code %s, review required",
		item.ProductName, item.ProductCode))
	return product, nil
}

func (s *OrderIngestionService) notify(ctx context.Context, message string) {
	if s.sink == nil {
		return
	}
	if err := s.sink.Send(ctx, message); err != nil {
		s.logger.Warn("failed to deliver ingestion alert", zap.Error(err))
	}
}
