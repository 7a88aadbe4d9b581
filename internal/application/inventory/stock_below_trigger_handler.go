package inventory

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/stockroom/backend/internal/domain/catalog"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
)

// AlertSink delivers a reorder alert. Delivery is best-effort; failures are
// logged here and never propagated back into the stock operation.
type AlertSink interface {
	Send(ctx context.Context, message string) error
}

// StockBelowTriggerHandler listens for StockBelowTrigger events and pushes
// a human-readable reorder alert to the configured sink.
type StockBelowTriggerHandler struct {
	productRepo catalog.ProductRepository
	sink        AlertSink
	logger      *zap.Logger
}

// NewStockBelowTriggerHandler creates a handler for low stock alerts
func NewStockBelowTriggerHandler(productRepo catalog.ProductRepository, sink AlertSink, logger *zap.Logger) *StockBelowTriggerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockBelowTriggerHandler{
		productRepo: productRepo,
		sink:        sink,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler subscribes to
func (h *StockBelowTriggerHandler) EventTypes() []string {
	return []string{inventory.EventTypeStockBelowTrigger}
}

// Handle processes a StockBelowTrigger event
func (h *StockBelowTriggerHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	triggerEvent, ok := event.(*inventory.StockBelowTriggerEvent)
	if !ok {
		return errors.New("unexpected event payload for StockBelowTrigger")
	}

	productName := triggerEvent.ProductID.String()
	if product, err := h.productRepo.FindByID(ctx, triggerEvent.ProductID); err == nil {
		productName = product.Name
	}

	message := fmt.Sprintf(
		"Reorder alert [%s]: %q warehouse stock %s is at or below trigger point %s",
		triggerEvent.Health, productName,
		triggerEvent.WarehouseStock.String(), triggerEvent.TriggerPoint.String(),
	)

	if err := h.sink.Send(ctx, message); err != nil {
		h.logger.Error("failed to deliver reorder alert",
			zap.String("product_id", triggerEvent.ProductID.String()),
			zap.Error(err))
	}
	return nil
}

var _ shared.EventHandler = (*StockBelowTriggerHandler)(nil)
