package event

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/stockroom/backend/internal/domain/shared"
)

// InMemoryEventBus delivers domain events synchronously to subscribed
// handlers. Delivery is best-effort: a failing or panicking handler is
// logged and the remaining handlers still run, so a broken alert sink
// can never block a ledger write that already committed.
type InMemoryEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger
	running  atomic.Bool
}

func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   logger,
	}
}

// Publish fans each event out to the handlers registered for its type.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, evt := range events {
		for _, handler := range b.registry.GetHandlers(evt.EventType()) {
			b.deliver(ctx, handler, evt)
		}
	}
	return nil
}

// deliver runs one handler, containing both errors and panics so a bad
// subscriber cannot starve the others.
func (b *InMemoryEventBus) deliver(ctx context.Context, handler shared.EventHandler, evt shared.DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("event_type", evt.EventType()),
				zap.Any("panic", r),
			)
		}
	}()

	if err := handler.Handle(ctx, evt); err != nil {
		b.logger.Error("event handler failed",
			zap.String("event_type", evt.EventType()),
			zap.String("event_id", evt.EventID().String()),
			zap.Error(err),
		)
	}
}

// Subscribe registers a handler, defaulting to the types it declares.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes a handler from every type it was registered for.
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
	b.logger.Debug("handler unsubscribed")
}

// Start marks the bus running. Delivery is synchronous, so there is no
// background work to spin up.
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	if b.running.CompareAndSwap(false, true) {
		b.logger.Info("event bus started")
	}
	return nil
}

func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	if b.running.CompareAndSwap(true, false) {
		b.logger.Info("event bus stopped")
	}
	return nil
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
