package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/stockroom/backend/internal/domain/shared"
)

// recordingHandler records every event it receives
type recordingHandler struct {
	mu         sync.Mutex
	eventTypes []string
	received   []shared.DomainEvent
	failWith   error
}

func (h *recordingHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.received = append(h.received, event)
	return h.failWith
}

func (h *recordingHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.received)
}

// panickingHandler always panics
type panickingHandler struct{}

func (h *panickingHandler) Handle(context.Context, shared.DomainEvent) error {
	panic("handler exploded")
}

func (h *panickingHandler) EventTypes() []string { return nil }

func newTestEvent(eventType string) shared.DomainEvent {
	base := shared.NewBaseDomainEvent(eventType, "TestAggregate", uuid.New(), uuid.New())
	return &base
}

func TestInMemoryEventBus_PublishToSubscriber(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	require.NoError(t, bus.Start(context.Background()))
	defer bus.Stop(context.Background())

	handler := &recordingHandler{eventTypes: []string{"StockBelowTrigger"}}
	bus.Subscribe(handler)

	err := bus.Publish(context.Background(), newTestEvent("StockBelowTrigger"))
	require.NoError(t, err)
	assert.Equal(t, 1, handler.count())

	// Events of other types are not delivered
	err = bus.Publish(context.Background(), newTestEvent("StockMoved"))
	require.NoError(t, err)
	assert.Equal(t, 1, handler.count())
}

func TestInMemoryEventBus_WildcardHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := &recordingHandler{}
	bus.Subscribe(handler)

	require.NoError(t, bus.Publish(context.Background(),
		newTestEvent("StockBelowTrigger"),
		newTestEvent("StockMoved"),
	))
	assert.Equal(t, 2, handler.count())
}

func TestInMemoryEventBus_HandlerErrorDoesNotStopDelivery(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	failing := &recordingHandler{eventTypes: []string{"StockMoved"}, failWith: errors.New("boom")}
	healthy := &recordingHandler{eventTypes: []string{"StockMoved"}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent("StockMoved"))
	require.NoError(t, err)
	assert.Equal(t, 1, failing.count())
	assert.Equal(t, 1, healthy.count())
}

func TestInMemoryEventBus_HandlerPanicIsRecovered(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	bus.Subscribe(&panickingHandler{})
	after := &recordingHandler{}
	bus.Subscribe(after)

	require.NotPanics(t, func() {
		_ = bus.Publish(context.Background(), newTestEvent("StockMoved"))
	})
	assert.Equal(t, 1, after.count())
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := &recordingHandler{eventTypes: []string{"StockMoved"}}
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("StockMoved")))
	assert.Equal(t, 0, handler.count())
}
