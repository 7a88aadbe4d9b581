package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/stockroom/backend/internal/domain/catalog"
	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
)

type recordingSink struct {
	mu       sync.Mutex
	messages []string
	failWith error
}

func (s *recordingSink) Send(_ context.Context, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	s.messages = append(s.messages, message)
	return nil
}

func newTriggerEvent(t *testing.T, storeID, productID uuid.UUID) *inventory.StockBelowTriggerEvent {
	t.Helper()
	record, err := inventory.NewStockRecord(storeID, productID)
	require.NoError(t, err)
	require.NoError(t, record.UpdateManually(decimal.Zero, decimal.NewFromInt(2), decimal.NewFromInt(5)))
	return inventory.NewStockBelowTriggerEvent(record)
}

func TestStockBelowTriggerHandler_SendsAlert(t *testing.T) {
	ctx := context.Background()
	storeID := uuid.New()

	product, err := catalog.NewProduct(storeID, uuid.New(), "Oolong 250g", "P-001", "box", 500, 900, 700)
	require.NoError(t, err)

	productRepo := new(MockProductRepository)
	productRepo.On("FindByID", ctx, product.ID).Return(product, nil)

	sink := &recordingSink{}
	handler := NewStockBelowTriggerHandler(productRepo, sink, zap.NewNop())

	err = handler.Handle(ctx, newTriggerEvent(t, storeID, product.ID))
	require.NoError(t, err)
	require.Len(t, sink.messages, 1)
	assert.Contains(t, sink.messages[0], "Oolong 250g")
	assert.Contains(t, sink.messages[0], "2")
	assert.Contains(t, sink.messages[0], "5")
	assert.Contains(t, sink.messages[0], string(inventory.StockHealthLow))
}

func TestStockBelowTriggerHandler_ProductLookupFailureFallsBackToID(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()

	productRepo := new(MockProductRepository)
	productRepo.On("FindByID", ctx, productID).Return(nil, shared.ErrNotFound)

	sink := &recordingSink{}
	handler := NewStockBelowTriggerHandler(productRepo, sink, zap.NewNop())

	err := handler.Handle(ctx, newTriggerEvent(t, uuid.New(), productID))
	require.NoError(t, err)
	require.Len(t, sink.messages, 1)
	assert.Contains(t, sink.messages[0], productID.String())
}

func TestStockBelowTriggerHandler_SinkFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()

	productRepo := new(MockProductRepository)
	productRepo.On("FindByID", ctx, productID).Return(nil, shared.ErrNotFound)

	sink := &recordingSink{failWith: errors.New("webhook down")}
	handler := NewStockBelowTriggerHandler(productRepo, sink, zap.NewNop())

	err := handler.Handle(ctx, newTriggerEvent(t, uuid.New(), productID))
	assert.NoError(t, err)
}

func TestStockBelowTriggerHandler_RejectsForeignPayload(t *testing.T) {
	handler := NewStockBelowTriggerHandler(new(MockProductRepository), &recordingSink{}, zap.NewNop())

	base := shared.NewBaseDomainEvent("SomethingElse", "Other", uuid.New(), uuid.New())
	err := handler.Handle(context.Background(), &base)
	assert.Error(t, err)
}

func TestStockBelowTriggerHandler_EventTypes(t *testing.T) {
	handler := NewStockBelowTriggerHandler(new(MockProductRepository), &recordingSink{}, zap.NewNop())
	assert.Equal(t, []string{inventory.EventTypeStockBelowTrigger}, handler.EventTypes())
}
