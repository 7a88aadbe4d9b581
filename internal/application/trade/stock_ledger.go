package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/stockroom/backend/internal/domain/catalog"
	"github.com/stockroom/backend/internal/domain/shared"
)

// StockLedger is the slice of the stock service the trade services need.
// Every call loads the product's record, applies the pool mutation and
// saves under the record's version lock.
type StockLedger interface {
	ReserveIncoming(ctx context.Context, storeID, productID uuid.UUID, quantity decimal.Decimal) error
	ReleaseIncoming(ctx context.Context, storeID, productID uuid.UUID, quantity decimal.Decimal) error
	AdjustIncoming(ctx context.Context, storeID, productID uuid.UUID, delta decimal.Decimal) error
	ConfirmIncoming(ctx context.Context, storeID, productID uuid.UUID, expected, actual decimal.Decimal) error
	SettleWarehouse(ctx context.Context, storeID, productID uuid.UUID, delta decimal.Decimal) error
	ReserveOutgoing(ctx context.Context, storeID, productID uuid.UUID, quantity decimal.Decimal) error
	ReleaseOutgoing(ctx context.Context, storeID, productID uuid.UUID, quantity decimal.Decimal) error
	ConfirmOutgoing(ctx context.Context, storeID, productID uuid.UUID, quantity decimal.Decimal) error
	Available(ctx context.Context, storeID, productID uuid.UUID) (decimal.Decimal, error)
}

// classifyMissingProduct tells a product of another store apart from one
// that does not exist at all. The store-scoped batch lookup hides both
// the same way, but callers owe the client the distinction.
func classifyMissingProduct(ctx context.Context, products catalog.ProductRepository, storeID, productID uuid.UUID) error {
	product, err := products.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if err := product.ValidateStoreAccess(storeID); err != nil {
		return err
	}
	return shared.ErrNotFound
}

// runAtomically executes fn through the transactor so that a status
// transition and its ledger movements commit or roll back as one unit.
// Without a transactor fn runs directly.
func runAtomically(ctx context.Context, tx shared.Transactor, fn func(ctx context.Context) error) error {
	if tx == nil {
		return fn(ctx)
	}
	return tx.Transaction(ctx, fn)
}
