package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stockroom/backend/internal/domain/shared"
	"github.com/stockroom/backend/internal/domain/trade"
)

// GormReceiptRepository implements ReceiptRepository using GORM
type GormReceiptRepository struct {
	db *gorm.DB
}

// NewGormReceiptRepository creates a new GormReceiptRepository
func NewGormReceiptRepository(db *gorm.DB) *GormReceiptRepository {
	return &GormReceiptRepository{db: db}
}

// conn resolves the database handle, joining the transaction carried by
// ctx when there is one
func (r *GormReceiptRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// FindByID finds a receipt with its items by ID
func (r *GormReceiptRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Receipt, error) {
	var receipt trade.Receipt
	if err := r.conn(ctx).
		Preload("Items").
		First(&receipt, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &receipt, nil
}

// FindByIDForStore finds a receipt by ID within a store
func (r *GormReceiptRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*trade.Receipt, error) {
	var receipt trade.Receipt
	if err := r.conn(ctx).
		Preload("Items").
		Where("store_id = ? AND id = ?", storeID, id).
		First(&receipt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &receipt, nil
}

// FindByOrder finds the receipt of a purchase order, if any
func (r *GormReceiptRepository) FindByOrder(ctx context.Context, purchaseOrderID uuid.UUID) (*trade.Receipt, error) {
	var receipt trade.Receipt
	if err := r.conn(ctx).
		Preload("Items").
		Where("purchase_order_id = ?", purchaseOrderID).
		First(&receipt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &receipt, nil
}

// FindAllForStore finds all receipts belonging to a store
func (r *GormReceiptRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]trade.Receipt, error) {
	var receipts []trade.Receipt
	query := applyFilter(
		r.conn(ctx).Model(&trade.Receipt{}).
			Preload("Items").
			Where("store_id = ?", storeID),
		filter, "confirmed_at",
	)
	if err := query.Find(&receipts).Error; err != nil {
		return nil, err
	}
	return receipts, nil
}

// Save creates or updates a receipt with its items
func (r *GormReceiptRepository) Save(ctx context.Context, receipt *trade.Receipt) error {
	return r.conn(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Save(receipt).Error
}
