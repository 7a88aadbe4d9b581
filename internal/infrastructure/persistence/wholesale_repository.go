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

// GormWholesaleRepository implements WholesaleRepository using GORM
type GormWholesaleRepository struct {
	db *gorm.DB
}

// NewGormWholesaleRepository creates a new GormWholesaleRepository
func NewGormWholesaleRepository(db *gorm.DB) *GormWholesaleRepository {
	return &GormWholesaleRepository{db: db}
}

// conn resolves the database handle, joining the transaction carried by
// ctx when there is one
func (r *GormWholesaleRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// FindByID finds a wholesale order with its items by ID
func (r *GormWholesaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Wholesale, error) {
	var wholesale trade.Wholesale
	if err := r.conn(ctx).
		Preload("Items").
		First(&wholesale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &wholesale, nil
}

// FindByIDForStore finds a wholesale order by ID within a store
func (r *GormWholesaleRepository) FindByIDForStore(ctx context.Context, storeID, id uuid.UUID) (*trade.Wholesale, error) {
	var wholesale trade.Wholesale
	if err := r.conn(ctx).
		Preload("Items").
		Where("store_id = ? AND id = ?", storeID, id).
		First(&wholesale).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &wholesale, nil
}

// FindByExternalOrderID finds the local order ingested for a remote order ID
func (r *GormWholesaleRepository) FindByExternalOrderID(ctx context.Context, externalOrderID string) (*trade.Wholesale, error) {
	var wholesale trade.Wholesale
	if err := r.conn(ctx).
		Preload("Items").
		Where("external_order_id = ?", externalOrderID).
		First(&wholesale).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &wholesale, nil
}

// FindAllForStore finds all wholesale orders belonging to a store
func (r *GormWholesaleRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]trade.Wholesale, error) {
	var wholesales []trade.Wholesale
	query := applyFilter(
		r.conn(ctx).Model(&trade.Wholesale{}).
			Preload("Items").
			Where("store_id = ?", storeID),
		filter, "processed_at", "total_price",
	)
	if err := query.Find(&wholesales).Error; err != nil {
		return nil, err
	}
	return wholesales, nil
}

// FindByStatus finds wholesale orders in a given status within a store
func (r *GormWholesaleRepository) FindByStatus(ctx context.Context, storeID uuid.UUID, status trade.WholesaleStatus, filter shared.Filter) ([]trade.Wholesale, error) {
	var wholesales []trade.Wholesale
	query := applyFilter(
		r.conn(ctx).Model(&trade.Wholesale{}).
			Preload("Items").
			Where("store_id = ? AND status = ?", storeID, status),
		filter, "processed_at",
	)
	if err := query.Find(&wholesales).Error; err != nil {
		return nil, err
	}
	return wholesales, nil
}

// Save creates or updates a wholesale order with its items
func (r *GormWholesaleRepository) Save(ctx context.Context, wholesale *trade.Wholesale) error {
	return r.conn(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Save(wholesale).Error
}

// DeleteItems removes the given item rows
func (r *GormWholesaleRepository) DeleteItems(ctx context.Context, wholesaleID uuid.UUID, itemIDs []uuid.UUID) error {
	if len(itemIDs) == 0 {
		return nil
	}
	return r.conn(ctx).
		Where("wholesale_id = ? AND id IN ?", wholesaleID, itemIDs).
		Delete(&trade.WholesaleItem{}).Error
}

// CountForStore counts wholesale orders matching the filter
func (r *GormWholesaleRepository) CountForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.conn(ctx).Model(&trade.Wholesale{}).
		Where("store_id = ?", storeID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
