package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockroom/backend/internal/domain/inventory"
	"github.com/stockroom/backend/internal/domain/shared"
)

// GormStockRecordRepository implements StockRecordRepository using GORM
type GormStockRecordRepository struct {
	db *gorm.DB
}

// NewGormStockRecordRepository creates a new GormStockRecordRepository
func NewGormStockRecordRepository(db *gorm.DB) *GormStockRecordRepository {
	return &GormStockRecordRepository{db: db}
}

// conn resolves the database handle, joining the transaction carried by
// ctx when there is one
func (r *GormStockRecordRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// FindByID finds a stock record by its ID
func (r *GormStockRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.StockRecord, error) {
	var record inventory.StockRecord
	if err := r.conn(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByProduct finds the single stock record of a product
func (r *GormStockRecordRepository) FindByProduct(ctx context.Context, productID uuid.UUID) (*inventory.StockRecord, error) {
	var record inventory.StockRecord
	if err := r.conn(ctx).
		Where("product_id = ?", productID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByProducts finds the stock records of multiple products
func (r *GormStockRecordRepository) FindByProducts(ctx context.Context, productIDs []uuid.UUID) ([]inventory.StockRecord, error) {
	if len(productIDs) == 0 {
		return []inventory.StockRecord{}, nil
	}
	var records []inventory.StockRecord
	if err := r.conn(ctx).
		Where("product_id IN ?", productIDs).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindAllForStore finds all stock records belonging to a store
func (r *GormStockRecordRepository) FindAllForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]inventory.StockRecord, error) {
	var records []inventory.StockRecord
	query := applyFilter(
		r.conn(ctx).Model(&inventory.StockRecord{}).Where("store_id = ?", storeID),
		filter, "updated_at", "warehouse_stock",
	)
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindBelowTrigger finds records at or under their reorder trigger point
func (r *GormStockRecordRepository) FindBelowTrigger(ctx context.Context, storeID uuid.UUID, filter shared.Filter) ([]inventory.StockRecord, error) {
	var records []inventory.StockRecord
	query := applyFilter(
		r.conn(ctx).Model(&inventory.StockRecord{}).
			Where("store_id = ? AND reorder_trigger_point > 0 AND warehouse_stock <= reorder_trigger_point", storeID),
		filter, "warehouse_stock",
	)
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Save creates or updates a stock record
func (r *GormStockRecordRepository) Save(ctx context.Context, record *inventory.StockRecord) error {
	return r.conn(ctx).Save(record).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormStockRecordRepository) SaveWithLock(ctx context.Context, record *inventory.StockRecord) error {
	result := r.conn(ctx).
		Model(record).
		Where("id = ? AND version = ?", record.ID, record.Version-1).
		Updates(map[string]interface{}{
			"display_stock":         record.DisplayStock,
			"warehouse_stock":       record.WarehouseStock,
			"outgoing_reserved":     record.OutgoingReserved,
			"incoming_reserved":     record.IncomingReserved,
			"reorder_trigger_point": record.ReorderTriggerPoint,
			"version":               record.Version,
			"updated_at":            record.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// CountForStore counts stock records matching the filter
func (r *GormStockRecordRepository) CountForStore(ctx context.Context, storeID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.conn(ctx).Model(&inventory.StockRecord{}).Where("store_id = ?", storeID)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
