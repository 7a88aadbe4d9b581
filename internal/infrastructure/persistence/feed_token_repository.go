package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/stockroom/backend/internal/domain/integration"
	"github.com/stockroom/backend/internal/domain/shared"
)

// GormFeedTokenRepository implements FeedTokenRepository using GORM
type GormFeedTokenRepository struct {
	db *gorm.DB
}

// NewGormFeedTokenRepository creates a new GormFeedTokenRepository
func NewGormFeedTokenRepository(db *gorm.DB) *GormFeedTokenRepository {
	return &GormFeedTokenRepository{db: db}
}

func (r *GormFeedTokenRepository) conn(ctx context.Context) *gorm.DB {
	return dbFromContext(ctx, r.db).WithContext(ctx)
}

// FindByAccount finds the cached token of a feed account
func (r *GormFeedTokenRepository) FindByAccount(ctx context.Context, accountID string) (*integration.FeedToken, error) {
	var token integration.FeedToken
	if err := r.conn(ctx).
		Where("account_id = ?", accountID).
		First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &token, nil
}

// Save creates or updates a token record
func (r *GormFeedTokenRepository) Save(ctx context.Context, token *integration.FeedToken) error {
	return r.conn(ctx).Save(token).Error
}
