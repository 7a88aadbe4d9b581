package integration

import (
	"context"
	"time"

	"github.com/stockroom/backend/internal/domain/shared"
)

// FeedToken caches the bearer token issued by the remote shop API for
// one feed account. Tokens are refreshed ahead of expiry so a poll
// never runs with a stale credential.
type FeedToken struct {
	shared.BaseEntity
	AccountID    string    `gorm:"size:64;not null;uniqueIndex"`
	AccessToken  string    `gorm:"size:255;not null"`
	RefreshToken string    `gorm:"size:255"`
	ExpiresAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (FeedToken) TableName() string {
	return "feed_tokens"
}

// NewFeedToken creates a token record for an account
func NewFeedToken(accountID, accessToken, refreshToken string, expiresAt time.Time) *FeedToken {
	return &FeedToken{
		BaseEntity:   shared.NewBaseEntity(),
		AccountID:    accountID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}
}

// IsExpiringWithin reports whether the token expires inside the margin
func (t *FeedToken) IsExpiringWithin(margin time.Duration) bool {
	return time.Now().Add(margin).After(t.ExpiresAt)
}

// Rotate replaces the token pair after a refresh
func (t *FeedToken) Rotate(accessToken, refreshToken string, expiresAt time.Time) {
	t.AccessToken = accessToken
	if refreshToken != "" {
		t.RefreshToken = refreshToken
	}
	t.ExpiresAt = expiresAt
	t.UpdatedAt = time.Now()
}

// FeedTokenRepository defines the interface for token persistence
type FeedTokenRepository interface {
	// FindByAccount finds the cached token of a feed account
	FindByAccount(ctx context.Context, accountID string) (*FeedToken, error)

	// Save creates or updates a token record
	Save(ctx context.Context, token *FeedToken) error
}
