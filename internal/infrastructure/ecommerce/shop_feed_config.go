package ecommerce

import (
	"errors"
	"time"
)

// ShopFeedConfig holds configuration for the remote shop order API
type ShopFeedConfig struct {
	// BaseURL is the root of the shop API, without a trailing slash
	BaseURL string
	// AccountID is the shop account the feed pulls orders for
	AccountID string
	// ClientID is the API client identifier
	ClientID string
	// ClientSecret is the API client secret used for token exchange
	ClientSecret string
	// RequestTimeout bounds each HTTP call to the shop API
	RequestTimeout time.Duration
	// TokenRefreshMargin refreshes tokens this long before expiry
	TokenRefreshMargin time.Duration
}

// Errors for shop feed configuration
var (
	ErrShopFeedConfigMissingBaseURL   = errors.New("shopfeed: base URL is required")
	ErrShopFeedConfigMissingAccountID = errors.New("shopfeed: account ID is required")
	ErrShopFeedConfigMissingClientID  = errors.New("shopfeed: client ID is required")
	ErrShopFeedConfigMissingSecret    = errors.New("shopfeed: client secret is required")
)

// NewShopFeedConfig creates a configuration with defaults
func NewShopFeedConfig(baseURL, accountID, clientID, clientSecret string) *ShopFeedConfig {
	return &ShopFeedConfig{
		BaseURL:            baseURL,
		AccountID:          accountID,
		ClientID:           clientID,
		ClientSecret:       clientSecret,
		RequestTimeout:     30 * time.Second,
		TokenRefreshMargin: 5 * time.Minute,
	}
}

// Validate validates the shop feed configuration
func (c *ShopFeedConfig) Validate() error {
	if c.BaseURL == "" {
		return ErrShopFeedConfigMissingBaseURL
	}
	if c.AccountID == "" {
		return ErrShopFeedConfigMissingAccountID
	}
	if c.ClientID == "" {
		return ErrShopFeedConfigMissingClientID
	}
	if c.ClientSecret == "" {
		return ErrShopFeedConfigMissingSecret
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 30 * time.Second
	}
	if c.TokenRefreshMargin <= 0 {
		c.TokenRefreshMargin = 5 * time.Minute
	}
	return nil
}
