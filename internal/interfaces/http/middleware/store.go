package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Context and header keys for store identification
const (
	StoreIDKey     = "store_id"
	StoreHeaderKey = "X-Store-ID"
)

// StoreMiddlewareConfig holds configuration for store middleware
type StoreMiddlewareConfig struct {
	// DefaultStoreID is used when the header is absent. uuid.Nil disables
	// the fallback and makes the header mandatory.
	DefaultStoreID uuid.UUID
	// SkipPaths are paths that don't require store context (e.g., health check)
	SkipPaths []string
}

// DefaultStoreConfig returns default store middleware configuration
func DefaultStoreConfig() StoreMiddlewareConfig {
	return StoreMiddlewareConfig{
		SkipPaths: []string{"/health", "/healthz", "/ready", "/api/v1/system"},
	}
}

// StoreMiddleware extracts the store ID from the X-Store-ID header and
// places it in the gin context for handlers.
func StoreMiddleware(cfg StoreMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath || strings.HasPrefix(path, skipPath+"/") {
				c.Next()
				return
			}
		}

		storeIDStr := c.GetHeader(StoreHeaderKey)
		if storeIDStr == "" {
			if cfg.DefaultStoreID == uuid.Nil {
				respondStoreError(c, http.StatusBadRequest, "Store identification required")
				return
			}
			c.Set(StoreIDKey, cfg.DefaultStoreID)
			c.Next()
			return
		}

		storeID, err := uuid.Parse(storeIDStr)
		if err != nil {
			respondStoreError(c, http.StatusBadRequest, "Invalid store ID format")
			return
		}

		c.Set(StoreIDKey, storeID)
		c.Next()
	}
}

// GetStoreUUID retrieves the store ID from gin.Context
func GetStoreUUID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(StoreIDKey)
	if !exists {
		return uuid.Nil, false
	}
	storeID, ok := value.(uuid.UUID)
	return storeID, ok
}

func respondStoreError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "ERR_BAD_REQUEST",
			"message": message,
		},
	})
}
