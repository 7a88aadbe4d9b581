package persistence

import (
	"strings"

	"gorm.io/gorm"

	"github.com/stockroom/backend/internal/domain/shared"
)

// applyFilter applies ordering and pagination from a shared.Filter.
// OrderBy is validated against a column allowlist; anything else falls
// back to created_at.
func applyFilter(query *gorm.DB, filter shared.Filter, orderableColumns ...string) *gorm.DB {
	orderBy := "created_at"
	for _, col := range orderableColumns {
		if filter.OrderBy == col {
			orderBy = col
			break
		}
	}
	orderDir := "DESC"
	if strings.EqualFold(filter.OrderDir, "asc") {
		orderDir = "ASC"
	}
	query = query.Order(orderBy + " " + orderDir)

	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	return query
}
