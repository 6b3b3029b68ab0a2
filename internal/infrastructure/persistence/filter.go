package persistence

import (
	"github.com/tms/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// applyPagination applies page-based offset and limit to the query.
func applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

// applyOrdering applies a whitelisted ORDER BY clause to the query.
// Unknown sort fields fall back to defaultField, unknown directions to DESC.
func applyOrdering(query *gorm.DB, filter shared.Filter, allowedFields map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowedFields, defaultField)
	if field == "" {
		return query
	}
	return query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
}
