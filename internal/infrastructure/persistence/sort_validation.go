package persistence

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/ferreteria/backoffice/internal/domain/shared"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// RegisterSortFields contains allowed sort fields for cash registers
var RegisterSortFields = map[string]bool{
	"created_at":      true,
	"updated_at":      true,
	"name":            true,
	"current_balance": true,
	"last_closed_at":  true,
}

// SessionSortFields contains allowed sort fields for sessions
var SessionSortFields = map[string]bool{
	"created_at": true,
	"opened_at":  true,
	"closed_at":  true,
	"status":     true,
}

// CheckSortFields contains allowed sort fields for checks
var CheckSortFields = map[string]bool{
	"created_at":  true,
	"due_date":    true,
	"issue_date":  true,
	"amount":      true,
	"bank_name":   true,
	"issuer_name": true,
	"status":      true,
}

// applyPaging orders by a whitelisted column and applies limit/offset.
// id is appended as a tie breaker so pages are stable.
func applyPaging(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	dir := ValidateSortOrder(filter.OrderDir)
	return query.
		Order(fmt.Sprintf("%s %s, id %s", field, dir, dir)).
		Limit(filter.Limit()).
		Offset(filter.Offset())
}
