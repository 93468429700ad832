package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes a sort direction to ASC or DESC, falling
// back to defaultOrder for anything else.
func ValidateSortOrder(orderDir, defaultOrder string) string {
	switch strings.ToUpper(strings.TrimSpace(orderDir)) {
	case "ASC":
		return "ASC"
	case "DESC":
		return "DESC"
	}
	return defaultOrder
}

// ValidateSortField returns sortField when it is whitelisted, otherwise
// defaultField. Only whitelisted names ever reach an ORDER BY clause.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CustomerSortFields are the columns customer lists may be ordered by
var CustomerSortFields = map[string]bool{
	"name":         true,
	"company_name": true,
	"city":         true,
	"credit_limit": true,
	"created_at":   true,
	"updated_at":   true,
}

// customerOrder builds the ORDER BY clause of a customer list. Name breaks
// ties so pages are stable.
func customerOrder(orderBy, orderDir string) string {
	field := ValidateSortField(orderBy, CustomerSortFields, "name")
	dir := ValidateSortOrder(orderDir, "ASC")
	if field == "name" {
		return "name " + dir + ", company_name " + dir
	}
	return field + " " + dir + ", name ASC"
}
