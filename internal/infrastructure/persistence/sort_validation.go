package persistence

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/bizfin/backend/internal/domain/shared"
)

// Sortable column whitelists, one per listable table. Only columns
// listed here may appear in an ORDER BY built from user input.
var (
	SupplierSortFields = map[string]bool{
		"name":       true,
		"category":   true,
		"active":     true,
		"created_at": true,
		"updated_at": true,
	}

	InvoiceSortFields = map[string]bool{
		"number":     true,
		"date":       true,
		"total":      true,
		"status":     true,
		"created_at": true,
		"updated_at": true,
	}

	PaymentSortFields = map[string]bool{
		"amount":         true,
		"method":         true,
		"status":         true,
		"first_due_date": true,
		"created_at":     true,
		"updated_at":     true,
	}

	GoalSortFields = map[string]bool{
		"month":      true,
		"created_at": true,
		"updated_at": true,
	}

	BusinessSortFields = map[string]bool{
		"name":       true,
		"type":       true,
		"created_at": true,
		"updated_at": true,
	}

	DailyEntrySortFields = map[string]bool{
		"date":       true,
		"labor_cost": true,
		"created_at": true,
		"updated_at": true,
	}
)

// ValidateSortField checks the column against the table's whitelist
func ValidateSortField(field string, allowed map[string]bool) error {
	if field == "" {
		return nil
	}
	if !allowed[strings.ToLower(field)] {
		return shared.NewDomainError("INVALID_SORT_FIELD", fmt.Sprintf("Cannot sort by %q", field))
	}
	return nil
}

// ValidateSortOrder normalizes the direction to ASC or DESC
func ValidateSortOrder(dir string) (string, error) {
	switch strings.ToUpper(dir) {
	case "", "DESC":
		return "DESC", nil
	case "ASC":
		return "ASC", nil
	default:
		return "", shared.NewDomainError("INVALID_SORT_ORDER", fmt.Sprintf("Invalid sort direction %q", dir))
	}
}

// applyFilter applies search, ordering and pagination from the filter.
// Ordering falls back to defaultOrder when no column is requested, and
// unknown columns are rejected rather than interpolated.
func applyFilter(db *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultOrder string, searchColumns ...string) (*gorm.DB, error) {
	db, err := applyFilterWithoutPagination(db, filter, allowed, defaultOrder, searchColumns...)
	if err != nil {
		return nil, err
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	return db.Offset((page - 1) * pageSize).Limit(pageSize), nil
}

// applyFilterWithoutPagination applies search and ordering only; used
// for count queries alongside applyFilter.
func applyFilterWithoutPagination(db *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultOrder string, searchColumns ...string) (*gorm.DB, error) {
	if filter.Search != "" && len(searchColumns) > 0 {
		pattern := "%" + filter.Search + "%"
		clauses := make([]string, 0, len(searchColumns))
		args := make([]interface{}, 0, len(searchColumns))
		for _, col := range searchColumns {
			clauses = append(clauses, col+" ILIKE ?")
			args = append(args, pattern)
		}
		db = db.Where(strings.Join(clauses, " OR "), args...)
	}

	if filter.OrderBy != "" {
		if err := ValidateSortField(filter.OrderBy, allowed); err != nil {
			return nil, err
		}
		dir, err := ValidateSortOrder(filter.OrderDir)
		if err != nil {
			return nil, err
		}
		db = db.Order(fmt.Sprintf("%s %s", strings.ToLower(filter.OrderBy), dir))
	} else if defaultOrder != "" {
		db = db.Order(defaultOrder)
	}

	return db, nil
}
