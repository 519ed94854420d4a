package persistence

import (
	"strings"

	"github.com/erp/billing/internal/domain/shared"
	"gorm.io/gorm"
)

// sortColumns whitelists the columns a list endpoint may order by. Client
// input never reaches ORDER BY unless it matches an entry exactly.
type sortColumns map[string]struct{}

func newSortColumns(columns ...string) sortColumns {
	set := sortColumns{"id": {}, "created_at": {}, "updated_at": {}}
	for _, c := range columns {
		set[c] = struct{}{}
	}
	return set
}

// column returns the requested column when whitelisted, else fallback
func (s sortColumns) column(requested, fallback string) string {
	if _, ok := s[strings.TrimSpace(requested)]; ok {
		return strings.TrimSpace(requested)
	}
	return fallback
}

var (
	inventoryItemSort = newSortColumns("name", "unit_price", "tax_rate", "quantity_on_hand")
	customerSort      = newSortColumns("name", "email")
	salesOrderSort    = newSortColumns("number", "status", "total")
	invoiceSort       = newSortColumns("number", "status", "total", "issue_date", "due_date")
)

// sortDirection accepts asc in any case and treats everything else as DESC
func sortDirection(dir string) string {
	if strings.EqualFold(strings.TrimSpace(dir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// applyPaging orders by a whitelisted column and applies the page window.
// id breaks ties so equal sort keys page deterministically.
func applyPaging(query *gorm.DB, filter shared.Filter, allowed sortColumns) *gorm.DB {
	col := allowed.column(filter.OrderBy, "created_at")
	query = query.Order(col + " " + sortDirection(filter.OrderDir))
	if col != "id" {
		query = query.Order("id ASC")
	}
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// likePattern builds a case-insensitive LIKE pattern for a search term
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}
