package persistence

import (
	"slices"
	"strings"

	"gorm.io/gorm/clause"
)

// orderClause orders a page by field when it is sortable, by fallback
// otherwise, and then by id so equal keys keep a stable page boundary.
// dir is "asc" or "desc" in any case; anything else sorts descending.
func orderClause(field, dir string, sortable []string, fallback string) clause.OrderBy {
	field = strings.TrimSpace(field)
	if !slices.Contains(sortable, field) {
		field = fallback
	}
	desc := !strings.EqualFold(strings.TrimSpace(dir), "asc")

	var cols []clause.OrderByColumn
	if field != "" && field != "id" {
		cols = append(cols, clause.OrderByColumn{Column: clause.Column{Name: field}, Desc: desc})
	}
	cols = append(cols, clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: desc})
	return clause.OrderBy{Columns: cols}
}
