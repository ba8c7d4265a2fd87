// Package tenant applies company scoping to GORM queries.
//
// Scopes are built from an explicit shared.Scope rather than read from
// the request context, so every query states which company it reads:
//
//	db.Scopes(tenant.Scope(shared.CompanyScope(companyID))).Find(&orders)
package tenant

import (
	"errors"
	"strings"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrCompanyRequired is returned when a company scope carries no company.
var ErrCompanyRequired = errors.New("company scope requires a company id")

// Scope applies s to GORM queries. A global scope adds no predicate.
func Scope(s shared.Scope) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if s.IsGlobal() {
			return db
		}
		if s.CompanyID == uuid.Nil {
			_ = db.AddError(ErrCompanyRequired)
			return db
		}
		return db.Where(clause.Eq{
			Column: clause.Column{Table: clause.CurrentTable, Name: s.Column},
			Value:  s.CompanyID,
		})
	}
}

// Where applies trusted predicates.
func Where(conds ...shared.Cond) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, c := range conds {
			db = db.Where(c.Expr, c.Args...)
		}
		return db
	}
}

// Equal applies column = value predicates. Keys must already be checked
// against an allow-list.
func Equal(values map[string]any) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for col, v := range values {
			db = db.Where(clause.Eq{Column: clause.Column{Table: clause.CurrentTable, Name: col}, Value: v})
		}
		return db
	}
}

// Search matches term case-insensitively against any of columns.
func Search(term string, columns []string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}
		pattern := "%" + strings.ToLower(escapeLike(term)) + "%"
		parts := make([]string, len(columns))
		args := make([]any, len(columns))
		for i, col := range columns {
			parts[i] = "LOWER(" + col + ") LIKE ? ESCAPE '\\'"
			args[i] = pattern
		}
		return db.Where("("+strings.Join(parts, " OR ")+")", args...)
	}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
