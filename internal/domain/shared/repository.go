package shared

import (
	"context"

	"github.com/google/uuid"
)

// Scope restricts queries to the rows a company may see. A zero Scope
// is global.
type Scope struct {
	Column    string
	CompanyID uuid.UUID
}

// CompanyScope filters on the company_id column.
func CompanyScope(companyID uuid.UUID) Scope {
	return Scope{Column: "company_id", CompanyID: companyID}
}

// RootScope filters the company table itself.
func RootScope(companyID uuid.UUID) Scope {
	return Scope{Column: "id", CompanyID: companyID}
}

// IsGlobal reports whether no company predicate applies.
func (s Scope) IsGlobal() bool {
	return s.Column == ""
}

// Cond is a single SQL predicate with placeholders. Columns come from
// code, never from request input.
type Cond struct {
	Expr string
	Args []any
}

// Eq matches column = value.
func Eq(column string, value any) Cond {
	return Cond{Expr: column + " = ?", Args: []any{value}}
}

// Ne matches column <> value.
func Ne(column string, value any) Cond {
	return Cond{Expr: column + " <> ?", Args: []any{value}}
}

// Query selects one page of a listing. Filter keys are checked against
// an allow-list before reaching a Store.
type Query struct {
	Filter Filter
	// Sortable lists the columns Filter.OrderBy may name.
	Sortable []string
	// DefaultSort orders the page when Filter.OrderBy is not sortable.
	DefaultSort string
	// SearchColumns are matched case-insensitively against Filter.Search.
	SearchColumns []string
	Conds         []Cond
}

// Store is the untyped persistence port shared by every aggregate.
// Writes join the transaction carried by ctx, if any.
type Store interface {
	// First loads the first matching row into dest or returns ErrNotFound.
	First(ctx context.Context, dest any, scope Scope, conds ...Cond) error
	// Exists reports whether model's table has a matching row.
	Exists(ctx context.Context, model any, scope Scope, conds ...Cond) (bool, error)
	// TableExists reports whether the named table holds id inside scope.
	TableExists(ctx context.Context, table string, scope Scope, id uuid.UUID) (bool, error)
	// Find loads all matching rows into dest, a pointer to a slice.
	Find(ctx context.Context, dest any, scope Scope, order string, conds ...Cond) error
	// List loads one page into dest and returns the total row count.
	List(ctx context.Context, dest any, scope Scope, q Query) (int64, error)
	Create(ctx context.Context, value any) error
	// Save writes every column of value, matched by primary key.
	Save(ctx context.Context, value any) error
	// Delete removes the row of model's table with id inside scope and
	// returns the number of rows removed.
	Delete(ctx context.Context, model any, scope Scope, id uuid.UUID) (int64, error)
	// DeleteScoped removes every row of model's table inside a company
	// scope and returns the number of rows removed.
	DeleteScoped(ctx context.Context, model any, scope Scope) (int64, error)
	// UpdateColumns sets columns on the rows of model's table matching conds.
	UpdateColumns(ctx context.Context, model any, values map[string]any, conds ...Cond) error
	// Transaction runs fn in a transaction carried by the returned context.
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Filter represents query filter options
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]any
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: DefaultPageSize,
		Filters:  make(map[string]any),
	}
}

// Normalize clamps paging values into their valid ranges.
func (f Filter) Normalize() Filter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	return f
}

// Offset returns the row offset of the requested page.
func (f Filter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(total) / pageSize
		if int(total)%pageSize > 0 {
			totalPages++
		}
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
