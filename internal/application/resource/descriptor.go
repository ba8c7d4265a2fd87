// Package resource implements the list, detail, create, update and
// delete operations shared by every aggregate. Each aggregate supplies a
// Descriptor naming its scope, rule table and hooks.
package resource

import (
	"context"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/domain/shared/validation"
)

// ScopeKind selects how a resource is restricted to the acting company.
type ScopeKind int

const (
	// ScopeCompany filters on company_id. Writes require a company.
	ScopeCompany ScopeKind = iota
	// ScopeCompanyRoot filters the company table on its own id. Creating
	// a company needs no current company.
	ScopeCompanyRoot
	// ScopeGlobal is platform data visible to everyone. Writes require
	// a staff principal.
	ScopeGlobal
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeCompanyRoot:
		return "company_root"
	case ScopeGlobal:
		return "global"
	}
	return "company"
}

// Hooks run inside the write transaction after the record was stored.
// The store passed to a hook joins that transaction through ctx.
type Hooks[T any] struct {
	AfterCreate func(ctx context.Context, store shared.Store, p shared.Principal, v *T) error
	// AfterUpdate receives a shallow copy of the record taken before the
	// client values were applied. Compare scalar fields only.
	AfterUpdate func(ctx context.Context, store shared.Store, p shared.Principal, v, prev *T) error
	// AfterDelete receives the record as it was before removal.
	AfterDelete func(ctx context.Context, store shared.Store, p shared.Principal, v *T) error
}

// Descriptor configures the generic service of one aggregate.
type Descriptor[T any] struct {
	// Group and Name form the route /<group>/<name> and the audit entity
	// type <group>.<name>.
	Group string
	Name  string
	// Label names one record in acknowledgements ("Order created
	// successfully.").
	Label    string
	Scope    ScopeKind
	ReadOnly bool
	Rules    validation.Rules[T]
	Hooks    Hooks[T]

	Sortable    []string
	DefaultSort string
	// DefaultDir applies when the request names no direction.
	DefaultDir string
	Search     []string
	// Filterable lists columns accepted as equality filters.
	Filterable []string
}

// EntityType is the audit entity type of the resource.
func (d Descriptor[T]) EntityType() string {
	return d.Group + "." + d.Name
}

func (d Descriptor[T]) sortable() []string {
	cols := append([]string{"created_at", "updated_at"}, d.Sortable...)
	if d.DefaultSort != "" {
		cols = append(cols, d.DefaultSort)
	}
	return cols
}

func (d Descriptor[T]) defaultSort() string {
	if d.DefaultSort == "" {
		return "created_at"
	}
	return d.DefaultSort
}
