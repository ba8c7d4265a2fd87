// Package validation evaluates the rule table of an aggregate: struct
// tags, field rules, cross-field rules, then rules reading persisted
// siblings and uniqueness constraints.
package validation

import (
	"context"
	"time"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Env is the read-only context a rule table is evaluated in.
type Env struct {
	Ctx       context.Context
	Store     shared.Store
	CompanyID uuid.UUID
	UserID    uuid.UUID
	Now       time.Time
	Creating  bool
	// ID is the id of the record under validation, excluded from
	// uniqueness lookups.
	ID uuid.UUID
}

// Scope returns the company scope of the acting company, or a global
// scope when there is none.
func (e *Env) Scope() shared.Scope {
	if e.CompanyID == uuid.Nil {
		return shared.Scope{}
	}
	return shared.CompanyScope(e.CompanyID)
}

// Unique declares a uniqueness constraint checked before any write.
type Unique[T any] struct {
	// Field receives the violation; empty reports it at form level.
	Field   string
	Columns []string
	// Values returns the column values of v, or nil to skip the check.
	Values     func(v *T) []any
	PerCompany bool
	Message    string
}

// Rules is the rule table of one aggregate type.
type Rules[T any] struct {
	Fields func(v *T, env *Env, errs *shared.ValidationError)
	Cross  func(v *T, env *Env, errs *shared.ValidationError)
	// Stored runs only when the record passed every other rule.
	Stored func(v *T, env *Env, errs *shared.ValidationError) error
	Unique []Unique[T]
}

// Validate evaluates the table against v. It returns a
// *shared.ValidationError when a rule fails and a plain error when a
// lookup fails.
func (r Rules[T]) Validate(v *T, env *Env) error {
	errs := shared.NewValidationError(shared.CodeValidation)

	Struct(v, errs)
	if r.Fields != nil {
		r.Fields(v, env, errs)
	}
	if r.Cross != nil {
		r.Cross(v, env, errs)
	}
	if !errs.Empty() {
		return errs
	}

	if r.Stored != nil {
		if err := r.Stored(v, env, errs); err != nil {
			return err
		}
	}
	for _, u := range r.Unique {
		if err := u.check(v, env, errs); err != nil {
			return err
		}
	}
	return errs.OrNil()
}

func (u Unique[T]) check(v *T, env *Env, errs *shared.ValidationError) error {
	values := u.Values(v)
	if values == nil || env.Store == nil {
		return nil
	}
	conds := make([]shared.Cond, 0, len(u.Columns)+1)
	for i, col := range u.Columns {
		conds = append(conds, shared.Eq(col, values[i]))
	}
	if env.ID != uuid.Nil {
		conds = append(conds, shared.Ne("id", env.ID))
	}

	scope := shared.Scope{}
	if u.PerCompany {
		scope = env.Scope()
	}

	exists, err := env.Store.Exists(env.Ctx, v, scope, conds...)
	if err != nil {
		return err
	}
	if exists {
		errs.Field(u.Field, u.Message)
		errs.Escalate(shared.CodeAlreadyExists)
	}
	return nil
}
