// Package storetest provides an in-memory shared.Store for rule tests.
package storetest

import (
	"context"
	"fmt"
	"reflect"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Store serves First by id from Records and answers Exists with Taken.
type Store struct {
	Records map[uuid.UUID]any
	Taken   bool
	// Calls counts Exists lookups.
	Calls int
}

var _ shared.Store = (*Store)(nil)

// New returns a Store holding records, which must be pointers to
// aggregates embedding shared.AuditedRecord.
func New(records ...shared.Audited) *Store {
	s := &Store{Records: map[uuid.UUID]any{}}
	for _, r := range records {
		s.Records[r.Audit().ID] = r
	}
	return s
}

func idOf(conds []shared.Cond) (uuid.UUID, bool) {
	for _, c := range conds {
		if c.Expr == "id = ?" && len(c.Args) == 1 {
			id, ok := c.Args[0].(uuid.UUID)
			return id, ok
		}
	}
	return uuid.Nil, false
}

func (s *Store) First(_ context.Context, dest any, _ shared.Scope, conds ...shared.Cond) error {
	id, ok := idOf(conds)
	if !ok {
		return shared.ErrNotFound
	}
	rec, ok := s.Records[id]
	if !ok {
		return shared.ErrNotFound
	}
	dv := reflect.ValueOf(dest)
	rv := reflect.ValueOf(rec)
	if dv.Type() != rv.Type() {
		return shared.ErrNotFound
	}
	dv.Elem().Set(rv.Elem())
	return nil
}

func (s *Store) Exists(_ context.Context, _ any, _ shared.Scope, _ ...shared.Cond) (bool, error) {
	s.Calls++
	return s.Taken, nil
}

func (s *Store) Find(context.Context, any, shared.Scope, string, ...shared.Cond) error {
	return fmt.Errorf("storetest: Find not supported")
}

func (s *Store) List(context.Context, any, shared.Scope, shared.Query) (int64, error) {
	return 0, fmt.Errorf("storetest: List not supported")
}

func (s *Store) Save(ctx context.Context, value any) error {
	return s.Create(ctx, value)
}

func (s *Store) Delete(_ context.Context, _ any, _ shared.Scope, id uuid.UUID) (int64, error) {
	if _, ok := s.Records[id]; !ok {
		return 0, nil
	}
	delete(s.Records, id)
	return 1, nil
}

func (s *Store) DeleteScoped(context.Context, any, shared.Scope) (int64, error) {
	return 0, fmt.Errorf("storetest: DeleteScoped not supported")
}

func (s *Store) Create(_ context.Context, value any) error {
	if a, ok := value.(shared.Audited); ok {
		s.Records[a.Audit().ID] = value
	}
	return nil
}

func (s *Store) UpdateColumns(context.Context, any, map[string]any, ...shared.Cond) error {
	return nil
}

func (s *Store) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *Store) TableExists(_ context.Context, _ string, _ shared.Scope, id uuid.UUID) (bool, error) {
	_, ok := s.Records[id]
	return ok, nil
}
