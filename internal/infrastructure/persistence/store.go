package persistence

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/infrastructure/persistence/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txKey struct{}

// GormStore implements shared.Store on GORM. A transaction opened by
// Transaction travels in the context, so every call made with that
// context joins it.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a store on db.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return s.db.WithContext(ctx)
}

// First loads the first matching row into dest.
func (s *GormStore) First(ctx context.Context, dest any, scope shared.Scope, conds ...shared.Cond) error {
	err := s.conn(ctx).
		Scopes(tenant.Scope(scope), tenant.Where(conds...)).
		Take(dest).Error
	return TranslateError(err)
}

// Exists reports whether model's table holds a matching row. model may
// carry a primary key; only its type is used.
func (s *GormStore) Exists(ctx context.Context, model any, scope shared.Scope, conds ...shared.Cond) (bool, error) {
	var count int64
	err := s.conn(ctx).
		Model(zeroOf(model)).
		Scopes(tenant.Scope(scope), tenant.Where(conds...)).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, TranslateError(err)
	}
	return count > 0, nil
}

// Find loads every matching row into dest.
func (s *GormStore) Find(ctx context.Context, dest any, scope shared.Scope, order string, conds ...shared.Cond) error {
	db := s.conn(ctx).Scopes(tenant.Scope(scope), tenant.Where(conds...))
	if order != "" {
		db = db.Order(order)
	}
	return TranslateError(db.Find(dest).Error)
}

// List loads one page into dest and returns the total count.
func (s *GormStore) List(ctx context.Context, dest any, scope shared.Scope, q shared.Query) (int64, error) {
	filter := q.Filter.Normalize()
	model, err := elemModel(dest)
	if err != nil {
		return 0, err
	}

	base := s.conn(ctx).Model(model).Scopes(
		tenant.Scope(scope),
		tenant.Where(q.Conds...),
		tenant.Equal(filter.Filters),
		tenant.Search(filter.Search, q.SearchColumns),
	)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, TranslateError(err)
	}

	page := base.Session(&gorm.Session{}).
		Clauses(orderClause(filter.OrderBy, filter.OrderDir, q.Sortable, q.DefaultSort))
	err = page.Offset(filter.Offset()).Limit(filter.PageSize).Find(dest).Error
	return total, TranslateError(err)
}

// Create inserts value.
func (s *GormStore) Create(ctx context.Context, value any) error {
	return TranslateError(s.conn(ctx).Create(value).Error)
}

// Save writes every column of value.
func (s *GormStore) Save(ctx context.Context, value any) error {
	return TranslateError(s.conn(ctx).Save(value).Error)
}

// Delete removes the row with id inside scope.
func (s *GormStore) Delete(ctx context.Context, model any, scope shared.Scope, id uuid.UUID) (int64, error) {
	res := s.conn(ctx).
		Scopes(tenant.Scope(scope), tenant.Where(shared.Eq("id", id))).
		Delete(zeroOf(model))
	if res.Error != nil {
		return 0, TranslateError(res.Error)
	}
	return res.RowsAffected, nil
}

// DeleteScoped removes every row of model's table inside scope. A
// global scope is refused.
func (s *GormStore) DeleteScoped(ctx context.Context, model any, scope shared.Scope) (int64, error) {
	if scope.IsGlobal() {
		return 0, errors.New("delete without a company scope")
	}
	res := s.conn(ctx).
		Scopes(tenant.Scope(scope)).
		Delete(zeroOf(model))
	if res.Error != nil {
		return 0, TranslateError(res.Error)
	}
	return res.RowsAffected, nil
}

// UpdateColumns sets values on the rows matching conds.
func (s *GormStore) UpdateColumns(ctx context.Context, model any, values map[string]any, conds ...shared.Cond) error {
	if len(conds) == 0 {
		return errors.New("update without conditions")
	}
	err := s.conn(ctx).
		Model(zeroOf(model)).
		Scopes(tenant.Where(conds...)).
		Updates(values).Error
	return TranslateError(err)
}

// Transaction runs fn in a transaction. Nested calls join the
// transaction already carried by ctx.
func (s *GormStore) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// TableExists reports whether a row with id exists in the named table
// inside scope. It serves references declared by table name.
func (s *GormStore) TableExists(ctx context.Context, table string, scope shared.Scope, id uuid.UUID) (bool, error) {
	var count int64
	err := s.conn(ctx).
		Table(table).
		Scopes(tenant.Scope(scope), tenant.Where(shared.Eq("id", id))).
		Count(&count).Error
	if err != nil {
		return false, TranslateError(err)
	}
	return count > 0, nil
}

// zeroOf returns a pointer to a zero value of model's type so GORM does
// not add model's primary key to the query.
func zeroOf(model any) any {
	t := reflect.TypeOf(model)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return reflect.New(t).Interface()
}

func elemModel(dest any) (any, error) {
	t := reflect.TypeOf(dest)
	if t == nil || t.Kind() != reflect.Ptr || t.Elem().Kind() != reflect.Slice {
		return nil, fmt.Errorf("list destination must be a pointer to a slice, got %T", dest)
	}
	elem := t.Elem().Elem()
	for elem.Kind() == reflect.Ptr {
		elem = elem.Elem()
	}
	return reflect.New(elem).Interface(), nil
}

var _ shared.Store = (*GormStore)(nil)
