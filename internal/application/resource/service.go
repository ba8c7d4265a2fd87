package resource

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/bizsuite/backend/internal/domain/core"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/domain/shared/validation"
	"github.com/bizsuite/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgInvalidChoice = "Select a valid choice. That choice is not one of the available choices."
	msgForeignRecord = "The selected record belongs to another company."
)

type defaulter interface{ Defaults() }

type normalizer interface{ Normalize() }

// presenter fills computed fields before a record leaves the service.
type presenter interface{ Present(now time.Time) }

// Service runs the five record operations of one aggregate. Every
// operation takes the acting principal explicitly.
type Service[T any] struct {
	desc  Descriptor[T]
	store shared.Store
	now   shared.Clock
}

// New creates the service of desc. *T must embed shared.AuditedRecord.
func New[T any](desc Descriptor[T], store shared.Store, clock shared.Clock) *Service[T] {
	if _, ok := any(new(T)).(shared.Audited); !ok {
		panic(fmt.Sprintf("resource %s: %T does not embed shared.AuditedRecord", desc.Name, new(T)))
	}
	if clock == nil {
		clock = shared.SystemClock
	}
	return &Service[T]{desc: desc, store: store, now: clock}
}

// Descriptor returns the configuration of the service.
func (s *Service[T]) Descriptor() Descriptor[T] {
	return s.desc
}

func (s *Service[T]) Group() string { return s.desc.Group }
func (s *Service[T]) Name() string  { return s.desc.Name }
func (s *Service[T]) Label() string { return s.desc.Label }

// List returns one page of the records visible to p. A principal
// without a company sees no company data.
func (s *Service[T]) List(ctx context.Context, p shared.Principal, filter shared.Filter) (shared.Paginated[T], error) {
	filter = filter.Normalize()
	scope, ok := s.readScope(p)
	if !ok {
		return shared.NewPaginated[T](nil, 0, filter.Page, filter.PageSize), nil
	}
	if filter.OrderDir == "" {
		filter.OrderDir = s.desc.DefaultDir
	}
	filter.Filters = s.allowedFilters(filter.Filters)

	var items []T
	total, err := s.store.List(ctx, &items, scope, shared.Query{
		Filter:        filter,
		Sortable:      s.desc.sortable(),
		DefaultSort:   s.desc.defaultSort(),
		SearchColumns: s.desc.Search,
	})
	if err != nil {
		return shared.Paginated[T]{}, err
	}
	now := s.now()
	for i := range items {
		present(&items[i], now)
	}
	return shared.NewPaginated(items, total, filter.Page, filter.PageSize), nil
}

// ListRecords is List without the element type, for exports.
func (s *Service[T]) ListRecords(ctx context.Context, p shared.Principal, filter shared.Filter) ([]any, int64, error) {
	page, err := s.List(ctx, p, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]any, len(page.Items))
	for i := range page.Items {
		out[i] = &page.Items[i]
	}
	return out, page.Total, nil
}

// Get returns the record with id. Records of other companies are
// reported as not found.
func (s *Service[T]) Get(ctx context.Context, p shared.Principal, id uuid.UUID) (*T, error) {
	scope, ok := s.readScope(p)
	if !ok {
		return nil, shared.ErrNotFound
	}
	v := new(T)
	if err := s.store.First(ctx, v, scope, shared.Eq("id", id)); err != nil {
		return nil, err
	}
	present(v, s.now())
	return v, nil
}

// Create builds a record from defaults and input, forces its owner
// fields, validates it and stores it with an audit entry.
func (s *Service[T]) Create(ctx context.Context, p shared.Principal, input func(*T) error) (*T, error) {
	if err := s.checkWritable(p); err != nil {
		return nil, err
	}
	companyID, err := s.writeCompany(p)
	if err != nil {
		return nil, err
	}

	v := new(T)
	audited(v).InitDefaults()
	if d, ok := any(v).(defaulter); ok {
		d.Defaults()
	}
	if err := input(v); err != nil {
		return nil, err
	}

	now := s.now()
	rec := audited(v)
	rec.ID = uuid.Nil
	rec.StampCreated(p.UserID, now)
	if owned, ok := any(v).(shared.CompanyOwned); ok {
		owned.OwnerCompany().CompanyID = companyID
	}
	if a, ok := any(v).(shared.ActorStamped); ok {
		a.StampActor(p.UserID)
	}
	normalize(v)

	err = s.store.Transaction(ctx, func(ctx context.Context) error {
		if err := s.validate(ctx, p, v, companyID, true, now); err != nil {
			return err
		}
		if err := s.store.Create(ctx, v); err != nil {
			return err
		}
		if h := s.desc.Hooks.AfterCreate; h != nil {
			if err := h(ctx, s.store, p, v); err != nil {
				return err
			}
		}
		after, err := snapshot(v)
		if err != nil {
			return err
		}
		return s.writeAudit(ctx, p, core.AuditCreate, v, map[string]any{"after": after})
	})
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Debug("record created",
		zap.String("entity_type", s.desc.EntityType()),
		zap.String("entity_id", rec.ID.String()),
	)
	present(v, now)
	return v, nil
}

// Update applies input to the stored record. The id, owning company,
// creator and creation time cannot change.
func (s *Service[T]) Update(ctx context.Context, p shared.Principal, id uuid.UUID, input func(*T) error) (*T, error) {
	if err := s.checkWritable(p); err != nil {
		return nil, err
	}
	scope, ok := s.readScope(p)
	if !ok {
		return nil, shared.ErrNotFound
	}
	companyID := s.actingCompany(p)
	now := s.now()

	v := new(T)
	err := s.store.Transaction(ctx, func(ctx context.Context) error {
		if err := s.store.First(ctx, v, scope, shared.Eq("id", id)); err != nil {
			return err
		}
		prev := *v
		before, err := snapshot(v)
		if err != nil {
			return err
		}
		frozen := freeze(audited(v))
		var ownerCompany uuid.UUID
		owned, isOwned := any(v).(shared.CompanyOwned)
		if isOwned {
			ownerCompany = owned.OwnerCompany().CompanyID
		}

		if err := input(v); err != nil {
			return err
		}

		rec := audited(v)
		rec.Restore(frozen)
		if isOwned {
			owned.OwnerCompany().CompanyID = ownerCompany
		}
		if a, ok := any(v).(shared.ActorStamped); ok && frozen.CreatedBy != nil {
			a.StampActor(*frozen.CreatedBy)
		}
		rec.StampUpdated(p.UserID, now)
		normalize(v)

		if err := s.validate(ctx, p, v, companyID, false, now); err != nil {
			return err
		}
		if err := s.store.Save(ctx, v); err != nil {
			return err
		}
		if h := s.desc.Hooks.AfterUpdate; h != nil {
			if err := h(ctx, s.store, p, v, &prev); err != nil {
				return err
			}
		}
		after, err := snapshot(v)
		if err != nil {
			return err
		}
		return s.writeAudit(ctx, p, core.AuditUpdate, v, diff(before, after))
	})
	if err != nil {
		return nil, err
	}
	present(v, now)
	return v, nil
}

// Delete removes the record with id from the acting company.
func (s *Service[T]) Delete(ctx context.Context, p shared.Principal, id uuid.UUID) error {
	if err := s.checkWritable(p); err != nil {
		return err
	}
	scope, ok := s.readScope(p)
	if !ok {
		return shared.ErrNotFound
	}

	return s.store.Transaction(ctx, func(ctx context.Context) error {
		v := new(T)
		if err := s.store.First(ctx, v, scope, shared.Eq("id", id)); err != nil {
			return err
		}
		before, err := snapshot(v)
		if err != nil {
			return err
		}
		n, err := s.store.Delete(ctx, v, scope, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return shared.ErrNotFound
		}
		if h := s.desc.Hooks.AfterDelete; h != nil {
			if err := h(ctx, s.store, p, v); err != nil {
				return err
			}
		}
		return s.writeAudit(ctx, p, core.AuditDelete, v, map[string]any{"before": before})
	})
}

func (s *Service[T]) checkWritable(p shared.Principal) error {
	if s.desc.ReadOnly {
		return shared.ErrForbidden
	}
	if s.desc.Scope == ScopeGlobal && !p.IsStaff {
		return shared.ErrForbidden
	}
	return nil
}

// writeCompany returns the company a new record belongs to.
func (s *Service[T]) writeCompany(p shared.Principal) (uuid.UUID, error) {
	if s.desc.Scope != ScopeCompany {
		return uuid.Nil, nil
	}
	return p.RequireCompany()
}

func (s *Service[T]) actingCompany(p shared.Principal) uuid.UUID {
	if s.desc.Scope == ScopeGlobal || !p.HasCompany() {
		return uuid.Nil
	}
	return *p.CompanyID
}

func (s *Service[T]) readScope(p shared.Principal) (shared.Scope, bool) {
	switch s.desc.Scope {
	case ScopeGlobal:
		return shared.Scope{}, true
	case ScopeCompanyRoot:
		if !p.HasCompany() {
			return shared.Scope{}, false
		}
		return shared.RootScope(*p.CompanyID), true
	}
	if !p.HasCompany() {
		return shared.Scope{}, false
	}
	return shared.CompanyScope(*p.CompanyID), true
}

func (s *Service[T]) allowedFilters(filters map[string]any) map[string]any {
	out := make(map[string]any, len(filters))
	for k, v := range filters {
		if slices.Contains(s.desc.Filterable, k) {
			out[k] = v
		}
	}
	return out
}

// validate checks references first so a foreign id is reported as a
// boundary violation before any rule reads the referenced record.
func (s *Service[T]) validate(ctx context.Context, p shared.Principal, v *T, companyID uuid.UUID, creating bool, now time.Time) error {
	if err := s.checkReferences(ctx, v, companyID); err != nil {
		return err
	}
	var id uuid.UUID
	if !creating {
		id = audited(v).ID
	}
	env := &validation.Env{
		Ctx:       ctx,
		Store:     s.store,
		CompanyID: companyID,
		UserID:    p.UserID,
		Now:       now,
		Creating:  creating,
		ID:        id,
	}
	return s.desc.Rules.Validate(v, env)
}

func (s *Service[T]) checkReferences(ctx context.Context, v *T, companyID uuid.UUID) error {
	r, ok := any(v).(shared.Referencing)
	if !ok {
		return nil
	}
	errs := shared.NewValidationError(shared.CodeValidation)
	for _, ref := range r.References() {
		if !ref.Set() {
			continue
		}
		if ref.Global {
			found, err := s.refExists(ctx, ref, shared.Scope{})
			if err != nil {
				return err
			}
			if !found {
				errs.Field(ref.Field, msgInvalidChoice)
			}
			continue
		}

		if companyID != uuid.Nil {
			found, err := s.refExists(ctx, ref, shared.CompanyScope(companyID))
			if err != nil {
				return err
			}
			if found {
				continue
			}
		}
		elsewhere, err := s.refExists(ctx, ref, shared.Scope{})
		if err != nil {
			return err
		}
		if elsewhere {
			errs.Field(ref.Field, msgForeignRecord)
			errs.Escalate(shared.CodeTenantBoundary)
		} else {
			errs.Field(ref.Field, msgInvalidChoice)
		}
	}
	return errs.OrNil()
}

func (s *Service[T]) refExists(ctx context.Context, ref shared.Reference, scope shared.Scope) (bool, error) {
	if ref.Table != "" {
		return s.store.TableExists(ctx, ref.Table, scope, *ref.ID)
	}
	return s.store.Exists(ctx, ref.Model, scope, shared.Eq("id", *ref.ID))
}

func (s *Service[T]) writeAudit(ctx context.Context, p shared.Principal, action core.AuditAction, v *T, changes map[string]any) error {
	entry := auditEntry(p, action, s.desc.EntityType(), audited(v).ID, s.auditCompany(v), changes, s.now())
	return s.store.Create(ctx, entry)
}

func (s *Service[T]) auditCompany(v *T) *uuid.UUID {
	if owned, ok := any(v).(shared.CompanyOwned); ok {
		id := owned.OwnerCompany().CompanyID
		return &id
	}
	if s.desc.Scope == ScopeCompanyRoot {
		id := audited(v).ID
		return &id
	}
	return nil
}

func audited[T any](v *T) *shared.AuditedRecord {
	return any(v).(shared.Audited).Audit()
}

func normalize[T any](v *T) {
	if n, ok := any(v).(normalizer); ok {
		n.Normalize()
	}
}

func present[T any](v *T, now time.Time) {
	if p, ok := any(v).(presenter); ok {
		p.Present(now)
	}
}

// freeze copies the immutable audit fields, detaching CreatedBy from
// the record so decoding client input cannot alter the copy.
func freeze(rec *shared.AuditedRecord) shared.AuditedRecord {
	frozen := shared.AuditedRecord{ID: rec.ID, CreatedAt: rec.CreatedAt}
	if rec.CreatedBy != nil {
		by := *rec.CreatedBy
		frozen.CreatedBy = &by
	}
	return frozen
}
