// Package company wires the tenant root and its membership records into
// resource services, with the hooks that keep owner membership and the
// status history in step with the company.
package company

import (
	"context"

	"github.com/bizsuite/backend/internal/application/resource"
	"github.com/bizsuite/backend/internal/domain/company"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const Group = "company"

// Services holds the resource services of the company group.
type Services struct {
	Companies     *resource.Service[company.Company]
	StatusHistory *resource.Service[company.StatusHistory]
	Subscriptions *resource.Service[company.Subscription]
	Users         *resource.Service[company.CompanyUser]
	Modules       *resource.Service[company.CompanyModule]

	hooks *hooks
}

// MembershipListener is told when a membership is added, changes or
// goes away.
type MembershipListener func(ctx context.Context, userID, companyID uuid.UUID) error

// OnMembershipChange registers fn to run after a company user is
// created, updated or deleted.
func (s *Services) OnMembershipChange(fn MembershipListener) {
	s.hooks.membershipChanged = fn
}

// CascadeDeletes adds company-owned models whose rows are removed with
// their company. The company group's own tables are always removed.
func (s *Services) CascadeDeletes(models ...any) {
	s.hooks.cascade = append(s.hooks.cascade, models...)
}

// NewServices builds the company services on store.
func NewServices(store shared.Store, clock shared.Clock) *Services {
	h := &hooks{now: clock, cascade: []any{
		&company.StatusHistory{},
		&company.Subscription{},
		&company.CompanyModule{},
	}}
	if h.now == nil {
		h.now = shared.SystemClock
	}
	s := &Services{
		Companies: resource.New(resource.Descriptor[company.Company]{
			Group: Group,
			Name:  "companies",
			Label: "Company",
			Scope: resource.ScopeCompanyRoot,
			Rules: company.CompanyRules,
			Hooks: resource.Hooks[company.Company]{
				AfterCreate: h.companyCreated,
				AfterUpdate: h.companyUpdated,
				AfterDelete: h.companyDeleted,
			},
			Sortable:    []string{"business_name", "trading_name", "account_status"},
			DefaultSort: "business_name",
			DefaultDir:  "asc",
			Search:      []string{"business_name", "trading_name", "tax_id"},
			Filterable:  []string{"account_status", "verification_status", "is_verified"},
		}, store, clock),
		StatusHistory: resource.New(resource.Descriptor[company.StatusHistory]{
			Group:      Group,
			Name:       "status-history",
			Label:      "Company status history",
			Scope:      resource.ScopeCompany,
			ReadOnly:   true,
			Rules:      company.StatusHistoryRules,
			Sortable:   []string{"status"},
			Search:     []string{"reason"},
			Filterable: []string{"status"},
		}, store, clock),
		Subscriptions: resource.New(resource.Descriptor[company.Subscription]{
			Group:       Group,
			Name:        "subscriptions",
			Label:       "Subscription",
			Scope:       resource.ScopeCompany,
			Rules:       company.SubscriptionRules,
			Sortable:    []string{"start_date", "end_date", "status", "current_price"},
			DefaultSort: "start_date",
			Filterable:  []string{"status", "plan_id", "billing_cycle", "auto_renew"},
		}, store, clock),
		Users: resource.New(resource.Descriptor[company.CompanyUser]{
			Group: Group,
			Name:  "users",
			Label: "Company user",
			Scope: resource.ScopeCompany,
			Rules: company.CompanyUserRules,
			Hooks: resource.Hooks[company.CompanyUser]{
				AfterCreate: h.memberCreated,
				AfterUpdate: h.memberUpdated,
				AfterDelete: h.memberDeleted,
			},
			Sortable:   []string{"job_title", "department", "access_level", "status"},
			Search:     []string{"job_title", "department"},
			Filterable: []string{"status", "access_level", "user_id"},
		}, store, clock),
		Modules: resource.New(resource.Descriptor[company.CompanyModule]{
			Group:      Group,
			Name:       "modules",
			Label:      "Company module",
			Scope:      resource.ScopeCompany,
			Rules:      company.CompanyModuleRules,
			Sortable:   []string{"status", "activation_date", "last_used"},
			Filterable: []string{"status", "module_id"},
		}, store, clock),
	}
	s.hooks = h
	return s
}

// Register adds every company service to reg.
func (s *Services) Register(reg *resource.Registry) {
	reg.Add(s.Companies)
	reg.Add(s.StatusHistory)
	reg.Add(s.Subscriptions)
	reg.Add(s.Users)
	reg.Add(s.Modules)
}

type hooks struct {
	now               shared.Clock
	membershipChanged MembershipListener
	cascade           []any
}

func (h *hooks) memberCreated(ctx context.Context, _ shared.Store, _ shared.Principal, m *company.CompanyUser) error {
	return h.notifyMember(ctx, m)
}

func (h *hooks) memberUpdated(ctx context.Context, _ shared.Store, _ shared.Principal, m, prev *company.CompanyUser) error {
	if err := h.notifyMember(ctx, prev); err != nil {
		return err
	}
	if m.UserID == prev.UserID {
		return nil
	}
	return h.notifyMember(ctx, m)
}

func (h *hooks) memberDeleted(ctx context.Context, _ shared.Store, _ shared.Principal, m *company.CompanyUser) error {
	return h.notifyMember(ctx, m)
}

func (h *hooks) notifyMember(ctx context.Context, m *company.CompanyUser) error {
	if h.membershipChanged == nil {
		return nil
	}
	return h.membershipChanged(ctx, m.UserID, m.CompanyID)
}

// companyCreated makes the creator an active administrator of the new
// company and opens its status history.
func (h *hooks) companyCreated(ctx context.Context, store shared.Store, p shared.Principal, c *company.Company) error {
	if p.UserID != uuid.Nil {
		owner := &company.CompanyUser{}
		owner.Defaults()
		owner.CompanyID = c.ID
		owner.UserID = p.UserID
		owner.Status = company.MemberActive
		owner.AccessLevel = company.AccessAdmin
		owner.StampCreated(p.UserID, h.now())
		if err := store.Create(ctx, owner); err != nil {
			return err
		}
		if err := h.notifyMember(ctx, owner); err != nil {
			return err
		}
	}
	return h.recordStatus(ctx, store, p, c, "Company created.")
}

// companyDeleted removes the memberships and every company-owned row of
// the deleted company. Former members are notified so no cached
// membership outlives the company.
func (h *hooks) companyDeleted(ctx context.Context, store shared.Store, _ shared.Principal, c *company.Company) error {
	scope := shared.CompanyScope(c.ID)
	var members []company.CompanyUser
	if err := store.Find(ctx, &members, scope, ""); err != nil {
		return err
	}
	if _, err := store.DeleteScoped(ctx, &company.CompanyUser{}, scope); err != nil {
		return err
	}
	for i := range members {
		if err := h.notifyMember(ctx, &members[i]); err != nil {
			return err
		}
	}
	for _, model := range h.cascade {
		if _, err := store.DeleteScoped(ctx, model, scope); err != nil {
			return err
		}
	}
	return nil
}

func (h *hooks) companyUpdated(ctx context.Context, store shared.Store, p shared.Principal, c, prev *company.Company) error {
	if c.AccountStatus == prev.AccountStatus {
		return nil
	}
	return h.recordStatus(ctx, store, p, c, "Account status changed from "+string(prev.AccountStatus)+" to "+string(c.AccountStatus)+".")
}

func (h *hooks) recordStatus(ctx context.Context, store shared.Store, p shared.Principal, c *company.Company, reason string) error {
	entry := &company.StatusHistory{}
	entry.Defaults()
	entry.CompanyID = c.ID
	entry.Status = company.StatusHistoryStatus(c.AccountStatus)
	entry.Reason = reason
	entry.StampCreated(p.UserID, h.now())
	if p.UserID != uuid.Nil {
		entry.StampActor(p.UserID)
	}
	return store.Create(ctx, entry)
}
