// Package core wires the platform reference data and the audit trail
// into resource services.
package core

import (
	"context"

	"github.com/bizsuite/backend/internal/application/resource"
	"github.com/bizsuite/backend/internal/domain/core"
	"github.com/bizsuite/backend/internal/domain/shared"
)

const Group = "core"

// Services holds the resource services of the core group.
type Services struct {
	Configurations *resource.Service[core.SystemConfiguration]
	Languages      *resource.Service[core.Language]
	Currencies     *resource.Service[core.Currency]
	Countries      *resource.Service[core.Country]
	Plans          *resource.Service[core.Plan]
	Modules        *resource.Service[core.Module]
	AuditLogs      *resource.Service[core.AuditLog]
}

// NewServices builds the core services on store.
func NewServices(store shared.Store, clock shared.Clock) *Services {
	return &Services{
		Configurations: resource.New(resource.Descriptor[core.SystemConfiguration]{
			Group:       Group,
			Name:        "system-configurations",
			Label:       "System configuration",
			Scope:       resource.ScopeGlobal,
			Rules:       core.SystemConfigurationRules,
			Sortable:    []string{"key", "category"},
			DefaultSort: "key",
			DefaultDir:  "asc",
			Search:      []string{"key", "description"},
			Filterable:  []string{"category", "is_public", "value_type"},
		}, store, clock),
		Languages: resource.New(resource.Descriptor[core.Language]{
			Group: Group,
			Name:  "languages",
			Label: "Language",
			Scope: resource.ScopeGlobal,
			Rules: core.LanguageRules,
			Hooks: resource.Hooks[core.Language]{
				AfterCreate: clearOtherDefaults,
				AfterUpdate: clearOtherDefaultsOnUpdate,
			},
			Sortable:    []string{"code", "name"},
			DefaultSort: "name",
			DefaultDir:  "asc",
			Search:      []string{"code", "name", "native_name"},
			Filterable:  []string{"is_default", "is_active"},
		}, store, clock),
		Currencies: resource.New(resource.Descriptor[core.Currency]{
			Group:       Group,
			Name:        "currencies",
			Label:       "Currency",
			Scope:       resource.ScopeGlobal,
			Rules:       core.CurrencyRules,
			Sortable:    []string{"code", "name"},
			DefaultSort: "code",
			DefaultDir:  "asc",
			Search:      []string{"code", "name"},
			Filterable:  []string{"is_default", "is_active"},
		}, store, clock),
		Countries: resource.New(resource.Descriptor[core.Country]{
			Group:       Group,
			Name:        "countries",
			Label:       "Country",
			Scope:       resource.ScopeGlobal,
			Rules:       core.CountryRules,
			Sortable:    []string{"code", "name"},
			DefaultSort: "name",
			DefaultDir:  "asc",
			Search:      []string{"code", "name"},
			Filterable:  []string{"is_supported", "currency_id"},
		}, store, clock),
		Plans: resource.New(resource.Descriptor[core.Plan]{
			Group:       Group,
			Name:        "plans",
			Label:       "Plan",
			Scope:       resource.ScopeGlobal,
			Rules:       core.PlanRules,
			Sortable:    []string{"name", "price", "sort_order"},
			DefaultSort: "sort_order",
			DefaultDir:  "asc",
			Search:      []string{"name", "description"},
			Filterable:  []string{"billing_period", "is_public"},
		}, store, clock),
		Modules: resource.New(resource.Descriptor[core.Module]{
			Group:       Group,
			Name:        "modules",
			Label:       "Module",
			Scope:       resource.ScopeGlobal,
			Rules:       core.ModuleRules,
			Sortable:    []string{"code", "name"},
			DefaultSort: "name",
			DefaultDir:  "asc",
			Search:      []string{"code", "name", "description"},
			Filterable:  []string{"type", "is_required"},
		}, store, clock),
		AuditLogs: resource.New(resource.Descriptor[core.AuditLog]{
			Group:      Group,
			Name:       "audit-logs",
			Label:      "Audit log",
			Scope:      resource.ScopeCompany,
			ReadOnly:   true,
			Sortable:   []string{"entity_type", "action"},
			Search:     []string{"entity_type"},
			Filterable: []string{"action", "entity_type", "entity_id", "user_id"},
		}, store, clock),
	}
}

// Register adds every core service to reg.
func (s *Services) Register(reg *resource.Registry) {
	reg.Add(s.Configurations)
	reg.Add(s.Languages)
	reg.Add(s.Currencies)
	reg.Add(s.Countries)
	reg.Add(s.Plans)
	reg.Add(s.Modules)
	reg.Add(s.AuditLogs)
}

// clearOtherDefaults keeps a single default language.
func clearOtherDefaults(ctx context.Context, store shared.Store, _ shared.Principal, l *core.Language) error {
	if !l.IsDefault {
		return nil
	}
	return store.UpdateColumns(ctx, &core.Language{},
		map[string]any{"is_default": false},
		shared.Eq("is_default", true), shared.Ne("id", l.ID),
	)
}

func clearOtherDefaultsOnUpdate(ctx context.Context, store shared.Store, p shared.Principal, l, _ *core.Language) error {
	return clearOtherDefaults(ctx, store, p, l)
}
