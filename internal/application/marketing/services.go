// Package marketing wires campaigns, automations, content, leads and
// marketing metrics into resource services.
package marketing

import (
	"github.com/bizsuite/backend/internal/application/resource"
	"github.com/bizsuite/backend/internal/domain/marketing"
	"github.com/bizsuite/backend/internal/domain/shared"
)

const Group = "marketing"

// Services holds the resource services of the marketing group.
type Services struct {
	Campaigns      *resource.Service[marketing.Campaign]
	EmailCampaigns *resource.Service[marketing.EmailCampaign]
	Automations    *resource.Service[marketing.Automation]
	Content        *resource.Service[marketing.ContentItem]
	Leads          *resource.Service[marketing.Lead]
	Metrics        *resource.Service[marketing.Metric]
}

// NewServices builds the marketing services on store.
func NewServices(store shared.Store, clock shared.Clock) *Services {
	return &Services{
		Campaigns: resource.New(resource.Descriptor[marketing.Campaign]{
			Group:       Group,
			Name:        "campaigns",
			Label:       "Marketing campaign",
			Rules:       marketing.CampaignRules,
			Sortable:    []string{"name", "start_date", "end_date", "status", "budget"},
			DefaultSort: "start_date",
			Search:      []string{"name", "description"},
			Filterable:  []string{"campaign_type", "status"},
		}, store, clock),
		EmailCampaigns: resource.New(resource.Descriptor[marketing.EmailCampaign]{
			Group:      Group,
			Name:       "email-campaigns",
			Label:      "Email campaign",
			Rules:      marketing.EmailCampaignRules,
			Sortable:   []string{"subject", "scheduled_time", "sent_time", "status"},
			Search:     []string{"subject", "sender_name", "sender_email"},
			Filterable: []string{"campaign_id", "status"},
		}, store, clock),
		Automations: resource.New(resource.Descriptor[marketing.Automation]{
			Group:      Group,
			Name:       "automations",
			Label:      "Marketing automation",
			Rules:      marketing.AutomationRules,
			Sortable:   []string{"name", "total_executions", "last_execution"},
			Search:     []string{"name", "description"},
			Filterable: []string{"trigger_type", "is_active"},
		}, store, clock),
		Content: resource.New(resource.Descriptor[marketing.ContentItem]{
			Group:      Group,
			Name:       "content",
			Label:      "Content item",
			Rules:      marketing.ContentItemRules,
			Sortable:   []string{"title", "publish_date", "status"},
			Search:     []string{"title", "meta_description"},
			Filterable: []string{"content_type", "status", "author_id"},
		}, store, clock),
		Leads: resource.New(resource.Descriptor[marketing.Lead]{
			Group:      Group,
			Name:       "leads",
			Label:      "Lead",
			Rules:      marketing.LeadRules,
			Sortable:   []string{"score", "status", "last_contact_date"},
			Search:     []string{"source", "notes"},
			Filterable: []string{"status", "campaign_id", "assigned_to_id", "customer_id", "source"},
		}, store, clock),
		Metrics: resource.New(resource.Descriptor[marketing.Metric]{
			Group:       Group,
			Name:        "metrics",
			Label:       "Marketing metric",
			Rules:       marketing.MetricRules,
			Sortable:    []string{"period_start", "period_end", "metrics_type"},
			DefaultSort: "period_start",
			Search:      []string{"source"},
			Filterable:  []string{"metrics_type", "is_processed"},
		}, store, clock),
	}
}

// Register adds every marketing service to reg.
func (s *Services) Register(reg *resource.Registry) {
	reg.Add(s.Campaigns)
	reg.Add(s.EmailCampaigns)
	reg.Add(s.Automations)
	reg.Add(s.Content)
	reg.Add(s.Leads)
	reg.Add(s.Metrics)
}
