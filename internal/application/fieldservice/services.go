// Package fieldservice wires services, appointments, quotes,
// deliverables and reviews into resource services.
package fieldservice

import (
	"github.com/bizsuite/backend/internal/application/resource"
	"github.com/bizsuite/backend/internal/domain/fieldservice"
	"github.com/bizsuite/backend/internal/domain/shared"
)

const Group = "fieldservice"

// Services holds the resource services of the fieldservice group.
type Services struct {
	Services     *resource.Service[fieldservice.Service]
	Appointments *resource.Service[fieldservice.Appointment]
	Quotes       *resource.Service[fieldservice.Quote]
	Deliverables *resource.Service[fieldservice.Deliverable]
	Reviews      *resource.Service[fieldservice.Review]
}

// NewServices builds the fieldservice services on store.
func NewServices(store shared.Store, clock shared.Clock) *Services {
	return &Services{
		Services: resource.New(resource.Descriptor[fieldservice.Service]{
			Group:       Group,
			Name:        "services",
			Label:       "Service",
			Rules:       fieldservice.ServiceRules,
			Sortable:    []string{"name", "base_price", "duration_minutes"},
			DefaultSort: "name",
			DefaultDir:  "asc",
			Search:      []string{"name", "description"},
			Filterable:  []string{"requires_quote", "is_active"},
		}, store, clock),
		Appointments: resource.New(resource.Descriptor[fieldservice.Appointment]{
			Group:       Group,
			Name:        "appointments",
			Label:       "Service appointment",
			Rules:       fieldservice.AppointmentRules,
			Sortable:    []string{"scheduled_start", "scheduled_end", "status"},
			DefaultSort: "scheduled_start",
			Search:      []string{"notes"},
			Filterable:  []string{"service_id", "customer_id", "status"},
		}, store, clock),
		Quotes: resource.New(resource.Descriptor[fieldservice.Quote]{
			Group:      Group,
			Name:       "quotes",
			Label:      "Service quote",
			Rules:      fieldservice.QuoteRules,
			Sortable:   []string{"valid_until", "estimated_cost", "status"},
			Search:     []string{"requirements", "notes"},
			Filterable: []string{"service_id", "customer_id", "status"},
		}, store, clock),
		Deliverables: resource.New(resource.Descriptor[fieldservice.Deliverable]{
			Group:       Group,
			Name:        "deliverables",
			Label:       "Service deliverable",
			Rules:       fieldservice.DeliverableRules,
			Sortable:    []string{"name", "due_date", "status"},
			DefaultSort: "due_date",
			DefaultDir:  "asc",
			Search:      []string{"name", "description"},
			Filterable:  []string{"appointment_id", "status", "verification_required"},
		}, store, clock),
		Reviews: resource.New(resource.Descriptor[fieldservice.Review]{
			Group:      Group,
			Name:       "reviews",
			Label:      "Service review",
			Rules:      fieldservice.ReviewRules,
			Sortable:   []string{"rating", "response_date"},
			Search:     []string{"review_text"},
			Filterable: []string{"appointment_id", "customer_id", "rating", "is_public"},
		}, store, clock),
	}
}

// Register adds every fieldservice service to reg.
func (s *Services) Register(reg *resource.Registry) {
	reg.Add(s.Services)
	reg.Add(s.Appointments)
	reg.Add(s.Quotes)
	reg.Add(s.Deliverables)
	reg.Add(s.Reviews)
}
