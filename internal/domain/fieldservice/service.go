// Package fieldservice holds bookable services and their appointments,
// quotes, deliverables and reviews.
package fieldservice

import (
	"time"

	"github.com/bizsuite/backend/internal/domain/commerce"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/domain/shared/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Service is a bookable offering of a company.
type Service struct {
	shared.AuditedRecord
	shared.CompanyRef
	Name                  string          `gorm:"type:varchar(200);not null" json:"name" validate:"required,max=200"`
	Description           string          `gorm:"type:text" json:"description"`
	BasePrice             decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"base_price"`
	DurationMinutes       int             `gorm:"not null" json:"duration_minutes"`
	PricingModel          datatypes.JSON  `json:"pricing_model"`
	AvailabilityRules     datatypes.JSON  `json:"availability_rules"`
	BookingSettings       datatypes.JSON  `json:"booking_settings"`
	RequiresQuote         bool            `gorm:"not null" json:"requires_quote"`
	QualificationRequired datatypes.JSON  `json:"qualification_required"`
	Categories            datatypes.JSON  `json:"categories"`
}

func (Service) TableName() string { return "services" }

func (s *Service) Defaults() {
	s.InitDefaults()
	s.DurationMinutes = 60
	s.PricingModel = shared.EmptyObject()
	s.AvailabilityRules = shared.EmptyObject()
	s.BookingSettings = shared.EmptyObject()
	s.QualificationRequired = shared.EmptyObject()
	s.Categories = shared.EmptyArray()
}

var ServiceRules = validation.Rules[Service]{
	Fields: func(s *Service, _ *validation.Env, errs *shared.ValidationError) {
		if s.BasePrice.IsNegative() {
			errs.Field("base_price", "Base price cannot be negative.")
		}
		if s.DurationMinutes <= 0 {
			errs.Field("duration_minutes", "Duration must be a positive number.")
		}
		validation.Object(errs, "pricing_model", s.PricingModel)
		validation.Object(errs, "availability_rules", s.AvailabilityRules)
		validation.Object(errs, "booking_settings", s.BookingSettings)
		validation.Object(errs, "qualification_required", s.QualificationRequired)
		validation.Array(errs, "categories", s.Categories)
	},
}

type AppointmentStatus string

const (
	AppointmentScheduled  AppointmentStatus = "scheduled"
	AppointmentConfirmed  AppointmentStatus = "confirmed"
	AppointmentInProgress AppointmentStatus = "in_progress"
	AppointmentCompleted  AppointmentStatus = "completed"
	AppointmentCancelled  AppointmentStatus = "cancelled"
	AppointmentNoShow     AppointmentStatus = "no_show"
)

func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentScheduled, AppointmentConfirmed, AppointmentInProgress,
		AppointmentCompleted, AppointmentCancelled, AppointmentNoShow:
		return true
	}
	return false
}

// Appointment books a service for a customer over a time slot.
type Appointment struct {
	shared.AuditedRecord
	shared.CompanyRef
	ServiceID            uuid.UUID         `gorm:"type:uuid;not null;index" json:"service_id" validate:"required"`
	CustomerID           uuid.UUID         `gorm:"type:uuid;not null;index" json:"customer_id" validate:"required"`
	ScheduledStart       time.Time         `gorm:"not null;index" json:"scheduled_start" validate:"required"`
	ScheduledEnd         time.Time         `gorm:"not null" json:"scheduled_end" validate:"required"`
	Status               AppointmentStatus `gorm:"type:varchar(50);not null;index" json:"status" validate:"required,enum"`
	LocationData         datatypes.JSON    `json:"location_data"`
	Notes                string            `gorm:"type:text" json:"notes"`
	CustomerRequirements datatypes.JSON    `json:"customer_requirements"`
	ServiceReport        datatypes.JSON    `json:"service_report"`
}

func (Appointment) TableName() string { return "service_appointments" }

func (a *Appointment) Defaults() {
	a.InitDefaults()
	a.Status = AppointmentScheduled
	a.LocationData = shared.EmptyObject()
	a.CustomerRequirements = shared.EmptyObject()
	a.ServiceReport = shared.EmptyObject()
}

func (a *Appointment) References() []shared.Reference {
	return []shared.Reference{
		shared.Ref("service_id", &Service{}, &a.ServiceID),
		shared.Ref("customer_id", &commerce.Customer{}, &a.CustomerID),
	}
}

var AppointmentRules = validation.Rules[Appointment]{
	Fields: func(a *Appointment, _ *validation.Env, errs *shared.ValidationError) {
		validation.Object(errs, "location_data", a.LocationData)
		validation.Object(errs, "customer_requirements", a.CustomerRequirements)
		validation.Object(errs, "service_report", a.ServiceReport)
	},
	Cross: func(a *Appointment, _ *validation.Env, errs *shared.ValidationError) {
		validation.After(errs, "scheduled_end", &a.ScheduledStart, &a.ScheduledEnd, "End time must be after start time.")
	},
	Unique: []validation.Unique[Appointment]{{
		Columns: []string{"service_id", "scheduled_start", "scheduled_end"},
		Values: func(a *Appointment) []any {
			return []any{a.ServiceID, a.ScheduledStart, a.ScheduledEnd}
		},
		PerCompany: true,
		Message:    "An appointment for this service already exists for this time slot.",
	}},
}

type QuoteStatus string

const (
	QuoteDraft    QuoteStatus = "draft"
	QuoteSent     QuoteStatus = "sent"
	QuoteAccepted QuoteStatus = "accepted"
	QuoteRejected QuoteStatus = "rejected"
	QuoteExpired  QuoteStatus = "expired"
)

func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteDraft, QuoteSent, QuoteAccepted, QuoteRejected, QuoteExpired:
		return true
	}
	return false
}

// Quote is a priced offer for a service.
type Quote struct {
	shared.AuditedRecord
	shared.CompanyRef
	ServiceID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"service_id" validate:"required"`
	CustomerID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id" validate:"required"`
	Requirements      string          `gorm:"type:text;not null" json:"requirements" validate:"required"`
	Specifications    datatypes.JSON  `json:"specifications"`
	EstimatedDuration int             `gorm:"not null" json:"estimated_duration"`
	EstimatedCost     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"estimated_cost"`
	ValidUntil        time.Time       `gorm:"not null" json:"valid_until" validate:"required"`
	Status            QuoteStatus     `gorm:"type:varchar(50);not null" json:"status" validate:"required,enum"`
	Notes             string          `gorm:"type:text" json:"notes"`
	TermsConditions   string          `gorm:"type:text" json:"terms_conditions"`
	// Expired mirrors IsExpired at serialisation time.
	Expired bool `gorm:"-" json:"is_expired"`
}

func (Quote) TableName() string { return "service_quotes" }

func (q *Quote) Defaults() {
	q.InitDefaults()
	q.Status = QuoteDraft
	q.Specifications = shared.EmptyObject()
}

// IsExpired reports whether the quote is past its validity date.
func (q *Quote) IsExpired(now time.Time) bool {
	return now.After(q.ValidUntil)
}

// Present fills computed fields before the quote is serialised.
func (q *Quote) Present(now time.Time) {
	q.Expired = q.IsExpired(now)
}

func (q *Quote) References() []shared.Reference {
	return []shared.Reference{
		shared.Ref("service_id", &Service{}, &q.ServiceID),
		shared.Ref("customer_id", &commerce.Customer{}, &q.CustomerID),
	}
}

var QuoteRules = validation.Rules[Quote]{
	Fields: func(q *Quote, env *validation.Env, errs *shared.ValidationError) {
		if q.EstimatedDuration <= 0 {
			errs.Field("estimated_duration", "Estimated duration must be a positive number.")
		}
		if q.EstimatedCost.IsNegative() {
			errs.Field("estimated_cost", "Estimated cost cannot be negative.")
		}
		if env.Creating && !q.ValidUntil.IsZero() && !q.ValidUntil.After(env.Now) {
			errs.Field("valid_until", "Valid until date must be in the future.")
		}
		validation.Object(errs, "specifications", q.Specifications)
	},
}

type DeliverableStatus string

const (
	DeliverablePending    DeliverableStatus = "pending"
	DeliverableInProgress DeliverableStatus = "in_progress"
	DeliverableCompleted  DeliverableStatus = "completed"
	DeliverableAccepted   DeliverableStatus = "accepted"
	DeliverableRejected   DeliverableStatus = "rejected"
)

func (s DeliverableStatus) IsValid() bool {
	switch s {
	case DeliverablePending, DeliverableInProgress, DeliverableCompleted, DeliverableAccepted, DeliverableRejected:
		return true
	}
	return false
}

// Deliverable is an output promised by an appointment.
type Deliverable struct {
	shared.AuditedRecord
	shared.CompanyRef
	AppointmentID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"appointment_id" validate:"required"`
	Name                 string            `gorm:"type:varchar(200);not null" json:"name" validate:"required,max=200"`
	Description          string            `gorm:"type:text" json:"description"`
	Status               DeliverableStatus `gorm:"type:varchar(50);not null" json:"status" validate:"required,enum"`
	DueDate              time.Time         `gorm:"not null" json:"due_date" validate:"required"`
	CompletedDate        *time.Time        `json:"completed_date,omitempty"`
	Attachments          datatypes.JSON    `json:"attachments"`
	VerificationRequired bool              `gorm:"not null" json:"verification_required"`
	VerificationStatus   datatypes.JSON    `json:"verification_status"`
}

func (Deliverable) TableName() string { return "service_deliverables" }

func (d *Deliverable) Defaults() {
	d.InitDefaults()
	d.Status = DeliverablePending
	d.Attachments = shared.EmptyArray()
	d.VerificationStatus = shared.EmptyObject()
}

func (d *Deliverable) References() []shared.Reference {
	return []shared.Reference{shared.Ref("appointment_id", &Appointment{}, &d.AppointmentID)}
}

var DeliverableRules = validation.Rules[Deliverable]{
	Fields: func(d *Deliverable, env *validation.Env, errs *shared.ValidationError) {
		if env.Creating && !d.DueDate.IsZero() && !d.DueDate.After(env.Now) {
			errs.Field("due_date", "Due date must be in the future.")
		}
		validation.Array(errs, "attachments", d.Attachments)
		validation.Object(errs, "verification_status", d.VerificationStatus)
	},
	Cross: func(d *Deliverable, _ *validation.Env, errs *shared.ValidationError) {
		validation.NotAfter(errs, "completed_date", d.CompletedDate, &d.DueDate,
			"Completed date cannot be after the due date.")
	},
}

// Review is a customer's rating of an appointment.
type Review struct {
	shared.AuditedRecord
	shared.CompanyRef
	AppointmentID uuid.UUID      `gorm:"type:uuid;not null;index" json:"appointment_id" validate:"required"`
	CustomerID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"customer_id" validate:"required"`
	Rating        int            `gorm:"not null" json:"rating"`
	ReviewText    string         `gorm:"type:text" json:"review_text"`
	Attributes    datatypes.JSON `json:"attributes"`
	IsPublic      bool           `gorm:"not null" json:"is_public"`
	Response      string         `gorm:"type:text" json:"response"`
	ResponseDate  *time.Time     `json:"response_date,omitempty"`
}

func (Review) TableName() string { return "service_reviews" }

func (r *Review) Defaults() {
	r.InitDefaults()
	r.IsPublic = true
	r.Attributes = shared.EmptyObject()
}

func (r *Review) References() []shared.Reference {
	return []shared.Reference{
		shared.Ref("appointment_id", &Appointment{}, &r.AppointmentID),
		shared.Ref("customer_id", &commerce.Customer{}, &r.CustomerID),
	}
}

var ReviewRules = validation.Rules[Review]{
	Fields: func(r *Review, _ *validation.Env, errs *shared.ValidationError) {
		validation.Rating(errs, "rating", r.Rating)
		validation.ObjectWith(errs, "attributes", r.Attributes, "Attributes must be a valid JSON object.")
	},
}
