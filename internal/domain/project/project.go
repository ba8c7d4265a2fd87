// Package project holds projects and the work tracked against them:
// members, phases, tasks, resources, issues and time entries.
package project

import (
	"time"

	"github.com/bizsuite/backend/internal/domain/commerce"
	"github.com/bizsuite/backend/internal/domain/company"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/domain/shared/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Priority runs from 1 (low) to 4 (critical).
type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

func (p Priority) IsValid() bool { return p >= PriorityLow && p <= PriorityCritical }

type Status string

const (
	StatusPlanning   Status = "planning"
	StatusInProgress Status = "in_progress"
	StatusOnHold     Status = "on_hold"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPlanning, StatusInProgress, StatusOnHold, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Project is a unit of work delivered to a customer.
type Project struct {
	shared.AuditedRecord
	shared.CompanyRef
	CustomerID   *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	Name         string          `gorm:"type:varchar(200);not null" json:"name" validate:"required,max=200"`
	Description  string          `gorm:"type:text" json:"description"`
	StartDate    time.Time       `gorm:"not null;index" json:"start_date" validate:"required"`
	EndDate      *time.Time      `json:"end_date,omitempty"`
	Status       Status          `gorm:"type:varchar(50);not null;index" json:"status" validate:"required,enum"`
	Priority     Priority        `gorm:"not null" json:"priority" validate:"enum"`
	Budget       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"budget"`
	ActualCost   decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"actual_cost"`
	Documents    datatypes.JSON  `json:"documents"`
	CustomFields datatypes.JSON  `json:"custom_fields"`
}

func (Project) TableName() string { return "projects" }

func (p *Project) Defaults() {
	p.InitDefaults()
	p.Status = StatusPlanning
	p.Priority = PriorityMedium
	p.Documents = shared.EmptyArray()
	p.CustomFields = shared.EmptyObject()
}

func (p *Project) References() []shared.Reference {
	return []shared.Reference{shared.Ref("customer_id", &commerce.Customer{}, p.CustomerID)}
}

// Contains reports whether t falls within the project dates. An open
// ended project contains every date after its start.
func (p *Project) Contains(t time.Time) bool {
	if t.Before(p.StartDate) {
		return false
	}
	return p.EndDate == nil || !t.After(*p.EndDate)
}

var ProjectRules = validation.Rules[Project]{
	Fields: func(p *Project, _ *validation.Env, errs *shared.ValidationError) {
		validation.NonNegative(errs, "budget", p.Budget)
		validation.NonNegative(errs, "actual_cost", p.ActualCost)
		validation.Array(errs, "documents", p.Documents)
		validation.Object(errs, "custom_fields", p.CustomFields)
	},
	Cross: func(p *Project, _ *validation.Env, errs *shared.ValidationError) {
		validation.After(errs, "end_date", &p.StartDate, p.EndDate, validation.MsgEndAfterStart)
	},
}

// Member assigns a company user to a project.
type Member struct {
	shared.AuditedRecord
	shared.CompanyRef
	ProjectID            uuid.UUID       `gorm:"type:uuid;not null;index" json:"project_id" validate:"required"`
	UserID               uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id" validate:"required"`
	Role                 string          `gorm:"type:varchar(100);not null" json:"role" validate:"required,max=100"`
	Responsibilities     string          `gorm:"type:text" json:"responsibilities"`
	AllocationPercentage int             `gorm:"not null" json:"allocation_percentage"`
	StartDate            time.Time       `gorm:"not null" json:"start_date" validate:"required"`
	EndDate              *time.Time      `json:"end_date,omitempty"`
	HourlyRate           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"hourly_rate"`
}

func (Member) TableName() string { return "project_members" }

func (m *Member) Defaults() {
	m.InitDefaults()
	m.AllocationPercentage = 100
}

func (m *Member) References() []shared.Reference {
	return []shared.Reference{
		shared.Ref("project_id", &Project{}, &m.ProjectID),
		shared.Ref("user_id", &company.CompanyUser{}, &m.UserID),
	}
}

var MemberRules = validation.Rules[Member]{
	Fields: func(m *Member, _ *validation.Env, errs *shared.ValidationError) {
		if m.AllocationPercentage < 0 || m.AllocationPercentage > 100 {
			errs.Field("allocation_percentage", "Allocation percentage must be between 0 and 100.")
		}
		validation.NonNegative(errs, "hourly_rate", m.HourlyRate)
	},
	Cross: func(m *Member, _ *validation.Env, errs *shared.ValidationError) {
		validation.After(errs, "end_date", &m.StartDate, m.EndDate, validation.MsgEndAfterStart)
	},
	Unique: []validation.Unique[Member]{{
		Columns:    []string{"project_id", "user_id"},
		Values:     func(m *Member) []any { return []any{m.ProjectID, m.UserID} },
		PerCompany: true,
		Message:    "This user is already a member of the project.",
	}},
}

type PhaseStatus string

const (
	PhasePlanned    PhaseStatus = "planned"
	PhaseInProgress PhaseStatus = "in_progress"
	PhaseCompleted  PhaseStatus = "completed"
	PhaseDelayed    PhaseStatus = "delayed"
)

func (s PhaseStatus) IsValid() bool {
	switch s {
	case PhasePlanned, PhaseInProgress, PhaseCompleted, PhaseDelayed:
		return true
	}
	return false
}

// Phase is a dated stage of a project.
type Phase struct {
	shared.AuditedRecord
	shared.CompanyRef
	ProjectID            uuid.UUID      `gorm:"type:uuid;not null;index" json:"project_id" validate:"required"`
	Name                 string         `gorm:"type:varchar(200);not null" json:"name" validate:"required,max=200"`
	Description          string         `gorm:"type:text" json:"description"`
	StartDate            time.Time      `gorm:"not null" json:"start_date" validate:"required"`
	EndDate              time.Time      `gorm:"not null" json:"end_date" validate:"required"`
	Status               PhaseStatus    `gorm:"type:varchar(50);not null" json:"status" validate:"required,enum"`
	CompletionPercentage int            `gorm:"not null" json:"completion_percentage"`
	Deliverables         datatypes.JSON `json:"deliverables"`
}

func (Phase) TableName() string { return "project_phases" }

func (p *Phase) Defaults() {
	p.InitDefaults()
	p.Status = PhasePlanned
	p.Deliverables = shared.EmptyArray()
}

func (p *Phase) References() []shared.Reference {
	return []shared.Reference{shared.Ref("project_id", &Project{}, &p.ProjectID)}
}

var PhaseRules = validation.Rules[Phase]{
	Fields: func(p *Phase, _ *validation.Env, errs *shared.ValidationError) {
		validation.IntRange(errs, "completion_percentage", p.CompletionPercentage, 0, 100)
		validation.Array(errs, "deliverables", p.Deliverables)
	},
	Cross: func(p *Phase, _ *validation.Env, errs *shared.ValidationError) {
		validation.After(errs, "end_date", &p.StartDate, &p.EndDate, validation.MsgEndAfterStart)
	},
}
