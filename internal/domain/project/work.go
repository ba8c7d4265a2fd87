package project

import (
	"time"

	"github.com/bizsuite/backend/internal/domain/company"
	"github.com/bizsuite/backend/internal/domain/core"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/domain/shared/validation"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskReview     TaskStatus = "review"
	TaskCompleted  TaskStatus = "completed"
	TaskBlocked    TaskStatus = "blocked"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskReview, TaskCompleted, TaskBlocked:
		return true
	}
	return false
}

// Task is an assignable piece of work inside a project, optionally
// within one of its phases.
type Task struct {
	shared.AuditedRecord
	shared.CompanyRef
	ProjectID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"project_id" validate:"required"`
	PhaseID        *uuid.UUID      `gorm:"type:uuid;index" json:"phase_id,omitempty"`
	Name           string          `gorm:"type:varchar(200);not null" json:"name" validate:"required,max=200"`
	Description    string          `gorm:"type:text" json:"description"`
	AssignedToID   *uuid.UUID      `gorm:"type:uuid;index" json:"assigned_to_id,omitempty"`
	StartDate      *time.Time      `json:"start_date,omitempty"`
	DueDate        *time.Time      `gorm:"index" json:"due_date,omitempty"`
	CompletedDate  *time.Time      `json:"completed_date,omitempty"`
	Status         TaskStatus      `gorm:"type:varchar(50);not null;index" json:"status" validate:"required,enum"`
	Priority       Priority        `gorm:"not null" json:"priority" validate:"enum"`
	EstimatedHours decimal.Decimal `gorm:"type:decimal(8,2);not null" json:"estimated_hours"`
	ActualHours    decimal.Decimal `gorm:"type:decimal(8,2);not null" json:"actual_hours"`
	Attachments    datatypes.JSON  `json:"attachments"`
	Tags           datatypes.JSON  `json:"tags"`
}

func (Task) TableName() string { return "project_tasks" }

func (t *Task) Defaults() {
	t.InitDefaults()
	t.Status = TaskTodo
	t.Priority = PriorityMedium
	t.Attachments = shared.EmptyArray()
	t.Tags = shared.EmptyArray()
}

func (t *Task) References() []shared.Reference {
	return []shared.Reference{
		shared.Ref("project_id", &Project{}, &t.ProjectID),
		shared.Ref("phase_id", &Phase{}, t.PhaseID),
		shared.Ref("assigned_to_id", &company.CompanyUser{}, t.AssignedToID),
	}
}

var TaskRules = validation.Rules[Task]{
	Fields: func(t *Task, _ *validation.Env, errs *shared.ValidationError) {
		if t.EstimatedHours.IsNegative() {
			errs.Field("estimated_hours", "Estimated hours must be a positive number.")
		}
		if t.ActualHours.IsNegative() {
			errs.Field("actual_hours", "Actual hours must be a positive number.")
		}
		validation.Array(errs, "attachments", t.Attachments)
		validation.Array(errs, "tags", t.Tags)
	},
	Cross: func(t *Task, _ *validation.Env, errs *shared.ValidationError) {
		validation.After(errs, "due_date", t.StartDate, t.DueDate, validation.MsgEndAfterStart)
	},
	Stored: func(t *Task, env *validation.Env, errs *shared.ValidationError) error {
		if t.PhaseID == nil || *t.PhaseID == uuid.Nil {
			return nil
		}
		var phase Phase
		err := env.Store.First(env.Ctx, &phase, env.Scope(), shared.Eq("id", *t.PhaseID))
		if shared.IsNotFound(err) {
			return nil
		}
		if err != nil {
			return err
		}
		if phase.ProjectID != t.ProjectID {
			errs.Field("phase_id", "The selected phase does not belong to the selected project.")
			return nil
		}
		outside := func(d *time.Time) bool {
			return d != nil && (d.Before(phase.StartDate) || d.After(phase.EndDate))
		}
		if outside(t.StartDate) {
			errs.Field("start_date", "Task dates must fall within the phase dates.")
		}
		if outside(t.DueDate) {
			errs.Field("due_date", "Task dates must fall within the phase dates.")
		}
		return nil
	},
}

type ResourceType string

const (
	ResourceEquipment ResourceType = "equipment"
	ResourceMaterial  ResourceType = "material"
	ResourceVehicle   ResourceType = "vehicle"
	ResourceTool      ResourceType = "tool"
)

func (t ResourceType) IsValid() bool {
	switch t {
	case ResourceEquipment, ResourceMaterial, ResourceVehicle, ResourceTool:
		return true
	}
	return false
}

type ResourceStatus string

const (
	ResourceAvailable   ResourceStatus = "available"
	ResourceInUse       ResourceStatus = "in_use"
	ResourceMaintenance ResourceStatus = "maintenance"
	ResourceReserved    ResourceStatus = "reserved"
)

func (s ResourceStatus) IsValid() bool {
	switch s {
	case ResourceAvailable, ResourceInUse, ResourceMaintenance, ResourceReserved:
		return true
	}
	return false
}

// Resource is equipment or material allocated to a project.
type Resource struct {
	shared.AuditedRecord
	shared.CompanyRef
	ProjectID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"project_id" validate:"required"`
	ResourceType       ResourceType    `gorm:"type:varchar(50);not null" json:"resource_type" validate:"required,enum"`
	Name               string          `gorm:"type:varchar(200);not null" json:"name" validate:"required,max=200"`
	Description        string          `gorm:"type:text" json:"description"`
	Quantity           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"quantity"`
	UnitCost           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_cost"`
	TotalCost          decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_cost"`
	AllocationStart    time.Time       `gorm:"not null" json:"allocation_start" validate:"required"`
	AllocationEnd      time.Time       `gorm:"not null" json:"allocation_end" validate:"required"`
	Status             ResourceStatus  `gorm:"type:varchar(50);not null" json:"status" validate:"required,enum"`
	Specifications     datatypes.JSON  `json:"specifications"`
	MaintenanceHistory datatypes.JSON  `json:"maintenance_history"`
}

func (Resource) TableName() string { return "project_resources" }

func (r *Resource) Defaults() {
	r.InitDefaults()
	r.Status = ResourceAvailable
	r.Specifications = shared.EmptyObject()
	r.MaintenanceHistory = shared.EmptyArray()
}

func (r *Resource) References() []shared.Reference {
	return []shared.Reference{shared.Ref("project_id", &Project{}, &r.ProjectID)}
}

var ResourceRules = validation.Rules[Resource]{
	Fields: func(r *Resource, _ *validation.Env, errs *shared.ValidationError) {
		if !r.Quantity.IsPositive() {
			errs.Field("quantity", "Quantity must be a positive number.")
		}
		if r.UnitCost.IsNegative() {
			errs.Field("unit_cost", "Unit cost must be a positive number.")
		}
		if r.TotalCost.IsNegative() {
			errs.Field("total_cost", "Total cost must be a positive number.")
		}
		validation.Object(errs, "specifications", r.Specifications)
		validation.Array(errs, "maintenance_history", r.MaintenanceHistory)
	},
	Cross: func(r *Resource, _ *validation.Env, errs *shared.ValidationError) {
		validation.After(errs, "allocation_end", &r.AllocationStart, &r.AllocationEnd, validation.MsgEndAfterStart)
		validation.Matches(errs, "total_cost", r.Quantity.Mul(r.UnitCost), r.TotalCost,
			"Total cost should be equal to quantity * unit cost (%s).")
	},
}

type IssueType string

const (
	IssueBug      IssueType = "bug"
	IssueFeature  IssueType = "feature"
	IssueRisk     IssueType = "risk"
	IssueBlocker  IssueType = "blocker"
	IssueQuestion IssueType = "question"
)

func (t IssueType) IsValid() bool {
	switch t {
	case IssueBug, IssueFeature, IssueRisk, IssueBlocker, IssueQuestion:
		return true
	}
	return false
}

type IssueStatus string

const (
	IssueOpen       IssueStatus = "open"
	IssueInProgress IssueStatus = "in_progress"
	IssueResolved   IssueStatus = "resolved"
	IssueClosed     IssueStatus = "closed"
	IssueReopened   IssueStatus = "reopened"
)

func (s IssueStatus) IsValid() bool {
	switch s {
	case IssueOpen, IssueInProgress, IssueResolved, IssueClosed, IssueReopened:
		return true
	}
	return false
}

// Issue is a problem or risk raised on a project. ReportedByID is the
// acting user.
type Issue struct {
	shared.AuditedRecord
	shared.CompanyRef
	ProjectID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"project_id" validate:"required"`
	ReportedByID uuid.UUID      `gorm:"type:uuid;not null" json:"reported_by_id"`
	AssignedToID *uuid.UUID     `gorm:"type:uuid" json:"assigned_to_id,omitempty"`
	Title        string         `gorm:"type:varchar(200);not null" json:"title" validate:"required,max=200"`
	Description  string         `gorm:"type:text;not null" json:"description" validate:"required"`
	IssueType    IssueType      `gorm:"type:varchar(50);not null" json:"issue_type" validate:"required,enum"`
	Priority     Priority       `gorm:"not null" json:"priority" validate:"enum"`
	Status       IssueStatus    `gorm:"type:varchar(50);not null;index" json:"status" validate:"required,enum"`
	Resolution   string         `gorm:"type:text" json:"resolution"`
	DueDate      *time.Time     `json:"due_date,omitempty"`
	ResolvedDate *time.Time     `json:"resolved_date,omitempty"`
	Attachments  datatypes.JSON `json:"attachments"`
	Tags         datatypes.JSON `json:"tags"`
}

func (Issue) TableName() string { return "project_issues" }

func (i *Issue) Defaults() {
	i.InitDefaults()
	i.Status = IssueOpen
	i.Priority = PriorityMedium
	i.Attachments = shared.EmptyArray()
	i.Tags = shared.EmptyArray()
}

func (i *Issue) StampActor(user uuid.UUID) { i.ReportedByID = user }

func (i *Issue) References() []shared.Reference {
	return []shared.Reference{
		shared.Ref("project_id", &Project{}, &i.ProjectID),
		shared.Ref("assigned_to_id", &company.CompanyUser{}, i.AssignedToID),
	}
}

var IssueRules = validation.Rules[Issue]{
	Fields: func(i *Issue, env *validation.Env, errs *shared.ValidationError) {
		if env.Creating && i.DueDate != nil && !i.DueDate.After(env.Now) {
			errs.Field("due_date", "Due date must be a future date.")
		}
		validation.Array(errs, "attachments", i.Attachments)
		validation.Array(errs, "tags", i.Tags)
	},
	Cross: func(i *Issue, env *validation.Env, errs *shared.ValidationError) {
		created := i.CreatedAt
		if created.IsZero() {
			created = env.Now
		}
		if i.ResolvedDate != nil && i.ResolvedDate.Before(created) {
			errs.Field("resolved_date", "Resolved date cannot be earlier than the issue creation date.")
		}
	},
}

// TimeEntry records hours a user spent on a project.
type TimeEntry struct {
	shared.AuditedRecord
	shared.CompanyRef
	ProjectID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"project_id" validate:"required"`
	TaskID       *uuid.UUID      `gorm:"type:uuid;index" json:"task_id,omitempty"`
	UserID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id" validate:"required"`
	Date         time.Time       `gorm:"not null;index" json:"date" validate:"required"`
	Hours        decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"hours"`
	Description  string          `gorm:"type:text;not null" json:"description" validate:"required"`
	Billable     bool            `gorm:"not null" json:"billable"`
	BillingRate  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"billing_rate"`
	Approved     bool            `gorm:"not null" json:"approved"`
	ApprovedByID *uuid.UUID      `gorm:"type:uuid" json:"approved_by_id,omitempty"`
	Tags         datatypes.JSON  `json:"tags"`
}

func (TimeEntry) TableName() string { return "project_time_entries" }

func (e *TimeEntry) Defaults() {
	e.InitDefaults()
	e.Billable = true
	e.Tags = shared.EmptyArray()
}

func (e *TimeEntry) References() []shared.Reference {
	return []shared.Reference{
		shared.Ref("project_id", &Project{}, &e.ProjectID),
		shared.Ref("task_id", &Task{}, e.TaskID),
		shared.Ref("user_id", &company.CompanyUser{}, &e.UserID),
		shared.GlobalRef("approved_by_id", &core.User{}, e.ApprovedByID),
	}
}

var TimeEntryRules = validation.Rules[TimeEntry]{
	Fields: func(e *TimeEntry, _ *validation.Env, errs *shared.ValidationError) {
		if !e.Hours.IsPositive() {
			errs.Field("hours", "Hours must be a positive number.")
		}
		validation.NonNegative(errs, "billing_rate", e.BillingRate)
		validation.Array(errs, "tags", e.Tags)
	},
	Stored: func(e *TimeEntry, env *validation.Env, errs *shared.ValidationError) error {
		if e.TaskID != nil && *e.TaskID != uuid.Nil {
			var task Task
			err := env.Store.First(env.Ctx, &task, env.Scope(), shared.Eq("id", *e.TaskID))
			if err != nil && !shared.IsNotFound(err) {
				return err
			}
			if err == nil && task.ProjectID != e.ProjectID {
				errs.Form("The selected task does not belong to the selected project.")
			}
		}
		var p Project
		err := env.Store.First(env.Ctx, &p, env.Scope(), shared.Eq("id", e.ProjectID))
		if shared.IsNotFound(err) {
			return nil
		}
		if err != nil {
			return err
		}
		if !p.Contains(e.Date) {
			errs.Field("date", "Date must fall within the project dates.")
		}
		return nil
	},
}
