// Package project wires projects and their members, phases, tasks,
// resources, issues and time entries into resource services.
package project

import (
	"github.com/bizsuite/backend/internal/application/resource"
	"github.com/bizsuite/backend/internal/domain/project"
	"github.com/bizsuite/backend/internal/domain/shared"
)

const Group = "project"

// Services holds the resource services of the project group.
type Services struct {
	Projects    *resource.Service[project.Project]
	Members     *resource.Service[project.Member]
	Phases      *resource.Service[project.Phase]
	Tasks       *resource.Service[project.Task]
	Resources   *resource.Service[project.Resource]
	Issues      *resource.Service[project.Issue]
	TimeEntries *resource.Service[project.TimeEntry]
}

// NewServices builds the project services on store.
func NewServices(store shared.Store, clock shared.Clock) *Services {
	return &Services{
		Projects: resource.New(resource.Descriptor[project.Project]{
			Group:       Group,
			Name:        "projects",
			Label:       "Project",
			Rules:       project.ProjectRules,
			Sortable:    []string{"name", "start_date", "end_date", "status", "priority", "budget"},
			DefaultSort: "start_date",
			Search:      []string{"name", "description"},
			Filterable:  []string{"customer_id", "status", "priority"},
		}, store, clock),
		Members: resource.New(resource.Descriptor[project.Member]{
			Group:      Group,
			Name:       "members",
			Label:      "Project member",
			Rules:      project.MemberRules,
			Sortable:   []string{"role", "allocation_percentage", "start_date"},
			Search:     []string{"role", "responsibilities"},
			Filterable: []string{"project_id", "user_id", "role"},
		}, store, clock),
		Phases: resource.New(resource.Descriptor[project.Phase]{
			Group:       Group,
			Name:        "phases",
			Label:       "Project phase",
			Rules:       project.PhaseRules,
			Sortable:    []string{"name", "start_date", "end_date", "status", "completion_percentage"},
			DefaultSort: "start_date",
			DefaultDir:  "asc",
			Search:      []string{"name", "description"},
			Filterable:  []string{"project_id", "status"},
		}, store, clock),
		Tasks: resource.New(resource.Descriptor[project.Task]{
			Group:       Group,
			Name:        "tasks",
			Label:       "Project task",
			Rules:       project.TaskRules,
			Sortable:    []string{"name", "start_date", "due_date", "status", "priority"},
			DefaultSort: "due_date",
			DefaultDir:  "asc",
			Search:      []string{"name", "description"},
			Filterable:  []string{"project_id", "phase_id", "assigned_to_id", "status", "priority"},
		}, store, clock),
		Resources: resource.New(resource.Descriptor[project.Resource]{
			Group:      Group,
			Name:       "resources",
			Label:      "Project resource",
			Rules:      project.ResourceRules,
			Sortable:   []string{"name", "resource_type", "status", "total_cost", "allocation_start"},
			Search:     []string{"name", "description"},
			Filterable: []string{"project_id", "resource_type", "status"},
		}, store, clock),
		Issues: resource.New(resource.Descriptor[project.Issue]{
			Group:      Group,
			Name:       "issues",
			Label:      "Project issue",
			Rules:      project.IssueRules,
			Sortable:   []string{"title", "priority", "status", "due_date"},
			Search:     []string{"title", "description"},
			Filterable: []string{"project_id", "assigned_to_id", "reported_by_id", "issue_type", "status", "priority"},
		}, store, clock),
		TimeEntries: resource.New(resource.Descriptor[project.TimeEntry]{
			Group:       Group,
			Name:        "time-entries",
			Label:       "Time entry",
			Rules:       project.TimeEntryRules,
			Sortable:    []string{"date", "hours", "billable", "approved"},
			DefaultSort: "date",
			Search:      []string{"description"},
			Filterable:  []string{"project_id", "task_id", "user_id", "billable", "approved"},
		}, store, clock),
	}
}

// Register adds every project service to reg.
func (s *Services) Register(reg *resource.Registry) {
	reg.Add(s.Projects)
	reg.Add(s.Members)
	reg.Add(s.Phases)
	reg.Add(s.Tasks)
	reg.Add(s.Resources)
	reg.Add(s.Issues)
	reg.Add(s.TimeEntries)
}
