package analytics

import (
	"context"
	"time"

	"github.com/bizsuite/backend/internal/domain/analytics"
	"github.com/bizsuite/backend/internal/domain/shared"
	"github.com/bizsuite/backend/internal/infrastructure/logger"
	"github.com/bizsuite/backend/internal/infrastructure/scheduler"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Actors resolves the principal a background job acts as.
type Actors interface {
	ActAs(ctx context.Context, userID, companyID uuid.UUID) (shared.Principal, error)
}

// ScheduledExports finds scheduled data exports that are due and runs
// them on behalf of their company.
type ScheduledExports struct {
	store  shared.Store
	runner *ExportRunner
	actors Actors
}

// NewScheduledExports creates the source and executor of scheduled
// export jobs.
func NewScheduledExports(store shared.Store, runner *ExportRunner, actors Actors) *ScheduledExports {
	return &ScheduledExports{store: store, runner: runner, actors: actors}
}

// DueJobs returns a job for every active scheduled export of any
// company whose next run is not after now. Exports with an unreadable
// schedule are skipped.
func (s *ScheduledExports) DueJobs(ctx context.Context, now time.Time) ([]*scheduler.Job, error) {
	var exports []analytics.DataExport
	if err := s.store.Find(ctx, &exports, shared.Scope{}, "created_at asc",
		shared.Eq("export_type", analytics.ExportScheduled), shared.Eq("is_active", true)); err != nil {
		return nil, err
	}

	var jobs []*scheduler.Job
	for i := range exports {
		exp := &exports[i]
		due, err := exp.DueAt(now)
		if err != nil {
			logger.L(ctx).Warn("skipping export with invalid schedule",
				zap.String("export_id", exp.ID.String()),
				zap.String("company_id", exp.CompanyID.String()),
				zap.Error(err),
			)
			continue
		}
		if !due {
			continue
		}
		actor := uuid.Nil
		if exp.CreatedBy != nil {
			actor = *exp.CreatedBy
		}
		jobs = append(jobs, scheduler.NewJob(exp.CompanyID, exp.ID, actor))
	}
	return jobs, nil
}

// Execute runs the export of job as its creator within its company. A
// creator who is no longer an active member of the company is skipped.
func (s *ScheduledExports) Execute(ctx context.Context, job *scheduler.Job) error {
	ctx = logger.WithCompanyID(ctx, job.CompanyID.String())
	p, err := s.actors.ActAs(ctx, job.ActorID, job.CompanyID)
	if err != nil {
		if ve, ok := shared.AsValidation(err); ok && ve.Code == shared.CodeTenantBoundary {
			logger.L(ctx).Warn("skipping scheduled export of a former member",
				zap.String("export_id", job.ExportID.String()),
				zap.String("user_id", job.ActorID.String()),
			)
			return nil
		}
		return err
	}
	_, err = s.runner.Run(ctx, p, job.ExportID)
	return err
}
