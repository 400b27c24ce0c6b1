package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/noah-isme/coursebook-api/internal/models"
)

// ReportRepository persists report job metadata next to the domain records.
type ReportRepository struct {
	store *DocumentStore
	jobs  collection[models.ReportJob]
}

// NewReportRepository constructs the repository.
func NewReportRepository(store *DocumentStore) *ReportRepository {
	return &ReportRepository{
		store: store,
		jobs:  collection[models.ReportJob]{store: store, kind: KindReportJobs},
	}
}

// Create stores a new report job with generated defaults.
func (r *ReportRepository) Create(ctx context.Context, job *models.ReportJob) error {
	if job.Status == "" {
		job.Status = models.ReportStatusQueued
	}
	created, err := r.jobs.create(ctx, *job)
	if err != nil {
		return fmt.Errorf("create report job: %w", err)
	}
	*job = created
	return nil
}

// GetByID returns a job by its identifier.
func (r *ReportRepository) GetByID(ctx context.Context, id string) (*models.ReportJob, error) {
	job, err := r.jobs.get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get report job: %w", err)
	}
	return &job, nil
}

// UpdateReportJobParams defines the mutable fields.
type UpdateReportJobParams struct {
	Status       *models.ReportStatus
	Progress     *int
	ResultURL    *string
	ErrorMessage *string
	FinishedAt   *time.Time
}

// Update persists the provided changes for a job.
func (r *ReportRepository) Update(ctx context.Context, id string, params UpdateReportJobParams) error {
	fields := Document{}
	if params.Status != nil {
		fields["status"] = string(*params.Status)
	}
	if params.Progress != nil {
		fields["progress"] = *params.Progress
	}
	if params.ResultURL != nil {
		fields["result_url"] = *params.ResultURL
	}
	if params.ErrorMessage != nil {
		if *params.ErrorMessage == "" {
			fields["error_message"] = nil
		} else {
			fields["error_message"] = *params.ErrorMessage
		}
	}
	if params.FinishedAt != nil {
		fields["finished_at"] = params.FinishedAt.UTC().Format(time.RFC3339Nano)
	}

	if len(fields) == 0 {
		return nil
	}

	if _, err := r.store.Update(ctx, KindReportJobs, id, fields); err != nil {
		return fmt.Errorf("update report job: %w", err)
	}
	return nil
}

// ListQueued fetches queued jobs, oldest first (used for cold start recovery).
func (r *ReportRepository) ListQueued(ctx context.Context, limit int) ([]models.ReportJob, error) {
	if limit <= 0 {
		limit = 20
	}
	all, err := r.jobs.list(ctx, "created_date", 0)
	if err != nil {
		return nil, fmt.Errorf("list queued report jobs: %w", err)
	}
	jobs := make([]models.ReportJob, 0)
	for _, job := range all {
		if job.Status == models.ReportStatusQueued {
			jobs = append(jobs, job)
		}
		if len(jobs) == limit {
			break
		}
	}
	return jobs, nil
}

// ListFinishedBefore retrieves completed jobs prior to cutoff for cleanup.
func (r *ReportRepository) ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ReportJob, error) {
	if limit <= 0 {
		limit = 50
	}
	all, err := r.jobs.list(ctx, "", 0)
	if err != nil {
		return nil, fmt.Errorf("list finished report jobs: %w", err)
	}
	jobs := make([]models.ReportJob, 0)
	for _, job := range all {
		if job.Status == models.ReportStatusFinished && job.FinishedAt != nil && job.FinishedAt.Before(cutoff) {
			jobs = append(jobs, job)
		}
	}
	sort.SliceStable(jobs, func(i, j int) bool {
		return jobs[i].FinishedAt.Before(*jobs[j].FinishedAt)
	})
	if len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs, nil
}

// Delete removes a job record.
func (r *ReportRepository) Delete(ctx context.Context, id string) error {
	if err := r.jobs.delete(ctx, id); err != nil {
		return fmt.Errorf("delete report job: %w", err)
	}
	return nil
}
