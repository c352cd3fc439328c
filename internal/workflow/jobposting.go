// internal/workflow/jobposting.go
package workflow

import (
	"context"
	"strings"
	"time"

	apperrors "github.com/TimLS94/IJP-Portal-sub000/internal/common/errors"
	"github.com/TimLS94/IJP-Portal-sub000/internal/common/logger"
	"github.com/TimLS94/IJP-Portal-sub000/internal/models"
	"github.com/TimLS94/IJP-Portal-sub000/internal/settings"
	"github.com/TimLS94/IJP-Portal-sub000/internal/slug"
)

// JobPostingStore is the persistence surface of the posting lifecycle.
type JobPostingStore interface {
	GetJobWithCompany(ctx context.Context, jobID int64) (*models.JobWithCompany, error)
	InsertJobPosting(ctx context.Context, job *models.JobPosting) (int64, error)
	UpdateJobPosting(ctx context.Context, job *models.JobPosting) error
	SetJobActive(ctx context.Context, jobID int64, active bool, at time.Time) error
	ArchiveJob(ctx context.Context, jobID int64, at time.Time) error
}

// JobPostingEvents receives activation and archival, after the row commits.
type JobPostingEvents interface {
	JobActivated(ctx context.Context, job *models.JobWithCompany)
	JobArchived(ctx context.Context, jobID int64)
}

// NopJobPostingEvents discards all events.
type NopJobPostingEvents struct{}

func (NopJobPostingEvents) JobActivated(context.Context, *models.JobWithCompany) {}
func (NopJobPostingEvents) JobArchived(context.Context, int64)                   {}

// JobPostingService owns creation, activation and archival of postings.
type JobPostingService struct {
	store    JobPostingStore
	settings *settings.Registry
	events   JobPostingEvents
	logger   logger.Logger
}

func NewJobPostingService(store JobPostingStore, reg *settings.Registry, events JobPostingEvents, log logger.Logger) *JobPostingService {
	if events == nil {
		events = NopJobPostingEvents{}
	}
	return &JobPostingService{store: store, settings: reg, events: events, logger: log}
}

// Create validates and files a posting. The slug is derived from title,
// location and the accommodation flag; the deadline must lie within the
// configured window from today.
func (s *JobPostingService) Create(ctx context.Context, job *models.JobPosting) (*models.JobPosting, error) {
	if strings.TrimSpace(job.Title) == "" {
		return nil, apperrors.NewValidationError("title", "must not be empty")
	}
	if _, err := models.ParsePositionCategory(string(job.Category)); err != nil {
		return nil, err
	}
	if err := s.checkDeadline(ctx, job.Deadline); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	job.Slug = slug.ForJob(job.Title, job.Location, job.Accommodation)
	job.IsArchived = false
	job.ArchivedAt = nil
	job.CreatedAt = now
	job.UpdatedAt = now

	id, err := s.store.InsertJobPosting(ctx, job)
	if err != nil {
		return nil, err
	}
	job.ID = id

	s.logger.Info("job posting created", map[string]interface{}{
		"job_id":     id,
		"company_id": job.CompanyID,
		"slug":       job.Slug,
		"active":     job.IsActive,
	})

	if job.IsActive {
		s.dispatchActivated(ctx, id)
	}
	return job, nil
}

// Update rewrites the mutable posting fields and refreshes the slug.
func (s *JobPostingService) Update(ctx context.Context, job *models.JobPosting) error {
	if err := s.checkDeadline(ctx, job.Deadline); err != nil {
		return err
	}
	job.Slug = slug.ForJob(job.Title, job.Location, job.Accommodation)
	job.UpdatedAt = time.Now().UTC()
	return s.store.UpdateJobPosting(ctx, job)
}

// Activate flips the posting live. A posting that is already active is left
// alone so repeated calls never double the fan-out.
func (s *JobPostingService) Activate(ctx context.Context, jobID int64) error {
	job, err := s.store.GetJobWithCompany(ctx, jobID)
	if err != nil {
		return err
	}
	if job.IsArchived {
		return apperrors.NewPreconditionFailedError("PostingArchived")
	}
	if job.IsActive {
		return nil
	}
	if err := s.store.SetJobActive(ctx, jobID, true, time.Now().UTC()); err != nil {
		return err
	}
	s.dispatchActivated(ctx, jobID)
	return nil
}

// Deactivate takes the posting offline without archiving it.
func (s *JobPostingService) Deactivate(ctx context.Context, jobID int64) error {
	return s.store.SetJobActive(ctx, jobID, false, time.Now().UTC())
}

// Archive retires the posting; the retention sweeper purges it later.
func (s *JobPostingService) Archive(ctx context.Context, jobID int64) error {
	now := time.Now().UTC()
	if err := s.store.ArchiveJob(ctx, jobID, now); err != nil {
		return err
	}
	s.events.JobArchived(ctx, jobID)
	s.logger.Info("job posting archived", map[string]interface{}{"job_id": jobID})
	return nil
}

func (s *JobPostingService) dispatchActivated(ctx context.Context, jobID int64) {
	job, err := s.store.GetJobWithCompany(ctx, jobID)
	if err != nil {
		s.logger.Error("activation event lookup failed", map[string]interface{}{
			"job_id": jobID,
			"error":  err.Error(),
		})
		return
	}
	s.events.JobActivated(ctx, job)
}

// checkDeadline enforces the configurable application window.
func (s *JobPostingService) checkDeadline(ctx context.Context, deadline *time.Time) error {
	if deadline == nil {
		return nil
	}
	maxDays := s.settings.GetInt(ctx, settings.KeyMaxJobDeadlineDays, 31)
	now := time.Now().UTC()
	if deadline.Before(now) {
		return apperrors.NewPreconditionFailedError(apperrors.ReasonDeadlineOutOfRange)
	}
	if deadline.After(now.AddDate(0, 0, maxDays)) {
		return apperrors.NewPreconditionFailedError(apperrors.ReasonDeadlineOutOfRange)
	}
	return nil
}
