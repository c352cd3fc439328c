// internal/workflow/application.go
package workflow

import (
	"context"
	"time"

	apperrors "github.com/TimLS94/IJP-Portal-sub000/internal/common/errors"
	"github.com/TimLS94/IJP-Portal-sub000/internal/common/logger"
	"github.com/TimLS94/IJP-Portal-sub000/internal/models"
)

// applicationTable is the static transition table. Agency force transitions
// and the applicant's universal withdraw are handled as rules on top of it.
var applicationTable = Table{
	models.RoleAdmin: {
		string(models.AppPending):     {string(models.AppIJPReview)},
		string(models.AppIJPReview):   {string(models.AppIJPApproved), string(models.AppIJPRejected)},
		string(models.AppIJPApproved): {string(models.AppSentToCompany)},
	},
	models.RoleCompany: {
		string(models.AppSentToCompany): {string(models.AppCompanyReview)},
		string(models.AppCompanyReview): {
			string(models.AppInterviewScheduled),
			string(models.AppAccepted),
			string(models.AppRejected),
		},
		string(models.AppInterviewScheduled): {string(models.AppInterviewDone)},
		string(models.AppInterviewDone):      {string(models.AppAccepted), string(models.AppRejected)},
		string(models.AppAccepted):           {string(models.AppContractSent)},
		string(models.AppContractSent):       {string(models.AppContractSigned)},
		string(models.AppContractSigned):     {string(models.AppCompleted)},
	},
}

// applicantWithdrawBlocked lists states the applicant cannot leave.
var applicantWithdrawBlocked = map[models.ApplicationStatus]bool{
	models.AppContractSigned: true,
	models.AppCompleted:      true,
	models.AppWithdrawn:      true,
	models.AppRejected:       true,
}

// ApplicationStore is the persistence surface of the application machine.
// UpdateApplicationStatus must guard on the expected from-status and report
// whether a row was actually updated.
type ApplicationStore interface {
	GetApplication(ctx context.Context, id int64) (*models.Application, error)
	InsertApplication(ctx context.Context, app *models.Application) (int64, error)
	UpdateApplicationStatus(ctx context.Context, id int64, from, to models.ApplicationStatus, at time.Time) (bool, error)
	UpdateApplicationNotes(ctx context.Context, id int64, companyNotes, agencyNotes *string, at time.Time) error
	GetApplicant(ctx context.Context, id int64) (*models.Applicant, error)
	GetJobWithCompany(ctx context.Context, jobID int64) (*models.JobWithCompany, error)
	HasApplication(ctx context.Context, applicantID, jobID int64) (bool, error)
}

// ApplicationEvents receives committed transitions. Implementations must not
// block the caller for long; errors are the implementation's to log.
type ApplicationEvents interface {
	ApplicationReceived(ctx context.Context, app *models.Application)
	ApplicationSentToCompany(ctx context.Context, app *models.Application)
	ApplicationRejected(ctx context.Context, app *models.Application)
}

// NopApplicationEvents discards all events.
type NopApplicationEvents struct{}

func (NopApplicationEvents) ApplicationReceived(context.Context, *models.Application)      {}
func (NopApplicationEvents) ApplicationSentToCompany(context.Context, *models.Application) {}
func (NopApplicationEvents) ApplicationRejected(context.Context, *models.Application)      {}

// DocumentChecker answers the completeness guard for leaving pending.
type DocumentChecker interface {
	IsComplete(ctx context.Context, applicant *models.Applicant) (bool, error)
}

// ApplicationService drives the application state machine.
type ApplicationService struct {
	store  ApplicationStore
	docs   DocumentChecker
	events ApplicationEvents
	logger logger.Logger
}

func NewApplicationService(store ApplicationStore, docs DocumentChecker, events ApplicationEvents, log logger.Logger) *ApplicationService {
	if events == nil {
		events = NopApplicationEvents{}
	}
	return &ApplicationService{store: store, docs: docs, events: events, logger: log}
}

// Create files a new application in pending. Duplicate applications to the
// same posting are rejected.
func (s *ApplicationService) Create(ctx context.Context, applicantID, jobID int64, message string) (*models.Application, error) {
	exists, err := s.store.HasApplication(ctx, applicantID, jobID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewValidationError("job_posting_id", "already applied to this posting")
	}

	now := time.Now().UTC()
	app := &models.Application{
		ApplicantID:  applicantID,
		JobPostingID: jobID,
		Status:       models.AppPending,
		Message:      message,
		AppliedAt:    now,
		UpdatedAt:    now,
	}
	id, err := s.store.InsertApplication(ctx, app)
	if err != nil {
		return nil, err
	}
	app.ID = id

	s.events.ApplicationReceived(ctx, app)
	s.logger.Info("application created", map[string]interface{}{
		"application_id": id,
		"applicant_id":   applicantID,
		"job_id":         jobID,
	})
	return app, nil
}

// Get reads an application.
func (s *ApplicationService) Get(ctx context.Context, id int64) (*models.Application, error) {
	return s.store.GetApplication(ctx, id)
}

// Transition applies a role-guarded status change.
func (s *ApplicationService) Transition(ctx context.Context, id int64, role models.Role, to models.ApplicationStatus) (*models.Application, error) {
	app, err := s.store.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	from := app.Status

	if err := s.allow(role, from, to); err != nil {
		return nil, err
	}
	if err := s.guard(ctx, app, from, to); err != nil {
		return nil, err
	}
	return s.apply(ctx, app, from, to, false)
}

// Force lets an administrator override the table. Withdrawing on behalf of
// the applicant is never permitted.
func (s *ApplicationService) Force(ctx context.Context, id int64, to models.ApplicationStatus) (*models.Application, error) {
	if to == models.AppWithdrawn {
		denied("application", "force_withdraw")
		return nil, apperrors.NewForbiddenError("force withdraw", string(models.RoleAdmin))
	}
	app, err := s.store.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard(ctx, app, app.Status, to); err != nil {
		return nil, err
	}
	return s.apply(ctx, app, app.Status, to, true)
}

// System applies a transition on behalf of internal automation (interview
// scheduling and completion). The role table is bypassed but guards still run.
func (s *ApplicationService) System(ctx context.Context, id int64, to models.ApplicationStatus) (*models.Application, error) {
	app, err := s.store.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard(ctx, app, app.Status, to); err != nil {
		return nil, err
	}
	return s.apply(ctx, app, app.Status, to, false)
}

// UpdateNotes rewrites notes; agency may touch both fields, the company only
// its own.
func (s *ApplicationService) UpdateNotes(ctx context.Context, id int64, role models.Role, companyNotes, agencyNotes *string) error {
	switch role {
	case models.RoleAdmin:
	case models.RoleCompany:
		agencyNotes = nil
	default:
		return apperrors.NewForbiddenError("update notes", string(role))
	}
	return s.store.UpdateApplicationNotes(ctx, id, companyNotes, agencyNotes, time.Now().UTC())
}

func (s *ApplicationService) allow(role models.Role, from, to models.ApplicationStatus) error {
	if role == models.RoleApplicant {
		if to == models.AppWithdrawn && !applicantWithdrawBlocked[from] {
			return nil
		}
		denied("application", "table")
		return apperrors.NewTransitionForbiddenError(string(from), string(to), string(role))
	}
	return check(applicationTable, "application", role, string(from), string(to))
}

// guard enforces preconditions shared by table and forced transitions.
func (s *ApplicationService) guard(ctx context.Context, app *models.Application, from, to models.ApplicationStatus) error {
	if from == models.AppPending && to != models.AppWithdrawn {
		applicant, err := s.store.GetApplicant(ctx, app.ApplicantID)
		if err != nil {
			return err
		}
		complete, err := s.docs.IsComplete(ctx, applicant)
		if err != nil {
			return err
		}
		if !complete {
			denied("application", "incomplete_documents")
			return apperrors.NewPreconditionFailedError(apperrors.ReasonIncompleteDocuments)
		}
	}
	return nil
}

// apply writes the guarded row update and dispatches side effects after it
// commits. The from-status guard in the UPDATE rejects a concurrent writer.
func (s *ApplicationService) apply(ctx context.Context, app *models.Application, from, to models.ApplicationStatus, forced bool) (*models.Application, error) {
	now := time.Now().UTC()
	updated, err := s.store.UpdateApplicationStatus(ctx, app.ID, from, to, now)
	if err != nil {
		return nil, err
	}
	if !updated {
		denied("application", "concurrent_update")
		return nil, apperrors.NewPreconditionFailedError("StatusChanged")
	}
	app.Status = to
	app.UpdatedAt = now
	applied("application", string(to))

	s.logger.Info("application transition", map[string]interface{}{
		"application_id": app.ID,
		"from":           string(from),
		"to":             string(to),
		"forced":         forced,
	})

	switch to {
	case models.AppSentToCompany:
		s.events.ApplicationSentToCompany(ctx, app)
	case models.AppRejected:
		s.events.ApplicationRejected(ctx, app)
	}
	return app, nil
}
