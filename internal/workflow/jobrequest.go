// internal/workflow/jobrequest.go
package workflow

import (
	"context"
	"strings"
	"time"

	apperrors "github.com/TimLS94/IJP-Portal-sub000/internal/common/errors"
	"github.com/TimLS94/IJP-Portal-sub000/internal/common/logger"
	"github.com/TimLS94/IJP-Portal-sub000/internal/models"
)

// jobRequestChain is the agency's linear path; on_hold and cancelled are
// reachable from every non-terminal state.
var jobRequestTable = Table{
	models.RoleAdmin: {
		string(models.JRPending):            {string(models.JRIJPReview)},
		string(models.JRIJPReview):          {string(models.JRIJPApproved), string(models.JRIJPRejected)},
		string(models.JRIJPApproved):        {string(models.JRSearching)},
		string(models.JRSearching):          {string(models.JRMatched)},
		string(models.JRMatched):            {string(models.JRSentToCompany)},
		string(models.JRSentToCompany):      {string(models.JRCompanyReview)},
		string(models.JRCompanyReview):      {string(models.JRInterviewScheduled)},
		string(models.JRInterviewScheduled): {string(models.JRInterviewDone)},
		string(models.JRInterviewDone):      {string(models.JRAccepted), string(models.JRRejected)},
		string(models.JRAccepted):           {string(models.JRContractSent)},
		string(models.JRContractSent):       {string(models.JRContractSigned)},
		string(models.JRContractSigned):     {string(models.JRPlaced)},
		string(models.JRPlaced):             {string(models.JRCompleted)},
	},
}

var jobRequestTerminal = map[models.JobRequestStatus]bool{
	models.JRIJPRejected: true,
	models.JRRejected:    true,
	models.JRCompleted:   true,
	models.JROnHold:      true,
	models.JRCancelled:   true,
	models.JRWithdrawn:   true,
}

// JobRequestStore is the persistence surface of the job request machine.
type JobRequestStore interface {
	GetJobRequest(ctx context.Context, id int64) (*models.JobRequest, error)
	InsertJobRequest(ctx context.Context, jr *models.JobRequest) (int64, error)
	UpdateJobRequestStatus(ctx context.Context, id int64, from, to models.JobRequestStatus, at time.Time) (bool, error)
	UpdateJobRequestOutcome(ctx context.Context, jr *models.JobRequest) error
}

// JobRequestService drives the job request machine.
type JobRequestService struct {
	store  JobRequestStore
	logger logger.Logger
}

func NewJobRequestService(store JobRequestStore, log logger.Logger) *JobRequestService {
	return &JobRequestService{store: store, logger: log}
}

// Create files a new request in pending. Consent is collected here but only
// enforced when the request leaves pending.
func (s *JobRequestService) Create(ctx context.Context, jr *models.JobRequest) (*models.JobRequest, error) {
	if _, err := models.ParsePositionCategory(string(jr.Category)); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	jr.Status = models.JRPending
	jr.CreatedAt = now
	jr.UpdatedAt = now

	id, err := s.store.InsertJobRequest(ctx, jr)
	if err != nil {
		return nil, err
	}
	jr.ID = id
	s.logger.Info("job request created", map[string]interface{}{
		"job_request_id": id,
		"applicant_id":   jr.ApplicantID,
		"category":       string(jr.Category),
	})
	return jr, nil
}

func (s *JobRequestService) Get(ctx context.Context, id int64) (*models.JobRequest, error) {
	return s.store.GetJobRequest(ctx, id)
}

// Transition applies a role-guarded status change. Only the agency drives the
// chain; applicants may only withdraw, and never out of a terminal state.
func (s *JobRequestService) Transition(ctx context.Context, id int64, role models.Role, to models.JobRequestStatus) (*models.JobRequest, error) {
	jr, err := s.store.GetJobRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	from := jr.Status

	switch role {
	case models.RoleApplicant:
		if to != models.JRWithdrawn || jobRequestTerminal[from] {
			denied("job_request", "table")
			return nil, apperrors.NewTransitionForbiddenError(string(from), string(to), string(role))
		}
	case models.RoleAdmin:
		if to == models.JROnHold || to == models.JRCancelled {
			if jobRequestTerminal[from] {
				denied("job_request", "table")
				return nil, apperrors.NewTransitionForbiddenError(string(from), string(to), string(role))
			}
		} else if err := check(jobRequestTable, "job_request", role, string(from), string(to)); err != nil {
			return nil, err
		}
	default:
		denied("job_request", "table")
		return nil, apperrors.NewTransitionForbiddenError(string(from), string(to), string(role))
	}

	if from == models.JRPending && to != models.JRWithdrawn && to != models.JRCancelled {
		if !jr.PrivacyConsent || jr.PrivacyConsentDate == nil || strings.TrimSpace(jr.PrivacyConsentText) == "" {
			denied("job_request", "consent_missing")
			return nil, apperrors.NewPreconditionFailedError(apperrors.ReasonConsentMissing)
		}
	}

	now := time.Now().UTC()
	updated, err := s.store.UpdateJobRequestStatus(ctx, id, from, to, now)
	if err != nil {
		return nil, err
	}
	if !updated {
		denied("job_request", "concurrent_update")
		return nil, apperrors.NewPreconditionFailedError("StatusChanged")
	}
	jr.Status = to
	jr.UpdatedAt = now
	applied("job_request", string(to))

	s.logger.Info("job request transition", map[string]interface{}{
		"job_request_id": id,
		"from":           string(from),
		"to":             string(to),
	})
	return jr, nil
}

// RecordOutcome stores the placement details the agency negotiated.
func (s *JobRequestService) RecordOutcome(ctx context.Context, id int64, company, title string, interviewDate *time.Time, link string, contractDate *time.Time) error {
	jr, err := s.store.GetJobRequest(ctx, id)
	if err != nil {
		return err
	}
	jr.MatchedCompany = company
	jr.MatchedTitle = title
	jr.InterviewDate = interviewDate
	jr.InterviewLink = link
	jr.ContractDate = contractDate
	jr.UpdatedAt = time.Now().UTC()
	return s.store.UpdateJobRequestOutcome(ctx, jr)
}
