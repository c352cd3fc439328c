// internal/workflow/companyrequest.go
package workflow

import (
	"context"
	"time"

	apperrors "github.com/TimLS94/IJP-Portal-sub000/internal/common/errors"
	"github.com/TimLS94/IJP-Portal-sub000/internal/common/logger"
	"github.com/TimLS94/IJP-Portal-sub000/internal/models"
)

var companyRequestTable = Table{
	models.RoleAdmin: {
		string(models.CRPending):         {string(models.CRIJPReview)},
		string(models.CRIJPReview):       {string(models.CRIJPAccepted), string(models.CRIJPRejected)},
		string(models.CRIJPAccepted):     {string(models.CRInProgress)},
		string(models.CRInProgress):      {string(models.CRCandidatesFound)},
		string(models.CRCandidatesFound): {string(models.CRCandidatesSent)},
		string(models.CRCandidatesSent):  {string(models.CRCompanyReview)},
		string(models.CRCompanyReview):   {string(models.CRInterviews)},
		string(models.CRInterviews):      {string(models.CRCompleted)},
	},
	models.RoleCompany: {
		// A company may pull its own request before the agency picks it up.
		string(models.CRPending): {string(models.CRCancelled)},
	},
}

var companyRequestTerminal = map[models.CompanyRequestStatus]bool{
	models.CRIJPRejected: true,
	models.CRCompleted:   true,
	models.CROnHold:      true,
	models.CRCancelled:   true,
}

// CompanyRequestStore is the persistence surface of the company request machine.
type CompanyRequestStore interface {
	GetCompanyRequest(ctx context.Context, id int64) (*models.CompanyRequest, error)
	InsertCompanyRequest(ctx context.Context, cr *models.CompanyRequest) (int64, error)
	UpdateCompanyRequestStatus(ctx context.Context, id int64, from, to models.CompanyRequestStatus, at time.Time) (bool, error)
	UpdateCompanyRequestCounters(ctx context.Context, cr *models.CompanyRequest) error
}

// CompanyRequestService drives the company request machine and keeps the
// candidate counters consistent.
type CompanyRequestService struct {
	store  CompanyRequestStore
	logger logger.Logger
}

func NewCompanyRequestService(store CompanyRequestStore, log logger.Logger) *CompanyRequestService {
	return &CompanyRequestService{store: store, logger: log}
}

func (s *CompanyRequestService) Create(ctx context.Context, cr *models.CompanyRequest) (*models.CompanyRequest, error) {
	if _, err := models.ParseCompanyRequestType(string(cr.Type)); err != nil {
		return nil, err
	}
	if cr.PositionsNeeded < 1 {
		return nil, apperrors.NewValidationError("positions_needed", "must be at least 1")
	}
	now := time.Now().UTC()
	cr.Status = models.CRPending
	cr.PositionsFilled = 0
	cr.CandidatesProposed = 0
	cr.CandidatesHired = 0
	cr.CreatedAt = now
	cr.UpdatedAt = now

	id, err := s.store.InsertCompanyRequest(ctx, cr)
	if err != nil {
		return nil, err
	}
	cr.ID = id
	s.logger.Info("company request created", map[string]interface{}{
		"company_request_id": id,
		"company_id":         cr.CompanyID,
		"type":               string(cr.Type),
	})
	return cr, nil
}

func (s *CompanyRequestService) Get(ctx context.Context, id int64) (*models.CompanyRequest, error) {
	return s.store.GetCompanyRequest(ctx, id)
}

// Transition applies a role-guarded status change. Past pending only the
// agency drives the machine; on_hold and cancelled are agency cross-cuts.
func (s *CompanyRequestService) Transition(ctx context.Context, id int64, role models.Role, to models.CompanyRequestStatus) (*models.CompanyRequest, error) {
	cr, err := s.store.GetCompanyRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	from := cr.Status

	if role == models.RoleAdmin && (to == models.CROnHold || to == models.CRCancelled) {
		if companyRequestTerminal[from] {
			denied("company_request", "table")
			return nil, apperrors.NewTransitionForbiddenError(string(from), string(to), string(role))
		}
	} else if err := check(companyRequestTable, "company_request", role, string(from), string(to)); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	updated, err := s.store.UpdateCompanyRequestStatus(ctx, id, from, to, now)
	if err != nil {
		return nil, err
	}
	if !updated {
		denied("company_request", "concurrent_update")
		return nil, apperrors.NewPreconditionFailedError("StatusChanged")
	}
	cr.Status = to
	cr.UpdatedAt = now
	applied("company_request", string(to))

	s.logger.Info("company request transition", map[string]interface{}{
		"company_request_id": id,
		"from":               string(from),
		"to":                 string(to),
	})
	return cr, nil
}

// AdjustCounters applies deltas to the candidate bookkeeping while holding
// the invariants positions_filled <= positions_needed and
// candidates_hired <= candidates_proposed.
func (s *CompanyRequestService) AdjustCounters(ctx context.Context, id int64, proposedDelta, hiredDelta, filledDelta int) (*models.CompanyRequest, error) {
	cr, err := s.store.GetCompanyRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	cr.CandidatesProposed += proposedDelta
	cr.CandidatesHired += hiredDelta
	cr.PositionsFilled += filledDelta

	if cr.CandidatesProposed < 0 || cr.CandidatesHired < 0 || cr.PositionsFilled < 0 {
		return nil, apperrors.NewValidationError("counters", "counter may not go negative")
	}
	if cr.PositionsFilled > cr.PositionsNeeded {
		return nil, apperrors.NewValidationError("positions_filled", "exceeds positions_needed")
	}
	if cr.CandidatesHired > cr.CandidatesProposed {
		return nil, apperrors.NewValidationError("candidates_hired", "exceeds candidates_proposed")
	}

	cr.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateCompanyRequestCounters(ctx, cr); err != nil {
		return nil, err
	}
	return cr, nil
}
