// Package interview negotiates interview dates between a company and an
// applicant. The machine is bound to one application: proposing schedules the
// application, completion advances it to the post-interview phase.
package interview

import (
	"context"
	"time"

	apperrors "github.com/TimLS94/IJP-Portal-sub000/internal/common/errors"
	"github.com/TimLS94/IJP-Portal-sub000/internal/common/logger"
	"github.com/TimLS94/IJP-Portal-sub000/internal/models"
	"github.com/TimLS94/IJP-Portal-sub000/internal/workflow"
)

// Store is the persistence surface of the negotiator.
type Store interface {
	GetInterview(ctx context.Context, id int64) (*models.Interview, error)
	InsertInterview(ctx context.Context, iv *models.Interview) (int64, error)
	UpdateInterview(ctx context.Context, iv *models.Interview) error
	// ListDueInterviews returns confirmed interviews whose confirmed date lies
	// before the cutoff.
	ListDueInterviews(ctx context.Context, cutoff time.Time) ([]models.Interview, error)
	// ListUpcomingInterviews returns confirmed interviews inside the window
	// that have not had their reminder sent.
	ListUpcomingInterviews(ctx context.Context, from, to time.Time) ([]models.Interview, error)
	// GetInterviewAwaitingNewDates returns the application's interview in
	// needs_new_dates, or a NOT_FOUND error.
	GetInterviewAwaitingNewDates(ctx context.Context, applicationID int64) (*models.Interview, error)
}

// Events receives interview milestones for mail dispatch.
type Events interface {
	InterviewProposed(ctx context.Context, iv *models.Interview)
	InterviewConfirmed(ctx context.Context, iv *models.Interview)
	InterviewDeclined(ctx context.Context, iv *models.Interview, reason string)
	InterviewReminder(ctx context.Context, iv *models.Interview)
}

// NopEvents discards all events.
type NopEvents struct{}

func (NopEvents) InterviewProposed(context.Context, *models.Interview)         {}
func (NopEvents) InterviewConfirmed(context.Context, *models.Interview)        {}
func (NopEvents) InterviewDeclined(context.Context, *models.Interview, string) {}
func (NopEvents) InterviewReminder(context.Context, *models.Interview)         {}

// Service drives the interview machine.
type Service struct {
	store  Store
	apps   *workflow.ApplicationService
	events Events
	logger logger.Logger
}

func NewService(store Store, apps *workflow.ApplicationService, events Events, log logger.Logger) *Service {
	if events == nil {
		events = NopEvents{}
	}
	return &Service{store: store, apps: apps, events: events, logger: log}
}

// Proposal carries the company's offer.
type Proposal struct {
	ApplicationID int64
	Date1         time.Time
	Date2         *time.Time
	Location      string
	MeetingLink   string
	Notes         string
}

// Propose creates a proposed interview and moves the application to the
// interview phase. Allowed while the application sits with the company, or
// after a decline: the declined interview stays the only open one, so a new
// proposal supersedes it and the application keeps its status.
func (s *Service) Propose(ctx context.Context, p Proposal) (*models.Interview, error) {
	now := time.Now().UTC()
	if !p.Date1.After(now) {
		return nil, apperrors.NewValidationError("proposed_date_1", "must be in the future")
	}

	app, err := s.apps.Get(ctx, p.ApplicationID)
	if err != nil {
		return nil, err
	}

	var superseded *models.Interview
	switch app.Status {
	case models.AppSentToCompany, models.AppCompanyReview:
	case models.AppInterviewScheduled:
		superseded, err = s.store.GetInterviewAwaitingNewDates(ctx, p.ApplicationID)
		if err != nil {
			if apperrors.CodeOf(err) == apperrors.ErrCodeNotFound {
				return nil, apperrors.NewTransitionForbiddenError(
					string(app.Status), string(models.AppInterviewScheduled), string(models.RoleCompany))
			}
			return nil, err
		}
	default:
		return nil, apperrors.NewTransitionForbiddenError(
			string(app.Status), string(models.AppInterviewScheduled), string(models.RoleCompany))
	}

	iv := &models.Interview{
		ApplicationID: p.ApplicationID,
		ProposedDate1: p.Date1,
		ProposedDate2: p.Date2,
		Location:      p.Location,
		MeetingLink:   p.MeetingLink,
		CompanyNotes:  p.Notes,
		Status:        models.InterviewProposed,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	id, err := s.store.InsertInterview(ctx, iv)
	if err != nil {
		return nil, err
	}
	iv.ID = id

	if superseded != nil {
		superseded.Status = models.InterviewCancelled
		superseded.UpdatedAt = now
		if err := s.store.UpdateInterview(ctx, superseded); err != nil {
			s.logger.Error("superseded interview update failed", map[string]interface{}{
				"interview_id": superseded.ID,
				"error":        err.Error(),
			})
		}
	} else if _, err := s.apps.System(ctx, p.ApplicationID, models.AppInterviewScheduled); err != nil {
		s.logger.Error("application transition after interview proposal failed", map[string]interface{}{
			"interview_id":   id,
			"application_id": p.ApplicationID,
			"error":          err.Error(),
		})
	}

	s.events.InterviewProposed(ctx, iv)
	return iv, nil
}

// Confirm picks one of the two proposed slots.
func (s *Service) Confirm(ctx context.Context, interviewID int64, chosen int, notes string) (*models.Interview, error) {
	iv, err := s.store.GetInterview(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	if iv.Status != models.InterviewProposed {
		return nil, apperrors.NewTransitionForbiddenError(
			string(iv.Status), string(models.InterviewConfirmed), string(models.RoleApplicant))
	}

	switch chosen {
	case 1:
		d := iv.ProposedDate1
		iv.ConfirmedDate = &d
	case 2:
		if iv.ProposedDate2 == nil {
			return nil, apperrors.NewValidationError("chosen", "no second slot was proposed")
		}
		d := *iv.ProposedDate2
		iv.ConfirmedDate = &d
	default:
		return nil, apperrors.NewValidationError("chosen", "must be 1 or 2")
	}

	iv.Status = models.InterviewConfirmed
	iv.ApplicantNotes = notes
	iv.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateInterview(ctx, iv); err != nil {
		return nil, err
	}

	s.events.InterviewConfirmed(ctx, iv)
	return iv, nil
}

// Decline rejects both slots. The interview lands in needs_new_dates and the
// company has to propose again; the application keeps its status.
func (s *Service) Decline(ctx context.Context, interviewID int64, reason string) (*models.Interview, error) {
	iv, err := s.store.GetInterview(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	if iv.Status != models.InterviewProposed {
		return nil, apperrors.NewTransitionForbiddenError(
			string(iv.Status), string(models.InterviewNeedsNewDate), string(models.RoleApplicant))
	}

	iv.Status = models.InterviewNeedsNewDate
	iv.ApplicantNotes = reason
	iv.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateInterview(ctx, iv); err != nil {
		return nil, err
	}

	s.events.InterviewDeclined(ctx, iv, reason)
	return iv, nil
}

// Cancel terminates the negotiation from either side.
func (s *Service) Cancel(ctx context.Context, interviewID int64) (*models.Interview, error) {
	iv, err := s.store.GetInterview(ctx, interviewID)
	if err != nil {
		return nil, err
	}
	switch iv.Status {
	case models.InterviewCompleted, models.InterviewCancelled:
		return nil, apperrors.NewTransitionForbiddenError(
			string(iv.Status), string(models.InterviewCancelled), "any")
	}

	iv.Status = models.InterviewCancelled
	iv.UpdatedAt = time.Now().UTC()
	if err := s.store.UpdateInterview(ctx, iv); err != nil {
		return nil, err
	}
	return iv, nil
}

// CompleteDue sweeps confirmed interviews whose slot has passed, marking them
// completed and advancing their applications. Returns the number completed.
func (s *Service) CompleteDue(ctx context.Context, now time.Time) (int, error) {
	due, err := s.store.ListDueInterviews(ctx, now)
	if err != nil {
		return 0, err
	}

	completed := 0
	for i := range due {
		iv := &due[i]
		iv.Status = models.InterviewCompleted
		iv.UpdatedAt = now
		if err := s.store.UpdateInterview(ctx, iv); err != nil {
			s.logger.Error("interview completion failed", map[string]interface{}{
				"interview_id": iv.ID,
				"error":        err.Error(),
			})
			continue
		}
		if _, err := s.apps.System(ctx, iv.ApplicationID, models.AppInterviewDone); err != nil {
			s.logger.Error("application transition after interview completion failed", map[string]interface{}{
				"interview_id":   iv.ID,
				"application_id": iv.ApplicationID,
				"error":          err.Error(),
			})
		}
		completed++
	}
	return completed, nil
}

// SendReminders fires the one-shot reminder for confirmed interviews starting
// within the window.
func (s *Service) SendReminders(ctx context.Context, now time.Time, window time.Duration) (int, error) {
	upcoming, err := s.store.ListUpcomingInterviews(ctx, now, now.Add(window))
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range upcoming {
		iv := &upcoming[i]
		if iv.ReminderSent {
			continue
		}
		iv.ReminderSent = true
		iv.UpdatedAt = now
		if err := s.store.UpdateInterview(ctx, iv); err != nil {
			s.logger.Error("reminder bookkeeping failed", map[string]interface{}{
				"interview_id": iv.ID,
				"error":        err.Error(),
			})
			continue
		}
		s.events.InterviewReminder(ctx, iv)
		sent++
	}
	return sent, nil
}
