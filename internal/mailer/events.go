// internal/mailer/events.go
package mailer

import (
	"context"

	"github.com/TimLS94/IJP-Portal-sub000/internal/common/logger"
	"github.com/TimLS94/IJP-Portal-sub000/internal/models"
	"github.com/TimLS94/IJP-Portal-sub000/internal/notify"
	"github.com/TimLS94/IJP-Portal-sub000/internal/slug"
)

// Directory resolves the entities a mail needs. Implemented by the store.
type Directory interface {
	GetApplicant(ctx context.Context, id int64) (*models.Applicant, error)
	GetCompany(ctx context.Context, id int64) (*models.Company, error)
	GetJobWithCompany(ctx context.Context, jobID int64) (*models.JobWithCompany, error)
	GetApplication(ctx context.Context, id int64) (*models.Application, error)
}

// Events turns workflow and interview milestones into outbound mail. All
// sends are best-effort: failures are logged and counted, never returned to
// the transition that caused them.
type Events struct {
	mailer  Mailer
	dir     Directory
	baseURL string
	logger  logger.Logger
}

func NewEvents(m Mailer, dir Directory, baseURL string, log logger.Logger) *Events {
	return &Events{mailer: m, dir: dir, baseURL: baseURL, logger: log}
}

func (e *Events) send(ctx context.Context, kind string, msg Message) {
	if msg.To == "" {
		return
	}
	err := e.mailer.Send(ctx, msg)
	recordSend(kind, err)
	if err != nil {
		e.logger.Error("mail send failed", map[string]interface{}{
			"kind":  kind,
			"to":    msg.To,
			"error": err.Error(),
		})
	}
}

// ApplicationReceived confirms the submission to the applicant.
func (e *Events) ApplicationReceived(ctx context.Context, app *models.Application) {
	applicant, err := e.dir.GetApplicant(ctx, app.ApplicantID)
	if err != nil {
		e.logger.Error("mail lookup failed", map[string]interface{}{"error": err.Error()})
		return
	}
	job, err := e.dir.GetJobWithCompany(ctx, app.JobPostingID)
	if err != nil {
		e.logger.Error("mail lookup failed", map[string]interface{}{"error": err.Error()})
		return
	}
	e.send(ctx, "application_received", applicationReceivedMessage(applicant, job.Title))
}

// ApplicationSentToCompany tells the company a vetted application arrived.
func (e *Events) ApplicationSentToCompany(ctx context.Context, app *models.Application) {
	applicant, err := e.dir.GetApplicant(ctx, app.ApplicantID)
	if err != nil {
		e.logger.Error("mail lookup failed", map[string]interface{}{"error": err.Error()})
		return
	}
	job, err := e.dir.GetJobWithCompany(ctx, app.JobPostingID)
	if err != nil {
		e.logger.Error("mail lookup failed", map[string]interface{}{"error": err.Error()})
		return
	}
	company, err := e.dir.GetCompany(ctx, job.CompanyID)
	if err != nil {
		e.logger.Error("mail lookup failed", map[string]interface{}{"error": err.Error()})
		return
	}
	e.send(ctx, "new_application", newApplicationMessage(company.Email, applicant.FullName(), job.Title))
}

// ApplicationRejected sends the company's templated rejection, if enabled.
func (e *Events) ApplicationRejected(ctx context.Context, app *models.Application) {
	job, err := e.dir.GetJobWithCompany(ctx, app.JobPostingID)
	if err != nil {
		e.logger.Error("mail lookup failed", map[string]interface{}{"error": err.Error()})
		return
	}
	company, err := e.dir.GetCompany(ctx, job.CompanyID)
	if err != nil {
		e.logger.Error("mail lookup failed", map[string]interface{}{"error": err.Error()})
		return
	}
	if !company.RejectionEmailEnabled {
		return
	}
	applicant, err := e.dir.GetApplicant(ctx, app.ApplicantID)
	if err != nil {
		e.logger.Error("mail lookup failed", map[string]interface{}{"error": err.Error()})
		return
	}

	subject, body := RenderRejection(company, applicant)
	e.send(ctx, "rejection", Message{To: applicant.Email, Subject: subject, Body: body})
}

// CompanyActivated welcomes a freshly unlocked company account.
func (e *Events) CompanyActivated(ctx context.Context, company *models.Company) {
	e.send(ctx, "company_activated", companyActivatedMessage(company))
}

// JobActivated tells the owning company its posting went live.
func (e *Events) JobActivated(ctx context.Context, job *models.JobWithCompany) {
	company, err := e.dir.GetCompany(ctx, job.CompanyID)
	if err != nil {
		e.logger.Error("mail lookup failed", map[string]interface{}{"error": err.Error()})
		return
	}
	e.send(ctx, "job_activated", jobActivatedMessage(company.Email, job.Title, e.baseURL+slug.JobURL(job.Slug, job.ID)))
}

// SendJobAlert implements the fan-out sink.
func (e *Events) SendJobAlert(ctx context.Context, alert notify.JobAlert) error {
	alert.JobURL = e.baseURL + alert.JobURL
	err := e.mailer.Send(ctx, jobAlertMessage(alert))
	recordSend("job_alert", err)
	return err
}

// interviewParties resolves applicant, job and company for an interview.
func (e *Events) interviewParties(ctx context.Context, iv *models.Interview) (*models.Applicant, *models.JobWithCompany, *models.Company, bool) {
	app, err := e.dir.GetApplication(ctx, iv.ApplicationID)
	if err != nil {
		e.logger.Error("mail lookup failed", map[string]interface{}{"error": err.Error()})
		return nil, nil, nil, false
	}
	applicant, err := e.dir.GetApplicant(ctx, app.ApplicantID)
	if err != nil {
		e.logger.Error("mail lookup failed", map[string]interface{}{"error": err.Error()})
		return nil, nil, nil, false
	}
	job, err := e.dir.GetJobWithCompany(ctx, app.JobPostingID)
	if err != nil {
		e.logger.Error("mail lookup failed", map[string]interface{}{"error": err.Error()})
		return nil, nil, nil, false
	}
	company, err := e.dir.GetCompany(ctx, job.CompanyID)
	if err != nil {
		e.logger.Error("mail lookup failed", map[string]interface{}{"error": err.Error()})
		return nil, nil, nil, false
	}
	return applicant, job, company, true
}

func (e *Events) InterviewProposed(ctx context.Context, iv *models.Interview) {
	applicant, _, company, ok := e.interviewParties(ctx, iv)
	if !ok {
		return
	}
	e.send(ctx, "interview_proposed", interviewProposedMessage(applicant, iv, company.Name))
}

func (e *Events) InterviewConfirmed(ctx context.Context, iv *models.Interview) {
	applicant, _, company, ok := e.interviewParties(ctx, iv)
	if !ok || iv.ConfirmedDate == nil {
		return
	}
	e.send(ctx, "interview_confirmed", interviewConfirmedMessage(company.Email, applicant.FullName(), *iv.ConfirmedDate))
}

func (e *Events) InterviewDeclined(ctx context.Context, iv *models.Interview, reason string) {
	applicant, _, company, ok := e.interviewParties(ctx, iv)
	if !ok {
		return
	}
	e.send(ctx, "interview_declined", interviewDeclinedMessage(company.Email, applicant.FullName(), reason))
}

func (e *Events) InterviewReminder(ctx context.Context, iv *models.Interview) {
	applicant, _, company, ok := e.interviewParties(ctx, iv)
	if !ok {
		return
	}
	e.send(ctx, "interview_reminder", interviewReminderMessage(applicant, iv, company.Name))
}
