// internal/store/interviews.go
package store

import (
	"context"
	"database/sql"
	"time"

	apperrors "github.com/TimLS94/IJP-Portal-sub000/internal/common/errors"
	"github.com/TimLS94/IJP-Portal-sub000/internal/models"
)

const interviewColumns = `
	id, application_id, proposed_date_1, proposed_date_2, confirmed_date,
	location, meeting_link, company_notes, applicant_notes,
	status, reminder_sent, created_at, updated_at`

func scanInterview(row interface{ Scan(...interface{}) error }) (*models.Interview, error) {
	var iv models.Interview
	err := row.Scan(
		&iv.ID, &iv.ApplicationID, &iv.ProposedDate1, &iv.ProposedDate2, &iv.ConfirmedDate,
		&iv.Location, &iv.MeetingLink, &iv.CompanyNotes, &iv.ApplicantNotes,
		&iv.Status, &iv.ReminderSent, &iv.CreatedAt, &iv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &iv, nil
}

// GetInterview loads one interview by id.
func (s *Store) GetInterview(ctx context.Context, id int64) (*models.Interview, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT`+interviewColumns+` FROM interviews WHERE id = $1`, id)
	iv, err := scanInterview(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("interview", id)
	}
	if err != nil {
		return nil, err
	}
	return iv, nil
}

// InsertInterview files a new interview.
func (s *Store) InsertInterview(ctx context.Context, iv *models.Interview) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO interviews (
			application_id, proposed_date_1, proposed_date_2,
			location, meeting_link, company_notes, applicant_notes,
			status, reminder_sent, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,false,$9,$10) RETURNING id`,
		iv.ApplicationID, iv.ProposedDate1, iv.ProposedDate2,
		iv.Location, iv.MeetingLink, iv.CompanyNotes, iv.ApplicantNotes,
		string(iv.Status), iv.CreatedAt, iv.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateInterview rewrites the mutable fields.
func (s *Store) UpdateInterview(ctx context.Context, iv *models.Interview) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE interviews SET
			proposed_date_1 = $2, proposed_date_2 = $3, confirmed_date = $4,
			location = $5, meeting_link = $6,
			company_notes = $7, applicant_notes = $8,
			status = $9, reminder_sent = $10, updated_at = $11
		WHERE id = $1`,
		iv.ID, iv.ProposedDate1, iv.ProposedDate2, iv.ConfirmedDate,
		iv.Location, iv.MeetingLink,
		iv.CompanyNotes, iv.ApplicantNotes,
		string(iv.Status), iv.ReminderSent, iv.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NewNotFoundError("interview", iv.ID)
	}
	return nil
}

// GetInterviewAwaitingNewDates returns the application's most recent
// interview in needs_new_dates, the one a re-proposal supersedes.
func (s *Store) GetInterviewAwaitingNewDates(ctx context.Context, applicationID int64) (*models.Interview, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT`+interviewColumns+` FROM interviews
		WHERE application_id = $1 AND status = $2
		ORDER BY id DESC LIMIT 1`,
		applicationID, string(models.InterviewNeedsNewDate))
	iv, err := scanInterview(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("interview", applicationID)
	}
	if err != nil {
		return nil, err
	}
	return iv, nil
}

// ListDueInterviews returns confirmed interviews whose slot has passed.
func (s *Store) ListDueInterviews(ctx context.Context, cutoff time.Time) ([]models.Interview, error) {
	return s.listInterviews(ctx, `
		SELECT`+interviewColumns+` FROM interviews
		WHERE status = $1 AND confirmed_date IS NOT NULL AND confirmed_date < $2
		ORDER BY confirmed_date`,
		string(models.InterviewConfirmed), cutoff)
}

// ListUpcomingInterviews returns confirmed interviews inside the reminder
// window that have not been reminded yet.
func (s *Store) ListUpcomingInterviews(ctx context.Context, from, to time.Time) ([]models.Interview, error) {
	return s.listInterviews(ctx, `
		SELECT`+interviewColumns+` FROM interviews
		WHERE status = $1 AND reminder_sent = false
		  AND confirmed_date IS NOT NULL AND confirmed_date >= $2 AND confirmed_date <= $3
		ORDER BY confirmed_date`,
		string(models.InterviewConfirmed), from, to)
}

func (s *Store) listInterviews(ctx context.Context, query string, args ...interface{}) ([]models.Interview, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Interview
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *iv)
	}
	return out, rows.Err()
}
