// internal/store/applications.go
package store

import (
	"context"
	"database/sql"
	"time"

	apperrors "github.com/TimLS94/IJP-Portal-sub000/internal/common/errors"
	"github.com/TimLS94/IJP-Portal-sub000/internal/models"
)

const applicationColumns = `
	id, applicant_id, job_posting_id, status, message,
	company_notes, agency_notes, applied_at, updated_at`

func scanApplication(row interface{ Scan(...interface{}) error }) (*models.Application, error) {
	var a models.Application
	err := row.Scan(
		&a.ID, &a.ApplicantID, &a.JobPostingID, &a.Status, &a.Message,
		&a.CompanyNotes, &a.AgencyNotes, &a.AppliedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetApplication loads one application by id.
func (s *Store) GetApplication(ctx context.Context, id int64) (*models.Application, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT`+applicationColumns+` FROM applications WHERE id = $1`, id)
	a, err := scanApplication(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("application", id)
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// InsertApplication files a new application.
func (s *Store) InsertApplication(ctx context.Context, app *models.Application) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO applications (
			applicant_id, job_posting_id, status, message, applied_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6) RETURNING id`,
		app.ApplicantID, app.JobPostingID, string(app.Status), app.Message,
		app.AppliedAt, app.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// HasApplication reports whether the applicant already applied to the posting.
func (s *Store) HasApplication(ctx context.Context, applicantID, jobID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM applications WHERE applicant_id = $1 AND job_posting_id = $2
		)`, applicantID, jobID).Scan(&exists)
	return exists, err
}

// UpdateApplicationStatus performs the guarded transition write. The
// from-status condition makes a lost race visible as zero rows updated.
func (s *Store) UpdateApplicationStatus(ctx context.Context, id int64, from, to models.ApplicationStatus, at time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE applications SET status = $3, updated_at = $4
		WHERE id = $1 AND status = $2`,
		id, string(from), string(to), at)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpdateApplicationNotes rewrites either notes field; nil leaves it alone.
func (s *Store) UpdateApplicationNotes(ctx context.Context, id int64, companyNotes, agencyNotes *string, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE applications SET
			company_notes = COALESCE($2, company_notes),
			agency_notes = COALESCE($3, agency_notes),
			updated_at = $4
		WHERE id = $1`,
		id, companyNotes, agencyNotes, at)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NewNotFoundError("application", id)
	}
	return nil
}

// ListApplicationsForJob returns the applications on one posting, newest first.
func (s *Store) ListApplicationsForJob(ctx context.Context, jobID int64) ([]models.Application, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT`+applicationColumns+` FROM applications
		 WHERE job_posting_id = $1 ORDER BY applied_at DESC`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// ListApplicationsForApplicant returns the applicant's applications.
func (s *Store) ListApplicationsForApplicant(ctx context.Context, applicantID int64) ([]models.Application, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT`+applicationColumns+` FROM applications
		 WHERE applicant_id = $1 ORDER BY applied_at DESC`, applicantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Application
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// CompanySeesApplicant grants a company document access while it has at least
// one application from the applicant on one of its postings.
func (s *Store) CompanySeesApplicant(ctx context.Context, companyID, applicantID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM applications a
			JOIN job_postings j ON j.id = a.job_posting_id
			WHERE a.applicant_id = $1 AND j.company_id = $2
		)`, applicantID, companyID).Scan(&exists)
	return exists, err
}
