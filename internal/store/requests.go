// internal/store/requests.go
package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	apperrors "github.com/TimLS94/IJP-Portal-sub000/internal/common/errors"
	"github.com/TimLS94/IJP-Portal-sub000/internal/models"
)

const jobRequestColumns = `
	id, applicant_id, category, status,
	privacy_consent, privacy_consent_date, privacy_consent_text,
	preferred_location, preferred_start, notes,
	matched_company, matched_title, interview_date, interview_link, contract_date,
	assigned_admin_id, created_at, updated_at`

func scanJobRequest(row interface{ Scan(...interface{}) error }) (*models.JobRequest, error) {
	var jr models.JobRequest
	err := row.Scan(
		&jr.ID, &jr.ApplicantID, &jr.Category, &jr.Status,
		&jr.PrivacyConsent, &jr.PrivacyConsentDate, &jr.PrivacyConsentText,
		&jr.PreferredLocation, &jr.PreferredStart, &jr.Notes,
		&jr.MatchedCompany, &jr.MatchedTitle, &jr.InterviewDate, &jr.InterviewLink, &jr.ContractDate,
		&jr.AssignedAdminID, &jr.CreatedAt, &jr.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &jr, nil
}

// GetJobRequest loads one request by id.
func (s *Store) GetJobRequest(ctx context.Context, id int64) (*models.JobRequest, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT`+jobRequestColumns+` FROM job_requests WHERE id = $1`, id)
	jr, err := scanJobRequest(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("job request", id)
	}
	if err != nil {
		return nil, err
	}
	return jr, nil
}

// InsertJobRequest files a new request.
func (s *Store) InsertJobRequest(ctx context.Context, jr *models.JobRequest) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO job_requests (
			applicant_id, category, status,
			privacy_consent, privacy_consent_date, privacy_consent_text,
			preferred_location, preferred_start, notes,
			assigned_admin_id, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12) RETURNING id`,
		jr.ApplicantID, string(jr.Category), string(jr.Status),
		jr.PrivacyConsent, jr.PrivacyConsentDate, jr.PrivacyConsentText,
		jr.PreferredLocation, jr.PreferredStart, jr.Notes,
		jr.AssignedAdminID, jr.CreatedAt, jr.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateJobRequestStatus performs the guarded transition write.
func (s *Store) UpdateJobRequestStatus(ctx context.Context, id int64, from, to models.JobRequestStatus, at time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE job_requests SET status = $3, updated_at = $4
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

// UpdateJobRequestOutcome stores the placement fields.
func (s *Store) UpdateJobRequestOutcome(ctx context.Context, jr *models.JobRequest) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE job_requests SET
			matched_company = $2, matched_title = $3,
			interview_date = $4, interview_link = $5, contract_date = $6,
			updated_at = $7
		WHERE id = $1`,
		jr.ID, jr.MatchedCompany, jr.MatchedTitle,
		jr.InterviewDate, jr.InterviewLink, jr.ContractDate,
		jr.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NewNotFoundError("job request", jr.ID)
	}
	return nil
}

const companyRequestColumns = `
	id, company_id, type, status, title, description,
	positions_needed, positions_filled,
	start_date, end_date, deadline,
	additional_requirements, salary_range,
	job_posting_id, application_ids,
	candidates_proposed, candidates_hired,
	assigned_admin_id, created_at, updated_at`

func scanCompanyRequest(row interface{ Scan(...interface{}) error }) (*models.CompanyRequest, error) {
	var (
		cr      models.CompanyRequest
		addReqs []byte
		appIDs  pq.Int64Array
	)
	err := row.Scan(
		&cr.ID, &cr.CompanyID, &cr.Type, &cr.Status, &cr.Title, &cr.Description,
		&cr.PositionsNeeded, &cr.PositionsFilled,
		&cr.StartDate, &cr.EndDate, &cr.Deadline,
		&addReqs, &cr.SalaryRange,
		&cr.JobPostingID, &appIDs,
		&cr.CandidatesProposed, &cr.CandidatesHired,
		&cr.AssignedAdminID, &cr.CreatedAt, &cr.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	cr.ApplicationIDs = []int64(appIDs)
	if err := unmarshalJSON(addReqs, &cr.AdditionalRequirements); err != nil {
		return nil, err
	}
	return &cr, nil
}

// GetCompanyRequest loads one request by id.
func (s *Store) GetCompanyRequest(ctx context.Context, id int64) (*models.CompanyRequest, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT`+companyRequestColumns+` FROM company_requests WHERE id = $1`, id)
	cr, err := scanCompanyRequest(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("company request", id)
	}
	if err != nil {
		return nil, err
	}
	return cr, nil
}

// InsertCompanyRequest files a new request.
func (s *Store) InsertCompanyRequest(ctx context.Context, cr *models.CompanyRequest) (int64, error) {
	addReqs, err := marshalJSON(cr.AdditionalRequirements)
	if err != nil {
		return 0, err
	}

	var id int64
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO company_requests (
			company_id, type, status, title, description,
			positions_needed, positions_filled,
			start_date, end_date, deadline,
			additional_requirements, salary_range,
			job_posting_id, application_ids,
			candidates_proposed, candidates_hired,
			assigned_admin_id, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		RETURNING id`,
		cr.CompanyID, string(cr.Type), string(cr.Status), cr.Title, cr.Description,
		cr.PositionsNeeded, cr.PositionsFilled,
		cr.StartDate, cr.EndDate, cr.Deadline,
		addReqs, cr.SalaryRange,
		cr.JobPostingID, pq.Int64Array(cr.ApplicationIDs),
		cr.CandidatesProposed, cr.CandidatesHired,
		cr.AssignedAdminID, cr.CreatedAt, cr.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateCompanyRequestStatus performs the guarded transition write.
func (s *Store) UpdateCompanyRequestStatus(ctx context.Context, id int64, from, to models.CompanyRequestStatus, at time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE company_requests SET status = $3, updated_at = $4
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

// UpdateCompanyRequestCounters stores the candidate bookkeeping and linkage.
func (s *Store) UpdateCompanyRequestCounters(ctx context.Context, cr *models.CompanyRequest) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE company_requests SET
			positions_filled = $2, candidates_proposed = $3, candidates_hired = $4,
			job_posting_id = $5, application_ids = $6, updated_at = $7
		WHERE id = $1`,
		cr.ID, cr.PositionsFilled, cr.CandidatesProposed, cr.CandidatesHired,
		cr.JobPostingID, pq.Int64Array(cr.ApplicationIDs), cr.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NewNotFoundError("company request", cr.ID)
	}
	return nil
}
