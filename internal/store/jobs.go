// internal/store/jobs.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	apperrors "github.com/TimLS94/IJP-Portal-sub000/internal/common/errors"
	"github.com/TimLS94/IJP-Portal-sub000/internal/common/validation"
	"github.com/TimLS94/IJP-Portal-sub000/internal/models"
)

const jobColumns = `
	j.id, j.company_id, j.title, j.category, j.employment_type,
	j.description, j.tasks, j.requirements, j.benefits, j.translations,
	j.location, j.street, j.postal_code, j.city, j.country, j.accommodation,
	j.start_date, j.end_date,
	j.salary_min, j.salary_max, j.salary_period,
	j.german_required, j.english_required, j.other_lang_reqs,
	j.deadline, j.is_active, j.is_archived, j.archived_at,
	j.slug, j.created_at, j.updated_at`

func scanJob(row interface{ Scan(...interface{}) error }, withCompany bool) (*models.JobWithCompany, error) {
	var (
		job          models.JobWithCompany
		translations []byte
		langReqs     []byte
		salaryPeriod sql.NullString
		companyName  sql.NullString
	)

	dest := []interface{}{
		&job.ID, &job.CompanyID, &job.Title, &job.Category, &job.EmploymentType,
		&job.Description, &job.Tasks, &job.Requirements, &job.Benefits, &translations,
		&job.Location, &job.Street, &job.PostalCode, &job.City, &job.Country, &job.Accommodation,
		&job.StartDate, &job.EndDate,
		&job.SalaryMin, &job.SalaryMax, &salaryPeriod,
		&job.GermanRequired, &job.EnglishRequired, &langReqs,
		&job.Deadline, &job.IsActive, &job.IsArchived, &job.ArchivedAt,
		&job.Slug, &job.CreatedAt, &job.UpdatedAt,
	}
	if withCompany {
		dest = append(dest, &companyName)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	job.SalaryPeriod = models.SalaryPeriod(salaryPeriod.String)
	job.CompanyName = companyName.String
	if err := unmarshalJSON(translations, &job.Translations); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(langReqs, &job.OtherLangReqs); err != nil {
		return nil, err
	}
	return &job, nil
}

// GetJobWithCompany loads one posting joined with its company name.
func (s *Store) GetJobWithCompany(ctx context.Context, jobID int64) (*models.JobWithCompany, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT`+jobColumns+`, c.name
		 FROM job_postings j
		 JOIN companies c ON c.id = j.company_id
		 WHERE j.id = $1`, jobID)
	job, err := scanJob(row, true)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("job posting", jobID)
	}
	if err != nil {
		return nil, err
	}
	return job, nil
}

// InsertJobPosting validates the translations column and files the row.
func (s *Store) InsertJobPosting(ctx context.Context, job *models.JobPosting) (int64, error) {
	translations, langReqs, err := jobJSONColumns(job)
	if err != nil {
		return 0, err
	}

	var id int64
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO job_postings (
			company_id, title, category, employment_type,
			description, tasks, requirements, benefits, translations,
			location, street, postal_code, city, country, accommodation,
			start_date, end_date, salary_min, salary_max, salary_period,
			german_required, english_required, other_lang_reqs,
			deadline, is_active, is_archived, slug, created_at, updated_at
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,
			$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,false,$26,$27,$28
		) RETURNING id`,
		job.CompanyID, job.Title, string(job.Category), job.EmploymentType,
		job.Description, job.Tasks, job.Requirements, job.Benefits, translations,
		job.Location, job.Street, job.PostalCode, job.City, job.Country, job.Accommodation,
		job.StartDate, job.EndDate, job.SalaryMin, job.SalaryMax, string(job.SalaryPeriod),
		string(job.GermanRequired), string(job.EnglishRequired), langReqs,
		job.Deadline, job.IsActive, job.Slug, job.CreatedAt, job.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateJobPosting rewrites the mutable fields.
func (s *Store) UpdateJobPosting(ctx context.Context, job *models.JobPosting) error {
	translations, langReqs, err := jobJSONColumns(job)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE job_postings SET
			title = $2, category = $3, employment_type = $4,
			description = $5, tasks = $6, requirements = $7, benefits = $8,
			translations = $9,
			location = $10, street = $11, postal_code = $12, city = $13,
			country = $14, accommodation = $15,
			start_date = $16, end_date = $17,
			salary_min = $18, salary_max = $19, salary_period = $20,
			german_required = $21, english_required = $22, other_lang_reqs = $23,
			deadline = $24, slug = $25, updated_at = $26
		WHERE id = $1`,
		job.ID, job.Title, string(job.Category), job.EmploymentType,
		job.Description, job.Tasks, job.Requirements, job.Benefits,
		translations,
		job.Location, job.Street, job.PostalCode, job.City,
		job.Country, job.Accommodation,
		job.StartDate, job.EndDate,
		job.SalaryMin, job.SalaryMax, string(job.SalaryPeriod),
		string(job.GermanRequired), string(job.EnglishRequired), langReqs,
		job.Deadline, job.Slug, job.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NewNotFoundError("job posting", job.ID)
	}
	return nil
}

// SetJobActive flips the active flag.
func (s *Store) SetJobActive(ctx context.Context, jobID int64, active bool, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE job_postings SET is_active = $2, updated_at = $3 WHERE id = $1`,
		jobID, active, at)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NewNotFoundError("job posting", jobID)
	}
	return nil
}

// ArchiveJob retires the posting and stamps archived_at.
func (s *Store) ArchiveJob(ctx context.Context, jobID int64, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE job_postings
		SET is_active = false, is_archived = true, archived_at = $2, updated_at = $2
		WHERE id = $1 AND is_archived = false`,
		jobID, at)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NewNotFoundError("job posting", jobID)
	}
	return nil
}

// ListExpiredActiveJobIDs returns active unarchived postings past deadline.
func (s *Store) ListExpiredActiveJobIDs(ctx context.Context, cutoff time.Time) ([]int64, error) {
	return s.listJobIDs(ctx, `
		SELECT id FROM job_postings
		WHERE is_active = true AND is_archived = false
		  AND deadline IS NOT NULL AND deadline < $1
		ORDER BY id`, cutoff)
}

// ListArchivedJobIDsBefore returns postings archived before the cutoff.
func (s *Store) ListArchivedJobIDsBefore(ctx context.Context, cutoff time.Time) ([]int64, error) {
	return s.listJobIDs(ctx, `
		SELECT id FROM job_postings
		WHERE is_archived = true AND archived_at IS NOT NULL AND archived_at < $1
		ORDER BY id`, cutoff)
}

func (s *Store) listJobIDs(ctx context.Context, query string, args ...interface{}) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteJob permanently removes a posting and its dependents.
func (s *Store) DeleteJob(ctx context.Context, jobID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM interviews WHERE application_id IN (
			SELECT id FROM applications WHERE job_posting_id = $1)`,
		`DELETE FROM applications WHERE job_posting_id = $1`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, jobID); err != nil {
			return err
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM job_postings WHERE id = $1`, jobID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NewNotFoundError("job posting", jobID)
	}
	return tx.Commit()
}

// jobJSONColumns validates and encodes the two JSON columns.
func jobJSONColumns(job *models.JobPosting) (interface{}, interface{}, error) {
	var translations interface{}
	if job.Translations != nil {
		raw, err := json.Marshal(job.Translations)
		if err != nil {
			return nil, nil, err
		}
		if err := validation.ValidateColumn("translations", raw); err != nil {
			return nil, nil, apperrors.NewValidationError("translations", err.Error())
		}
		translations = raw
	}

	var langReqs interface{}
	if job.OtherLangReqs != nil {
		raw, err := json.Marshal(job.OtherLangReqs)
		if err != nil {
			return nil, nil, err
		}
		langReqs = raw
	}
	return translations, langReqs, nil
}
