// internal/store/applicants.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/lib/pq"

	"github.com/TimLS94/IJP-Portal-sub000/internal/anabin"
	apperrors "github.com/TimLS94/IJP-Portal-sub000/internal/common/errors"
	"github.com/TimLS94/IJP-Portal-sub000/internal/common/validation"
	"github.com/TimLS94/IJP-Portal-sub000/internal/models"
)

const applicantColumns = `
	id, first_name, last_name, email, phone, date_of_birth, nationality, gender,
	street, postal_code, city, country,
	german_level, english_level, other_languages, work_experiences, experience_years,
	position_type, position_types,
	university, university_city, study_field, semester, break_start, break_end,
	desired_trade, school_degree, profession, degree, graduation_year,
	available_from, available_until, preferred_area,
	job_notifications,
	anabin_status, anabin_score, anabin_institution, anabin_inst_id,
	anabin_accredited, anabin_checked_by, anabin_checked_at,
	created_at, updated_at`

func scanApplicant(row interface{ Scan(...interface{}) error }) (*models.Applicant, error) {
	var (
		a             models.Applicant
		gender        sql.NullString
		otherLangs    []byte
		experiences   []byte
		positionType  sql.NullString
		positionTypes pq.StringArray
		anabinStatus  sql.NullString
	)
	err := row.Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.Phone, &a.DateOfBirth, &a.Nationality, &gender,
		&a.Street, &a.PostalCode, &a.City, &a.Country,
		&a.GermanLevel, &a.EnglishLevel, &otherLangs, &experiences, &a.ExperienceYears,
		&positionType, &positionTypes,
		&a.University, &a.UniversityCity, &a.StudyField, &a.Semester, &a.BreakStart, &a.BreakEnd,
		&a.DesiredTrade, &a.SchoolDegree, &a.Profession, &a.Degree, &a.GraduationYear,
		&a.AvailableFrom, &a.AvailableUntil, &a.PreferredArea,
		&a.JobNotifications,
		&anabinStatus, &a.AnabinScore, &a.AnabinInstitution, &a.AnabinInstID,
		&a.AnabinAccredited, &a.AnabinCheckedBy, &a.AnabinCheckedAt,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Gender = models.Gender(gender.String)
	a.PositionType = models.PositionCategory(positionType.String)
	for _, t := range positionTypes {
		a.PositionTypes = append(a.PositionTypes, models.PositionCategory(t))
	}
	a.AnabinStatus = models.AnabinStatus(anabinStatus.String)
	if a.AnabinStatus == "" {
		a.AnabinStatus = models.AnabinNotChecked
	}
	if err := unmarshalJSON(otherLangs, &a.OtherLanguages); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(experiences, &a.WorkExperiences); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetApplicant loads one applicant by id.
func (s *Store) GetApplicant(ctx context.Context, id int64) (*models.Applicant, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT`+applicantColumns+` FROM applicants WHERE id = $1`, id)
	a, err := scanApplicant(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("applicant", id)
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// InsertApplicant validates the JSON columns and files the row.
func (s *Store) InsertApplicant(ctx context.Context, a *models.Applicant) (int64, error) {
	otherLangs, experiences, err := applicantJSONColumns(a)
	if err != nil {
		return 0, err
	}

	types := make(pq.StringArray, 0, len(a.PositionTypes))
	for _, t := range a.PositionTypes {
		types = append(types, string(t))
	}

	var id int64
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO applicants (
			first_name, last_name, email, phone, date_of_birth, nationality, gender,
			street, postal_code, city, country,
			german_level, english_level, other_languages, work_experiences, experience_years,
			position_type, position_types,
			university, university_city, study_field, semester, break_start, break_end,
			desired_trade, school_degree, profession, degree, graduation_year,
			available_from, available_until, preferred_area,
			job_notifications, anabin_status, created_at, updated_at
		) VALUES (
			$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,
			$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29,$30,$31,$32,$33,$34,$35,$36
		) RETURNING id`,
		a.FirstName, a.LastName, a.Email, a.Phone, a.DateOfBirth, a.Nationality, string(a.Gender),
		a.Street, a.PostalCode, a.City, a.Country,
		string(a.GermanLevel), string(a.EnglishLevel), otherLangs, experiences, a.ExperienceYears,
		string(a.PositionType), types,
		a.University, a.UniversityCity, a.StudyField, a.Semester, a.BreakStart, a.BreakEnd,
		a.DesiredTrade, a.SchoolDegree, a.Profession, a.Degree, a.GraduationYear,
		a.AvailableFrom, a.AvailableUntil, a.PreferredArea,
		a.JobNotifications, string(models.AnabinNotChecked), a.CreatedAt, a.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateApplicant rewrites the profile fields.
func (s *Store) UpdateApplicant(ctx context.Context, a *models.Applicant) error {
	otherLangs, experiences, err := applicantJSONColumns(a)
	if err != nil {
		return err
	}

	types := make(pq.StringArray, 0, len(a.PositionTypes))
	for _, t := range a.PositionTypes {
		types = append(types, string(t))
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE applicants SET
			first_name = $2, last_name = $3, email = $4, phone = $5,
			date_of_birth = $6, nationality = $7, gender = $8,
			street = $9, postal_code = $10, city = $11, country = $12,
			german_level = $13, english_level = $14, other_languages = $15,
			work_experiences = $16, experience_years = $17,
			position_type = $18, position_types = $19,
			university = $20, university_city = $21, study_field = $22, semester = $23,
			break_start = $24, break_end = $25,
			desired_trade = $26, school_degree = $27, profession = $28,
			degree = $29, graduation_year = $30,
			available_from = $31, available_until = $32, preferred_area = $33,
			job_notifications = $34, updated_at = $35
		WHERE id = $1`,
		a.ID, a.FirstName, a.LastName, a.Email, a.Phone,
		a.DateOfBirth, a.Nationality, string(a.Gender),
		a.Street, a.PostalCode, a.City, a.Country,
		string(a.GermanLevel), string(a.EnglishLevel), otherLangs,
		experiences, a.ExperienceYears,
		string(a.PositionType), types,
		a.University, a.UniversityCity, a.StudyField, a.Semester,
		a.BreakStart, a.BreakEnd,
		a.DesiredTrade, a.SchoolDegree, a.Profession,
		a.Degree, a.GraduationYear,
		a.AvailableFrom, a.AvailableUntil, a.PreferredArea,
		a.JobNotifications, time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NewNotFoundError("applicant", a.ID)
	}
	return nil
}

// DeleteApplicant removes the applicant and cascades through applications,
// job requests, interviews and document rows inside one transaction. Blob
// deletion is the caller's concern (keys are returned).
func (s *Store) DeleteApplicant(ctx context.Context, id int64) ([]string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT storage_key FROM documents WHERE applicant_id = $1`, id)
	if err != nil {
		return nil, err
	}
	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			rows.Close()
			return nil, err
		}
		keys = append(keys, key)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, stmt := range []string{
		`DELETE FROM interviews WHERE application_id IN (SELECT id FROM applications WHERE applicant_id = $1)`,
		`DELETE FROM applications WHERE applicant_id = $1`,
		`DELETE FROM job_requests WHERE applicant_id = $1`,
		`DELETE FROM documents WHERE applicant_id = $1`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return nil, err
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM applicants WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, apperrors.NewNotFoundError("applicant", id)
	}
	return keys, tx.Commit()
}

// StreamOptedInApplicants walks all applicants with job notifications enabled
// without materializing the whole set.
func (s *Store) StreamOptedInApplicants(ctx context.Context, fn func(*models.Applicant) error) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT`+applicantColumns+` FROM applicants WHERE job_notifications = true ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanApplicant(rows)
		if err != nil {
			return err
		}
		if err := fn(a); err != nil {
			return err
		}
	}
	return rows.Err()
}

// UpdateApplicantAnabin records a verification outcome.
func (s *Store) UpdateApplicantAnabin(ctx context.Context, applicantID int64, outcome anabin.Outcome, instID string, checkedBy *int64, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE applicants SET
			anabin_status = $2, anabin_score = $3, anabin_institution = $4,
			anabin_inst_id = $5, anabin_accredited = $6,
			anabin_checked_by = $7, anabin_checked_at = $8, updated_at = $8
		WHERE id = $1`,
		applicantID, string(outcome.Status), outcome.Score, outcome.Institution,
		instID, outcome.Accredited, checkedBy, at,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NewNotFoundError("applicant", applicantID)
	}
	return nil
}

// applicantJSONColumns validates and encodes the two schema'd JSON columns.
func applicantJSONColumns(a *models.Applicant) (interface{}, interface{}, error) {
	var otherLangs interface{}
	if a.OtherLanguages != nil {
		raw, err := json.Marshal(a.OtherLanguages)
		if err != nil {
			return nil, nil, err
		}
		if err := validation.ValidateColumn("other_languages", raw); err != nil {
			return nil, nil, apperrors.NewValidationError("other_languages", err.Error())
		}
		otherLangs = raw
	}

	var experiences interface{}
	if a.WorkExperiences != nil {
		raw, err := json.Marshal(a.WorkExperiences)
		if err != nil {
			return nil, nil, err
		}
		if err := validation.ValidateColumn("work_experiences", raw); err != nil {
			return nil, nil, apperrors.NewValidationError("work_experiences", err.Error())
		}
		experiences = raw
	}
	return otherLangs, experiences, nil
}
