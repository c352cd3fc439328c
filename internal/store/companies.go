// internal/store/companies.go
package store

import (
	"context"
	"database/sql"
	"time"

	apperrors "github.com/TimLS94/IJP-Portal-sub000/internal/common/errors"
	"github.com/TimLS94/IJP-Portal-sub000/internal/models"
)

const companyColumns = `
	id, name, contact_person, email, phone, street, postal_code, city, country,
	industry, size_band,
	rejection_email_enabled, rejection_subject, rejection_body,
	is_active, created_at, updated_at`

func scanCompany(row interface{ Scan(...interface{}) error }) (*models.Company, error) {
	var c models.Company
	err := row.Scan(
		&c.ID, &c.Name, &c.ContactPerson, &c.Email, &c.Phone,
		&c.Street, &c.PostalCode, &c.City, &c.Country,
		&c.Industry, &c.SizeBand,
		&c.RejectionEmailEnabled, &c.RejectionSubject, &c.RejectionBody,
		&c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetCompany loads one company by id.
func (s *Store) GetCompany(ctx context.Context, id int64) (*models.Company, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT`+companyColumns+` FROM companies WHERE id = $1`, id)
	c, err := scanCompany(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("company", id)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// InsertCompany files a new company; companies start inactive.
func (s *Store) InsertCompany(ctx context.Context, c *models.Company) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO companies (
			name, contact_person, email, phone, street, postal_code, city, country,
			industry, size_band,
			rejection_email_enabled, rejection_subject, rejection_body,
			is_active, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,false,$14,$14)
		RETURNING id`,
		c.Name, c.ContactPerson, c.Email, c.Phone, c.Street, c.PostalCode, c.City, c.Country,
		c.Industry, c.SizeBand,
		c.RejectionEmailEnabled, c.RejectionSubject, c.RejectionBody,
		time.Now().UTC(),
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateCompany rewrites the profile fields including the rejection template.
func (s *Store) UpdateCompany(ctx context.Context, c *models.Company) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE companies SET
			name = $2, contact_person = $3, email = $4, phone = $5,
			street = $6, postal_code = $7, city = $8, country = $9,
			industry = $10, size_band = $11,
			rejection_email_enabled = $12, rejection_subject = $13, rejection_body = $14,
			updated_at = $15
		WHERE id = $1`,
		c.ID, c.Name, c.ContactPerson, c.Email, c.Phone,
		c.Street, c.PostalCode, c.City, c.Country,
		c.Industry, c.SizeBand,
		c.RejectionEmailEnabled, c.RejectionSubject, c.RejectionBody,
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NewNotFoundError("company", c.ID)
	}
	return nil
}

// SetCompanyActive flips the activation flag (administrator action).
func (s *Store) SetCompanyActive(ctx context.Context, id int64, active bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE companies SET is_active = $2, updated_at = $3 WHERE id = $1`,
		id, active, time.Now().UTC())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NewNotFoundError("company", id)
	}
	return nil
}

// DeleteCompany removes the company and cascades through its postings,
// applications on those postings, their interviews and company requests.
func (s *Store) DeleteCompany(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		`DELETE FROM interviews WHERE application_id IN (
			SELECT a.id FROM applications a
			JOIN job_postings j ON j.id = a.job_posting_id
			WHERE j.company_id = $1)`,
		`DELETE FROM applications WHERE job_posting_id IN (
			SELECT id FROM job_postings WHERE company_id = $1)`,
		`DELETE FROM job_postings WHERE company_id = $1`,
		`DELETE FROM company_requests WHERE company_id = $1`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return err
		}
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NewNotFoundError("company", id)
	}
	return tx.Commit()
}
