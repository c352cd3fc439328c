// internal/store/documents.go
package store

import (
	"context"
	"database/sql"

	apperrors "github.com/TimLS94/IJP-Portal-sub000/internal/common/errors"
	"github.com/TimLS94/IJP-Portal-sub000/internal/models"
)

const documentColumns = `
	id, applicant_id, type, storage_key, original_filename, size, mime_type,
	verified, uploaded_at`

func scanDocument(row interface{ Scan(...interface{}) error }) (*models.Document, error) {
	var d models.Document
	err := row.Scan(
		&d.ID, &d.ApplicantID, &d.Type, &d.StorageKey, &d.OriginalFilename,
		&d.Size, &d.MimeType, &d.Verified, &d.UploadedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// InsertDocument files a new document row.
func (s *Store) InsertDocument(ctx context.Context, doc *models.Document) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO documents (
			applicant_id, type, storage_key, original_filename, size, mime_type,
			verified, uploaded_at
		) VALUES ($1,$2,$3,$4,$5,$6,false,$7) RETURNING id`,
		doc.ApplicantID, string(doc.Type), doc.StorageKey, doc.OriginalFilename,
		doc.Size, doc.MimeType, doc.UploadedAt,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetDocument loads one document by id.
func (s *Store) GetDocument(ctx context.Context, id int64) (*models.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT`+documentColumns+` FROM documents WHERE id = $1`, id)
	d, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError("document", id)
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

// ListDocuments returns all documents of an applicant, newest first.
func (s *Store) ListDocuments(ctx context.Context, applicantID int64) ([]models.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT`+documentColumns+` FROM documents
		 WHERE applicant_id = $1 ORDER BY uploaded_at DESC`, applicantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// DeleteDocument removes one document row.
func (s *Store) DeleteDocument(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NewNotFoundError("document", id)
	}
	return nil
}

// SetDocumentVerified flags a document as reviewed by an administrator.
func (s *Store) SetDocumentVerified(ctx context.Context, id int64, verified bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET verified = $2 WHERE id = $1`, id, verified)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.NewNotFoundError("document", id)
	}
	return nil
}
