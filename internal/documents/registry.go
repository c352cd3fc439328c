// internal/documents/registry.go
package documents

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/TimLS94/IJP-Portal-sub000/internal/common/errors"
	"github.com/TimLS94/IJP-Portal-sub000/internal/common/logger"
	"github.com/TimLS94/IJP-Portal-sub000/internal/models"
	"github.com/TimLS94/IJP-Portal-sub000/internal/storage"
)

// MaxUploadSize is the hard cap for a single document.
const MaxUploadSize = 10 << 20

var pdfMagic = []byte("%PDF-")

// Store is the persistence surface the registry needs.
type Store interface {
	InsertDocument(ctx context.Context, doc *models.Document) (int64, error)
	GetDocument(ctx context.Context, id int64) (*models.Document, error)
	ListDocuments(ctx context.Context, applicantID int64) ([]models.Document, error)
	DeleteDocument(ctx context.Context, id int64) error
}

// ApplicationChecker answers whether a company currently has an application
// from the applicant in a state that grants document access.
type ApplicationChecker interface {
	CompanySeesApplicant(ctx context.Context, companyID, applicantID int64) (bool, error)
}

// Actor identifies the caller for authorization decisions.
type Actor struct {
	Role        models.Role
	ApplicantID int64
	CompanyID   int64
}

// Registry ties uploads to the storage backend and the documents table.
type Registry struct {
	store   Store
	backend storage.Backend
	apps    ApplicationChecker
	logger  logger.Logger
}

func NewRegistry(store Store, backend storage.Backend, apps ApplicationChecker, log logger.Logger) *Registry {
	return &Registry{store: store, backend: backend, apps: apps, logger: log}
}

// Upload validates and stores a document for an applicant. Only PDFs up to
// MaxUploadSize are accepted; the blob key embeds a fresh UUID so repeated
// uploads of the same type never collide.
func (r *Registry) Upload(ctx context.Context, applicantID int64, docType models.DocumentType, filename string, data []byte) (*models.Document, error) {
	if len(data) == 0 {
		return nil, apperrors.NewValidationError("file", "empty upload")
	}
	if len(data) > MaxUploadSize {
		return nil, apperrors.NewValidationError("file", fmt.Sprintf("file exceeds %d bytes", MaxUploadSize))
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return nil, apperrors.NewValidationError("file", "only PDF uploads are accepted")
	}
	if _, err := models.ParseDocumentType(string(docType)); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("documents/%d/%s.pdf", applicantID, uuid.NewString())
	storedKey, err := r.backend.Upload(ctx, key, data, "application/pdf")
	if err != nil {
		return nil, err
	}

	doc := &models.Document{
		ApplicantID:      applicantID,
		Type:             docType,
		StorageKey:       storedKey,
		OriginalFilename: filename,
		Size:             int64(len(data)),
		MimeType:         "application/pdf",
		UploadedAt:       time.Now().UTC(),
	}
	id, err := r.store.InsertDocument(ctx, doc)
	if err != nil {
		// The blob is orphaned at this point; remove it best-effort.
		if delErr := r.backend.Delete(ctx, storedKey); delErr != nil {
			r.logger.Warn("orphaned blob cleanup failed", map[string]interface{}{
				"key":   storedKey,
				"error": delErr.Error(),
			})
		}
		return nil, err
	}
	doc.ID = id

	r.logger.Info("document uploaded", map[string]interface{}{
		"applicant_id": applicantID,
		"type":         string(docType),
		"size":         doc.Size,
	})
	return doc, nil
}

// List returns all documents of an applicant, newest first (store ordering).
func (r *Registry) List(ctx context.Context, applicantID int64) ([]models.Document, error) {
	return r.store.ListDocuments(ctx, applicantID)
}

// Status reports completeness against the union of the applicant's categories.
type Status struct {
	Complete bool                  `json:"complete"`
	Missing  []models.DocumentType `json:"missing"`
	Uploaded []models.DocumentType `json:"uploaded"`
}

// StatusFor computes which required documents are still missing. An applicant
// without any category declared only needs a passport.
func (r *Registry) StatusFor(ctx context.Context, applicant *models.Applicant) (*Status, error) {
	docs, err := r.store.ListDocuments(ctx, applicant.ID)
	if err != nil {
		return nil, err
	}

	have := make(map[models.DocumentType]bool, len(docs))
	uploaded := make([]models.DocumentType, 0, len(docs))
	for _, d := range docs {
		if !have[d.Type] {
			have[d.Type] = true
			uploaded = append(uploaded, d.Type)
		}
	}

	categories := applicant.CategorySet()
	if len(categories) == 0 {
		categories = []models.PositionCategory{""}
	}

	var missing []models.DocumentType
	for _, t := range CombinedRequired(categories) {
		if !have[t] {
			missing = append(missing, t)
		}
	}

	return &Status{
		Complete: len(missing) == 0,
		Missing:  missing,
		Uploaded: uploaded,
	}, nil
}

// IsComplete is the guard the application workflow calls before an applicant
// may leave the initial state.
func (r *Registry) IsComplete(ctx context.Context, applicant *models.Applicant) (bool, error) {
	st, err := r.StatusFor(ctx, applicant)
	if err != nil {
		return false, err
	}
	return st.Complete, nil
}

// Download fetches the bytes after checking the actor may see the document.
// Owners and administrators always may; a company only while it has a live
// application from the applicant.
func (r *Registry) Download(ctx context.Context, actor Actor, documentID int64) (*models.Document, []byte, error) {
	doc, err := r.store.GetDocument(ctx, documentID)
	if err != nil {
		return nil, nil, err
	}
	if err := r.authorize(ctx, actor, doc); err != nil {
		return nil, nil, err
	}
	data, err := r.backend.Download(ctx, doc.StorageKey)
	if err != nil {
		return nil, nil, err
	}
	return doc, data, nil
}

// Delete removes the row and then the blob. Only the owner or an
// administrator may delete.
func (r *Registry) Delete(ctx context.Context, actor Actor, documentID int64) error {
	doc, err := r.store.GetDocument(ctx, documentID)
	if err != nil {
		return err
	}
	if actor.Role != models.RoleAdmin && !(actor.Role == models.RoleApplicant && actor.ApplicantID == doc.ApplicantID) {
		return apperrors.NewForbiddenError("delete document", string(actor.Role))
	}
	if err := r.store.DeleteDocument(ctx, documentID); err != nil {
		return err
	}
	if err := r.backend.Delete(ctx, doc.StorageKey); err != nil {
		r.logger.Warn("blob delete failed after row delete", map[string]interface{}{
			"document_id": documentID,
			"key":         doc.StorageKey,
			"error":       err.Error(),
		})
	}
	return nil
}

func (r *Registry) authorize(ctx context.Context, actor Actor, doc *models.Document) error {
	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleApplicant:
		if actor.ApplicantID == doc.ApplicantID {
			return nil
		}
	case models.RoleCompany:
		ok, err := r.apps.CompanySeesApplicant(ctx, actor.CompanyID, doc.ApplicantID)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return apperrors.NewForbiddenError("download document", string(actor.Role))
}
