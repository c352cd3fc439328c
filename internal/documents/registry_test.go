// internal/documents/registry_test.go
package documents

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/TimLS94/IJP-Portal-sub000/internal/common/errors"
	"github.com/TimLS94/IJP-Portal-sub000/internal/common/logger"
	"github.com/TimLS94/IJP-Portal-sub000/internal/models"
)

// ==========================
// Test Doubles
// ==========================

type fakeDocStore struct {
	docs      map[int64]*models.Document
	nextID    int64
	insertErr error
}

func newFakeDocStore() *fakeDocStore {
	return &fakeDocStore{docs: map[int64]*models.Document{}, nextID: 1}
}

func (f *fakeDocStore) InsertDocument(_ context.Context, doc *models.Document) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	id := f.nextID
	f.nextID++
	cp := *doc
	cp.ID = id
	f.docs[id] = &cp
	return id, nil
}

func (f *fakeDocStore) GetDocument(_ context.Context, id int64) (*models.Document, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("document", id)
	}
	cp := *doc
	return &cp, nil
}

func (f *fakeDocStore) ListDocuments(_ context.Context, applicantID int64) ([]models.Document, error) {
	var out []models.Document
	for _, d := range f.docs {
		if d.ApplicantID == applicantID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDocStore) DeleteDocument(_ context.Context, id int64) error {
	delete(f.docs, id)
	return nil
}

type memBackend struct {
	blobs map[string][]byte
}

func newMemBackend() *memBackend {
	return &memBackend{blobs: map[string][]byte{}}
}

func (b *memBackend) Upload(_ context.Context, key string, data []byte, _ string) (string, error) {
	b.blobs[key] = append([]byte(nil), data...)
	return key, nil
}

func (b *memBackend) Download(_ context.Context, key string) ([]byte, error) {
	data, ok := b.blobs[key]
	if !ok {
		return nil, apperrors.NewNotFoundError("blob", key)
	}
	return data, nil
}

func (b *memBackend) Delete(_ context.Context, key string) error {
	delete(b.blobs, key)
	return nil
}

func (b *memBackend) Exists(_ context.Context, key string) (bool, error) {
	_, ok := b.blobs[key]
	return ok, nil
}

type staticChecker struct{ sees bool }

func (c staticChecker) CompanySeesApplicant(context.Context, int64, int64) (bool, error) {
	return c.sees, nil
}

func newTestRegistry(store *fakeDocStore, backend *memBackend, sees bool) *Registry {
	return NewRegistry(store, backend, staticChecker{sees: sees}, logger.NewNop())
}

func pdfBytes() []byte {
	return []byte("%PDF-1.4 test content")
}

// ==========================
// Upload
// ==========================

func TestUpload(t *testing.T) {
	store := newFakeDocStore()
	backend := newMemBackend()
	reg := newTestRegistry(store, backend, false)

	doc, err := reg.Upload(context.Background(), 100, models.DocPassport, "pass.pdf", pdfBytes())
	require.NoError(t, err)
	assert.NotZero(t, doc.ID)
	assert.Equal(t, models.DocPassport, doc.Type)
	assert.Equal(t, "application/pdf", doc.MimeType)
	assert.Contains(t, doc.StorageKey, "documents/100/")

	blob, ok := backend.blobs[doc.StorageKey]
	require.True(t, ok)
	assert.True(t, bytes.Equal(pdfBytes(), blob))
}

func TestUpload_Validation(t *testing.T) {
	reg := newTestRegistry(newFakeDocStore(), newMemBackend(), false)
	ctx := context.Background()

	t.Run("empty file", func(t *testing.T) {
		_, err := reg.Upload(ctx, 100, models.DocPassport, "pass.pdf", nil)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeValidation, apperrors.CodeOf(err))
	})

	t.Run("oversized file", func(t *testing.T) {
		big := make([]byte, MaxUploadSize+1)
		copy(big, pdfMagic)
		_, err := reg.Upload(ctx, 100, models.DocPassport, "pass.pdf", big)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeValidation, apperrors.CodeOf(err))
	})

	t.Run("not a pdf", func(t *testing.T) {
		_, err := reg.Upload(ctx, 100, models.DocPassport, "pass.pdf", []byte("GIF89a"))
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeValidation, apperrors.CodeOf(err))
	})

	t.Run("unknown document type", func(t *testing.T) {
		_, err := reg.Upload(ctx, 100, "tax_return", "tax.pdf", pdfBytes())
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeValidation, apperrors.CodeOf(err))
	})
}

func TestUpload_RowFailureCleansBlob(t *testing.T) {
	store := newFakeDocStore()
	store.insertErr = apperrors.NewStorageError("insert document", nil)
	backend := newMemBackend()
	reg := newTestRegistry(store, backend, false)

	_, err := reg.Upload(context.Background(), 100, models.DocPassport, "pass.pdf", pdfBytes())
	require.Error(t, err)
	assert.Empty(t, backend.blobs)
}

// ==========================
// Completeness
// ==========================

func TestStatusFor(t *testing.T) {
	ctx := context.Background()

	upload := func(t *testing.T, reg *Registry, applicantID int64, types ...models.DocumentType) {
		t.Helper()
		for _, dt := range types {
			_, err := reg.Upload(ctx, applicantID, dt, string(dt)+".pdf", pdfBytes())
			require.NoError(t, err)
		}
	}

	t.Run("student with all required", func(t *testing.T) {
		reg := newTestRegistry(newFakeDocStore(), newMemBackend(), false)
		applicant := &models.Applicant{
			ID:            100,
			PositionTypes: []models.PositionCategory{models.CategoryStudentVacationJob},
		}
		upload(t, reg, 100, models.DocPassport, models.DocEnrollmentCertificate, models.DocAgencyDeclaration)

		st, err := reg.StatusFor(ctx, applicant)
		require.NoError(t, err)
		assert.True(t, st.Complete)
		assert.Empty(t, st.Missing)
	})

	t.Run("student missing enrollment", func(t *testing.T) {
		reg := newTestRegistry(newFakeDocStore(), newMemBackend(), false)
		applicant := &models.Applicant{
			ID:            100,
			PositionTypes: []models.PositionCategory{models.CategoryStudentVacationJob},
		}
		upload(t, reg, 100, models.DocPassport, models.DocAgencyDeclaration)

		st, err := reg.StatusFor(ctx, applicant)
		require.NoError(t, err)
		assert.False(t, st.Complete)
		assert.Equal(t, []models.DocumentType{models.DocEnrollmentCertificate}, st.Missing)
	})

	t.Run("multiple categories require the union", func(t *testing.T) {
		reg := newTestRegistry(newFakeDocStore(), newMemBackend(), false)
		applicant := &models.Applicant{
			ID: 100,
			PositionTypes: []models.PositionCategory{
				models.CategorySeasonalJob, models.CategorySkilledWorker,
			},
		}
		upload(t, reg, 100, models.DocPassport, models.DocCV)

		st, err := reg.StatusFor(ctx, applicant)
		require.NoError(t, err)
		assert.False(t, st.Complete)
		assert.Equal(t, []models.DocumentType{models.DocDiploma}, st.Missing)
	})

	t.Run("no category declared needs only a passport", func(t *testing.T) {
		reg := newTestRegistry(newFakeDocStore(), newMemBackend(), false)
		applicant := &models.Applicant{ID: 100}
		upload(t, reg, 100, models.DocPassport)

		ok, err := reg.IsComplete(ctx, applicant)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("optional documents do not block", func(t *testing.T) {
		reg := newTestRegistry(newFakeDocStore(), newMemBackend(), false)
		applicant := &models.Applicant{
			ID:            100,
			PositionTypes: []models.PositionCategory{models.CategorySeasonalJob},
		}
		upload(t, reg, 100, models.DocPassport)

		ok, err := reg.IsComplete(ctx, applicant)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

// ==========================
// Authorization
// ==========================

func TestDownload_Authorization(t *testing.T) {
	ctx := context.Background()

	setup := func(sees bool) (*Registry, *models.Document) {
		store := newFakeDocStore()
		backend := newMemBackend()
		reg := newTestRegistry(store, backend, sees)
		doc, err := reg.Upload(ctx, 100, models.DocPassport, "pass.pdf", pdfBytes())
		if err != nil {
			panic(err)
		}
		return reg, doc
	}

	t.Run("owner", func(t *testing.T) {
		reg, doc := setup(false)
		_, data, err := reg.Download(ctx, Actor{Role: models.RoleApplicant, ApplicantID: 100}, doc.ID)
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	})

	t.Run("other applicant denied", func(t *testing.T) {
		reg, doc := setup(false)
		_, _, err := reg.Download(ctx, Actor{Role: models.RoleApplicant, ApplicantID: 101}, doc.ID)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeForbidden, apperrors.CodeOf(err))
	})

	t.Run("admin", func(t *testing.T) {
		reg, doc := setup(false)
		_, _, err := reg.Download(ctx, Actor{Role: models.RoleAdmin}, doc.ID)
		require.NoError(t, err)
	})

	t.Run("company with live application", func(t *testing.T) {
		reg, doc := setup(true)
		_, _, err := reg.Download(ctx, Actor{Role: models.RoleCompany, CompanyID: 300}, doc.ID)
		require.NoError(t, err)
	})

	t.Run("company without live application denied", func(t *testing.T) {
		reg, doc := setup(false)
		_, _, err := reg.Download(ctx, Actor{Role: models.RoleCompany, CompanyID: 300}, doc.ID)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeForbidden, apperrors.CodeOf(err))
	})
}

func TestDelete_Authorization(t *testing.T) {
	ctx := context.Background()

	t.Run("owner deletes row and blob", func(t *testing.T) {
		store := newFakeDocStore()
		backend := newMemBackend()
		reg := newTestRegistry(store, backend, false)
		doc, err := reg.Upload(ctx, 100, models.DocPassport, "pass.pdf", pdfBytes())
		require.NoError(t, err)

		require.NoError(t, reg.Delete(ctx, Actor{Role: models.RoleApplicant, ApplicantID: 100}, doc.ID))
		assert.Empty(t, store.docs)
		assert.Empty(t, backend.blobs)
	})

	t.Run("company may not delete", func(t *testing.T) {
		store := newFakeDocStore()
		reg := newTestRegistry(store, newMemBackend(), true)
		doc, err := reg.Upload(ctx, 100, models.DocPassport, "pass.pdf", pdfBytes())
		require.NoError(t, err)

		err = reg.Delete(ctx, Actor{Role: models.RoleCompany, CompanyID: 300}, doc.ID)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeForbidden, apperrors.CodeOf(err))
	})
}

// ==========================
// Taxonomy
// ==========================

func TestRequirementsFor(t *testing.T) {
	req := RequirementsFor(models.CategoryStudentVacationJob)
	assert.Equal(t, []models.DocumentType{
		models.DocPassport, models.DocEnrollmentCertificate, models.DocAgencyDeclaration,
	}, req.Required)

	req = RequirementsFor("unknown")
	assert.Equal(t, []models.DocumentType{models.DocPassport}, req.Required)
	assert.Empty(t, req.Optional)
}

func TestCombinedRequired(t *testing.T) {
	got := CombinedRequired([]models.PositionCategory{
		models.CategoryStudentVacationJob,
		models.CategorySkilledWorker,
	})
	// union, deduplicated in first-seen order
	assert.Equal(t, []models.DocumentType{
		models.DocPassport, models.DocEnrollmentCertificate, models.DocAgencyDeclaration,
		models.DocCV, models.DocDiploma,
	}, got)
}
