// internal/anabin/verifier_test.go
package anabin

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/TimLS94/IJP-Portal-sub000/internal/common/errors"
	"github.com/TimLS94/IJP-Portal-sub000/internal/common/logger"
	"github.com/TimLS94/IJP-Portal-sub000/internal/models"
)

type fakeVerifyStore struct {
	applicant *models.Applicant

	savedOutcome *Outcome
	savedInstID  string
	savedBy      *int64
}

func (f *fakeVerifyStore) GetApplicant(_ context.Context, id int64) (*models.Applicant, error) {
	if f.applicant == nil || f.applicant.ID != id {
		return nil, apperrors.NewNotFoundError("applicant", id)
	}
	cp := *f.applicant
	return &cp, nil
}

func (f *fakeVerifyStore) UpdateApplicantAnabin(_ context.Context, _ int64, outcome Outcome, instID string, checkedBy *int64, _ time.Time) error {
	f.savedOutcome = &outcome
	f.savedInstID = instID
	f.savedBy = checkedBy
	return nil
}

func newVerifier(store *fakeVerifyStore, baseURL string) *Verifier {
	return NewVerifier(newSearcher(baseURL), nil, store, logger.NewNop())
}

func declaredApplicant() *models.Applicant {
	return &models.Applicant{
		ID:             100,
		University:     "Universität Belgrad",
		UniversityCity: "Belgrad",
		Country:        "Serbia",
	}
}

func TestAutoVerify_Verified(t *testing.T) {
	srv, _ := registryServer(t, resultTable, http.StatusOK)
	store := &fakeVerifyStore{applicant: declaredApplicant()}

	outcome, err := newVerifier(store, srv.URL).AutoVerify(context.Background(), 100, 9)
	require.NoError(t, err)

	assert.Equal(t, models.AnabinVerified, outcome.Status)
	require.NotNil(t, outcome.Score)
	assert.Equal(t, 100, *outcome.Score)
	assert.Equal(t, "Universität Belgrad", outcome.Institution)
	assert.True(t, outcome.Accredited)

	require.NotNil(t, store.savedOutcome)
	assert.Equal(t, "inst-1", store.savedInstID)
	require.NotNil(t, store.savedBy)
	assert.Equal(t, int64(9), *store.savedBy)
}

func TestAutoVerify_NoRows(t *testing.T) {
	srv, _ := registryServer(t, "<html><body><table><tbody></tbody></table></body></html>", http.StatusOK)
	store := &fakeVerifyStore{applicant: declaredApplicant()}

	outcome, err := newVerifier(store, srv.URL).AutoVerify(context.Background(), 100, 9)
	require.NoError(t, err)
	assert.Equal(t, models.AnabinNotFound, outcome.Status)
	assert.NotEmpty(t, outcome.Note)
	assert.Empty(t, store.savedInstID)
}

func TestAutoVerify_UpstreamFailureRecorded(t *testing.T) {
	srv, _ := registryServer(t, "maintenance", http.StatusServiceUnavailable)
	store := &fakeVerifyStore{applicant: declaredApplicant()}

	outcome, err := newVerifier(store, srv.URL).AutoVerify(context.Background(), 100, 9)
	require.NoError(t, err)
	assert.Equal(t, models.AnabinError, outcome.Status)
	assert.NotEmpty(t, outcome.Note)

	require.NotNil(t, store.savedOutcome)
	assert.Equal(t, models.AnabinError, store.savedOutcome.Status)
}

func TestAutoVerify_NoUniversityDeclared(t *testing.T) {
	a := declaredApplicant()
	a.University = ""
	store := &fakeVerifyStore{applicant: a}

	_, err := newVerifier(store, "http://127.0.0.1:0").AutoVerify(context.Background(), 100, 9)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeValidation, apperrors.CodeOf(err))
	assert.Nil(t, store.savedOutcome)
}

func TestAutoVerify_ApplicantMissing(t *testing.T) {
	store := &fakeVerifyStore{}

	_, err := newVerifier(store, "http://127.0.0.1:0").AutoVerify(context.Background(), 100, 9)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.CodeOf(err))
}
