// internal/workflow/jobrequest_test.go
package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/TimLS94/IJP-Portal-sub000/internal/common/errors"
	"github.com/TimLS94/IJP-Portal-sub000/internal/common/logger"
	"github.com/TimLS94/IJP-Portal-sub000/internal/models"
)

type fakeJobRequestStore struct {
	requests   map[int64]*models.JobRequest
	nextID     int64
	failUpdate bool
}

func newFakeJobRequestStore() *fakeJobRequestStore {
	return &fakeJobRequestStore{requests: map[int64]*models.JobRequest{}, nextID: 1}
}

func (f *fakeJobRequestStore) seed(status models.JobRequestStatus, consent bool) *models.JobRequest {
	jr := &models.JobRequest{
		ID:          f.nextID,
		ApplicantID: 100,
		Category:    models.CategorySeasonalJob,
		Status:      status,
	}
	if consent {
		now := time.Now().UTC()
		jr.PrivacyConsent = true
		jr.PrivacyConsentDate = &now
		jr.PrivacyConsentText = "Ich stimme der Verarbeitung meiner Daten zu."
	}
	f.requests[jr.ID] = jr
	f.nextID++
	return jr
}

func (f *fakeJobRequestStore) GetJobRequest(_ context.Context, id int64) (*models.JobRequest, error) {
	jr, ok := f.requests[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("job_request", id)
	}
	cp := *jr
	return &cp, nil
}

func (f *fakeJobRequestStore) InsertJobRequest(_ context.Context, jr *models.JobRequest) (int64, error) {
	id := f.nextID
	f.nextID++
	cp := *jr
	cp.ID = id
	f.requests[id] = &cp
	return id, nil
}

func (f *fakeJobRequestStore) UpdateJobRequestStatus(_ context.Context, id int64, from, to models.JobRequestStatus, at time.Time) (bool, error) {
	if f.failUpdate {
		return false, nil
	}
	jr, ok := f.requests[id]
	if !ok || jr.Status != from {
		return false, nil
	}
	jr.Status = to
	jr.UpdatedAt = at
	return true, nil
}

func (f *fakeJobRequestStore) UpdateJobRequestOutcome(_ context.Context, jr *models.JobRequest) error {
	f.requests[jr.ID] = jr
	return nil
}

func newJobRequestService(store *fakeJobRequestStore) *JobRequestService {
	return NewJobRequestService(store, logger.NewNop())
}

func TestJobRequestCreate(t *testing.T) {
	store := newFakeJobRequestStore()
	svc := newJobRequestService(store)

	jr, err := svc.Create(context.Background(), &models.JobRequest{
		ApplicantID: 100,
		Category:    models.CategorySkilledWorker,
	})
	require.NoError(t, err)
	assert.Equal(t, models.JRPending, jr.Status)
	assert.NotZero(t, jr.ID)
}

func TestJobRequestCreate_UnknownCategory(t *testing.T) {
	svc := newJobRequestService(newFakeJobRequestStore())

	_, err := svc.Create(context.Background(), &models.JobRequest{Category: "gardening"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeValidation, apperrors.CodeOf(err))
}

func TestJobRequestTransition_AdminChain(t *testing.T) {
	store := newFakeJobRequestStore()
	jr := store.seed(models.JRPending, true)
	svc := newJobRequestService(store)
	ctx := context.Background()

	chain := []models.JobRequestStatus{
		models.JRIJPReview, models.JRIJPApproved, models.JRSearching, models.JRMatched,
		models.JRSentToCompany, models.JRCompanyReview, models.JRInterviewScheduled,
		models.JRInterviewDone, models.JRAccepted, models.JRContractSent,
		models.JRContractSigned, models.JRPlaced, models.JRCompleted,
	}
	for _, to := range chain {
		got, err := svc.Transition(ctx, jr.ID, models.RoleAdmin, to)
		require.NoError(t, err, "transition to %s", to)
		assert.Equal(t, to, got.Status)
	}
}

func TestJobRequestTransition_ConsentGuard(t *testing.T) {
	t.Run("leaving pending without consent", func(t *testing.T) {
		store := newFakeJobRequestStore()
		jr := store.seed(models.JRPending, false)
		svc := newJobRequestService(store)

		_, err := svc.Transition(context.Background(), jr.ID, models.RoleAdmin, models.JRIJPReview)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodePreconditionFailed, apperrors.CodeOf(err))

		var se *apperrors.StandardError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, apperrors.ReasonConsentMissing, se.Details)
	})

	t.Run("consent flag without text is not enough", func(t *testing.T) {
		store := newFakeJobRequestStore()
		jr := store.seed(models.JRPending, true)
		store.requests[jr.ID].PrivacyConsentText = "   "
		svc := newJobRequestService(store)

		_, err := svc.Transition(context.Background(), jr.ID, models.RoleAdmin, models.JRIJPReview)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodePreconditionFailed, apperrors.CodeOf(err))
	})

	t.Run("withdraw from pending needs no consent", func(t *testing.T) {
		store := newFakeJobRequestStore()
		jr := store.seed(models.JRPending, false)
		svc := newJobRequestService(store)

		got, err := svc.Transition(context.Background(), jr.ID, models.RoleApplicant, models.JRWithdrawn)
		require.NoError(t, err)
		assert.Equal(t, models.JRWithdrawn, got.Status)
	})

	t.Run("cancel from pending needs no consent", func(t *testing.T) {
		store := newFakeJobRequestStore()
		jr := store.seed(models.JRPending, false)
		svc := newJobRequestService(store)

		got, err := svc.Transition(context.Background(), jr.ID, models.RoleAdmin, models.JRCancelled)
		require.NoError(t, err)
		assert.Equal(t, models.JRCancelled, got.Status)
	})
}

func TestJobRequestTransition_CrossCuts(t *testing.T) {
	t.Run("on hold from mid-chain", func(t *testing.T) {
		store := newFakeJobRequestStore()
		jr := store.seed(models.JRSearching, true)
		svc := newJobRequestService(store)

		got, err := svc.Transition(context.Background(), jr.ID, models.RoleAdmin, models.JROnHold)
		require.NoError(t, err)
		assert.Equal(t, models.JROnHold, got.Status)
	})

	t.Run("cancel from terminal denied", func(t *testing.T) {
		store := newFakeJobRequestStore()
		jr := store.seed(models.JRCompleted, true)
		svc := newJobRequestService(store)

		_, err := svc.Transition(context.Background(), jr.ID, models.RoleAdmin, models.JRCancelled)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeTransitionForbidden, apperrors.CodeOf(err))
	})

	t.Run("applicant may only withdraw", func(t *testing.T) {
		store := newFakeJobRequestStore()
		jr := store.seed(models.JRSearching, true)
		svc := newJobRequestService(store)

		_, err := svc.Transition(context.Background(), jr.ID, models.RoleApplicant, models.JRMatched)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeTransitionForbidden, apperrors.CodeOf(err))
	})

	t.Run("applicant cannot withdraw from terminal", func(t *testing.T) {
		store := newFakeJobRequestStore()
		jr := store.seed(models.JRCancelled, true)
		svc := newJobRequestService(store)

		_, err := svc.Transition(context.Background(), jr.ID, models.RoleApplicant, models.JRWithdrawn)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeTransitionForbidden, apperrors.CodeOf(err))
	})

	t.Run("company has no say", func(t *testing.T) {
		store := newFakeJobRequestStore()
		jr := store.seed(models.JRSearching, true)
		svc := newJobRequestService(store)

		_, err := svc.Transition(context.Background(), jr.ID, models.RoleCompany, models.JRMatched)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeTransitionForbidden, apperrors.CodeOf(err))
	})
}

func TestJobRequestTransition_ConcurrentWriter(t *testing.T) {
	store := newFakeJobRequestStore()
	jr := store.seed(models.JRIJPReview, true)
	store.failUpdate = true
	svc := newJobRequestService(store)

	_, err := svc.Transition(context.Background(), jr.ID, models.RoleAdmin, models.JRIJPApproved)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodePreconditionFailed, apperrors.CodeOf(err))
}

func TestJobRequestRecordOutcome(t *testing.T) {
	store := newFakeJobRequestStore()
	jr := store.seed(models.JRPlaced, true)
	svc := newJobRequestService(store)

	interview := time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC)
	contract := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

	err := svc.RecordOutcome(context.Background(), jr.ID, "Hotel Adler", "Servicekraft",
		&interview, "https://meet.example.com/abc", &contract)
	require.NoError(t, err)

	got := store.requests[jr.ID]
	assert.Equal(t, "Hotel Adler", got.MatchedCompany)
	assert.Equal(t, "Servicekraft", got.MatchedTitle)
	assert.Equal(t, &interview, got.InterviewDate)
	assert.Equal(t, &contract, got.ContractDate)
}
