// internal/anabin/verifier.go
package anabin

import (
	"context"
	"time"

	apperrors "github.com/TimLS94/IJP-Portal-sub000/internal/common/errors"
	"github.com/TimLS94/IJP-Portal-sub000/internal/common/logger"
	"github.com/TimLS94/IJP-Portal-sub000/internal/common/metrics"
	"github.com/TimLS94/IJP-Portal-sub000/internal/models"
)

// Outcome is what AutoVerify wrote to the applicant record.
type Outcome struct {
	Status      models.AnabinStatus `json:"status"`
	Score       *int                `json:"score,omitempty"`
	Institution string              `json:"institution,omitempty"`
	Accredited  bool                `json:"accredited"`
	Note        string              `json:"note,omitempty"`
}

// Store is the persistence surface of the verifier.
type Store interface {
	GetApplicant(ctx context.Context, id int64) (*models.Applicant, error)
	UpdateApplicantAnabin(ctx context.Context, applicantID int64, outcome Outcome, instID string, checkedBy *int64, at time.Time) error
}

// Verifier binds registry search and PDF snapshot to the applicant record.
type Verifier struct {
	searcher *Searcher
	cache    *PDFCache
	store    Store
	logger   logger.Logger
}

func NewVerifier(searcher *Searcher, cache *PDFCache, store Store, log logger.Logger) *Verifier {
	return &Verifier{searcher: searcher, cache: cache, store: store, logger: log}
}

// Search runs a side-effect-free registry query; nothing is written.
func (v *Verifier) Search(ctx context.Context, name, country, city string) ([]Match, error) {
	return v.searcher.Search(ctx, name, country, city)
}

// AutoVerify searches the registry for the applicant's declared university
// and records the classified outcome. Upstream failures are recorded as
// status error with a diagnostic note rather than returned silently.
func (v *Verifier) AutoVerify(ctx context.Context, applicantID int64, adminID int64) (*Outcome, error) {
	applicant, err := v.store.GetApplicant(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	if applicant.University == "" {
		return nil, apperrors.NewValidationError("university", "applicant has no university declared")
	}

	now := time.Now().UTC()
	checkedBy := &adminID

	matches, err := v.searcher.Search(ctx, applicant.University, applicant.Country, applicant.UniversityCity)
	if err != nil {
		outcome := Outcome{Status: models.AnabinError, Note: err.Error()}
		metrics.VerificationsRun.WithLabelValues(string(models.AnabinError)).Inc()
		if writeErr := v.store.UpdateApplicantAnabin(ctx, applicantID, outcome, "", checkedBy, now); writeErr != nil {
			return nil, writeErr
		}
		return &outcome, nil
	}

	var outcome Outcome
	instID := ""
	if len(matches) == 0 {
		outcome = Outcome{Status: models.AnabinNotFound, Note: "registry returned no rows"}
	} else {
		top := matches[0]
		score := top.Score
		outcome = Outcome{
			Status:      Classify(score),
			Score:       &score,
			Institution: top.Name,
			Accredited:  top.Accredited,
		}
		instID = top.InstitutionID
	}

	metrics.VerificationsRun.WithLabelValues(string(outcome.Status)).Inc()
	if err := v.store.UpdateApplicantAnabin(ctx, applicantID, outcome, instID, checkedBy, now); err != nil {
		return nil, err
	}

	v.logger.Info("credential verification recorded", map[string]interface{}{
		"applicant_id": applicantID,
		"status":       string(outcome.Status),
	})
	return &outcome, nil
}

// FetchPDF returns the registry snapshot for an applicant's university,
// rendering it on cache miss. Read-only with respect to the applicant row.
func (v *Verifier) FetchPDF(ctx context.Context, applicantID int64, force bool) (Result, error) {
	applicant, err := v.store.GetApplicant(ctx, applicantID)
	if err != nil {
		return Result{}, err
	}
	if applicant.University == "" {
		return Result{}, apperrors.NewValidationError("university", "applicant has no university declared")
	}
	return v.cache.Fetch(ctx, applicant.University, applicant.Country, force), nil
}
