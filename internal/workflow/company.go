// internal/workflow/company.go
package workflow

import (
	"context"
	"time"

	"github.com/TimLS94/IJP-Portal-sub000/internal/common/logger"
	"github.com/TimLS94/IJP-Portal-sub000/internal/models"
)

// CompanyStore is the persistence surface of company administration.
type CompanyStore interface {
	GetCompany(ctx context.Context, id int64) (*models.Company, error)
	SetCompanyActive(ctx context.Context, id int64, active bool) error
}

// CompanyEvents receives the activation edge, after the row commits.
type CompanyEvents interface {
	CompanyActivated(ctx context.Context, company *models.Company)
}

// NopCompanyEvents discards all events.
type NopCompanyEvents struct{}

func (NopCompanyEvents) CompanyActivated(context.Context, *models.Company) {}

// CompanyService owns the administrator-driven activation flag.
type CompanyService struct {
	store  CompanyStore
	events CompanyEvents
	logger logger.Logger
}

func NewCompanyService(store CompanyStore, events CompanyEvents, log logger.Logger) *CompanyService {
	if events == nil {
		events = NopCompanyEvents{}
	}
	return &CompanyService{store: store, events: events, logger: log}
}

// SetActive flips the activation flag. The welcome mail fires only on the
// false to true edge; a repeated call or a deactivation sends nothing.
func (s *CompanyService) SetActive(ctx context.Context, companyID int64, active bool) (*models.Company, error) {
	company, err := s.store.GetCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company.IsActive == active {
		return company, nil
	}

	if err := s.store.SetCompanyActive(ctx, companyID, active); err != nil {
		return nil, err
	}
	company.IsActive = active
	company.UpdatedAt = time.Now().UTC()

	s.logger.Info("company activation changed", map[string]interface{}{
		"company_id": companyID,
		"active":     active,
	})
	if active {
		s.events.CompanyActivated(ctx, company)
	}
	return company, nil
}
