// Package workflow is the sole authority over status transitions of
// Application, JobRequest and CompanyRequest. Each machine is a static table
// keyed by actor role and from-status; guards run before the row update and
// side effects are dispatched only after it commits. A failed side effect is
// logged and dropped, never rolled into the caller's error.
package workflow

import (
	apperrors "github.com/TimLS94/IJP-Portal-sub000/internal/common/errors"
	"github.com/TimLS94/IJP-Portal-sub000/internal/common/metrics"
	"github.com/TimLS94/IJP-Portal-sub000/internal/models"
)

// Table maps role -> from-status -> permitted to-statuses.
type Table map[models.Role]map[string][]string

// Allows reports whether the table contains the (role, from, to) row.
func (t Table) Allows(role models.Role, from, to string) bool {
	byFrom, ok := t[role]
	if !ok {
		return false
	}
	for _, allowed := range byFrom[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// check validates a transition against the table and records the metric
// outcome. The returned error is a TRANSITION_FORBIDDEN StandardError.
func check(t Table, entity string, role models.Role, from, to string) error {
	if t.Allows(role, from, to) {
		return nil
	}
	metrics.TransitionsDenied.WithLabelValues(entity, "table").Inc()
	return apperrors.NewTransitionForbiddenError(from, to, string(role))
}

func applied(entity, to string) {
	metrics.TransitionsApplied.WithLabelValues(entity, to).Inc()
}

func denied(entity, reason string) {
	metrics.TransitionsDenied.WithLabelValues(entity, reason).Inc()
}
