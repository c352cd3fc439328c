// Package sweeper runs the periodic maintenance loops: deactivating postings
// past their deadline, purging archived postings past retention, completing
// overdue interviews and firing interview reminders. One pass is cheap; the
// loop interval is configuration.
package sweeper

import (
	"context"
	"time"

	"github.com/TimLS94/IJP-Portal-sub000/internal/common/logger"
	"github.com/TimLS94/IJP-Portal-sub000/internal/interview"
	"github.com/TimLS94/IJP-Portal-sub000/internal/settings"
)

// reminderWindow is how far ahead interview reminders fire.
const reminderWindow = 24 * time.Hour

// Store is the persistence surface of the sweeper.
type Store interface {
	// ListExpiredActiveJobIDs returns active, unarchived postings whose
	// deadline lies before the cutoff.
	ListExpiredActiveJobIDs(ctx context.Context, cutoff time.Time) ([]int64, error)
	SetJobActive(ctx context.Context, jobID int64, active bool, at time.Time) error
	// ListArchivedJobIDsBefore returns postings archived before the cutoff.
	ListArchivedJobIDsBefore(ctx context.Context, cutoff time.Time) ([]int64, error)
	DeleteJob(ctx context.Context, jobID int64) error
}

// Indexer removes purged or deactivated postings from the search index.
type Indexer interface {
	Delete(ctx context.Context, jobID int64) error
}

// Sweeper drives the maintenance passes.
type Sweeper struct {
	store      Store
	settings   *settings.Registry
	interviews *interview.Service
	indexer    Indexer
	interval   time.Duration
	logger     logger.Logger
}

func New(store Store, reg *settings.Registry, interviews *interview.Service, indexer Indexer, interval time.Duration, log logger.Logger) *Sweeper {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &Sweeper{
		store:      store,
		settings:   reg,
		interviews: interviews,
		indexer:    indexer,
		interval:   interval,
		logger:     log,
	}
}

// Run loops until the context is cancelled. One pass runs immediately.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep executes all passes once. Pass failures are logged and do not stop
// the remaining passes.
func (s *Sweeper) Sweep(ctx context.Context) {
	now := time.Now().UTC()

	if s.settings.GetBool(ctx, settings.KeyAutoDeactivateExpired, true) {
		s.deactivateExpired(ctx, now)
	}
	s.purgeArchived(ctx, now)

	if n, err := s.interviews.CompleteDue(ctx, now); err != nil {
		s.logger.Error("interview completion pass failed", map[string]interface{}{"error": err.Error()})
	} else if n > 0 {
		s.logger.Info("interviews completed", map[string]interface{}{"count": n})
	}

	if n, err := s.interviews.SendReminders(ctx, now, reminderWindow); err != nil {
		s.logger.Error("interview reminder pass failed", map[string]interface{}{"error": err.Error()})
	} else if n > 0 {
		s.logger.Info("interview reminders sent", map[string]interface{}{"count": n})
	}
}

func (s *Sweeper) deactivateExpired(ctx context.Context, now time.Time) {
	ids, err := s.store.ListExpiredActiveJobIDs(ctx, now)
	if err != nil {
		s.logger.Error("expired posting lookup failed", map[string]interface{}{"error": err.Error()})
		return
	}
	for _, id := range ids {
		if err := s.store.SetJobActive(ctx, id, false, now); err != nil {
			s.logger.Error("posting deactivation failed", map[string]interface{}{
				"job_id": id,
				"error":  err.Error(),
			})
			continue
		}
		if s.indexer != nil {
			if err := s.indexer.Delete(ctx, id); err != nil {
				s.logger.Warn("index removal failed", map[string]interface{}{
					"job_id": id,
					"error":  err.Error(),
				})
			}
		}
	}
	if len(ids) > 0 {
		s.logger.Info("expired postings deactivated", map[string]interface{}{"count": len(ids)})
	}
}

func (s *Sweeper) purgeArchived(ctx context.Context, now time.Time) {
	retentionDays := s.settings.GetInt(ctx, settings.KeyArchiveDeletionDays, 90)
	cutoff := now.AddDate(0, 0, -retentionDays)

	ids, err := s.store.ListArchivedJobIDsBefore(ctx, cutoff)
	if err != nil {
		s.logger.Error("archived posting lookup failed", map[string]interface{}{"error": err.Error()})
		return
	}
	for _, id := range ids {
		if err := s.store.DeleteJob(ctx, id); err != nil {
			s.logger.Error("posting purge failed", map[string]interface{}{
				"job_id": id,
				"error":  err.Error(),
			})
			continue
		}
		if s.indexer != nil {
			if err := s.indexer.Delete(ctx, id); err != nil {
				s.logger.Warn("index removal failed", map[string]interface{}{
					"job_id": id,
					"error":  err.Error(),
				})
			}
		}
	}
	if len(ids) > 0 {
		s.logger.Info("archived postings purged", map[string]interface{}{"count": len(ids)})
	}
}
