// Package notify fans a newly activated job posting out to matching,
// opted-in applicants. The fan-out is fire-and-forget from the caller's side
// and deduplicates per (applicant, job) through a Redis send record.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/TimLS94/IJP-Portal-sub000/internal/common/logger"
	"github.com/TimLS94/IJP-Portal-sub000/internal/common/metrics"
	"github.com/TimLS94/IJP-Portal-sub000/internal/matching"
	"github.com/TimLS94/IJP-Portal-sub000/internal/models"
	"github.com/TimLS94/IJP-Portal-sub000/internal/settings"
	"github.com/TimLS94/IJP-Portal-sub000/internal/slug"
)

// JobAlert is the payload delivered per notified applicant.
type JobAlert struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	JobTitle    string `json:"job_title"`
	CompanyName string `json:"company_name"`
	Location    string `json:"location"`
	Score       int    `json:"score"`
	JobURL      string `json:"job_url"`

	// Phone is set when the applicant has one; the SMS sink skips otherwise.
	Phone string `json:"phone,omitempty"`
}

// Sink delivers one alert. Implementations exist for mail and SMS.
type Sink interface {
	SendJobAlert(ctx context.Context, alert JobAlert) error
}

// ApplicantSource streams applicants with job notifications enabled. The
// callback is invoked once per applicant; returning an error stops the stream.
type ApplicantSource interface {
	StreamOptedInApplicants(ctx context.Context, fn func(*models.Applicant) error) error
}

// Stats are the per-run counters.
type Stats struct {
	Notified       int `json:"notified"`
	BelowThreshold int `json:"below_threshold"`
	SkippedNoEmail int `json:"skipped_no_email"`
	Errors         int `json:"errors"`
}

// Fanout computes and delivers job alerts.
type Fanout struct {
	source   ApplicantSource
	settings *settings.Registry
	redis    *redis.Client
	sinks    []Sink
	dedupTTL time.Duration
	logger   logger.Logger
}

func NewFanout(source ApplicantSource, reg *settings.Registry, rdb *redis.Client, dedupTTL time.Duration, log logger.Logger, sinks ...Sink) *Fanout {
	if dedupTTL <= 0 {
		dedupTTL = 24 * time.Hour
	}
	return &Fanout{
		source:   source,
		settings: reg,
		redis:    rdb,
		sinks:    sinks,
		dedupTTL: dedupTTL,
		logger:   log,
	}
}

// Dispatch runs the fan-out in a goroutine so the activating transition never
// waits on it.
func (f *Fanout) Dispatch(job *models.JobWithCompany) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		stats, err := f.Run(ctx, job)
		if err != nil {
			f.logger.Error("job alert fan-out failed", map[string]interface{}{
				"job_id": job.ID,
				"error":  err.Error(),
			})
			return
		}
		f.logger.Info("job alert fan-out finished", map[string]interface{}{
			"job_id":           job.ID,
			"notified":         stats.Notified,
			"below_threshold":  stats.BelowThreshold,
			"skipped_no_email": stats.SkippedNoEmail,
			"errors":           stats.Errors,
		})
	}()
}

// Run streams opted-in applicants, scores each against the job and delivers
// alerts for scores at or above the configured threshold. Individual
// applicant failures are counted, not propagated.
func (f *Fanout) Run(ctx context.Context, job *models.JobWithCompany) (Stats, error) {
	var stats Stats

	if !f.settings.GetBool(ctx, settings.KeyJobNotificationsEnabled, true) {
		return stats, nil
	}
	threshold := f.settings.GetInt(ctx, settings.KeyJobNotificationThreshold, 85)

	err := f.source.StreamOptedInApplicants(ctx, func(a *models.Applicant) error {
		result := matching.Score(a, &job.JobPosting)
		metrics.MatchScores.Observe(float64(result.Total))

		if result.Total < threshold {
			stats.BelowThreshold++
			metrics.JobAlertsSent.WithLabelValues("below_threshold").Inc()
			return nil
		}
		if a.Email == "" {
			stats.SkippedNoEmail++
			metrics.JobAlertsSent.WithLabelValues("skipped_no_email").Inc()
			return nil
		}

		fresh, err := f.claim(ctx, a.ID, job.ID)
		if err != nil {
			f.logger.Warn("job alert dedup check failed, sending anyway", map[string]interface{}{
				"applicant_id": a.ID,
				"job_id":       job.ID,
				"error":        err.Error(),
			})
		} else if !fresh {
			return nil
		}

		alert := JobAlert{
			Email:       a.Email,
			Name:        a.FullName(),
			JobTitle:    job.Title,
			CompanyName: job.CompanyName,
			Location:    job.Location,
			Score:       result.Total,
			JobURL:      slug.JobURL(job.Slug, job.ID),
			Phone:       a.Phone,
		}
		if f.deliver(ctx, alert) {
			stats.Notified++
			metrics.JobAlertsSent.WithLabelValues("notified").Inc()
		} else {
			stats.Errors++
			metrics.JobAlertsSent.WithLabelValues("error").Inc()
		}
		return nil
	})
	return stats, err
}

// claim records the (applicant, job) send. Returns false when another run
// already claimed the pair inside the TTL window.
func (f *Fanout) claim(ctx context.Context, applicantID, jobID int64) (bool, error) {
	if f.redis == nil {
		return true, nil
	}
	key := fmt.Sprintf("job_alert:%d:%d", jobID, applicantID)
	return f.redis.SetNX(ctx, key, 1, f.dedupTTL).Result()
}

func (f *Fanout) deliver(ctx context.Context, alert JobAlert) bool {
	ok := false
	for _, sink := range f.sinks {
		if err := sink.SendJobAlert(ctx, alert); err != nil {
			f.logger.Error("job alert delivery failed", map[string]interface{}{
				"email": alert.Email,
				"error": err.Error(),
			})
			continue
		}
		ok = true
	}
	return ok
}
