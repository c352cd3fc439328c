// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TransitionsApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workflow_transitions_applied_total",
			Help: "Total number of workflow transitions applied",
		},
		[]string{"entity", "to_status"},
	)

	TransitionsDenied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "workflow_transitions_denied_total",
			Help: "Total number of workflow transitions denied",
		},
		[]string{"entity", "reason"},
	)

	MatchScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_score",
			Help:    "Distribution of applicant/job match scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	JobAlertsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_alerts_sent_total",
			Help: "Job alert notifications by outcome",
		},
		[]string{"outcome"},
	)

	MailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mails_sent_total",
			Help: "Outbound mails by kind and status",
		},
		[]string{"kind", "status"},
	)

	VerificationsRun = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credential_verifications_total",
			Help: "Credential verifier runs by outcome status",
		},
		[]string{"status"},
	)
)
