// Package mailer sends the portal's transactional email. Two providers are
// selectable at startup: plain SMTP with STARTTLS and AWS SES. Message
// composition lives in templates.go; the event adapters in events.go glue the
// workflow and interview machines to outbound mail.
package mailer

import (
	"context"
	"fmt"

	"github.com/TimLS94/IJP-Portal-sub000/internal/common/config"
	"github.com/TimLS94/IJP-Portal-sub000/internal/common/logger"
	"github.com/TimLS94/IJP-Portal-sub000/internal/common/metrics"
)

// Message is one outbound mail.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers a single message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New builds the provider configured under mail.provider.
func New(ctx context.Context, cfg config.MailConfig, log logger.Logger) (Mailer, error) {
	switch cfg.Provider {
	case "ses":
		return NewSESMailer(ctx, cfg)
	case "smtp", "":
		return NewSMTPMailer(cfg), nil
	}
	return nil, fmt.Errorf("unknown mail provider %q", cfg.Provider)
}

// recordSend feeds the per-kind outcome counter.
func recordSend(kind string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.MailsSent.WithLabelValues(kind, status).Inc()
}
