// internal/mailer/ses.go
package mailer

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	portalaws "github.com/TimLS94/IJP-Portal-sub000/internal/common/aws"
	"github.com/TimLS94/IJP-Portal-sub000/internal/common/config"
)

// SESMailer delivers through AWS Simple Email Service.
type SESMailer struct {
	client *portalaws.SESClient
	from   string
}

func NewSESMailer(ctx context.Context, cfg config.MailConfig) (*SESMailer, error) {
	client, err := portalaws.NewSESClient(ctx, cfg.SES.Region)
	if err != nil {
		return nil, fmt.Errorf("init ses mailer: %w", err)
	}
	return &SESMailer{client: client, from: cfg.From}, nil
}

func (m *SESMailer) Send(ctx context.Context, msg Message) error {
	charset := "UTF-8"
	_, err := m.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: &m.from,
		Destination: &types.Destination{
			ToAddresses: []string{msg.To},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: &msg.Subject, Charset: &charset},
			Body: &types.Body{
				Text: &types.Content{Data: &msg.Body, Charset: &charset},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("ses send to %s: %w", msg.To, err)
	}
	return nil
}
