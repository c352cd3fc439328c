// internal/notify/sms.go
package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	portalaws "github.com/TimLS94/IJP-Portal-sub000/internal/common/aws"
)

// SMSSink pushes a short job alert over SNS. Applicants without a phone
// number are silently skipped.
type SMSSink struct {
	client   *portalaws.SNSClient
	senderID string
}

func NewSMSSink(ctx context.Context, region, senderID string) (*SMSSink, error) {
	client, err := portalaws.NewSNSClient(ctx, region)
	if err != nil {
		return nil, fmt.Errorf("init sms sink: %w", err)
	}
	return &SMSSink{client: client, senderID: senderID}, nil
}

func (s *SMSSink) SendJobAlert(ctx context.Context, alert JobAlert) error {
	if alert.Phone == "" {
		return nil
	}

	text := fmt.Sprintf("Neues Stellenangebot: %s bei %s (%d%% Übereinstimmung). %s",
		alert.JobTitle, alert.CompanyName, alert.Score, alert.JobURL)

	input := &sns.PublishInput{
		PhoneNumber: aws.String(alert.Phone),
		Message:     aws.String(text),
	}
	if s.senderID != "" {
		input.MessageAttributes = map[string]types.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {
				DataType:    aws.String("String"),
				StringValue: aws.String(s.senderID),
			},
		}
	}
	if _, err := s.client.Publish(ctx, input); err != nil {
		return fmt.Errorf("sns publish to %s: %w", alert.Phone, err)
	}
	return nil
}
