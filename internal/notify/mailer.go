// Package notify turns committed order changes into customer email.
package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	sestypes "github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"order-pipeline/internal/aws"
)

// Sender delivers one formatted message to a single recipient.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Mailer sends notification email through SES.
type Mailer struct {
	client aws.SESAPI
	sender string
}

// NewMailer returns a Mailer sending from the given verified address.
func NewMailer(client aws.SESAPI, sender string) *Mailer {
	return &Mailer{client: client, sender: sender}
}

// Send delivers a plain-text email to a single recipient.
func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: &m.sender,
		Destination: &sestypes.Destination{
			ToAddresses: []string{to},
		},
		Content: &sestypes.EmailContent{
			Simple: &sestypes.Message{
				Subject: &sestypes.Content{Data: &subject},
				Body: &sestypes.Body{
					Text: &sestypes.Content{Data: &body},
				},
			},
		},
	}
	if _, err := m.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}
