package email

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridSender delivers mail through the SendGrid v3 API.
type SendGridSender struct {
	client   *sendgrid.Client
	fromName string
	from     string
}

func NewSendGridSender(apiKey, fromName, from string) *SendGridSender {
	return &SendGridSender{
		client:   sendgrid.NewSendClient(apiKey),
		fromName: fromName,
		from:     from,
	}
}

func (s *SendGridSender) SendWelcome(ctx context.Context, to, name string) error {
	body, err := renderWelcome(name)
	if err != nil {
		return err
	}
	return s.SendCustom(ctx, to, welcomeSubject, body)
}

func (s *SendGridSender) SendCustom(ctx context.Context, to, subject, content string) error {
	message := mail.NewV3Mail()
	message.From = mail.NewEmail(s.fromName, s.from)
	message.Subject = subject

	personalization := mail.NewPersonalization()
	personalization.AddTos(mail.NewEmail("", to))
	message.AddPersonalizations(personalization)
	message.AddContent(mail.NewContent("text/plain", content))

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("while sending mail through SendGrid: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("non-2XX response while sending mail through SendGrid: %d %s", resp.StatusCode, resp.Body)
	}
	return nil
}
