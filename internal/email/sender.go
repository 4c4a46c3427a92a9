package email

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Message is a templated transactional email. Bodies are rendered provider
// side from the template id and dynamic data.
type Message struct {
	TemplateID string
	To         string
	Data       map[string]any
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SendGrid sends through the SendGrid v3 mail API.
type SendGrid struct {
	client  *sendgrid.Client
	from    *mail.Email
	replyTo *mail.Email
}

func NewSendGrid(apiKey, fromName, fromEmail, replyToEmail string) *SendGrid {
	return &SendGrid{
		client:  sendgrid.NewSendClient(apiKey),
		from:    mail.NewEmail(fromName, fromEmail),
		replyTo: mail.NewEmail("Suivi Inyo", replyToEmail),
	}
}

func (s *SendGrid) Send(ctx context.Context, msg Message) error {
	m := mail.NewV3Mail()
	m.SetFrom(s.from)
	m.SetReplyTo(s.replyTo)
	m.SetTemplateID(msg.TemplateID)

	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail("", msg.To))
	for k, v := range msg.Data {
		p.SetDynamicTemplateData(k, v)
	}
	m.AddPersonalizations(p)

	resp, err := s.client.SendWithContext(ctx, m)
	if err != nil {
		return fmt.Errorf("email: sendgrid request: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("email: sendgrid status %d", resp.StatusCode)
	}
	return nil
}
