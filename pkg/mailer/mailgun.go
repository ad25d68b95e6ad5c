package mailer

import (
	"context"
	"errors"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Mailgun wraps Mailgun client configuration.
type Mailgun struct {
	Domain string
	APIKey string
	Sender string
}

// NewMailgun returns nil when any of the settings is missing.
func NewMailgun(domain, apiKey, sender string) *Mailgun {
	if domain == "" || apiKey == "" || sender == "" {
		return nil
	}
	return &Mailgun{Domain: domain, APIKey: apiKey, Sender: sender}
}

// Send delivers one message. HTML is optional.
func (m *Mailgun) Send(ctx context.Context, msg Message) error {
	if m == nil {
		return errors.New("mailgun not configured")
	}
	client := mg.NewMailgun(m.Domain, m.APIKey)
	out := client.NewMessage(m.Sender, msg.Subject, msg.Text, msg.To)
	if msg.HTML != "" {
		out.SetHtml(msg.HTML)
	}
	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_, _, err := client.Send(c, out)
	return err
}
