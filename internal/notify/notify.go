// Package notify tells the site administrator about upstream API
// failures that page visitors never see.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v5"
)

// Notifier reports an API error message to the administrator.
type Notifier interface {
	APIError(ctx context.Context, translation, message string) error
}

// Nop drops every notification.
type Nop struct{}

func (Nop) APIError(context.Context, string, string) error { return nil }

// MailgunConfig holds what is needed to send mail through Mailgun.
type MailgunConfig struct {
	Domain    string
	APIKey    string
	Sender    string
	Recipient string
}

func (c MailgunConfig) Enabled() bool {
	return c.Domain != "" && c.APIKey != "" && c.Sender != "" && c.Recipient != ""
}

// sendFunc delivers one plain-text mail.
type sendFunc func(ctx context.Context, to, subject, body string) error

// Mailgun mails API errors to the configured recipient.
type Mailgun struct {
	cfg     MailgunConfig
	send    sendFunc
	timeout time.Duration
}

func NewMailgun(cfg MailgunConfig) (*Mailgun, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("mailgun configuration missing")
	}
	mg := mailgun.NewMailgun(cfg.APIKey)
	send := func(ctx context.Context, to, subject, body string) error {
		message := mailgun.NewMessage(cfg.Domain, cfg.Sender, subject, body)
		message.AddRecipient(to)
		_, err := mg.Send(ctx, message)
		return err
	}
	return &Mailgun{cfg: cfg, send: send, timeout: 10 * time.Second}, nil
}

func (m *Mailgun) APIError(ctx context.Context, translation, message string) error {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	if err := m.send(ctx, m.cfg.Recipient, Subject, Body(translation, message)); err != nil {
		return fmt.Errorf("failed to send API error notification: %w", err)
	}
	return nil
}

const Subject = "Daily Seed: scripture API error"

// Body is the plain text of an API error notification.
func Body(translation, message string) string {
	return fmt.Sprintf(`The Daily Seed shortcode could not load a verse.

Translation: %s
API error:   %s

Visitors saw the generic error message. Check the API key and the
default Bible version on the Daily Seed settings page.
`, translation, message)
}
