package mail

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// Config holds mail provider settings.
type Config struct {
	ResendKey string
	FromName  string
	FromEmail string
	ReplyTo   string
}

// Message is a single email to send.
type Message struct {
	To      []string
	Subject string
	HTML    string
	Headers map[string]string
}

// Sender delivers emails through the Resend API.
type Sender struct {
	cfg    Config
	client *resend.Client
}

func New(cfg Config) *Sender {
	return &Sender{cfg: cfg, client: resend.NewClient(cfg.ResendKey)}
}

// Send dispatches an email and returns the provider's message id.
// Non-2xx API responses and network faults both surface as errors.
func (s *Sender) Send(ctx context.Context, msg Message) (string, error) {
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.FromEmail),
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
	}
	if s.cfg.ReplyTo != "" {
		params.ReplyTo = s.cfg.ReplyTo
	}
	if len(msg.Headers) > 0 {
		params.Headers = msg.Headers
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return "", fmt.Errorf("resend send failed: %w", err)
	}
	return sent.Id, nil
}
