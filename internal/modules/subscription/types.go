package subscription

import (
	"context"
	"errors"
	"time"

	"github.com/Ceanlio/kuzamo/internal/models"
	"github.com/Ceanlio/kuzamo/internal/pkg/mail"
)

// SubscribeDTO is the subscribe request body.
type SubscribeDTO struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Lang    string `json:"lang"`
}

// SubscribeInput is a normalized subscribe request plus its client IP.
type SubscribeInput struct {
	Name    string
	Email   string
	Company string
	Lang    string
	IP      string
}

// SubscribeResult reports a successful subscribe.
type SubscribeResult struct {
	Email     string
	MessageID string // provider message id, may be empty
}

// Store is the key-value collaborator holding one subscriber record per
// email. Get returns (nil, nil) when the record is absent.
type Store interface {
	Get(ctx context.Context, email string) (*models.Subscriber, error)
	Put(ctx context.Context, sub *models.Subscriber, ttl time.Duration) error
	Delete(ctx context.Context, email string) error
}

// Mailer delivers a transactional email and returns the provider message id.
type Mailer interface {
	Send(ctx context.Context, msg mail.Message) (string, error)
}

// MXChecker reports whether a domain resolves at least one MX record.
type MXChecker interface {
	HasMX(ctx context.Context, domain string) bool
}

var (
	ErrInvalidNameOrEmail = errors.New("invalid name or email")
	ErrCompanyTooLong     = errors.New("company too long")
	ErrDisposableDomain   = errors.New("disposable email not allowed")
	ErrNoMX               = errors.New("email domain has no mx")
	ErrRateLimited        = errors.New("too many requests")
	ErrAlreadyPending     = errors.New("confirmation already requested")
	ErrAlreadyConfirmed   = errors.New("email already confirmed")
	ErrUnsubscribed       = errors.New("email has been unsubscribed")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrWrongTokenAction   = errors.New("invalid token action")
	ErrSendFailed         = errors.New("failed to send email")
)
