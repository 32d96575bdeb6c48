package subscription

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/Ceanlio/kuzamo/internal/models"
	"github.com/Ceanlio/kuzamo/internal/pkg/mail"
	"github.com/Ceanlio/kuzamo/internal/pkg/ratelimit"
	"github.com/Ceanlio/kuzamo/internal/pkg/token"
)

const (
	confirmedTTL   = 365 * 24 * time.Hour
	unsubscribeTTL = 365 * 24 * time.Hour
)

// ServiceOptions wires the subscription service's collaborators.
type ServiceOptions struct {
	Store         Store
	Codec         *token.Codec
	Mailer        Mailer
	MX            MXChecker
	Limiter       ratelimit.Limiter
	BaseURL       string
	ConfirmWindow time.Duration
	Logger        *zap.Logger
}

// Service implements the double-opt-in state machine: subscribe creates a
// pending record after the invite is delivered, confirm promotes it, and
// unsubscribe deletes it so the email can subscribe fresh later.
type Service struct {
	store         Store
	codec         *token.Codec
	mailer        Mailer
	mx            MXChecker
	limiter       ratelimit.Limiter
	baseURL       string
	confirmWindow time.Duration
	logger        *zap.Logger

	// In-memory duplicate guard, consulted only when the store is
	// unreachable. Non-durable and per-process; the store-backed check
	// is the source of truth whenever it is available.
	pendingMu  sync.Mutex
	pendingMem map[string]time.Time
}

func NewService(opts ServiceOptions) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	window := opts.ConfirmWindow
	if window <= 0 {
		window = 24 * time.Hour
	}
	return &Service{
		store:         opts.Store,
		codec:         opts.Codec,
		mailer:        opts.Mailer,
		mx:            opts.MX,
		limiter:       opts.Limiter,
		baseURL:       opts.BaseURL,
		confirmWindow: window,
		logger:        logger,
		pendingMem:    make(map[string]time.Time),
	}
}

// Subscribe validates the request, checks the duplicate guard and rate
// limit, sends the confirmation email and only then persists the pending
// record. Delivery failure aborts the whole operation so no pending record
// exists without an email in flight.
func (s *Service) Subscribe(ctx context.Context, in SubscribeInput) (*SubscribeResult, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	company := strings.TrimSpace(in.Company)
	lang := normalizeLang(in.Lang)

	if !validName(name) || !validEmail(email) {
		return nil, ErrInvalidNameOrEmail
	}
	if len(company) > maxCompanyLen {
		return nil, ErrCompanyTooLong
	}
	domain := emailDomain(email)
	if isDisposableDomain(domain) {
		return nil, ErrDisposableDomain
	}
	if !s.mx.HasMX(ctx, domain) {
		return nil, ErrNoMX
	}

	allowed, err := s.limiter.Allow(ctx, in.IP)
	if err != nil {
		s.logger.Warn("rate limiter backend unavailable", zap.Error(err))
	}
	if !allowed {
		return nil, ErrRateLimited
	}

	now := time.Now()
	storeDown := false
	existing, err := s.store.Get(ctx, email)
	if err != nil {
		storeDown = true
		s.logger.Warn("subscriber store unavailable, falling back to in-memory duplicate guard",
			zap.String("email", email), zap.Error(err))
		if !s.markPending(email, now) {
			return nil, ErrAlreadyPending
		}
	} else if existing != nil {
		switch {
		case existing.Status == models.StatusPending && !existing.PendingExpired(now):
			return nil, ErrAlreadyPending
		case existing.Status == models.StatusConfirmed:
			return nil, ErrAlreadyConfirmed
		case existing.Status == models.StatusUnsubscribed:
			// Unreachable under the current lifecycle (unsubscribe deletes
			// the record) but kept as a defensive branch.
			return nil, ErrUnsubscribed
		}
		// Pending but expired: overwrite as a fresh request.
	}

	exp := now.Add(s.confirmWindow)
	confirmToken, err := s.codec.Sign(&token.Claims{
		Email:   email,
		Name:    name,
		Company: company,
		Lang:    lang,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(exp),
		},
	})
	if err != nil {
		return nil, err
	}
	unsubURL, err := s.unsubscribeURL(email, now)
	if err != nil {
		return nil, err
	}
	confirmURL, err := s.pageURL("/confirm-email.html", confirmToken)
	if err != nil {
		return nil, err
	}

	text := confirmCopy(lang, name)
	html, err := mail.BuildBranded(mail.BrandedParams{
		Lang:           lang,
		Title:          text.Title,
		Greeting:       text.Greeting,
		Body:           text.Body,
		CTAText:        text.CTAText,
		CTAURL:         confirmURL,
		Footer:         text.Footer,
		UnsubscribeURL: unsubURL,
	})
	if err != nil {
		return nil, err
	}

	msgID, err := s.mailer.Send(ctx, mail.Message{
		To:      []string{email},
		Subject: text.Subject,
		HTML:    html,
		Headers: listHeaders(unsubURL),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSendFailed, err)
	}

	sub := &models.Subscriber{
		Email:     email,
		Name:      name,
		Company:   company,
		Status:    models.StatusPending,
		Exp:       exp.Unix(),
		Lang:      lang,
		CreatedAt: now.Unix(),
	}
	if msgID != "" {
		sub.TokenID = &msgID
	}
	if err := s.store.Put(ctx, sub, s.confirmWindow); err != nil {
		if !storeDown {
			return nil, err
		}
		// The invite already went out and the memory guard holds the
		// dedupe, so a best-effort persist failure is swallowed here.
		s.logger.Warn("could not persist pending subscriber", zap.String("email", email), zap.Error(err))
	} else {
		s.clearPending(email)
	}

	return &SubscribeResult{Email: email, MessageID: msgID}, nil
}

// Confirm promotes a pending subscriber. The welcome email is best-effort:
// delivery failure never blocks the state commit, unlike Subscribe.
func (s *Service) Confirm(ctx context.Context, tokenStr string) error {
	claims, err := s.codec.Verify(tokenStr)
	if err != nil {
		return ErrTokenInvalid
	}
	now := time.Now()
	if claims.Expired(now) {
		return ErrTokenExpired
	}

	existing, err := s.store.Get(ctx, claims.Email)
	if err != nil {
		s.logger.Warn("subscriber store read failed during confirm", zap.Error(err))
	} else if existing != nil && existing.Status == models.StatusConfirmed {
		return ErrAlreadyConfirmed
	}

	lang := normalizeLang(claims.Lang)
	unsubURL, err := s.unsubscribeURL(claims.Email, now)
	if err != nil {
		return err
	}

	text := welcomeCopy(lang, claims.Name)
	html, err := mail.BuildBranded(mail.BrandedParams{
		Lang:           lang,
		Title:          text.Title,
		Greeting:       text.Greeting,
		Body:           text.Body,
		Footer:         text.Footer,
		UnsubscribeURL: unsubURL,
	})
	if err == nil {
		if _, sendErr := s.mailer.Send(ctx, mail.Message{
			To:      []string{claims.Email},
			Subject: text.Subject,
			HTML:    html,
			Headers: listHeaders(unsubURL),
		}); sendErr != nil {
			s.logger.Warn("welcome email delivery failed", zap.String("email", claims.Email), zap.Error(sendErr))
		}
	}

	sub := &models.Subscriber{
		Email:       claims.Email,
		Name:        claims.Name,
		Company:     claims.Company,
		Status:      models.StatusConfirmed,
		Lang:        lang,
		ConfirmedAt: now.Unix(),
	}
	return s.store.Put(ctx, sub, confirmedTTL)
}

// Unsubscribe deletes the subscriber record outright so the address can
// resubscribe cleanly later. Absence of a record is not an error.
func (s *Service) Unsubscribe(ctx context.Context, tokenStr string) error {
	claims, err := s.codec.Verify(tokenStr)
	if err != nil {
		return ErrTokenInvalid
	}
	if claims.Expired(time.Now()) {
		return ErrTokenExpired
	}
	if claims.Action != token.ActionUnsubscribe {
		return ErrWrongTokenAction
	}
	return s.store.Delete(ctx, claims.Email)
}

func (s *Service) unsubscribeURL(email string, now time.Time) (string, error) {
	unsubToken, err := s.codec.Sign(&token.Claims{
		Email:  email,
		Action: token.ActionUnsubscribe,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(now.Add(unsubscribeTTL)),
		},
	})
	if err != nil {
		return "", err
	}
	return s.pageURL("/unsubscribe.html", unsubToken)
}

func (s *Service) pageURL(path, tokenStr string) (string, error) {
	base := strings.TrimSpace(s.baseURL)
	if base == "" {
		return "", fmt.Errorf("base url is not configured")
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid base url %q", base)
	}
	u.Path = strings.TrimRight(u.Path, "/") + path
	q := u.Query()
	q.Set("token", tokenStr)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func listHeaders(unsubURL string) map[string]string {
	return map[string]string{
		"List-Unsubscribe":      "<" + unsubURL + ">",
		"List-Unsubscribe-Post": "List-Unsubscribe=One-Click",
		"X-Mailer":              "Kuzamo Email System",
		"X-Priority":            "3",
	}
}

// markPending reserves an email in the in-memory guard, sweeping entries
// whose window has lapsed. Returns false when a fresh reservation exists.
func (s *Service) markPending(email string, now time.Time) bool {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	for em, exp := range s.pendingMem {
		if !exp.After(now) {
			delete(s.pendingMem, em)
		}
	}
	if _, ok := s.pendingMem[email]; ok {
		return false
	}
	s.pendingMem[email] = now.Add(s.confirmWindow)
	return true
}

func (s *Service) clearPending(email string) {
	s.pendingMu.Lock()
	delete(s.pendingMem, email)
	s.pendingMu.Unlock()
}
