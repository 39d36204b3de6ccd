package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/nutricare/authcore/pkg/jwt"
	"github.com/nutricare/authcore/pkg/logger"
	"github.com/nutricare/authcore/pkg/metrics"
	"github.com/nutricare/authcore/pkg/rbac"
	"github.com/nutricare/authcore/svc/identity"
)

// TokenTTL is the lifetime of every issued token.
const TokenTTL = 24 * time.Hour

// Token is a freshly issued bearer token.
type Token struct {
	Value     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Service issues and validates session tokens.
type Service struct {
	tokens  *jwt.Service
	store   identity.Store
	log     *slog.Logger
	metrics metrics.Recorder
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics sets the outcome recorder.
func WithMetrics(m metrics.Recorder) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithClock replaces time.Now for issuing and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns a Service that signs with cfg.Secret and re-resolves accounts
// through store.
func New(cfg Config, store identity.Store, opts ...Option) (*Service, error) {
	s := &Service{
		store:   store,
		log:     logger.Discard(),
		metrics: metrics.Noop{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	tokens, err := jwt.New([]byte(cfg.Secret), jwt.WithClock(s.now))
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	s.tokens = tokens
	s.log = s.log.With(logger.Component("session"))
	return s, nil
}

// Issue mints a token for id expiring TokenTTL from now.
func (s *Service) Issue(id *identity.Identity) (Token, error) {
	if !id.Valid() || id.ID() == "" {
		return Token{}, ErrInvalidIdentity
	}
	now := s.now().Truncate(time.Second)
	claims := newClaims(id)
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(TokenTTL))

	raw, err := s.tokens.Sign(claims)
	if err != nil {
		return Token{}, fmt.Errorf("session: sign: %w", err)
	}
	return Token{Value: raw, IssuedAt: now, ExpiresAt: now.Add(TokenTTL)}, nil
}

// Validate verifies raw and returns the current, sanitized account it names.
func (s *Service) Validate(ctx context.Context, raw string) (*identity.Identity, error) {
	id, err := s.validate(ctx, raw)
	s.metrics.RecordTokenValidation(outcome(err))
	return id, err
}

func (s *Service) validate(ctx context.Context, raw string) (*identity.Identity, error) {
	if raw == "" {
		return nil, ErrMissingToken
	}
	var claims Claims
	if err := s.tokens.Parse(raw, &claims); err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return nil, errors.Join(ErrExpiredToken, err)
		}
		return nil, errors.Join(ErrInvalidToken, err)
	}
	subject := claims.AccountID()
	if subject == "" {
		return nil, ErrInvalidToken
	}

	id, err := s.store.FindByID(ctx, subject)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return nil, ErrIdentityGone
		}
		return nil, fmt.Errorf("session: load account: %w", err)
	}
	return id.Sanitized(), nil
}

// Authenticate validates the bearer token on r.
func (s *Service) Authenticate(r *http.Request) (*identity.Identity, error) {
	raw, err := jwt.BearerToken(r)
	if err != nil {
		s.metrics.RecordTokenValidation(metrics.OutcomeMissing)
		return nil, ErrMissingToken
	}
	return s.Validate(r.Context(), raw)
}

// ErrorRenderer writes an authentication failure.
type ErrorRenderer func(w http.ResponseWriter, r *http.Request, err error)

// Middleware authenticates every request, storing the account and its role
// in the request context. Failures go to onError and stop the chain.
func (s *Service) Middleware(onError ErrorRenderer) func(http.Handler) http.Handler {
	if onError == nil {
		onError = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := s.Authenticate(r)
			if err != nil {
				s.log.DebugContext(r.Context(), "request not authenticated", logger.Error(err))
				onError(w, r, err)
				return
			}
			ctx := identity.WithContext(r.Context(), id)
			ctx = rbac.WithRole(ctx, id.Role())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrMissingToken):
		return metrics.OutcomeMissing
	case errors.Is(err, ErrExpiredToken):
		return metrics.OutcomeExpired
	case errors.Is(err, ErrInvalidToken):
		return metrics.OutcomeInvalid
	case errors.Is(err, ErrIdentityGone):
		return metrics.OutcomeGone
	default:
		return metrics.OutcomeError
	}
}
