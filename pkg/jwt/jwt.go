package jwt

import (
	"errors"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Claims is the claim set accepted by Sign and Parse.
type Claims = gojwt.Claims

// RegisteredClaims are the RFC 7519 claims embedded in custom claim types.
type RegisteredClaims = gojwt.RegisteredClaims

// NewNumericDate converts t into a claim timestamp.
func NewNumericDate(t time.Time) *gojwt.NumericDate { return gojwt.NewNumericDate(t) }

// Service signs and verifies tokens with a single symmetric key.
type Service struct {
	key    []byte
	now    func() time.Time
	leeway time.Duration
	parser *gojwt.Parser
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLeeway tolerates clock skew when checking time-based claims.
func WithLeeway(d time.Duration) Option {
	return func(s *Service) { s.leeway = d }
}

// New returns a Service for key.
func New(key []byte, opts ...Option) (*Service, error) {
	if len(key) == 0 {
		return nil, ErrMissingSigningKey
	}
	s := &Service{key: key, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.parser = gojwt.NewParser(
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(s.now),
		gojwt.WithLeeway(s.leeway),
	)
	return s, nil
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time { return s.now() }

// Sign serializes claims and signs them with HS256.
func (s *Service) Sign(claims Claims) (string, error) {
	if claims == nil {
		return "", ErrInvalidToken
	}
	return gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString(s.key)
}

// Parse verifies raw and decodes it into claims.
func (s *Service) Parse(raw string, claims Claims) error {
	if raw == "" {
		return ErrMissingToken
	}
	_, err := s.parser.ParseWithClaims(raw, claims, func(*gojwt.Token) (any, error) {
		return s.key, nil
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gojwt.ErrTokenExpired):
		return errors.Join(ErrExpiredToken, err)
	case errors.Is(err, gojwt.ErrTokenSignatureInvalid):
		return errors.Join(ErrInvalidSignature, err)
	default:
		return errors.Join(ErrInvalidToken, err)
	}
}
