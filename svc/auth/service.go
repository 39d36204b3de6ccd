package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nutricare/authcore/pkg/logger"
	"github.com/nutricare/authcore/pkg/metrics"
	"github.com/nutricare/authcore/pkg/password"
	"github.com/nutricare/authcore/pkg/validator"
	"github.com/nutricare/authcore/svc/identity"
	"github.com/nutricare/authcore/svc/session"
)

// Service runs the credential flows.
type Service struct {
	store    identity.Store
	resolver *identity.Resolver
	hasher   *password.Hasher
	sessions *session.Service
	log      *slog.Logger
	metrics  metrics.Recorder
	now      func() time.Time
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

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns a Service.
func New(store identity.Store, hasher *password.Hasher, sessions *session.Service, opts ...Option) *Service {
	s := &Service{
		store:    store,
		resolver: identity.NewResolver(store),
		hasher:   hasher,
		sessions: sessions,
		log:      logger.Discard(),
		metrics:  metrics.Noop{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("auth"))
	return s
}

// RegisterInput is a patient sign-up.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	DOB       time.Time
	Relation  string
}

// Register creates a patient account with role user. The email must be
// unused in both stores.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*identity.Identity, error) {
	id, err := s.register(ctx, in)
	switch {
	case err == nil:
		s.metrics.RecordRegistration(metrics.OutcomeSuccess)
	case errors.Is(err, identity.ErrEmailTaken):
		s.metrics.RecordRegistration("email_taken")
	default:
		s.metrics.RecordRegistration(metrics.OutcomeError)
	}
	return id, err
}

func (s *Service) register(ctx context.Context, in RegisterInput) (*identity.Identity, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Relation = strings.TrimSpace(in.Relation)
	email := identity.NormalizeEmail(in.Email)

	if err := validator.Apply(
		validator.Required("firstName", in.FirstName),
		validator.MaxLen("firstName", in.FirstName, 100),
		validator.MaxLen("lastName", in.LastName, 100),
		validator.Required("email", email),
		validator.Email("email", email),
		validator.Required("password", in.Password),
		validator.MaxLen("password", in.Password, password.MaxLength),
		validator.Birthdate("dob", in.DOB, s.now()),
	); err != nil {
		return nil, err
	}

	taken, err := s.resolver.EmailTaken(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, identity.ErrEmailTaken
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	id := identity.NewPatient(&identity.PatientAccount{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        email,
		PasswordHash: hash,
		DOB:          in.DOB,
		Relation:     in.Relation,
		Role:         identity.RoleUser,
	})
	if err := s.store.Save(ctx, id); err != nil {
		return nil, fmt.Errorf("save account: %w", err)
	}

	s.log.InfoContext(ctx, "patient registered", logger.UserID(id.ID()))
	return id.Sanitized(), nil
}

// LoginResult is a successful login.
type LoginResult struct {
	Token    session.Token
	Identity *identity.Identity
}

// Login verifies the credentials and issues a session token.
func (s *Service) Login(ctx context.Context, email, secret string) (*LoginResult, error) {
	id, err := s.resolver.Resolve(ctx, email)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			s.hasher.Equalize(secret)
			s.metrics.RecordLogin("unknown", metrics.OutcomeInvalidCredentials)
			return nil, identity.ErrInvalidCredentials
		}
		s.metrics.RecordLogin("unknown", metrics.OutcomeError)
		return nil, err
	}

	kind := string(id.Kind)
	if !s.hasher.Verify(secret, id.PasswordHash()) {
		s.metrics.RecordLogin(kind, metrics.OutcomeInvalidCredentials)
		s.log.InfoContext(ctx, "login rejected", logger.Kind(kind), logger.UserID(id.ID()))
		return nil, identity.ErrInvalidCredentials
	}

	if id.IsClinician() {
		at := s.now().UTC()
		if err := s.store.TouchLastLogin(ctx, id.ID(), at); err != nil {
			s.metrics.RecordLogin(kind, metrics.OutcomeError)
			return nil, fmt.Errorf("stamp last login: %w", err)
		}
		id.Clinician.LastLogin = at
	}

	tok, err := s.sessions.Issue(id)
	if err != nil {
		s.metrics.RecordLogin(kind, metrics.OutcomeError)
		return nil, err
	}

	s.metrics.RecordLogin(kind, metrics.OutcomeSuccess)
	s.log.InfoContext(ctx, "login succeeded",
		logger.Kind(kind),
		logger.Role(id.Role()),
		logger.UserID(id.ID()),
	)
	return &LoginResult{Token: tok, Identity: id.Sanitized()}, nil
}

// ChangePassword replaces the password of accountID after checking the
// current one.
func (s *Service) ChangePassword(ctx context.Context, accountID, current, next string) error {
	if err := validator.Apply(
		validator.Required("currentPassword", current),
		validator.Required("newPassword", next),
		validator.MaxLen("newPassword", next, password.MaxLength),
	); err != nil {
		return err
	}

	id, err := s.store.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return session.ErrIdentityGone
		}
		return fmt.Errorf("load account: %w", err)
	}
	if !s.hasher.Verify(current, id.PasswordHash()) {
		return identity.ErrIncorrectPassword
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return err
	}
	if err := s.store.SetPassword(ctx, id.Kind, id.ID(), hash); err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return session.ErrIdentityGone
		}
		return fmt.Errorf("set password: %w", err)
	}

	s.log.InfoContext(ctx, "password changed", logger.UserID(accountID))
	return nil
}
