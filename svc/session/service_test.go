package session_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutricare/authcore/pkg/jwt"
	"github.com/nutricare/authcore/pkg/rbac"
	"github.com/nutricare/authcore/svc/identity"
	"github.com/nutricare/authcore/svc/session"
)

const secret = "test-secret"

type clock struct{ now atomic.Int64 }

func newClock(t time.Time) *clock {
	c := &clock{}
	c.now.Store(t.UnixNano())
	return c
}

func (c *clock) Now() time.Time          { return time.Unix(0, c.now.Load()).UTC() }
func (c *clock) Advance(d time.Duration) { c.now.Add(int64(d)) }

type fixture struct {
	store     *identity.MemoryStore
	clock     *clock
	svc       *session.Service
	patient   *identity.Identity
	admin     *identity.Identity
	clinician *identity.Identity
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	f := &fixture{
		store: identity.NewMemoryStore(),
		clock: newClock(time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)),
	}
	f.patient = identity.NewPatient(&identity.PatientAccount{Email: "pat@example.com", PasswordHash: "h", Role: identity.RoleUser})
	f.admin = identity.NewPatient(&identity.PatientAccount{Email: "root@example.com", PasswordHash: "h", Role: identity.RoleAdmin})
	f.clinician = identity.NewClinician(&identity.ClinicianAccount{Email: "doc@example.com", PasswordHash: "h"})
	for _, id := range []*identity.Identity{f.patient, f.admin, f.clinician} {
		require.NoError(t, f.store.Save(ctx, id))
	}

	svc, err := session.New(session.Config{Secret: secret}, f.store, session.WithClock(f.clock.Now))
	require.NoError(t, err)
	f.svc = svc
	return f
}

func decodeClaims(t *testing.T, raw string) map[string]any {
	t.Helper()
	parts := strings.Split(raw, ".")
	require.Len(t, parts, 3)
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(payload, &out))
	return out
}

func TestNew(t *testing.T) {
	t.Parallel()

	_, err := session.New(session.Config{}, identity.NewMemoryStore())
	assert.ErrorIs(t, err, jwt.ErrMissingSigningKey)
}

func TestIssue(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	t.Run("patient", func(t *testing.T) {
		t.Parallel()
		tok, err := f.svc.Issue(f.patient)
		require.NoError(t, err)
		assert.Equal(t, f.clock.Now().Add(session.TokenTTL), tok.ExpiresAt)

		claims := decodeClaims(t, tok.Value)
		assert.Equal(t, f.patient.ID(), claims["sub"])
		assert.Equal(t, "user", claims["role"])
		assert.Equal(t, false, claims["isDoctor"])
		assert.NotContains(t, claims, "password")
		assert.EqualValues(t, tok.ExpiresAt.Unix(), claims["exp"])
		assert.EqualValues(t, tok.IssuedAt.Unix(), claims["iat"])
	})

	t.Run("clinician gets doctor role", func(t *testing.T) {
		t.Parallel()
		tok, err := f.svc.Issue(f.clinician)
		require.NoError(t, err)
		claims := decodeClaims(t, tok.Value)
		assert.Equal(t, "doctor", claims["role"])
		assert.Equal(t, true, claims["isDoctor"])
	})

	t.Run("invalid identity", func(t *testing.T) {
		t.Parallel()
		_, err := f.svc.Issue(&identity.Identity{Kind: identity.KindPatient})
		assert.ErrorIs(t, err, session.ErrInvalidIdentity)
		_, err = f.svc.Issue(identity.NewPatient(&identity.PatientAccount{}))
		assert.ErrorIs(t, err, session.ErrInvalidIdentity)
	})
}

func TestValidateRoundTrip(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	for _, id := range []*identity.Identity{f.patient, f.admin, f.clinician} {
		tok, err := f.svc.Issue(id)
		require.NoError(t, err)

		got, err := f.svc.Validate(ctx, tok.Value)
		require.NoError(t, err)
		assert.Equal(t, id.ID(), got.ID())
		assert.Equal(t, id.Role(), got.Role())
		assert.Equal(t, id.Kind, got.Kind)
		assert.Empty(t, got.PasswordHash(), "validated identity must be sanitized")
	}
}

func TestValidateExpiry(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	tok, err := f.svc.Issue(f.patient)
	require.NoError(t, err)

	f.clock.Advance(session.TokenTTL - time.Second)
	_, err = f.svc.Validate(ctx, tok.Value)
	require.NoError(t, err)

	f.clock.Advance(2 * time.Second)
	_, err = f.svc.Validate(ctx, tok.Value)
	assert.ErrorIs(t, err, session.ErrExpiredToken)
}

func TestValidateFailures(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	other, err := session.New(session.Config{Secret: "other"}, f.store, session.WithClock(f.clock.Now))
	require.NoError(t, err)
	foreign, err := other.Issue(f.patient)
	require.NoError(t, err)

	signer, err := jwt.New([]byte(secret), jwt.WithClock(f.clock.Now))
	require.NoError(t, err)
	noSubject, err := signer.Sign(&session.Claims{Role: "admin", RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(f.clock.Now().Add(time.Hour)),
	}})
	require.NoError(t, err)

	tests := []struct {
		name string
		raw  string
		want error
	}{
		{"empty", "", session.ErrMissingToken},
		{"malformed", "abc", session.ErrInvalidToken},
		{"wrong secret", foreign.Value, session.ErrInvalidToken},
		{"no subject", noSubject, session.ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := f.svc.Validate(ctx, tt.raw)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidateLegacySubject(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	signer, err := jwt.New([]byte(secret), jwt.WithClock(f.clock.Now))
	require.NoError(t, err)
	raw, err := signer.Sign(&session.Claims{
		Role:     "user",
		LegacyID: f.patient.ID(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(f.clock.Now().Add(time.Hour)),
		},
	})
	require.NoError(t, err)

	got, err := f.svc.Validate(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, f.patient.ID(), got.ID())
}

func TestValidateRereadsAccount(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	id := identity.NewPatient(&identity.PatientAccount{Email: "promote@example.com", Role: identity.RoleUser})
	require.NoError(t, f.store.Save(ctx, id))
	tok, err := f.svc.Issue(id)
	require.NoError(t, err)

	id.Patient.Role = identity.RoleAdmin
	require.NoError(t, f.store.Save(ctx, id))
	got, err := f.svc.Validate(ctx, tok.Value)
	require.NoError(t, err)
	assert.Equal(t, identity.RoleAdmin, got.Role(), "current stored role wins over token role")

	require.NoError(t, f.store.Delete(ctx, id.ID()))
	_, err = f.svc.Validate(ctx, tok.Value)
	assert.ErrorIs(t, err, session.ErrIdentityGone)
}

type failingStore struct{ identity.Store }

func (failingStore) FindByID(context.Context, string) (*identity.Identity, error) {
	return nil, errors.New("db down")
}

func TestValidateStoreError(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	svc, err := session.New(session.Config{Secret: secret}, failingStore{f.store}, session.WithClock(f.clock.Now))
	require.NoError(t, err)
	tok, err := svc.Issue(f.patient)
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), tok.Value)
	require.Error(t, err)
	assert.NotErrorIs(t, err, session.ErrIdentityGone)
	assert.NotErrorIs(t, err, session.ErrInvalidToken)
}

func TestMiddleware(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	var gotErr error
	h := f.svc.Middleware(func(w http.ResponseWriter, _ *http.Request, err error) {
		gotErr = err
		w.WriteHeader(http.StatusUnauthorized)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := identity.FromContext(r.Context())
		require.True(t, ok)
		role, ok := rbac.RoleFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, id.Role(), role)
		w.WriteHeader(http.StatusOK)
	}))

	tok, err := f.svc.Issue(f.clinician)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/me", nil)
	r.Header.Set("Authorization", "Bearer "+tok.Value)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)

	r = httptest.NewRequest(http.MethodGet, "/me", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.ErrorIs(t, gotErr, session.ErrMissingToken)

	r = httptest.NewRequest(http.MethodGet, "/me", nil)
	r.Header.Set("Authorization", "Token "+tok.Value)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.ErrorIs(t, gotErr, session.ErrMissingToken)
}
