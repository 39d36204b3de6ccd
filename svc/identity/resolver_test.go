package identity_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nutricare/authcore/svc/identity"
)

type storeMock struct {
	mock.Mock
}

func (m *storeMock) FindByEmail(ctx context.Context, kind identity.Kind, email string) (*identity.Identity, error) {
	args := m.Called(ctx, kind, email)
	id, _ := args.Get(0).(*identity.Identity)
	return id, args.Error(1)
}

func (m *storeMock) FindByID(ctx context.Context, id string) (*identity.Identity, error) {
	args := m.Called(ctx, id)
	out, _ := args.Get(0).(*identity.Identity)
	return out, args.Error(1)
}

func (m *storeMock) Save(ctx context.Context, id *identity.Identity) error {
	return m.Called(ctx, id).Error(0)
}

func (m *storeMock) SetPassword(ctx context.Context, kind identity.Kind, id, hash string) error {
	return m.Called(ctx, kind, id, hash).Error(0)
}

func (m *storeMock) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func seed(t *testing.T) *identity.MemoryStore {
	t.Helper()
	ctx := context.Background()
	store := identity.NewMemoryStore()
	require.NoError(t, store.Save(ctx, identity.NewPatient(&identity.PatientAccount{
		FirstName: "Pat", Email: "shared@example.com", PasswordHash: "p-hash", Role: identity.RoleUser,
	})))
	require.NoError(t, store.Save(ctx, identity.NewClinician(&identity.ClinicianAccount{
		FirstName: "Doc", Email: "shared@example.com", PasswordHash: "c-hash",
	})))
	require.NoError(t, store.Save(ctx, identity.NewClinician(&identity.ClinicianAccount{
		FirstName: "Only", Email: "doctor@example.com", PasswordHash: "d-hash",
	})))
	return store
}

func TestResolve(t *testing.T) {
	t.Parallel()

	r := identity.NewResolver(seed(t))
	ctx := context.Background()

	t.Run("patient wins on shared email", func(t *testing.T) {
		t.Parallel()
		id, err := r.Resolve(ctx, "shared@example.com")
		require.NoError(t, err)
		assert.Equal(t, identity.KindPatient, id.Kind)
		assert.Equal(t, "p-hash", id.PasswordHash())
	})

	t.Run("falls through to clinician", func(t *testing.T) {
		t.Parallel()
		id, err := r.Resolve(ctx, " Doctor@Example.com ")
		require.NoError(t, err)
		assert.Equal(t, identity.KindClinician, id.Kind)
		assert.Equal(t, identity.RoleDoctor, id.Role())
	})

	t.Run("unknown email", func(t *testing.T) {
		t.Parallel()
		_, err := r.Resolve(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, identity.ErrNotFound)
	})

	t.Run("blank email", func(t *testing.T) {
		t.Parallel()
		_, err := r.Resolve(ctx, "  ")
		assert.ErrorIs(t, err, identity.ErrNotFound)
	})
}

func TestResolveStoreFailure(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	boom := errors.New("connection reset")

	t.Run("patient lookup error stops resolution", func(t *testing.T) {
		t.Parallel()
		m := &storeMock{}
		m.On("FindByEmail", ctx, identity.KindPatient, "a@example.com").Return(nil, boom)

		_, err := identity.NewResolver(m).Resolve(ctx, "a@example.com")
		require.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, identity.ErrNotFound)
		m.AssertNotCalled(t, "FindByEmail", ctx, identity.KindClinician, mock.Anything)
	})

	t.Run("clinician lookup error surfaces", func(t *testing.T) {
		t.Parallel()
		m := &storeMock{}
		m.On("FindByEmail", ctx, identity.KindPatient, "a@example.com").Return(nil, identity.ErrNotFound)
		m.On("FindByEmail", ctx, identity.KindClinician, "a@example.com").Return(nil, boom)

		taken, err := identity.NewResolver(m).EmailTaken(ctx, "a@example.com")
		require.ErrorIs(t, err, boom)
		assert.False(t, taken)
		m.AssertExpectations(t)
	})
}

func TestEmailTaken(t *testing.T) {
	t.Parallel()

	r := identity.NewResolver(seed(t))
	ctx := context.Background()

	for email, want := range map[string]bool{
		"shared@example.com": true,
		"DOCTOR@example.com": true,
		"free@example.com":   false,
	} {
		got, err := r.EmailTaken(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, want, got, email)
	}
}
