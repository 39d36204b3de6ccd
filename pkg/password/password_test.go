package password_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nutricare/authcore/pkg/password"
)

func TestHash(t *testing.T) {
	t.Parallel()

	t.Run("uses default cost", func(t *testing.T) {
		t.Parallel()
		h := password.NewHasher()
		hash, err := h.Hash("correct horse")
		require.NoError(t, err)

		cost, err := password.Cost(hash)
		require.NoError(t, err)
		assert.Equal(t, password.DefaultCost, cost)
	})

	t.Run("salts every hash", func(t *testing.T) {
		t.Parallel()
		h := password.NewHasher(password.WithCost(bcrypt.MinCost))
		a, err := h.Hash("same")
		require.NoError(t, err)
		b, err := h.Hash("same")
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
		assert.True(t, h.Verify("same", a))
		assert.True(t, h.Verify("same", b))
	})

	t.Run("rejects empty and oversized secrets", func(t *testing.T) {
		t.Parallel()
		h := password.NewHasher(password.WithCost(bcrypt.MinCost))
		_, err := h.Hash("")
		assert.ErrorIs(t, err, password.ErrEmptySecret)
		_, err = h.Hash(strings.Repeat("x", password.MaxLength+1))
		assert.ErrorIs(t, err, password.ErrTooLong)
	})

	t.Run("out of range cost is ignored", func(t *testing.T) {
		t.Parallel()
		h := password.NewHasher(password.WithCost(99))
		hash, err := h.Hash("secret")
		require.NoError(t, err)
		cost, err := password.Cost(hash)
		require.NoError(t, err)
		assert.Equal(t, password.DefaultCost, cost)
	})
}

func TestVerify(t *testing.T) {
	t.Parallel()

	h := password.NewHasher(password.WithCost(bcrypt.MinCost))
	hash, err := h.Hash("s3cret")
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		hash   string
		want   bool
	}{
		{"match", "s3cret", hash, true},
		{"wrong secret", "S3cret", hash, false},
		{"empty hash", "s3cret", "", false},
		{"malformed hash", "s3cret", "not-a-bcrypt-hash", false},
		{"truncated hash", "s3cret", hash[:20], false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.NotPanics(t, func() {
				assert.Equal(t, tt.want, h.Verify(tt.secret, tt.hash))
			})
		})
	}
}

func TestEqualize(t *testing.T) {
	t.Parallel()

	h := password.NewHasher(password.WithCost(bcrypt.MinCost))
	assert.NotPanics(t, func() {
		h.Equalize("anything")
		h.Equalize("again")
	})
}
