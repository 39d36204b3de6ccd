// Package password hashes and verifies account secrets with bcrypt.
//
// The work factor is fixed at DefaultCost for every stored hash. Verify
// never panics: a malformed or foreign hash simply does not match.
package password

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used for stored hashes.
const DefaultCost = 10

// MaxLength is the longest secret bcrypt accepts, in bytes.
const MaxLength = 72

var (
	ErrEmptySecret = errors.New("password: empty secret")
	ErrTooLong     = errors.New("password: secret exceeds 72 bytes")
	ErrHashFailed  = errors.New("password: hashing failed")
)

// Hasher hashes and verifies secrets.
type Hasher struct {
	cost int

	dummyOnce sync.Once
	dummy     []byte
}

// Option configures a Hasher.
type Option func(*Hasher)

// WithCost overrides the work factor. Values outside bcrypt's range are
// ignored. Only tests should lower the cost.
func WithCost(cost int) Option {
	return func(h *Hasher) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			h.cost = cost
		}
	}
}

// NewHasher returns a Hasher using DefaultCost unless overridden.
func NewHasher(opts ...Option) *Hasher {
	h := &Hasher{cost: DefaultCost}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Hash returns a salted bcrypt hash of secret.
func (h *Hasher) Hash(secret string) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	if len(secret) > MaxLength {
		return "", ErrTooLong
	}
	out, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", errors.Join(ErrHashFailed, err)
	}
	return string(out), nil
}

// Verify reports whether secret matches hash.
func (h *Hasher) Verify(secret, hash string) bool {
	if hash == "" {
		h.Equalize(secret)
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}

// Equalize spends the same work as a real comparison. Callers use it when
// no account matched so that unknown emails and wrong passwords take
// comparable time.
func (h *Hasher) Equalize(secret string) {
	h.dummyOnce.Do(func() {
		h.dummy, _ = bcrypt.GenerateFromPassword([]byte("equalize-timing"), h.cost)
	})
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(secret))
}

// Cost returns the work factor recorded in hash.
func Cost(hash string) (int, error) {
	return bcrypt.Cost([]byte(hash))
}
