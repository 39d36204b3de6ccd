package identity

import (
	"context"
	"time"
)

// Store reads and writes both account collections.
type Store interface {
	// FindByEmail looks up a normalized email in the store for kind.
	FindByEmail(ctx context.Context, kind Kind, email string) (*Identity, error)
	// FindByID searches patients first, then clinicians.
	FindByID(ctx context.Context, id string) (*Identity, error)
	// Save inserts an identity without an ID (assigning one) or updates the
	// modeled fields of an existing one.
	Save(ctx context.Context, id *Identity) error
	// SetPassword replaces only the password hash of the account id held in
	// the store for kind.
	SetPassword(ctx context.Context, kind Kind, id, hash string) error
	// TouchLastLogin stamps a clinician's last successful login.
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}
