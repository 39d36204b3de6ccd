package identity

import (
	"context"
	"errors"
	"fmt"
)

// Resolver maps a login email to a single identity across both stores.
type Resolver struct {
	store Store
}

// NewResolver returns a Resolver over store.
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the patient with the email if one exists, otherwise the
// clinician, otherwise ErrNotFound.
func (r *Resolver) Resolve(ctx context.Context, email string) (*Identity, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, ErrNotFound
	}
	for _, kind := range []Kind{KindPatient, KindClinician} {
		id, err := r.store.FindByEmail(ctx, kind, email)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("resolve %s: %w", kind, err)
		}
	}
	return nil, ErrNotFound
}

// EmailTaken reports whether either store already holds email.
func (r *Resolver) EmailTaken(ctx context.Context, email string) (bool, error) {
	_, err := r.Resolve(ctx, email)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}
