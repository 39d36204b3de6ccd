package identity

import "errors"

var (
	ErrNotFound        = errors.New("identity: account not found")
	ErrEmailTaken      = errors.New("identity: email already registered")
	ErrInvalidIdentity = errors.New("identity: invalid identity")

	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password so callers cannot tell which one failed.
	ErrInvalidCredentials = errors.New("identity: invalid email or password")
	ErrIncorrectPassword  = errors.New("identity: current password is incorrect")
)
