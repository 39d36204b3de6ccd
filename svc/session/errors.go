package session

import "errors"

var (
	ErrMissingToken    = errors.New("session: missing token")
	ErrInvalidToken    = errors.New("session: invalid token")
	ErrExpiredToken    = errors.New("session: token expired")
	ErrIdentityGone    = errors.New("session: account no longer exists")
	ErrInvalidIdentity = errors.New("session: cannot issue token for invalid identity")
)
