package jwt

import "errors"

var (
	ErrMissingSigningKey = errors.New("jwt: missing signing key")
	ErrMissingToken      = errors.New("jwt: missing bearer token")
	ErrInvalidToken      = errors.New("jwt: invalid token")
	ErrInvalidSignature  = errors.New("jwt: invalid signature")
	ErrExpiredToken      = errors.New("jwt: token is expired")
)
