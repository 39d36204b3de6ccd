package mongo

import "errors"

var (
	ErrInvalidURI        = errors.New("mongo: invalid connection uri")
	ErrConnect           = errors.New("mongo: failed to connect")
	ErrHealthcheckFailed = errors.New("mongo: healthcheck failed")
)
