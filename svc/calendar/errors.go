package calendar

import "errors"

var (
	ErrNotConfigured         = errors.New("calendar: google oauth not configured")
	ErrMissingCode           = errors.New("calendar: authorization code is required")
	ErrExchangeFailed        = errors.New("calendar: token exchange failed")
	ErrAuthorizationRequired = errors.New("calendar: authorization required")
	ErrUpstream              = errors.New("calendar: provider request failed")
	ErrInvalidEvent          = errors.New("calendar: invalid event request")
)
