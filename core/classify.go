package core

import (
	"errors"

	"github.com/nutricare/authcore/pkg/binder"
	"github.com/nutricare/authcore/pkg/password"
	"github.com/nutricare/authcore/pkg/ratelimiter"
	"github.com/nutricare/authcore/pkg/rbac"
	"github.com/nutricare/authcore/pkg/validator"
	"github.com/nutricare/authcore/svc/calendar"
	"github.com/nutricare/authcore/svc/identity"
	"github.com/nutricare/authcore/svc/session"
)

// Classify returns the Kind of err. Errors it does not recognise are
// KindInternal.
func Classify(err error) Kind {
	if _, ok := validator.Extract(err); ok {
		return KindValidation
	}

	switch {
	case errors.Is(err, binder.ErrInvalidBody),
		errors.Is(err, binder.ErrBodyTooLarge),
		errors.Is(err, binder.ErrInvalidQuery),
		errors.Is(err, binder.ErrUnsupportedMediaType),
		errors.Is(err, calendar.ErrMissingCode),
		errors.Is(err, calendar.ErrInvalidEvent),
		errors.Is(err, password.ErrEmptySecret),
		errors.Is(err, password.ErrTooLong):
		return KindBadRequest
	case errors.Is(err, identity.ErrEmailTaken):
		return KindEmailTaken
	case errors.Is(err, identity.ErrInvalidCredentials):
		return KindInvalidCredentials
	case errors.Is(err, identity.ErrIncorrectPassword):
		return KindIncorrectPassword
	case errors.Is(err, session.ErrMissingToken),
		errors.Is(err, rbac.ErrRoleNotInContext):
		return KindMissingToken
	case errors.Is(err, session.ErrExpiredToken):
		return KindExpiredToken
	case errors.Is(err, session.ErrInvalidToken):
		return KindInvalidToken
	case errors.Is(err, session.ErrIdentityGone):
		return KindIdentityGone
	case errors.Is(err, rbac.ErrForbidden):
		return KindForbidden
	case errors.Is(err, ratelimiter.ErrLimitExceeded):
		return KindRateLimited
	case errors.Is(err, calendar.ErrNotConfigured):
		return KindOAuthNotConfigured
	case errors.Is(err, calendar.ErrExchangeFailed):
		return KindOAuthExchangeFailed
	case errors.Is(err, calendar.ErrAuthorizationRequired):
		return KindCalendarAuthorizationRequired
	case errors.Is(err, calendar.ErrUpstream):
		return KindUpstreamCalendarFailure
	default:
		return KindInternal
	}
}
