package core

import (
	"errors"
	"net/http"

	"github.com/nutricare/authcore/pkg/rbac"
	"github.com/nutricare/authcore/pkg/validator"
	"github.com/nutricare/authcore/svc/calendar"
)

// HTTPError is the client-facing form of a failed request.
type HTTPError struct {
	Code    int               // HTTP status code
	Key     string            // stable machine-readable key
	Message string            // human-readable message
	Detail  string            // underlying cause, development only
	Fields  map[string]string // per-field validation messages
}

func (e HTTPError) Error() string { return e.Message }

// Translate maps err to its HTTPError. With detail set, the original
// error text is attached for every kind.
func Translate(err error, detail bool) HTTPError {
	kind := Classify(err)
	he := HTTPError{Key: kind.String()}

	switch kind {
	case KindBadRequest:
		he.Code, he.Message = http.StatusBadRequest, "Invalid request"
	case KindValidation:
		he.Code, he.Message = http.StatusBadRequest, "Validation failed"
		if ve, ok := validator.Extract(err); ok {
			he.Fields = ve.Fields()
			if len(ve) > 0 {
				he.Message = ve[0].Message
			}
		}
	case KindEmailTaken:
		he.Code, he.Message = http.StatusBadRequest, "Email already registered"
	case KindInvalidCredentials:
		he.Code, he.Message = http.StatusUnauthorized, "Invalid email or password"
	case KindIncorrectPassword:
		he.Code, he.Message = http.StatusUnauthorized, "Current password is incorrect"
	case KindMissingToken:
		he.Code, he.Message = http.StatusUnauthorized, "Not authorized, no token"
	case KindInvalidToken, KindExpiredToken:
		he.Code, he.Message = http.StatusUnauthorized, "Not authorized, invalid token"
	case KindIdentityGone:
		he.Code, he.Message = http.StatusNotFound, "User not found"
	case KindForbidden:
		he.Code, he.Message = http.StatusForbidden, "Access denied"
		var fe *rbac.ForbiddenError
		if errors.As(err, &fe) {
			he.Message = fe.Error()
		}
	case KindRateLimited:
		he.Code, he.Message = http.StatusTooManyRequests, "Too many requests"
	case KindOAuthNotConfigured:
		he.Code, he.Message = http.StatusInternalServerError, "Google OAuth not configured"
	case KindOAuthExchangeFailed:
		he.Code, he.Message = http.StatusInternalServerError, "Error obtaining tokens"
		var ee *calendar.ExchangeError
		if errors.As(err, &ee) {
			he.Detail = ee.Reason
		}
	case KindCalendarAuthorizationRequired:
		he.Code, he.Message = http.StatusInternalServerError, "Calendar authorization required"
	case KindUpstreamCalendarFailure:
		he.Code, he.Message = http.StatusInternalServerError, "Failed to create calendar event"
	case KindInternal:
		he.Code, he.Message = http.StatusInternalServerError, "Internal Server Error"
	}

	if detail {
		he.Detail = err.Error()
	}
	return he
}
