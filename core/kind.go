package core

// Kind is the class of failure a request ended in.
type Kind int

const (
	KindInternal Kind = iota
	KindBadRequest
	KindValidation
	KindEmailTaken
	KindInvalidCredentials
	KindIncorrectPassword
	KindMissingToken
	KindInvalidToken
	KindExpiredToken
	KindIdentityGone
	KindForbidden
	KindRateLimited
	KindOAuthNotConfigured
	KindOAuthExchangeFailed
	KindCalendarAuthorizationRequired
	KindUpstreamCalendarFailure
)

var kindKeys = [...]string{
	KindInternal:                      "internal_error",
	KindBadRequest:                    "bad_request",
	KindValidation:                    "validation_error",
	KindEmailTaken:                    "email_taken",
	KindInvalidCredentials:            "invalid_credentials",
	KindIncorrectPassword:             "incorrect_password",
	KindMissingToken:                  "missing_token",
	KindInvalidToken:                  "invalid_token",
	KindExpiredToken:                  "expired_token",
	KindIdentityGone:                  "user_not_found",
	KindForbidden:                     "forbidden",
	KindRateLimited:                   "rate_limited",
	KindOAuthNotConfigured:            "oauth_not_configured",
	KindOAuthExchangeFailed:           "oauth_exchange_failed",
	KindCalendarAuthorizationRequired: "calendar_authorization_required",
	KindUpstreamCalendarFailure:       "calendar_upstream_failure",
}

// String returns the stable key sent to clients.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindKeys) {
		return kindKeys[KindInternal]
	}
	return kindKeys[k]
}
