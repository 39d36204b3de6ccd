package jwt

import (
	"net/http"
	"strings"
)

const bearerPrefix = "bearer "

// BearerToken returns the token from an "Authorization: Bearer <token>"
// header. Any other shape yields ErrMissingToken.
func BearerToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if len(h) <= len(bearerPrefix) || !strings.EqualFold(h[:len(bearerPrefix)], bearerPrefix) {
		return "", ErrMissingToken
	}
	token := strings.TrimSpace(h[len(bearerPrefix):])
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}
