package session

import (
	"github.com/nutricare/authcore/pkg/jwt"
	"github.com/nutricare/authcore/svc/identity"
)

// Claims is the token payload.
type Claims struct {
	Role string `json:"role"`
	// IsDoctor mirrors Role for older clients that decode the token. It is
	// derived when issuing and never read back.
	IsDoctor bool `json:"isDoctor"`
	// LegacyID is the subject field used by tokens minted before sub was
	// adopted. It is only read, never written.
	LegacyID string `json:"id,omitempty"`
	jwt.RegisteredClaims
}

// AccountID returns the subject, falling back to the legacy id claim.
func (c *Claims) AccountID() string {
	if c.Subject != "" {
		return c.Subject
	}
	return c.LegacyID
}

func newClaims(id *identity.Identity) *Claims {
	role := id.Role()
	return &Claims{
		Role:     role,
		IsDoctor: role == identity.RoleDoctor,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: id.ID(),
		},
	}
}
