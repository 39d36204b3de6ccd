// Package session issues and validates the bearer tokens that represent a
// signed-in account.
//
// Tokens are HS256 JWTs carrying the account id (sub), its role, and
// issued-at/expiry timestamps. The lifetime is fixed at TokenTTL. Claims are
// signed, not encrypted, so nothing confidential goes into them.
//
// Validation does not trust the token's role. Every request re-reads the
// account by id, so a deleted account stops working immediately
// (ErrIdentityGone) and a role change takes effect on the next request.
package session
