// Package auth implements the credential flows: patient registration,
// login across the patient and clinician stores, and password change.
//
// Login resolves the email through identity.Resolver (patients first),
// verifies the bcrypt hash, stamps the clinician last-login time and issues
// a session token. Every failure before token issue reports
// identity.ErrInvalidCredentials so callers cannot probe which emails exist.
package auth
