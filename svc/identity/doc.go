// Package identity models the two account populations that can sign in and
// resolves a login email to exactly one of them.
//
// Patient accounts live in the "users" collection and clinician accounts in
// "doctors". Emails are unique within each collection but not across them,
// so Resolver applies a fixed precedence: the patient collection is searched
// first and a clinician is only considered when no patient matches.
//
// Identity is a tagged union over the two account shapes. Code outside this
// package reads it through accessors (ID, Email, Role, PasswordHash) rather
// than reaching into the variant structs, and anything that leaves the
// process goes through Sanitized so the password hash is never serialized.
package identity
