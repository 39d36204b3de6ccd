// Package account mounts /api/users: self-service changes to the signed-in
// account.
package account
