// Package auth mounts the /api/auth routes: registration, login, the
// Google Calendar consent flow, and token inspection.
package auth
