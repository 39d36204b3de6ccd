// Package scheduling mounts /api/consultations, the clinician-only routes
// that put consultations on the delegated Google calendar.
package scheduling
