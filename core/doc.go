// Package core turns service errors into HTTP responses.
//
// Classify maps any error to exactly one Kind. Translate maps the Kind to an
// HTTPError carrying the status code, a stable key for clients and the
// user-facing message. Detail is only filled when the caller asks for it,
// which the handler package does in development.
package core
