// Package binder decodes HTTP requests into typed request structs.
//
// JSON reads an application/json body with a size cap. Query copies URL
// query parameters into fields tagged `query:"name"`. Both return errors
// wrapping ErrInvalidBody or ErrInvalidQuery so callers can answer 400.
package binder
