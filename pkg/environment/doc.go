// Package environment names the deployment environment and carries it
// through request contexts.
//
// Error responses include internal detail only when the request context
// reports Development; every other value is treated as production-like.
package environment
