// Package app assembles the service: configuration, backing stores, the
// domain services and the HTTP router that exposes them.
package app
