// Package httpserver runs an http.Handler with the timeouts from Config and
// shuts it down gracefully when the supplied context is cancelled.
//
// It also exposes liveness and readiness handlers; readiness runs a list of
// named probes (database ping, cache ping) with a per-request deadline.
package httpserver
