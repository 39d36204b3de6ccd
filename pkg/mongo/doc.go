// Package mongo connects to MongoDB with bounded retries and exposes a ping
// probe for readiness checks.
package mongo
