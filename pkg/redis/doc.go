// Package redis connects to Redis for the shared rate-limit store.
// Redis is optional: an empty REDIS_URL means the service keeps its limiter
// state in process memory.
package redis
