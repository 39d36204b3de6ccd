// Package ratelimiter throttles credential endpoints with a token bucket.
//
// A Bucket holds Capacity tokens and regains RefillRate tokens every
// RefillInterval. State lives in a Store: MemoryStore for a single process,
// RedisStore when several replicas share a Redis instance.
//
//	store := ratelimiter.NewRedisStore(rdb)
//	limiter, err := ratelimiter.NewBucket(store, cfg)
//	r.With(ratelimiter.Middleware(limiter, ratelimiter.ByClientIPAndPath, onError)).
//		Post("/login", login)
//
// The middleware sets X-RateLimit-* headers on every response and passes
// ErrLimitExceeded to the error renderer once the bucket is empty.
package ratelimiter
