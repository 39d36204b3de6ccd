package ratelimiter

import (
	"hash/fnv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nutricare/authcore/pkg/clientip"
)

const maxKeyLength = 64

// KeyFunc extracts the bucket key from a request.
type KeyFunc func(r *http.Request) string

// ByClientIP keys on the resolved client address.
func ByClientIP(r *http.Request) string {
	if ip := clientip.FromContext(r.Context()); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// ByPath keys on the request path.
func ByPath(r *http.Request) string { return r.URL.Path }

// ByClientIPAndPath limits each client per endpoint.
var ByClientIPAndPath = Composite(ByClientIP, ByPath)

// Composite joins the non-empty keys of fns. Keys longer than 64 bytes are
// hashed with FNV-1a.
func Composite(fns ...KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(fns))
		for _, fn := range fns {
			if key := fn(r); key != "" {
				parts = append(parts, key)
			}
		}
		key := strings.Join(parts, ":")
		if len(key) <= maxKeyLength {
			return key
		}
		h := fnv.New64a()
		_, _ = h.Write([]byte(key))
		return strconv.FormatUint(h.Sum64(), 36)
	}
}

// ErrorRenderer writes a rejected or failed check.
type ErrorRenderer func(w http.ResponseWriter, r *http.Request, err error)

// Middleware rejects requests once the bucket for keyFn(r) is empty,
// passing ErrLimitExceeded to onError. Store failures are passed through
// unchanged.
func Middleware(l Limiter, keyFn KeyFunc, onError ErrorRenderer) func(http.Handler) http.Handler {
	if onError == nil {
		onError = func(w http.ResponseWriter, _ *http.Request, err error) {
			if err == ErrLimitExceeded {
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := l.Allow(r.Context(), keyFn(r))
			if err != nil {
				onError(w, r, err)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(max(0, res.Remaining)))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

			if !res.Allowed() {
				if secs := int(res.RetryAfter(time.Now()).Seconds()); secs > 0 {
					h.Set("Retry-After", strconv.Itoa(secs))
				}
				onError(w, r, ErrLimitExceeded)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
