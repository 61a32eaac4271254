// Package limiter provides per-IP token bucket rate limiting for the
// authentication endpoints.
package limiter

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"skillswap/internal/httputil"
)

// IPRateLimiter keeps one token bucket per client IP.
type IPRateLimiter struct {
	mu     sync.Mutex
	limits map[string]*rate.Limiter
	r      rate.Limit
	b      int
}

// NewIPRateLimiter creates a limiter allowing r events/sec with burst b
// per IP and starts a background sweep of idle buckets.
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	l := &IPRateLimiter{
		limits: make(map[string]*rate.Limiter),
		r:      r,
		b:      b,
	}

	go l.sweep()

	return l
}

// getLimiter returns the bucket for ip, creating it on first sight.
func (l *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limits[ip]
	if !ok {
		limiter = rate.NewLimiter(l.r, l.b)
		l.limits[ip] = limiter
	}
	return limiter
}

// sweep drops buckets that have refilled completely; those IPs have been
// idle long enough to forget.
func (l *IPRateLimiter) sweep() {
	ticker := time.NewTicker(3 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		now := time.Now()
		for ip, limiter := range l.limits {
			if limiter.TokensAt(now) >= float64(limiter.Burst()) {
				delete(l.limits, ip)
			}
		}
		l.mu.Unlock()
	}
}

// Middleware rejects requests over the per-IP limit with 429.
func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if !l.getLimiter(ip).Allow() {
			httputil.WriteError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests, slow down")
			return
		}

		next.ServeHTTP(w, r)
	})
}
