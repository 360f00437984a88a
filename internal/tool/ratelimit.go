// Package tool implements the Tool Server side channel (§4.7): a
// WebSocket broadcast of every tick's World/ToolData snapshot plus a
// small HTTP surface for health, metrics, and a debug field render.
// Adapted from the teacher's internal/api package (router.go,
// websocket.go, observability.go); the rate-limiting strategy below is
// reworked rather than ported, since the Tool Server is a single ops
// side channel fronting a control process, not a public multi-tenant
// chat API — a handful of operator/viewer IPs at most, which doesn't
// justify a background sweep goroutine with its own stop lifecycle.
package tool

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig configures the per-IP token bucket backing the Tool
// Server's HTTP middleware.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	StaleAfter        time.Duration // buckets idle longer than this are evicted
}

func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{RequestsPerSecond: 20, Burst: 40, StaleAfter: 5 * time.Minute}
}

// ipBucket pairs a token bucket with the last time its IP was seen, using
// the generic atomic types the rest of this module's teacher package
// favors (internal/kick/profile_cache.go's atomic.Uint64 counters) so
// lastSeen needs no surrounding mutex despite concurrent HTTP handlers.
type ipBucket struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64 // UnixNano
}

// sweepEvery bounds how often Allow pays for a full map walk: evicting
// stale buckets inline, once every sweepEvery calls, avoids running a
// standing cleanup goroutine for what is normally a tiny set of IPs.
const sweepEvery = 256

// IPRateLimiter rate-limits HTTP requests per source IP.
type IPRateLimiter struct {
	buckets sync.Map // ip string -> *ipBucket
	cfg     RateLimitConfig
	calls   atomic.Uint64
}

func NewIPRateLimiter(cfg RateLimitConfig) *IPRateLimiter {
	return &IPRateLimiter{cfg: cfg}
}

// Stop exists so callers written against a limiter with a lifecycle (the
// Tool Server's shutdown path) have nothing to change; eviction here
// happens inline in Allow rather than on a ticker, so there is no
// goroutine to stop.
func (rl *IPRateLimiter) Stop() {}

func (rl *IPRateLimiter) bucket(ip string, now time.Time) *ipBucket {
	if existing, ok := rl.buckets.Load(ip); ok {
		b := existing.(*ipBucket)
		b.lastSeen.Store(now.UnixNano())
		return b
	}
	fresh := &ipBucket{limiter: rate.NewLimiter(rate.Limit(rl.cfg.RequestsPerSecond), rl.cfg.Burst)}
	fresh.lastSeen.Store(now.UnixNano())
	actual, _ := rl.buckets.LoadOrStore(ip, fresh)
	return actual.(*ipBucket)
}

func (rl *IPRateLimiter) sweep(now time.Time) {
	cutoff := now.Add(-rl.cfg.StaleAfter).UnixNano()
	rl.buckets.Range(func(key, value any) bool {
		if value.(*ipBucket).lastSeen.Load() < cutoff {
			rl.buckets.Delete(key)
		}
		return true
	})
}

// Allow reports whether a request from ip is within its token bucket,
// sweeping idle buckets on every sweepEvery'th call.
func (rl *IPRateLimiter) Allow(ip string) bool {
	now := time.Now()
	allowed := rl.bucket(ip, now).limiter.Allow()
	if rl.calls.Add(1)%sweepEvery == 0 {
		rl.sweep(now)
	}
	return allowed
}

func (rl *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(ClientIP(r)) {
			recordConnectionRejected("rate_limit")
			w.Header().Set("Retry-After", "1")
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP extracts the request's source IP, honoring X-Forwarded-For.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx >= 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// WSConnLimiter caps concurrent WebSocket connections per IP with a
// single atomic add-then-check-and-rollback instead of a compare-and-swap
// retry loop: optimistic increment is cheaper when the cap is rarely hit,
// which is the common case for an operator-facing viewer socket.
type WSConnLimiter struct {
	connections sync.Map // ip string -> *atomic.Int32
	maxPerIP    int32
}

func NewWSConnLimiter(maxPerIP int) *WSConnLimiter {
	return &WSConnLimiter{maxPerIP: int32(maxPerIP)}
}

func (l *WSConnLimiter) counter(ip string) *atomic.Int32 {
	actual, _ := l.connections.LoadOrStore(ip, new(atomic.Int32))
	return actual.(*atomic.Int32)
}

func (l *WSConnLimiter) Allow(ip string) bool {
	counter := l.counter(ip)
	if counter.Add(1) > l.maxPerIP {
		counter.Add(-1)
		return false
	}
	return true
}

func (l *WSConnLimiter) Release(ip string) {
	if actual, ok := l.connections.Load(ip); ok {
		actual.(*atomic.Int32).Add(-1)
	}
}
