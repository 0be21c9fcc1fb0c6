package api

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// IPLimiter applies a token bucket per client IP and evicts idle buckets.
type IPLimiter struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration

	mu   sync.Mutex
	byIP map[string]*bucket
	hits uint64
	now  func() time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewIPLimiter returns nil when limiting is disabled; a nil limiter allows everything.
func NewIPLimiter(rps float64, burst int) *IPLimiter {
	if rps <= 0 || burst <= 0 {
		return nil
	}
	return &IPLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		idleTTL: 10 * time.Minute,
		byIP:    make(map[string]*bucket),
		now:     time.Now,
	}
}

func (l *IPLimiter) Allow(ip string) bool {
	if l == nil || ip == "" {
		return true
	}
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.byIP[ip]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.byIP[ip] = b
	}
	b.lastSeen = now
	allowed := b.limiter.AllowN(now, 1)

	l.hits++
	if l.hits%512 == 0 {
		cutoff := now.Add(-l.idleTTL)
		for k, v := range l.byIP {
			if v.lastSeen.Before(cutoff) {
				delete(l.byIP, k)
			}
		}
	}
	return allowed
}

// clientIP keys the limiter on the peer address. Forwarded headers only count
// when SetupRouter runs with TrustProxy, which rewrites RemoteAddr first.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
