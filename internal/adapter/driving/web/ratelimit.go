package web

import (
	"net"
	"net/http"
	"sync"
	"time"
)

const (
	rateLimitWindow = time.Minute
	rateLimitMax    = 5
)

// rateLimiter enforces a sliding-window request cap per client address.
// Used on the authentication endpoints to slow down credential guessing.
type rateLimiter struct {
	mu     sync.Mutex
	seen   map[string][]time.Time
	window time.Duration
	max    int
	now    func() time.Time
}

func newRateLimiter() *rateLimiter {
	return &rateLimiter{
		seen:   make(map[string][]time.Time),
		window: rateLimitWindow,
		max:    rateLimitMax,
		now:    time.Now,
	}
}

// allow records an attempt from addr and reports whether it is within the
// window cap. Timestamps older than the window are dropped on each call, so
// the map never grows past max entries per active address.
func (l *rateLimiter) allow(addr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)
	recent := l.seen[addr][:0]
	for _, t := range l.seen[addr] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= l.max {
		l.seen[addr] = recent
		return false
	}
	l.seen[addr] = append(recent, now)
	return true
}

// clientAddr strips the port from the request's remote address.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
