package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// limiter tracks request counts per client in fixed windows. A client's
// first request opens a window; once the window expires the count resets,
// so a burst straddling a boundary can briefly exceed the nominal rate.
type limiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	now     func() time.Time
	clients map[string]*window
}

type window struct {
	count   int
	resetAt time.Time
}

func newLimiter(limit int, per time.Duration) *limiter {
	return &limiter{
		limit:   limit,
		window:  per,
		now:     time.Now,
		clients: make(map[string]*window),
	}
}

func (l *limiter) allow(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.clients[client]
	if !ok || now.After(w.resetAt) {
		w = &window{resetAt: now.Add(l.window)}
		l.clients[client] = w
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// RateLimit rejects clients that exceed limit requests per window. It sits
// ahead of every route, authenticated or not, keyed by client IP.
func RateLimit(limit int, per time.Duration) func(http.Handler) http.Handler {
	l := newLimiter(limit, per)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.allow(clientIP(r)) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "too many requests, please try again later"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers the first valid address in X-Forwarded-For, then falls
// back to the connection's remote address.
func clientIP(r *http.Request) string {
	for _, part := range strings.Split(r.Header.Get("X-Forwarded-For"), ",") {
		candidate := strings.TrimSpace(part)
		if candidate != "" && net.ParseIP(candidate) != nil {
			return candidate
		}
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && net.ParseIP(host) != nil {
		return host
	}
	return r.RemoteAddr
}
