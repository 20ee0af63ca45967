package middleware

import (
	"sync"
	"time"
)

const (
	invalidAuthLimit  = 5
	invalidAuthWindow = time.Minute
)

// InvalidAuthRateLimiter throttles repeated invalid webhook-token attempts
// per client IP. Valid deliveries are never counted.
type InvalidAuthRateLimiter struct {
	mu      sync.Mutex
	windows map[string]*authWindow
}

type authWindow struct {
	count   int
	startAt time.Time
}

func NewInvalidAuthRateLimiter() *InvalidAuthRateLimiter {
	rl := &InvalidAuthRateLimiter{
		windows: make(map[string]*authWindow),
	}
	go rl.cleanup()
	return rl
}

// Allow records one invalid attempt for ip and reports whether it is still
// within the per-minute budget.
func (r *InvalidAuthRateLimiter) Allow(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	w, ok := r.windows[ip]
	if !ok || now.Sub(w.startAt) > invalidAuthWindow {
		r.windows[ip] = &authWindow{count: 1, startAt: now}
		return true
	}

	if w.count >= invalidAuthLimit {
		return false
	}
	w.count++
	return true
}

// cleanup drops expired windows so the map does not grow with every scanner
// that probes the endpoint once.
func (r *InvalidAuthRateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	for range ticker.C {
		r.mu.Lock()
		now := time.Now()
		for ip, w := range r.windows {
			if now.Sub(w.startAt) > invalidAuthWindow {
				delete(r.windows, ip)
			}
		}
		r.mu.Unlock()
	}
}
