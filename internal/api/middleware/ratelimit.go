package middleware

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/clipbrief/clipbrief/internal/identity"
)

// RateLimiter applies a token bucket per client IP. Keys come from
// identity.ClientIP so clients behind a proxy are bucketed by the forwarded
// address, not the proxy connection.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*tokenBucket
	rate    float64 // tokens per second
	burst   float64
}

type tokenBucket struct {
	tokens float64
	last   time.Time
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*tokenBucket),
		rate:    rps,
		burst:   float64(burst),
	}
	go rl.evictLoop(time.Minute, 3*time.Minute)
	return rl
}

// allow refills the client's bucket up to now and spends one token.
func (rl *RateLimiter) allow(key string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.clients[key]
	if !ok {
		b = &tokenBucket{tokens: rl.burst, last: now}
		rl.clients[key] = b
	}

	b.tokens += now.Sub(b.last).Seconds() * rl.rate
	if b.tokens > rl.burst {
		b.tokens = rl.burst
	}
	b.last = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(identity.ClientIP(r), time.Now()) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]string{"error": "too many requests"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// evictLoop drops buckets idle longer than maxIdle so the map only tracks
// recently active clients.
func (rl *RateLimiter) evictLoop(every, maxIdle time.Duration) {
	ticker := time.NewTicker(every)
	for range ticker.C {
		rl.mu.Lock()
		for key, b := range rl.clients {
			if time.Since(b.last) > maxIdle {
				delete(rl.clients, key)
			}
		}
		rl.mu.Unlock()
	}
}
