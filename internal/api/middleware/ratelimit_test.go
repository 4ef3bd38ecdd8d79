package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiterBurstThenLimited(t *testing.T) {
	rl := NewRateLimiter(0, 3) // no refill; the burst is all a client gets
	h := rl.Limit(okHandler())

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.1.2.3:40000"
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i+1, rec.Code, http.StatusOK)
		}
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.2.3:40001" // same host, different port
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("limited response missing Retry-After header")
	}
}

func TestRateLimiterBucketsByForwardedClient(t *testing.T) {
	rl := NewRateLimiter(0, 1)
	h := rl.Limit(okHandler())

	send := func(forwardedFor string) int {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:9999" // shared proxy address
		req.Header.Set("X-Forwarded-For", forwardedFor)
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send("203.0.113.5"); code != http.StatusOK {
		t.Fatalf("first client: status = %d, want %d", code, http.StatusOK)
	}
	if code := send("203.0.113.5"); code != http.StatusTooManyRequests {
		t.Fatalf("first client repeat: status = %d, want %d", code, http.StatusTooManyRequests)
	}
	if code := send("203.0.113.6"); code != http.StatusOK {
		t.Fatalf("second client behind same proxy: status = %d, want %d", code, http.StatusOK)
	}
}
