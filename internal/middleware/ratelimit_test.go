package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimiterBurstThenThrottle(t *testing.T) {
	rl := NewRateLimiter(1, 3)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := rl.Middleware(next)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
		r.RemoteAddr = "203.0.113.9:51000"
		h.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d within burst: got %d, want 200", i+1, w.Code)
		}
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	r.RemoteAddr = "203.0.113.9:51000"
	h.ServeHTTP(w, r)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("request past burst: got %d, want 429", w.Code)
	}
}

func TestRateLimiterPerClient(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := rl.Middleware(next)

	first := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	first.RemoteAddr = "203.0.113.9:51000"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, first)
	if w.Code != http.StatusOK {
		t.Fatalf("first client: got %d, want 200", w.Code)
	}

	// A different client has its own bucket.
	second := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	second.RemoteAddr = "198.51.100.4:40000"
	w = httptest.NewRecorder()
	h.ServeHTTP(w, second)
	if w.Code != http.StatusOK {
		t.Errorf("second client: got %d, want 200", w.Code)
	}
}

func TestClientIPForwardedFor(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:9999"
	r.Header.Set("X-Forwarded-For", "203.0.113.50")
	if got := clientIP(r); got != "203.0.113.50" {
		t.Errorf("clientIP: got %q, want forwarded address", got)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:9999"
	if got := clientIP(r); got != "10.0.0.1" {
		t.Errorf("clientIP: got %q, want 10.0.0.1", got)
	}
}

func TestClientIPForwardedForChain(t *testing.T) {
	// Proxies append their own address; the bucket key must stay the
	// originating client no matter how many hops the chain grows.
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:9999"
	r.Header.Set("X-Forwarded-For", "203.0.113.50, 70.41.3.18, 150.172.238.178")
	if got := clientIP(r); got != "203.0.113.50" {
		t.Errorf("clientIP: got %q, want first hop 203.0.113.50", got)
	}

	short := httptest.NewRequest(http.MethodGet, "/", nil)
	short.RemoteAddr = "10.0.0.1:9999"
	short.Header.Set("X-Forwarded-For", "203.0.113.50")
	if clientIP(r) != clientIP(short) {
		t.Error("same client must map to the same bucket key regardless of chain length")
	}
}
