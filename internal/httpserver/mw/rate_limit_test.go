package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiterBurstThenRefill(t *testing.T) {
	l := newLimiter(RateLimitConfig{Burst: 2, RefillPerIPPerMin: 60})
	now := time.Now()

	for i := 0; i < 2; i++ {
		if ok, _, _ := l.allow("client", now); !ok {
			t.Fatalf("request %d inside burst denied", i+1)
		}
	}
	ok, _, retry := l.allow("client", now)
	if ok {
		t.Fatal("request beyond burst allowed")
	}
	if retry < 1 {
		t.Errorf("retry = %d, want at least 1s", retry)
	}

	// One token per second at 60/min.
	if ok, _, _ := l.allow("client", now.Add(1100*time.Millisecond)); !ok {
		t.Error("refilled token denied")
	}
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	l := newLimiter(RateLimitConfig{Burst: 1, RefillPerIPPerMin: 1})
	now := time.Now()

	if ok, _, _ := l.allow("a", now); !ok {
		t.Fatal("first client denied")
	}
	if ok, _, _ := l.allow("a", now); ok {
		t.Fatal("first client got a second burst token")
	}
	if ok, _, _ := l.allow("b", now); !ok {
		t.Error("second client starved by first")
	}
}

func TestLimiterEvictsIdleBuckets(t *testing.T) {
	l := newLimiter(RateLimitConfig{Burst: 1, RefillPerIPPerMin: 1, MaxEntries: 2, IdleTTL: time.Minute})
	now := time.Now()

	l.allow("a", now)
	l.allow("b", now)
	l.allow("c", now.Add(2*time.Minute))

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.buckets["a"]; ok {
		t.Error("idle bucket survived eviction")
	}
	if _, ok := l.buckets["c"]; !ok {
		t.Error("fresh bucket missing")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	handler := RateLimit(RateLimitConfig{Burst: 1, RefillPerIPPerMin: 1})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:1000"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d", rec.Code)
	}
	if got := rec.Header().Get("X-RateLimit-Remaining"); got != "0" {
		t.Errorf("remaining = %q after spending the burst", got)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After on rejection")
	}
}
