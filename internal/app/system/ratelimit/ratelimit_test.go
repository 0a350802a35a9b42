package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestLimiter(limit int, d time.Duration) (*Limiter, *fakeClock) {
	clk := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := New(limit, d)
	l.now = clk.now
	return l, clk
}

func TestAllow_WindowResets(t *testing.T) {
	l, clk := newTestLimiter(2, time.Minute)

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("first two requests should pass")
	}
	if l.Allow("a") {
		t.Fatal("third request inside the window should be limited")
	}
	if !l.Allow("b") {
		t.Fatal("other keys have their own window")
	}
	if got := l.Remaining("a"); got != 0 {
		t.Errorf("Remaining(a) = %d, want 0", got)
	}

	clk.t = clk.t.Add(time.Minute + time.Second)
	if !l.Allow("a") {
		t.Fatal("request after the window should pass")
	}
	if got := l.Remaining("a"); got != 1 {
		t.Errorf("Remaining(a) = %d, want 1", got)
	}
}

func TestPrune(t *testing.T) {
	l, clk := newTestLimiter(1, time.Minute)
	l.Allow("a")
	l.Allow("b")

	if n := l.Prune(0); n != 0 {
		t.Fatalf("nothing expired yet, pruned %d", n)
	}
	clk.t = clk.t.Add(2 * time.Minute)
	if n := l.Prune(0); n != 2 {
		t.Fatalf("expected 2 pruned, got %d", n)
	}
}

func TestMiddleware(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)
	h := l.Middleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/auth/google", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := do("192.0.2.1:1000"); code != http.StatusOK {
		t.Fatalf("first request: %d", code)
	}
	if code := do("192.0.2.1:2000"); code != http.StatusTooManyRequests {
		t.Fatalf("second request from the same IP: %d", code)
	}
	if code := do("192.0.2.2:1000"); code != http.StatusOK {
		t.Fatalf("other IP: %d", code)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		header map[string]string
		remote string
		want   string
	}{
		{name: "forwarded for", header: map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, remote: "10.0.0.2:80", want: "203.0.113.7"},
		{name: "real ip", header: map[string]string{"X-Real-IP": " 203.0.113.8 "}, remote: "10.0.0.2:80", want: "203.0.113.8"},
		{name: "remote addr", remote: "198.51.100.4:5555", want: "198.51.100.4"},
		{name: "remote addr without port", remote: "198.51.100.4", want: "198.51.100.4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			if got := ClientIP(req); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}
