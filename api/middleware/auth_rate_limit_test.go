package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

type stubRateStore struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func newStubRateStore() *stubRateStore {
	return &stubRateStore{counts: make(map[string]int64)}
}

func (s *stubRateStore) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[key]++
	return s.counts[key], nil
}

func rateLimitedHandler(store *stubRateStore, ipLimit, emailLimit int) http.Handler {
	policy := NewAuthRateLimitPolicy("login", time.Minute, ipLimit, emailLimit)
	return AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestAuthRateLimitBlocksAfterIPLimit(t *testing.T) {
	store := newStubRateStore()
	handler := rateLimitedHandler(store, 2, 0)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/users/login", strings.NewReader(`{}`))
		req.RemoteAddr = "10.0.0.1:1234"
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 got %d", i, resp.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/users/login", strings.NewReader(`{}`))
	req.RemoteAddr = "10.0.0.1:1234"
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", resp.Code)
	}
}

func TestAuthRateLimitBlocksPerEmail(t *testing.T) {
	store := newStubRateStore()
	handler := rateLimitedHandler(store, 0, 1)
	body := `{"email":"target@example.com","password":"x"}`

	req := httptest.NewRequest(http.MethodPost, "/users/login", strings.NewReader(body))
	req.RemoteAddr = "10.0.0.1:1234"
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	// Different source IP, same email.
	req = httptest.NewRequest(http.MethodPost, "/users/login", strings.NewReader(body))
	req.RemoteAddr = "10.0.0.2:1234"
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", resp.Code)
	}
}

func TestAuthRateLimitPreservesBodyForNextHandler(t *testing.T) {
	store := newStubRateStore()
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 5)
	var seen string
	handler := AuthRateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		seen = string(raw)
		w.WriteHeader(http.StatusOK)
	}))

	body := `{"email":"body@example.com","password":"x"}`
	req := httptest.NewRequest(http.MethodPost, "/users/login", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if seen != body {
		t.Fatalf("downstream handler saw %q", seen)
	}
}

func TestAuthRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	handler := rateLimitedHandler(newStubRateStore(), 0, 0)

	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodPost, "/users/login", strings.NewReader(`{}`))
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected pass-through, got %d", resp.Code)
		}
	}
}
