package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestClientGET(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Test") != "default" {
			t.Errorf("Expected default header, got %q", r.Header.Get("X-Test"))
		}
		w.Write([]byte(`{"price": 123.45}`))
	}))
	defer server.Close()

	client := NewClient(WithHeader("X-Test", "default"), WithTimeout(5*time.Second))
	resp, err := client.GET(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("GET returned error: %v", err)
	}

	var payload struct {
		Price float64 `json:"price"`
	}
	if err := resp.ParseJSON(&payload); err != nil {
		t.Fatalf("ParseJSON returned error: %v", err)
	}
	if payload.Price != 123.45 {
		t.Errorf("Expected price 123.45, got %f", payload.Price)
	}
}

func TestClientGETHeaderOverride(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Test") != "override" {
			t.Errorf("Expected override header, got %q", r.Header.Get("X-Test"))
		}
	}))
	defer server.Close()

	client := NewClient(WithHeader("X-Test", "default"))
	if _, err := client.GET(context.Background(), server.URL, map[string]string{"X-Test": "override"}); err != nil {
		t.Fatalf("GET returned error: %v", err)
	}
}

func TestClientGETStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient()
	if _, err := client.GET(context.Background(), server.URL); err == nil {
		t.Error("Expected an error for a 404 response")
	}
}

func TestGETWithRetryEventualSuccess(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewClient()
	cfg := &RetryConfig{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: 5 * time.Millisecond}
	resp, err := client.GETWithRetry(context.Background(), server.URL, cfg)
	if err != nil {
		t.Fatalf("GETWithRetry returned error: %v", err)
	}
	if resp.String() != "ok" {
		t.Errorf("Expected body %q, got %q", "ok", resp.String())
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Errorf("Expected 3 attempts, got %d", calls)
	}
}

func TestGETWithRetryExhausted(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient()
	cfg := &RetryConfig{MaxAttempts: 2, InitialWait: time.Millisecond, MaxWait: time.Millisecond}
	if _, err := client.GETWithRetry(context.Background(), server.URL, cfg); err == nil {
		t.Error("Expected an error once attempts are exhausted")
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("Expected 2 attempts, got %d", calls)
	}
}

func TestGETWithRetryContextCancel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient()
	cfg := &RetryConfig{MaxAttempts: 3, InitialWait: time.Second, MaxWait: time.Second}
	start := time.Now()
	if _, err := client.GETWithRetry(ctx, server.URL, cfg); err == nil {
		t.Error("Expected an error with a cancelled context")
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("Cancelled context should short-circuit the backoff wait")
	}
}
