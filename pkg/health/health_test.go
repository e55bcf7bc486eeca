package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestCheckReady(t *testing.T) {
	var gotPath atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath.Store(r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(Config{})
	if err := c.Check(context.Background(), srv.URL); err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if gotPath.Load() != DefaultPath {
		t.Errorf("request path = %v, want %q", gotPath.Load(), DefaultPath)
	}
}

func TestCheckAccepts2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(Config{})
	if err := c.Check(context.Background(), srv.URL); err != nil {
		t.Errorf("Check() error = %v for 204 response, want nil", err)
	}
}

func TestCheckNotReadyStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := New(Config{})
	if err := c.Check(context.Background(), srv.URL); err == nil {
		t.Error("Check() = nil for 503 response, want error")
	}
}

func TestCheckConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(Config{Timeout: time.Second})
	if err := c.Check(context.Background(), url); err == nil {
		t.Error("Check() = nil against closed server, want error")
	}
}

func TestCheckCustomPath(t *testing.T) {
	var gotPath atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath.Store(r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(Config{Path: "/service/isalive"})
	if err := c.Check(context.Background(), srv.URL); err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if gotPath.Load() != "/service/isalive" {
		t.Errorf("request path = %v, want /service/isalive", gotPath.Load())
	}
}
