package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestClient_Get_RetriesOnServerError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer srv.Close()

	c := &Client{HTTPClient: srv.Client(), MaxAttempts: 2, PerRequestTimeout: 5 * time.Second}
	body, ct, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("unexpected content type: %q", ct)
	}
	if !strings.Contains(string(body), "ok") {
		t.Fatalf("unexpected body: %q", string(body))
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}
}

func TestClient_Get_FailsFastOnClientError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := &Client{HTTPClient: srv.Client(), MaxAttempts: 3}
	if _, _, err := c.Get(context.Background(), srv.URL); err == nil {
		t.Fatalf("expected error for 404")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("404 is not transient; expected 1 attempt, got %d", got)
	}
}

func TestClient_Get_RejectsNonHTMLContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	defer srv.Close()

	c := &Client{HTTPClient: srv.Client()}
	if _, _, err := c.Get(context.Background(), srv.URL); err == nil {
		t.Fatalf("expected unsupported content type error")
	}
}

func TestClient_Get_RejectsNonHTTPScheme(t *testing.T) {
	c := &Client{}
	if _, _, err := c.Get(context.Background(), "ftp://example.com/a"); err == nil {
		t.Fatalf("expected scheme rejection")
	}
}

func TestClient_Get_SetsUserAgent(t *testing.T) {
	var seen string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	c := &Client{HTTPClient: srv.Client(), UserAgent: "blogaug/1.0"}
	if _, _, err := c.Get(context.Background(), srv.URL); err != nil {
		t.Fatalf("get error: %v", err)
	}
	if seen != "blogaug/1.0" {
		t.Fatalf("expected custom user agent, got %q", seen)
	}
}
