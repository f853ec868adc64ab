package util

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"
)

func TestNormalizeUserAgent(t *testing.T) {
	tests := map[string]string{
		"proofline/0.1 (+https://github.com/ppiankov/proofline)": "proofline",
		"curl/8.0": "curl",
		"bot":      "bot",
		"":         "",
	}
	for in, want := range tests {
		if got := NormalizeUserAgent(in); got != want {
			t.Errorf("NormalizeUserAgent(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRobotsChecker_CanFetch(t *testing.T) {
	var robotsHits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			atomic.AddInt32(&robotsHits, 1)
			fmt.Fprint(w, "User-agent: proofline\nDisallow: /private/\nCrawl-delay: 2\n")
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	checker := NewRobotsChecker("proofline/0.1", 5*time.Second, nil)
	ctx := context.Background()

	allowed, delay, err := checker.CanFetch(ctx, server.URL+"/reports/1.txt")
	if err != nil {
		t.Fatalf("CanFetch failed: %v", err)
	}
	if !allowed {
		t.Error("Expected public path to be allowed")
	}
	if delay != 2*time.Second {
		t.Errorf("Expected crawl delay 2s, got %v", delay)
	}

	allowed, _, _ = checker.CanFetch(ctx, server.URL+"/private/report.txt")
	if allowed {
		t.Error("Expected private path to be disallowed")
	}

	if hits := atomic.LoadInt32(&robotsHits); hits != 1 {
		t.Errorf("Expected robots.txt to be fetched once, got %d", hits)
	}
}

func TestRobotsChecker_MissingRobotsAllows(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	checker := NewRobotsChecker("proofline/0.1", 5*time.Second, nil)
	allowed, _, err := checker.CanFetch(context.Background(), server.URL+"/any")
	if err != nil || !allowed {
		t.Errorf("Expected allow on 404 robots.txt, got %v, %v", allowed, err)
	}
}

func TestRobotsChecker_UnsupportedScheme(t *testing.T) {
	checker := NewRobotsChecker("proofline", time.Second, nil)
	if _, _, err := checker.CanFetch(context.Background(), "ftp://example.com/x"); err == nil {
		t.Error("Expected error for ftp URL")
	}
}

func TestNewProxyFunc(t *testing.T) {
	req := func(raw string) *http.Request {
		u, _ := url.Parse(raw)
		return &http.Request{URL: u}
	}

	proxy := NewProxyFunc("http://proxy:8080", "http://secure:8443", "")

	got, err := proxy(req("https://api.deepseek.com/v1"))
	if err != nil || got.Host != "secure:8443" {
		t.Errorf("Expected HTTPS proxy, got %v, %v", got, err)
	}

	got, err = proxy(req("http://example.com"))
	if err != nil || got.Host != "proxy:8080" {
		t.Errorf("Expected HTTP proxy, got %v, %v", got, err)
	}
}

func TestNewProxyFunc_NoProxy(t *testing.T) {
	proxy := NewProxyFunc("http://proxy:8080", "", "localhost,.internal")

	for _, raw := range []string{"http://localhost:11434/api", "http://ollama.internal/api"} {
		u, _ := url.Parse(raw)
		got, err := proxy(&http.Request{URL: u})
		if err != nil || got != nil {
			t.Errorf("Expected no proxy for %s, got %v, %v", raw, got, err)
		}
	}
}
