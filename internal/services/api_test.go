package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestClient(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Custom BaseURL and Client", func(t *testing.T) {
			customClient := &http.Client{}
			c := NewClient("http://example.com/", customClient)

			if c.baseURL != "http://example.com" {
				t.Errorf("expected trailing slash trimmed, got %s", c.baseURL)
			}
			if c.httpClient != customClient {
				t.Error("expected custom client to be used")
			}
		})

		t.Run("With Empty BaseURL", func(t *testing.T) {
			c := NewClient("", nil)

			if c.baseURL != "http://localhost:3000" {
				t.Errorf("expected default baseURL, got %s", c.baseURL)
			}
			if c.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient to be used")
			}
		})

		t.Run("With Limiter", func(t *testing.T) {
			limiter := rate.NewLimiter(1, 1)
			c := NewClient("", nil, WithLimiter(limiter))

			if c.limiter != limiter {
				t.Error("expected limiter to be set")
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("Encodes Query And Detects JSON", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("expected GET method, got %s", r.Method)
				}
				if r.URL.Path != "/test" {
					t.Errorf("expected path '/test', got %s", r.URL.Path)
				}
				if got := r.URL.Query().Get("q"); got != "a b" {
					t.Errorf("expected query 'a b', got %q", got)
				}
				w.Write([]byte(`{"status":"success"}`))
			}))
			defer server.Close()

			resp, err := NewClient(server.URL, nil).Get(context.Background(), "/test", url.Values{"q": {"a b"}})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.StatusCode != http.StatusOK {
				t.Errorf("expected status 200, got %d", resp.StatusCode)
			}
			if !resp.IsJSON || resp.JSONData == nil {
				t.Error("expected response to be JSON")
			}
		})

		t.Run("Plain Text Response", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("Success\n"))
			}))
			defer server.Close()

			resp, err := NewClient(server.URL, nil).Get(context.Background(), "/", nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.IsJSON {
				t.Error("expected response not to be JSON")
			}
			if resp.Text() != "Success" {
				t.Errorf("expected trimmed text, got %q", resp.Text())
			}
		})

		t.Run("Network Error", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
			addr := server.URL
			server.Close()

			if _, err := NewClient(addr, nil).Get(context.Background(), "/", nil); err == nil {
				t.Fatal("expected error for closed server")
			}
		})
	})

	t.Run("Send", func(t *testing.T) {
		t.Run("Form Encoded Body", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPut {
					t.Errorf("expected PUT method, got %s", r.Method)
				}
				if err := r.ParseForm(); err != nil {
					t.Fatalf("failed to parse form: %v", err)
				}
				if got := r.PostForm["songTitles"]; len(got) != 2 || got[1] != "S2" {
					t.Errorf("expected repeated songTitles, got %v", got)
				}
				w.Write([]byte("Success"))
			}))
			defer server.Close()

			form := url.Values{"songTitles": {"S1", "S2"}}
			resp, err := NewClient(server.URL, nil).Send(context.Background(), http.MethodPut, "/x", form)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.Text() != "Success" {
				t.Errorf("expected Success, got %q", resp.Text())
			}
		})
	})

	t.Run("Limiter", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer server.Close()

		t.Run("Paces Requests", func(t *testing.T) {
			c := NewClient(server.URL, nil, WithLimiter(rate.NewLimiter(20, 1)))

			start := time.Now()
			for range 3 {
				if _, err := c.Get(context.Background(), "/", nil); err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
			}
			if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
				t.Errorf("expected paced requests, took %v", elapsed)
			}
		})

		t.Run("Cancelled Context", func(t *testing.T) {
			c := NewClient(server.URL, nil, WithLimiter(rate.NewLimiter(rate.Every(time.Hour), 1)))
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := c.Get(ctx, "/", nil)
			if err == nil {
				t.Fatal("expected error for cancelled context")
			}
			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
		})
	})
}
