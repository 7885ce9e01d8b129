package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/festify/internal/shared"
	tu "github.com/desertthunder/festify/internal/testing"
)

func TestAPIService(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Custom BaseURL and Client", func(t *testing.T) {
			customClient := &http.Client{}
			srv := NewAPIService("http://example.com/", customClient)

			if srv.BaseURL() != "http://example.com" {
				t.Errorf("expected trailing slash trimmed, got %s", srv.BaseURL())
			}
			if srv.httpClient != customClient {
				t.Error("expected custom client to be used")
			}
		})

		t.Run("With Empty BaseURL", func(t *testing.T) {
			srv := NewAPIService("", nil)

			if srv.baseURL != defaultBaseURL {
				t.Errorf("expected default baseURL %s, got %s", defaultBaseURL, srv.baseURL)
			}
			if srv.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient to be used")
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("Successful Request With JSON Response", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("expected GET method, got %s", r.Method)
				}
				if r.URL.Path != "/test" {
					t.Errorf("expected path '/test', got %s", r.URL.Path)
				}
				if r.Header.Get("Accept") != "application/json" {
					t.Errorf("expected Accept header, got %q", r.Header.Get("Accept"))
				}

				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]string{"status": "success"})
			}))
			defer server.Close()

			resp, err := NewAPIService(server.URL, nil).Get(context.Background(), "/test")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !resp.OK() {
				t.Errorf("expected status 200, got %d", resp.StatusCode)
			}
			if !resp.IsJSON || resp.JSONData == nil {
				t.Error("expected response to be JSON")
			}
		})

		t.Run("Successful Request With Non-JSON Response", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte("plain text response"))
			}))
			defer server.Close()

			resp, err := NewAPIService(server.URL, nil).Get(context.Background(), "/test")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.IsJSON {
				t.Error("expected response to not be JSON")
			}
			if string(resp.Body) != "plain text response" {
				t.Errorf("expected body 'plain text response', got %s", string(resp.Body))
			}
		})

		t.Run("Non 2xx Is Returned Not Raised", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			}))
			defer server.Close()

			resp, err := NewAPIService(server.URL, nil).Get(context.Background(), "/test")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.OK() {
				t.Error("expected OK to be false for 502")
			}
		})

		t.Run("Failed Request Creation", func(t *testing.T) {
			_, err := NewAPIService("http://example.com", nil).Get(context.Background(), "/test\x00invalid")
			if err == nil || !strings.Contains(err.Error(), "failed to create request") {
				t.Errorf("expected 'failed to create request' error, got %v", err)
			}
		})

		t.Run("Failed HTTP Request", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection failed"))}

			_, err := NewAPIService("http://example.com", client).Get(context.Background(), "/test")
			if err == nil || !strings.Contains(err.Error(), "request failed") {
				t.Errorf("expected 'request failed' error, got %v", err)
			}
		})

		t.Run("Failed Response Body Read", func(t *testing.T) {
			client := &http.Client{
				Transport: tu.NewMockRoundTripper(&http.Response{
					StatusCode: http.StatusOK,
					Body:       &tu.FCloser{},
					Header:     http.Header{},
				}, nil),
			}

			_, err := NewAPIService("http://example.com", client).Get(context.Background(), "/test")
			if err == nil || !strings.Contains(err.Error(), "failed to read response") {
				t.Errorf("expected 'failed to read response' error, got %v", err)
			}
		})

		t.Run("With Canceled Context", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
			defer server.Close()

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			if _, err := NewAPIService(server.URL, nil).Get(ctx, "/test"); err == nil {
				t.Error("expected error for canceled context")
			}
		})
	})

	t.Run("Post", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				t.Errorf("expected POST method, got %s", r.Method)
			}
			if r.Header.Get("Content-Type") != "application/json" {
				t.Errorf("expected Content-Type 'application/json', got %s", r.Header.Get("Content-Type"))
			}

			body, _ := io.ReadAll(r.Body)
			var data map[string]string
			if err := json.Unmarshal(body, &data); err != nil {
				t.Errorf("failed to unmarshal request body: %v", err)
			}
			if data["test"] != "data" {
				t.Errorf("expected request data 'test:data', got %v", data)
			}

			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{"id": "123"})
		}))
		defer server.Close()

		requestData, _ := json.Marshal(map[string]string{"test": "data"})
		resp, err := NewAPIService(server.URL, nil).Post(context.Background(), "/test", requestData)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if resp.StatusCode != http.StatusCreated {
			t.Errorf("expected status 201, got %d", resp.StatusCode)
		}

		var decoded map[string]string
		if err := resp.Decode(&decoded); err != nil || decoded["id"] != "123" {
			t.Errorf("expected decoded id 123, got %v (%v)", decoded, err)
		}
	})

	t.Run("PostMultipart", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			file, header, err := r.FormFile("file")
			if err != nil {
				t.Fatalf("expected multipart file, got %v", err)
			}
			defer file.Close()

			if header.Filename != `lineup "2025".png` {
				t.Errorf("expected escaped filename to round trip, got %q", header.Filename)
			}
			if ct := header.Header.Get("Content-Type"); ct != "image/png" {
				t.Errorf("expected part content type image/png, got %q", ct)
			}
			data, _ := io.ReadAll(file)
			if string(data) != "PNGDATA" {
				t.Errorf("expected file body, got %q", data)
			}
			w.Write([]byte(`{"ok":true}`))
		}))
		defer server.Close()

		resp, err := NewAPIService(server.URL, nil).PostMultipart(context.Background(), "/upload", "file", `lineup "2025".png`, "image/png", []byte("PNGDATA"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !resp.OK() {
			t.Errorf("expected 200, got %d", resp.StatusCode)
		}
	})

	t.Run("Session Cookie", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(sessionCookieName)
			if err != nil || c.Value != "abc123" {
				t.Errorf("expected session cookie abc123, got %v (%v)", c, err)
			}
		}))
		defer server.Close()

		if _, err := NewAPIService(server.URL, nil, WithSessionCookie("abc123")).Get(context.Background(), "/"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("Rate Limit", func(t *testing.T) {
		t.Run("Disabled With Non Positive Rate", func(t *testing.T) {
			srv := NewAPIService("http://example.com", nil, WithRateLimit(0, 0))
			for i := 0; i < 100; i++ {
				if !srv.limiter.Allow() {
					t.Fatal("expected unlimited limiter")
				}
			}
		})

		t.Run("Wait Honors Context", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
			defer server.Close()

			srv := NewAPIService(server.URL, nil, WithRateLimit(0.001, 1))
			if _, err := srv.Get(context.Background(), "/"); err != nil {
				t.Fatalf("expected first request within burst, got %v", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
			defer cancel()
			_, err := srv.Get(ctx, "/")
			if err == nil || !strings.Contains(err.Error(), "rate limiter") {
				t.Errorf("expected rate limiter error, got %v", err)
			}
		})
	})

	t.Run("NewHTTPClient", func(t *testing.T) {
		t.Run("Without Token", func(t *testing.T) {
			client := NewHTTPClient(context.Background(), shared.APIConfig{TimeoutSeconds: 5})
			if client.Timeout != 5*time.Second {
				t.Errorf("expected 5s timeout, got %v", client.Timeout)
			}
		})

		t.Run("With Token Sends Bearer", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if got := r.Header.Get("Authorization"); got != "Bearer tok" {
					t.Errorf("expected bearer header, got %q", got)
				}
			}))
			defer server.Close()

			cfg := shared.APIConfig{BaseURL: server.URL, AccessToken: "tok", TimeoutSeconds: 5}
			srv := NewAPIServiceFromConfig(context.Background(), cfg, shared.NewLogger(io.Discard))
			if _, err := srv.Get(context.Background(), "/health"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	})
}
