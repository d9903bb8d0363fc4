// Copyright 2026 The Trellis Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func requestURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parsing %q: %v", raw, err)
	}
	return parsed
}

func TestPooledCall(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if request.Method != http.MethodPut {
				t.Errorf("method = %s, want PUT", request.Method)
			}
			if request.URL.Path != "/path" {
				t.Errorf("path = %s, want /path", request.URL.Path)
			}
			if got := request.Header.Get("Content-Type"); got != "application/json" {
				t.Errorf("content type = %q", got)
			}
			body, _ := io.ReadAll(request.Body)
			if string(body) != `{"a":1}` {
				t.Errorf("body = %s", body)
			}
			writer.WriteHeader(http.StatusOK)
			writer.Write([]byte(`{"ok":true}`))
		}))
		defer server.Close()

		pooled := NewPooled()
		response, err := pooled.Call(context.Background(), &Request{
			Method: http.MethodPut,
			URL:    requestURL(t, server.URL+"/path"),
			Header: http.Header{"Content-Type": []string{"application/json"}},
			Body:   []byte(`{"a":1}`),
		})
		if err != nil {
			t.Fatalf("Call failed: %v", err)
		}
		if response.StatusCode != http.StatusOK {
			t.Errorf("status = %d", response.StatusCode)
		}
		if string(response.Body) != `{"ok":true}` {
			t.Errorf("body = %s", response.Body)
		}
	})

	t.Run("non-2xx status is not a transport error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusForbidden)
			writer.Write([]byte(`{"errcode":"M_FORBIDDEN"}`))
		}))
		defer server.Close()

		response, err := NewPooled().Call(context.Background(), &Request{
			Method: http.MethodGet,
			URL:    requestURL(t, server.URL+"/denied"),
		})
		if err != nil {
			t.Fatalf("Call should not fail on HTTP error status: %v", err)
		}
		if response.StatusCode != http.StatusForbidden {
			t.Errorf("status = %d, want 403", response.StatusCode)
		}
	})

	t.Run("connection refused is a transport error", func(t *testing.T) {
		// A closed server guarantees nothing is listening on the port.
		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		address := server.URL
		server.Close()

		_, err := NewPooled().Call(context.Background(), &Request{
			Method: http.MethodGet,
			URL:    requestURL(t, address+"/"),
		})
		if err == nil {
			t.Fatal("expected transport error for closed server")
		}
	})

	t.Run("context cancellation abandons the call", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		defer server.Close()

		_, err := NewPooled().Call(ctx, &Request{
			Method: http.MethodGet,
			URL:    requestURL(t, server.URL+"/"),
		})
		if err == nil {
			t.Fatal("expected error for cancelled context")
		}
	})
}

func TestPooledUserAgent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if got := request.Header.Get("User-Agent"); got != "trellis-test/1" {
			t.Errorf("user agent = %q", got)
		}
		writer.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	pooled := NewPooled(WithUserAgent("trellis-test/1"))
	if _, err := pooled.Call(context.Background(), &Request{
		Method: http.MethodGet,
		URL:    requestURL(t, server.URL+"/"),
	}); err != nil {
		t.Fatalf("Call failed: %v", err)
	}
}

func TestPooledCloseIdleConnections(t *testing.T) {
	// Smoke test: must not panic with or without prior requests.
	NewPooled().CloseIdleConnections()
	NewPooled(WithoutKeepAlives()).CloseIdleConnections()
}
