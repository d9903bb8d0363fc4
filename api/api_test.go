// Copyright 2026 The Trellis Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/trellis-im/trellis/transport"
)

func TestDecodeJSON(t *testing.T) {
	t.Run("2xx decodes body", func(t *testing.T) {
		var out struct {
			Value string `json:"value"`
		}
		err := DecodeJSON(&transport.Response{
			StatusCode: http.StatusOK,
			Body:       []byte(`{"value":"v"}`),
		}, &out)
		if err != nil {
			t.Fatalf("DecodeJSON failed: %v", err)
		}
		if out.Value != "v" {
			t.Errorf("decoded value = %q", out.Value)
		}
	})

	t.Run("2xx with nil target discards body", func(t *testing.T) {
		err := DecodeJSON(&transport.Response{StatusCode: http.StatusOK, Body: []byte(`{}`)}, nil)
		if err != nil {
			t.Fatalf("DecodeJSON failed: %v", err)
		}
	})

	t.Run("2xx with malformed body fails", func(t *testing.T) {
		var out struct{}
		err := DecodeJSON(&transport.Response{StatusCode: http.StatusOK, Body: []byte(`not json`)}, &out)
		if err == nil {
			t.Fatal("expected decode error")
		}
		var serverError *ServerError
		if errors.As(err, &serverError) {
			t.Error("malformed 2xx body must not produce a ServerError")
		}
	})

	t.Run("non-2xx with Matrix error body", func(t *testing.T) {
		err := DecodeJSON(&transport.Response{
			StatusCode: http.StatusForbidden,
			Body:       []byte(`{"errcode":"M_FORBIDDEN","error":"denied"}`),
		}, nil)
		if err == nil {
			t.Fatal("expected error for 403")
		}
		var serverError *ServerError
		if !errors.As(err, &serverError) {
			t.Fatalf("expected *ServerError, got %T", err)
		}
		if serverError.Code != ErrCodeForbidden {
			t.Errorf("code = %q", serverError.Code)
		}
		if serverError.StatusCode != http.StatusForbidden {
			t.Errorf("status = %d", serverError.StatusCode)
		}
		if !IsServerError(err, ErrCodeForbidden) {
			t.Error("IsServerError should match M_FORBIDDEN")
		}
		if IsServerError(err, ErrCodeNotFound) {
			t.Error("IsServerError should not match M_NOT_FOUND")
		}
	})

	t.Run("non-2xx with non-JSON body", func(t *testing.T) {
		err := DecodeJSON(&transport.Response{
			StatusCode: http.StatusBadGateway,
			Body:       []byte("<html>bad gateway</html>"),
		}, nil)
		if err == nil {
			t.Fatal("expected error for 502")
		}
		var serverError *ServerError
		if errors.As(err, &serverError) {
			t.Error("non-JSON error body must not produce a ServerError")
		}
	})
}

func TestServerErrorMessage(t *testing.T) {
	err := &ServerError{Code: ErrCodeUnknownToken, Message: "bad token", StatusCode: 401}
	expected := "matrix: M_UNKNOWN_TOKEN (401): bad token"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}

	if IsServerError(context.Canceled, ErrCodeUnknownToken) {
		t.Error("IsServerError should be false for unrelated errors")
	}
}

func TestNewJSONRequest(t *testing.T) {
	t.Run("bodyless", func(t *testing.T) {
		request, err := NewJSONRequest(http.MethodGet, "/path", nil, nil)
		if err != nil {
			t.Fatalf("NewJSONRequest failed: %v", err)
		}
		if request.Body != nil {
			t.Error("bodyless request should have nil body")
		}
		if got := request.Header.Get("Content-Type"); got != "" {
			t.Errorf("unexpected content type %q", got)
		}
	})

	t.Run("with body", func(t *testing.T) {
		request, err := NewJSONRequest(http.MethodPost, "/path", nil, map[string]int{"a": 1})
		if err != nil {
			t.Fatalf("NewJSONRequest failed: %v", err)
		}
		if got := request.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("content type = %q", got)
		}
		if string(request.Body) != `{"a":1}` {
			t.Errorf("body = %s", request.Body)
		}
	})

	t.Run("unencodable body is a serialization failure", func(t *testing.T) {
		_, err := NewJSONRequest(http.MethodPost, "/path", nil, make(chan int))
		if err == nil {
			t.Fatal("expected encoding error")
		}
	})
}

// marshalJSON round-trips v through encoding/json for comparison.
func marshalJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(data)
}
