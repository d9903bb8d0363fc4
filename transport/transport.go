// Copyright 2026 The Trellis Authors
// SPDX-License-Identifier: Apache-2.0

// Package transport defines the wire-level boundary through which API
// requests are physically sent and responses received.
//
// [Capability] is the single contract the dispatch pipeline depends on:
// anything that maps a [Request] to a [Response] or a transport failure.
// [Pooled] is the production implementation over net/http with
// keep-alive connection pooling and optional TLS configuration; tests
// substitute call-counting fakes.
//
// A Capability error means the request never produced a usable HTTP
// response (connection refused, reset, TLS failure, truncated body).
// Any HTTP status code, including 4xx and 5xx, is a successful Call —
// interpreting the status belongs to the endpoint conversion layer.
package transport

import (
	"context"
	"net/http"
	"net/url"
)

// Request is a wire-level HTTP request. The dispatch pipeline only
// manipulates URL; method, headers, and body are produced by the
// endpoint conversion and passed through opaquely.
type Request struct {
	Method string
	URL    *url.URL
	Header http.Header
	Body   []byte
}

// Response is a wire-level HTTP response with the body fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Capability asynchronously maps a wire request to a wire response or a
// transport failure. Implementations must be safe for concurrent use:
// multiple dispatches may be in flight simultaneously. Cancelling ctx
// abandons the in-flight call and releases the underlying connection.
type Capability interface {
	Call(ctx context.Context, request *Request) (*Response, error)
}
