// Copyright 2026 The Trellis Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxResponseSize bounds response body reads: 256 MB. This exists solely
// to prevent a pathological response from exhausting system memory.
// Legitimate JSON API responses — even an initial full-state /sync — are
// orders of magnitude smaller.
const maxResponseSize int64 = 256 << 20

// Pooled is the production Capability: a keep-alive pooled HTTP client.
// The zero-option form reuses the defaults of net/http; options
// customize TLS, timeouts, and pooling behavior at construction time.
type Pooled struct {
	httpClient *http.Client
}

type pooledOptions struct {
	httpClient        *http.Client
	timeout           time.Duration
	tlsConfig         *tls.Config
	disableKeepAlives bool
	userAgent         string
}

// Option customizes a Pooled transport at construction time.
type Option func(*pooledOptions)

// WithHTTPClient uses the given client verbatim, ignoring the transport
// construction options. Useful for wiring in an externally configured
// client (proxies, instrumentation).
func WithHTTPClient(client *http.Client) Option {
	return func(options *pooledOptions) { options.httpClient = client }
}

// WithTimeout sets an overall per-request timeout. Zero (the default)
// means no client-side timeout — long-poll /sync calls rely on this.
func WithTimeout(timeout time.Duration) Option {
	return func(options *pooledOptions) { options.timeout = timeout }
}

// WithTLSConfig sets the TLS configuration for HTTPS connections.
func WithTLSConfig(config *tls.Config) Option {
	return func(options *pooledOptions) { options.tlsConfig = config }
}

// WithoutKeepAlives disables connection reuse. Every request opens a
// fresh TCP connection.
func WithoutKeepAlives() Option {
	return func(options *pooledOptions) { options.disableKeepAlives = true }
}

// WithUserAgent sets the User-Agent header on every outgoing request.
func WithUserAgent(userAgent string) Option {
	return func(options *pooledOptions) { options.userAgent = userAgent }
}

// NewPooled creates a pooled HTTP transport.
func NewPooled(optionFns ...Option) *Pooled {
	var options pooledOptions
	for _, fn := range optionFns {
		fn(&options)
	}

	if options.httpClient != nil {
		return &Pooled{httpClient: options.httpClient}
	}

	httpTransport := http.DefaultTransport.(*http.Transport).Clone()
	httpTransport.DisableKeepAlives = options.disableKeepAlives
	if options.tlsConfig != nil {
		httpTransport.TLSClientConfig = options.tlsConfig
	}

	var roundTripper http.RoundTripper = httpTransport
	if options.userAgent != "" {
		roundTripper = &userAgentTransport{value: options.userAgent, base: httpTransport}
	}

	return &Pooled{
		httpClient: &http.Client{
			Transport: roundTripper,
			Timeout:   options.timeout,
		},
	}
}

// Call sends the wire request and reads the full response body (bounded
// at 256 MB). Any HTTP status is a successful call; an error return
// means the request failed at the transport level.
func (p *Pooled) Call(ctx context.Context, request *Request) (*Response, error) {
	var bodyReader io.Reader
	if len(request.Body) > 0 {
		bodyReader = bytes.NewReader(request.Body)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, request.Method, request.URL.String(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("transport: building request: %w", err)
	}
	for name, values := range request.Header {
		httpRequest.Header[name] = values
	}

	httpResponse, err := p.httpClient.Do(httpRequest)
	if err != nil {
		return nil, fmt.Errorf("transport: %s %s: %w", request.Method, request.URL.Path, err)
	}
	defer httpResponse.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResponse.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("transport: reading response body: %w", err)
	}

	return &Response{
		StatusCode: httpResponse.StatusCode,
		Header:     httpResponse.Header,
		Body:       body,
	}, nil
}

// CloseIdleConnections closes idle connections in the underlying pool.
// Call after a network disruption to force subsequent requests onto
// fresh TCP connections instead of reusing a poisoned pooled connection.
func (p *Pooled) CloseIdleConnections() {
	p.httpClient.CloseIdleConnections()
}

// userAgentTransport stamps a User-Agent header on every request.
type userAgentTransport struct {
	value string
	base  http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(request *http.Request) (*http.Response, error) {
	request.Header.Set("User-Agent", t.value)
	return t.base.RoundTrip(request)
}
