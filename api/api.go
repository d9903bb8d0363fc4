// Copyright 2026 The Trellis Authors
// SPDX-License-Identifier: Apache-2.0

// Package api defines the endpoint descriptors of the Matrix
// client-server API: per-operation metadata plus the conversions
// between typed request/response values and their wire form.
//
// Every operation is a pair of types. The request type implements
// [Request]: it reports its static [Descriptor] (HTTP method, path
// template, whether authentication is required) and serializes itself
// into a wire request. The response type implements [Response]: it
// populates itself from a wire response, turning non-2xx statuses into
// [*ServerError] values carrying the server-reported Matrix errcode.
//
// The descriptors carry no network logic — dispatching them against a
// homeserver is the client package's job.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/trellis-im/trellis/transport"
)

// Descriptor is the static metadata of one API operation. It is
// identical for every call to that operation and known at definition
// time. Path is the template form (placeholders, not values) and is
// used for logging; the concrete path is produced by Request.Wire.
type Descriptor struct {
	Method       string
	Path         string
	RequiresAuth bool
}

// Request is a typed API request that knows its own endpoint metadata
// and wire encoding. A failed Wire is a serialization error — the
// request never reaches the network.
type Request interface {
	Descriptor() Descriptor
	Wire() (*transport.Request, error)
}

// Response is a typed API response that populates itself from a wire
// response. FromWire returns *ServerError when the server reported a
// structured Matrix error, or a plain error for malformed payloads.
type Response interface {
	FromWire(*transport.Response) error
}

// NewJSONRequest builds a wire request with a JSON-encoded body. path
// must already be URL-escaped (use url.PathEscape on variable
// segments); query may be nil. body may be nil for bodyless requests.
func NewJSONRequest(method, path string, query url.Values, body any) (*transport.Request, error) {
	requestURL, err := url.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("api: invalid request path %q: %w", path, err)
	}
	if query != nil {
		requestURL.RawQuery = query.Encode()
	}

	request := &transport.Request{
		Method: method,
		URL:    requestURL,
		Header: make(http.Header),
	}

	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("api: encoding request body: %w", err)
		}
		request.Body = encoded
		request.Header.Set("Content-Type", "application/json")
	}

	return request, nil
}

// DecodeJSON interprets a wire response. On 2xx it unmarshals the body
// into v (v may be nil to discard the body). On any other status it
// returns *ServerError when the body carries the standard Matrix error
// shape, or a plain error when it does not.
func DecodeJSON(response *transport.Response, v any) error {
	if response.StatusCode >= 200 && response.StatusCode < 300 {
		if v == nil {
			return nil
		}
		if err := json.Unmarshal(response.Body, v); err != nil {
			return fmt.Errorf("api: decoding response body: %w", err)
		}
		return nil
	}

	// All Matrix error responses use the same JSON shape.
	var serverError ServerError
	if err := json.Unmarshal(response.Body, &serverError); err != nil || serverError.Code == "" {
		// Non-JSON body, or JSON without an errcode. Conformant
		// homeservers always send the standard shape; fail loud with
		// the raw body.
		return fmt.Errorf("api: unexpected %d response: %s", response.StatusCode, response.Body)
	}
	serverError.StatusCode = response.StatusCode

	return &serverError
}
