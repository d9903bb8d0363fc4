// Copyright 2026 The Trellis Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"errors"
	"net/url"

	"github.com/trellis-im/trellis/api"
)

// Dispatch sends one API request and decodes the reply into response.
// It is the single path every operation takes: the convenience methods
// on [Client] are thin wrappers around it, and caller-defined endpoint
// types plug in the same way.
//
// The pipeline: encode the request, overlay its path and query onto the
// homeserver base URL, inject the access token if the endpoint requires
// authentication, call the transport, decode. A failure at any stage
// returns a [*Error] whose Kind names the stage; no stage runs after
// the first failure, so an unauthenticated client never touches the
// network for an endpoint that needs a session.
func (c *Client) Dispatch(ctx context.Context, request api.Request, response api.Response) error {
	descriptor := request.Descriptor()
	op := descriptor.Method + " " + descriptor.Path

	wireRequest, err := request.Wire()
	if err != nil {
		return &Error{Kind: KindSerialization, Op: op, Err: err}
	}

	// Scheme, host, and any base path come from the configured
	// homeserver URL; everything after them from the endpoint.
	merged := *c.baseURL
	merged.Path = wireRequest.URL.Path
	merged.RawPath = wireRequest.URL.RawPath
	merged.RawQuery = wireRequest.URL.RawQuery

	if descriptor.RequiresAuth {
		session, ok := c.store.Get()
		if !ok {
			return &Error{Kind: KindAuthenticationRequired, Op: op}
		}
		// Set, not Add: the token appears exactly once even if the
		// endpoint put one in the query itself.
		query := merged.Query()
		query.Set("access_token", session.AccessToken)
		merged.RawQuery = query.Encode()
	}

	finalURL, err := url.Parse(merged.String())
	if err != nil {
		return &Error{Kind: KindURIParse, Op: op, Err: err}
	}
	wireRequest.URL = finalURL

	c.logger.Debug("dispatching request",
		"method", descriptor.Method,
		"path", descriptor.Path,
		"authenticated", descriptor.RequiresAuth)

	wireResponse, err := c.transport.Call(ctx, wireRequest)
	if err != nil {
		return &Error{Kind: KindTransport, Op: op, Err: err}
	}

	if err := response.FromWire(wireResponse); err != nil {
		var serverError *api.ServerError
		if errors.As(err, &serverError) {
			return &Error{Kind: KindProtocol, Op: op, Err: err}
		}
		return &Error{Kind: KindDeserialization, Op: op, Err: err}
	}
	return nil
}

// call dispatches request and decodes the reply into a fresh R.
func call[R any, P interface {
	*R
	api.Response
}](ctx context.Context, c *Client, request api.Request) (*R, error) {
	response := P(new(R))
	if err := c.Dispatch(ctx, request, response); err != nil {
		return nil, err
	}
	return (*R)(response), nil
}
