// Copyright 2026 The Trellis Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net/http"

	"github.com/trellis-im/trellis/transport"
)

// ServerVersionsRequest asks the homeserver which protocol versions and
// unstable features it supports. Unauthenticated — useful for checking
// reachability before logging in.
type ServerVersionsRequest struct{}

func (r *ServerVersionsRequest) Descriptor() Descriptor {
	return Descriptor{Method: http.MethodGet, Path: "/_matrix/client/versions"}
}

func (r *ServerVersionsRequest) Wire() (*transport.Request, error) {
	return NewJSONRequest(http.MethodGet, "/_matrix/client/versions", nil, nil)
}

// ServerVersionsResponse lists supported protocol versions.
type ServerVersionsResponse struct {
	Versions         []string        `json:"versions"`
	UnstableFeatures map[string]bool `json:"unstable_features,omitempty"`
}

func (r *ServerVersionsResponse) FromWire(response *transport.Response) error {
	return DecodeJSON(response, r)
}
