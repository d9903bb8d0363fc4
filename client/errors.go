// Copyright 2026 The Trellis Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"errors"
	"fmt"
)

// Kind identifies the dispatch pipeline stage a request failed at.
// Exactly one kind applies to any failure.
type Kind int

const (
	// KindAuthenticationRequired: the endpoint requires a session and
	// the store holds none. Detected before any network activity.
	KindAuthenticationRequired Kind = iota + 1
	// KindURIParse: the merged request URL is not valid.
	KindURIParse
	// KindSerialization: the request body could not be encoded.
	KindSerialization
	// KindTransport: the transport failed to complete the exchange.
	// The server may or may not have observed the request.
	KindTransport
	// KindDeserialization: the server replied 2xx but the body could
	// not be decoded as the expected response type.
	KindDeserialization
	// KindProtocol: the server rejected the request with a structured
	// Matrix error. Unwraps to [*api.ServerError].
	KindProtocol
)

func (k Kind) String() string {
	switch k {
	case KindAuthenticationRequired:
		return "authentication required"
	case KindURIParse:
		return "uri parse"
	case KindSerialization:
		return "serialization"
	case KindTransport:
		return "transport"
	case KindDeserialization:
		return "deserialization"
	case KindProtocol:
		return "protocol"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is the failure type for every operation on [Client]. Op names
// the endpoint ("POST /_matrix/client/v3/login"), Kind the stage, and
// Err the underlying cause (nil for KindAuthenticationRequired, which
// has no cause beyond the missing session).
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is a [*Error] of the given kind at any
// depth of the wrap chain.
func IsKind(err error, kind Kind) bool {
	var clientError *Error
	return errors.As(err, &clientError) && clientError.Kind == kind
}
