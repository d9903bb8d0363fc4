// Copyright 2026 The Trellis Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/trellis-im/trellis/lib/id"
	"github.com/trellis-im/trellis/transport"
)

// ResolveAliasRequest resolves a room alias to a room ID through the
// directory. Unauthenticated.
type ResolveAliasRequest struct {
	Alias id.RoomAlias
}

func (r *ResolveAliasRequest) Descriptor() Descriptor {
	return Descriptor{Method: http.MethodGet, Path: "/_matrix/client/v3/directory/room/{roomAlias}"}
}

func (r *ResolveAliasRequest) Wire() (*transport.Request, error) {
	path := "/_matrix/client/v3/directory/room/" + url.PathEscape(r.Alias.String())
	return NewJSONRequest(http.MethodGet, path, nil, nil)
}

// ResolveAliasResponse carries the resolved room ID and the servers
// known to participate in the room.
type ResolveAliasResponse struct {
	RoomID  id.RoomID `json:"room_id"`
	Servers []string  `json:"servers"`
}

func (r *ResolveAliasResponse) FromWire(response *transport.Response) error {
	return DecodeJSON(response, r)
}

// JoinRoomRequest joins a room by ID.
type JoinRoomRequest struct {
	RoomID id.RoomID
}

func (r *JoinRoomRequest) Descriptor() Descriptor {
	return Descriptor{Method: http.MethodPost, Path: "/_matrix/client/v3/join/{roomIdOrAlias}", RequiresAuth: true}
}

func (r *JoinRoomRequest) Wire() (*transport.Request, error) {
	path := "/_matrix/client/v3/join/" + url.PathEscape(r.RoomID.String())
	return NewJSONRequest(http.MethodPost, path, nil, struct{}{})
}

// JoinRoomResponse confirms the joined room.
type JoinRoomResponse struct {
	RoomID id.RoomID `json:"room_id"`
}

func (r *JoinRoomResponse) FromWire(response *transport.Response) error {
	return DecodeJSON(response, r)
}

// CreateRoomRequest creates a new room. The JSON tags mirror the
// createRoom endpoint body; zero fields are omitted.
type CreateRoomRequest struct {
	Name       string   `json:"name,omitempty"`
	Topic      string   `json:"topic,omitempty"`
	Alias      string   `json:"room_alias_name,omitempty"` // local alias without # or :server
	Visibility string   `json:"visibility,omitempty"`      // "public" or "private"
	Preset     string   `json:"preset,omitempty"`          // "private_chat", "public_chat", "trusted_private_chat"
	Invite     []string `json:"invite,omitempty"`
}

func (r *CreateRoomRequest) Descriptor() Descriptor {
	return Descriptor{Method: http.MethodPost, Path: "/_matrix/client/v3/createRoom", RequiresAuth: true}
}

func (r *CreateRoomRequest) Wire() (*transport.Request, error) {
	return NewJSONRequest(http.MethodPost, "/_matrix/client/v3/createRoom", nil, r)
}

// CreateRoomResponse carries the ID of the created room.
type CreateRoomResponse struct {
	RoomID id.RoomID `json:"room_id"`
}

func (r *CreateRoomResponse) FromWire(response *transport.Response) error {
	return DecodeJSON(response, r)
}

// SendEventRequest sends an event to a room using the idempotent PUT
// form: resending with the same transaction ID is a no-op on the
// server.
type SendEventRequest struct {
	RoomID        id.RoomID
	EventType     id.EventType
	TransactionID string
	Content       any
}

func (r *SendEventRequest) Descriptor() Descriptor {
	return Descriptor{Method: http.MethodPut, Path: "/_matrix/client/v3/rooms/{roomId}/send/{eventType}/{txnId}", RequiresAuth: true}
}

func (r *SendEventRequest) Wire() (*transport.Request, error) {
	path := "/_matrix/client/v3/rooms/" + url.PathEscape(r.RoomID.String()) +
		"/send/" + url.PathEscape(r.EventType.String()) +
		"/" + url.PathEscape(r.TransactionID)
	return NewJSONRequest(http.MethodPut, path, nil, r.Content)
}

// SendEventResponse carries the event ID assigned by the server.
type SendEventResponse struct {
	EventID id.EventID `json:"event_id"`
}

func (r *SendEventResponse) FromWire(response *transport.Response) error {
	return DecodeJSON(response, r)
}

// RoomMessagesRequest fetches paginated messages from a room.
type RoomMessagesRequest struct {
	RoomID    id.RoomID
	From      string // pagination token; empty means "from now"
	Direction string // "b" (backward/older) or "f" (forward/newer); default "b"
	Limit     int    // max events to return; 0 uses the server default
}

func (r *RoomMessagesRequest) Descriptor() Descriptor {
	return Descriptor{Method: http.MethodGet, Path: "/_matrix/client/v3/rooms/{roomId}/messages", RequiresAuth: true}
}

func (r *RoomMessagesRequest) Wire() (*transport.Request, error) {
	query := url.Values{}
	if r.From != "" {
		query.Set("from", r.From)
	}
	direction := r.Direction
	if direction == "" {
		direction = "b"
	}
	query.Set("dir", direction)
	if r.Limit > 0 {
		query.Set("limit", strconv.Itoa(r.Limit))
	}

	path := "/_matrix/client/v3/rooms/" + url.PathEscape(r.RoomID.String()) + "/messages"
	return NewJSONRequest(http.MethodGet, path, query, nil)
}

// RoomMessagesResponse is one page of room history.
type RoomMessagesResponse struct {
	Start string  `json:"start"`
	End   string  `json:"end"`
	Chunk []Event `json:"chunk"`
}

func (r *RoomMessagesResponse) FromWire(response *transport.Response) error {
	return DecodeJSON(response, r)
}
