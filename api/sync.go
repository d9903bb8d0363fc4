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

// Presence values accepted by the sync endpoint's set_presence
// parameter.
const (
	PresenceOffline     = "offline"
	PresenceOnline      = "online"
	PresenceUnavailable = "unavailable"
)

// SyncRequest fetches the incremental state snapshot since a pagination
// token. An empty Since requests the initial full-state snapshot, which
// can be very large and slow to produce — that is expected, not an
// error.
type SyncRequest struct {
	// Since is the next_batch token from the previous sync; empty for
	// the initial sync.
	Since string
	// Filter is a server-side filter ID or an inline JSON filter.
	Filter string
	// SetPresence overrides the presence state the sync marks the user
	// with ("offline" to avoid appearing online). Empty sends nothing.
	SetPresence string
	// FullState forces a full state snapshot even with a Since token.
	FullState bool
	// Timeout is the server-side long-poll hold in milliseconds. Zero
	// sends no timeout parameter (the server returns immediately).
	Timeout int
}

func (r *SyncRequest) Descriptor() Descriptor {
	return Descriptor{Method: http.MethodGet, Path: "/_matrix/client/v3/sync", RequiresAuth: true}
}

func (r *SyncRequest) Wire() (*transport.Request, error) {
	query := url.Values{}
	if r.Since != "" {
		query.Set("since", r.Since)
	}
	if r.Filter != "" {
		query.Set("filter", r.Filter)
	}
	if r.SetPresence != "" {
		query.Set("set_presence", r.SetPresence)
	}
	if r.FullState {
		query.Set("full_state", "true")
	}
	if r.Timeout > 0 {
		query.Set("timeout", strconv.Itoa(r.Timeout))
	}
	return NewJSONRequest(http.MethodGet, "/_matrix/client/v3/sync", query, nil)
}

// SyncResponse is the top-level response from /sync. NextBatch is the
// pagination token to supply as Since on the next call.
type SyncResponse struct {
	NextBatch string          `json:"next_batch"`
	Presence  PresenceSection `json:"presence,omitempty"`
	Rooms     RoomsSection    `json:"rooms"`
}

func (r *SyncResponse) FromWire(response *transport.Response) error {
	return DecodeJSON(response, r)
}

// PresenceSection contains presence events from the /sync response.
type PresenceSection struct {
	Events []PresenceEvent `json:"events"`
}

// PresenceEvent is a single m.presence event.
type PresenceEvent struct {
	Type    string               `json:"type"`
	Sender  id.UserID            `json:"sender"`
	Content PresenceEventContent `json:"content"`
}

// PresenceEventContent carries the presence state for a single user.
type PresenceEventContent struct {
	// Presence is "online", "unavailable", or "offline".
	Presence string `json:"presence"`

	// LastActiveAgo is milliseconds since the user was last active.
	LastActiveAgo int64 `json:"last_active_ago,omitempty"`

	// CurrentlyActive is true when the user is actively using a client.
	CurrentlyActive bool `json:"currently_active,omitempty"`

	// StatusMsg is an optional user-set status message.
	StatusMsg string `json:"status_msg,omitempty"`
}

// RoomsSection contains per-room sync data grouped by membership state.
// Map keys are room IDs; encoding/json uses id.RoomID's TextUnmarshaler
// for automatic validation at deserialization.
type RoomsSection struct {
	Join   map[id.RoomID]JoinedRoom  `json:"join,omitempty"`
	Invite map[id.RoomID]InvitedRoom `json:"invite,omitempty"`
	Leave  map[id.RoomID]LeftRoom    `json:"leave,omitempty"`
}

// JoinedRoom contains sync data for a room the user has joined.
type JoinedRoom struct {
	Timeline TimelineSection `json:"timeline"`
	State    StateSection    `json:"state"`
}

// InvitedRoom contains sync data for a room the user was invited to.
type InvitedRoom struct {
	InviteState StateSection `json:"invite_state"`
}

// LeftRoom contains sync data for a room the user has left.
type LeftRoom struct {
	Timeline TimelineSection `json:"timeline"`
	State    StateSection    `json:"state"`
}

// TimelineSection contains timeline events from a sync response.
type TimelineSection struct {
	Events    []Event `json:"events"`
	PrevBatch string  `json:"prev_batch"`
	Limited   bool    `json:"limited"`
}

// StateSection contains state events from a sync response.
type StateSection struct {
	Events []Event `json:"events"`
}
