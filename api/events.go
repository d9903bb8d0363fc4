// Copyright 2026 The Trellis Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"encoding/json"
	"fmt"

	"github.com/trellis-im/trellis/lib/id"
)

// Event is a Matrix event as delivered by the server in /sync and
// pagination responses. StateKey is a pointer to distinguish state
// events (non-nil, possibly empty) from timeline events (nil).
type Event struct {
	EventID        id.EventID     `json:"event_id"`
	Type           id.EventType   `json:"type"`
	Sender         id.UserID      `json:"sender"`
	OriginServerTS int64          `json:"origin_server_ts"`
	Content        map[string]any `json:"content"`
	RoomID         id.RoomID      `json:"room_id,omitempty"`
	StateKey       *string        `json:"state_key,omitempty"`
	Unsigned       *EventUnsigned `json:"unsigned,omitempty"`
}

// DecodeContent unmarshals the event's content into a typed value such
// as [MessageContent]. Content arrives as a generic map because the
// event type is only known at runtime.
func (e *Event) DecodeContent(target any) error {
	data, err := json.Marshal(e.Content)
	if err != nil {
		return fmt.Errorf("re-encoding event content: %w", err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decoding %s content: %w", e.Type, err)
	}
	return nil
}

// EventUnsigned holds optional unsigned data attached to events.
type EventUnsigned struct {
	Age           int64  `json:"age,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
}

// MessageContent is the content body of an m.room.message event.
// Set RelatesTo to send the message within a thread.
type MessageContent struct {
	MsgType   string     `json:"msgtype"`
	Body      string     `json:"body"`
	RelatesTo *RelatesTo `json:"m.relates_to,omitempty"`
}

// RelatesTo expresses relationships between events. For threads,
// RelType is "m.thread" and EventID is the thread root.
type RelatesTo struct {
	RelType       string     `json:"rel_type"`
	EventID       id.EventID `json:"event_id"`
	IsFallingBack bool       `json:"is_falling_back,omitempty"`
	InReplyTo     *InReplyTo `json:"m.in_reply_to,omitempty"`
}

// InReplyTo references the specific event being replied to.
type InReplyTo struct {
	EventID id.EventID `json:"event_id"`
}

// NewTextMessage creates a plain text message with no thread context.
func NewTextMessage(body string) MessageContent {
	return MessageContent{
		MsgType: "m.text",
		Body:    body,
	}
}

// NewThreadReply creates a message that replies within an existing
// thread. threadRootID is the event ID of the thread's root message.
func NewThreadReply(threadRootID id.EventID, body string) MessageContent {
	return MessageContent{
		MsgType: "m.text",
		Body:    body,
		RelatesTo: &RelatesTo{
			RelType:       "m.thread",
			EventID:       threadRootID,
			IsFallingBack: true,
			InReplyTo: &InReplyTo{
				EventID: threadRootID,
			},
		},
	}
}
