// Copyright 2026 The Trellis Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/trellis-im/trellis/lib/id"
)

func TestLoginRequestWire(t *testing.T) {
	request := &LoginRequest{
		User:     "alice",
		Password: "hunter2",
		DeviceID: "D1",
	}

	if request.Descriptor().RequiresAuth {
		t.Error("login must not require authentication")
	}

	wire, err := request.Wire()
	if err != nil {
		t.Fatalf("Wire failed: %v", err)
	}
	if wire.Method != http.MethodPost {
		t.Errorf("method = %s", wire.Method)
	}
	if wire.URL.Path != "/_matrix/client/v3/login" {
		t.Errorf("path = %s", wire.URL.Path)
	}

	var body map[string]any
	if err := json.Unmarshal(wire.Body, &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body["type"] != "m.login.password" {
		t.Errorf("type = %v", body["type"])
	}
	if body["user"] != "alice" || body["password"] != "hunter2" {
		t.Errorf("credentials = %v / %v", body["user"], body["password"])
	}
	if body["device_id"] != "D1" {
		t.Errorf("device_id = %v", body["device_id"])
	}
}

func TestRegisterRequestWire(t *testing.T) {
	t.Run("guest kind in query", func(t *testing.T) {
		wire, err := (&RegisterRequest{Kind: RegistrationKindGuest}).Wire()
		if err != nil {
			t.Fatalf("Wire failed: %v", err)
		}
		if got := wire.URL.Query().Get("kind"); got != "guest" {
			t.Errorf("kind = %q", got)
		}
		if string(wire.Body) != "{}" {
			t.Errorf("guest body = %s, want empty object", wire.Body)
		}
	})

	t.Run("defaults to user kind", func(t *testing.T) {
		wire, err := (&RegisterRequest{Username: "bob", Password: "pw"}).Wire()
		if err != nil {
			t.Fatalf("Wire failed: %v", err)
		}
		if got := wire.URL.Query().Get("kind"); got != "user" {
			t.Errorf("kind = %q", got)
		}
	})
}

func TestSyncRequestWire(t *testing.T) {
	t.Run("initial sync omits since", func(t *testing.T) {
		wire, err := (&SyncRequest{SetPresence: PresenceOffline}).Wire()
		if err != nil {
			t.Fatalf("Wire failed: %v", err)
		}
		query := wire.URL.Query()
		if query.Has("since") {
			t.Error("initial sync must not send since")
		}
		if query.Get("set_presence") != "offline" {
			t.Errorf("set_presence = %q", query.Get("set_presence"))
		}
		if query.Has("timeout") {
			t.Error("zero timeout must not be sent")
		}
	})

	t.Run("incremental sync", func(t *testing.T) {
		wire, err := (&SyncRequest{Since: "s_1", Filter: `{"room":{}}`, Timeout: 30000}).Wire()
		if err != nil {
			t.Fatalf("Wire failed: %v", err)
		}
		query := wire.URL.Query()
		if query.Get("since") != "s_1" {
			t.Errorf("since = %q", query.Get("since"))
		}
		if query.Get("filter") != `{"room":{}}` {
			t.Errorf("filter = %q", query.Get("filter"))
		}
		if query.Get("timeout") != "30000" {
			t.Errorf("timeout = %q", query.Get("timeout"))
		}
	})

	if !(&SyncRequest{}).Descriptor().RequiresAuth {
		t.Error("sync must require authentication")
	}
}

func TestSendEventRequestWire(t *testing.T) {
	request := &SendEventRequest{
		RoomID:        id.MustParseRoomID("!room:example.com"),
		EventType:     "m.room.message",
		TransactionID: "txn-1",
		Content:       NewTextMessage("hello"),
	}

	wire, err := request.Wire()
	if err != nil {
		t.Fatalf("Wire failed: %v", err)
	}
	if wire.Method != http.MethodPut {
		t.Errorf("method = %s", wire.Method)
	}
	// The room ID must be escaped in the raw path but preserved in the
	// decoded form.
	if wire.URL.Path != "/_matrix/client/v3/rooms/!room:example.com/send/m.room.message/txn-1" {
		t.Errorf("path = %s", wire.URL.Path)
	}
	if wire.URL.RawPath == "" {
		t.Error("escaped path segments should populate RawPath")
	}

	var content MessageContent
	if err := json.Unmarshal(wire.Body, &content); err != nil {
		t.Fatalf("body: %v", err)
	}
	if content.MsgType != "m.text" || content.Body != "hello" {
		t.Errorf("content = %+v", content)
	}
}

func TestResolveAliasRequestWire(t *testing.T) {
	request := &ResolveAliasRequest{Alias: id.MustParseRoomAlias("#lobby:example.com")}
	if request.Descriptor().RequiresAuth {
		t.Error("alias resolution must not require authentication")
	}
	wire, err := request.Wire()
	if err != nil {
		t.Fatalf("Wire failed: %v", err)
	}
	if wire.URL.Path != "/_matrix/client/v3/directory/room/#lobby:example.com" {
		t.Errorf("path = %s", wire.URL.Path)
	}
}

func TestRoomMessagesRequestWire(t *testing.T) {
	request := &RoomMessagesRequest{
		RoomID: id.MustParseRoomID("!room:example.com"),
		From:   "p_1",
		Limit:  10,
	}
	wire, err := request.Wire()
	if err != nil {
		t.Fatalf("Wire failed: %v", err)
	}
	query := wire.URL.Query()
	if query.Get("dir") != "b" {
		t.Errorf("default direction = %q, want b", query.Get("dir"))
	}
	if query.Get("from") != "p_1" || query.Get("limit") != "10" {
		t.Errorf("query = %v", query)
	}
}

func TestThreadReplyShape(t *testing.T) {
	root := id.MustParseEventID("$root")
	encoded := marshalJSON(t, NewThreadReply(root, "re: hi"))

	var decoded map[string]any
	if err := json.Unmarshal([]byte(encoded), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	relates, ok := decoded["m.relates_to"].(map[string]any)
	if !ok {
		t.Fatal("missing m.relates_to")
	}
	if relates["rel_type"] != "m.thread" {
		t.Errorf("rel_type = %v", relates["rel_type"])
	}
	if relates["event_id"] != "$root" {
		t.Errorf("event_id = %v", relates["event_id"])
	}
}
