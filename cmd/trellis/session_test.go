// Copyright 2026 The Trellis Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/trellis-im/trellis/client"
	"github.com/trellis-im/trellis/lib/id"
)

func TestSessionFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	session := &savedSession{
		Homeserver: "https://matrix.example.com",
		Session: client.Session{
			AccessToken: "syt_token",
			DeviceID:    "DEV",
			UserID:      id.MustParseUserID("@alice:example.com"),
		},
	}

	if err := saveSessionFile(session, path); err != nil {
		t.Fatalf("saveSessionFile: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		t.Errorf("session file mode = %o, want 0600", mode)
	}

	loaded, err := loadSessionFile(path)
	if err != nil {
		t.Fatalf("loadSessionFile: %v", err)
	}
	if *loaded != *session {
		t.Errorf("loaded = %+v, want %+v", loaded, session)
	}

	// The JSON shape is flat: the client session fields sit next to
	// the homeserver, not nested under a struct name.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var shape map[string]json.RawMessage
	if err := json.Unmarshal(data, &shape); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"homeserver", "access_token", "device_id", "user_id"} {
		if _, ok := shape[key]; !ok {
			t.Errorf("session file missing key %q: %s", key, data)
		}
	}
}

func TestLoadSessionFileErrors(t *testing.T) {
	directory := t.TempDir()

	t.Run("missing file names the login command", func(t *testing.T) {
		_, err := loadSessionFile(filepath.Join(directory, "absent.json"))
		if err == nil {
			t.Fatal("loadSessionFile on missing file succeeded")
		}
	})

	t.Run("missing access token", func(t *testing.T) {
		path := filepath.Join(directory, "tokenless.json")
		content := `{"homeserver": "https://matrix.example.com", "user_id": "@a:example.com"}`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := loadSessionFile(path); err == nil {
			t.Fatal("loadSessionFile accepted a session without a token")
		}
	})

	t.Run("missing homeserver", func(t *testing.T) {
		path := filepath.Join(directory, "serverless.json")
		content := `{"access_token": "syt_x", "user_id": "@a:example.com", "device_id": "D"}`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := loadSessionFile(path); err == nil {
			t.Fatal("loadSessionFile accepted a session without a homeserver")
		}
	})
}

func TestSessionFilePath(t *testing.T) {
	t.Setenv("TRELLIS_SESSION_FILE", "/run/trellis/session.json")
	if got := sessionFilePath(""); got != "/run/trellis/session.json" {
		t.Errorf("env path = %q", got)
	}
	if got := sessionFilePath("/tmp/s.json"); got != "/tmp/s.json" {
		t.Errorf("override should win over env, got %q", got)
	}

	t.Setenv("TRELLIS_SESSION_FILE", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := sessionFilePath(""); got != "/xdg/trellis/session.json" {
		t.Errorf("xdg path = %q", got)
	}
}
