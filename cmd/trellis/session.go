// Copyright 2026 The Trellis Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/trellis-im/trellis/client"
)

// savedSession is the on-disk session: the client session plus the
// homeserver it was issued by, so commands reconnect to the right
// server without flags.
type savedSession struct {
	Homeserver string `json:"homeserver"`
	client.Session
}

// sessionFilePath resolves the session file location: the explicit
// override if given, else $TRELLIS_SESSION_FILE, else
// ~/.config/trellis/session.json.
func sessionFilePath(override string) string {
	if override != "" {
		return override
	}
	if envPath := os.Getenv("TRELLIS_SESSION_FILE"); envPath != "" {
		return envPath
	}
	configDirectory := os.Getenv("XDG_CONFIG_HOME")
	if configDirectory == "" {
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "trellis-session.json")
		}
		configDirectory = filepath.Join(homeDirectory, ".config")
	}
	return filepath.Join(configDirectory, "trellis", "session.json")
}

// loadSessionFile reads a saved session, with a pointer to
// "trellis login" when none exists.
func loadSessionFile(path string) (*savedSession, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no session found at %s — run \"trellis login\" first", path)
		}
		return nil, fmt.Errorf("reading session file %s: %w", path, err)
	}

	var session savedSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("parsing session file %s: %w", path, err)
	}
	if session.AccessToken == "" {
		return nil, fmt.Errorf("session file %s has no access_token", path)
	}
	if session.Homeserver == "" {
		return nil, fmt.Errorf("session file %s has no homeserver", path)
	}
	return &session, nil
}

// saveSessionFile writes the session with mode 0600; the parent
// directory is created 0700. The file carries an access token.
func saveSessionFile(session *savedSession, path string) error {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	data = append(data, '\n')

	directory := filepath.Dir(path)
	if err := os.MkdirAll(directory, 0700); err != nil {
		return fmt.Errorf("creating session directory %s: %w", directory, err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing session file %s: %w", path, err)
	}
	return nil
}
