// Copyright 2026 The Trellis Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"sync"

	"github.com/trellis-im/trellis/lib/id"
)

// Session is the authentication state produced by a login or
// registration: the bearer token plus the identity it belongs to.
// Values are plain data and safe to copy; the JSON shape is stable and
// suitable for persisting to disk.
type Session struct {
	AccessToken string    `json:"access_token"`
	DeviceID    string    `json:"device_id"`
	UserID      id.UserID `json:"user_id"`
}

// SessionStore holds the session a [Client] authenticates with.
// Implementations must be safe for concurrent use; the client reads the
// store on every authenticated dispatch and writes it on login,
// registration, and logout.
//
// Inject a custom store to persist sessions or to share one session
// between independently constructed clients.
type SessionStore interface {
	// Get returns the current session and whether one is present.
	Get() (Session, bool)
	// Set replaces the current session.
	Set(session Session)
	// Clear removes the current session, if any.
	Clear()
}

// MemorySessionStore is the default [SessionStore]: a mutex-guarded
// in-process slot. The zero value is empty and ready to use.
type MemorySessionStore struct {
	mu      sync.Mutex
	session Session
	present bool
}

// NewMemorySessionStore returns an empty in-memory store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{}
}

func (s *MemorySessionStore) Get() (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session, s.present
}

func (s *MemorySessionStore) Set(session Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
	s.present = true
}

func (s *MemorySessionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = Session{}
	s.present = false
}
