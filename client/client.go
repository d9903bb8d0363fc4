// Copyright 2026 The Trellis Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/google/uuid"

	"github.com/trellis-im/trellis/api"
	"github.com/trellis-im/trellis/lib/id"
	"github.com/trellis-im/trellis/lib/secret"
	"github.com/trellis-im/trellis/transport"
)

// Config assembles a [Client]. Only HomeserverURL is required; the zero
// value of every other field selects a working default.
type Config struct {
	// HomeserverURL is the base URL of the homeserver, e.g.
	// "https://matrix.example.com". Must be absolute. A path component
	// is kept as a prefix for every endpoint.
	HomeserverURL string

	// Transport carries wire requests. Defaults to a pooled HTTPS
	// transport (transport.NewPooled).
	Transport transport.Capability

	// SessionStore holds the authentication session. Defaults to a
	// fresh in-memory store private to this client.
	SessionStore SessionStore

	// Session, if non-nil, is written to the store before the client
	// is returned — resuming a persisted session without a login
	// round-trip.
	Session *Session

	// Logger receives debug-level dispatch logs. Defaults to
	// slog.Default.
	Logger *slog.Logger
}

// Client is a handle on one homeserver connection. The handle is cheap
// to share: pass the pointer around freely, all holders observe the
// same session and reuse the same transport. Methods are safe for
// concurrent use.
type Client struct {
	baseURL   *url.URL
	transport transport.Capability
	store     SessionStore
	logger    *slog.Logger
}

// New validates the configuration and builds a client. No network
// activity happens here; the homeserver is first contacted by the first
// dispatched request.
func New(config Config) (*Client, error) {
	if config.HomeserverURL == "" {
		return nil, fmt.Errorf("homeserver URL is required")
	}
	baseURL, err := url.Parse(config.HomeserverURL)
	if err != nil {
		return nil, fmt.Errorf("parsing homeserver URL: %w", err)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("homeserver URL %q must be absolute (scheme and host)", config.HomeserverURL)
	}

	capability := config.Transport
	if capability == nil {
		capability = transport.NewPooled()
	}
	store := config.SessionStore
	if store == nil {
		store = NewMemorySessionStore()
	}
	if config.Session != nil {
		store.Set(*config.Session)
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:   baseURL,
		transport: capability,
		store:     store,
		logger:    logger,
	}, nil
}

// Session returns the current session, if any. The returned value is a
// copy; mutating it does not affect the client.
func (c *Client) Session() (Session, bool) {
	return c.store.Get()
}

// LogIn authenticates with a username and password and stores the
// resulting session. user is a localpart or full user ID; deviceID may
// be empty to let the server generate one. The password buffer is read,
// not consumed — the caller still owns it.
func (c *Client) LogIn(ctx context.Context, user string, password *secret.Buffer, deviceID string) (Session, error) {
	response, err := call[api.LoginResponse](ctx, c, &api.LoginRequest{
		User:     user,
		Password: password.String(),
		DeviceID: deviceID,
	})
	if err != nil {
		return Session{}, err
	}
	session := Session{
		AccessToken: response.AccessToken,
		DeviceID:    response.DeviceID,
		UserID:      response.UserID,
	}
	c.store.Set(session)
	c.logger.Debug("logged in", "user_id", session.UserID)
	return session, nil
}

// RegisterGuest creates an anonymous guest account and stores the
// resulting session.
func (c *Client) RegisterGuest(ctx context.Context) (Session, error) {
	return c.register(ctx, &api.RegisterRequest{Kind: api.RegistrationKindGuest})
}

// RegisterUser creates a regular account and stores the resulting
// session. username may be empty to let the server pick the localpart.
func (c *Client) RegisterUser(ctx context.Context, username string, password *secret.Buffer) (Session, error) {
	return c.register(ctx, &api.RegisterRequest{
		Kind:     api.RegistrationKindUser,
		Username: username,
		Password: password.String(),
	})
}

func (c *Client) register(ctx context.Context, request *api.RegisterRequest) (Session, error) {
	response, err := call[api.RegisterResponse](ctx, c, request)
	if err != nil {
		return Session{}, err
	}
	session := Session{
		AccessToken: response.AccessToken,
		DeviceID:    response.DeviceID,
		UserID:      response.UserID,
	}
	c.store.Set(session)
	c.logger.Debug("registered", "user_id", session.UserID, "kind", request.Kind)
	return session, nil
}

// Logout invalidates the session on the server and clears the store.
// The store is left untouched if the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.Dispatch(ctx, &api.LogoutRequest{}, &api.LogoutResponse{}); err != nil {
		return err
	}
	c.store.Clear()
	return nil
}

// WhoAmI asks the server which user the current session belongs to.
func (c *Client) WhoAmI(ctx context.Context) (id.UserID, error) {
	response, err := call[api.WhoAmIResponse](ctx, c, &api.WhoAmIRequest{})
	if err != nil {
		return id.UserID{}, err
	}
	return response.UserID, nil
}

// ServerVersions returns the client-server API versions the homeserver
// supports. Unauthenticated; useful as a reachability probe.
func (c *Client) ServerVersions(ctx context.Context) ([]string, error) {
	response, err := call[api.ServerVersionsResponse](ctx, c, &api.ServerVersionsRequest{})
	if err != nil {
		return nil, err
	}
	return response.Versions, nil
}

// ResolveAlias resolves a room alias to its room ID.
func (c *Client) ResolveAlias(ctx context.Context, alias id.RoomAlias) (id.RoomID, error) {
	response, err := call[api.ResolveAliasResponse](ctx, c, &api.ResolveAliasRequest{Alias: alias})
	if err != nil {
		return id.RoomID{}, err
	}
	return response.RoomID, nil
}

// JoinRoom joins a room by ID.
func (c *Client) JoinRoom(ctx context.Context, roomID id.RoomID) error {
	_, err := call[api.JoinRoomResponse](ctx, c, &api.JoinRoomRequest{RoomID: roomID})
	return err
}

// CreateRoom creates a room and returns its ID.
func (c *Client) CreateRoom(ctx context.Context, request *api.CreateRoomRequest) (id.RoomID, error) {
	response, err := call[api.CreateRoomResponse](ctx, c, request)
	if err != nil {
		return id.RoomID{}, err
	}
	return response.RoomID, nil
}

// SendMessage sends an m.room.message event with a fresh transaction ID
// and returns the event ID the server assigned.
func (c *Client) SendMessage(ctx context.Context, roomID id.RoomID, content api.MessageContent) (id.EventID, error) {
	response, err := call[api.SendEventResponse](ctx, c, &api.SendEventRequest{
		RoomID:        roomID,
		EventType:     id.EventType("m.room.message"),
		TransactionID: "trellis-" + uuid.NewString(),
		Content:       content,
	})
	if err != nil {
		return id.EventID{}, err
	}
	return response.EventID, nil
}

// RoomMessages fetches one page of room history.
func (c *Client) RoomMessages(ctx context.Context, request *api.RoomMessagesRequest) (*api.RoomMessagesResponse, error) {
	return call[api.RoomMessagesResponse](ctx, c, request)
}
