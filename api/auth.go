// Copyright 2026 The Trellis Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net/http"
	"net/url"

	"github.com/trellis-im/trellis/lib/id"
	"github.com/trellis-im/trellis/transport"
)

// LoginRequest authenticates with a username and password
// (m.login.password). The password crosses this boundary as a plain
// string; callers holding it in a secret.Buffer convert at the last
// moment.
type LoginRequest struct {
	User                     string
	Password                 string
	DeviceID                 string
	InitialDeviceDisplayName string
}

// loginBody is the JSON shape of the login request.
type loginBody struct {
	Type                     string `json:"type"`
	User                     string `json:"user"`
	Password                 string `json:"password"`
	DeviceID                 string `json:"device_id,omitempty"`
	InitialDeviceDisplayName string `json:"initial_device_display_name,omitempty"`
}

func (r *LoginRequest) Descriptor() Descriptor {
	return Descriptor{Method: http.MethodPost, Path: "/_matrix/client/v3/login"}
}

func (r *LoginRequest) Wire() (*transport.Request, error) {
	return NewJSONRequest(http.MethodPost, "/_matrix/client/v3/login", nil, loginBody{
		Type:                     "m.login.password",
		User:                     r.User,
		Password:                 r.Password,
		DeviceID:                 r.DeviceID,
		InitialDeviceDisplayName: r.InitialDeviceDisplayName,
	})
}

// LoginResponse carries the credentials issued by a successful login.
type LoginResponse struct {
	UserID      id.UserID `json:"user_id"`
	AccessToken string    `json:"access_token"`
	DeviceID    string    `json:"device_id"`
}

func (r *LoginResponse) FromWire(response *transport.Response) error {
	return DecodeJSON(response, r)
}

// RegistrationKind selects the account type created by Register.
type RegistrationKind string

const (
	// RegistrationKindGuest creates an anonymous guest account.
	RegistrationKindGuest RegistrationKind = "guest"
	// RegistrationKindUser creates a regular user account.
	RegistrationKindUser RegistrationKind = "user"
)

// RegisterRequest creates a new account. Username may be empty, in
// which case the server generates the localpart. Guest registrations
// carry no username or password.
type RegisterRequest struct {
	Kind                     RegistrationKind
	Username                 string
	Password                 string
	DeviceID                 string
	InitialDeviceDisplayName string
}

type registerBody struct {
	Username                 string `json:"username,omitempty"`
	Password                 string `json:"password,omitempty"`
	DeviceID                 string `json:"device_id,omitempty"`
	InitialDeviceDisplayName string `json:"initial_device_display_name,omitempty"`
}

func (r *RegisterRequest) Descriptor() Descriptor {
	return Descriptor{Method: http.MethodPost, Path: "/_matrix/client/v3/register"}
}

func (r *RegisterRequest) Wire() (*transport.Request, error) {
	query := url.Values{}
	kind := r.Kind
	if kind == "" {
		kind = RegistrationKindUser
	}
	query.Set("kind", string(kind))

	return NewJSONRequest(http.MethodPost, "/_matrix/client/v3/register", query, registerBody{
		Username:                 r.Username,
		Password:                 r.Password,
		DeviceID:                 r.DeviceID,
		InitialDeviceDisplayName: r.InitialDeviceDisplayName,
	})
}

// RegisterResponse carries the credentials issued by a successful
// registration. Identical in shape to LoginResponse.
type RegisterResponse struct {
	UserID      id.UserID `json:"user_id"`
	AccessToken string    `json:"access_token"`
	DeviceID    string    `json:"device_id"`
}

func (r *RegisterResponse) FromWire(response *transport.Response) error {
	return DecodeJSON(response, r)
}

// LogoutRequest invalidates the access token used to make the call.
type LogoutRequest struct{}

func (r *LogoutRequest) Descriptor() Descriptor {
	return Descriptor{Method: http.MethodPost, Path: "/_matrix/client/v3/logout", RequiresAuth: true}
}

func (r *LogoutRequest) Wire() (*transport.Request, error) {
	return NewJSONRequest(http.MethodPost, "/_matrix/client/v3/logout", nil, struct{}{})
}

// LogoutResponse is the (empty) logout response body.
type LogoutResponse struct{}

func (r *LogoutResponse) FromWire(response *transport.Response) error {
	return DecodeJSON(response, nil)
}

// WhoAmIRequest validates the current access token and reports the
// account it belongs to.
type WhoAmIRequest struct{}

func (r *WhoAmIRequest) Descriptor() Descriptor {
	return Descriptor{Method: http.MethodGet, Path: "/_matrix/client/v3/account/whoami", RequiresAuth: true}
}

func (r *WhoAmIRequest) Wire() (*transport.Request, error) {
	return NewJSONRequest(http.MethodGet, "/_matrix/client/v3/account/whoami", nil, nil)
}

// WhoAmIResponse reports the authenticated account.
type WhoAmIResponse struct {
	UserID   id.UserID `json:"user_id"`
	DeviceID string    `json:"device_id,omitempty"`
}

func (r *WhoAmIResponse) FromWire(response *transport.Response) error {
	return DecodeJSON(response, r)
}
