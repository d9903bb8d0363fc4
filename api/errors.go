// Copyright 2026 The Trellis Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"errors"
	"fmt"
)

// ServerError is a structured error response from the homeserver.
// Callers extract it with errors.As:
//
//	var serverErr *api.ServerError
//	if errors.As(err, &serverErr) {
//	    if serverErr.Code == api.ErrCodeUnknownToken { ... }
//	}
type ServerError struct {
	// Code is the Matrix error code (e.g., "M_FORBIDDEN", "M_UNKNOWN_TOKEN").
	Code string `json:"errcode"`
	// Message is the human-readable error description from the server.
	Message string `json:"error"`
	// StatusCode is the HTTP status code of the response.
	StatusCode int `json:"-"`
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("matrix: %s (%d): %s", e.Code, e.StatusCode, e.Message)
}

// Standard Matrix error codes.
const (
	ErrCodeForbidden     = "M_FORBIDDEN"
	ErrCodeUnknownToken  = "M_UNKNOWN_TOKEN"
	ErrCodeMissingToken  = "M_MISSING_TOKEN"
	ErrCodeNotFound      = "M_NOT_FOUND"
	ErrCodeUserInUse     = "M_USER_IN_USE"
	ErrCodeLimitExceeded = "M_LIMIT_EXCEEDED"
	ErrCodeUnrecognized  = "M_UNRECOGNIZED"
	ErrCodeUnknown       = "M_UNKNOWN"
	ErrCodeInvalidParam  = "M_INVALID_PARAM"
	ErrCodeMissingParam  = "M_MISSING_PARAM"
	ErrCodeGuestDenied   = "M_GUEST_ACCESS_FORBIDDEN"
	ErrCodeRoomInUse     = "M_ROOM_IN_USE"
)

// IsServerError checks whether err is (or wraps) a *ServerError with
// the given Matrix error code.
func IsServerError(err error, code string) bool {
	var serverError *ServerError
	if errors.As(err, &serverError) {
		return serverError.Code == code
	}
	return false
}
