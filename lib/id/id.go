// Copyright 2026 The Trellis Authors
// SPDX-License-Identifier: Apache-2.0

// Package id provides validated value types for Matrix identifiers.
//
// Each identifier is an immutable struct wrapper around its raw string
// form. Construction goes through a Parse function that checks the
// structural format (sigil prefix, localpart, ':server' suffix where the
// protocol requires one); once constructed, a value is known well-formed.
// The zero value of every type is not valid — use IsZero to check.
//
// All types implement encoding.TextMarshaler and TextUnmarshaler, so
// identifiers embedded in JSON API payloads are validated automatically
// at the deserialization boundary.
package id

import (
	"fmt"
	"strings"
)

// validateServerQualified checks the common "<sigil>localpart:server"
// shape shared by user IDs, room IDs, and room aliases. what names the
// identifier kind in error messages.
func validateServerQualified(raw string, sigil byte, what string) error {
	if raw == "" {
		return fmt.Errorf("empty %s", what)
	}
	if raw[0] != sigil {
		return fmt.Errorf("%s must start with %q: %q", what, string(sigil), raw)
	}

	rest := raw[1:]
	colonIndex := strings.IndexByte(rest, ':')
	if colonIndex < 0 {
		return fmt.Errorf("%s missing ':server' suffix: %q", what, raw)
	}
	if colonIndex == 0 {
		return fmt.Errorf("%s has empty localpart: %q", what, raw)
	}
	if rest[colonIndex+1:] == "" {
		return fmt.Errorf("%s has empty server name: %q", what, raw)
	}
	return nil
}
