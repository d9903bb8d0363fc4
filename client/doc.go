// Copyright 2026 The Trellis Authors
// SPDX-License-Identifier: Apache-2.0

// Package client is the runtime for the Matrix client-server API: it
// dispatches typed [api] requests over an injectable [transport]
// capability, manages the authentication session across calls, and
// exposes /sync polling as a pull-based stream of state deltas.
//
// [Client] is a shared handle: copy the pointer to share it, every copy
// observes the same session. All API calls — the convenience methods
// and caller-defined endpoints alike — flow through [Client.Dispatch],
// the single chokepoint where authentication injection and error
// unification happen. Failures come back as [*Error] with a [Kind]
// identifying the pipeline stage that failed; server-reported Matrix
// errors additionally unwrap to [*api.ServerError].
//
// [SyncStream] turns repeated dispatches of the sync endpoint into a
// sequential stream, threading the next_batch pagination token between
// calls. The stream stops permanently at the first failure; resume by
// constructing a fresh stream from [SyncStream.Position].
//
// The package retries nothing, caches nothing, and applies no timeouts
// of its own. Backoff policy, rate limiting, and session persistence
// belong to the caller.
package client
