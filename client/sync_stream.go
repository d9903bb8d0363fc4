// Copyright 2026 The Trellis Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"iter"

	"github.com/trellis-im/trellis/api"
)

// SyncOptions configures a [SyncStream].
type SyncOptions struct {
	// Filter is a server-side filter ID or inline JSON filter applied
	// to every poll.
	Filter string

	// Since resumes the stream from a previously observed next_batch
	// token. Empty starts with the initial full-state snapshot.
	Since string

	// ReportPresence controls whether polling marks the user online.
	// False (the default) sends set_presence=offline, so a background
	// syncer does not flip the user's presence.
	ReportPresence bool

	// Timeout is the server-side long-poll hold in milliseconds applied
	// to every poll after the first. The initial snapshot is always
	// requested without a timeout. Zero means no long-polling.
	Timeout int
}

// streamState is the phase of a [SyncStream]. A stream moves
// initial → since on the first success and any state → errored on the
// first failure; errored is absorbing.
type streamState int

const (
	stateInitial streamState = iota
	stateSince
	stateErrored
)

// SyncStream polls the sync endpoint sequentially, threading the
// next_batch token from each response into the next request. It is a
// scanner:
//
//	stream := client.Sync(client.SyncOptions{Timeout: 30000})
//	for stream.Next(ctx) {
//		if stream.Err() != nil {
//			// terminal; stream.Position() resumes a fresh stream
//			break
//		}
//		handle(stream.Response())
//	}
//
// The first failed poll is itself an item (Next reports true once more,
// Err is non-nil); after that the stream is exhausted and Next reports
// false forever. The stream never retries — each Next is exactly one
// request, and the failed token is not advanced past, so a resumed
// stream re-polls the window the failure swallowed.
//
// A SyncStream is single-consumer: it issues no overlapping requests
// and must not be polled from multiple goroutines.
type SyncStream struct {
	client  *Client
	options SyncOptions

	state    streamState
	since    string // last good next_batch token
	response *api.SyncResponse
	err      error
}

// Sync starts a sync polling stream. Construction performs no request;
// the first poll happens on the first call to [SyncStream.Next].
func (c *Client) Sync(options SyncOptions) *SyncStream {
	stream := &SyncStream{client: c, options: options, since: options.Since}
	if options.Since != "" {
		stream.state = stateSince
	}
	return stream
}

// Next performs one poll and reports whether an item was produced.
// After it returns true, exactly one of [SyncStream.Response] and
// [SyncStream.Err] is non-nil. After the error item, and after a false
// return, Next returns false without touching the network.
func (s *SyncStream) Next(ctx context.Context) bool {
	if s.state == stateErrored {
		s.response = nil
		return false
	}

	request := &api.SyncRequest{
		Since:  s.since,
		Filter: s.options.Filter,
	}
	if !s.options.ReportPresence {
		request.SetPresence = api.PresenceOffline
	}
	// Long-poll only once the initial snapshot is in hand; holding the
	// first request open just delays startup.
	if s.state == stateSince {
		request.Timeout = s.options.Timeout
	}

	response := &api.SyncResponse{}
	if err := s.client.Dispatch(ctx, request, response); err != nil {
		s.state = stateErrored
		s.response = nil
		s.err = err
		return true
	}

	s.state = stateSince
	s.since = response.NextBatch
	s.response = response
	return true
}

// Response returns the item produced by the last successful Next, or
// nil if that item was an error.
func (s *SyncStream) Response() *api.SyncResponse { return s.response }

// Err returns the terminal error, if the stream has produced one.
func (s *SyncStream) Err() error { return s.err }

// Position returns the most recent next_batch token the stream has
// observed — the Since value that resumes a fresh stream from where
// this one stopped. Before any successful poll it is the configured
// starting token.
func (s *SyncStream) Position() string { return s.since }

// All adapts the stream to a range-over-func sequence. Each iteration
// yields either a response or the terminal error, never both; the
// sequence ends after the error item or when the consumer breaks.
func (s *SyncStream) All(ctx context.Context) iter.Seq2[*api.SyncResponse, error] {
	return func(yield func(*api.SyncResponse, error) bool) {
		for s.Next(ctx) {
			if !yield(s.response, s.err) {
				return
			}
		}
	}
}
