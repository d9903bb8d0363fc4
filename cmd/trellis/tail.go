// Copyright 2026 The Trellis Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"github.com/tidwall/jsonc"

	"github.com/trellis-im/trellis/api"
	"github.com/trellis-im/trellis/client"
)

// runTail follows /sync and prints timeline events as they arrive, one
// line per event. On interrupt or a stream failure it prints the resume
// token, so a follow-up invocation with --since continues where this
// one stopped.
func runTail(args []string) error {
	flagSet := pflag.NewFlagSet("trellis tail", pflag.ContinueOnError)
	configPath := flagSet.String("config", "", "path to config file")
	sessionFile := flagSet.String("session-file", "", "session file to load")
	since := flagSet.String("since", "", "resume from a previously printed sync token")
	filterFile := flagSet.String("filter-file", "", "path to a JSON sync filter (comments allowed)")
	timeout := flagSet.Int("timeout", 30000, "long-poll hold in milliseconds")
	presence := flagSet.Bool("presence", false, "mark the user online while tailing")
	verbose := flagSet.BoolP("verbose", "v", false, "debug logging")
	flagSet.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: trellis tail [flags]")
		flagSet.PrintDefaults()
	}
	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	config, err := loadConfig(configFilePath(*configPath))
	if err != nil {
		return err
	}
	saved, err := loadSessionFile(sessionFilePath(firstNonEmpty(*sessionFile, config.SessionFile)))
	if err != nil {
		return err
	}

	filter, err := loadFilterFile(*filterFile)
	if err != nil {
		return err
	}

	c, err := newClient(config, saved.Homeserver, &saved.Session, *verbose)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	stream := c.Sync(client.SyncOptions{
		Since:          *since,
		Filter:         filter,
		Timeout:        *timeout,
		ReportPresence: *presence,
	})

	for stream.Next(ctx) {
		if err := stream.Err(); err != nil {
			if ctx.Err() != nil {
				// Interrupted, not broken.
				fmt.Fprintf(os.Stderr, "resume with --since %s\n", stream.Position())
				return nil
			}
			fmt.Fprintf(os.Stderr, "resume with --since %s\n", stream.Position())
			return fmt.Errorf("sync stream failed: %w", err)
		}
		printTimeline(stream.Response())
	}
	return nil
}

// loadFilterFile reads a sync filter definition. The file may contain
// // and /* */ comments and trailing commas; they are stripped before
// the filter is sent inline on the sync request.
func loadFilterFile(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading filter file %s: %w", path, err)
	}
	return string(jsonc.ToJSON(data)), nil
}

// printTimeline writes one line per timeline event in the delta.
func printTimeline(response *api.SyncResponse) {
	for roomID, room := range response.Rooms.Join {
		for _, event := range room.Timeline.Events {
			printEvent(roomID.String(), &event)
		}
	}
	for roomID := range response.Rooms.Invite {
		fmt.Printf("%s  %s  invited\n", time.Now().Format(time.TimeOnly), roomID)
	}
}

func printEvent(roomID string, event *api.Event) {
	timestamp := time.UnixMilli(event.OriginServerTS).Format(time.TimeOnly)
	switch {
	case event.Type == "m.room.message":
		var content api.MessageContent
		if err := event.DecodeContent(&content); err != nil {
			fmt.Printf("%s  %s  %s  <undecodable m.room.message>\n", timestamp, roomID, event.Sender)
			return
		}
		fmt.Printf("%s  %s  %s  %s\n", timestamp, roomID, event.Sender, content.Body)
	default:
		fmt.Printf("%s  %s  %s  [%s]\n", timestamp, roomID, event.Sender, event.Type)
	}
}
