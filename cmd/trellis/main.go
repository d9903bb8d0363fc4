// Copyright 2026 The Trellis Authors
// SPDX-License-Identifier: Apache-2.0

// trellis is a small Matrix command-line client built on the trellis
// client runtime. Three subcommands:
//
//	trellis login <username>   authenticate and save a session
//	trellis whoami             show who the saved session belongs to
//	trellis tail               follow timeline events via /sync
//
// The session is stored at ~/.config/trellis/session.json (or
// $TRELLIS_SESSION_FILE) with mode 0600; login writes it, the other
// commands load it transparently.
package main

import (
	"fmt"
	"log/slog"
	"os"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		printUsage()
		return fmt.Errorf("a subcommand is required")
	}

	subcommand, rest := args[0], args[1:]
	switch subcommand {
	case "login":
		return runLogin(rest)
	case "whoami":
		return runWhoAmI(rest)
	case "tail":
		return runTail(rest)
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		printUsage()
		return fmt.Errorf("unknown subcommand %q", subcommand)
	}
}

func printUsage() {
	fmt.Fprint(os.Stderr, `Usage: trellis <command> [flags]

Commands:
  login <username>   authenticate against the homeserver and save a session
  whoami             print the user the saved session belongs to
  tail               follow timeline events from /sync

Global configuration is read from ~/.config/trellis/config.yaml (or
$TRELLIS_CONFIG). Run "trellis <command> --help" for command flags.
`)
}

// newLogger builds the process logger. Commands log to stderr so stdout
// stays parseable.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
