// Copyright 2026 The Trellis Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
)

// runWhoAmI loads the saved session and asks the server who it belongs
// to. Doubles as a session health check: an expired token surfaces here
// as M_UNKNOWN_TOKEN.
func runWhoAmI(args []string) error {
	flagSet := pflag.NewFlagSet("trellis whoami", pflag.ContinueOnError)
	configPath := flagSet.String("config", "", "path to config file")
	sessionFile := flagSet.String("session-file", "", "session file to load")
	verbose := flagSet.BoolP("verbose", "v", false, "debug logging")
	flagSet.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: trellis whoami [flags]")
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

	c, err := newClient(config, saved.Homeserver, &saved.Session, *verbose)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	userID, err := c.WhoAmI(ctx)
	if err != nil {
		return err
	}
	fmt.Println(userID)
	return nil
}
