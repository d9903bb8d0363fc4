// Copyright 2026 The Trellis Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/trellis-im/trellis/client"
	"github.com/trellis-im/trellis/lib/secret"
	"github.com/trellis-im/trellis/transport"
)

// runLogin authenticates against the homeserver, verifies the session
// via whoami, and saves it to the session file for the other commands.
func runLogin(args []string) error {
	flagSet := pflag.NewFlagSet("trellis login", pflag.ContinueOnError)
	configPath := flagSet.String("config", "", "path to config file")
	homeserver := flagSet.String("homeserver", "", "Matrix homeserver URL")
	passwordFile := flagSet.String("password-file", "", "path to file containing the password, or - to prompt (default: prompt)")
	deviceID := flagSet.String("device-id", "", "device ID to reuse (default: server-generated)")
	sessionFile := flagSet.String("session-file", "", "where to save the session")
	guest := flagSet.Bool("guest", false, "register an anonymous guest account instead of logging in")
	verbose := flagSet.BoolP("verbose", "v", false, "debug logging")
	flagSet.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: trellis login <username> [flags]")
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
	homeserverURL := *homeserver
	if homeserverURL == "" {
		homeserverURL = config.HomeserverURL
	}
	if homeserverURL == "" {
		return fmt.Errorf("no homeserver configured (use --homeserver or set homeserver_url in the config file)")
	}

	positional := flagSet.Args()
	if !*guest {
		if len(positional) < 1 {
			return fmt.Errorf("username is required\n\nUsage: trellis login <username> [flags]")
		}
	}
	if len(positional) > 1 {
		return fmt.Errorf("unexpected argument: %s", positional[1])
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c, err := newClient(config, homeserverURL, nil, *verbose)
	if err != nil {
		return err
	}

	var session client.Session
	if *guest {
		session, err = c.RegisterGuest(ctx)
		if err != nil {
			return fmt.Errorf("guest registration failed: %w", err)
		}
	} else {
		password, err := readLoginPassword(*passwordFile)
		if err != nil {
			return err
		}
		defer password.Close()

		session, err = c.LogIn(ctx, positional[0], password, *deviceID)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
	}

	// Verify the session works before saving it.
	userID, err := c.WhoAmI(ctx)
	if err != nil {
		return fmt.Errorf("session verification failed: %w", err)
	}

	path := sessionFilePath(firstNonEmpty(*sessionFile, config.SessionFile))
	if err := saveSessionFile(&savedSession{Homeserver: homeserverURL, Session: session}, path); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Logged in as %s\n", userID)
	fmt.Fprintf(os.Stderr, "Session saved to %s\n", path)
	return nil
}

// newClient builds a client from CLI configuration. session may be nil
// for commands that authenticate themselves (login).
func newClient(config cliConfig, homeserverURL string, session *client.Session, verbose bool) (*client.Client, error) {
	var options []transport.Option
	if config.UserAgent != "" {
		options = append(options, transport.WithUserAgent(config.UserAgent))
	}
	return client.New(client.Config{
		HomeserverURL: homeserverURL,
		Transport:     transport.NewPooled(options...),
		Session:       session,
		Logger:        newLogger(verbose),
	})
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

// readLoginPassword reads the password from the given file, or prompts
// on the terminal with echo disabled when the path is empty or "-".
func readLoginPassword(passwordFile string) (*secret.Buffer, error) {
	if passwordFile != "" && passwordFile != "-" {
		return readSecretFile(passwordFile)
	}

	stdinFileDescriptor := int(os.Stdin.Fd())
	if !term.IsTerminal(stdinFileDescriptor) {
		return nil, fmt.Errorf("no terminal available for interactive password prompt (use --password-file)")
	}

	fmt.Fprint(os.Stderr, "Password: ")
	passwordBytes, err := term.ReadPassword(stdinFileDescriptor)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}

	buffer, err := secret.NewFromBytes(passwordBytes)
	if err != nil {
		secret.Zero(passwordBytes)
		return nil, err
	}
	return buffer, nil
}

// readSecretFile reads a secret from a file into a secret.Buffer,
// stripping trailing newlines (common with echo/printf pipelines).
func readSecretFile(path string) (*secret.Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	for len(data) > 0 && (data[len(data)-1] == '\n' || data[len(data)-1] == '\r') {
		data = data[:len(data)-1]
	}
	if len(data) == 0 {
		secret.Zero(data)
		return nil, fmt.Errorf("file %s is empty (after stripping trailing newlines)", path)
	}

	buffer, err := secret.NewFromBytes(data)
	if err != nil {
		secret.Zero(data)
		return nil, err
	}
	return buffer, nil
}
