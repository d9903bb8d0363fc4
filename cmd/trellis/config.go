// Copyright 2026 The Trellis Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// cliConfig is the trellis CLI configuration file. It holds defaults
// that every subcommand would otherwise take as flags; flags win over
// the file when both are given.
type cliConfig struct {
	// HomeserverURL is the base URL of the homeserver.
	HomeserverURL string `yaml:"homeserver_url"`

	// SessionFile overrides where the session is stored.
	SessionFile string `yaml:"session_file,omitempty"`

	// UserAgent overrides the User-Agent header on every request.
	UserAgent string `yaml:"user_agent,omitempty"`
}

// configFilePath resolves the config file location: the --config flag
// value if given, else $TRELLIS_CONFIG, else
// ~/.config/trellis/config.yaml.
func configFilePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envPath := os.Getenv("TRELLIS_CONFIG"); envPath != "" {
		return envPath
	}
	configDirectory := os.Getenv("XDG_CONFIG_HOME")
	if configDirectory == "" {
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configDirectory = filepath.Join(homeDirectory, ".config")
	}
	return filepath.Join(configDirectory, "trellis", "config.yaml")
}

// loadConfig reads and strictly parses the config file. A missing file
// is not an error — every field has a flag equivalent; unknown YAML
// keys are, so typos fail loudly instead of being ignored.
func loadConfig(path string) (cliConfig, error) {
	var config cliConfig
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, fmt.Errorf("reading config file %s: %w", path, err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil {
		return config, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return config, nil
}
