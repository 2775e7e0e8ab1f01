package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// replConfig holds the host-side knobs the REPL reads from --config. None
// of it reaches the interpreter core; it only shapes how cmd/lox itself
// behaves.
type replConfig struct {
	Prompt          string `yaml:"prompt"`
	EchoExpressions bool   `yaml:"echo_expressions"`
	Color           *bool  `yaml:"color"`
}

func defaultConfig() *replConfig {
	return &replConfig{Prompt: "> "}
}

// loadConfig reads path if non-empty, overlaying it onto the defaults.
// An empty path is not an error; the REPL just runs with defaults.
func loadConfig(path string) (*replConfig, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}
