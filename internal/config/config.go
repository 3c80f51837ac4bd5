// Package config loads profiler defaults from an optional
// .indigo.yaml file. Command-line flags override file values, which
// override the built-in defaults.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no explicit
// config path is given.
const DefaultFile = ".indigo.yaml"

// Config holds the profiler configuration surface.
type Config struct {
	// Size is the per-key reservoir cap.
	Size int `yaml:"size"`

	// MaxLength is the string truncation length, in characters.
	MaxLength int `yaml:"max_length"`

	// Encoding is the IANA name of the digest text encoding.
	Encoding string `yaml:"encoding"`

	// MaxDepth bounds per-document nesting.
	MaxDepth int `yaml:"max_depth"`

	// SkipInvalid downgrades malformed lines from fatal to a warning.
	SkipInvalid bool `yaml:"skip_invalid"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Size:      1024,
		MaxLength: 1024,
		Encoding:  "utf-8",
		MaxDepth:  200,
	}
}

// Load reads the config file at path, or DefaultFile in the working
// directory when path is empty. A missing default file is not an
// error; a missing explicit path is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations that would make the pass degenerate.
func (c Config) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("invalid size %d: must be positive", c.Size)
	}
	if c.MaxLength <= 0 {
		return fmt.Errorf("invalid max_length %d: must be positive", c.MaxLength)
	}
	if c.MaxDepth <= 0 {
		return fmt.Errorf("invalid max_depth %d: must be positive", c.MaxDepth)
	}
	return nil
}
