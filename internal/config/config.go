// Package config assembles the client configuration from defaults, an
// optional YAML file and QUIZTUTOR_* environment variables. Command-line
// flags are applied last by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/quiztutor/internal/backend"
	"github.com/abhisek/quiztutor/internal/llm"
	"github.com/abhisek/quiztutor/internal/logging"
)

// Config is the full client configuration.
type Config struct {
	backend.Config `yaml:",inline"`

	LLM     llm.Config     `yaml:"llm"`
	Store   StoreConfig    `yaml:"store"`
	Logging logging.Config `yaml:"logging"`
}

// StoreConfig locates the diagnostic event database.
type StoreConfig struct {
	// DB is the SQLite file path. Empty resolves to store.DefaultDBPath.
	DB string `yaml:"db"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Config:  backend.DefaultConfig(),
		LLM:     llm.DefaultConfig(),
		Logging: logging.DefaultConfig(),
	}
}

// DefaultPath returns the config file used when none is given:
// QUIZTUTOR_CONFIG, else $XDG_CONFIG_HOME/quiztutor/config.yaml.
func DefaultPath() (string, error) {
	if p := os.Getenv("QUIZTUTOR_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "quiztutor", "config.yaml"), nil
}

// Load builds the configuration. An explicit path must exist; when path is
// empty the default file is read only if present.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Config{}, err
		}
		path = p
		explicit = os.Getenv("QUIZTUTOR_CONFIG") != ""
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := Parse(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes a YAML document over cfg. Keys absent from the document
// keep their current values; unknown keys are rejected.
func Parse(data []byte, cfg *Config) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("parse config: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return fmt.Errorf("parse config: multiple YAML documents are not supported")
		}
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

// ApplyEnv overrides cfg with QUIZTUTOR_* environment variables. When the
// selected LLM provider has no key, the vendors' own key variables are
// probed as a fallback.
func ApplyEnv(cfg *Config) error {
	if err := backend.ApplyEnv(&cfg.Config); err != nil {
		return err
	}
	llm.ApplyEnv(&cfg.LLM)
	if cfg.LLM.Validate() != nil && os.Getenv("QUIZTUTOR_LLM_PROVIDER") == "" {
		llm.DiscoverConfig(&cfg.LLM)
	}
	logging.ApplyEnv(&cfg.Logging)
	if v := os.Getenv("QUIZTUTOR_DB"); v != "" {
		cfg.Store.DB = v
	}
	return nil
}

// Validate checks every section the selected backends depend on. The LLM
// section is only checked when the tutor backend is "llm".
func (c Config) Validate() error {
	if err := c.Config.Validate(); err != nil {
		return err
	}
	if c.Tutor.Backend == "llm" {
		if err := c.LLM.Validate(); err != nil {
			return err
		}
	}
	return c.Logging.Validate()
}
