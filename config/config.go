// Package config loads convodesk configuration from a YAML file with
// environment variable overrides for deployment secrets.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML files can use "5m"-style values.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// String implements fmt.Stringer.
func (d Duration) String() string { return time.Duration(d).String() }

// Config holds all convodesk configuration.
type Config struct {
	// Session lifecycle
	Session SessionConfig `yaml:"session"`

	// Guardrail screening
	Guardrail GuardrailConfig `yaml:"guardrail"`

	// Intent routing
	Router RouterConfig `yaml:"router"`

	// History bundles
	History HistoryConfig `yaml:"history"`

	// Responder dispatch
	Responder ResponderConfig `yaml:"responder"`

	// Model provider credentials
	Model ModelConfig `yaml:"model"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// SessionConfig configures session lifecycle management.
type SessionConfig struct {
	// Timeout is the inactivity window before a session expires.
	Timeout Duration `yaml:"timeout"`
	// ReapInterval is how often the background sweep runs.
	ReapInterval Duration `yaml:"reap_interval"`
}

// GuardrailConfig configures the input screen.
type GuardrailConfig struct {
	// MaxLength is the maximum accepted message length in runes.
	MaxLength int `yaml:"max_length"`
}

// RouterConfig configures intent classification.
type RouterConfig struct {
	// ConfidenceFloor is the minimum confidence before degrading to the
	// fallback responder.
	ConfidenceFloor float64 `yaml:"confidence_floor"`
	// Timeout bounds one delegated classification call.
	Timeout Duration `yaml:"timeout"`
}

// HistoryConfig configures recent-context bundles.
type HistoryConfig struct {
	// Pairs is how many message/response pairs a bundle carries.
	Pairs int `yaml:"pairs"`
}

// ResponderConfig configures responder dispatch.
type ResponderConfig struct {
	// Timeout bounds one responder call before escalation.
	Timeout Duration `yaml:"timeout"`
}

// ModelConfig configures the model provider.
type ModelConfig struct {
	Provider string `yaml:"provider"` // anthropic, openai, mock
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Session: SessionConfig{
			Timeout:      Duration(5 * time.Minute),
			ReapInterval: Duration(30 * time.Minute),
		},
		Guardrail: GuardrailConfig{
			MaxLength: 2000,
		},
		Router: RouterConfig{
			ConfidenceFloor: 0.5,
			Timeout:         Duration(10 * time.Second),
		},
		History: HistoryConfig{
			Pairs: 5,
		},
		Responder: ResponderConfig{
			Timeout: Duration(30 * time.Second),
		},
		Model: ModelConfig{
			Provider: "anthropic",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; a present but malformed file is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate rejects configurations that would misbehave at runtime.
func (c *Config) Validate() error {
	if c.Session.Timeout <= 0 {
		return fmt.Errorf("session.timeout must be positive, got %s", c.Session.Timeout)
	}
	if c.Session.ReapInterval <= 0 {
		return fmt.Errorf("session.reap_interval must be positive, got %s", c.Session.ReapInterval)
	}
	if c.Guardrail.MaxLength <= 0 {
		return fmt.Errorf("guardrail.max_length must be positive, got %d", c.Guardrail.MaxLength)
	}
	if c.Router.ConfidenceFloor < 0 || c.Router.ConfidenceFloor > 1 {
		return fmt.Errorf("router.confidence_floor must be in [0,1], got %g", c.Router.ConfidenceFloor)
	}
	if c.Router.Timeout <= 0 {
		return fmt.Errorf("router.timeout must be positive, got %s", c.Router.Timeout)
	}
	if c.History.Pairs <= 0 {
		return fmt.Errorf("history.pairs must be positive, got %d", c.History.Pairs)
	}
	if c.Responder.Timeout <= 0 {
		return fmt.Errorf("responder.timeout must be positive, got %s", c.Responder.Timeout)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides. Credentials
// come from the environment in deployments; the YAML file never needs to
// hold a key.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		c.Model.APIKey = key
		c.Model.Provider = "anthropic"
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.Model.APIKey = key
		c.Model.Provider = "openai"
	}
	if level := os.Getenv("CONVODESK_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}
