// Package config holds the serve command's configuration: where to listen,
// where flows live, which store backend keeps call state, and the public base
// URL callbacks are minted under.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML can spell values as "90s" or "24h".
// Bare integers are taken as seconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var n int64
	if err := value.Decode(&n); err == nil {
		*d = Duration(time.Duration(n) * time.Second)
		return nil
	}

	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("invalid duration: %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the standard library form.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// StoreConfig selects and parameterizes the call state backend.
type StoreConfig struct {
	// Backend is one of "memory", "redis" or "sqlite".
	Backend string `yaml:"backend"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	SQLitePath string `yaml:"sqlite_path"`

	// TTL bounds how long call state outlives its last webhook. Zero keeps
	// it until deleted (memory and sqlite ignore it today).
	TTL Duration `yaml:"ttl"`

	// EncryptionKey, when set, encrypts call state at rest. Base64, 32
	// bytes decoded.
	EncryptionKey string `yaml:"encryption_key"`

	// Mask lists PII patterns masked before call state is persisted. See
	// middleware.NewPIIMiddleware for what the patterns match.
	Mask []string `yaml:"mask"`
}

// Config is the full serve configuration.
type Config struct {
	// Listen is the address the webhook host binds.
	Listen string `yaml:"listen"`

	// BaseURL is the public root Twilio reaches this host under. Callback
	// URLs are minted beneath it, so behind a proxy or tunnel it differs
	// from Listen.
	BaseURL string `yaml:"base_url"`

	// FlowsDir and FlowsGlob locate the flow definitions.
	FlowsDir  string `yaml:"flows_dir"`
	FlowsGlob string `yaml:"flows_glob"`

	// Watch reloads flows when files under FlowsDir change.
	Watch bool `yaml:"watch"`

	LogLevel string `yaml:"log_level"`

	Store StoreConfig `yaml:"store"`
}

// Default returns the configuration used when nothing is specified.
func Default() *Config {
	return &Config{
		Listen:    ":8080",
		BaseURL:   "http://localhost:8080",
		FlowsDir:  "flows",
		FlowsGlob: "**/*.{yaml,yml}",
		LogLevel:  "info",
		Store: StoreConfig{
			Backend:    "memory",
			RedisAddr:  "localhost:6379",
			SQLitePath: "twiml-calls.db",
			TTL:        Duration(24 * time.Hour),
		},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns the
// defaults untouched; environment variables override either.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// Environment takes precedence so containerized deployments can skip
	// the file entirely.
	if v := os.Getenv("TWIML_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("TWIML_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("TWIML_FLOWS_DIR"); v != "" {
		cfg.FlowsDir = v
	}
	if v := os.Getenv("TWIML_STORE_BACKEND"); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv("TWIML_REDIS_ADDR"); v != "" {
		cfg.Store.RedisAddr = v
	}
	if v := os.Getenv("TWIML_STORE_ENCRYPTION_KEY"); v != "" {
		cfg.Store.EncryptionKey = v
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case "memory", "redis", "sqlite":
	default:
		return fmt.Errorf("unknown store backend %q (want memory, redis or sqlite)", c.Store.Backend)
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}
	return nil
}
