package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/awantoch/traccarproxy/constants"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Traccar TraccarConfig  `json:"traccar" yaml:"traccar"`
	Secrets SecretsConfig  `json:"secrets" yaml:"secrets"`
	HTTP    HTTPConfig     `json:"http" yaml:"http"`
	Log     LogConfig      `json:"log" yaml:"log"`
	Tracing *TracingConfig `json:"tracing,omitempty" yaml:"tracing,omitempty"`
}

// TraccarConfig points the proxy at an upstream Traccar server.
type TraccarConfig struct {
	// URL is the full positions endpoint, e.g. https://demo.traccar.org/api/positions.
	URL string `json:"url" yaml:"url"`
	// Timeout is a Go duration string. Empty means no client timeout; the
	// invocation context is the only bound.
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

type SecretsConfig struct {
	Driver string `json:"driver" yaml:"driver"`
	Region string `json:"region,omitempty" yaml:"region,omitempty"`
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
}

type HTTPConfig struct {
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`
}

type LogConfig struct {
	Level string `json:"level" yaml:"level"`
}

type TracingConfig struct {
	ServiceName string `json:"service_name,omitempty" yaml:"service_name,omitempty"`
	Exporter    string `json:"exporter,omitempty" yaml:"exporter,omitempty"`
	Endpoint    string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
}

// Default returns a configuration that talks to the Traccar demo server with
// credentials from the environment.
func Default() *Config {
	return &Config{
		Traccar: TraccarConfig{URL: constants.DefaultTraccarURL},
		Secrets: SecretsConfig{Driver: constants.SecretsDriverEnv},
		HTTP: HTTPConfig{
			Host: constants.DefaultHTTPHost,
			Port: constants.DefaultHTTPPort,
		},
		Log: LogConfig{Level: "info"},
	}
}

// LoadConfig reads a JSON or YAML (by extension) config file on top of Default.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault behaves like LoadConfig but falls back to Default when the
// file does not exist. Environment overrides are applied in both cases.
func LoadOrDefault(path string) (*Config, error) {
	var cfg *Config
	if path != "" {
		loaded, err := LoadConfig(path)
		switch {
		case err == nil:
			cfg = loaded
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if cfg == nil {
		cfg = Default()
	}
	ApplyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays the process environment onto cfg.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv(constants.EnvTraccarURL); v != "" {
		cfg.Traccar.URL = v
	}
	if v := os.Getenv(constants.EnvSecretsDriver); v != "" {
		cfg.Secrets.Driver = v
	}
	if v := os.Getenv(constants.EnvSecretsRegion); v != "" {
		cfg.Secrets.Region = v
	}
	if v := os.Getenv(constants.EnvSecretsPrefix); v != "" {
		cfg.Secrets.Prefix = v
	}
	if v := os.Getenv(constants.EnvTracingExport); v != "" {
		if cfg.Tracing == nil {
			cfg.Tracing = &TracingConfig{}
		}
		cfg.Tracing.Exporter = v
	}
	if v := os.Getenv(constants.EnvTracingTarget); v != "" {
		if cfg.Tracing == nil {
			cfg.Tracing = &TracingConfig{}
		}
		cfg.Tracing.Endpoint = v
	}
	if os.Getenv(constants.EnvDebug) != "" {
		cfg.Log.Level = "debug"
	}
}

func (c *Config) Validate() error {
	if c.Traccar.URL == "" {
		return fmt.Errorf("traccar.url is required")
	}
	if _, err := c.Traccar.RequestTimeout(); err != nil {
		return err
	}
	return nil
}

// RequestTimeout parses Timeout; zero means unbounded.
func (t TraccarConfig) RequestTimeout() (time.Duration, error) {
	if t.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(t.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid traccar.timeout %q: %w", t.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid traccar.timeout %q: must not be negative", t.Timeout)
	}
	return d, nil
}

// Addr joins HTTP host and port for net/http.
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}
