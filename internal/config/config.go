package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// DefaultMatch is the activation rule for the supported LMS.
const DefaultMatch = "https://learn.astanait.edu.kz/*"

// Config holds all application configuration.
type Config struct {
	Logging   LogConfig
	Scope     ScopeConfig
	Extract   ExtractConfig
	Clipboard ClipboardConfig
	Toast     ToastConfig
	Metrics   MetricsConfig
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL"`
	Development bool   `envconfig:"LOG_DEV"`
}

// ScopeConfig holds the page URL rules the exporter is active on.
type ScopeConfig struct {
	Match []string `envconfig:"QUIZEXPORT_MATCH"`
}

// ExtractConfig tunes problem discovery.
type ExtractConfig struct {
	// Selectors are appended after the built-in locator strategies.
	// An "xpath:" prefix marks an XPath expression.
	Selectors []string `envconfig:"QUIZEXPORT_SELECTORS"`
	Sanitize  bool     `envconfig:"QUIZEXPORT_SANITIZE"`
}

// ClipboardConfig holds clipboard writer settings.
type ClipboardConfig struct {
	Command string        `envconfig:"QUIZEXPORT_CLIPBOARD_CMD"`
	Timeout time.Duration `envconfig:"CLIPBOARD_TIMEOUT"`
	// Trips and Cooldown configure the per-strategy breaker used in
	// interactive mode.
	Trips    int           `envconfig:"CLIPBOARD_BREAKER_TRIPS"`
	Cooldown time.Duration `envconfig:"CLIPBOARD_BREAKER_COOLDOWN"`
}

// ToastConfig holds status notification timing.
type ToastConfig struct {
	Duration time.Duration `envconfig:"TOAST_DURATION"`
	Fade     time.Duration `envconfig:"TOAST_FADE"`
}

// MetricsConfig holds metrics output settings.
type MetricsConfig struct {
	Textfile string `envconfig:"METRICS_TEXTFILE"`
}

// fileConfig mirrors Config in a file-friendly shape. Durations are strings
// so TOML and YAML files share one decoder path.
type fileConfig struct {
	LogLevel         string   `toml:"log_level" yaml:"log_level"`
	LogDev           *bool    `toml:"log_dev" yaml:"log_dev"`
	Match            []string `toml:"match" yaml:"match"`
	Selectors        []string `toml:"selectors" yaml:"selectors"`
	Sanitize         *bool    `toml:"sanitize" yaml:"sanitize"`
	ClipboardCommand string   `toml:"clipboard_command" yaml:"clipboard_command"`
	ClipboardTimeout string   `toml:"clipboard_timeout" yaml:"clipboard_timeout"`
	BreakerTrips     int      `toml:"breaker_trips" yaml:"breaker_trips"`
	BreakerCooldown  string   `toml:"breaker_cooldown" yaml:"breaker_cooldown"`
	ToastDuration    string   `toml:"toast_duration" yaml:"toast_duration"`
	ToastFade        string   `toml:"toast_fade" yaml:"toast_fade"`
	MetricsTextfile  string   `toml:"metrics_textfile" yaml:"metrics_textfile"`
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		Scope: ScopeConfig{
			Match: []string{DefaultMatch},
		},
		Extract: ExtractConfig{
			Sanitize: true,
		},
		Clipboard: ClipboardConfig{
			Timeout:  2 * time.Second,
			Trips:    3,
			Cooldown: 30 * time.Second,
		},
		Toast: ToastConfig{
			Duration: 1600 * time.Millisecond,
			Fade:     300 * time.Millisecond,
		},
	}
}

// Load builds configuration from defaults, an optional config file and the
// environment, in increasing order of precedence. An empty path falls back
// to QUIZEXPORT_CONFIG.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("QUIZEXPORT_CONFIG")
	}
	if path != "" {
		if err := LoadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// LoadFile decodes a TOML or YAML file onto cfg. The format is chosen by
// extension; unknown extensions are rejected.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &fc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		return fmt.Errorf("unsupported config file extension %q", ext)
	}
	if err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return fc.apply(cfg)
}

func (fc *fileConfig) apply(cfg *Config) error {
	if fc.LogLevel != "" {
		cfg.Logging.Level = fc.LogLevel
	}
	if fc.LogDev != nil {
		cfg.Logging.Development = *fc.LogDev
	}
	if len(fc.Match) > 0 {
		cfg.Scope.Match = fc.Match
	}
	if len(fc.Selectors) > 0 {
		cfg.Extract.Selectors = fc.Selectors
	}
	if fc.Sanitize != nil {
		cfg.Extract.Sanitize = *fc.Sanitize
	}
	if fc.ClipboardCommand != "" {
		cfg.Clipboard.Command = fc.ClipboardCommand
	}
	if fc.BreakerTrips > 0 {
		cfg.Clipboard.Trips = fc.BreakerTrips
	}
	if fc.MetricsTextfile != "" {
		cfg.Metrics.Textfile = fc.MetricsTextfile
	}

	durations := []struct {
		raw string
		dst *time.Duration
		key string
	}{
		{fc.ClipboardTimeout, &cfg.Clipboard.Timeout, "clipboard_timeout"},
		{fc.BreakerCooldown, &cfg.Clipboard.Cooldown, "breaker_cooldown"},
		{fc.ToastDuration, &cfg.Toast.Duration, "toast_duration"},
		{fc.ToastFade, &cfg.Toast.Fade, "toast_fade"},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", d.key, d.raw, err)
		}
		*d.dst = v
	}
	return nil
}
