package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Valid values for the enumerated settings
var (
	validStores    = []string{"file", "sqlite", "memory"}
	validLogLevels = []string{"trace", "debug", "info", "warn", "error"}
	validColors    = []string{"auto", "always", "never"}
)

// AnalyticsConfig represents local usage counter configuration
type AnalyticsConfig struct {
	// Enabled records starts, completions and exports in the data directory
	Enabled bool `yaml:"enabled"`
}

// TTSConfig represents read-aloud configuration. The server must speak the
// OpenAI-compatible /v1/audio/speech API; point it at a local server to keep
// answers on this machine.
type TTSConfig struct {
	// Enabled reads each question aloud during 'take'
	Enabled bool `yaml:"enabled"`

	// BaseURL is the speech server root, e.g. http://localhost:5005
	BaseURL string `yaml:"base_url"`

	// Model and Voice are passed through to the server
	Model string `yaml:"model"`
	Voice string `yaml:"voice"`

	// Timeout bounds each request to the server
	Timeout time.Duration `yaml:"timeout"`
}

// Config represents neuroscreen configuration options
type Config struct {
	// DataDir is the directory records are stored in (empty = neuroscreen home)
	DataDir string `yaml:"data_dir"`

	// Store selects the persistence backend (file, sqlite, memory)
	Store string `yaml:"store"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir, when set, also appends log lines to a daily file there
	LogDir string `yaml:"log_dir"`

	// Color controls terminal colors (auto, always, never)
	Color string `yaml:"color"`

	// Analytics contains usage counter configuration
	Analytics AnalyticsConfig `yaml:"analytics"`

	// TTS contains read-aloud configuration
	TTS TTSConfig `yaml:"tts"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		DataDir:  "",
		Store:    "file",
		LogLevel: "warn",
		Color:    "auto",
		Analytics: AnalyticsConfig{
			Enabled: true,
		},
		TTS: TTSConfig{
			Enabled: false,
			BaseURL: "http://localhost:5005",
			Model:   "tts-1",
			Voice:   "alloy",
			Timeout: 30 * time.Second,
		},
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply non-zero values from file (merging with defaults)
	if fileCfg.DataDir != "" {
		cfg.DataDir = fileCfg.DataDir
	}
	if fileCfg.Store != "" {
		cfg.Store = strings.ToLower(fileCfg.Store)
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = strings.ToLower(fileCfg.LogLevel)
	}
	if fileCfg.LogDir != "" {
		cfg.LogDir = fileCfg.LogDir
	}
	if fileCfg.Color != "" {
		cfg.Color = strings.ToLower(fileCfg.Color)
	}

	if fileCfg.TTS.BaseURL != "" {
		cfg.TTS.BaseURL = strings.TrimSuffix(fileCfg.TTS.BaseURL, "/")
	}
	if fileCfg.TTS.Model != "" {
		cfg.TTS.Model = fileCfg.TTS.Model
	}
	if fileCfg.TTS.Voice != "" {
		cfg.TTS.Voice = fileCfg.TTS.Voice
	}
	if fileCfg.TTS.Timeout != 0 {
		cfg.TTS.Timeout = fileCfg.TTS.Timeout
	}

	// A bool can't be told apart from its zero value, so check whether each
	// section sets enabled at all
	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err == nil {
		if sectionSetsEnabled(rawMap, "analytics") {
			cfg.Analytics.Enabled = fileCfg.Analytics.Enabled
		}
		if sectionSetsEnabled(rawMap, "tts") {
			cfg.TTS.Enabled = fileCfg.TTS.Enabled
		}
	}

	return cfg, nil
}

func sectionSetsEnabled(rawMap map[string]interface{}, name string) bool {
	section, ok := rawMap[name].(map[string]interface{})
	if !ok {
		return false
	}
	_, exists := section["enabled"]
	return exists
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(dataDir, store, logLevel, color *string) {
	if dataDir != nil {
		c.DataDir = *dataDir
	}
	if store != nil {
		c.Store = strings.ToLower(*store)
	}
	if logLevel != nil {
		c.LogLevel = strings.ToLower(*logLevel)
	}
	if color != nil {
		c.Color = strings.ToLower(*color)
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	if !slices.Contains(validStores, c.Store) {
		return fmt.Errorf("invalid store %q, must be one of: %s", c.Store, strings.Join(validStores, ", "))
	}
	if !slices.Contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log_level %q, must be one of: %s", c.LogLevel, strings.Join(validLogLevels, ", "))
	}
	if !slices.Contains(validColors, c.Color) {
		return fmt.Errorf("invalid color %q, must be one of: %s", c.Color, strings.Join(validColors, ", "))
	}
	if c.TTS.Enabled {
		u, err := url.Parse(c.TTS.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid tts.base_url %q, must be an http(s) URL", c.TTS.BaseURL)
		}
		if c.TTS.Timeout <= 0 {
			return fmt.Errorf("tts.timeout must be positive, got %v", c.TTS.Timeout)
		}
	}
	return nil
}
