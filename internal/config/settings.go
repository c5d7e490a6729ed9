package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default HTTP listen address for the gateway
const DefaultAddr = ":8000"

// Settings represents the main application settings
type Settings struct {
	Server  ServerSettings  `json:"server" yaml:"server"`
	Backend BackendSettings `json:"backend" yaml:"backend"`
	Cache   CacheSettings   `json:"cache" yaml:"cache"`
	Log     LogSettings     `json:"log" yaml:"log"`
}

// ServerSettings contains HTTP serving configuration
type ServerSettings struct {
	Addr string `json:"addr" yaml:"addr"` // listen address, e.g. ":8000"

	// StrictJSON controls the fallback when json_object output cannot be
	// extracted: true substitutes "[]", false returns the raw text.
	StrictJSON bool `json:"strict_json,omitempty" yaml:"strict_json,omitempty"`

	// CleanupIntervalSeconds drives the background sweep of expired cache
	// entries (0 = default)
	CleanupIntervalSeconds int `json:"cleanup_interval_seconds,omitempty" yaml:"cleanup_interval_seconds,omitempty"`
}

// BackendSettings contains completion backend configuration
type BackendSettings struct {
	Backend   string `json:"backend" yaml:"backend"`             // "ollama", "anthropic", "openai", or "gemini"
	Model     string `json:"model" yaml:"model"`                 // default model name
	MaxTokens int    `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"` // maximum tokens for responses (0 = backend default)
}

// CacheSettings contains request-deduplication cache configuration
type CacheSettings struct {
	Enabled    bool `json:"enabled" yaml:"enabled"`
	MaxSize    int  `json:"max_size" yaml:"max_size"`
	TTLSeconds int  `json:"ttl_seconds" yaml:"ttl_seconds"`
}

// LogSettings contains logging configuration
type LogSettings struct {
	Level string `json:"level" yaml:"level"`
}

// GetDefaultSettings returns default application settings
func GetDefaultSettings() *Settings {
	return &Settings{
		Server: ServerSettings{
			Addr:                   DefaultAddr,
			StrictJSON:             false,
			CleanupIntervalSeconds: 60,
		},
		Backend: BackendSettings{
			Backend:   "anthropic",
			Model:     "claude-sonnet-4-20250514",
			MaxTokens: 0, // 0 = backend-specific default
		},
		Cache: CacheSettings{
			Enabled:    false,
			MaxSize:    100,
			TTLSeconds: 60,
		},
		Log: LogSettings{
			Level: "info",
		},
	}
}

// LoadSettings loads application settings from a JSON or YAML file. When
// path is empty, well-known locations are searched; if no file exists the
// defaults are returned. Environment overrides are applied last.
func LoadSettings(path string) (*Settings, error) {
	if path == "" {
		path = findSettingsFile()
	}

	settings := GetDefaultSettings()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
		}

		if isYAMLPath(path) {
			err = yaml.Unmarshal(data, settings)
		} else {
			err = json.Unmarshal(data, settings)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
		}

		applyDefaults(settings)
	}

	applyEnvOverrides(settings)
	return settings, nil
}

func isYAMLPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// findSettingsFile searches for a settings file in order of preference:
// 1. .relay/settings.{json,yaml} in current directory
// 2. $HOME/.relay/settings.{json,yaml}
// Returns empty string if none found
func findSettingsFile() string {
	candidates := []string{
		filepath.Join(".relay", "settings.json"),
		filepath.Join(".relay", "settings.yaml"),
	}

	home, err := os.UserHomeDir()
	if err == nil {
		candidates = append(candidates,
			filepath.Join(home, ".relay", "settings.json"),
			filepath.Join(home, ".relay", "settings.yaml"),
		)
	}

	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// applyDefaults fills in missing fields with default values
func applyDefaults(settings *Settings) {
	defaults := GetDefaultSettings()

	if settings.Server.Addr == "" {
		settings.Server.Addr = defaults.Server.Addr
	}
	if settings.Server.CleanupIntervalSeconds == 0 {
		settings.Server.CleanupIntervalSeconds = defaults.Server.CleanupIntervalSeconds
	}
	if settings.Backend.Backend == "" {
		settings.Backend.Backend = defaults.Backend.Backend
	}
	if settings.Backend.Model == "" {
		settings.Backend.Model = defaults.Backend.Model
	}
	if settings.Cache.MaxSize == 0 {
		settings.Cache.MaxSize = defaults.Cache.MaxSize
	}
	if settings.Cache.TTLSeconds == 0 {
		settings.Cache.TTLSeconds = defaults.Cache.TTLSeconds
	}
	if settings.Log.Level == "" {
		settings.Log.Level = defaults.Log.Level
	}
}

// applyEnvOverrides lets deployments configure the cache and listen address
// without a settings file.
func applyEnvOverrides(settings *Settings) {
	if v := os.Getenv("RELAY_ADDR"); v != "" {
		settings.Server.Addr = v
	}
	if v := os.Getenv("RELAY_BACKEND"); v != "" {
		settings.Backend.Backend = v
	}
	if v := os.Getenv("RELAY_MODEL"); v != "" {
		settings.Backend.Model = v
	}
	if v := os.Getenv("RELAY_CACHE_ENABLED"); v != "" {
		settings.Cache.Enabled = isTruthy(v)
	}
	if v := os.Getenv("RELAY_CACHE_MAX_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			settings.Cache.MaxSize = n
		}
	}
	if v := os.Getenv("RELAY_CACHE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			settings.Cache.TTLSeconds = n
		}
	}
}

func isTruthy(v string) bool {
	switch strings.ToLower(v) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}

// ValidateSettings validates the settings configuration
func ValidateSettings(settings *Settings) error {
	switch settings.Backend.Backend {
	case "ollama", "anthropic", "openai", "gemini":
	default:
		return fmt.Errorf("unsupported backend: %s (must be 'ollama', 'anthropic', 'openai', or 'gemini')", settings.Backend.Backend)
	}

	if settings.Backend.Model == "" {
		return fmt.Errorf("backend model is required")
	}

	if settings.Backend.Backend == "anthropic" {
		// Check environment variable for API key
		if os.Getenv("ANTHROPIC_API_KEY") == "" {
			return fmt.Errorf("Anthropic API key is required (set ANTHROPIC_API_KEY environment variable)")
		}
	}

	if settings.Backend.Backend == "openai" {
		if os.Getenv("OPENAI_API_KEY") == "" {
			return fmt.Errorf("OpenAI API key is required (set OPENAI_API_KEY environment variable)")
		}
	}

	if settings.Backend.Backend == "gemini" {
		if os.Getenv("GEMINI_API_KEY") == "" {
			return fmt.Errorf("Gemini API key is required (set GEMINI_API_KEY environment variable)")
		}
	}

	if settings.Cache.MaxSize <= 0 {
		return fmt.Errorf("cache max_size must be positive")
	}
	if settings.Cache.TTLSeconds <= 0 {
		return fmt.Errorf("cache ttl_seconds must be positive")
	}

	return nil
}
