package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the client settings. Values come from three layers, later
// wins: built-in defaults, the YAML config file, then LOKARNI_* environment
// variables (a .env file in the working directory is loaded first).
type Config struct {
	// BaseURL is the backend address.
	BaseURL string `yaml:"base_url" env:"LOKARNI_BASE_URL"`

	// Timeout bounds every backend request.
	Timeout time.Duration `yaml:"timeout" env:"LOKARNI_TIMEOUT"`

	// SearchDebounce is how long the browse view waits after the last
	// keystroke before firing a search.
	SearchDebounce time.Duration `yaml:"search_debounce" env:"LOKARNI_SEARCH_DEBOUNCE"`

	// CivitaiAPIKey authorizes CivitAI imports; the preference store value
	// takes precedence when both are set.
	CivitaiAPIKey string `yaml:"civitai_api_key" env:"LOKARNI_CIVITAI_API_KEY"`

	// Verbose switches debug logging on.
	Verbose bool `yaml:"verbose" env:"LOKARNI_VERBOSE"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:        "http://localhost:8000",
		Timeout:        15 * time.Second,
		SearchDebounce: 300 * time.Millisecond,
	}
}

// DefaultPath resolves the config file location, honoring XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "lokarni", "config.yaml"), nil
}

// Load builds the effective config. A missing file is fine; a malformed one
// is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	// Optional .env for development setups; absence is not an error.
	_ = godotenv.Load()

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.SearchDebounce <= 0 {
		cfg.SearchDebounce = DefaultConfig().SearchDebounce
	}
	return cfg, nil
}
