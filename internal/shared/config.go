package shared

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables that override values from config.toml.
const (
	EnvBaseURL  = "MOVIETRACKER_BASE_URL"
	EnvDBPath   = "MOVIETRACKER_DB_PATH"
	EnvLogLevel = "MOVIETRACKER_LOG_LEVEL"
	EnvUserID   = "MOVIETRACKER_USER_ID"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Service  ServiceConfig  `toml:"service"`
	Search   SearchConfig   `toml:"search"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`

	// UserID pins the current user for this process, bypassing the session store. Only set from the environment.
	UserID int64 `toml:"-"`
}

// ServiceConfig describes the remote catalog/library service.
type ServiceConfig struct {
	BaseURL        string  `toml:"base_url"`
	TimeoutSeconds int     `toml:"timeout_seconds"` // 0 disables the client timeout
	RateLimit      float64 `toml:"rate_limit"`      // Requests per second, 0 for unlimited
	Burst          int     `toml:"burst"`
}

// SearchConfig contains movie search settings.
type SearchConfig struct {
	PageSize int `toml:"page_size"`
}

// DatabaseConfig contains local session database settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // Used by the TUI, which cannot log to the terminal
}

// Timeout returns the configured client timeout as a [time.Duration].
func (c ServiceConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// Validate checks values that would make the client unusable.
func (c *Config) Validate() error {
	if c.Service.BaseURL == "" {
		return fmt.Errorf("%w: service.base_url is required", ErrInvalidConfig)
	}
	if c.Search.PageSize <= 0 {
		return fmt.Errorf("%w: search.page_size must be positive", ErrInvalidConfig)
	}
	if c.Service.RateLimit < 0 {
		return fmt.Errorf("%w: service.rate_limit cannot be negative", ErrInvalidConfig)
	}
	return nil
}

// ApplyEnv loads an optional .env file and applies MOVIETRACKER_* overrides.
//
// A missing .env file is not an error.
func (c *Config) ApplyEnv(envFiles ...string) error {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	if v := os.Getenv(EnvBaseURL); v != "" {
		c.Service.BaseURL = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvUserID); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("%w: %s must be a positive integer", ErrInvalidConfig, EnvUserID)
		}
		c.UserID = id
	}

	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveConfig writes config to path, replacing any existing file.
func SaveConfig(path string, config *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
