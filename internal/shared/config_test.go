package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Service.BaseURL != "http://localhost:8080" {
			t.Errorf("expected base URL http://localhost:8080, got %s", config.Service.BaseURL)
		}

		if config.Search.PageSize != 6 {
			t.Errorf("expected page size 6, got %d", config.Search.PageSize)
		}

		if config.Database.Path != "./movietracker.db" {
			t.Errorf("expected database path ./movietracker.db, got %s", config.Database.Path)
		}

		if config.Service.Timeout() != 0 {
			t.Errorf("expected no client timeout by default, got %v", config.Service.Timeout())
		}

		if err := config.Validate(); err != nil {
			t.Errorf("default config should be valid: %v", err)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		if config.Database.Path != DefaultConfig().Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		testConfig := `[service]
base_url = "http://movies.internal:9000"
timeout_seconds = 15
rate_limit = 5.0
burst = 2

[database]
path = "/custom/path.db"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Service.BaseURL != "http://movies.internal:9000" {
			t.Errorf("expected overridden base URL, got %s", config.Service.BaseURL)
		}
		if config.Service.Timeout() != 15*time.Second {
			t.Errorf("expected 15s timeout, got %v", config.Service.Timeout())
		}
		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}
		if config.Search.PageSize != 6 {
			t.Errorf("missing sections should keep defaults, got page size %d", config.Search.PageSize)
		}
	})

	t.Run("LoadConfig rejects invalid values", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[search]\npage_size = 0\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("SaveConfig", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		config := DefaultConfig()
		config.Search.PageSize = 12
		config.UserID = 99

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load saved config: %v", err)
		}
		if loaded.Search.PageSize != 12 {
			t.Errorf("expected page size 12, got %d", loaded.Search.PageSize)
		}
		if loaded.UserID != 0 {
			t.Errorf("user id should never be persisted, got %d", loaded.UserID)
		}
	})
}

func TestConfigApplyEnv(t *testing.T) {
	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv(EnvBaseURL, "http://override:1234")
		t.Setenv(EnvDBPath, "/tmp/override.db")
		t.Setenv(EnvLogLevel, "debug")
		t.Setenv(EnvUserID, "42")

		config := DefaultConfig()
		if err := config.ApplyEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if config.Service.BaseURL != "http://override:1234" {
			t.Errorf("expected base URL override, got %s", config.Service.BaseURL)
		}
		if config.Database.Path != "/tmp/override.db" {
			t.Errorf("expected db path override, got %s", config.Database.Path)
		}
		if config.Log.Level != "debug" {
			t.Errorf("expected log level override, got %s", config.Log.Level)
		}
		if config.UserID != 42 {
			t.Errorf("expected user id 42, got %d", config.UserID)
		}
	})

	t.Run("dotenv file", func(t *testing.T) {
		t.Setenv(EnvBaseURL, "")
		os.Unsetenv(EnvBaseURL)

		envPath := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(envPath, []byte(EnvBaseURL+"=http://from-dotenv:8080\n"), 0644); err != nil {
			t.Fatalf("failed to write .env: %v", err)
		}

		config := DefaultConfig()
		if err := config.ApplyEnv(envPath); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if config.Service.BaseURL != "http://from-dotenv:8080" {
			t.Errorf("expected base URL from .env, got %s", config.Service.BaseURL)
		}
	})

	t.Run("invalid user id", func(t *testing.T) {
		t.Setenv(EnvUserID, "abc")

		config := DefaultConfig()
		err := config.ApplyEnv(filepath.Join(t.TempDir(), "missing.env"))
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}
