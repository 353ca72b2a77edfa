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

		if config.Database.Path != "./steamx.db" {
			t.Errorf("expected database path ./steamx.db, got %s", config.Database.Path)
		}

		if config.Steam.BaseURL != "https://api.steampowered.com" {
			t.Errorf("expected steam base url https://api.steampowered.com, got %s", config.Steam.BaseURL)
		}

		if config.Steam.Language != "english" {
			t.Errorf("expected language english, got %s", config.Steam.Language)
		}

		if config.Steam.Timeout.Duration != 15*time.Second {
			t.Errorf("expected timeout 15s, got %v", config.Steam.Timeout)
		}

		if config.Steam.Delay.Duration != 300*time.Millisecond {
			t.Errorf("expected delay 300ms, got %v", config.Steam.Delay)
		}

		if config.Credentials.Steam.APIKey != "" {
			t.Errorf("expected empty api key, got %s", config.Credentials.Steam.APIKey)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "nested", "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"

[steam]
language = "japanese"
delay = "1s"

[credentials.steam]
api_key = "test_api_key"
steam_id = "76561198000000000"

[export]
output_dir = "/tmp/exports"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Steam.Language != "japanese" {
			t.Errorf("expected language japanese, got %s", config.Steam.Language)
		}

		if config.Steam.Delay.Duration != time.Second {
			t.Errorf("expected delay 1s, got %v", config.Steam.Delay)
		}

		if config.Steam.Timeout.Duration != 15*time.Second {
			t.Errorf("unset timeout should keep default 15s, got %v", config.Steam.Timeout)
		}

		if config.Credentials.Steam.SteamID != "76561198000000000" {
			t.Errorf("expected steam id 76561198000000000, got %s", config.Credentials.Steam.SteamID)
		}
	})

	t.Run("LoadConfig bad duration", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := os.WriteFile(configPath, []byte("[steam]\ntimeout = \"soon\"\n"), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfig(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("Environment overrides", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		t.Setenv("STEAMX_API_KEY", "env-key")
		t.Setenv("STEAMX_STEAM_ID", "env-id")
		t.Setenv("STEAMX_OUTPUT_DIR", "/env/out")

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Credentials.Steam.APIKey != "env-key" {
			t.Errorf("expected api key from env, got %s", config.Credentials.Steam.APIKey)
		}
		if config.Credentials.Steam.SteamID != "env-id" {
			t.Errorf("expected steam id from env, got %s", config.Credentials.Steam.SteamID)
		}
		if config.Export.OutputDir != "/env/out" {
			t.Errorf("expected output dir from env, got %s", config.Export.OutputDir)
		}
	})

	t.Run("SaveConfig round trip", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")
		config := DefaultConfig()

		if err := SetConfigValue(config, "api_key", "saved-key"); err != nil {
			t.Fatalf("SetConfigValue() error = %v", err)
		}
		if err := SetConfigValue(config, "steam.delay", "2s"); err != nil {
			t.Fatalf("SetConfigValue() error = %v", err)
		}
		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("SaveConfig() error = %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load saved config: %v", err)
		}
		if loaded.Credentials.Steam.APIKey != "saved-key" {
			t.Errorf("expected saved-key, got %s", loaded.Credentials.Steam.APIKey)
		}
		if loaded.Steam.Delay.Duration != 2*time.Second {
			t.Errorf("expected delay 2s, got %v", loaded.Steam.Delay)
		}
	})

	t.Run("SetConfigValue unknown key", func(t *testing.T) {
		err := SetConfigValue(DefaultConfig(), "server.port", "80")
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}
