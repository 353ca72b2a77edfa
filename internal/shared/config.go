package shared

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

//go:embed config.example.toml
var exampleConf []byte

// EnvPrefix is the prefix for environment overrides, e.g. STEAMX_API_KEY.
const EnvPrefix = "STEAMX"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Steam       SteamConfig       `toml:"steam"`
	Export      ExportConfig      `toml:"export"`
	Database    DatabaseConfig    `toml:"database"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Steam SteamCredentials `toml:"steam"`
}

// SteamCredentials holds the Web API key and the account to query.
type SteamCredentials struct {
	APIKey  string `toml:"api_key"`
	SteamID string `toml:"steam_id"`
}

// SteamConfig contains Steam Web API client settings.
type SteamConfig struct {
	BaseURL  string   `toml:"base_url"`
	Language string   `toml:"language"`
	Timeout  Duration `toml:"timeout"`
	Delay    Duration `toml:"delay"`
}

// ExportConfig contains CSV export settings.
type ExportConfig struct {
	OutputDir string `toml:"output_dir"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// envOverrides is the flat view of [Config] that envconfig populates.
type envOverrides struct {
	APIKey    string `envconfig:"API_KEY"`
	SteamID   string `envconfig:"STEAM_ID"`
	OutputDir string `envconfig:"OUTPUT_DIR"`
}

// Duration wraps [time.Duration] so it can be written as "15s" in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("%w: bad duration %q: %v", ErrInvalidConfig, text, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the embedded defaults and environment overrides are applied last.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	if err := ApplyEnv(config); err != nil {
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

// ApplyEnv overlays STEAMX_* environment variables onto config. Unset variables leave the file values alone.
func ApplyEnv(config *Config) error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if env.APIKey != "" {
		config.Credentials.Steam.APIKey = env.APIKey
	}
	if env.SteamID != "" {
		config.Credentials.Steam.SteamID = env.SteamID
	}
	if env.OutputDir != "" {
		config.Export.OutputDir = env.OutputDir
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveConfig rewrites the config file at path with the current values.
func SaveConfig(path string, config *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SetConfigValue updates a single dotted key (e.g. "credentials.steam.api_key") in config.
func SetConfigValue(config *Config, key, value string) error {
	switch key {
	case "credentials.steam.api_key", "api_key":
		config.Credentials.Steam.APIKey = value
	case "credentials.steam.steam_id", "steam_id":
		config.Credentials.Steam.SteamID = value
	case "export.output_dir", "output_dir":
		config.Export.OutputDir = value
	case "steam.language", "language":
		config.Steam.Language = value
	case "steam.base_url":
		config.Steam.BaseURL = value
	case "steam.timeout", "steam.delay":
		var d Duration
		if err := d.UnmarshalText([]byte(value)); err != nil {
			return err
		}
		if key == "steam.timeout" {
			config.Steam.Timeout = d
		} else {
			config.Steam.Delay = d
		}
	case "database.path":
		config.Database.Path = value
	default:
		return fmt.Errorf("%w: unknown config key %q", ErrInvalidArgument, key)
	}
	return nil
}
