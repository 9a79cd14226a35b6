package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API      APIConfig      `toml:"api"`
	Database DatabaseConfig `toml:"database"`
	Generate GenerateConfig `toml:"generate"`
}

// APIConfig contains settings for the remote Forma API.
type APIConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// GenerateConfig contains PDF generation settings.
type GenerateConfig struct {
	MaxImages           int    `toml:"max_images"`
	PollIntervalSeconds int    `toml:"poll_interval_seconds"`
	PollMaxAttempts     int    `toml:"poll_max_attempts"`
	DownloadDir         string `toml:"download_dir"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
// Environment variables (after an optional .env load) override file values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyEnvOverrides()
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyEnvOverrides()
	return &config
}

// LoadEnv loads a .env file from the working directory when present.
// A missing file is not an error.
func LoadEnv() {
	_ = godotenv.Load()
}

// applyEnvOverrides replaces config values with their FORMA_* environment
// counterparts when set.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("FORMA_API_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("FORMA_DATABASE_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("FORMA_DOWNLOAD_DIR"); v != "" {
		c.Generate.DownloadDir = v
	}
	if v := os.Getenv("FORMA_API_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.API.TimeoutSeconds = n
		}
	}
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, ErrInvalidConfig)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
