// Package config loads runtime configuration from environment
// variables. Every knob has a working default so a bare `entrolab`
// invocation runs against the public APIs; a GITHUB_TOKEN is the only
// setting most runs want to provide.
package config

import (
	"os"
	"strconv"
	"time"

	"entrolab/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	GitHub        GitHubConfig
	Npm           NpmConfig
	StackExchange StackExchangeConfig
	Server        ServerConfig
	Data          DataConfig
	Logging       LoggingConfig
}

// GitHubConfig holds search API settings. An empty BaseURL means the
// public api.github.com; tests override it.
type GitHubConfig struct {
	Token    string
	BaseURL  string
	MaxPages int
	Timeout  time.Duration
	Pause    time.Duration
}

// NpmConfig holds registry and downloads API settings.
type NpmConfig struct {
	RegistryURL  string
	DownloadsURL string
	Timeout      time.Duration
}

// StackExchangeConfig holds related-tags API settings.
type StackExchangeConfig struct {
	BaseURL string
	Site    string
	Timeout time.Duration
}

// ServerConfig holds artifact server settings
type ServerConfig struct {
	Port string
}

// DataConfig holds artifact output settings and the simulation seed.
type DataConfig struct {
	Dir  string
	Seed uint64
}

// LoggingConfig holds log verbosity settings
type LoggingConfig struct {
	Level string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		GitHub:        loadGitHubConfig(),
		Npm:           loadNpmConfig(),
		StackExchange: loadStackExchangeConfig(),
		Server:        loadServerConfig(),
		Data:          loadDataConfig(),
		Logging:       loadLoggingConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadGitHubConfig() GitHubConfig {
	return GitHubConfig{
		Token:    getEnvOrDefault("GITHUB_TOKEN", ""),
		BaseURL:  getEnvOrDefault("GITHUB_API_URL", ""),
		MaxPages: getEnvIntOrDefault("GITHUB_MAX_PAGES", 5),
		Timeout:  getEnvDurationOrDefault("GITHUB_TIMEOUT", 30*time.Second),
		Pause:    getEnvDurationOrDefault("GITHUB_PAUSE", 700*time.Millisecond),
	}
}

func loadNpmConfig() NpmConfig {
	return NpmConfig{
		RegistryURL:  getEnvOrDefault("NPM_REGISTRY_URL", ""),
		DownloadsURL: getEnvOrDefault("NPM_DOWNLOADS_URL", ""),
		Timeout:      getEnvDurationOrDefault("NPM_TIMEOUT", 20*time.Second),
	}
}

func loadStackExchangeConfig() StackExchangeConfig {
	return StackExchangeConfig{
		BaseURL: getEnvOrDefault("STACKEXCHANGE_API_URL", ""),
		Site:    getEnvOrDefault("STACKEXCHANGE_SITE", "stackoverflow"),
		Timeout: getEnvDurationOrDefault("STACKEXCHANGE_TIMEOUT", 20*time.Second),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port: getEnvOrDefault("PORT", "8080"),
	}
}

func loadDataConfig() DataConfig {
	return DataConfig{
		Dir:  getEnvOrDefault("ENTROLAB_DATA_DIR", "data"),
		Seed: getEnvUint64OrDefault("ENTROLAB_SEED", 42),
	}
}

func loadLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level: getEnvOrDefault("ENTROLAB_LOG_LEVEL", "info"),
	}
}

func validateConfig(config *Config) error {
	if config.Data.Dir == "" {
		return errors.ConfigInvalid("ENTROLAB_DATA_DIR cannot be empty")
	}
	if config.GitHub.MaxPages < 1 {
		return errors.ConfigInvalid("GITHUB_MAX_PAGES must be at least 1")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT cannot be empty")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvUint64OrDefault(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if uintValue, err := strconv.ParseUint(value, 10, 64); err == nil {
			return uintValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
