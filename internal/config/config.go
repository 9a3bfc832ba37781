// Package config provides persistent configuration for vakit.
//
// Settings are stored as JSON at ~/.config/vakit/config.json
// (XDG-compliant). The selected location triple survives restarts; service
// credentials deliberately do not live here -- they come from the
// environment (see api.CredentialsFromEnv).
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

const (
	configDirName  = "vakit"
	configFileName = "config.json"
)

// ValidKeys lists all config keys that can be set via `config set`.
// The location triple is managed through `location set`, not here.
var ValidKeys = []string{
	"time_format",
	"notifications",
	"cache_dir",
	"shared_dir",
	"redis_address",
	"mqtt_broker",
	"log_level",
}

// Place is one persisted level of the selected location triple.
type Place struct {
	ID   int    `json:"id"`
	Code string `json:"code,omitempty"`
	Name string `json:"name"`
}

// Config holds all user-configurable settings.
// Zero values mean "not set" (use defaults).
type Config struct {
	Country *Place `json:"country,omitempty"`
	State   *Place `json:"state,omitempty"`
	City    *Place `json:"city,omitempty"`

	TimeFormat    string `json:"time_format,omitempty"` // "12h" or "24h"
	Notifications *bool  `json:"notifications,omitempty"`
	CacheDir      string `json:"cache_dir,omitempty"`
	SharedDir     string `json:"shared_dir,omitempty"`
	RedisAddress  string `json:"redis_address,omitempty"`
	MQTTBroker    string `json:"mqtt_broker,omitempty"`
	LogLevel      string `json:"log_level,omitempty"`
}

// Defaults returns a Config with all default values applied.
func Defaults() Config {
	return Config{
		TimeFormat: "24h",
		LogLevel:   "info",
	}
}

// HasCity reports whether a city has been selected.
func (c *Config) HasCity() bool {
	return c.City != nil && c.City.ID != 0
}

// Dir returns the config directory path.
// It respects $XDG_CONFIG_HOME if set, otherwise uses ~/.config/.
func Dir() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, configDirName), nil
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the config file from disk.
// If the file does not exist, it returns an empty Config (not an error).
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config from a specific file path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Config{}
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return &cfg, nil
}

// Save writes the config to disk, creating the directory if needed.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the config to a specific file path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Reset deletes the config file.
func Reset() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return ResetAt(path)
}

// ResetAt deletes the config file at a specific path.
func ResetAt(path string) error {
	err := os.Remove(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete config file: %w", err)
	}
	return nil
}

// SetLocation persists the selected location triple.
func (c *Config) SetLocation(country, state, city Place) {
	c.Country = &country
	c.State = &state
	c.City = &city
}

// Set sets a config key to the given value.
// It validates the key name and parses the value into the correct type.
func (c *Config) Set(key, value string) error {
	switch key {
	case "time_format":
		if value != "12h" && value != "24h" {
			return fmt.Errorf("invalid time_format %q: must be \"12h\" or \"24h\"", value)
		}
		c.TimeFormat = value
	case "notifications":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid notifications %q: must be true or false", value)
		}
		c.Notifications = &v
	case "cache_dir":
		c.CacheDir = value
	case "shared_dir":
		c.SharedDir = value
	case "redis_address":
		c.RedisAddress = value
	case "mqtt_broker":
		c.MQTTBroker = value
	case "log_level":
		switch value {
		case "debug", "info", "warn", "error":
			c.LogLevel = value
		default:
			return fmt.Errorf("invalid log_level %q: must be debug, info, warn, or error", value)
		}
	default:
		return fmt.Errorf("unknown config key %q", key)
	}

	return nil
}

// Get returns the string value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "time_format":
		return c.TimeFormat, nil
	case "notifications":
		if c.Notifications == nil {
			return "", nil
		}
		return strconv.FormatBool(*c.Notifications), nil
	case "cache_dir":
		return c.CacheDir, nil
	case "shared_dir":
		return c.SharedDir, nil
	case "redis_address":
		return c.RedisAddress, nil
	case "mqtt_broker":
		return c.MQTTBroker, nil
	case "log_level":
		return c.LogLevel, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

// NotificationsEnabled returns the notifications flag, defaulting to false.
// The flag is consumed by the platform notification scheduler; only its
// storage lives here.
func (c *Config) NotificationsEnabled() bool {
	return c.Notifications != nil && *c.Notifications
}
