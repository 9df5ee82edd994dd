// Package config provides configuration loading and structs for the group export bot.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug  bool         `yaml:"debug"`
	API    APIConfig    `yaml:"api"`
	Server ServerConfig `yaml:"server"`
	Bot    BotConfig    `yaml:"bot"`
}

// APIConfig holds settings for the OneBot HTTP API the bot calls out to.
type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	AccessToken    string `yaml:"access_token"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// ServerConfig holds settings for the HTTP server that receives event pushes.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// BotConfig holds command keywords and the admin allow-list.
// Admins may run the all-groups export; ids are platform user ids.
type BotConfig struct {
	Admins           []int64 `yaml:"admins"`
	ExportCommand    string  `yaml:"export_command"`
	ExportAllCommand string  `yaml:"export_all_command"`
}

// IsAdmin reports whether userID is in the admin allow-list.
func (b *BotConfig) IsAdmin(userID int64) bool {
	for _, id := range b.Admins {
		if id == userID {
			return true
		}
	}
	return false
}

// Load reads and parses the config file at path and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	return &cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
