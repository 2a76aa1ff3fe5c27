package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configFile = "config.yaml"

// DefaultServerURL is used when no config file exists and no flag is given.
const DefaultServerURL = "http://localhost:5000"

// Config is the client configuration stored alongside the session.
type Config struct {
	// ServerURL is the gym backend origin.
	ServerURL string `yaml:"server_url"`

	// DataDir overrides where the session and HTTP cache live.
	DataDir string `yaml:"data_dir,omitempty"`

	// CSRFToken is replayed as X-CSRF-Token on every request when set.
	// The token is issued by the server; this client only consumes it.
	CSRFToken string `yaml:"csrf_token,omitempty"`
}

// DefaultDir returns the default data directory (~/.gymctl).
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".gymctl"), nil
}

// Load reads the config from dir, falling back to defaults when no file
// exists yet.
func Load(dir string) (*Config, error) {
	cfg := &Config{ServerURL: DefaultServerURL}

	data, err := os.ReadFile(filepath.Join(dir, configFile))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultServerURL
	}

	return cfg, nil
}

// Save writes the config to dir, creating it when needed.
func (c *Config) Save(dir string) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(dir, configFile)
	tempPath := path + ".tmp"

	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save config: %w", err)
	}

	return nil
}
