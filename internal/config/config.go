package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// Defaults
const (
	DefaultAddr          = "127.0.0.1:8080"
	DefaultLocale        = "en"
	DefaultXSSCharacters = `<>&"'#%`
	DefaultLogLevel      = "info"
)

// Config represents the flat genatt configuration
type Config struct {
	Version       string `json:"version"`
	DBPath        string `json:"db_path,omitempty"`
	Addr          string `json:"addr,omitempty"`
	DefaultLocale string `json:"default_locale,omitempty"`
	// XSSCharacters are rejected in end user answers.
	XSSCharacters      string              `json:"xss_characters,omitempty"`
	LogLevel           string              `json:"log_level,omitempty"`
	RegularExpressions []RegularExpression `json:"regular_expressions,omitempty"`
}

// RegularExpression is a named pattern offered to text entries.
type RegularExpression struct {
	Title        string `json:"title"`
	Pattern      string `json:"pattern"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Version:       "1",
		Addr:          DefaultAddr,
		DefaultLocale: DefaultLocale,
		XSSCharacters: DefaultXSSCharacters,
		LogLevel:      DefaultLogLevel,
	}
}

// LoadConfig reads .genatt/config.json from the specified directory.
// Missing keys keep their default. A missing file yields Default().
func LoadConfig(dir string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(dir, ".genatt", "config.json")
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	genattDir := filepath.Join(dir, ".genatt")
	if err := os.MkdirAll(genattDir, 0755); err != nil {
		return fmt.Errorf("failed to create .genatt dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(genattDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate checks values that cannot be repaired by falling back to a default.
func (c *Config) Validate() error {
	if c.DefaultLocale == "" {
		return fmt.Errorf("default_locale must not be empty")
	}
	for _, re := range c.RegularExpressions {
		if re.Title == "" {
			return fmt.Errorf("regular expression %q has no title", re.Pattern)
		}
		if _, err := regexp.Compile(re.Pattern); err != nil {
			return fmt.Errorf("regular expression %s: %w", re.Title, err)
		}
	}
	return nil
}

// ResolveDBPath returns DBPath, or ~/.genatt/genatt.db when unset.
func (c *Config) ResolveDBPath() (string, error) {
	if c.DBPath != "" {
		return c.DBPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".genatt", "genatt.db"), nil
}
