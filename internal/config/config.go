package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultArchiveSchedule closes the week at Monday 00:00 local time
const DefaultArchiveSchedule = "0 0 * * 1"

// Config holds user preferences
type Config struct {
	DataDir       string `yaml:"data_dir" json:"data_dir"`             // Local state and lock files
	ConfirmDelete bool   `yaml:"confirm_delete" json:"confirm_delete"` // Require confirmation for delete

	// Weekly archival
	AutoArchive     bool   `yaml:"auto_archive" json:"auto_archive"`         // Archive on schedule while watch/TUI runs
	ArchiveSchedule string `yaml:"archive_schedule" json:"archive_schedule"` // Cron expression (minute hour dom month dow)

	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level"`     // Log level: DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" json:"log_file"`       // Path to log file
	LogConsole bool   `yaml:"log_console" json:"log_console"` // Enable console logging
}

// BaseDir returns ~/.weektrack, or "" if the home directory is unknown
func BaseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".weektrack")
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	base := BaseDir()
	logPath := ""
	if base != "" {
		logPath = filepath.Join(base, "logs", "weektrack.log")
	}

	return &Config{
		DataDir:         getEnv("WEEKTRACK_DATA_DIR", base),
		ConfirmDelete:   true,
		AutoArchive:     getEnv("WEEKTRACK_AUTO_ARCHIVE", "true") == "true",
		ArchiveSchedule: getEnv("WEEKTRACK_ARCHIVE_SCHEDULE", DefaultArchiveSchedule),
		LogLevel:        getEnv("WEEKTRACK_LOG_LEVEL", "INFO"),
		LogFile:         getEnv("WEEKTRACK_LOG_FILE", logPath),
		LogConsole:      getEnv("WEEKTRACK_LOG_CONSOLE", "false") == "true",
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Path returns the default config file location
func Path() (string, error) {
	base := BaseDir()
	if base == "" {
		return "", fmt.Errorf("cannot determine home directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load loads config from ~/.weektrack/config.yaml
func Load() (*Config, error) {
	configPath, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFile(configPath)
}

// LoadFile loads config from path, returning defaults if it does not exist
func LoadFile(configPath string) (*Config, error) {
	// Check if exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Return defaults if no config
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save saves config to ~/.weektrack/config.yaml
func (c *Config) Save() error {
	configPath, err := Path()
	if err != nil {
		return err
	}
	return c.SaveFile(configPath)
}

// SaveFile writes the config as YAML to path
func (c *Config) SaveFile(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
