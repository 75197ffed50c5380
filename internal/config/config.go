package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// HistoryCSV is the booking-system export with completed sessions.
	HistoryCSV string `yaml:"historyCSV" validate:"required"`

	// ScheduleFile is the active weekly schedule (JSON, day -> entries).
	ScheduleFile string `yaml:"scheduleFile" validate:"required"`

	// SettingsFile holds the persisted OptimizationSettings JSON.
	SettingsFile string `yaml:"settingsFile" validate:"required"`

	// DatabaseURL enables the Postgres history store when set.
	DatabaseURL string `yaml:"databaseURL,omitempty"`

	// ReportSheetID / ReportTab configure the publish target.
	ReportSheetID string `yaml:"reportSheetID,omitempty"`
	ReportTab     string `yaml:"reportTab,omitempty"`

	// Port is the HTTP port for the serve command.
	Port int `yaml:"port,omitempty" validate:"omitempty,min=1,max=65535"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from studio_config.yaml,
// looking in the current directory first, then the user's home directory.
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads the configuration with an environment suffix, e.g.
// env="test" looks for "studio_config.test.yaml".
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// findConfigFile searches for the config file in the current directory and
// home directory.
func findConfigFile(env string) (string, error) {
	configFileName := "studio_config.yaml"
	if env != "" {
		configFileName = "studio_config." + env + ".yaml"
	}

	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file not found in current directory or home directory")
}
