package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/teambition/rrule-go"

	"github.com/velofit/studio-optimizer/pkg/core/rules"
)

// LoadSettings reads the persisted OptimizationSettings JSON and merges it
// over the defaults field by field. Partial or old-shaped documents are
// never rejected: absent fields keep their default value. A missing file
// yields pure defaults.
func LoadSettings(path string) (rules.Settings, error) {
	settings := rules.DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return settings, nil
		}
		return settings, fmt.Errorf("failed to read settings file: %w", err)
	}

	// Unmarshalling over the pre-populated struct only overwrites fields
	// present in the document, so absent fields keep their defaults.
	if err := json.Unmarshal(data, &settings); err != nil {
		return rules.DefaultSettings(), fmt.Errorf("failed to parse settings file: %w", err)
	}

	if err := ValidateSettings(&settings); err != nil {
		return settings, err
	}

	return settings, nil
}

// SaveSettings writes the settings back as indented JSON.
func SaveSettings(path string, settings rules.Settings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

// ValidateSettings runs struct validation, checks the hour fields are
// coherent, and verifies leave rrule syntax.
func ValidateSettings(settings *rules.Settings) error {
	if err := validate.Struct(settings); err != nil {
		return fmt.Errorf("settings validation failed: %w", err)
	}

	if settings.MaxTrainerHours < settings.TargetTrainerHours {
		return fmt.Errorf("maxTrainerHours (%d) must be >= targetTrainerHours (%d)",
			settings.MaxTrainerHours, settings.TargetTrainerHours)
	}

	for i, leave := range settings.Leave {
		if leave.RRule == "" {
			continue
		}
		if _, err := rrule.StrToRRule(leave.RRule); err != nil {
			return fmt.Errorf("invalid rrule in leave[%d]: %w", i, err)
		}
	}

	return nil
}
