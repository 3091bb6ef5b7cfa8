// Package config handles configuration loading and validation for stride.
package config

import (
	"fmt"
	"os"

	"github.com/steadyhq/stride/internal/core/plan"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Scheduling Scheduling           `yaml:"scheduling"`
	Extension  plan.ExtensionPolicy `yaml:"extension"`
	Advisory   Advisory             `yaml:"advisory"`
	DataDir    string               `yaml:"-"` // set by caller, not from config file
}

// Scheduling holds the knobs for milestone grouping, scanning, and check-ins.
type Scheduling struct {
	// MilestoneGroupSize is the number of consecutive steps per milestone window.
	MilestoneGroupSize int `yaml:"milestone_group_size" validate:"min=1"`
	// ScanWindowDays flags milestones due exactly this many days from now.
	ScanWindowDays int `yaml:"scan_window_days" validate:"min=0"`
	// CheckInCooldownDays suppresses prompts for goals checked in on recently.
	CheckInCooldownDays int `yaml:"checkin_cooldown_days" validate:"min=0"`
	// UrgentAfterDays marks a prompt urgent once a step is this many days
	// past due (required steps are always urgent).
	UrgentAfterDays int `yaml:"urgent_after_days" validate:"min=0"`
}

// Advisory configures the optional advice oracle. When disabled, or on any
// oracle failure, the static feedback table is used unchanged.
type Advisory struct {
	Enabled        bool   `yaml:"enabled"`
	Model          string `yaml:"model"`
	BaseURL        string `yaml:"base_url"`
	APIKeyEnv      string `yaml:"api_key_env"`
	TimeoutSeconds int    `yaml:"timeout_seconds" validate:"min=1"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Scheduling: Scheduling{
			MilestoneGroupSize:  plan.DefaultGroupSize,
			ScanWindowDays:      3,
			CheckInCooldownDays: 2,
			UrgentAfterDays:     3,
		},
		Extension: plan.DefaultExtensionPolicy(),
		Advisory: Advisory{
			Enabled:        false,
			Model:          "gpt-4o-mini",
			APIKeyEnv:      "OPENAI_API_KEY",
			TimeoutSeconds: 10,
		},
	}
}

// Load reads the config file at path, applying defaults for missing fields.
// A missing file is not an error; defaults are returned.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}
