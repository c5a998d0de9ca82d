// Package config handles configuration loading and validation for ctt.
//
// The core packages only consume a Config value; reading it from disk is the
// job of the command line host.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/ctt/internal/core/status"
	"github.com/colonyops/ctt/internal/core/styles"
)

// ErrInvalidSeparator is returned when the separator is empty after
// disallowed characters are removed.
var ErrInvalidSeparator = errors.New("invalid separator")

// disallowedSeparatorChars are regular expression metacharacters that may not
// appear in the start/end separator.
const disallowedSeparatorChars = `^$*+?.[]{}|\`

// Config holds the task formatting and lifecycle options.
type Config struct {
	// TimeFormat is the moment-style pattern for the time of day.
	TimeFormat string `yaml:"time_format" json:"time_format"`
	// DateFormat is the moment-style pattern for the calendar date.
	DateFormat string `yaml:"date_format" json:"date_format"`
	// EnableDateInserting prefixes every timestamp with the date.
	EnableDateInserting bool `yaml:"enable_date_inserting" json:"enable_date_inserting"`
	// OmitEndDateOnSameDate drops the end date when it equals the start date.
	OmitEndDateOnSameDate bool `yaml:"omit_end_date_on_same_date" json:"omit_end_date_on_same_date"`
	// Separator sits between the start and end timestamps of a done task.
	Separator string `yaml:"separator" json:"separator"`
	// EnableDoingStatus turns on the todo → doing → done lifecycle. When
	// false, toggling a todo task completes it directly.
	EnableDoingStatus bool `yaml:"enable_doing_status" json:"enable_doing_status"`
	// DisableDoingStatusForSubTasks skips the doing state for indented tasks.
	DisableDoingStatusForSubTasks bool `yaml:"disable_doing_status_for_sub_tasks" json:"disable_doing_status_for_sub_tasks"`
	// AutoIncrementOnSameTime moves the end one minute past the start when a
	// task is finished in the same minute it was started.
	AutoIncrementOnSameTime bool `yaml:"auto_increment_on_same_time" json:"auto_increment_on_same_time"`

	Symbols status.Symbols `yaml:"symbols" json:"symbols"`

	// Files are the glob patterns scanned by `ctt ls` when none are given.
	Files []string `yaml:"files" json:"files"`

	// Theme names the colour palette for terminal output.
	Theme string `yaml:"theme" json:"theme"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		TimeFormat:        "HH:mm",
		DateFormat:        "YYYY-MM-DD",
		Separator:         "-",
		EnableDoingStatus: true,
		Symbols:           status.DefaultSymbols(),
		Files:             []string{"**/*.md"},
		Theme:             styles.DefaultTheme,
	}
}

// Load reads configuration from the given path and validates it.
// If configPath is empty or doesn't exist, returns defaults.
func Load(configPath string) (*Config, error) {
	cfg, err := Read(configPath)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Read reads configuration from the given path without validating it.
// Defaults are applied and the separator is sanitized.
func Read(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}

	cfg.applyDefaults()
	cfg.Separator = SanitizeSeparator(cfg.Separator)

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.TimeFormat == "" {
		c.TimeFormat = defaults.TimeFormat
	}
	if c.DateFormat == "" {
		c.DateFormat = defaults.DateFormat
	}
	if c.Separator == "" {
		c.Separator = defaults.Separator
	}
	if len(c.Files) == 0 {
		c.Files = defaults.Files
	}
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
}

// SanitizeSeparator removes regular expression metacharacters from sep.
// Applying it twice gives the same result as applying it once.
func SanitizeSeparator(sep string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(disallowedSeparatorChars, r) {
			return -1
		}
		return r
	}, sep)
}

// DateTimeFormat returns the pattern used for a full timestamp: the time
// format alone, or the date and time formats joined by a space.
func (c *Config) DateTimeFormat() string {
	if c.EnableDateInserting {
		return c.DateFormat + " " + c.TimeFormat
	}
	return c.TimeFormat
}
