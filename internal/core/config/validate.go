package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"

	"github.com/colonyops/ctt/internal/core/styles"
	"github.com/colonyops/ctt/internal/core/timefmt"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// Validate checks that the configuration is usable by the task parser.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("time_format", c.TimeFormat, validPattern),
		criterio.Run("date_format", c.DateFormat, validPattern),
		criterio.Run("separator", c.Separator, validSeparator),
		criterio.Run("theme", c.Theme, validTheme),
		c.validateSymbols(),
	)
}

// ValidateDeep runs Validate and additionally checks the config file and
// the default file globs.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		c.validateFiles(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if l, err := timefmt.Compile(c.DateFormat); err == nil && !l.HasDate() {
		warnings = append(warnings, ValidationWarning{
			Category: "Formats",
			Item:     "date_format",
			Message:  "date format contains no date tokens",
		})
	}

	if c.OmitEndDateOnSameDate && !c.EnableDateInserting {
		warnings = append(warnings, ValidationWarning{
			Category: "Formats",
			Item:     "omit_end_date_on_same_date",
			Message:  "has no effect unless enable_date_inserting is set",
		})
	}

	if c.DisableDoingStatusForSubTasks && !c.EnableDoingStatus {
		warnings = append(warnings, ValidationWarning{
			Category: "Lifecycle",
			Item:     "disable_doing_status_for_sub_tasks",
			Message:  "has no effect unless enable_doing_status is set",
		})
	}

	if strings.TrimSpace(c.Separator) == "" && c.Separator != "" {
		warnings = append(warnings, ValidationWarning{
			Category: "Formats",
			Item:     "separator",
			Message:  "whitespace-only separator makes done tasks hard to read",
		})
	}

	return warnings
}

func validPattern(pattern string) error {
	_, err := timefmt.Compile(pattern)
	return err
}

func validTheme(name string) error {
	if _, ok := styles.GetPalette(name); !ok {
		return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(styles.ThemeNames(), ", "))
	}
	return nil
}

func validSeparator(sep string) error {
	if sep == "" {
		return fmt.Errorf("%w: separator cannot be empty", ErrInvalidSeparator)
	}
	if strings.ContainsAny(sep, disallowedSeparatorChars) {
		return fmt.Errorf("%w: %q contains one of %s", ErrInvalidSeparator, sep, disallowedSeparatorChars)
	}
	return nil
}

func (c *Config) validateSymbols() error {
	if err := c.Symbols.Validate(); err != nil {
		return criterio.NewFieldErrors("symbols", err)
	}
	return nil
}

func (c *Config) validateFiles() error {
	var errs criterio.FieldErrorsBuilder
	for i, pattern := range c.Files {
		if !doublestar.ValidatePattern(pattern) {
			errs = errs.Append(fmt.Sprintf("files[%d]", i), fmt.Errorf("invalid glob %q", pattern))
		}
	}
	return errs.ToError()
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}
