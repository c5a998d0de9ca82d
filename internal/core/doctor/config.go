package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/ctt/internal/core/config"
)

// ConfigCheck validates the loaded configuration and reports its warnings.
type ConfigCheck struct {
	cfg  *config.Config
	path string
}

// NewConfigCheck creates a new config check for cfg loaded from path.
func NewConfigCheck(cfg *config.Config, path string) *ConfigCheck {
	return &ConfigCheck{cfg: cfg, path: path}
}

func (c *ConfigCheck) Name() string {
	return "Configuration"
}

func (c *ConfigCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	if _, err := os.Stat(c.path); err == nil {
		result.Items = append(result.Items, CheckItem{Label: "Config file", Status: StatusPass, Detail: c.path})
	} else {
		result.Items = append(result.Items, CheckItem{Label: "Config file", Status: StatusPass, Detail: "not found, using defaults"})
	}

	if err := c.cfg.ValidateDeep(c.path); err != nil {
		var fe criterio.FieldErrors
		if errors.As(err, &fe) {
			for _, e := range fe {
				result.Items = append(result.Items, CheckItem{Label: e.Field, Status: StatusFail, Detail: e.Err.Error()})
			}
		} else {
			result.Items = append(result.Items, CheckItem{Label: "Validation", Status: StatusFail, Detail: err.Error()})
		}
	} else {
		result.Items = append(result.Items, CheckItem{
			Label:  "Formats",
			Status: StatusPass,
			Detail: fmt.Sprintf("%q, separator %q", c.cfg.DateTimeFormat(), c.cfg.Separator),
		})
	}

	for _, w := range c.cfg.Warnings() {
		label := w.Category
		if w.Item != "" {
			label = w.Item
		}
		result.Items = append(result.Items, CheckItem{Label: label, Status: StatusWarn, Detail: w.Message})
	}

	return result
}
