package commands

import (
	"os"
	"path/filepath"

	"github.com/colonyops/ctt/internal/core/config"
	"github.com/colonyops/ctt/internal/tracker"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config

	// Tracker applies task transitions using Config
	Tracker *tracker.Operations
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "ctt", "config.yaml")
}
