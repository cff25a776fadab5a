package config

import (
	"os"
	"path/filepath"
)

// Dir returns $XDG_CONFIG_HOME/volumelockr, ~/.config/volumelockr, or a
// directory under the working directory as a last resort.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "volumelockr")
	}
	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".config", "volumelockr")
	}
	cwd, _ := os.Getwd()
	return filepath.Join(cwd, ".volumelockr")
}

// DefaultPreferencesPath returns the preference file inside Dir.
func DefaultPreferencesPath() string {
	return filepath.Join(Dir(), "preferences.yaml")
}
