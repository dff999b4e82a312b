package config

import (
	"os"
	"path/filepath"

	"github.com/julianstephens/lectio/internal/constants"
)

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultConfigDir honours LECTIO_CONFIG_DIR before the XDG location.
func DefaultConfigDir() string {
	if v := os.Getenv(constants.EnvConfigDir); v != "" {
		return v
	}
	return filepath.Join(XDGConfigHome(), constants.AppName)
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), constants.DefaultConfigFileName)
}

// DefaultStorePath returns the default SQLite database path.
func DefaultStorePath() string {
	return filepath.Join(XDGDataHome(), constants.AppName, constants.DefaultStoreFileName)
}
