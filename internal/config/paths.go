package config

import (
	"os"
	"path/filepath"
)

// UserConfigPath returns the path to the user-level config file,
// following the XDG Base Directory Specification:
// - Linux: ~/.config/relnote/config.yml
// - macOS: ~/Library/Application Support/relnote/config.yml
// - Windows: %APPDATA%\relnote\config.yml
func UserConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "relnote", "config.yml"), nil
}

// ProjectConfigPath returns the path to the project-level config file,
// always .relnote/config.yml relative to the current directory.
func ProjectConfigPath() string {
	return filepath.Join(".relnote", "config.yml")
}

// ProjectConfigDir returns the path to the project-level config directory.
func ProjectConfigDir() string {
	return ".relnote"
}

// LegacyProjectConfigPath returns the path of the deprecated JSON project
// config, still read when no YAML config exists.
func LegacyProjectConfigPath() string {
	return filepath.Join(".relnote", "config.json")
}
