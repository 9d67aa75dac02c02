// Package config provides hierarchical configuration management for relnote
// using koanf. Values are loaded with priority: environment variables >
// project config (.relnote/config.yml) > user config (~/.config/relnote/config.yml)
// > defaults. Legacy JSON project configs are still read for compatibility.
package config

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix is the prefix for environment variable overrides,
// e.g. RELNOTE_MAX_SKIPS=25.
const envPrefix = "RELNOTE_"

// Settings holds the full configuration surface of the tool.
type Settings struct {
	// Repo is the "owner/name" slug of the GitHub project. Empty means
	// derive it from the origin remote of the local repository.
	Repo string `koanf:"repo"`

	// Branch is the base branch pull requests were merged into and the
	// branch whose latest tag anchors the default range. Empty means the
	// current checkout.
	Branch string `koanf:"branch"`

	// Format selects the output mode: "list" or "structured".
	Format string `koanf:"format" validate:"oneof=list structured"`

	// MaxSkips is the bounded-effort termination threshold: the run stops
	// once this many fetched pull requests fell outside the range.
	MaxSkips int `koanf:"max_skips" validate:"min=1"`

	// PageSize is the number of pull requests requested per page (max 100,
	// the provider's cap).
	PageSize int `koanf:"page_size" validate:"min=1,max=100"`

	// FetchTimeout is the per-page fetch timeout in seconds. 0 disables it.
	FetchTimeout int `koanf:"fetch_timeout" validate:"min=0"`

	// Prefetch enables one page of speculative lookahead while the current
	// page is being scanned. The termination decision stays in page order.
	Prefetch bool `koanf:"prefetch"`

	// SkipConfirmations suppresses interactive prompts (tag creation).
	// Can also be set via the RELNOTE_YES environment variable.
	SkipConfirmations bool `koanf:"skip_confirmations"`
}

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path (default: .relnote/config.yml).
	ProjectConfigPath string
	// WarningWriter receives legacy-config warnings (default: os.Stderr).
	WarningWriter io.Writer
	// SkipWarnings suppresses legacy-config warnings.
	SkipWarnings bool
}

// Load loads configuration from user, project, and environment sources.
// Priority: environment variables > project config > user config > defaults.
func Load() (*Settings, error) {
	return LoadWithOptions(LoadOptions{})
}

// LoadWithOptions loads configuration with custom options.
func LoadWithOptions(opts LoadOptions) (*Settings, error) {
	k := koanf.New(".")
	warningWriter := opts.WarningWriter
	if warningWriter == nil {
		warningWriter = os.Stderr
	}

	for key, value := range Defaults() {
		k.Set(key, value)
	}

	if err := loadUserConfig(k); err != nil {
		return nil, err
	}

	if err := loadProjectConfig(k, opts.ProjectConfigPath, warningWriter, opts.SkipWarnings); err != nil {
		return nil, err
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("loading environment config: %w", err)
	}

	return finalize(k)
}

// loadUserConfig loads the user-level YAML config, if present.
func loadUserConfig(k *koanf.Koanf) error {
	path, err := UserConfigPath()
	if err != nil {
		return nil // no home directory; defaults apply
	}
	if !fileExists(path) {
		return nil
	}
	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating user config: %w", err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("loading user config %s: %w", path, err)
	}
	return nil
}

// loadProjectConfig loads the project-level config. YAML is preferred; a
// legacy JSON config is read with a migration warning when no YAML exists.
func loadProjectConfig(k *koanf.Koanf, customPath string, warningWriter io.Writer, skipWarnings bool) error {
	yamlPath := ProjectConfigPath()
	if customPath != "" {
		yamlPath = customPath
	}
	legacyPath := LegacyProjectConfigPath()

	switch {
	case fileExists(yamlPath):
		if err := ValidateYAMLSyntax(yamlPath); err != nil {
			return fmt.Errorf("validating project config: %w", err)
		}
		if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading project config %s: %w", yamlPath, err)
		}
	case fileExists(legacyPath):
		if err := k.Load(file.Provider(legacyPath), json.Parser()); err != nil {
			return fmt.Errorf("loading legacy project config %s: %w", legacyPath, err)
		}
		if !skipWarnings {
			fmt.Fprintf(warningWriter, "Warning: using deprecated JSON config at %s\n", legacyPath)
			fmt.Fprintf(warningWriter, "  Rename it to %s in YAML format.\n\n", yamlPath)
		}
	}
	return nil
}

// finalize unmarshals and validates the merged configuration.
func finalize(k *koanf.Koanf) (*Settings, error) {
	var cfg Settings
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := ValidateSettings(&cfg); err != nil {
		return nil, err
	}

	if os.Getenv("RELNOTE_YES") != "" {
		cfg.SkipConfirmations = true
	}

	return &cfg, nil
}

// fileExists returns true if the file exists and is readable.
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys.
// Example: RELNOTE_MAX_SKIPS -> max_skips.
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, envPrefix))
}
