package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// MigrationResult describes the outcome of a legacy-config migration.
type MigrationResult struct {
	SourcePath string
	TargetPath string
	Migrated   bool
	DryRun     bool
	Message    string
}

// MigrateProjectConfig converts a legacy .relnote/config.json to
// .relnote/config.yml. The JSON file is left in place, renamed to
// config.json.bak after a successful migration so the original values
// can still be inspected. An existing YAML config is never overwritten.
func MigrateProjectConfig(dryRun bool) (*MigrationResult, error) {
	return migrateJSONToYAML(LegacyProjectConfigPath(), ProjectConfigPath(), dryRun)
}

func migrateJSONToYAML(jsonPath, yamlPath string, dryRun bool) (*MigrationResult, error) {
	result := &MigrationResult{
		SourcePath: jsonPath,
		TargetPath: yamlPath,
		DryRun:     dryRun,
	}

	jsonData, err := os.ReadFile(jsonPath)
	if err != nil {
		if os.IsNotExist(err) {
			result.Message = fmt.Sprintf("no legacy config found at %s", jsonPath)
			return result, nil
		}
		return nil, fmt.Errorf("reading legacy config: %w", err)
	}

	var values map[string]interface{}
	if err := json.Unmarshal(jsonData, &values); err != nil {
		return nil, fmt.Errorf("parsing legacy config %s: %w", jsonPath, err)
	}

	if _, err := os.Stat(yamlPath); err == nil {
		result.Message = fmt.Sprintf("config already exists at %s (skipped)", yamlPath)
		return result, nil
	}

	if dryRun {
		result.Migrated = true
		result.Message = fmt.Sprintf("would migrate %s to %s", jsonPath, yamlPath)
		return result, nil
	}

	yamlData, err := yaml.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("converting config to YAML: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(yamlPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	header := "# relnote configuration\n# Migrated from the legacy JSON format.\n\n"
	if err := os.WriteFile(yamlPath, append([]byte(header), yamlData...), 0o644); err != nil {
		return nil, fmt.Errorf("writing YAML config: %w", err)
	}

	// Rename rather than delete so the original values remain inspectable.
	if err := os.Rename(jsonPath, jsonPath+".bak"); err != nil {
		return nil, fmt.Errorf("backing up legacy config: %w", err)
	}

	result.Migrated = true
	result.Message = fmt.Sprintf("migrated %s to %s", jsonPath, yamlPath)
	return result, nil
}
