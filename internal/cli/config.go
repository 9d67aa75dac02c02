package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/relnote/internal/config"
	"github.com/ariel-frischer/relnote/internal/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage relnote configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented project config template",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigInit(cmd)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file locations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigPath(cmd)
	},
}

var configMigrateDryRun bool

var configMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Convert a legacy .relnote/config.json to YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigMigrate(cmd)
	},
}

func init() {
	configMigrateCmd.Flags().BoolVar(&configMigrateDryRun, "dry-run", false, "report what would be migrated without writing")

	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configMigrateCmd)
}

func runConfigInit(cmd *cobra.Command) error {
	path := config.ProjectConfigPath()
	if _, err := os.Stat(path); err == nil {
		return errors.NewConfigError(
			fmt.Sprintf("config already exists at %s", path),
			"Edit the existing file, or remove it and re-run 'relnote config init'",
		)
	}

	if err := os.MkdirAll(config.ProjectConfigDir(), 0o755); err != nil {
		return errors.Wrap(err, errors.Config, "creating config directory")
	}
	if err := os.WriteFile(path, []byte(config.DefaultConfigTemplate()), 0o644); err != nil {
		return errors.Wrap(err, errors.Config, "writing config template")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func runConfigMigrate(cmd *cobra.Command) error {
	result, err := config.MigrateProjectConfig(configMigrateDryRun)
	if err != nil {
		return errors.Wrap(err, errors.Config, "migrating legacy config")
	}
	fmt.Fprintln(cmd.OutOrStdout(), result.Message)
	return nil
}

func runConfigPath(cmd *cobra.Command) error {
	fmt.Fprintf(cmd.OutOrStdout(), "project: %s\n", config.ProjectConfigPath())
	if userPath, err := config.UserConfigPath(); err == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "user:    %s\n", userPath)
	}
	return nil
}
