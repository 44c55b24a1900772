package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oarkflow/bumper"
	"github.com/oarkflow/bumper/internal/config"
	"github.com/oarkflow/bumper/internal/schema"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check configuration file",
	Long: `Check if the configuration file is valid.

This validates:
  - YAML syntax and the JSON Schema
  - Required fields
  - The version block template
  - Include statements`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := cfgFile
		if configPath == "" {
			configPath = config.DefaultFile
		}

		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return fmt.Errorf("config file not found: %s", configPath)
		}

		result, err := schema.ValidateFile(configPath)
		if err != nil {
			return err
		}
		if !result.Valid {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nValidation failed with %d error(s):\n\n", len(result.Errors))
			for i, e := range result.Errors {
				fmt.Fprintf(out, "  %d. %s\n", i+1, e)
			}
			return fmt.Errorf("configuration does not match schema")
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Configuration file %s is valid\n", configPath)
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new configuration file",
	Long: `Initialize a new .bumper.yaml configuration file.

The file spells out the built-in defaults for the Unciv repository.
Edit it to point Bumper at another repository or layout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := config.DefaultFile
		if cfgFile != "" {
			configPath = cfgFile
		}

		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s", configPath)
		}

		if err := os.WriteFile(configPath, []byte(config.DefaultTemplate()), 0644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Created %s\n", configPath)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit, and build date of Bumper.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Bumper %s\n", bumper.Version)
		if bumper.GitCommit != "" {
			fmt.Fprintf(out, "  Commit: %s\n", bumper.GitCommit)
		}
		if bumper.BuildDate != "" {
			fmt.Fprintf(out, "  Built:  %s\n", bumper.BuildDate)
		}
	},
}
