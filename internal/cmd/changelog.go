package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oarkflow/bumper/internal/changelog"
	"github.com/oarkflow/bumper/internal/pipeline"
)

var (
	changelogOutput string
	changelogFormat string
)

var changelogCmd = &cobra.Command{
	Use:   "changelog",
	Short: "Preview the next changelog section",
	Long: `Fetch the recent commits and print the changelog section the next
release would get, without touching the working tree.

Formats:
  markdown  the exact block prepended to changelog.md
  json      the derived release with commits grouped by author
  yaml      same as json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		p, err := pipeline.New(ctx, pipeline.Options{ConfigFile: cfgFile, Dir: workDir})
		if err != nil {
			return fmt.Errorf("failed to create pipeline: %w", err)
		}

		rel, err := p.Derive(ctx)
		if err != nil {
			return fmt.Errorf("failed to derive changelog: %w", err)
		}

		text, err := changelog.Format(rel, changelogFormat)
		if err != nil {
			return err
		}

		if changelogOutput != "" {
			if err := os.WriteFile(changelogOutput, []byte(text), 0644); err != nil {
				return fmt.Errorf("failed to write changelog: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Changelog written to %s\n", changelogOutput)
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

func init() {
	changelogCmd.Flags().StringVarP(&changelogOutput, "output", "o", "", "write changelog to file")
	changelogCmd.Flags().StringVar(&changelogFormat, "format", "markdown", "output format (markdown, json, yaml)")
	changelogCmd.Flags().StringVarP(&workDir, "dir", "d", ".", "repository root the config file is searched in")
}
