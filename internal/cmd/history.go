package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oarkflow/bumper/internal/changelog"
	"github.com/oarkflow/bumper/internal/pipeline"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List released versions",
	Long: `List the versions recorded in the changelog, newest first.

Only level-two headings that are a plain version number count as
releases.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := pipeline.LoadConfig(cfgFile, workDir)
		if err != nil {
			return err
		}

		path := cfg.Files.Resolve(workDir).Changelog
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read changelog: %w", err)
		}

		versions := changelog.Versions(data)
		if len(versions) == 0 {
			return fmt.Errorf("no released versions in %s", path)
		}
		if historyLimit > 0 && len(versions) > historyLimit {
			versions = versions[:historyLimit]
		}

		for _, v := range versions {
			fmt.Fprintln(cmd.OutOrStdout(), v)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "show at most this many versions (0 for all)")
	historyCmd.Flags().StringVarP(&workDir, "dir", "d", ".", "repository root the file paths are relative to")
}
