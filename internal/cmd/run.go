package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oarkflow/bumper/internal/pipeline"
)

var (
	workDir      string
	dryRun       bool
	skipGitCheck bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Prepare the next release",
	Long: `Prepare the next release in the working tree.

This:
  - Fetches the recent commits from GitHub
  - Finds the previous version marker and derives the next version
  - Prepends the new section to changelog.md
  - Bumps appVersion and appCodeNumber in BuildConfig.kt
  - Writes the fastlane changelog snapshot for the new code number
  - Replaces the generated version block in UncivGame.kt

The run stops with an error before writing anything when none of the
fetched commits is a version marker (a subject like 4.12.18). Raise
github.per_page if the previous release is further back.

Running it twice is safe: a section already at the top of the changelog
and a build config already at the next version are left alone.

Use --dry-run to compute every edit without writing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		opts := pipeline.Options{
			ConfigFile:   cfgFile,
			Dir:          workDir,
			DryRun:       dryRun,
			SkipGitCheck: skipGitCheck,
		}

		p, err := pipeline.New(ctx, opts)
		if err != nil {
			return fmt.Errorf("failed to create pipeline: %w", err)
		}

		result, err := p.Run(ctx)
		if err != nil {
			return fmt.Errorf("release preparation failed: %w", err)
		}

		out := cmd.OutOrStdout()
		if dryRun {
			fmt.Fprintf(out, "Dry run: next version %s (code %d)\n", result.Release.Version, result.Code)
			return nil
		}
		if !result.BuildConfigBumped {
			fmt.Fprintf(out, "Version %s already prepared\n", result.Release.Version)
			return nil
		}
		fmt.Fprintf(out, "✓ Prepared %s (code %d)\n", result.Release.Version, result.Code)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&workDir, "dir", "d", ".", "repository root the file paths are relative to")
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute every edit without writing")
	runCmd.Flags().BoolVar(&skipGitCheck, "skip-git-check", false, "skip the uncommitted changes warning")
}
