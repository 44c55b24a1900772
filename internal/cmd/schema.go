package cmd

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/oarkflow/bumper/internal/schema"
)

var schemaCmd = &cobra.Command{
	Use:   "schema [output]",
	Short: "Print the configuration JSON Schema",
	Long: `Print the JSON Schema for .bumper.yaml.

If an output file is given, the schema is written there instead.
Point your editor's YAML language server at it for completion.

Examples:
  bumper schema
  bumper schema bumper.schema.json
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), string(schema.Document()))
			return nil
		}

		if err := schema.WriteSchema(args[0]); err != nil {
			return fmt.Errorf("failed to write schema: %w", err)
		}
		log.Info("Schema written", "path", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
