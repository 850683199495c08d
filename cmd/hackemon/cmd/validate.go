package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/nathanieltooley/hackemon/engine"
	"github.com/nathanieltooley/hackemon/hackterm/global"
	"github.com/spf13/cobra"
)

var validateDir string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a set of content tables",
	Long: `Load species.yaml, moves.yaml, abilities.yaml, natures.yaml, trainers.yaml and devices.yaml
from a directory and check every row and every reference between tables. Without --dir the
built-in tables are checked.

Examples:
  hackemon export --dir tables     # start from the built-in tables
  hackemon validate --dir tables`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tables := engine.DefaultTables()
		source := "built-in tables"
		if validateDir != "" {
			tables = global.TablesAt(validateDir)
			source = validateDir
		}

		return validateTables(cmd, tables, source)
	},
}

func validateTables(cmd *cobra.Command, tables fs.FS, source string) error {
	out := cmd.OutOrStdout()

	content, errs := engine.LoadContent(tables, ".")
	if len(errs) > 0 {
		fmt.Fprintf(out, "❌ %s has %d problem(s):\n", source, len(errs))
		for _, err := range errs {
			fmt.Fprintf(out, "   %s\n", err)
		}
		return errors.Join(errs...)
	}

	fmt.Fprintf(out, "✅ %s are valid\n", source)
	fmt.Fprintf(out, "   Species: %d\n", len(content.Species))
	fmt.Fprintf(out, "   Moves: %d\n", len(content.Moves))
	fmt.Fprintf(out, "   Abilities: %d\n", len(content.Abilities))
	fmt.Fprintf(out, "   Natures: %d\n", len(content.Natures))
	fmt.Fprintf(out, "   Trainers: %d\n", len(content.Trainers))
	fmt.Fprintf(out, "   Devices: %d\n", len(content.Devices))

	return nil
}

func init() {
	validateCmd.Flags().StringVar(&validateDir, "dir", "", "directory holding the tables")

	rootCmd.AddCommand(validateCmd)
}
