package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hackemon",
	Short: "A turn based creature battler for the terminal",
	Long: `Hackemon is a turn based creature battler. Pick a starter, battle through 200 waves of
wild opponents and trainers, and catch new members for your roster along the way.

Available commands:
  play       Play in the terminal
  sim        Run automated battles and report the win rate
  validate   Check a set of content tables
  export     Write the built-in content tables to a directory

Use "hackemon [command] --help" for more information about a specific command.`,
	SilenceUsage: true,
}

// Execute runs the root command. Running with no command starts the game.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.RunE = playCmd.RunE
}
