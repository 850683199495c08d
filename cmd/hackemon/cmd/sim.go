package cmd

import (
	"fmt"
	"math/rand/v2"
	"text/tabwriter"

	"github.com/nathanieltooley/hackemon/feed"
	"github.com/nathanieltooley/hackemon/hackterm/global"
	"github.com/nathanieltooley/hackemon/sim"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var simFlags struct {
	battles int
	seed    uint64
	wave    int
	workers int
	capture bool
	verbose bool
}

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run automated battles and report the win rate",
	Long: `Run a number of wild battles with the autopilot playing the player's side, and print
how they went. Every battle gets a fresh starter leveled for the chosen wave.

The same seed always gives the same results, no matter how many workers are used.

Examples:
  hackemon sim --n 500 --seed 42
  hackemon sim --n 100 --wave 30 --capture
  hackemon sim --n 5 --verbose        # log every battle event`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := global.GlobalInit(true); err != nil {
			return err
		}

		level := zerolog.WarnLevel
		if simFlags.verbose {
			level = zerolog.DebugLevel
		}
		global.UpdateLogLevel(level)

		seed := simFlags.seed
		if seed == 0 {
			seed = global.Opt.Seed
		}
		if seed == 0 {
			seed = rand.Uint64()
		}

		cfg := sim.Config{
			Battles: simFlags.battles,
			Seed:    seed,
			Wave:    simFlags.wave,
			Workers: simFlags.workers,
			Capture: simFlags.capture,
			Content: global.Content,
		}

		if simFlags.verbose {
			bus := feed.NewBus()
			defer bus.Close()
			if err := bus.Subscribe(cmd.Context(), feed.LogHandler(log.Logger)); err != nil {
				return err
			}
			cfg.Bus = bus
		}

		result, err := sim.Simulate(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		return printSimResult(cmd, seed, result)
	},
}

func printSimResult(cmd *cobra.Command, seed uint64, result sim.Result) error {
	out := cmd.OutOrStdout()

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Seed\t%d\n", seed)
	fmt.Fprintf(w, "Battles\t%d\n", len(result.Battles))
	fmt.Fprintf(w, "Won\t%d\n", result.Wins())
	fmt.Fprintf(w, "Captured\t%d\n", result.Captures())
	fmt.Fprintf(w, "Lost\t%d\n", result.Losses())
	if result.Unfinished > 0 {
		fmt.Fprintf(w, "Unfinished\t%d\n", result.Unfinished)
	}
	if len(result.Battles) > 0 {
		turns := lo.SumBy(result.Battles, func(b sim.Battle) int { return b.Turns })
		fmt.Fprintf(w, "Average turns\t%.1f\n", float64(turns)/float64(len(result.Battles)))
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}

	_, err := fmt.Fprintf(out, "Win rate: %.1f%%\n", result.WinRate()*100)
	return err
}

func init() {
	simCmd.Flags().IntVar(&simFlags.battles, "n", 100, "number of battles")
	simCmd.Flags().Uint64Var(&simFlags.seed, "seed", 0, "seed for every battle; 0 picks one")
	simCmd.Flags().IntVar(&simFlags.wave, "wave", 1, "wave the battles are generated for")
	simCmd.Flags().IntVar(&simFlags.workers, "workers", 0, "battles to run at once; 0 uses every CPU")
	simCmd.Flags().BoolVar(&simFlags.capture, "capture", false, "throw capture devices at weak opponents")
	simCmd.Flags().BoolVarP(&simFlags.verbose, "verbose", "v", false, "log every battle event")

	rootCmd.AddCommand(simCmd)
}
