package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/pokeguess/internal/game"
	"github.com/robalobadob/pokeguess/internal/simulate"
)

var (
	simSeed    uint64
	simVerbose bool
	simLimits  = simulate.DefaultLimits()
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Play every catalog entry as the secret and report the success rate",
	Long: `Runs one game per Pokémon in the catalog, answering every question
truthfully, and prints the success rate plus any failed or unusually long games.
Exits non-zero when any game fails.`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().Uint64Var(&simSeed, "seed", 0, "seed for the top-K pick (0: random)")
	simulateCmd.Flags().BoolVarP(&simVerbose, "verbose", "v", false, "print every game's questions")
	simulateCmd.Flags().IntVar(&simLimits.MaxSteps, "max-steps", simLimits.MaxSteps, "questions before a game is abandoned")
	simulateCmd.Flags().IntVar(&simLimits.MaxNoProgress, "max-no-progress", simLimits.MaxNoProgress, "useless answers in a row before a game is abandoned")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	var opts []game.Option
	if simSeed != 0 {
		opts = append(opts, game.WithRand(rand.New(rand.NewPCG(simSeed, simSeed))))
	}
	cat, eng, err := loadEngine(opts...)
	if err != nil {
		return err
	}
	log.Debug().Int("pokemon", cat.Len()).Uint64("seed", simSeed).Msg("simulating")

	rep := simulate.Run(eng, cat.All(), simLimits)
	out := cmd.OutOrStdout()

	if simVerbose {
		for _, o := range rep.Outcomes {
			fmt.Fprintf(out, "#%03d %-12s %-11s %2d questions %v\n", o.Secret.Num(), o.Secret.Name(), o.Status, o.Steps, o.Asked)
		}
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, "====== SIMULATION ======")
	fmt.Fprintf(out, "Total Pokémon:      %d\n", len(rep.Outcomes))
	fmt.Fprintf(out, "Successful guesses: %d (%.1f%%)\n", rep.Succeeded, 100*rep.SuccessRate())
	fmt.Fprintf(out, "Failed guesses:     %d\n", len(rep.Failed))
	fmt.Fprintf(out, "Over numeric quota: %d\n", rep.OverQuota)

	if len(rep.Long) > 0 {
		fmt.Fprintf(out, "\nLong games (>%d questions):\n", simLimits.LongGame)
		for _, o := range rep.Long {
			fmt.Fprintf(out, "- %s (%d questions)\n", o.Secret.Name(), o.Steps)
		}
	}
	if len(rep.Failed) > 0 {
		fmt.Fprintln(out, "\nFailed:")
		for _, o := range rep.Failed {
			fmt.Fprintf(out, "- %s: %s after %d questions\n", o.Secret.Name(), o.Status, o.Steps)
		}
		return fmt.Errorf("%d of %d games failed", len(rep.Failed), len(rep.Outcomes))
	}
	return nil
}
