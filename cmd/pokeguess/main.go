// cmd/pokeguess/main.go
//
// pokeguess command-line tool.
//   - simulate: play every catalog entry as the secret and report how the
//     guesser did.
//   - play: think of a Pokémon and answer the guesser in the terminal.

package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/pokeguess/internal/catalog"
	"github.com/robalobadob/pokeguess/internal/config"
	"github.com/robalobadob/pokeguess/internal/game"
)

var (
	catalogFile string
	engineFile  string
	logLevel    string
)

var rootCmd = &cobra.Command{
	Use:           "pokeguess",
	Short:         "Twenty questions, but the computer guesses your Pokémon",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		lvl, err := zerolog.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		zerolog.SetGlobalLevel(lvl)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&catalogFile, "catalog", os.Getenv("CATALOG_FILE"), "pokedex JSON file (default: embedded catalog)")
	rootCmd.PersistentFlags().StringVar(&engineFile, "engine", os.Getenv("ENGINE_FILE"), "YAML engine tuning file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level")
	rootCmd.AddCommand(simulateCmd, playCmd)
}

// loadEngine builds the catalog and engine shared by every subcommand.
func loadEngine(opts ...game.Option) (*catalog.Catalog, *game.Engine, error) {
	cat, err := catalog.Load(catalogFile)
	if err != nil {
		return nil, nil, err
	}
	cfg := game.DefaultConfig()
	if engineFile != "" {
		if cfg, err = config.LoadEngineFile(engineFile, cfg); err != nil {
			return nil, nil, err
		}
	}
	return cat, game.NewEngine(cat.All(), append([]game.Option{game.WithConfig(cfg)}, opts...)...), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("pokeguess")
		os.Exit(1)
	}
}
