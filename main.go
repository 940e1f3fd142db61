// main.go
//
// Guesser server process: configuration, catalog, engine, storage, HTTP.

package main

import (
	"database/sql"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/pokeguess/internal/catalog"
	"github.com/robalobadob/pokeguess/internal/config"
	"github.com/robalobadob/pokeguess/internal/db"
	"github.com/robalobadob/pokeguess/internal/game"
	"github.com/robalobadob/pokeguess/internal/httpserver"
	"github.com/robalobadob/pokeguess/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load catalog")
	}
	eng := game.NewEngine(cat.All(), game.WithConfig(cfg.Engine))

	var (
		st    store.Store
		sqlDB *sql.DB
	)
	if cfg.UseMemoryStore() {
		st = store.NewMemoryStore()
		log.Warn().Msg("DATABASE_PATH=memory: results are not persisted, accounts and daily mode disabled")
	} else {
		sqlDB, err = db.OpenAndMigrate(cfg.DatabasePath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("open database")
		}
		defer sqlDB.Close()
		st = store.NewSQLiteStore(sqlDB)
	}

	srv := httpserver.New(cfg, cat, eng, st, sqlDB)
	log.Info().Str("port", cfg.Port).Int("pokemon", cat.Len()).Msg("starting pokeguess server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
