package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"songshelf/internal/config"
	"songshelf/internal/logging"
	"songshelf/internal/migrations"
)

func main() {
	if len(os.Args) != 2 {
		usage()
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logging.SetGlobalLogger(logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}))

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx := context.Background()

	switch os.Args[1] {
	case "up":
		if err := migrations.Up(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
		log.Info().Msg("migrations applied successfully")
	case "down":
		if err := migrations.Down(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("failed to roll back migrations")
		}
		log.Info().Msg("migrations rolled back successfully")
	case "version":
		version, dirty, err := migrations.Version(ctx, db)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to read schema version")
		}
		fmt.Printf("version %d (dirty: %t)\n", version, dirty)
	default:
		usage()
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: migrate [up|down|version]")
	os.Exit(2)
}
