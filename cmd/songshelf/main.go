package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"songshelf/internal/config"
	"songshelf/internal/database"
	"songshelf/internal/logging"
	"songshelf/internal/migrations"
	"songshelf/internal/store"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	logging.SetGlobalLogger(logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("songshelf stopped")
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	db, err := database.Open(ctx, cfg.Database.URL, database.DefaultOptions())
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := migrations.Up(ctx, db); err != nil {
			return err
		}
		log.Info().Msg("database schema up to date")
	}

	dataStore := store.New(db)
	songSvc := newSongService(dataStore)

	if cfg.SeedDemo {
		if err := bootstrapDemoSongs(ctx, dataStore, songSvc); err != nil {
			return err
		}
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           newHTTPHandler(cfg, songSvc),
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Msg("API listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
