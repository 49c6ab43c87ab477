// Package database opens the PostgreSQL connection pool.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
)

// DriverName is the database/sql driver registered by pgx.
const DriverName = "pgx"

// Options tunes the pool and the start-up ping loop.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration

	PingTimeout    time.Duration
	MaxWait        time.Duration
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultOptions returns the settings used by the server.
func DefaultOptions() Options {
	return Options{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		PingTimeout:     5 * time.Second,
		MaxWait:         30 * time.Second,
		InitialBackoff:  500 * time.Millisecond,
		MaxBackoff:      5 * time.Second,
	}
}

// Open establishes a database connection and retries until the instance responds.
func Open(ctx context.Context, dsn string, opts Options) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	if err := waitForDB(ctx, db, opts); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// waitForDB pings until success, the caller cancels, or MaxWait elapses.
func waitForDB(ctx context.Context, db *sql.DB, opts Options) error {
	deadline := time.Now().Add(opts.MaxWait)
	backoff := opts.InitialBackoff
	var lastErr error

	for attempt := 1; ; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, opts.PingTimeout)
		lastErr = db.PingContext(pingCtx)
		cancel()

		if lastErr == nil {
			return nil
		}
		if ctx.Err() != nil || time.Now().After(deadline) {
			break
		}

		log.Warn().Err(lastErr).Int("attempt", attempt).Dur("backoff", backoff).Msg("database not ready")

		select {
		case <-ctx.Done():
			return fmt.Errorf("ping database: %w", ctx.Err())
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > opts.MaxBackoff {
			backoff = opts.MaxBackoff
		}
	}

	return fmt.Errorf("ping database: %w", lastErr)
}
