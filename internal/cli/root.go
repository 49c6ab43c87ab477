// Package cli implements the songctl operator commands.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"songshelf/internal/app/songs"
	"songshelf/internal/config"
	"songshelf/internal/database"
	"songshelf/internal/migrations"
	"songshelf/internal/store"
)

// Connector opens the song service and returns a func releasing its resources.
type Connector func(ctx context.Context) (songs.Service, func(), error)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format  string // "json" | "text"
	connect Connector
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the songctl root command backed by the configured database.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWith(connectDatabase)
}

// NewRootCommandWith creates the root command using connect to reach the song service.
func NewRootCommandWith(connect Connector) *cobra.Command {
	opts := &RootOptions{connect: connect}

	cmd := &cobra.Command{
		Use:   "songctl",
		Short: "Manage the songshelf song list",
		Long:  "Operator commands for importing, listing and clearing songs outside the HTTP API.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewClearCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// withService runs fn against a freshly connected service.
func (o *RootOptions) withService(ctx context.Context, fn func(songs.Service) error) error {
	svc, release, err := o.connect(ctx)
	if err != nil {
		return err
	}
	defer release()
	return fn(svc)
}

func (o *RootOptions) formatter(w io.Writer) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: w}
}

func connectDatabase(ctx context.Context) (songs.Service, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	db, err := database.Open(ctx, cfg.Database.URL, database.DefaultOptions())
	if err != nil {
		return nil, nil, err
	}

	if cfg.AutoMigrate {
		if err := migrations.Up(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
	}

	return songs.New(store.New(db)), func() { _ = db.Close() }, nil
}
