package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"songshelf/internal/app/songs"
	"songshelf/internal/models"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Order string
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Replace all songs with the contents of a CSV file",
		Long: `Replace the stored song list with the rows of a semicolon separated CSV file.

The file goes through the same checks as an HTTP upload: a .csv extension,
at most 10 MiB, a Song Name;Band;Year header and valid rows. Nothing is
changed when any row is rejected.

Examples:
  songctl import ./songs.csv
  songctl import ./songs.csv --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(rootOpts, cmd, args[0])
		},
	}
}

func runImport(opts *RootOptions, cmd *cobra.Command, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	return opts.withService(cmd.Context(), func(svc songs.Service) error {
		imported, err := svc.Upload(cmd.Context(), songs.Upload{
			Filename: filepath.Base(path),
			Size:     info.Size(),
			Content:  f,
		})
		if err != nil {
			return describeError(err)
		}
		return opts.formatter(cmd.OutOrStdout()).Songs("CSV file processed successfully", imported)
	})
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List songs ordered by band",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Order, "order", "o", string(models.SortAscending), "band order (asc|desc)")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	order, err := models.ParseSortOrder(opts.Order)
	if err != nil {
		return err
	}

	return opts.withService(cmd.Context(), func(svc songs.Service) error {
		list, err := svc.List(cmd.Context(), order)
		if err != nil {
			return describeError(err)
		}
		return opts.formatter(cmd.OutOrStdout()).Songs("", list)
	})
}

// NewClearCommand creates the clear command.
func NewClearCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every stored song",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withService(cmd.Context(), func(svc songs.Service) error {
				n, err := svc.DeleteAll(cmd.Context())
				if err != nil {
					return describeError(err)
				}
				return rootOpts.formatter(cmd.OutOrStdout()).Count("All songs deleted successfully", n)
			})
		},
	}
}

// describeError turns input rejections into their user-facing message.
func describeError(err error) error {
	var inputErr *songs.InputError
	if errors.As(err, &inputErr) {
		return errors.New(inputErr.Message)
	}
	return err
}
