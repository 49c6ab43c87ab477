package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"songshelf/internal/models"
)

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// songsOutput mirrors the HTTP list payload.
type songsOutput struct {
	Message string        `json:"message,omitempty"`
	Count   int           `json:"count"`
	Data    []models.Song `json:"data"`
}

type countOutput struct {
	Message string `json:"message"`
	Count   int64  `json:"count"`
}

// Songs prints a song list as a table or as JSON.
func (f *OutputFormatter) Songs(message string, list []models.Song) error {
	if list == nil {
		list = []models.Song{}
	}
	if f.Format == "json" {
		return f.json(songsOutput{Message: message, Count: len(list), Data: list})
	}

	if message != "" {
		fmt.Fprintln(f.Writer, message)
	}
	tw := tabwriter.NewWriter(f.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BAND\tSONG\tYEAR")
	for _, s := range list {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", s.Band, s.SongName, s.Year)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(f.Writer, "%d songs\n", len(list))
	return err
}

// Count prints a message with an affected row count.
func (f *OutputFormatter) Count(message string, n int64) error {
	if f.Format == "json" {
		return f.json(countOutput{Message: message, Count: n})
	}
	_, err := fmt.Fprintf(f.Writer, "%s (%d)\n", message, n)
	return err
}

func (f *OutputFormatter) json(v any) error {
	enc := json.NewEncoder(f.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
