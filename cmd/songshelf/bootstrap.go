package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"songshelf/internal/app/songs"
)

const demoCSV = `Song Name;Band;Year
Roygbiv;Boards of Canada;1998
Teardrop;Massive Attack;1998
Windowlicker;Aphex Twin;1999
Hyperballad;Björk;1996
Glory Box;Portishead;1994
`

type songCounter interface {
	CountSongs(ctx context.Context) (int64, error)
}

// bootstrapDemoSongs loads demoCSV through the upload pipeline when no songs are stored.
func bootstrapDemoSongs(ctx context.Context, counter songCounter, songSvc songs.Service) error {
	count, err := counter.CountSongs(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap demo songs: %w", err)
	}
	if count > 0 {
		return nil
	}

	seeded, err := songSvc.Upload(ctx, songs.Upload{
		Filename: "demo.csv",
		Size:     int64(len(demoCSV)),
		Content:  strings.NewReader(demoCSV),
	})
	if err != nil {
		return fmt.Errorf("bootstrap demo songs: %w", err)
	}

	log.Info().Int("count", len(seeded)).Msg("demo songs loaded")
	return nil
}
