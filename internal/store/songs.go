package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"songshelf/internal/models"
)

// insertBatchSize bounds the rows sent per INSERT statement (three parameters each).
const insertBatchSize = 500

// ReplaceResult reports the rows touched by ReplaceSongs.
type ReplaceResult struct {
	Deleted  int64
	Inserted int64
}

// ListSongs returns every song ordered by band. Bands compare byte-wise;
// songs sharing a band keep insertion order.
func (s *Store) ListSongs(ctx context.Context, order models.SortOrder) ([]models.Song, error) {
	query := fmt.Sprintf(`
		SELECT song_name, band, year
		FROM songs
		ORDER BY band COLLATE "C" %s, id ASC
	`, order.SQL())

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query songs: %w", err)
	}
	defer rows.Close()

	songs := []models.Song{}
	for rows.Next() {
		var song models.Song
		if err := rows.Scan(&song.SongName, &song.Band, &song.Year); err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate songs: %w", err)
	}

	return songs, nil
}

// ReplaceSongs deletes every stored song and inserts songs in one
// transaction. The table lock serializes concurrent replacements and
// deletes while still letting readers through.
func (s *Store) ReplaceSongs(ctx context.Context, songs []models.Song) (ReplaceResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ReplaceResult{}, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `LOCK TABLE songs IN EXCLUSIVE MODE`); err != nil {
		return ReplaceResult{}, fmt.Errorf("lock songs: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM songs`)
	if err != nil {
		return ReplaceResult{}, fmt.Errorf("delete songs: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return ReplaceResult{}, fmt.Errorf("delete songs: %w", err)
	}

	var inserted int64
	for start := 0; start < len(songs); start += insertBatchSize {
		end := min(start+insertBatchSize, len(songs))
		n, err := insertSongs(ctx, tx, songs[start:end])
		if err != nil {
			return ReplaceResult{}, err
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return ReplaceResult{}, fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	return ReplaceResult{Deleted: deleted, Inserted: inserted}, nil
}

// DeleteSongs removes every song and returns how many rows went away.
func (s *Store) DeleteSongs(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM songs`)
	if err != nil {
		return 0, fmt.Errorf("delete songs: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete songs: %w", err)
	}
	return count, nil
}

// CountSongs returns the number of stored songs.
func (s *Store) CountSongs(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM songs`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count songs: %w", err)
	}
	return count, nil
}

func insertSongs(ctx context.Context, tx *sql.Tx, batch []models.Song) (int64, error) {
	query, args := buildInsert(batch)
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("insert songs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("insert songs: %w", err)
	}
	return n, nil
}

func buildInsert(batch []models.Song) (string, []any) {
	var b strings.Builder
	b.WriteString("INSERT INTO songs (song_name, band, year) VALUES ")

	args := make([]any, 0, len(batch)*3)
	for i, song := range batch {
		if i > 0 {
			b.WriteString(", ")
		}
		n := i * 3
		fmt.Fprintf(&b, "($%d, $%d, $%d)", n+1, n+2, n+3)
		args = append(args, song.SongName, song.Band, song.Year)
	}
	return b.String(), args
}
