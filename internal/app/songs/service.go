package songs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"songshelf/internal/csvimport"
	"songshelf/internal/logging"
	"songshelf/internal/models"
	"songshelf/internal/store"
)

// MaxFileSize is the largest accepted upload in bytes.
const MaxFileSize = 10 * 1024 * 1024

// AllowedExtensions lists the accepted upload file extensions.
var AllowedExtensions = []string{".csv"}

// Store is the persistence the service drives.
type Store interface {
	ReplaceSongs(ctx context.Context, songs []models.Song) (store.ReplaceResult, error)
	ListSongs(ctx context.Context, order models.SortOrder) ([]models.Song, error)
	DeleteSongs(ctx context.Context) (int64, error)
}

// Upload is a spreadsheet handed over by a client. Content is nil when no
// file was sent.
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// Service exposes the song list workflows.
type Service interface {
	Upload(ctx context.Context, upload Upload) ([]models.Song, error)
	List(ctx context.Context, order models.SortOrder) ([]models.Song, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// Option adjusts a Service at construction.
type Option func(*service)

// WithClock overrides the time source used for the upper year bound.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

type service struct {
	store Store
	now   func() time.Time
}

// New constructs a song Service backed by the provided store.
func New(songStore Store, opts ...Option) Service {
	s := &service{store: songStore, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upload validates the file, normalizes every row and replaces the stored
// songs with the result. Nothing is written unless every row is valid.
func (s *service) Upload(ctx context.Context, upload Upload) ([]models.Song, error) {
	logger := logging.WithContext(ctx)

	content, err := readUpload(upload)
	if err != nil {
		logger.Warn().Err(err).Str("filename", upload.Filename).Msg("upload rejected")
		return nil, err
	}

	logger.Info().Str("filename", upload.Filename).Int("bytes", len(content)).Msg("parsing song upload")

	records, err := csvimport.Parse(bytes.NewReader(content))
	if err != nil {
		logger.Warn().Err(err).Msg("csv parsing failed")
		return nil, rejected("Invalid CSV format. File must include: 'Song Name', 'Band', and 'Year'.", err)
	}
	logger.Debug().Int("records", len(records)).Msg("parsed csv records")

	songs, err := csvimport.Normalize(records, s.now().Year())
	if err != nil {
		var rowErr *csvimport.RowError
		if errors.As(err, &rowErr) {
			logger.Warn().Int("row", rowErr.Row).Str("field", rowErr.Field).Msg("csv validation failed")
			return nil, &InputError{Message: rowErr.Message, Row: rowErr.Row, Err: err}
		}
		return nil, rejected("Invalid CSV content.", err)
	}

	result, err := s.store.ReplaceSongs(ctx, songs)
	if err != nil {
		logger.Error().Err(err).Str("pg_code", store.ErrorCode(err)).Msg("replace songs failed")
		return nil, storageError("replace songs", err)
	}

	logger.Info().
		Int64("deleted", result.Deleted).
		Int64("inserted", result.Inserted).
		Msg("replaced songs")

	return songs, nil
}

// List returns every song ordered by band in the requested direction.
func (s *service) List(ctx context.Context, order models.SortOrder) ([]models.Song, error) {
	logger := logging.WithContext(ctx)

	songs, err := s.store.ListSongs(ctx, order)
	if err != nil {
		logger.Error().Err(err).Str("pg_code", store.ErrorCode(err)).Msg("list songs failed")
		return nil, storageError("list songs", err)
	}

	logger.Debug().Int("count", len(songs)).Str("order", string(order)).Msg("fetched songs")
	return songs, nil
}

// DeleteAll removes every stored song.
func (s *service) DeleteAll(ctx context.Context) (int64, error) {
	logger := logging.WithContext(ctx)

	count, err := s.store.DeleteSongs(ctx)
	if err != nil {
		logger.Error().Err(err).Str("pg_code", store.ErrorCode(err)).Msg("delete songs failed")
		return 0, storageError("delete songs", err)
	}

	logger.Info().Int64("deleted", count).Msg("deleted all songs")
	return count, nil
}

func readUpload(upload Upload) ([]byte, error) {
	if upload.Content == nil {
		return nil, ErrNoFile
	}
	if !allowedExtension(upload.Filename) {
		return nil, ErrFileType
	}
	if upload.Size > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	// Size may be unknown or understated, so the read itself is capped too.
	content, err := io.ReadAll(io.LimitReader(upload.Content, MaxFileSize+1))
	if err != nil {
		return nil, rejected("Failed to read uploaded file.", fmt.Errorf("read upload: %w", err))
	}
	if len(content) > MaxFileSize {
		return nil, ErrFileTooLarge
	}
	return content, nil
}

func allowedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}
