package csvimport

import (
	"fmt"
	"strconv"
	"strings"

	"songshelf/internal/models"
)

// MinYear is the earliest release year accepted.
const MinYear = 1900

// headerLines is the number of lines before the first data record.
const headerLines = 1

// RowError describes the first record that failed validation. Row counts
// lines the way a spreadsheet does, with the header on line 1.
type RowError struct {
	Row     int
	Field   string
	Message string
}

func (e *RowError) Error() string {
	return e.Message
}

// Normalize validates records in order and converts them to songs. It fails
// on the first invalid record.
func Normalize(records []RawRecord, currentYear int) ([]models.Song, error) {
	songs := make([]models.Song, 0, len(records))
	for i, record := range records {
		song, err := NormalizeRecord(record, i, currentYear)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}
	return songs, nil
}

// NormalizeRecord validates the record at the zero-based index.
func NormalizeRecord(record RawRecord, index, currentYear int) (models.Song, error) {
	row := index + headerLines + 1

	songName := normalizeText(record[ColumnSongName])
	band := normalizeText(record[ColumnBand])
	if songName == "" || band == "" {
		field := ColumnSongName
		if songName != "" {
			field = ColumnBand
		}
		return models.Song{}, &RowError{
			Row:     row,
			Field:   field,
			Message: fmt.Sprintf("Missing required fields at row %d. Song Name and Band are required.", row),
		}
	}

	year, err := strconv.Atoi(strings.TrimSpace(record[ColumnYear]))
	if err != nil || year < MinYear || year > currentYear {
		return models.Song{}, &RowError{
			Row:   row,
			Field: ColumnYear,
			Message: fmt.Sprintf("Invalid year at row %d. Year must be a valid number between %d and %d.",
				row, MinYear, currentYear),
		}
	}

	return models.Song{
		SongName: songName,
		Band:     band,
		Year:     year,
	}, nil
}

func normalizeText(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
