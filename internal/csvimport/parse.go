// Package csvimport turns uploaded song spreadsheets into normalized songs.
//
// Input is semicolon-delimited text whose first line names the columns
// "Song Name", "Band" and "Year". Parsing and validation both stop at the
// first problem; callers never see a partial batch.
package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	// Delimiter separates fields within a line.
	Delimiter = ';'

	ColumnSongName = "Song Name"
	ColumnBand     = "Band"
	ColumnYear     = "Year"
)

// ErrMalformedInput reports content that cannot be read as delimited text.
var ErrMalformedInput = errors.New("malformed csv input")

// RawRecord maps header text to the trimmed field value of one data line.
type RawRecord map[string]string

// Parse reads every record from r. The first non-blank line is the header.
func Parse(r io.Reader) ([]RawRecord, error) {
	reader := csv.NewReader(r)
	reader.Comma = Delimiter
	reader.TrimLeadingSpace = true
	// Column counts are checked below so blank lines can be told apart from short rows.
	reader.FieldsPerRecord = -1

	var (
		header  []string
		records []RawRecord
	)

	for {
		fields, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		if isBlank(fields) {
			continue
		}

		if header == nil {
			header = cleanHeader(fields)
			continue
		}

		if len(fields) != len(header) {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("%w: line %d: expected %d fields but got %d",
				ErrMalformedInput, line, len(header), len(fields))
		}

		record := make(RawRecord, len(header))
		for i, name := range header {
			record[name] = strings.TrimSpace(fields[i])
		}
		records = append(records, record)
	}

	return records, nil
}

func cleanHeader(fields []string) []string {
	header := make([]string, len(fields))
	for i, name := range fields {
		if i == 0 {
			name = strings.TrimPrefix(name, "\uFEFF")
		}
		header[i] = strings.TrimSpace(name)
	}
	return header
}

func isBlank(fields []string) bool {
	return len(fields) == 1 && strings.TrimSpace(fields[0]) == ""
}
