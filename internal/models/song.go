package models

import (
	"fmt"
	"strings"
)

// Song is a normalized song row: lowercased, trimmed text and a bounded year.
type Song struct {
	SongName string `json:"songName" db:"song_name"`
	Band     string `json:"band" db:"band"`
	Year     int    `json:"year" db:"year"`
}

// SortOrder selects the direction songs are listed by band.
type SortOrder string

const (
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"
)

// ParseSortOrder maps a query value onto a SortOrder. An empty value means ascending.
func ParseSortOrder(raw string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(SortAscending):
		return SortAscending, nil
	case string(SortDescending):
		return SortDescending, nil
	default:
		return "", fmt.Errorf("order must be asc or desc, got %q", raw)
	}
}

// SQL returns the ORDER BY keyword for the direction.
func (o SortOrder) SQL() string {
	if o == SortDescending {
		return "DESC"
	}
	return "ASC"
}
