package trials

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Column names expected in the trials CSV header. Header cells are trimmed
// before matching, so "  city " still maps to the city column. Columns not
// listed here are ignored.
const (
	colCity      = "city"
	colSubregion = "gadm_adm1"
	colCountry   = "gadm_adm0"
	colDecade    = "decade"
	colLat       = "lat"
	colLon       = "lon"
	colTried     = "tried"
	colDeaths    = "deaths"
)

// LoadCSV reads raw trial records from CSV data. The first row must be a
// header naming the columns; malformed data rows are skipped rather than
// failing the whole load, while an error from the underlying reader aborts
// it. Missing columns simply yield empty fields, which normalization turns
// into explicit unknown markers.
func LoadCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}

	field := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var records []Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			continue // skip malformed rows
		}
		if err != nil {
			// Anything else comes from the underlying reader and will not
			// clear on retry.
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		records = append(records, Record{
			City:      field(row, colCity),
			Subregion: field(row, colSubregion),
			Country:   field(row, colCountry),
			Decade:    field(row, colDecade),
			Lat:       field(row, colLat),
			Lon:       field(row, colLon),
			Tried:     field(row, colTried),
			Deaths:    field(row, colDeaths),
		})
	}

	return records, nil
}
