package trials

import (
	"strconv"
	"strings"
)

// Unknown is the explicit marker used for categorical fields that are
// missing from the source data. Records with an unknown country are later
// dropped by the graph builder; records with an unknown period are kept.
const Unknown = "unknown"

// Record is a raw row as read from the trials CSV, before normalization.
// All fields are strings; numeric coercion happens in Normalize.
type Record struct {
	City      string `json:"city"`
	Subregion string `json:"gadm_adm1"`
	Country   string `json:"gadm_adm0"`
	Decade    string `json:"decade"`
	Lat       string `json:"lat"`
	Lon       string `json:"lon"`
	Tried     string `json:"tried"`
	Deaths    string `json:"deaths"`
}

// NormalizedRecord is a clean record ready for graph construction.
// Tried and Deaths are coerced to integers (non-numeric values become 0),
// coordinates are nil when absent, and Country carries the Unknown marker
// when the source field was blank.
type NormalizedRecord struct {
	LocationKey string   `json:"location_key"`
	Period      string   `json:"period"`
	City        string   `json:"city"`
	Subregion   string   `json:"subregion"`
	Country     string   `json:"country"`
	Lat         *float64 `json:"lat,omitempty"`
	Lon         *float64 `json:"lon,omitempty"`
	Tried       int      `json:"tried"`
	Deaths      int      `json:"deaths"`

	// Incomplete marks records missing any of city, subregion or country.
	Incomplete bool `json:"incomplete"`
}

// DeriveLocationKey builds the fully-qualified location key: the finest
// available geographic field, qualified with the coarser ones, so that two
// same-named cities in different countries never collide.
//
//	city + subregion + country -> "City, Subregion, Country"
//	city + country             -> "City, Country"
//	subregion + country        -> "Subregion, Country"
//	country only               -> "Country"
//
// Returns "" when the country itself is missing; such records cannot be
// keyed and are dropped by the builder.
func DeriveLocationKey(city, subregion, country string) string {
	if country == "" || country == Unknown {
		return ""
	}
	parts := make([]string, 0, 3)
	if city != "" {
		parts = append(parts, city)
	}
	if subregion != "" {
		parts = append(parts, subregion)
	}
	parts = append(parts, country)
	return strings.Join(parts, ", ")
}

// Normalize converts raw records into normalized ones. It is pure and
// deterministic: the same input always yields the same output, in order.
func Normalize(records []Record) []NormalizedRecord {
	out := make([]NormalizedRecord, 0, len(records))
	for _, r := range records {
		city := strings.TrimSpace(r.City)
		subregion := strings.TrimSpace(r.Subregion)
		country := strings.TrimSpace(r.Country)

		n := NormalizedRecord{
			City:       city,
			Subregion:  subregion,
			Country:    country,
			Period:     strings.TrimSpace(r.Decade),
			Tried:      coerceCount(r.Tried),
			Deaths:     coerceCount(r.Deaths),
			Lat:        parseCoord(r.Lat),
			Lon:        parseCoord(r.Lon),
			Incomplete: city == "" || subregion == "" || country == "",
		}
		if n.Country == "" {
			n.Country = Unknown
		}
		if n.Period == "" {
			n.Period = Unknown
		}
		n.LocationKey = DeriveLocationKey(n.City, n.Subregion, n.Country)
		out = append(out, n)
	}
	return out
}

// Totals sums trial and death counts over a normalized record set and
// counts records flagged incomplete. Used for the dataset-level summary
// before any graph is built.
func Totals(records []NormalizedRecord) (tried, deaths, incomplete int) {
	for _, r := range records {
		tried += r.Tried
		deaths += r.Deaths
		if r.Incomplete {
			incomplete++
		}
	}
	return tried, deaths, incomplete
}

// coerceCount parses a count column value. Non-numeric values coerce to 0;
// fractional values are truncated toward zero. Sign is preserved so that
// corrupt negative counts remain visible to the builder's integrity check.
func coerceCount(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int(f)
}

func parseCoord(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
