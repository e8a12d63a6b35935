package graph

import (
	"fmt"
	"time"

	"github.com/Myllenam/grafoWitchTrials/pkg/trials"
)

// CoordinatePolicy controls how the builder treats coordinates arriving on
// later records for an already-known location.
type CoordinatePolicy int

const (
	// CoordinateFirstWins keeps the attributes of the first record that
	// created the location node, even when later records carry more
	// complete geography. This matches the historical behavior.
	CoordinateFirstWins CoordinatePolicy = iota

	// CoordinateFillMissing lets later records fill coordinates the first
	// record lacked. Existing coordinates are never overwritten.
	CoordinateFillMissing
)

func (p CoordinatePolicy) String() string {
	switch p {
	case CoordinateFirstWins:
		return "first_wins"
	case CoordinateFillMissing:
		return "fill_missing"
	default:
		return "unknown"
	}
}

// BuilderConfig configures graph construction.
type BuilderConfig struct {
	// Strict aborts the whole build on the first integrity violation
	// instead of skipping the offending record.
	Strict bool `json:"strict"`

	// CoordinatePolicy selects the attribute-capture behavior for repeat
	// locations. Default: CoordinateFirstWins.
	CoordinatePolicy CoordinatePolicy `json:"coordinate_policy"`
}

// DefaultBuilderConfig returns the default construction settings.
func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		Strict:           false,
		CoordinatePolicy: CoordinateFirstWins,
	}
}

// BuildResult reports what one construction pass did.
type BuildResult struct {
	RecordsTotal     int   `json:"records_total"`
	RecordsApplied   int   `json:"records_applied"`
	SkippedNoCountry int   `json:"skipped_no_country"`
	SkippedIntegrity int   `json:"skipped_integrity"`
	Locations        int   `json:"locations"`
	Periods          int   `json:"periods"`
	Edges            int   `json:"edges"`
	RuntimeMS        int64 `json:"runtime_ms"`
}

// Build constructs the trials graph from normalized records in a single
// pass and freezes it before returning.
//
// A record with an unknown country contributes nothing: no nodes, no edge.
// A record with an unknown period is kept under the UnknownPeriod sentinel
// node. Negative counts violate the builder's input contract; in the
// default lenient mode the record is skipped and counted, in Strict mode
// the build fails with an error wrapping ErrDataIntegrity.
//
// The returned graph is owned by the caller. Record order does not affect
// the final node set or edge weights, only which record's attributes are
// captured first for a location.
func Build(records []trials.NormalizedRecord, cfg BuilderConfig) (*Graph, *BuildResult, error) {
	start := time.Now()
	g := NewGraph()
	result := &BuildResult{RecordsTotal: len(records)}

	for i, r := range records {
		if r.Country == "" || r.Country == trials.Unknown {
			result.SkippedNoCountry++
			continue
		}

		if r.Tried < 0 || r.Deaths < 0 {
			ierr := &IntegrityError{
				Record: i,
				Reason: fmt.Sprintf("negative counts (tried=%d, deaths=%d)", r.Tried, r.Deaths),
			}
			if cfg.Strict {
				return nil, nil, ierr
			}
			result.SkippedIntegrity++
			continue
		}

		key := r.LocationKey
		if key == "" {
			key = trials.DeriveLocationKey(r.City, r.Subregion, r.Country)
		}

		loc, err := g.AddLocation(key, LocationAttrs{
			Country:   r.Country,
			Subregion: r.Subregion,
			Lat:       r.Lat,
			Lon:       r.Lon,
		})
		if err != nil {
			return nil, nil, err
		}
		if cfg.CoordinatePolicy == CoordinateFillMissing {
			fillMissingCoords(loc, r.Lat, r.Lon)
		}

		period := r.Period
		if period == "" {
			period = UnknownPeriod
		}
		if _, err := g.AddPeriod(period); err != nil {
			return nil, nil, err
		}

		if err := g.Accumulate(key, period, r.Tried, r.Deaths); err != nil {
			return nil, nil, err
		}
		result.RecordsApplied++
	}

	g.Freeze()

	result.Locations = len(g.NodesByKind(KindLocation))
	result.Periods = len(g.NodesByKind(KindTimePeriod))
	result.Edges = g.EdgeCount()
	result.RuntimeMS = time.Since(start).Milliseconds()

	return g, result, nil
}

// fillMissingCoords copies coordinates from a later record onto a location
// that was first seen without them. Never overwrites.
func fillMissingCoords(n *Node, lat, lon *float64) {
	if n.Location == nil {
		return
	}
	if n.Location.Lat == nil && lat != nil {
		v := *lat
		n.Location.Lat = &v
	}
	if n.Location.Lon == nil && lon != nil {
		v := *lon
		n.Location.Lon = &v
	}
}
