package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Myllenam/grafoWitchTrials/pkg/trials"
)

func rec(city, country, period string, tried, deaths int) trials.NormalizedRecord {
	return trials.NormalizedRecord{
		LocationKey: trials.DeriveLocationKey(city, "", country),
		City:        city,
		Country:     country,
		Period:      period,
		Tried:       tried,
		Deaths:      deaths,
	}
}

func TestBuildAccumulatesRepeatedPairs(t *testing.T) {
	records := []trials.NormalizedRecord{
		rec("X", "N", "1600", 5, 2),
		rec("X", "N", "1600", 3, 1),
	}

	g, result, err := Build(records, DefaultBuilderConfig())
	require.NoError(t, err)
	require.True(t, g.IsFrozen())

	assert.Equal(t, 1, result.Locations)
	assert.Equal(t, 1, result.Periods)
	assert.Equal(t, 1, result.Edges)
	assert.Equal(t, 2, result.RecordsApplied)

	w, ok := g.Edge("X, N", "1600")
	require.True(t, ok)
	assert.Equal(t, EdgeWeight{Trials: 8, Deaths: 3}, w)
}

func TestBuildSkipsUnknownCountry(t *testing.T) {
	records := []trials.NormalizedRecord{
		rec("X", "N", "1600", 5, 2),
		rec("Y", trials.Unknown, "1600", 7, 3),
		rec("Z", "", "1700", 1, 0),
	}

	g, result, err := Build(records, DefaultBuilderConfig())
	require.NoError(t, err)

	assert.Equal(t, 2, result.SkippedNoCountry)
	assert.Equal(t, 1, result.RecordsApplied)
	assert.Equal(t, 1, result.Locations)
	assert.Equal(t, 1, result.Periods, "the skipped record contributes no period node")
	_, ok := g.Node("1700")
	assert.False(t, ok)
}

func TestBuildUnknownPeriodKept(t *testing.T) {
	records := []trials.NormalizedRecord{
		rec("X", "N", trials.Unknown, 5, 2),
		rec("Y", "N", "", 3, 1),
	}

	g, result, err := Build(records, DefaultBuilderConfig())
	require.NoError(t, err)

	assert.Equal(t, 2, result.RecordsApplied)
	node, ok := g.Node(UnknownPeriod)
	require.True(t, ok)
	assert.Equal(t, KindTimePeriod, node.Kind)

	w, ok := g.Edge("Y, N", UnknownPeriod)
	require.True(t, ok)
	assert.Equal(t, EdgeWeight{Trials: 3, Deaths: 1}, w)
}

func TestBuildNegativeCountsLenient(t *testing.T) {
	records := []trials.NormalizedRecord{
		rec("X", "N", "1600", 5, 2),
		rec("Y", "N", "1600", -3, 0),
	}

	g, result, err := Build(records, DefaultBuilderConfig())
	require.NoError(t, err)

	assert.Equal(t, 1, result.SkippedIntegrity)
	assert.Equal(t, 1, result.RecordsApplied)
	_, ok := g.Node("Y, N")
	assert.False(t, ok, "the offending record contributes nothing")
}

func TestBuildNegativeCountsStrict(t *testing.T) {
	records := []trials.NormalizedRecord{
		rec("X", "N", "1600", 5, 2),
		rec("Y", "N", "1600", 1, -1),
	}

	cfg := DefaultBuilderConfig()
	cfg.Strict = true
	_, _, err := Build(records, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDataIntegrity)

	var ierr *IntegrityError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, 1, ierr.Record)
}

func TestBuildOrderIndependentWeights(t *testing.T) {
	records := []trials.NormalizedRecord{
		rec("X", "N", "1600", 5, 2),
		rec("Y", "N", "1700", 4, 1),
		rec("X", "N", "1600", 3, 1),
		rec("X", "N", "1700", 2, 0),
	}
	reversed := make([]trials.NormalizedRecord, len(records))
	for i, r := range records {
		reversed[len(records)-1-i] = r
	}

	g1, _, err := Build(records, DefaultBuilderConfig())
	require.NoError(t, err)
	g2, _, err := Build(reversed, DefaultBuilderConfig())
	require.NoError(t, err)

	assert.Equal(t, g1.NodeCount(), g2.NodeCount())
	assert.Equal(t, g1.EdgeCount(), g2.EdgeCount())
	for _, key := range g1.Edges() {
		w1, _ := g1.Edge(key.From, key.To)
		w2, ok := g2.Edge(key.From, key.To)
		require.True(t, ok)
		assert.Equal(t, w1, w2)
	}
}

func TestBuildIdempotent(t *testing.T) {
	records := []trials.NormalizedRecord{
		rec("X", "N", "1600", 5, 2),
		rec("Y", "M", "1700", 4, 1),
	}

	g1, r1, err := Build(records, DefaultBuilderConfig())
	require.NoError(t, err)
	g2, r2, err := Build(records, DefaultBuilderConfig())
	require.NoError(t, err)

	assert.Equal(t, g1.Nodes(), g2.Nodes())
	assert.Equal(t, g1.Edges(), g2.Edges())
	r1.RuntimeMS, r2.RuntimeMS = 0, 0
	assert.Equal(t, r1, r2)
}

func TestBuildCoordinatePolicies(t *testing.T) {
	lat, lon := 42.52, -70.89
	withCoords := rec("X", "N", "1600", 3, 1)
	withCoords.Lat, withCoords.Lon = &lat, &lon

	records := []trials.NormalizedRecord{
		rec("X", "N", "1600", 5, 2), // first seen without coordinates
		withCoords,
	}

	t.Run("first wins", func(t *testing.T) {
		g, _, err := Build(records, DefaultBuilderConfig())
		require.NoError(t, err)
		node, ok := g.Node("X, N")
		require.True(t, ok)
		assert.Nil(t, node.Location.Lat)
		assert.Nil(t, node.Location.Lon)
	})

	t.Run("fill missing", func(t *testing.T) {
		cfg := DefaultBuilderConfig()
		cfg.CoordinatePolicy = CoordinateFillMissing
		g, _, err := Build(records, cfg)
		require.NoError(t, err)
		node, ok := g.Node("X, N")
		require.True(t, ok)
		require.NotNil(t, node.Location.Lat)
		require.NotNil(t, node.Location.Lon)
		assert.InDelta(t, lat, *node.Location.Lat, 1e-9)
		assert.InDelta(t, lon, *node.Location.Lon, 1e-9)
	})
}

func TestBuildEmptyInput(t *testing.T) {
	g, result, err := Build(nil, DefaultBuilderConfig())
	require.NoError(t, err)
	assert.True(t, g.IsFrozen())
	assert.Zero(t, g.NodeCount())
	assert.Zero(t, result.RecordsTotal)
}
