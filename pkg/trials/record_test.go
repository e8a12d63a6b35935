package trials

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveLocationKey(t *testing.T) {
	tests := []struct {
		name      string
		city      string
		subregion string
		country   string
		expected  string
	}{
		{"full geography", "Salem", "Essex", "USA", "Salem, Essex, USA"},
		{"city and country", "Salem", "", "USA", "Salem, USA"},
		{"subregion and country", "", "Essex", "USA", "Essex, USA"},
		{"country only", "", "", "USA", "USA"},
		{"missing country", "Salem", "Essex", "", ""},
		{"unknown country", "Salem", "Essex", Unknown, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DeriveLocationKey(tt.city, tt.subregion, tt.country))
		})
	}
}

func TestNormalize(t *testing.T) {
	records := []Record{
		{City: " Salem ", Subregion: "Essex", Country: " USA ", Decade: "1690", Tried: "5", Deaths: "2"},
		{City: "Trier", Country: "Germany", Decade: "", Tried: "3.0", Deaths: "ten"},
		{City: "Nowhere", Subregion: "", Country: "", Decade: "1600", Tried: "-1", Deaths: "0"},
	}

	out := Normalize(records)
	require.Len(t, out, 3)

	assert.Equal(t, "Salem, Essex, USA", out[0].LocationKey)
	assert.Equal(t, "1690", out[0].Period)
	assert.Equal(t, 5, out[0].Tried)
	assert.Equal(t, 2, out[0].Deaths)
	assert.False(t, out[0].Incomplete)

	// Blank subregion flags the record incomplete but still yields a key.
	assert.Equal(t, "Trier, Germany", out[1].LocationKey)
	assert.Equal(t, Unknown, out[1].Period)
	assert.Equal(t, 3, out[1].Tried, "fractional counts truncate")
	assert.Equal(t, 0, out[1].Deaths, "non-numeric counts coerce to zero")
	assert.True(t, out[1].Incomplete)

	// Blank country becomes the unknown marker and the key is empty.
	assert.Equal(t, Unknown, out[2].Country)
	assert.Equal(t, "", out[2].LocationKey)
	assert.Equal(t, -1, out[2].Tried, "sign is preserved for the integrity check")
	assert.True(t, out[2].Incomplete)
}

func TestNormalizeIsDeterministic(t *testing.T) {
	records := []Record{
		{City: "Salem", Country: "USA", Decade: "1690", Tried: "5", Deaths: "2"},
		{City: "Trier", Country: "Germany", Decade: "1580", Tried: "100", Deaths: "90"},
	}

	first := Normalize(records)
	second := Normalize(records)
	assert.Equal(t, first, second)
}

func TestNormalizeCoordinates(t *testing.T) {
	out := Normalize([]Record{
		{City: "Salem", Country: "USA", Lat: "42.52", Lon: "-70.89"},
		{City: "Trier", Country: "Germany", Lat: "", Lon: "6.64"},
		{City: "Bamberg", Country: "Germany", Lat: "not-a-number", Lon: "10.9"},
	})
	require.Len(t, out, 3)

	require.NotNil(t, out[0].Lat)
	require.NotNil(t, out[0].Lon)
	assert.InDelta(t, 42.52, *out[0].Lat, 1e-9)
	assert.InDelta(t, -70.89, *out[0].Lon, 1e-9)

	assert.Nil(t, out[1].Lat)
	require.NotNil(t, out[1].Lon)

	assert.Nil(t, out[2].Lat, "unparseable coordinates are dropped")
}

func TestTotals(t *testing.T) {
	records := Normalize([]Record{
		{City: "Salem", Subregion: "Essex", Country: "USA", Decade: "1690", Tried: "5", Deaths: "2"},
		{City: "Trier", Country: "Germany", Decade: "1580", Tried: "3", Deaths: "1"},
		{Country: "", Decade: "1600", Tried: "7", Deaths: "4"},
	})

	tried, deaths, incomplete := Totals(records)
	assert.Equal(t, 15, tried)
	assert.Equal(t, 7, deaths)
	assert.Equal(t, 2, incomplete)
}

func TestTotalsEmpty(t *testing.T) {
	tried, deaths, incomplete := Totals(nil)
	assert.Zero(t, tried)
	assert.Zero(t, deaths)
	assert.Zero(t, incomplete)
}
