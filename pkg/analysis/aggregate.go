// Package analysis provides read-only aggregation and ranking queries over
// a frozen trials graph: ranked tables by country and location, the
// temporal series by period, geographic points, and overall totals.
//
// Every function returns a defined-empty result on an empty graph and
// guards all rate computations against zero denominators; none of them
// mutate the graph.
package analysis

import (
	"sort"
	"strconv"

	"github.com/Myllenam/grafoWitchTrials/pkg/graph"
)

// RegionRow is one row of a ranked aggregate table, keyed by country or by
// location depending on the query.
type RegionRow struct {
	Key       string  `json:"key"`
	Trials    int     `json:"trials"`
	Deaths    int     `json:"deaths"`
	DeathRate float64 `json:"death_rate"`
}

// PeriodRow is one point of the temporal series.
type PeriodRow struct {
	Period    int     `json:"period"`
	Trials    int     `json:"trials"`
	Deaths    int     `json:"deaths"`
	DeathRate float64 `json:"death_rate"`
}

// GeoPoint is a location with complete coordinates and its accumulated
// counts.
type GeoPoint struct {
	Location string  `json:"location"`
	Trials   int     `json:"trials"`
	Deaths   int     `json:"deaths"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Country  string  `json:"country"`
}

// RankByCountry aggregates outgoing edge weights of every Location node
// per country and returns the top n countries by trial count. Countries
// with zero trials are excluded. Ties are broken alphabetically by key so
// repeated calls return identical tables. n <= 0 returns all rows.
func RankByCountry(g *graph.Graph, n int) []RegionRow {
	totals := make(map[string]*RegionRow)
	var order []string

	for _, id := range g.NodesByKind(graph.KindLocation) {
		node, _ := g.Node(id)
		trials, deaths := outWeights(g, id)

		country := node.Location.Country
		row, ok := totals[country]
		if !ok {
			row = &RegionRow{Key: country}
			totals[country] = row
			order = append(order, country)
		}
		row.Trials += trials
		row.Deaths += deaths
	}

	rows := make([]RegionRow, 0, len(order))
	for _, country := range order {
		row := totals[country]
		if row.Trials == 0 {
			continue
		}
		row.DeathRate = rate(row.Deaths, row.Trials)
		rows = append(rows, *row)
	}

	return rankAndTruncate(rows, n)
}

// RankByLocation is RankByCountry keyed by location node identity instead
// of country.
func RankByLocation(g *graph.Graph, n int) []RegionRow {
	var rows []RegionRow
	for _, id := range g.NodesByKind(graph.KindLocation) {
		trials, deaths := outWeights(g, id)
		if trials == 0 {
			continue
		}
		rows = append(rows, RegionRow{
			Key:       id,
			Trials:    trials,
			Deaths:    deaths,
			DeathRate: rate(deaths, trials),
		})
	}
	return rankAndTruncate(rows, n)
}

// SeriesByPeriod sums incoming edge weights for every TimePeriod node whose
// label is all digits, sorted ascending by period. Other labels (including
// the unknown-period sentinel) stay in the graph but are outside the
// orderable series; periods that accumulated zero trials are omitted.
func SeriesByPeriod(g *graph.Graph) []PeriodRow {
	var rows []PeriodRow
	for _, id := range g.NodesByKind(graph.KindTimePeriod) {
		period, ok := numericPeriod(id)
		if !ok {
			continue
		}
		trials, deaths := inWeights(g, id)
		if trials == 0 {
			continue
		}
		rows = append(rows, PeriodRow{
			Period:    period,
			Trials:    trials,
			Deaths:    deaths,
			DeathRate: rate(deaths, trials),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Period < rows[j].Period })
	return rows
}

// GeoPoints returns every Location node that has both coordinates, with its
// accumulated counts. Locations lacking either coordinate are silently
// excluded.
func GeoPoints(g *graph.Graph) []GeoPoint {
	var points []GeoPoint
	for _, id := range g.NodesByKind(graph.KindLocation) {
		node, _ := g.Node(id)
		attrs := node.Location
		if attrs.Lat == nil || attrs.Lon == nil {
			continue
		}
		trials, deaths := outWeights(g, id)
		points = append(points, GeoPoint{
			Location: id,
			Trials:   trials,
			Deaths:   deaths,
			Lat:      *attrs.Lat,
			Lon:      *attrs.Lon,
			Country:  attrs.Country,
		})
	}
	return points
}

// TopGeoPoints returns the n geolocated points with the most trials, ties
// broken by location key. n <= 0 returns all points.
func TopGeoPoints(g *graph.Graph, n int) []GeoPoint {
	points := GeoPoints(g)
	sort.Slice(points, func(i, j int) bool {
		if points[i].Trials != points[j].Trials {
			return points[i].Trials > points[j].Trials
		}
		return points[i].Location < points[j].Location
	})
	if n > 0 && len(points) > n {
		points = points[:n]
	}
	return points
}

// OverallDeathRate totals deaths over trials across all edges. An empty
// graph, or one whose edges carry zero trials, yields (0, 0, 0).
func OverallDeathRate(g *graph.Graph) (trials, deaths int, deathRate float64) {
	for _, key := range g.Edges() {
		w, _ := g.Edge(key.From, key.To)
		trials += w.Trials
		deaths += w.Deaths
	}
	return trials, deaths, rate(deaths, trials)
}

// numericPeriod parses a digit-only period label. Signed or otherwise
// decorated labels stay outside the orderable series.
func numericPeriod(label string) (int, bool) {
	if label == "" {
		return 0, false
	}
	for _, r := range label {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(label)
	if err != nil {
		return 0, false
	}
	return n, true
}

func outWeights(g *graph.Graph, id string) (trials, deaths int) {
	for _, to := range g.Out(id) {
		w, _ := g.Edge(id, to)
		trials += w.Trials
		deaths += w.Deaths
	}
	return trials, deaths
}

func inWeights(g *graph.Graph, id string) (trials, deaths int) {
	for _, from := range g.In(id) {
		w, _ := g.Edge(from, id)
		trials += w.Trials
		deaths += w.Deaths
	}
	return trials, deaths
}

func rankAndTruncate(rows []RegionRow, n int) []RegionRow {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Trials != rows[j].Trials {
			return rows[i].Trials > rows[j].Trials
		}
		return rows[i].Key < rows[j].Key
	})
	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// rate computes deaths/trials with a zero-denominator guard: a zero or
// negative trial count yields 0, never NaN or an error.
func rate(deaths, trials int) float64 {
	if trials <= 0 {
		return 0
	}
	return float64(deaths) / float64(trials)
}
