// Command witchgraph runs the full trials analysis pipeline: it loads a
// trials CSV, normalizes the records, builds the location/period graph and
// prints the ranked tables and structural report to stdout.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/log"

	"github.com/Myllenam/grafoWitchTrials/pkg/analysis"
	"github.com/Myllenam/grafoWitchTrials/pkg/analytics"
	"github.com/Myllenam/grafoWitchTrials/pkg/config"
	"github.com/Myllenam/grafoWitchTrials/pkg/graph"
	"github.com/Myllenam/grafoWitchTrials/pkg/trials"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: %s <trials.csv>", os.Args[0])
	}
	csvPath := os.Args[1]
	cfg := config.Load()

	file, err := os.Open(csvPath)
	if err != nil {
		log.Fatal("failed to open input", "path", csvPath, "err", err)
	}
	defer file.Close()

	raw, err := trials.LoadCSV(file)
	if err != nil {
		log.Fatal("failed to load CSV", "path", csvPath, "err", err)
	}
	records := trials.Normalize(raw)
	log.Info("records loaded", "count", len(records))

	tried, deaths, incomplete := trials.Totals(records)
	log.Info("dataset totals", "tried", tried, "deaths", deaths, "incomplete", incomplete)

	g, buildResult, err := graph.Build(records, cfg.BuilderConfig())
	if err != nil {
		log.Fatal("graph construction failed", "err", err)
	}
	if skipped := buildResult.SkippedIntegrity; skipped > 0 {
		log.Warn("skipped records with integrity violations", "count", skipped)
	}
	log.Info("graph built",
		"locations", buildResult.Locations,
		"periods", buildResult.Periods,
		"edges", buildResult.Edges,
		"skipped_no_country", buildResult.SkippedNoCountry,
		"runtime_ms", buildResult.RuntimeMS,
	)

	printCountryRanking(g, cfg.TopN)
	printLocationRanking(g, cfg.TopN)
	printPeriodSeries(g)
	printGeoPoints(g, cfg.TopN)
	printOverallRate(g)
	printStructuralReport(g, cfg.TopN)
}

func printCountryRanking(g *graph.Graph, n int) {
	rows := analysis.RankByCountry(g, n)
	fmt.Printf("\nTop %d countries by trials:\n", n)
	if len(rows) == 0 {
		fmt.Println("  no countries with trials")
		return
	}
	w := newTable()
	fmt.Fprintln(w, "COUNTRY\tTRIALS\tDEATHS\tDEATH RATE")
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%d\t%d\t%.4f\n", row.Key, row.Trials, row.Deaths, row.DeathRate)
	}
	w.Flush()
}

func printLocationRanking(g *graph.Graph, n int) {
	rows := analysis.RankByLocation(g, n)
	fmt.Printf("\nTop %d locations by trials:\n", n)
	if len(rows) == 0 {
		fmt.Println("  no locations with trials")
		return
	}
	w := newTable()
	fmt.Fprintln(w, "LOCATION\tTRIALS\tDEATHS\tDEATH RATE")
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%d\t%d\t%.4f\n", row.Key, row.Trials, row.Deaths, row.DeathRate)
	}
	w.Flush()
}

func printPeriodSeries(g *graph.Graph) {
	rows := analysis.SeriesByPeriod(g)
	fmt.Println("\nTrials by period:")
	if len(rows) == 0 {
		fmt.Println("  no numeric periods with trials")
		return
	}
	w := newTable()
	fmt.Fprintln(w, "PERIOD\tTRIALS\tDEATHS\tDEATH RATE")
	for _, row := range rows {
		fmt.Fprintf(w, "%d\t%d\t%d\t%.4f\n", row.Period, row.Trials, row.Deaths, row.DeathRate)
	}
	w.Flush()
}

func printGeoPoints(g *graph.Graph, n int) {
	points := analysis.TopGeoPoints(g, 0)
	fmt.Printf("\nGeolocated points: %d\n", len(points))
	if len(points) == 0 {
		return
	}
	if n > 0 && len(points) > n {
		points = points[:n]
	}
	w := newTable()
	fmt.Fprintln(w, "LOCATION\tLAT\tLON\tTRIALS\tDEATHS")
	for _, p := range points {
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%d\t%d\n", p.Location, p.Lat, p.Lon, p.Trials, p.Deaths)
	}
	w.Flush()
}

func printOverallRate(g *graph.Graph) {
	trialsTotal, deathsTotal, rate := analysis.OverallDeathRate(g)
	fmt.Println("\nOverall death rate:")
	fmt.Printf("  trials: %d\n  deaths: %d\n  rate:   %.4f\n", trialsTotal, deathsTotal, rate)
}

func printStructuralReport(g *graph.Graph, n int) {
	fmt.Println("\nStructural analysis:")
	fmt.Printf("  nodes: %d\n", g.NodeCount())
	fmt.Printf("  edges: %d\n", g.EdgeCount())
	fmt.Printf("  mean degree: %.2f\n", analytics.MeanDegree(g))
	fmt.Printf("  density: %.4f\n", analytics.Density(g))

	components := analytics.WeaklyConnectedComponents(g)
	fmt.Printf("  weakly connected components: %d\n", len(components.Components))
	fmt.Printf("  largest component size: %d\n", len(components.Largest))

	if isolated := analytics.IsolatedNodes(g); len(isolated) > 0 {
		fmt.Printf("  isolated nodes: %d\n", len(isolated))
	}

	printScores("degree centrality", analytics.DegreeCentrality(g), n)
	printScores("closeness centrality", analytics.ClosenessCentrality(g), n)
	printScores("betweenness centrality", analytics.BetweennessCentrality(g), n)

	communities := analytics.DetectCommunities(g)
	fmt.Printf("\nCommunities detected: %d (modularity %.4f)\n",
		len(communities.Communities), communities.Modularity)
	for i, members := range communities.Communities {
		if i >= n {
			fmt.Printf("  ... and %d more\n", len(communities.Communities)-n)
			break
		}
		fmt.Printf("  community %d: %d locations\n", i, len(members))
	}
}

func printScores(name string, scores map[string]float64, n int) {
	fmt.Printf("\nTop %d nodes by %s:\n", n, name)
	for _, s := range analytics.TopBy(scores, n) {
		fmt.Printf("  %s: %.4f\n", s.Node, s.Value)
	}
}

func newTable() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}
