// Package analytics provides structural queries over a frozen trials
// graph: centrality measures, weakly connected components, density, and
// community detection. All functions are read-only.
package analytics

import (
	"math"

	"gonum.org/v1/gonum/graph/simple"

	"github.com/Myllenam/grafoWitchTrials/pkg/graph"
)

// projection is the full trials graph converted to a gonum undirected
// graph, with the id mapping needed to translate scores back to node
// labels. Nodes are added in graph insertion order so the conversion is
// deterministic.
type projection struct {
	ug     *simple.UndirectedGraph
	labels []string
	ids    map[string]int64
}

// projectUndirected converts the full graph (both node kinds) to an
// undirected gonum graph for reachability-based measures.
func projectUndirected(g *graph.Graph) *projection {
	p := &projection{
		ug:     simple.NewUndirectedGraph(),
		labels: g.Nodes(),
		ids:    make(map[string]int64, g.NodeCount()),
	}
	for i, label := range p.labels {
		id := int64(i)
		p.ids[label] = id
		p.ug.AddNode(simple.Node(id))
	}
	for _, key := range g.Edges() {
		from, to := p.ids[key.From], p.ids[key.To]
		if from == to {
			continue
		}
		p.ug.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
	}
	return p
}

// pairKey is an unordered pair of co-occurrence node indices, stored with
// A < B.
type pairKey struct {
	A, B int
}

func makePair(a, b int) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{A: a, B: b}
}

// cooccurrence is the one-mode projection of the bipartite trials graph
// onto its Location nodes: two locations are adjacent when they share at
// least one TimePeriod neighbor, weighted by the number of shared periods.
// The induced Location subgraph itself is edgeless (all edges point at
// periods), so this projection is what community detection operates on.
type cooccurrence struct {
	labels  []string
	ids     map[string]int
	weights map[pairKey]float64
	degrees []float64
	total   float64 // sum of all edge weights, each edge counted once
}

// projectCooccurrence builds the Location co-occurrence projection in
// location insertion order.
func projectCooccurrence(g *graph.Graph) *cooccurrence {
	locations := g.NodesByKind(graph.KindLocation)
	cg := &cooccurrence{
		labels:  locations,
		ids:     make(map[string]int, len(locations)),
		weights: make(map[pairKey]float64),
		degrees: make([]float64, len(locations)),
	}
	for i, label := range locations {
		cg.ids[label] = i
	}

	for _, period := range g.NodesByKind(graph.KindTimePeriod) {
		members := g.In(period)
		for i := 0; i < len(members); i++ {
			a, ok := cg.ids[members[i]]
			if !ok {
				continue
			}
			for j := i + 1; j < len(members); j++ {
				b, ok := cg.ids[members[j]]
				if !ok || a == b {
					continue
				}
				cg.addWeight(a, b, 1)
			}
		}
	}
	return cg
}

func (cg *cooccurrence) addWeight(a, b int, w float64) {
	cg.weights[makePair(a, b)] += w
	cg.degrees[a] += w
	cg.degrees[b] += w
	cg.total += w
}

// weighted converts the co-occurrence projection to a gonum weighted
// undirected graph, used to score partitions with the standard modularity
// definition.
func (cg *cooccurrence) weighted() *simple.WeightedUndirectedGraph {
	wg := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	for i := range cg.labels {
		wg.AddNode(simple.Node(int64(i)))
	}
	for pair, w := range cg.weights {
		wg.SetWeightedEdge(simple.WeightedEdge{
			F: simple.Node(int64(pair.A)),
			T: simple.Node(int64(pair.B)),
			W: w,
		})
	}
	return wg
}

// undirectedAdjacency returns label-keyed neighbor lists for the full
// graph ignoring edge direction, in first-seen order. Locations only ever
// point at periods, so the out and in lists never overlap.
func undirectedAdjacency(g *graph.Graph) map[string][]string {
	adj := make(map[string][]string, g.NodeCount())
	for _, id := range g.Nodes() {
		adj[id] = append(g.Out(id), g.In(id)...)
	}
	return adj
}
