package analytics

import (
	"sort"

	"gonum.org/v1/gonum/graph/network"

	"github.com/Myllenam/grafoWitchTrials/pkg/graph"
)

// Score is one node's value for a centrality measure.
type Score struct {
	Node  string  `json:"node"`
	Value float64 `json:"value"`
}

// DegreeCentrality computes normalized degree centrality over the full
// graph: each node's degree (ignoring direction) divided by N-1. A graph
// with fewer than two nodes yields 0 for every node.
func DegreeCentrality(g *graph.Graph) map[string]float64 {
	nodes := g.Nodes()
	scores := make(map[string]float64, len(nodes))
	if len(nodes) < 2 {
		for _, id := range nodes {
			scores[id] = 0
		}
		return scores
	}
	denom := float64(len(nodes) - 1)
	for _, id := range nodes {
		scores[id] = float64(g.Degree(id)) / denom
	}
	return scores
}

// ClosenessCentrality computes closeness over the graph treated as
// undirected, with the Wasserman-Faust correction for disconnected graphs:
//
//	C(u) = ((r-1) / Σd) * ((r-1) / (N-1))
//
// where r is the number of nodes reachable from u (including u) and Σd the
// sum of shortest-path distances to them. Nodes with no reachable peers
// score 0.
func ClosenessCentrality(g *graph.Graph) map[string]float64 {
	nodes := g.Nodes()
	adj := undirectedAdjacency(g)
	scores := make(map[string]float64, len(nodes))

	for _, id := range nodes {
		dist := bfsDistances(id, adj)
		reachable := float64(len(dist) - 1) // excluding the source itself
		if reachable <= 0 || len(nodes) < 2 {
			scores[id] = 0
			continue
		}
		var sum float64
		for _, d := range dist {
			sum += float64(d)
		}
		scores[id] = (reachable / sum) * (reachable / float64(len(nodes)-1))
	}
	return scores
}

// BetweennessCentrality computes shortest-path betweenness with Brandes'
// algorithm over the undirected projection of the graph. Nodes on no
// shortest path score 0. Disconnected graphs are handled per component.
func BetweennessCentrality(g *graph.Graph) map[string]float64 {
	p := projectUndirected(g)
	raw := network.Betweenness(p.ug)

	scores := make(map[string]float64, len(p.labels))
	for i, label := range p.labels {
		scores[label] = raw[int64(i)]
	}
	return scores
}

// TopBy returns the n highest-scoring nodes, ordered by value descending
// with ties broken by node label ascending. n <= 0 returns all nodes.
func TopBy(scores map[string]float64, n int) []Score {
	ranked := make([]Score, 0, len(scores))
	for node, value := range scores {
		ranked = append(ranked, Score{Node: node, Value: value})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Value != ranked[j].Value {
			return ranked[i].Value > ranked[j].Value
		}
		return ranked[i].Node < ranked[j].Node
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// bfsDistances returns hop distances from src to every reachable node,
// including src itself at distance 0.
func bfsDistances(src string, adj map[string][]string) map[string]int {
	dist := map[string]int{src: 0}
	queue := []string{src}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range adj[u] {
			if _, seen := dist[v]; !seen {
				dist[v] = dist[u] + 1
				queue = append(queue, v)
			}
		}
	}
	return dist
}
