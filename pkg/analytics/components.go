package analytics

import (
	"github.com/Myllenam/grafoWitchTrials/pkg/graph"
)

// ComponentsResult is the weak-connectivity partition of the graph.
type ComponentsResult struct {
	// Components holds every maximal set of nodes mutually reachable when
	// edge direction is ignored, in discovery order. Members are listed in
	// traversal order from the component's seed node.
	Components [][]string `json:"components"`

	// Largest is the biggest component; among equally sized components the
	// first discovered wins.
	Largest []string `json:"largest"`
}

// WeaklyConnectedComponents partitions all nodes of the graph into weakly
// connected components. Traversal seeds follow node insertion order, which
// makes both the component order and the largest-component tie-break
// deterministic. An empty graph yields an empty partition.
func WeaklyConnectedComponents(g *graph.Graph) ComponentsResult {
	adj := undirectedAdjacency(g)
	visited := make(map[string]bool, g.NodeCount())

	var result ComponentsResult
	for _, seed := range g.Nodes() {
		if visited[seed] {
			continue
		}
		component := bfsComponent(seed, adj, visited)
		result.Components = append(result.Components, component)
		if len(component) > len(result.Largest) {
			result.Largest = component
		}
	}
	return result
}

// Density computes directed simple-graph density: E / (N*(N-1)). Graphs
// with fewer than two nodes have density 0.
func Density(g *graph.Graph) float64 {
	n := g.NodeCount()
	if n < 2 {
		return 0
	}
	return float64(g.EdgeCount()) / float64(n*(n-1))
}

// MeanDegree returns the average undirected degree across all nodes, 0 for
// an empty graph.
func MeanDegree(g *graph.Graph) float64 {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return 0
	}
	var total int
	for _, id := range nodes {
		total += g.Degree(id)
	}
	return float64(total) / float64(len(nodes))
}

// IsolatedNodes returns all nodes with no edges in either direction, in
// insertion order.
func IsolatedNodes(g *graph.Graph) []string {
	var isolated []string
	for _, id := range g.Nodes() {
		if g.Degree(id) == 0 {
			isolated = append(isolated, id)
		}
	}
	return isolated
}

func bfsComponent(seed string, adj map[string][]string, visited map[string]bool) []string {
	visited[seed] = true
	component := []string{seed}
	queue := []string{seed}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, v := range adj[u] {
			if !visited[v] {
				visited[v] = true
				component = append(component, v)
				queue = append(queue, v)
			}
		}
	}
	return component
}
