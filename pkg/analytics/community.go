package analytics

import (
	"sort"

	gograph "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/Myllenam/grafoWitchTrials/pkg/graph"
)

// CommunityResult is a partition of the Location nodes into communities.
type CommunityResult struct {
	// Communities holds the disjoint node groups, ordered by their
	// smallest-index member; members are in location insertion order.
	Communities [][]string `json:"communities"`

	// Membership maps every partitioned node to its community index.
	Membership map[string]int `json:"membership"`

	// Modularity is the standard modularity score Q of the partition over
	// the co-occurrence projection, at resolution 1.
	Modularity float64 `json:"modularity"`
}

// DetectCommunities partitions the Location nodes of the graph using
// Clauset-Newman-Moore greedy modularity maximization over the Location
// co-occurrence projection: starting from singleton communities, the pair
// of communities whose merge yields the greatest modularity gain is merged
// repeatedly until no positive-gain merge remains.
//
// Merge candidates are compared by gain, then by community pair, so the
// partition is deterministic. Locations that share a period with nobody
// stay in singleton communities. A projection with fewer than two nodes
// yields an empty partition.
func DetectCommunities(g *graph.Graph) CommunityResult {
	result := CommunityResult{Membership: make(map[string]int)}

	cg := projectCooccurrence(g)
	if len(cg.labels) < 2 {
		return result
	}

	groups := greedyModularityMerge(cg)

	result.Communities = make([][]string, len(groups))
	for ci, members := range groups {
		labels := make([]string, len(members))
		for i, idx := range members {
			labels[i] = cg.labels[idx]
			result.Membership[cg.labels[idx]] = ci
		}
		result.Communities[ci] = labels
	}

	if cg.total > 0 {
		result.Modularity = community.Q(cg.weighted(), gonumCommunities(groups), 1)
	}
	return result
}

// greedyModularityMerge runs the CNM merge loop on the co-occurrence graph
// and returns the final communities as sorted member-index groups, ordered
// by smallest member.
func greedyModularityMerge(cg *cooccurrence) [][]int {
	n := len(cg.labels)
	m := cg.total

	// Each node starts in its own community, identified by its smallest
	// member index. Merging always folds the larger id into the smaller.
	members := make(map[int][]int, n)
	degree := make(map[int]float64, n)
	for i := 0; i < n; i++ {
		members[i] = []int{i}
		degree[i] = cg.degrees[i]
	}

	between := make(map[pairKey]float64, len(cg.weights))
	for pair, w := range cg.weights {
		between[pair] = w
	}

	for m > 0 {
		// Pick the connected pair with the largest modularity gain
		//   dQ = w_ab/m - d_a*d_b/(2m^2)
		// with ties broken by the smaller pair, so the choice does not
		// depend on map iteration order.
		var best pairKey
		bestGain := 0.0
		found := false
		for pair, w := range between {
			gain := w/m - degree[pair.A]*degree[pair.B]/(2*m*m)
			if !found || gain > bestGain || (gain == bestGain && pairLess(pair, best)) {
				best, bestGain, found = pair, gain, true
			}
		}
		if !found || bestGain <= 0 {
			break
		}

		a, b := best.A, best.B
		members[a] = append(members[a], members[b]...)
		degree[a] += degree[b]
		delete(members, b)
		delete(degree, b)

		remapped := make(map[pairKey]float64, len(between))
		for pair, w := range between {
			pa, pb := pair.A, pair.B
			if pa == b {
				pa = a
			}
			if pb == b {
				pb = a
			}
			if pa == pb {
				continue // became internal weight
			}
			remapped[makePair(pa, pb)] += w
		}
		between = remapped
	}

	ids := make([]int, 0, len(members))
	for id := range members {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	groups := make([][]int, 0, len(ids))
	for _, id := range ids {
		group := members[id]
		sort.Ints(group)
		groups = append(groups, group)
	}
	return groups
}

func pairLess(a, b pairKey) bool {
	if a.A != b.A {
		return a.A < b.A
	}
	return a.B < b.B
}

func gonumCommunities(groups [][]int) [][]gograph.Node {
	out := make([][]gograph.Node, len(groups))
	for i, group := range groups {
		nodes := make([]gograph.Node, len(group))
		for j, idx := range group {
			nodes[j] = simple.Node(int64(idx))
		}
		out[i] = nodes
	}
	return out
}
