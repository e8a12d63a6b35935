package graph

// NodeKind distinguishes the two node variants of the trials graph.
type NodeKind int

const (
	// KindLocation is a geographic entity at city/subregion/country granularity.
	KindLocation NodeKind = iota

	// KindTimePeriod is a discrete historical interval, typically a decade.
	KindTimePeriod
)

func (k NodeKind) String() string {
	switch k {
	case KindLocation:
		return "location"
	case KindTimePeriod:
		return "period"
	default:
		return "unknown"
	}
}

// UnknownPeriod is the sentinel label for records whose time period is
// missing. Such records still contribute nodes and edges; only an unknown
// country drops a record.
const UnknownPeriod = "unknown"

// GraphState tracks the build/frozen lifecycle of a Graph.
type GraphState int

const (
	// StateBuilding means the graph accepts node and edge mutations.
	StateBuilding GraphState = iota

	// StateFrozen means the graph is read-only. All analytics require a
	// frozen graph.
	StateFrozen
)

func (s GraphState) String() string {
	switch s {
	case StateBuilding:
		return "building"
	case StateFrozen:
		return "frozen"
	default:
		return "unknown"
	}
}

// LocationAttrs holds the fixed attributes of a Location node. Coordinates
// are nil when the source data lacked them.
type LocationAttrs struct {
	Country   string   `json:"country"`
	Subregion string   `json:"subregion,omitempty"`
	Lat       *float64 `json:"lat,omitempty"`
	Lon       *float64 `json:"lon,omitempty"`
}

// Node is a vertex of the trials graph: a tagged variant that is either a
// Location (Location field set) or a TimePeriod (Location nil, the ID is
// the period label).
type Node struct {
	ID       string         `json:"id"`
	Kind     NodeKind       `json:"kind"`
	Location *LocationAttrs `json:"location,omitempty"`
}

// EdgeKey identifies a directed edge from a Location node to a TimePeriod
// node.
type EdgeKey struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// EdgeWeight is the accumulator attached to one Location→TimePeriod edge.
// Repeated records for the same pair sum into it, never overwrite.
type EdgeWeight struct {
	Trials int `json:"trials"`
	Deaths int `json:"deaths"`
}

// Graph is the weighted directed graph built from normalized trial records.
//
// Nodes are either Locations or TimePeriods; the only edges are
// Location→TimePeriod with an accumulated (trials, deaths) weight. The
// graph is populated by Build in a single pass and frozen before being
// handed to callers; after Freeze every consumer is read-only and the
// structure is safe for concurrent reads.
//
// nodeList and the adjacency slices preserve first-seen order so that every
// iteration over the graph is deterministic.
type Graph struct {
	nodes    map[string]*Node
	nodeList []string
	edges    map[EdgeKey]EdgeWeight
	out      map[string][]string
	in       map[string][]string
	state    GraphState
}

// NewGraph creates an empty graph in the building state.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]*Node),
		edges: make(map[EdgeKey]EdgeWeight),
		out:   make(map[string][]string),
		in:    make(map[string][]string),
		state: StateBuilding,
	}
}

// State returns the current lifecycle state.
func (g *Graph) State() GraphState { return g.state }

// IsFrozen reports whether the graph is read-only.
func (g *Graph) IsFrozen() bool { return g.state == StateFrozen }

// Freeze transitions the graph to read-only mode. Irreversible.
func (g *Graph) Freeze() { g.state = StateFrozen }

// NodeCount returns the total number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the total number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Node returns the node with the given ID, if present.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all node IDs in insertion order. The slice is a copy.
func (g *Graph) Nodes() []string {
	ids := make([]string, len(g.nodeList))
	copy(ids, g.nodeList)
	return ids
}

// NodesByKind returns the IDs of all nodes of the given kind, in insertion
// order.
func (g *Graph) NodesByKind(kind NodeKind) []string {
	var ids []string
	for _, id := range g.nodeList {
		if g.nodes[id].Kind == kind {
			ids = append(ids, id)
		}
	}
	return ids
}

// Edge returns the accumulated weight of the edge from -> to.
func (g *Graph) Edge(from, to string) (EdgeWeight, bool) {
	w, ok := g.edges[EdgeKey{From: from, To: to}]
	return w, ok
}

// Edges returns every edge key in a deterministic order: source nodes in
// insertion order, targets in first-seen order per source.
func (g *Graph) Edges() []EdgeKey {
	keys := make([]EdgeKey, 0, len(g.edges))
	for _, from := range g.nodeList {
		for _, to := range g.out[from] {
			keys = append(keys, EdgeKey{From: from, To: to})
		}
	}
	return keys
}

// Out returns the target node IDs of all edges leaving id, in first-seen
// order. The slice is a copy.
func (g *Graph) Out(id string) []string {
	return copyIDs(g.out[id])
}

// In returns the source node IDs of all edges entering id, in first-seen
// order. The slice is a copy.
func (g *Graph) In(id string) []string {
	return copyIDs(g.in[id])
}

// Degree returns the undirected degree of a node: the number of distinct
// neighbors ignoring edge direction. Location→TimePeriod is the only edge
// shape, so out- and in-neighborhoods never overlap.
func (g *Graph) Degree(id string) int {
	return len(g.out[id]) + len(g.in[id])
}

// AddLocation inserts a Location node or returns the existing one. The
// attributes of an existing node are left untouched: first-seen wins. The
// builder applies its coordinate policy on top of this.
func (g *Graph) AddLocation(id string, attrs LocationAttrs) (*Node, error) {
	if g.state == StateFrozen {
		return nil, ErrGraphFrozen
	}
	if n, ok := g.nodes[id]; ok {
		return n, nil
	}
	a := attrs
	n := &Node{ID: id, Kind: KindLocation, Location: &a}
	g.nodes[id] = n
	g.nodeList = append(g.nodeList, id)
	return n, nil
}

// AddPeriod inserts a TimePeriod node or returns the existing one. The
// label is taken as-is; periods are never merged across labels.
func (g *Graph) AddPeriod(label string) (*Node, error) {
	if g.state == StateFrozen {
		return nil, ErrGraphFrozen
	}
	if n, ok := g.nodes[label]; ok {
		return n, nil
	}
	n := &Node{ID: label, Kind: KindTimePeriod}
	g.nodes[label] = n
	g.nodeList = append(g.nodeList, label)
	return n, nil
}

// Accumulate upserts the directed edge from -> to, summing the given counts
// into the edge accumulator. Both endpoints must already exist.
func (g *Graph) Accumulate(from, to string, trials, deaths int) error {
	if g.state == StateFrozen {
		return ErrGraphFrozen
	}
	if _, ok := g.nodes[from]; !ok {
		return &NodeNotFoundError{ID: from}
	}
	if _, ok := g.nodes[to]; !ok {
		return &NodeNotFoundError{ID: to}
	}

	key := EdgeKey{From: from, To: to}
	w, exists := g.edges[key]
	w.Trials += trials
	w.Deaths += deaths
	g.edges[key] = w

	if !exists {
		g.out[from] = append(g.out[from], to)
		g.in[to] = append(g.in[to], from)
	}
	return nil
}

func copyIDs(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}
