// Package graph holds the dependency graph model and its builder. Nodes and
// edges are keyed by stable path-string IDs (arena style), so cyclic
// structures are ordinary data and traversal is plain map walking.
package graph

import "sort"

// Node kinds.
const (
	KindScript = "script"
	KindScene  = "scene"
)

// Edge types, strongest structural signal first.
const (
	EdgeSceneScript   = "scene_script"
	EdgeSceneInstance = "scene_instance"
	EdgeExtends       = "extends"
	EdgeSignalConnect = "signal_connect"
	EdgeCalls         = "calls"
	EdgePreload       = "preload"
	EdgeSignal        = "signal"
	EdgeLoad          = "load"
	EdgeOnReady       = "onready"
	EdgeGetNode       = "get_node"
	EdgeTypeHint      = "type_hint"
)

// Node is one file in the graph, keyed by its path.
type Node struct {
	ID       string         `json:"id"`
	Kind     string         `json:"kind"`
	Label    string         `json:"label"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Edge is one typed, weighted relationship between two nodes.
type Edge struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Type   string  `json:"type"`
	Weight float64 `json:"weight"`
}

// Graph is the immutable output of one indexing pass. Nodes and edges are
// sorted, so identical inputs always marshal identically.
type Graph struct {
	Nodes []*Node `json:"nodes"`
	Edges []*Edge `json:"edges"`

	byID map[string]*Node
	out  map[string][]*Edge
	in   map[string][]*Edge
}

// Severity classifies a diagnostic.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic is one per-file or structural finding returned alongside the
// graph; diagnostics never abort a pass.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Path     string   `json:"path"`
	Message  string   `json:"message"`
}

// New finalizes a node/edge set into a sorted, indexed Graph.
func New(nodes []*Node, edges []*Edge) *Graph {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	sort.Slice(edges, func(i, j int) bool {
		a, b := edges[i], edges[j]
		if a.From != b.From {
			return a.From < b.From
		}
		if a.To != b.To {
			return a.To < b.To
		}
		return a.Type < b.Type
	})

	g := &Graph{
		Nodes: nodes,
		Edges: edges,
		byID:  make(map[string]*Node, len(nodes)),
		out:   make(map[string][]*Edge),
		in:    make(map[string][]*Edge),
	}
	for _, n := range nodes {
		g.byID[n.ID] = n
	}
	for _, e := range edges {
		g.out[e.From] = append(g.out[e.From], e)
		g.in[e.To] = append(g.in[e.To], e)
	}
	return g
}

// NodeByID returns the node with the given ID, or nil.
func (g *Graph) NodeByID(id string) *Node {
	return g.byID[id]
}
