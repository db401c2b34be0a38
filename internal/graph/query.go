package graph

// Direction selects which edges a traversal follows.
type Direction string

const (
	Outbound Direction = "outbound"
	Inbound  Direction = "inbound"
	Both     Direction = "both"
)

// Reached is one node found by a traversal, with its hop distance from the
// start node.
type Reached struct {
	Node *Node `json:"node"`
	Hops int   `json:"hops"`
}

// EdgesOfType returns every edge whose type matches one of the given types,
// in graph order.
func (g *Graph) EdgesOfType(types ...string) []*Edge {
	want := make(map[string]bool, len(types))
	for _, t := range types {
		want[t] = true
	}
	var out []*Edge
	for _, e := range g.Edges {
		if want[e.Type] {
			out = append(out, e)
		}
	}
	return out
}

// MinWeight returns every edge at or above the given weight, in graph order.
func (g *Graph) MinWeight(min float64) []*Edge {
	var out []*Edge
	for _, e := range g.Edges {
		if e.Weight >= min {
			out = append(out, e)
		}
	}
	return out
}

// Reachable walks breadth-first from the given node up to maxHops edges away
// and returns every node reached, nearest first. The start node itself is
// not included. An unknown start or non-positive maxHops yields nothing.
func (g *Graph) Reachable(id string, maxHops int, dir Direction) []Reached {
	start := g.byID[id]
	if start == nil || maxHops <= 0 {
		return nil
	}

	visited := map[string]bool{id: true}
	frontier := []string{id}
	var out []Reached

	for hop := 1; hop <= maxHops && len(frontier) > 0; hop++ {
		var next []string
		for _, cur := range frontier {
			for _, to := range g.neighbors(cur, dir) {
				if visited[to] {
					continue
				}
				visited[to] = true
				out = append(out, Reached{Node: g.byID[to], Hops: hop})
				next = append(next, to)
			}
		}
		frontier = next
	}
	return out
}

// neighbors returns the adjacent node IDs in edge order, which is sorted.
func (g *Graph) neighbors(id string, dir Direction) []string {
	var out []string
	if dir == Outbound || dir == Both {
		for _, e := range g.out[id] {
			out = append(out, e.To)
		}
	}
	if dir == Inbound || dir == Both {
		for _, e := range g.in[id] {
			out = append(out, e.From)
		}
	}
	return out
}
