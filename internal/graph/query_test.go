package graph

import "testing"

func chainGraph() *Graph {
	nodes := []*Node{
		{ID: "a.gd", Kind: KindScript},
		{ID: "b.gd", Kind: KindScript},
		{ID: "c.gd", Kind: KindScript},
		{ID: "main.tscn", Kind: KindScene},
	}
	edges := []*Edge{
		{From: "main.tscn", To: "a.gd", Type: EdgeSceneScript, Weight: 1.5},
		{From: "a.gd", To: "b.gd", Type: EdgeCalls, Weight: 0.8},
		{From: "b.gd", To: "c.gd", Type: EdgeCalls, Weight: 0.4},
		{From: "a.gd", To: "c.gd", Type: EdgeTypeHint, Weight: 0.2},
	}
	return New(nodes, edges)
}

func TestEdgesOfType(t *testing.T) {
	g := chainGraph()

	if got := g.EdgesOfType(EdgeCalls); len(got) != 2 {
		t.Errorf("EdgesOfType(calls) = %v", got)
	}
	if got := g.EdgesOfType(EdgeCalls, EdgeSceneScript); len(got) != 3 {
		t.Errorf("EdgesOfType(calls, scene_script) = %v", got)
	}
	if got := g.EdgesOfType("unknown"); got != nil {
		t.Errorf("EdgesOfType(unknown) = %v", got)
	}
}

func TestMinWeight(t *testing.T) {
	g := chainGraph()

	if got := g.MinWeight(0.8); len(got) != 2 {
		t.Errorf("MinWeight(0.8) = %v", got)
	}
	if got := g.MinWeight(2.0); got != nil {
		t.Errorf("MinWeight(2.0) = %v", got)
	}
}

func TestReachable(t *testing.T) {
	g := chainGraph()

	got := g.Reachable("main.tscn", 2, Outbound)
	if len(got) != 3 {
		t.Fatalf("Reachable = %v", got)
	}
	// BFS order: nearest first, and c.gd is reported once at its shortest
	// distance even though two paths reach it.
	if got[0].Node.ID != "a.gd" || got[0].Hops != 1 {
		t.Errorf("got[0] = %+v", got[0])
	}
	if got[1].Node.ID != "b.gd" || got[1].Hops != 2 {
		t.Errorf("got[1] = %+v", got[1])
	}
	if got[2].Node.ID != "c.gd" || got[2].Hops != 2 {
		t.Errorf("got[2] = %+v", got[2])
	}

	if got := g.Reachable("c.gd", 3, Inbound); len(got) != 3 {
		t.Errorf("inbound = %v", got)
	}
	if got := g.Reachable("missing", 2, Outbound); got != nil {
		t.Errorf("unknown start = %v", got)
	}
	if got := g.Reachable("main.tscn", 0, Outbound); got != nil {
		t.Errorf("zero hops = %v", got)
	}
}
