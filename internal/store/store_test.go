package store

import (
	"reflect"
	"testing"

	"gdgraph/internal/graph"
)

func testGraph() (*graph.Graph, []graph.Diagnostic) {
	nodes := []*graph.Node{
		{ID: "scripts/enemy.gd", Kind: graph.KindScript, Label: "Enemy",
			Metadata: map[string]any{"functions": 2.0}},
		{ID: "scripts/player.gd", Kind: graph.KindScript, Label: "Player"},
		{ID: "scenes/main.tscn", Kind: graph.KindScene, Label: "Main"},
	}
	edges := []*graph.Edge{
		{From: "scenes/main.tscn", To: "scripts/player.gd", Type: graph.EdgeSceneScript, Weight: 1.5},
		{From: "scripts/player.gd", To: "scripts/enemy.gd", Type: graph.EdgeCalls, Weight: 0.8},
	}
	diags := []graph.Diagnostic{
		{Severity: graph.SeverityWarning, Path: "scripts/enemy.gd", Message: "node section missing name"},
	}
	return graph.New(nodes, edges), diags
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveLoadRoundtrip(t *testing.T) {
	s := openTestStore(t)
	g, diags := testGraph()

	if err := s.SaveGraph("demo", "/tmp/demo", g, diags); err != nil {
		t.Fatal(err)
	}

	loaded, err := s.LoadGraph("demo")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(loaded.Nodes, g.Nodes) {
		t.Errorf("nodes = %+v, want %+v", loaded.Nodes, g.Nodes)
	}
	if !reflect.DeepEqual(loaded.Edges, g.Edges) {
		t.Errorf("edges = %+v, want %+v", loaded.Edges, g.Edges)
	}

	gotDiags, err := s.LoadDiagnostics("demo")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(gotDiags, diags) {
		t.Errorf("diagnostics = %+v, want %+v", gotDiags, diags)
	}
}

func TestSaveReplacesPreviousPass(t *testing.T) {
	s := openTestStore(t)
	g, diags := testGraph()
	if err := s.SaveGraph("demo", "/tmp/demo", g, diags); err != nil {
		t.Fatal(err)
	}

	smaller := graph.New(
		[]*graph.Node{{ID: "scripts/player.gd", Kind: graph.KindScript, Label: "Player"}},
		nil,
	)
	if err := s.SaveGraph("demo", "/tmp/demo", smaller, nil); err != nil {
		t.Fatal(err)
	}

	loaded, err := s.LoadGraph("demo")
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Nodes) != 1 || len(loaded.Edges) != 0 {
		t.Errorf("loaded = %d nodes, %d edges", len(loaded.Nodes), len(loaded.Edges))
	}
	gotDiags, err := s.LoadDiagnostics("demo")
	if err != nil {
		t.Fatal(err)
	}
	if len(gotDiags) != 0 {
		t.Errorf("diagnostics = %v", gotDiags)
	}
}

func TestProjectsAreIsolated(t *testing.T) {
	s := openTestStore(t)
	g, _ := testGraph()
	if err := s.SaveGraph("one", "/tmp/one", g, nil); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveGraph("two", "/tmp/two", graph.New(nil, nil), nil); err != nil {
		t.Fatal(err)
	}

	names, err := s.Projects()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(names, []string{"one", "two"}) {
		t.Errorf("projects = %v", names)
	}

	loaded, err := s.LoadGraph("two")
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Nodes) != 0 {
		t.Errorf("project two nodes = %v", loaded.Nodes)
	}
}
