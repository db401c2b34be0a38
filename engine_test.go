package gdgraph

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"gdgraph/internal/source"
)

func inventory() []source.File {
	return []source.File{
		{Path: "scripts/enemy.gd", Kind: source.KindScript, Content: []byte(
			"extends CharacterBody2D\nclass_name Enemy\n\nfunc take_damage(amount: int):\n\tpass\n")},
		{Path: "scripts/player.gd", Kind: source.KindScript, Content: []byte(
			"extends CharacterBody2D\nclass_name Player\n\nfunc attack(target: Enemy):\n\ttarget.take_damage(10)\n")},
		{Path: "scenes/main.tscn", Kind: source.KindScene, Content: []byte(
			"[gd_scene format=3]\n\n[ext_resource type=\"Script\" path=\"res://scripts/player.gd\" id=\"1\"]\n\n[node name=\"Main\" type=\"Node2D\"]\n\n[node name=\"Player\" parent=\".\"]\nscript = ExtResource(\"1\")\n")},
	}
}

func TestIndex(t *testing.T) {
	e := NewEngine(WithWorkers(2))
	res, err := e.Index(context.Background(), "demo", inventory())
	if err != nil {
		t.Fatal(err)
	}

	if res.Stats.Scripts != 2 || res.Stats.Scenes != 1 {
		t.Errorf("stats = %+v", res.Stats)
	}
	if res.Stats.Nodes != 3 {
		t.Errorf("nodes = %d, want 3", res.Stats.Nodes)
	}
	if res.Graph.NodeByID("scripts/player.gd") == nil {
		t.Error("player node missing")
	}
	if e := findEdge(res.Graph, "scripts/player.gd", "scripts/enemy.gd", EdgeCalls); e == nil || e.Weight != 0.8 {
		t.Errorf("calls edge = %+v", e)
	}
	if e := findEdge(res.Graph, "scenes/main.tscn", "scripts/player.gd", EdgeSceneScript); e == nil {
		t.Error("scene_script edge missing")
	}
	if len(res.Diagnostics) != 0 {
		t.Errorf("diagnostics = %v", res.Diagnostics)
	}
}

func findEdge(g *Graph, from, to, typ string) *Edge {
	for _, e := range g.Edges {
		if e.From == from && e.To == to && e.Type == typ {
			return e
		}
	}
	return nil
}

func TestIndexBadFileIsDropped(t *testing.T) {
	files := append(inventory(), source.File{
		Path: "scripts/corrupt.gd", Kind: source.KindScript, Content: []byte{0x00, 0x01},
	})

	e := NewEngine()
	res, err := e.Index(context.Background(), "demo", files)
	if err != nil {
		t.Fatal(err)
	}
	if res.Stats.Scripts != 2 {
		t.Errorf("scripts = %d, want 2", res.Stats.Scripts)
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Severity != SeverityError {
		t.Fatalf("diagnostics = %v", res.Diagnostics)
	}
	if res.Diagnostics[0].Path != "scripts/corrupt.gd" {
		t.Errorf("diagnostic path = %q", res.Diagnostics[0].Path)
	}
}

func TestDiagnosticPathsMatchNodeIDs(t *testing.T) {
	files := []source.File{
		{Path: "res://scripts/corrupt.gd", Kind: source.KindScript, Content: []byte{0x00, 0x01}},
		{Path: "res://scripts/a_enemy.gd", Kind: source.KindScript, Content: []byte(
			"extends Node\nclass_name Enemy\n")},
		{Path: "res://scripts/b_enemy.gd", Kind: source.KindScript, Content: []byte(
			"extends Node\nclass_name Enemy\n")},
	}

	e := NewEngine()
	res, err := e.Index(context.Background(), "demo", files)
	if err != nil {
		t.Fatal(err)
	}

	if res.Graph.NodeByID("scripts/a_enemy.gd") == nil {
		t.Fatal("node ID not canonicalized")
	}
	want := map[string]Severity{
		"scripts/corrupt.gd": SeverityError,
		"scripts/b_enemy.gd": SeverityWarning,
	}
	if len(res.Diagnostics) != len(want) {
		t.Fatalf("diagnostics = %v", res.Diagnostics)
	}
	for _, d := range res.Diagnostics {
		sev, ok := want[d.Path]
		if !ok {
			t.Errorf("diagnostic path %q does not match a node ID form", d.Path)
			continue
		}
		if d.Severity != sev {
			t.Errorf("diagnostic %q severity = %s, want %s", d.Path, d.Severity, sev)
		}
	}
}

func TestIndexIdempotent(t *testing.T) {
	e := NewEngine()
	first, err := e.Index(context.Background(), "demo", inventory())
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.Index(context.Background(), "demo", inventory())
	if err != nil {
		t.Fatal(err)
	}

	j1, _ := json.Marshal(first.Graph)
	j2, _ := json.Marshal(second.Graph)
	if string(j1) != string(j2) {
		t.Errorf("passes differ:\n%s\n%s", j1, j2)
	}
	if second.Stats.CacheHits != len(inventory()) {
		t.Errorf("cache hits = %d, want %d", second.Stats.CacheHits, len(inventory()))
	}
}

func TestIndexCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewEngine()
	if _, err := e.Index(ctx, "demo", inventory()); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func writeProject(t *testing.T, root string) {
	t.Helper()
	files := map[string]string{
		"player.gd": "extends Node\n",
		"main.tscn": "[gd_scene format=3]\n\n[node name=\"Main\" type=\"Node2D\"]\n",
	}
	for rel, content := range files {
		if err := os.WriteFile(filepath.Join(root, rel), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestIndexDir(t *testing.T) {
	root := t.TempDir()
	writeProject(t, root)

	e := NewEngine()
	res, err := e.IndexDir(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}
	if res.Stats.Files != 2 {
		t.Errorf("files = %d, want 2", res.Stats.Files)
	}
	if res.Graph.NodeByID("player.gd") == nil {
		t.Error("player node missing")
	}
}
