package tscn

import (
	"strings"
	"testing"
)

const playerScene = `[gd_scene load_steps=4 format=3 uid="uid://b8x2k"]

[ext_resource type="Script" path="res://scripts/player.gd" id="1"]
[ext_resource type="PackedScene" path="res://scenes/sword.tscn" id="2"]

[node name="Player" type="CharacterBody2D"]
script = ExtResource("1")

[node name="Sprite2D" type="Sprite2D" parent="."]

[node name="Hitbox" type="Area2D" parent="Sprite2D"]

[node name="Sword" parent="." instance=ExtResource("2")]

[connection signal="body_entered" from="Sprite2D/Hitbox" to="." method="_on_hit"]
`

func parseScene(t *testing.T, src string) *SceneFact {
	t.Helper()
	fact, err := Parse("scenes/player.tscn", []byte(src))
	if err != nil {
		t.Fatal(err)
	}
	return fact
}

func TestParseScene(t *testing.T) {
	fact := parseScene(t, playerScene)

	if fact.SceneName != "Player" {
		t.Errorf("SceneName = %q, want Player", fact.SceneName)
	}
	if fact.NodeCount != 4 {
		t.Errorf("NodeCount = %d, want 4", fact.NodeCount)
	}
	if fact.ConnectionCount != 1 {
		t.Errorf("ConnectionCount = %d, want 1", fact.ConnectionCount)
	}
	if len(fact.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", fact.Warnings)
	}

	if got := fact.Resources["1"]; got != "res://scripts/player.gd" {
		t.Errorf("Resources[1] = %q", got)
	}
	if fact.Root == nil || fact.Root.ResourceID != "1" {
		t.Fatalf("root script resource = %+v", fact.Root)
	}

	sword := fact.NodeNamed("Sword")
	if sword == nil || sword.InstanceID != "2" {
		t.Fatalf("Sword instance = %+v", sword)
	}

	c := fact.Connections[0]
	if c.Signal != "body_entered" || c.From != "Sprite2D/Hitbox" || c.To != "." || c.Handler != "_on_hit" {
		t.Errorf("connection = %+v", c)
	}
}

func TestNodeByPath(t *testing.T) {
	fact := parseScene(t, playerScene)

	for _, path := range []string{".", "", "Player"} {
		if n := fact.NodeByPath(path); n != fact.Root {
			t.Errorf("NodeByPath(%q) = %v, want root", path, n)
		}
	}
	if n := fact.NodeByPath("Sprite2D/Hitbox"); n == nil || n.Name != "Hitbox" {
		t.Errorf("NodeByPath(Sprite2D/Hitbox) = %+v", n)
	}
	if n := fact.NodeByPath("Sprite2D/Missing"); n != nil {
		t.Errorf("NodeByPath(Sprite2D/Missing) = %+v, want nil", n)
	}
}

func TestParseSceneBrokenResourceTable(t *testing.T) {
	src := `[gd_scene format=3]

[ext_resource type="Script" path="res://a.gd"]

[node name="Root" type="Node2D"]
`
	if _, err := Parse("broken.tscn", []byte(src)); err == nil {
		t.Fatal("expected error for ext_resource without id")
	}
}

func TestParseSceneHierarchyWarnings(t *testing.T) {
	src := `[gd_scene format=3]

[node name="Root" type="Node2D"]

[node name="Orphan" type="Node2D" parent="Missing/Parent"]

[node name="Second" type="Node2D"]
`
	fact := parseScene(t, src)
	if fact.NodeCount != 1 {
		t.Errorf("NodeCount = %d, want 1", fact.NodeCount)
	}
	if len(fact.Warnings) != 2 {
		t.Fatalf("Warnings = %v, want 2", fact.Warnings)
	}
	if !strings.Contains(fact.Warnings[0], "unknown parent") {
		t.Errorf("warning[0] = %q", fact.Warnings[0])
	}
	if !strings.Contains(fact.Warnings[1], "extra root") {
		t.Errorf("warning[1] = %q", fact.Warnings[1])
	}
}

func TestParseSceneNoHierarchy(t *testing.T) {
	fact := parseScene(t, `[gd_scene format=3]

[ext_resource type="Script" path="res://a.gd" id="1"]
`)
	if fact.SceneName != "player" {
		t.Errorf("SceneName = %q, want file stem fallback", fact.SceneName)
	}
	if len(fact.Warnings) != 1 {
		t.Errorf("Warnings = %v", fact.Warnings)
	}
}

func TestParseSceneNotADescriptor(t *testing.T) {
	if _, err := Parse("x.tscn", []byte("just some text\n")); err == nil {
		t.Fatal("expected error for file without sections")
	}
	if _, err := Parse("y.tscn", []byte{0x00, 0x01}); err == nil {
		t.Fatal("expected error for binary content")
	}
}

func TestParseConnectionMissingAttrs(t *testing.T) {
	fact := parseScene(t, `[gd_scene format=3]

[node name="Root" type="Node2D"]

[connection signal="hit" from="."]
`)
	if len(fact.Connections) != 0 {
		t.Errorf("Connections = %v, want none", fact.Connections)
	}
	if len(fact.Warnings) != 1 {
		t.Errorf("Warnings = %v, want 1", fact.Warnings)
	}
}
