package gdscript

import "strings"

// builtinTypes is the allow-list of engine built-in types. Hints that match
// never produce graph edges and terminate supertype-chain walks.
var builtinTypes = map[string]bool{
	"void": true, "bool": true, "int": true, "float": true,
	"String": true, "StringName": true, "NodePath": true, "Variant": true,
	"Vector2": true, "Vector2i": true, "Vector3": true, "Vector3i": true,
	"Vector4": true, "Vector4i": true, "Rect2": true, "Rect2i": true,
	"Transform2D": true, "Transform3D": true, "Basis": true,
	"Quaternion": true, "Plane": true, "AABB": true, "Color": true,
	"RID": true, "Signal": true, "Callable": true,
	"Array": true, "Dictionary": true,
	"PackedByteArray": true, "PackedInt32Array": true, "PackedInt64Array": true,
	"PackedFloat32Array": true, "PackedFloat64Array": true,
	"PackedStringArray": true, "PackedVector2Array": true, "PackedVector3Array": true,
	"PackedColorArray": true,
	"Object":           true, "RefCounted": true, "Reference": true, "Resource": true,
	"Node": true, "Node2D": true, "Node3D": true, "Spatial": true,
	"CanvasItem": true, "CanvasLayer": true, "Control": true, "Container": true,
	"KinematicBody2D": true, "CharacterBody2D": true, "CharacterBody3D": true,
	"StaticBody2D": true, "StaticBody3D": true, "RigidBody2D": true, "RigidBody3D": true,
	"Area2D": true, "Area3D": true, "CollisionShape2D": true, "CollisionShape3D": true,
	"Sprite": true, "Sprite2D": true, "Sprite3D": true, "AnimatedSprite2D": true,
	"Label": true, "Button": true, "TextureButton": true, "LineEdit": true,
	"TextEdit": true, "Panel": true, "PanelContainer": true, "VBoxContainer": true,
	"HBoxContainer": true, "GridContainer": true, "MarginContainer": true,
	"Timer": true, "Tween": true, "AnimationPlayer": true, "AudioStreamPlayer": true,
	"AudioStreamPlayer2D": true, "AudioStreamPlayer3D": true,
	"Camera2D": true, "Camera3D": true, "Viewport": true, "SubViewport": true,
	"SceneTree": true, "Texture": true, "Texture2D": true, "ImageTexture": true,
	"PackedScene": true, "Script": true, "GDScript": true, "Shader": true,
	"ShaderMaterial": true, "Material": true, "Mesh": true, "MeshInstance3D": true,
	"Path2D": true, "PathFollow2D": true, "NavigationAgent2D": true,
	"RayCast2D": true, "RayCast3D": true, "TileMap": true, "TileSet": true,
	"ProgressBar": true, "RichTextLabel": true, "ItemList": true, "OptionButton": true,
	"HTTPRequest": true, "FileAccess": true, "DirAccess": true, "ConfigFile": true,
	"JSON": true, "Mutex": true, "Thread": true, "Semaphore": true,
	"InputEvent": true, "InputEventKey": true, "InputEventMouseButton": true,
}

// IsBuiltinType reports whether a type hint names an engine built-in.
func IsBuiltinType(name string) bool {
	return builtinTypes[name]
}

// ElementType unwraps a container hint like "Array[Enemy]" to its element
// type. Hints without a container wrapper are returned unchanged.
func ElementType(hint string) string {
	hint = strings.TrimSpace(hint)
	open := strings.IndexByte(hint, '[')
	if open < 0 || !strings.HasSuffix(hint, "]") {
		return hint
	}
	return strings.TrimSpace(hint[open+1 : len(hint)-1])
}
