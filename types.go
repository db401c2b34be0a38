package gdgraph

import (
	"gdgraph/internal/gdscript"
	"gdgraph/internal/graph"
	"gdgraph/internal/source"
	"gdgraph/internal/tscn"
)

// Re-exported types so callers only import the root package.
type (
	Graph      = graph.Graph
	Node       = graph.Node
	Edge       = graph.Edge
	Diagnostic = graph.Diagnostic
	Severity   = graph.Severity
	Direction  = graph.Direction
	Reached    = graph.Reached

	ScriptFact = gdscript.ScriptFact
	SceneFact  = tscn.SceneFact

	File   = source.File
	Config = source.Config
)

// Node kinds.
const (
	KindScript = graph.KindScript
	KindScene  = graph.KindScene
)

// Edge types.
const (
	EdgeSceneScript   = graph.EdgeSceneScript
	EdgeSceneInstance = graph.EdgeSceneInstance
	EdgeExtends       = graph.EdgeExtends
	EdgeSignalConnect = graph.EdgeSignalConnect
	EdgeCalls         = graph.EdgeCalls
	EdgePreload       = graph.EdgePreload
	EdgeSignal        = graph.EdgeSignal
	EdgeLoad          = graph.EdgeLoad
	EdgeOnReady       = graph.EdgeOnReady
	EdgeGetNode       = graph.EdgeGetNode
	EdgeTypeHint      = graph.EdgeTypeHint
)

// Diagnostic severities.
const (
	SeverityWarning = graph.SeverityWarning
	SeverityError   = graph.SeverityError
)

// Traversal directions.
const (
	Outbound = graph.Outbound
	Inbound  = graph.Inbound
	Both     = graph.Both
)
