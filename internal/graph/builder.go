package graph

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"gdgraph/internal/gdscript"
	"gdgraph/internal/registry"
	"gdgraph/internal/resolve"
	"gdgraph/internal/tscn"
)

// Fixed weights per edge type. Call and type-hint weights come from the
// resolver, which owns the ambiguity fan-out.
const (
	weightExtends       = 1.0
	weightSceneScript   = 1.5
	weightSceneInstance = 1.2
	weightPreload       = 0.7
	weightLoad          = 0.5
	weightSignalConnect = 0.9
	weightSignal        = 0.6
	weightLookup        = 0.3
)

// Input is the fact set one indexing pass feeds the builder.
type Input struct {
	Scripts   []*gdscript.ScriptFact
	Scenes    []*tscn.SceneFact
	Functions registry.Functions
	Types     registry.Types
}

// Build folds the extracted facts into a graph. Build is pure: the same
// input produces the same graph regardless of slice order, and no shared
// state survives between calls.
func Build(in Input) (*Graph, []Diagnostic) {
	b := &builder{
		res:  resolve.New(in.Scripts, in.Functions, in.Types),
		byID: make(map[string]*Node),
		seen: make(map[edgeKey]bool),
	}

	scripts := make([]*gdscript.ScriptFact, len(in.Scripts))
	copy(scripts, in.Scripts)
	sort.Slice(scripts, func(i, j int) bool { return scripts[i].Path < scripts[j].Path })
	scenes := make([]*tscn.SceneFact, len(in.Scenes))
	copy(scenes, in.Scenes)
	sort.Slice(scenes, func(i, j int) bool { return scenes[i].Path < scenes[j].Path })

	for _, s := range scripts {
		b.addNode(&Node{
			ID:    resolve.Canonical(s.Path),
			Kind:  KindScript,
			Label: scriptLabel(s),
			Metadata: map[string]any{
				"functions": len(s.Functions),
				"signals":   len(s.Signals),
			},
		})
		b.warn(s.Path, s.Warnings)
	}
	for _, sc := range scenes {
		b.addNode(&Node{
			ID:    resolve.Canonical(sc.Path),
			Kind:  KindScene,
			Label: sc.SceneName,
			Metadata: map[string]any{
				"nodes":       sc.NodeCount,
				"connections": sc.ConnectionCount,
			},
		})
		b.warn(sc.Path, sc.Warnings)
	}

	for _, s := range scripts {
		b.scriptEdges(s)
	}
	for _, sc := range scenes {
		b.sceneEdges(sc)
	}
	b.breakInheritanceCycles()

	return New(b.nodes, b.edges), b.diags
}

type edgeKey struct {
	from, to, typ string
}

type builder struct {
	res   *resolve.Resolver
	nodes []*Node
	byID  map[string]*Node
	edges []*Edge
	seen  map[edgeKey]bool
	diags []Diagnostic
}

func (b *builder) addNode(n *Node) {
	if _, ok := b.byID[n.ID]; ok {
		return
	}
	b.byID[n.ID] = n
	b.nodes = append(b.nodes, n)
}

// addEdge records one edge if both endpoints exist. Self-references and
// repeats of an already recorded (from, to, type) triple are dropped, so
// the first resolution of a pair wins.
func (b *builder) addEdge(from, to, typ string, weight float64) {
	from, to = resolve.Canonical(from), resolve.Canonical(to)
	if from == to {
		return
	}
	if b.byID[from] == nil || b.byID[to] == nil {
		return
	}
	key := edgeKey{from, to, typ}
	if b.seen[key] {
		return
	}
	b.seen[key] = true
	b.edges = append(b.edges, &Edge{From: from, To: to, Type: typ, Weight: weight})
}

func (b *builder) warn(path string, warnings []string) {
	for _, w := range warnings {
		b.diags = append(b.diags, Diagnostic{
			Severity: SeverityWarning,
			Path:     resolve.Canonical(path),
			Message:  w,
		})
	}
}

// scriptEdges emits every edge originating from one script.
func (b *builder) scriptEdges(s *gdscript.ScriptFact) {
	if target := b.res.Supertype(s); target != nil {
		b.addEdge(s.Path, target.Path, EdgeExtends, weightExtends)
	}
	for _, p := range s.StaticLoads {
		b.addEdge(s.Path, p, EdgePreload, weightPreload)
	}
	for _, p := range s.DynamicLoads {
		b.addEdge(s.Path, p, EdgeLoad, weightLoad)
	}
	for i := range s.Functions {
		fn := &s.Functions[i]
		for _, raw := range fn.Calls {
			for _, c := range b.res.Call(s, fn, raw) {
				b.addEdge(s.Path, c.Path, EdgeCalls, c.Weight)
			}
		}
		for _, p := range fn.Params {
			b.typeHintEdge(s, p.Type)
		}
		b.typeHintEdge(s, fn.ReturnType)
	}
}

func (b *builder) typeHintEdge(s *gdscript.ScriptFact, hint string) {
	if hint == "" {
		return
	}
	if c, ok := b.res.TypeHint(hint); ok {
		b.addEdge(s.Path, c.Path, EdgeTypeHint, c.Weight)
	}
}

// sceneEdges emits attachment, instancing, signal, and node-lookup edges
// for one scene.
func (b *builder) sceneEdges(sc *tscn.SceneFact) {
	for _, n := range sc.Nodes {
		if target := b.resource(sc, n.ResourceID); target != "" && b.kindOf(target) == KindScript {
			b.addEdge(sc.Path, target, EdgeSceneScript, weightSceneScript)
		}
		if target := b.resource(sc, n.InstanceID); target != "" && b.kindOf(target) == KindScene {
			b.addEdge(sc.Path, target, EdgeSceneInstance, weightSceneInstance)
		}
	}

	for _, c := range sc.Connections {
		src := b.attachedScript(sc, sc.NodeByPath(c.From))
		tgt := b.attachedScript(sc, sc.NodeByPath(c.To))
		if tgt != nil && tgt.DefinesFunction(c.Handler) {
			b.addEdge(sc.Path, tgt.Path, EdgeSignalConnect, weightSignalConnect)
		}
		if src != nil && tgt != nil && src.DeclaresSignal(c.Signal) {
			b.addEdge(src.Path, tgt.Path, EdgeSignal, weightSignal)
		}
	}

	// Node lookups only resolve inside a scene this script is attached to:
	// the lookup's final segment must name a node there, and that node must
	// itself carry a script.
	for _, n := range sc.Nodes {
		s := b.attachedScript(sc, n)
		if s == nil {
			continue
		}
		for _, lookup := range s.OnReadyLookups {
			b.lookupEdge(sc, s, lookup, EdgeOnReady)
		}
		for _, lookup := range s.NodeLookups {
			b.lookupEdge(sc, s, lookup, EdgeGetNode)
		}
	}
}

func (b *builder) lookupEdge(sc *tscn.SceneFact, s *gdscript.ScriptFact, lookup, typ string) {
	name := path.Base(lookup)
	if name == "." || name == ".." || name == "/" {
		return
	}
	target := b.attachedScript(sc, sc.NodeNamed(name))
	if target == nil {
		return
	}
	b.addEdge(s.Path, target.Path, typ, weightLookup)
}

func (b *builder) resource(sc *tscn.SceneFact, id string) string {
	if id == "" {
		return ""
	}
	p, ok := sc.Resources[id]
	if !ok {
		return ""
	}
	return resolve.Canonical(p)
}

func (b *builder) kindOf(id string) string {
	n := b.byID[id]
	if n == nil {
		return ""
	}
	return n.Kind
}

func (b *builder) attachedScript(sc *tscn.SceneFact, n *tscn.Node) *gdscript.ScriptFact {
	if n == nil || n.ResourceID == "" {
		return nil
	}
	p, ok := sc.Resources[n.ResourceID]
	if !ok {
		return nil
	}
	return b.res.Script(p)
}

func scriptLabel(s *gdscript.ScriptFact) string {
	if s.ClassName != "" {
		return s.ClassName
	}
	return path.Base(resolve.Canonical(s.Path))
}

// breakInheritanceCycles finds strongly connected components of the extends
// relation, removes the edges inside each, and reports the member files.
// Every other edge type tolerates cycles.
func (b *builder) breakInheritanceCycles() {
	adj := make(map[string][]string)
	for _, e := range b.edges {
		if e.Type == EdgeExtends {
			adj[e.From] = append(adj[e.From], e.To)
		}
	}
	if len(adj) == 0 {
		return
	}

	cyclic := make(map[string]int) // node -> cycle group
	for i, comp := range stronglyConnected(adj) {
		if len(comp) < 2 {
			continue
		}
		sort.Strings(comp)
		for _, id := range comp {
			cyclic[id] = i
		}
		b.diags = append(b.diags, Diagnostic{
			Severity: SeverityError,
			Path:     comp[0],
			Message:  fmt.Sprintf("inheritance cycle: %s", strings.Join(comp, " -> ")),
		})
	}
	if len(cyclic) == 0 {
		return
	}

	kept := b.edges[:0]
	for _, e := range b.edges {
		gFrom, okFrom := cyclic[e.From]
		gTo, okTo := cyclic[e.To]
		if e.Type == EdgeExtends && okFrom && okTo && gFrom == gTo {
			continue
		}
		kept = append(kept, e)
	}
	b.edges = kept
}

// stronglyConnected runs Tarjan's algorithm over the given adjacency map.
// Roots are visited in sorted order so component numbering is stable.
func stronglyConnected(adj map[string][]string) [][]string {
	ids := make([]string, 0, len(adj))
	for id := range adj {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	index := make(map[string]int)
	low := make(map[string]int)
	onStack := make(map[string]bool)
	var stack []string
	var comps [][]string
	next := 0

	var visit func(id string)
	visit = func(id string) {
		index[id] = next
		low[id] = next
		next++
		stack = append(stack, id)
		onStack[id] = true

		for _, to := range adj[id] {
			if _, seen := index[to]; !seen {
				visit(to)
				if low[to] < low[id] {
					low[id] = low[to]
				}
			} else if onStack[to] && index[to] < low[id] {
				low[id] = index[to]
			}
		}

		if low[id] == index[id] {
			var comp []string
			for {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[top] = false
				comp = append(comp, top)
				if top == id {
					break
				}
			}
			comps = append(comps, comp)
		}
	}

	for _, id := range ids {
		if _, seen := index[id]; !seen {
			visit(id)
		}
	}
	return comps
}
