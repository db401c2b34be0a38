// Package resolve turns raw symbolic references — call targets, type hints,
// load paths — into candidate target scripts with confidence weights.
// Resolution is best effort: ambiguity fans out into multiple lower-weight
// candidates and unknown references resolve to nothing.
package resolve

import (
	"path"
	"strings"

	"gdgraph/internal/gdscript"
	"gdgraph/internal/registry"
)

// Call weights: a reference with exactly one target is near certain; one
// matching several definitions splits its confidence.
const (
	WeightCall          = 0.8
	WeightCallAmbiguous = 0.4
	WeightTypeHint      = 0.2
)

// Candidate is one possible resolution target.
type Candidate struct {
	Path   string
	Weight float64
}

// Resolver resolves references against one pass's immutable registries.
type Resolver struct {
	funcs   registry.Functions
	types   registry.Types
	scripts map[string]*gdscript.ScriptFact // keyed by canonical path
}

// New builds a Resolver over the given script facts and registries.
func New(scripts []*gdscript.ScriptFact, funcs registry.Functions, types registry.Types) *Resolver {
	byPath := make(map[string]*gdscript.ScriptFact, len(scripts))
	for _, s := range scripts {
		byPath[Canonical(s.Path)] = s
	}
	return &Resolver{funcs: funcs, types: types, scripts: byPath}
}

// Canonical normalizes a file reference so "res://scripts/a.gd" and
// "scripts/a.gd" address the same script.
func Canonical(p string) string {
	p = strings.TrimPrefix(strings.ReplaceAll(p, "\\", "/"), "res://")
	return path.Clean(p)
}

// Script returns the indexed script addressed by any path form, or nil.
func (r *Resolver) Script(p string) *gdscript.ScriptFact {
	return r.scripts[Canonical(p)]
}

// Call resolves one raw call target written inside fn of origin.
// Self and inherited calls resolve to nothing: they are not cross-file
// relationships.
func (r *Resolver) Call(origin *gdscript.ScriptFact, fn *gdscript.Function, raw string) []Candidate {
	if i := strings.LastIndexByte(raw, '.'); i >= 0 {
		receiver, method := raw[:i], raw[i+1:]
		if target, known := r.receiverTarget(origin, fn, receiver); known {
			// Receiver is known: the method either lives there or nowhere.
			// Builtin and unindexed receivers have no project functions.
			if target != nil && target.Path != origin.Path && target.DefinesFunction(method) {
				return []Candidate{{Path: target.Path, Weight: WeightCall}}
			}
			return nil
		}
		return r.bare(origin, method)
	}
	return r.bare(origin, raw)
}

// receiverTarget resolves a call receiver against the function's typed
// parameters, then the script's load-bound variables. The second return
// distinguishes a known receiver (even one resolving to no script, such as
// a builtin-typed parameter) from a name this resolver knows nothing about.
func (r *Resolver) receiverTarget(origin *gdscript.ScriptFact, fn *gdscript.Function, receiver string) (*gdscript.ScriptFact, bool) {
	if fn != nil {
		for _, p := range fn.Params {
			if p.Name != receiver || p.Type == "" {
				continue
			}
			elem := gdscript.ElementType(p.Type)
			if gdscript.IsBuiltinType(elem) {
				return nil, true
			}
			if tp, ok := r.types.Path(elem); ok {
				return r.Script(tp), true
			}
			return nil, true
		}
	}
	if target, ok := origin.VarLoads[receiver]; ok {
		return r.Script(target), true
	}
	return nil, false
}

// bare resolves an unqualified call name through the function registry,
// after checking the origin's own supertype chain.
func (r *Resolver) bare(origin *gdscript.ScriptFact, name string) []Candidate {
	if r.definedInChain(origin, name) {
		return nil
	}
	paths := r.funcs.Paths(name)
	var out []Candidate
	for _, p := range paths {
		if p == origin.Path {
			continue
		}
		out = append(out, Candidate{Path: p})
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		out[0].Weight = WeightCall
		return out
	default:
		for i := range out {
			out[i].Weight = WeightCallAmbiguous
		}
		return out
	}
}

// definedInChain reports whether the origin script or any script on its
// extends chain defines the function.
func (r *Resolver) definedInChain(origin *gdscript.ScriptFact, name string) bool {
	visited := make(map[string]bool)
	for cur := origin; cur != nil && !visited[cur.Path]; {
		visited[cur.Path] = true
		if cur.DefinesFunction(name) {
			return true
		}
		cur = r.Supertype(cur)
	}
	return false
}

// Supertype resolves a script's extends target to another indexed script,
// or nil for built-in bases and unindexed paths.
func (r *Resolver) Supertype(s *gdscript.ScriptFact) *gdscript.ScriptFact {
	ext := s.Extends
	if ext == "" {
		return nil
	}
	if strings.HasPrefix(ext, "res://") || strings.ContainsAny(ext, "/.") {
		return r.Script(ext)
	}
	if gdscript.IsBuiltinType(ext) {
		return nil
	}
	if tp, ok := r.types.Path(ext); ok {
		return r.Script(tp)
	}
	return nil
}

// TypeHint resolves a declared type hint to a project-defined class script.
// Built-in hints and unknown names resolve to nothing.
func (r *Resolver) TypeHint(hint string) (Candidate, bool) {
	elem := gdscript.ElementType(hint)
	if elem == "" || gdscript.IsBuiltinType(elem) {
		return Candidate{}, false
	}
	if tp, ok := r.types.Path(elem); ok {
		return Candidate{Path: tp, Weight: WeightTypeHint}, true
	}
	return Candidate{}, false
}
