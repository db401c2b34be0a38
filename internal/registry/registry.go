// Package registry builds the derived lookup indices consumed by reference
// resolution. Both indices are rebuilt in full on every indexing pass and
// passed around as values — never shared process-wide — so concurrent passes
// over different projects cannot cross-contaminate.
package registry

import (
	"sort"

	"gdgraph/internal/gdscript"
)

// Functions maps a function name to every script path defining it.
// Ambiguity is preserved: a multiply-defined name keeps all its paths.
type Functions struct {
	byName map[string][]string
}

// BuildFunctions folds all script facts into a Functions index. Paths per
// name are sorted so the index is independent of enumeration order.
func BuildFunctions(facts []*gdscript.ScriptFact) Functions {
	byName := make(map[string][]string)
	for _, f := range facts {
		for _, fn := range f.Functions {
			byName[fn.Name] = append(byName[fn.Name], f.Path)
		}
	}
	for name, paths := range byName {
		sort.Strings(paths)
		byName[name] = dedupSorted(paths)
	}
	return Functions{byName: byName}
}

// Paths returns the script paths defining the given function name.
func (f Functions) Paths(name string) []string {
	return f.byName[name]
}

// Size returns the number of distinct function names indexed.
func (f Functions) Size() int {
	return len(f.byName)
}

// Types maps a declared class name to the single script defining it.
// A name declared by more than one script is poisoned: lookups against it
// resolve to nothing rather than guessing between the declarations.
type Types struct {
	byClass  map[string]string
	collided map[string]bool
	// Collisions records class names declared by more than one script.
	// The lexicographically first path is kept in the index for reporting.
	Collisions []Collision
}

// Collision is a duplicate class-name declaration.
type Collision struct {
	Class   string
	Kept    string
	Dropped string
}

// BuildTypes folds all script facts into a Types index. Facts are processed
// in sorted path order, so the kept path for a collision is deterministic.
func BuildTypes(facts []*gdscript.ScriptFact) Types {
	sorted := make([]*gdscript.ScriptFact, len(facts))
	copy(sorted, facts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	t := Types{byClass: make(map[string]string), collided: make(map[string]bool)}
	for _, f := range sorted {
		if f.ClassName == "" {
			continue
		}
		if kept, ok := t.byClass[f.ClassName]; ok {
			t.collided[f.ClassName] = true
			t.Collisions = append(t.Collisions, Collision{
				Class:   f.ClassName,
				Kept:    kept,
				Dropped: f.Path,
			})
			continue
		}
		t.byClass[f.ClassName] = f.Path
	}
	return t
}

// Path returns the script path defining the given class name. Collided
// names report not found.
func (t Types) Path(class string) (string, bool) {
	if t.collided[class] {
		return "", false
	}
	p, ok := t.byClass[class]
	return p, ok
}

// Size returns the number of distinct class names indexed.
func (t Types) Size() int {
	return len(t.byClass)
}

func dedupSorted(paths []string) []string {
	out := paths[:0]
	for i, p := range paths {
		if i == 0 || p != paths[i-1] {
			out = append(out, p)
		}
	}
	return out
}
