package gdscript

// ScriptFact holds everything extracted from a single script file.
// Facts are pure data: one ScriptFact per file per indexing pass, never
// mutated after Parse returns.
type ScriptFact struct {
	Path      string
	ClassName string // declared via class_name, empty if absent
	Extends   string // type name or "res://..." path, empty if absent

	StaticLoads  []string // preload targets, bound at parse time
	DynamicLoads []string // load targets, bound at call time

	Functions []Function
	Signals   []string

	NodeLookups    []string // raw get_node / $ lookup paths
	OnReadyLookups []string // lookups bound at ready time

	// VarLoads maps a local variable name to the load target it was bound to
	// (var x = preload("res://a.gd")). Used for method-call receiver resolution.
	VarLoads map[string]string

	// Warnings from best-effort extraction; non-fatal.
	Warnings []string
}

// Function is one function definition with its outbound call sites.
type Function struct {
	Name       string
	Params     []Param
	ReturnType string
	Calls      []string // verbatim call targets: "name" or "recv.name"
}

// Param is a single declared parameter.
type Param struct {
	Name string
	Type string // declared type hint, empty if untyped
}

// DefinesFunction reports whether the script defines a function with the
// given name.
func (s *ScriptFact) DefinesFunction(name string) bool {
	for _, f := range s.Functions {
		if f.Name == name {
			return true
		}
	}
	return false
}

// DeclaresSignal reports whether the script declares a signal with the
// given name.
func (s *ScriptFact) DeclaresSignal(name string) bool {
	for _, sig := range s.Signals {
		if sig == name {
			return true
		}
	}
	return false
}
