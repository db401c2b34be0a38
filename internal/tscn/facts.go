package tscn

// SceneFact holds everything extracted from one scene descriptor file.
type SceneFact struct {
	Path      string
	SceneName string

	// Resources maps the scene's internal resource IDs to external paths.
	// All script and sub-scene references inside the scene go through it.
	Resources map[string]string

	Root  *Node
	Nodes []*Node // flat, document order

	Connections []Connection

	NodeCount       int
	ConnectionCount int

	// Warnings from partial hierarchy extraction; non-fatal.
	Warnings []string
}

// Node is one entry in the scene hierarchy.
type Node struct {
	Name       string
	ParentPath string // "" for root, "." for children of root
	ResourceID string // attached script resource ID, empty if none
	InstanceID string // instanced sub-scene resource ID, empty if none
	Children   []*Node
}

// Connection is one signal wiring declared by the scene.
type Connection struct {
	Signal  string
	From    string // source node path
	To      string // target node path
	Handler string // handler method name on the target
}

// NodeByPath resolves a scene-local node path ("." or "Name" or "A/B") to a
// hierarchy node. The root is addressed by ".", its own name, or "".
func (s *SceneFact) NodeByPath(path string) *Node {
	if s.Root == nil {
		return nil
	}
	if path == "" || path == "." || path == s.Root.Name {
		return s.Root
	}
	cur := s.Root
	for _, seg := range splitPath(path) {
		next := childNamed(cur, seg)
		if next == nil {
			return nil
		}
		cur = next
	}
	return cur
}

// NodeNamed returns the first hierarchy node with the given name, in
// document order.
func (s *SceneFact) NodeNamed(name string) *Node {
	for _, n := range s.Nodes {
		if n.Name == name {
			return n
		}
	}
	return nil
}

func childNamed(n *Node, name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func splitPath(path string) []string {
	var segs []string
	start := 0
	for i := 0; i <= len(path); i++ {
		if i == len(path) || path[i] == '/' {
			if i > start {
				segs = append(segs, path[start:i])
			}
			start = i + 1
		}
	}
	return segs
}
