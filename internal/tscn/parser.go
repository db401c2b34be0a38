// Package tscn extracts dependency facts from scene descriptor files.
// The resource table ([ext_resource] sections) is built first: node
// attachments and sub-scene instances reference external files only through
// internal resource IDs, so a scene without its table cannot be attributed
// and fails as a whole. Hierarchy problems degrade to a partial fact.
package tscn

import (
	"bufio"
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	sectionRe     = regexp.MustCompile(`^\[(\w+)(?:\s+(.*?))?\s*\]$`)
	attrRe        = regexp.MustCompile(`(\w+)=("[^"]*"|[^\s\]]+)`)
	extResourceRe = regexp.MustCompile(`ExtResource\(\s*"?([^")\s]+)"?\s*\)`)
)

// Parse extracts a SceneFact from one scene file's raw text.
func Parse(path string, content []byte) (*SceneFact, error) {
	if bytes.IndexByte(content, 0) >= 0 || !utf8.Valid(content) {
		return nil, fmt.Errorf("parse %s: binary or non-text content", path)
	}

	fact := &SceneFact{Path: path, Resources: make(map[string]string)}

	sections, err := splitSections(content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	// Pass 1: the resource table. A malformed entry is fatal — every node
	// attachment in the file depends on it.
	for _, sec := range sections {
		if sec.kind != "ext_resource" {
			continue
		}
		id, target := sec.attrs["id"], sec.attrs["path"]
		if id == "" || target == "" {
			return nil, fmt.Errorf("parse %s: ext_resource missing id or path", fact.Path)
		}
		fact.Resources[id] = target
	}

	// Pass 2: node hierarchy and signal connections.
	byPath := make(map[string]*Node)
	for _, sec := range sections {
		switch sec.kind {
		case "node":
			parseNode(fact, sec, byPath)
		case "connection":
			parseConnection(fact, sec)
		}
	}

	if fact.Root != nil {
		fact.SceneName = fact.Root.Name
	} else {
		fact.SceneName = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		fact.Warnings = append(fact.Warnings, "no node hierarchy")
	}
	fact.NodeCount = len(fact.Nodes)
	fact.ConnectionCount = len(fact.Connections)

	return fact, nil
}

// section is one [kind key=value ...] header plus its body lines.
type section struct {
	kind  string
	attrs map[string]string
	body  []string
}

// splitSections scans the file into header sections. A file with no
// recognizable section at all is not a scene descriptor.
func splitSections(content []byte) ([]*section, error) {
	var sections []*section
	var cur *section

	sc := bufio.NewScanner(bytes.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		if m := sectionRe.FindStringSubmatch(line); m != nil {
			cur = &section{kind: m[1], attrs: parseAttrs(m[2])}
			sections = append(sections, cur)
			continue
		}
		if cur != nil {
			cur.body = append(cur.body, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return nil, fmt.Errorf("no descriptor sections found")
	}
	return sections, nil
}

func parseAttrs(s string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range attrRe.FindAllStringSubmatch(s, -1) {
		attrs[m[1]] = strings.Trim(m[2], `"`)
	}
	return attrs
}

// parseNode adds one hierarchy node, attaching script and instance resource
// IDs. An unplaceable node degrades to a warning, not a failure.
func parseNode(fact *SceneFact, sec *section, byPath map[string]*Node) {
	name := sec.attrs["name"]
	if name == "" {
		fact.Warnings = append(fact.Warnings, "node section missing name")
		return
	}

	n := &Node{Name: name}
	if m := extResourceRe.FindStringSubmatch(sec.attrs["instance"]); m != nil {
		n.InstanceID = m[1]
	}
	for _, line := range sec.body {
		if !strings.HasPrefix(line, "script") {
			continue
		}
		if m := extResourceRe.FindStringSubmatch(line); m != nil {
			n.ResourceID = m[1]
			if _, ok := fact.Resources[n.ResourceID]; !ok {
				fact.Warnings = append(fact.Warnings,
					fmt.Sprintf("node %q references unknown resource id %s", name, n.ResourceID))
			}
		}
	}

	parent, hasParent := sec.attrs["parent"]
	if !hasParent {
		if fact.Root != nil {
			fact.Warnings = append(fact.Warnings, fmt.Sprintf("extra root node %q ignored", name))
			return
		}
		fact.Root = n
		fact.Nodes = append(fact.Nodes, n)
		byPath[""] = n
		byPath["."] = n
		return
	}

	n.ParentPath = parent
	p, ok := byPath[parent]
	if !ok {
		fact.Warnings = append(fact.Warnings,
			fmt.Sprintf("node %q has unknown parent %q", name, parent))
		return
	}
	p.Children = append(p.Children, n)
	fact.Nodes = append(fact.Nodes, n)

	if parent == "." {
		byPath[name] = n
	} else {
		byPath[parent+"/"+name] = n
	}
}

// parseConnection records one signal wiring; incomplete declarations degrade
// to a warning.
func parseConnection(fact *SceneFact, sec *section) {
	c := Connection{
		Signal:  sec.attrs["signal"],
		From:    sec.attrs["from"],
		To:      sec.attrs["to"],
		Handler: sec.attrs["method"],
	}
	if c.Signal == "" || c.From == "" || c.To == "" || c.Handler == "" {
		fact.Warnings = append(fact.Warnings, "connection section missing attributes")
		return
	}
	fact.Connections = append(fact.Connections, c)
}
