// Package gdscript extracts dependency facts from script files using
// independent best-effort pattern extractors. There is no AST: each fact
// category (inheritance, loads, functions, signals, lookups) is matched on
// its own, so unrecognized syntax in one category never fails another.
package gdscript

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	extendsRe   = regexp.MustCompile(`^extends\s+(?:"([^"]+)"|([A-Za-z_]\w*))`)
	classNameRe = regexp.MustCompile(`^class_name\s+([A-Za-z_]\w*)`)
	signalRe    = regexp.MustCompile(`^signal\s+([A-Za-z_]\w*)`)
	funcRe      = regexp.MustCompile(`^(\s*)(?:static\s+)?func\s+([A-Za-z_]\w*)\s*\((.*)\)\s*(?:->\s*([^:]+))?:`)
	loadRe      = regexp.MustCompile(`\b(preload|load)\s*\(\s*"([^"]+)"\s*\)`)
	varLoadRe   = regexp.MustCompile(`\bvar\s+([A-Za-z_]\w*)\s*(?::[^:=]*)?=\s*(?:preload|load)\s*\(\s*"([^"]+)"\s*\)`)
	getNodeRe   = regexp.MustCompile(`\bget_node\s*\(\s*"([^"]+)"\s*\)`)
	dollarRe    = regexp.MustCompile(`\$(?:"([^"]+)"|([A-Za-z_][\w/]*))`)
	callRe      = regexp.MustCompile(`([A-Za-z_][\w.]*)\s*\(`)
)

// callSkip holds tokens that look like calls but are syntax or load/lookup
// forms handled by their own extractors.
var callSkip = map[string]bool{
	"func": true, "if": true, "elif": true, "while": true, "for": true,
	"match": true, "return": true, "assert": true, "await": true, "yield": true,
	"not": true, "and": true, "or": true, "in": true,
	"preload": true, "load": true, "get_node": true,
}

// Parse extracts a ScriptFact from one script file's raw text.
// Binary or non-UTF-8 content is a file-level failure; everything else
// degrades to whatever facts the extractors could match.
func Parse(path string, content []byte) (*ScriptFact, error) {
	if bytes.IndexByte(content, 0) >= 0 || !utf8.Valid(content) {
		return nil, fmt.Errorf("parse %s: binary or non-text content", path)
	}

	fact := &ScriptFact{Path: path, VarLoads: make(map[string]string)}

	var cur *Function
	curIndent := -1
	sawExtends := false

	sc := bufio.NewScanner(bytes.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := stripComment(sc.Text())
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		indent := indentOf(line)

		// A non-blank line at or above the function's indent ends its body.
		if cur != nil && indent <= curIndent {
			fact.Functions = append(fact.Functions, *cur)
			cur = nil
		}

		if m := funcRe.FindStringSubmatch(line); m != nil {
			cur = &Function{
				Name:       m[2],
				Params:     parseParams(m[3]),
				ReturnType: strings.TrimSpace(m[4]),
			}
			curIndent = indent
			continue
		}

		extractLoads(fact, line)
		extractLookups(fact, trimmed, line)

		if indent == 0 {
			if !sawExtends {
				if m := extendsRe.FindStringSubmatch(trimmed); m != nil {
					if m[1] != "" {
						fact.Extends = m[1]
					} else {
						fact.Extends = m[2]
					}
					sawExtends = true
					continue
				}
			}
			if m := classNameRe.FindStringSubmatch(trimmed); m != nil {
				if fact.ClassName == "" {
					fact.ClassName = m[1]
				}
				continue
			}
			if m := signalRe.FindStringSubmatch(trimmed); m != nil {
				fact.Signals = append(fact.Signals, m[1])
				continue
			}
		}

		if cur != nil {
			extractCalls(cur, line)
		}
	}
	if cur != nil {
		fact.Functions = append(fact.Functions, *cur)
	}
	if err := sc.Err(); err != nil {
		fact.Warnings = append(fact.Warnings, fmt.Sprintf("scan stopped early: %v", err))
	}

	return fact, nil
}

// extractLoads records preload/load targets and local variable bindings.
// preload is bound at parse time (static); load only at call time (dynamic).
func extractLoads(fact *ScriptFact, line string) {
	for _, m := range varLoadRe.FindAllStringSubmatch(line, -1) {
		fact.VarLoads[m[1]] = m[2]
	}
	for _, m := range loadRe.FindAllStringSubmatch(line, -1) {
		if m[1] == "preload" {
			fact.StaticLoads = append(fact.StaticLoads, m[2])
		} else {
			fact.DynamicLoads = append(fact.DynamicLoads, m[2])
		}
	}
}

// extractLookups records get_node("...") and $Path lookups, classifying
// ready-time bindings separately.
func extractLookups(fact *ScriptFact, trimmed, line string) {
	onReady := strings.HasPrefix(trimmed, "@onready") || strings.HasPrefix(trimmed, "onready ")
	record := func(target string) {
		if target == "" {
			return
		}
		if onReady {
			fact.OnReadyLookups = append(fact.OnReadyLookups, target)
		} else {
			fact.NodeLookups = append(fact.NodeLookups, target)
		}
	}
	for _, m := range getNodeRe.FindAllStringSubmatch(line, -1) {
		record(m[1])
	}
	for _, m := range dollarRe.FindAllStringSubmatch(line, -1) {
		if m[1] != "" {
			record(m[1])
		} else {
			record(m[2])
		}
	}
}

// extractCalls records every identifier(...) or expr.identifier(...) in a
// function body line, verbatim. String literals are blanked first so call
// syntax inside them is not matched.
func extractCalls(fn *Function, line string) {
	clean := stripStrings(line)
	for _, m := range callRe.FindAllStringSubmatch(clean, -1) {
		name := m[1]
		if callSkip[name] {
			continue
		}
		fn.Calls = append(fn.Calls, name)
	}
}

// parseParams splits a parameter list on top-level commas and captures
// declared types, dropping default values.
func parseParams(s string) []Param {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])

	var out []Param
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		name, typ := p, ""
		if i := strings.Index(p, ":="); i >= 0 {
			name = p[:i] // inferred type, no hint
		} else if i := strings.IndexByte(p, ':'); i >= 0 {
			name = p[:i]
			rest := p[i+1:]
			if j := strings.IndexByte(rest, '='); j >= 0 {
				rest = rest[:j]
			}
			typ = strings.TrimSpace(rest)
		} else if i := strings.IndexByte(p, '='); i >= 0 {
			name = p[:i]
		}
		out = append(out, Param{Name: strings.TrimSpace(name), Type: typ})
	}
	return out
}

// stripComment drops a trailing # comment, honoring double-quoted strings.
func stripComment(line string) string {
	inStr := false
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '"':
			inStr = !inStr
		case '#':
			if !inStr {
				return line[:i]
			}
		}
	}
	return line
}

// stripStrings blanks out double-quoted string contents.
func stripStrings(line string) string {
	var b strings.Builder
	b.Grow(len(line))
	inStr := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == '"' {
			inStr = !inStr
			continue
		}
		if !inStr {
			b.WriteByte(c)
		}
	}
	return b.String()
}

func indentOf(line string) int {
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	return n
}
