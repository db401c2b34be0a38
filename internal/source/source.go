// Package source discovers and loads the project files one indexing pass
// consumes: scripts and scene descriptors, classified by extension.
package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind classifies an inventory file.
type Kind string

const (
	KindScript Kind = "script"
	KindScene  Kind = "scene"
)

// File is one discovered project file with its content loaded.
type File struct {
	Path    string // relative to the project root, slash-separated
	Kind    Kind
	Content []byte
}

// defaultIgnoreDirs are directory names skipped during discovery.
var defaultIgnoreDirs = map[string]bool{
	".git": true, ".hg": true, ".svn": true, ".idea": true, ".vscode": true,
	".import": true, ".godot": true, ".tmp": true,
	"addons": true, "build": true, "dist": true, "node_modules": true,
}

// Config controls which files discovery picks up. Zero-value fields fall
// back to the defaults.
type Config struct {
	ScriptExtensions []string `yaml:"script_extensions"`
	SceneExtensions  []string `yaml:"scene_extensions"`
	IgnoreDirs       []string `yaml:"ignore_dirs"`
}

// DefaultConfig returns the built-in discovery configuration.
func DefaultConfig() Config {
	return Config{
		ScriptExtensions: []string{".gd"},
		SceneExtensions:  []string{".tscn", ".escn"},
	}
}

// LoadConfig reads gdgraph.yml from the project root, merged over the
// defaults. A missing file is not an error.
func LoadConfig(root string) (Config, error) {
	cfg := DefaultConfig()
	raw, err := os.ReadFile(filepath.Join(root, "gdgraph.yml"))
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	var file Config
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if len(file.ScriptExtensions) > 0 {
		cfg.ScriptExtensions = file.ScriptExtensions
	}
	if len(file.SceneExtensions) > 0 {
		cfg.SceneExtensions = file.SceneExtensions
	}
	cfg.IgnoreDirs = file.IgnoreDirs
	return cfg, nil
}

// Scan walks the project root and loads every script and scene file,
// sorted by path. Unreadable files are skipped.
func Scan(ctx context.Context, root string, cfg Config) ([]File, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	kinds := make(map[string]Kind)
	for _, ext := range cfg.ScriptExtensions {
		kinds[ext] = KindScript
	}
	for _, ext := range cfg.SceneExtensions {
		kinds[ext] = KindScene
	}

	var files []File
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && shouldSkipDir(d.Name(), cfg.IgnoreDirs) {
				return filepath.SkipDir
			}
			return nil
		}

		kind, ok := kinds[strings.ToLower(filepath.Ext(path))]
		if !ok {
			return nil
		}
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}
		rel, _ := filepath.Rel(root, path)
		files = append(files, File{
			Path:    filepath.ToSlash(rel),
			Kind:    kind,
			Content: content,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func shouldSkipDir(name string, extra []string) bool {
	if defaultIgnoreDirs[name] {
		return true
	}
	for _, pattern := range extra {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}
