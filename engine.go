// Package gdgraph indexes a game project's scripts and scene descriptors
// into a typed, weighted dependency graph.
package gdgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"

	"gdgraph/internal/gdscript"
	"gdgraph/internal/graph"
	"gdgraph/internal/registry"
	"gdgraph/internal/resolve"
	"gdgraph/internal/source"
	"gdgraph/internal/tscn"
)

const defaultCacheSize = 4096

// Engine runs indexing passes. One Engine handles any number of projects;
// passes over the same project are serialized, passes over different
// projects run independently.
type Engine struct {
	workers int
	cache   *lru.Cache[uint64, parsed]

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers caps the number of parallel parse workers.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithCacheSize sets the parse-cache capacity in entries.
func WithCacheSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			cache, err := lru.New[uint64, parsed](n)
			if err == nil {
				e.cache = cache
			}
		}
	}
}

// NewEngine creates an Engine with the given options.
func NewEngine(opts ...Option) *Engine {
	cache, _ := lru.New[uint64, parsed](defaultCacheSize)
	e := &Engine{
		workers: runtime.NumCPU(),
		cache:   cache,
		locks:   make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Stats summarizes one indexing pass.
type Stats struct {
	Files     int           `json:"files"`
	Scripts   int           `json:"scripts"`
	Scenes    int           `json:"scenes"`
	Functions int           `json:"functions"`
	Types     int           `json:"types"`
	Nodes     int           `json:"nodes"`
	Edges     int           `json:"edges"`
	CacheHits int           `json:"cache_hits"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Result is the output of one indexing pass.
type Result struct {
	Graph       *graph.Graph       `json:"graph"`
	Diagnostics []graph.Diagnostic `json:"diagnostics"`
	Stats       Stats              `json:"stats"`
}

// WriteJSON writes the result as indented JSON.
func (r *Result) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// IndexDir discovers, loads, and indexes the project rooted at root.
func (e *Engine) IndexDir(ctx context.Context, root string) (*Result, error) {
	cfg, err := source.LoadConfig(root)
	if err != nil {
		return nil, err
	}
	files, err := source.Scan(ctx, root, cfg)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	return e.Index(ctx, root, files)
}

// Index runs one full pass over the given inventory. The project key
// identifies the project for serialization; concurrent Index calls with the
// same key queue behind each other.
func (e *Engine) Index(ctx context.Context, project string, files []source.File) (*Result, error) {
	lock := e.projectLock(project)
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()
	slog.Info("pass.start", "project", project, "files", len(files))

	results, hits, err := e.parseAll(ctx, files)
	if err != nil {
		return nil, err
	}
	slog.Info("pass.timing", "pass", "parse", "elapsed", time.Since(start))

	var scripts []*gdscript.ScriptFact
	var scenes []*tscn.SceneFact
	var diags []graph.Diagnostic
	for i, r := range results {
		switch {
		case r.err != nil:
			// The file is dropped from the pass, never the pass from the file.
			slog.Warn("parse.file.err", "path", files[i].Path, "err", r.err)
			diags = append(diags, graph.Diagnostic{
				Severity: graph.SeverityError,
				Path:     resolve.Canonical(files[i].Path),
				Message:  r.err.Error(),
			})
		case r.script != nil:
			scripts = append(scripts, r.script)
		case r.scene != nil:
			scenes = append(scenes, r.scene)
		}
	}

	t := time.Now()
	funcs := registry.BuildFunctions(scripts)
	types := registry.BuildTypes(scripts)
	// Diagnostic paths match graph node IDs, whatever path form the
	// inventory used.
	for _, c := range types.Collisions {
		diags = append(diags, graph.Diagnostic{
			Severity: graph.SeverityWarning,
			Path:     resolve.Canonical(c.Dropped),
			Message:  fmt.Sprintf("class %s already declared by %s", c.Class, resolve.Canonical(c.Kept)),
		})
	}
	slog.Info("pass.timing", "pass", "registry", "elapsed", time.Since(t))

	t = time.Now()
	g, buildDiags := graph.Build(graph.Input{
		Scripts:   scripts,
		Scenes:    scenes,
		Functions: funcs,
		Types:     types,
	})
	diags = append(diags, buildDiags...)
	sort.SliceStable(diags, func(i, j int) bool {
		if diags[i].Path != diags[j].Path {
			return diags[i].Path < diags[j].Path
		}
		return diags[i].Message < diags[j].Message
	})
	slog.Info("pass.timing", "pass", "graph", "elapsed", time.Since(t))

	res := &Result{
		Graph:       g,
		Diagnostics: diags,
		Stats: Stats{
			Files:     len(files),
			Scripts:   len(scripts),
			Scenes:    len(scenes),
			Functions: funcs.Size(),
			Types:     types.Size(),
			Nodes:     len(g.Nodes),
			Edges:     len(g.Edges),
			CacheHits: hits,
			Elapsed:   time.Since(start),
		},
	}
	slog.Info("pass.done", "project", project,
		"nodes", res.Stats.Nodes, "edges", res.Stats.Edges,
		"diagnostics", len(diags), "elapsed", res.Stats.Elapsed)
	return res, nil
}

// parsed is one file's extraction outcome, shared through the parse cache.
type parsed struct {
	script *gdscript.ScriptFact
	scene  *tscn.SceneFact
	err    error
}

// parseAll runs stage 1: parallel, CPU-bound extraction with no shared
// state beyond the cache. Results land at their input index.
func (e *Engine) parseAll(ctx context.Context, files []source.File) ([]parsed, int, error) {
	results := make([]parsed, len(files))
	var hits atomic.Int64

	workers := e.workers
	if workers > len(files) {
		workers = len(files)
	}
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			key := cacheKey(f)
			if v, ok := e.cache.Get(key); ok {
				hits.Add(1)
				results[i] = v
				return nil
			}
			results[i] = parseFile(f)
			e.cache.Add(key, results[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return results, int(hits.Load()), nil
}

func parseFile(f source.File) parsed {
	switch f.Kind {
	case source.KindScene:
		fact, err := tscn.Parse(f.Path, f.Content)
		return parsed{scene: fact, err: err}
	default:
		fact, err := gdscript.Parse(f.Path, f.Content)
		return parsed{script: fact, err: err}
	}
}

// cacheKey hashes path and content together: facts embed their path, so
// identical content under two paths must not share an entry.
func cacheKey(f source.File) uint64 {
	h := xxh3.New()
	_, _ = h.WriteString(f.Path)
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(f.Content)
	return h.Sum64()
}

func (e *Engine) projectLock(project string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.locks[project]
	if !ok {
		l = &sync.Mutex{}
		e.locks[project] = l
	}
	return l
}
