// Command gdgraph indexes a game project into a dependency graph and
// queries the result.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"gdgraph"
	"gdgraph/internal/store"
)

var (
	flagDB      string
	flagVerbose bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "gdgraph",
	Short:         "Index scripts and scenes into a weighted dependency graph",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if flagVerbose {
			level = slog.LevelInfo
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (default: .gdgraph/index.db under the project root)")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "log pass timings")

	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(queryCmd)
}

var flagJSON bool

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Index a project directory",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&flagJSON, "json", false, "write the full result to stdout as JSON")
}

func runIndex(cmd *cobra.Command, args []string) error {
	root, err := targetDir(args)
	if err != nil {
		return err
	}

	engine := gdgraph.NewEngine()
	res, err := engine.IndexDir(cmd.Context(), root)
	if err != nil {
		return err
	}

	s, err := openStore(root)
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.SaveGraph(projectName(root), root, res.Graph, res.Diagnostics); err != nil {
		return fmt.Errorf("save graph: %w", err)
	}

	if flagJSON {
		return res.WriteJSON(os.Stdout)
	}
	fmt.Printf("indexed %d files: %d nodes, %d edges, %d diagnostics (%s)\n",
		res.Stats.Files, res.Stats.Nodes, res.Stats.Edges, len(res.Diagnostics), res.Stats.Elapsed.Round(time.Millisecond))
	for _, d := range res.Diagnostics {
		fmt.Printf("  %s %s: %s\n", d.Severity, d.Path, d.Message)
	}
	return nil
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query a stored graph",
}

var (
	flagTypes     string
	flagMinWeight float64
	flagHops      int
	flagDirection string
)

func init() {
	queryCmd.PersistentFlags().StringVar(&flagTypes, "types", "", "comma-separated edge type filter")
	queryCmd.PersistentFlags().Float64Var(&flagMinWeight, "min-weight", 0, "minimum edge weight")

	queryCmd.AddCommand(edgesCmd)
	queryCmd.AddCommand(reachCmd)
}

var edgesCmd = &cobra.Command{
	Use:   "edges [path]",
	Short: "List edges, optionally filtered by type and weight",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runEdges,
}

func runEdges(cmd *cobra.Command, args []string) error {
	g, err := loadGraph(args)
	if err != nil {
		return err
	}

	edges := g.Edges
	if flagTypes != "" {
		edges = g.EdgesOfType(strings.Split(flagTypes, ",")...)
	}
	for _, e := range edges {
		if e.Weight < flagMinWeight {
			continue
		}
		fmt.Printf("%s -> %s  %s %.2f\n", e.From, e.To, e.Type, e.Weight)
	}
	return nil
}

var reachCmd = &cobra.Command{
	Use:   "reach <node> [path]",
	Short: "List nodes reachable from a node within N hops",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runReach,
}

func init() {
	reachCmd.Flags().IntVar(&flagHops, "hops", 2, "maximum traversal depth")
	reachCmd.Flags().StringVar(&flagDirection, "direction", "outbound", "outbound|inbound|both")
}

func runReach(cmd *cobra.Command, args []string) error {
	g, err := loadGraph(args[1:])
	if err != nil {
		return err
	}
	if g.NodeByID(args[0]) == nil {
		return fmt.Errorf("unknown node %q", args[0])
	}

	dir := gdgraph.Direction(flagDirection)
	switch dir {
	case gdgraph.Outbound, gdgraph.Inbound, gdgraph.Both:
	default:
		return fmt.Errorf("invalid direction %q", flagDirection)
	}

	for _, r := range g.Reachable(args[0], flagHops, dir) {
		fmt.Printf("%d  %s (%s)\n", r.Hops, r.Node.ID, r.Node.Kind)
	}
	return nil
}

func loadGraph(args []string) (*gdgraph.Graph, error) {
	root, err := targetDir(args)
	if err != nil {
		return nil, err
	}
	s, err := openStore(root)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.LoadGraph(projectName(root))
}

func targetDir(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", abs)
	}
	return abs, nil
}

func openStore(root string) (*store.Store, error) {
	dbPath := flagDB
	if dbPath == "" {
		dir := filepath.Join(root, ".gdgraph")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
		dbPath = filepath.Join(dir, "index.db")
	}
	return store.OpenPath(dbPath)
}

// projectName derives a stable project key from an absolute path.
func projectName(absPath string) string {
	name := strings.TrimLeft(strings.ReplaceAll(filepath.ToSlash(filepath.Clean(absPath)), "/", "-"), "-")
	if name == "" {
		return "root"
	}
	return name
}
