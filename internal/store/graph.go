package store

import (
	"fmt"
	"strings"

	"gdgraph/internal/graph"
)

// Max rows per multi-row INSERT, kept under SQLite's 999-variable limit
// (5 columns x 150 = 750).
const batchSize = 150

// SaveGraph replaces a project's stored graph with the given one, in a
// single transaction.
func (s *Store) SaveGraph(project, rootPath string, g *graph.Graph, diags []graph.Diagnostic) error {
	return s.WithTransaction(func(tx *Store) error {
		if _, err := tx.q.Exec(`
			INSERT INTO projects (name, indexed_at, root_path) VALUES (?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET indexed_at=excluded.indexed_at, root_path=excluded.root_path`,
			project, Now(), rootPath); err != nil {
			return fmt.Errorf("upsert project: %w", err)
		}
		for _, table := range []string{"nodes", "edges", "diagnostics"} {
			if _, err := tx.q.Exec("DELETE FROM "+table+" WHERE project=?", project); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		if err := tx.insertNodes(project, g.Nodes); err != nil {
			return err
		}
		if err := tx.insertEdges(project, g.Edges); err != nil {
			return err
		}
		return tx.insertDiagnostics(project, diags)
	})
}

func (s *Store) insertNodes(project string, nodes []*graph.Node) error {
	for i := 0; i < len(nodes); i += batchSize {
		end := min(i+batchSize, len(nodes))
		batch := nodes[i:end]

		var sb strings.Builder
		sb.WriteString(`INSERT INTO nodes (project, id, kind, label, metadata) VALUES `)
		args := make([]any, 0, len(batch)*5)
		for j, n := range batch {
			if j > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString("(?,?,?,?,?)")
			args = append(args, project, n.ID, n.Kind, n.Label, marshalMeta(n.Metadata))
		}
		if _, err := s.q.Exec(sb.String(), args...); err != nil {
			return fmt.Errorf("insert node batch: %w", err)
		}
	}
	return nil
}

func (s *Store) insertEdges(project string, edges []*graph.Edge) error {
	for i := 0; i < len(edges); i += batchSize {
		end := min(i+batchSize, len(edges))
		batch := edges[i:end]

		var sb strings.Builder
		sb.WriteString(`INSERT INTO edges (project, source, target, type, weight) VALUES `)
		args := make([]any, 0, len(batch)*5)
		for j, e := range batch {
			if j > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString("(?,?,?,?,?)")
			args = append(args, project, e.From, e.To, e.Type, e.Weight)
		}
		if _, err := s.q.Exec(sb.String(), args...); err != nil {
			return fmt.Errorf("insert edge batch: %w", err)
		}
	}
	return nil
}

func (s *Store) insertDiagnostics(project string, diags []graph.Diagnostic) error {
	for i := 0; i < len(diags); i += batchSize {
		end := min(i+batchSize, len(diags))
		batch := diags[i:end]

		var sb strings.Builder
		sb.WriteString(`INSERT INTO diagnostics (project, severity, path, message) VALUES `)
		args := make([]any, 0, len(batch)*4)
		for j, d := range batch {
			if j > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString("(?,?,?,?)")
			args = append(args, project, string(d.Severity), d.Path, d.Message)
		}
		if _, err := s.q.Exec(sb.String(), args...); err != nil {
			return fmt.Errorf("insert diagnostic batch: %w", err)
		}
	}
	return nil
}

// LoadGraph reads a project's stored graph back into memory.
func (s *Store) LoadGraph(project string) (*graph.Graph, error) {
	rows, err := s.q.Query(`SELECT id, kind, label, metadata FROM nodes WHERE project=? ORDER BY id`, project)
	if err != nil {
		return nil, fmt.Errorf("load nodes: %w", err)
	}
	defer rows.Close()

	var nodes []*graph.Node
	for rows.Next() {
		var n graph.Node
		var meta string
		if err := rows.Scan(&n.ID, &n.Kind, &n.Label, &meta); err != nil {
			return nil, err
		}
		n.Metadata = unmarshalMeta(meta)
		nodes = append(nodes, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	erows, err := s.q.Query(`SELECT source, target, type, weight FROM edges WHERE project=? ORDER BY source, target, type`, project)
	if err != nil {
		return nil, fmt.Errorf("load edges: %w", err)
	}
	defer erows.Close()

	var edges []*graph.Edge
	for erows.Next() {
		var e graph.Edge
		if err := erows.Scan(&e.From, &e.To, &e.Type, &e.Weight); err != nil {
			return nil, err
		}
		edges = append(edges, &e)
	}
	if err := erows.Err(); err != nil {
		return nil, err
	}

	return graph.New(nodes, edges), nil
}

// LoadDiagnostics reads a project's stored diagnostics.
func (s *Store) LoadDiagnostics(project string) ([]graph.Diagnostic, error) {
	rows, err := s.q.Query(`SELECT severity, path, message FROM diagnostics WHERE project=? ORDER BY path, message`, project)
	if err != nil {
		return nil, fmt.Errorf("load diagnostics: %w", err)
	}
	defer rows.Close()

	var diags []graph.Diagnostic
	for rows.Next() {
		var d graph.Diagnostic
		var sev string
		if err := rows.Scan(&sev, &d.Path, &d.Message); err != nil {
			return nil, err
		}
		d.Severity = graph.Severity(sev)
		diags = append(diags, d)
	}
	return diags, rows.Err()
}

// Projects lists the stored project names.
func (s *Store) Projects() ([]string, error) {
	rows, err := s.q.Query(`SELECT name FROM projects ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
