package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pbaille/ankigraph/internal/domain"
	"github.com/pbaille/ankigraph/internal/graph"
)

//go:embed schema.sql
var schema string

// Graph is the read side of a built graph that a snapshot needs
type Graph interface {
	Nodes() []domain.NodeView
	Edges(exclude domain.CategorySet) []domain.EdgeView
	Weighting() graph.Weighting
}

// Store keeps snapshots of graph builds in SQLite
type Store struct {
	db *sql.DB
}

// New creates a new Store with the given database path
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Initialize schema
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

// dsn turns on foreign keys, which DeleteRun relies on to cascade
func dsn(dbPath string) string {
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + "_foreign_keys=on"
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun stores every node and edge of g under a new run id
func (s *Store) SaveRun(ctx context.Context, source string, g Graph) (*domain.Run, error) {
	nodes := g.Nodes()
	edges := g.Edges(nil)
	run := &domain.Run{
		ID:        uuid.New().String(),
		Source:    source,
		Weighting: g.Weighting().String(),
		Nodes:     len(nodes),
		Edges:     len(edges),
		CreatedAt: time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO runs (id, source, weighting, node_count, edge_count, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		run.ID, run.Source, run.Weighting, run.Nodes, run.Edges, run.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	tagStmt, err := tx.PrepareContext(ctx, "INSERT INTO tags (run_id, id, tag, category) VALUES (?, ?, ?, ?)")
	if err != nil {
		return nil, fmt.Errorf("prepare tag insert: %w", err)
	}
	defer tagStmt.Close()
	for _, n := range nodes {
		if _, err := tagStmt.ExecContext(ctx, run.ID, n.ID, n.Tag, n.Category.String()); err != nil {
			return nil, fmt.Errorf("insert tag %d: %w", n.ID, err)
		}
	}

	edgeStmt, err := tx.PrepareContext(ctx, "INSERT INTO edges (run_id, a, b, weight) VALUES (?, ?, ?, ?)")
	if err != nil {
		return nil, fmt.Errorf("prepare edge insert: %w", err)
	}
	defer edgeStmt.Close()
	for _, e := range edges {
		if _, err := edgeStmt.ExecContext(ctx, run.ID, e.A, e.B, e.Weight); err != nil {
			return nil, fmt.Errorf("insert edge %d-%d: %w", e.A, e.B, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit run: %w", err)
	}
	return run, nil
}

// ListRuns returns saved runs, newest first
func (s *Store) ListRuns(ctx context.Context) ([]domain.Run, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, source, weighting, node_count, edge_count, created_at FROM runs ORDER BY created_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.Run
	for rows.Next() {
		var r domain.Run
		if err := rows.Scan(&r.ID, &r.Source, &r.Weighting, &r.Nodes, &r.Edges, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// LoadNodes returns the nodes of a run in identifier order
func (s *Store) LoadNodes(ctx context.Context, runID string) ([]domain.NodeView, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, tag, category FROM tags WHERE run_id = ? ORDER BY id",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("load nodes: %w", err)
	}
	defer rows.Close()

	var nodes []domain.NodeView
	for rows.Next() {
		var (
			n   domain.NodeView
			cat string
		)
		if err := rows.Scan(&n.ID, &n.Tag, &cat); err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		if n.Category, err = domain.ParseCategory(cat); err != nil {
			return nil, fmt.Errorf("node %d: %w", n.ID, err)
		}
		n.Color = n.Category.Color()
		nodes = append(nodes, n)
	}

	return nodes, rows.Err()
}

// LoadTags returns the tag dictionary of a run in discovery order
func (s *Store) LoadTags(ctx context.Context, runID string) ([]domain.TagRow, error) {
	nodes, err := s.LoadNodes(ctx, runID)
	if err != nil {
		return nil, err
	}
	tags := make([]domain.TagRow, len(nodes))
	for i, n := range nodes {
		tags[i] = domain.TagRow{Tag: n.Tag, ID: n.ID}
	}
	return tags, nil
}

// LoadEdges returns the edges of a run ordered by (a, b)
func (s *Store) LoadEdges(ctx context.Context, runID string) ([]domain.EdgeView, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT a, b, weight FROM edges WHERE run_id = ? ORDER BY a, b",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("load edges: %w", err)
	}
	defer rows.Close()

	var edges []domain.EdgeView
	for rows.Next() {
		var e domain.EdgeView
		if err := rows.Scan(&e.A, &e.B, &e.Weight); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		edges = append(edges, e)
	}

	return edges, rows.Err()
}

// DeleteRun removes a run and its rows
func (s *Store) DeleteRun(ctx context.Context, runID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", runID)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("run not found: %s", runID)
	}
	return nil
}
