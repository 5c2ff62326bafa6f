package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbaille/ankigraph/internal/domain"
	"github.com/pbaille/ankigraph/internal/graph"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "graph.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func buildGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.Build([]domain.Record{
		{"#B&B::x", "#Pathoma::y"},
		{"#B&B::x", "#Sketchy::z", "misc"},
	})
	require.NoError(t, err)
	return g
}

func TestSaveAndLoadRun(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	g := buildGraph(t)

	run, err := s.SaveRun(ctx, "dump.txt", g)
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, "discovery", run.Weighting)
	assert.Equal(t, 4, run.Nodes)
	assert.Equal(t, len(g.Edges(nil)), run.Edges)

	nodes, err := s.LoadNodes(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, g.Nodes(), nodes)

	tags, err := s.LoadTags(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, g.TagDictionary(), tags)

	edges, err := s.LoadEdges(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, g.Edges(nil), edges)

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, "dump.txt", runs[0].Source)
}

func TestRunsAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first, err := s.SaveRun(ctx, "a", buildGraph(t))
	require.NoError(t, err)

	g2, err := graph.Build([]domain.Record{{"solo"}}, graph.WithWeighting(graph.WeightRecords))
	require.NoError(t, err)
	second, err := s.SaveRun(ctx, "b", g2)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "records", second.Weighting)

	nodes, err := s.LoadNodes(ctx, second.ID)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "solo", nodes[0].Tag)

	edges, err := s.LoadEdges(ctx, second.ID)
	require.NoError(t, err)
	assert.Empty(t, edges)

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestDeleteRun(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	run, err := s.SaveRun(ctx, "a", buildGraph(t))
	require.NoError(t, err)

	require.NoError(t, s.DeleteRun(ctx, run.ID))
	nodes, err := s.LoadNodes(ctx, run.ID)
	require.NoError(t, err)
	assert.Empty(t, nodes)

	assert.Error(t, s.DeleteRun(ctx, run.ID))
}

func TestDSN(t *testing.T) {
	assert.Equal(t, "graph.db?_foreign_keys=on", dsn("graph.db"))
	assert.Equal(t, "graph.db?_busy_timeout=5000&_foreign_keys=on", dsn("graph.db?_busy_timeout=5000"))
}

func TestDeleteRunCascadesWithQueryPath(t *testing.T) {
	ctx := context.Background()
	s, err := New(filepath.Join(t.TempDir(), "graph.db") + "?_busy_timeout=5000")
	require.NoError(t, err)
	defer s.Close()

	run, err := s.SaveRun(ctx, "a", buildGraph(t))
	require.NoError(t, err)
	require.NoError(t, s.DeleteRun(ctx, run.ID))

	var nodes, edges int
	require.NoError(t, s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tags").Scan(&nodes))
	require.NoError(t, s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM edges").Scan(&edges))
	assert.Zero(t, nodes)
	assert.Zero(t, edges)
}
