package render

import (
	"bytes"
	"image"
	_ "image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbaille/ankigraph/internal/domain"
	"github.com/pbaille/ankigraph/internal/graph"
)

func testGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.Build([]domain.Record{
		{"#B&B::a", "#Pathoma::b", "#Sketchy::c"},
		{"#Sketchy::c", "#FirstAid::d", "plain"},
		{"#B&B::e", "#Pathoma::b"},
	})
	require.NoError(t, err)
	return g
}

func TestLayoutDeterministicAndBounded(t *testing.T) {
	g := testGraph(t)
	nodes := g.VisibleNodes(nil)
	edges := g.Edges(nil)
	opts := Options{Width: 300, Height: 200, Margin: 10, Iterations: 50}

	first := Layout(nodes, edges, opts)
	second := Layout(nodes, edges, opts)
	assert.Equal(t, first, second)
	require.Len(t, first, len(nodes))

	for id, p := range first {
		assert.GreaterOrEqual(t, p.X, 10.0, "node %d", id)
		assert.LessOrEqual(t, p.X, 290.0, "node %d", id)
		assert.GreaterOrEqual(t, p.Y, 10.0, "node %d", id)
		assert.LessOrEqual(t, p.Y, 190.0, "node %d", id)
	}

	other := Layout(nodes, edges, Options{Width: 300, Height: 200, Margin: 10, Iterations: 50, Seed: 7})
	assert.NotEqual(t, first, other)
}

func TestLayoutSmallInputs(t *testing.T) {
	assert.Empty(t, Layout(nil, nil, Options{}))

	single := Layout([]domain.NodeView{{ID: 4}}, nil, Options{Width: 100, Height: 50})
	assert.Equal(t, map[int]Point{4: {X: 50, Y: 25}}, single)
}

func TestPNG(t *testing.T) {
	g := testGraph(t)

	var buf bytes.Buffer
	err := PNG(&buf, g, domain.NewCategorySet(domain.CategoryOther), Options{Width: 320, Height: 240, Iterations: 20, Labels: true})
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 320, cfg.Width)
	assert.Equal(t, 240, cfg.Height)
}

func TestPNGBadFont(t *testing.T) {
	var buf bytes.Buffer
	err := PNG(&buf, testGraph(t), nil, Options{Width: 50, Height: 50, Labels: true, FontPath: "/nonexistent/font.ttf"})
	assert.Error(t, err)
}

func TestEdgeWidthGrowsWithWeight(t *testing.T) {
	assert.Less(t, edgeWidth(1), edgeWidth(2))
	assert.Less(t, edgeWidth(2), edgeWidth(10))
}
