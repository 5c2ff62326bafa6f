package graph

import (
	"fmt"
	"strings"

	"github.com/pbaille/ankigraph/internal/classifier"
	"github.com/pbaille/ankigraph/internal/domain"
	"github.com/pbaille/ankigraph/internal/logger"
)

// Weighting selects how edge weights are accumulated
type Weighting int

const (
	// WeightDiscovery counts (node, co-tag) discovery events. Only the record
	// a tag is first seen on contributes that tag's co-tags.
	WeightDiscovery Weighting = iota
	// WeightRecords counts every record that carries both tags.
	WeightRecords
)

func (w Weighting) String() string {
	switch w {
	case WeightDiscovery:
		return "discovery"
	case WeightRecords:
		return "records"
	}
	return fmt.Sprintf("Weighting(%d)", int(w))
}

// ParseWeighting resolves a weighting name; "" means discovery
func ParseWeighting(name string) (Weighting, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "discovery":
		return WeightDiscovery, nil
	case "records":
		return WeightRecords, nil
	}
	return 0, fmt.Errorf("unknown weighting %q", name)
}

// Option configures Build
type Option func(*Graph)

// WithLogger sets the logger used during the build
func WithLogger(l *logger.Logger) Option {
	return func(g *Graph) {
		if l != nil {
			g.log = l
		}
	}
}

// WithWeighting selects the edge weighting
func WithWeighting(w Weighting) Option {
	return func(g *Graph) {
		g.weighting = w
	}
}

// Graph is a tag co-occurrence graph. It is read-only once Build returns.
type Graph struct {
	registry   *Registry
	classifier *classifier.Classifier
	nodes      []domain.Node
	edges      map[domain.EdgeKey]int
	weighting  Weighting
	log        *logger.Logger
}

// Build constructs the graph from records in two passes: nodes, then edges.
// Any error aborts the build.
func Build(records []domain.Record, opts ...Option) (*Graph, error) {
	g := &Graph{
		registry:   NewRegistry(),
		classifier: classifier.New(),
		edges:      make(map[domain.EdgeKey]int),
		weighting:  WeightDiscovery,
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}

	if err := validate(records); err != nil {
		return nil, err
	}

	g.buildNodes(records)

	var err error
	switch g.weighting {
	case WeightDiscovery:
		err = g.buildDiscoveryEdges()
	case WeightRecords:
		err = g.buildRecordEdges(records)
	default:
		err = fmt.Errorf("unsupported weighting %s", g.weighting)
	}
	if err != nil {
		return nil, fmt.Errorf("build edges: %w", err)
	}

	g.log.Debug("graph built",
		"records", len(records),
		"nodes", len(g.nodes),
		"edges", len(g.edges),
		"weighting", g.weighting.String(),
	)
	return g, nil
}

func validate(records []domain.Record) error {
	for i, rec := range records {
		if len(rec) == 0 {
			return &EmptyRecordError{Index: i}
		}
		for j, tag := range rec {
			if tag == "" {
				return &EmptyTagError{Record: i, Position: j}
			}
		}
	}
	return nil
}

func (g *Graph) buildNodes(records []domain.Record) {
	for _, rec := range records {
		for _, tag := range rec {
			id, created := g.registry.Register(tag)
			if !created {
				continue
			}
			g.nodes = append(g.nodes, domain.Node{
				ID:       id,
				Tag:      tag,
				Category: g.classifier.Classify(tag),
				CoTags:   withoutFirst(rec, tag),
			})
		}
	}
}

// withoutFirst copies rec with the first occurrence of tag removed
func withoutFirst(rec domain.Record, tag string) []string {
	out := make([]string, 0, len(rec)-1)
	removed := false
	for _, t := range rec {
		if !removed && t == tag {
			removed = true
			continue
		}
		out = append(out, t)
	}
	return out
}

func (g *Graph) buildDiscoveryEdges() error {
	for _, n := range g.nodes {
		for _, coTag := range n.CoTags {
			other, err := g.registry.LookupID(coTag)
			if err != nil {
				return fmt.Errorf("node %d: %w", n.ID, err)
			}
			if err := g.addEdge(n.ID, other); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *Graph) buildRecordEdges(records []domain.Record) error {
	for _, rec := range records {
		ids := make([]int, len(rec))
		for i, tag := range rec {
			id, err := g.registry.LookupID(tag)
			if err != nil {
				return err
			}
			ids[i] = id
		}
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				if err := g.addEdge(ids[i], ids[j]); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (g *Graph) addEdge(a, b int) error {
	if a == b {
		tag, _ := g.registry.LookupTag(a)
		return &InvalidEdgeError{A: a, B: b, Tag: tag}
	}
	g.edges[domain.NewEdgeKey(a, b)]++
	return nil
}

// Weighting returns the weighting the graph was built with
func (g *Graph) Weighting() Weighting {
	return g.weighting
}

// Registry exposes the identifier registry for lookups
func (g *Graph) Registry() *Registry {
	return g.registry
}

// Len returns the number of nodes
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node returns a copy of the node with the given identifier
func (g *Graph) Node(id int) (domain.Node, error) {
	if id < 0 || id >= len(g.nodes) {
		return domain.Node{}, &UnknownIdentifierError{ID: id}
	}
	n := g.nodes[id]
	n.CoTags = append([]string(nil), n.CoTags...)
	return n, nil
}

// Nodes returns every node in identifier order
func (g *Graph) Nodes() []domain.NodeView {
	views := make([]domain.NodeView, len(g.nodes))
	for i, n := range g.nodes {
		views[i] = n.View()
	}
	return views
}

// Edge returns the edge between a and b in either order
func (g *Graph) Edge(a, b int) (domain.Edge, bool) {
	key := domain.NewEdgeKey(a, b)
	w, ok := g.edges[key]
	if !ok {
		return domain.Edge{}, false
	}
	return domain.Edge{Key: key, Weight: w}, true
}

// Edges returns the edges whose endpoints are both outside exclude,
// ordered by (A, B).
func (g *Graph) Edges(exclude domain.CategorySet) []domain.EdgeView {
	views := make([]domain.EdgeView, 0, len(g.edges))
	for key, w := range g.edges {
		if !g.visible(key, exclude) {
			continue
		}
		views = append(views, domain.EdgeView{A: key.A, B: key.B, Weight: w})
	}
	domain.SortEdgeViews(views)
	return views
}

// VisibleNodes returns the nodes touched by at least one visible edge
func (g *Graph) VisibleNodes(exclude domain.CategorySet) []domain.NodeView {
	seen := make([]bool, len(g.nodes))
	for key := range g.edges {
		if g.visible(key, exclude) {
			seen[key.A] = true
			seen[key.B] = true
		}
	}
	var views []domain.NodeView
	for id, ok := range seen {
		if ok {
			views = append(views, g.nodes[id].View())
		}
	}
	return views
}

func (g *Graph) visible(key domain.EdgeKey, exclude domain.CategorySet) bool {
	return !exclude.Has(g.nodes[key.A].Category) && !exclude.Has(g.nodes[key.B].Category)
}

// TagDictionary returns (tag, id) rows in discovery order
func (g *Graph) TagDictionary() []domain.TagRow {
	return g.registry.Rows()
}

// Stats summarizes the graph under exclude
func (g *Graph) Stats(exclude domain.CategorySet) domain.Stats {
	st := domain.Stats{
		Nodes:      len(g.nodes),
		Edges:      len(g.edges),
		ByCategory: make(map[string]int),
		Excluded:   exclude.Names(),
	}
	for _, n := range g.nodes {
		st.ByCategory[n.Category.String()]++
	}
	visible := g.Edges(exclude)
	st.VisibleEdges = len(visible)
	for _, e := range visible {
		st.TotalWeight += e.Weight
	}
	st.VisibleNodes = len(g.VisibleNodes(exclude))
	return st
}
