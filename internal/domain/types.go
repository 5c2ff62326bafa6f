package domain

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strings"
	"time"
)

// Category is the closed set of classes a tag can belong to
type Category int

const (
	CategoryBB Category = iota
	CategoryPathoma
	CategorySketchy
	CategoryFirstAid
	CategoryOther
)

// Categories returns every category in classification priority order
func Categories() []Category {
	return []Category{CategoryBB, CategoryPathoma, CategorySketchy, CategoryFirstAid, CategoryOther}
}

func (c Category) String() string {
	switch c {
	case CategoryBB:
		return "B&B"
	case CategoryPathoma:
		return "Pathoma"
	case CategorySketchy:
		return "Sketchy"
	case CategoryFirstAid:
		return "FirstAid"
	case CategoryOther:
		return "other"
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Color returns the fixed display color of the category
func (c Category) Color() Color {
	switch c {
	case CategoryBB:
		return Color{R: 0.25390625, G: 0.75, B: 0.99609375, A: 1}
	case CategoryPathoma:
		return Color{R: 0.66015625, G: 0, B: 0.765625, A: 1}
	case CategorySketchy:
		return Color{R: 0, G: 0.765625, B: 0.4765625, A: 1}
	case CategoryFirstAid:
		return Color{R: 0.99609375, G: 0.47265625, B: 0.33203125, A: 1}
	case CategoryOther:
		return Color{R: 0.79296875, G: 0.79296875, B: 0.79296875, A: 1}
	}
	panic(fmt.Sprintf("domain: no color for %s", c))
}

// MarshalText encodes the category by name
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a category name
func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCategory resolves a category name, ignoring case
func ParseCategory(name string) (Category, error) {
	name = strings.TrimSpace(name)
	for _, c := range Categories() {
		if strings.EqualFold(c.String(), name) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", name)
}

// CategorySet is a set of categories, used as a read-time exclusion filter
type CategorySet map[Category]struct{}

// NewCategorySet builds a set from the given categories
func NewCategorySet(cats ...Category) CategorySet {
	s := make(CategorySet, len(cats))
	for _, c := range cats {
		s[c] = struct{}{}
	}
	return s
}

// ParseCategorySet builds a set from category names
func ParseCategorySet(names []string) (CategorySet, error) {
	s := make(CategorySet, len(names))
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		c, err := ParseCategory(n)
		if err != nil {
			return nil, err
		}
		s[c] = struct{}{}
	}
	return s, nil
}

// Has reports whether c is in the set. A nil set contains nothing.
func (s CategorySet) Has(c Category) bool {
	_, ok := s[c]
	return ok
}

// Names returns the member names in priority order
func (s CategorySet) Names() []string {
	var names []string
	for _, c := range Categories() {
		if s.Has(c) {
			names = append(names, c.String())
		}
	}
	return names
}

// Color is an RGBA quadruple with components in [0, 1]
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// NRGBA converts to an 8-bit color for image renderers
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: channel(c.A)}
}

// Hex returns the color as #rrggbbaa
func (c Color) Hex() string {
	n := c.NRGBA()
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// Record is the ordered tag list of one card
type Record []string

// Node is one distinct tag in the co-occurrence graph
type Node struct {
	ID       int      `json:"id"`
	Tag      string   `json:"tag"`
	Category Category `json:"category"`
	// CoTags are the other tags of the record the tag was first seen on.
	CoTags []string `json:"-"`
}

// Color returns the node's display color
func (n Node) Color() Color {
	return n.Category.Color()
}

// View returns the public projection of the node
func (n Node) View() NodeView {
	return NodeView{ID: n.ID, Tag: n.Tag, Category: n.Category, Color: n.Color()}
}

// EdgeKey identifies an unordered node pair; A is always less than B
type EdgeKey struct {
	A int `json:"a"`
	B int `json:"b"`
}

// NewEdgeKey normalizes the pair so {a,b} and {b,a} compare equal
func NewEdgeKey(a, b int) EdgeKey {
	if a > b {
		a, b = b, a
	}
	return EdgeKey{A: a, B: b}
}

// Edge is a weighted co-occurrence between two tags
type Edge struct {
	Key    EdgeKey `json:"key"`
	Weight int     `json:"weight"`
}

// NodeView is the read-only node projection handed to renderers and exporters
type NodeView struct {
	ID       int      `json:"id"`
	Tag      string   `json:"tag"`
	Category Category `json:"category"`
	Color    Color    `json:"color"`
}

// EdgeView is the read-only edge projection
type EdgeView struct {
	A      int `json:"a"`
	B      int `json:"b"`
	Weight int `json:"weight"`
}

// SortEdgeViews orders edges by (A, B)
func SortEdgeViews(edges []EdgeView) {
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].A != edges[j].A {
			return edges[i].A < edges[j].A
		}
		return edges[i].B < edges[j].B
	})
}

// TagRow is one entry of the tag dictionary
type TagRow struct {
	Tag string `json:"tag"`
	ID  int    `json:"tag_id"`
}

// Stats summarizes a graph under an exclusion set
type Stats struct {
	Nodes        int            `json:"nodes"`
	Edges        int            `json:"edges"`
	VisibleNodes int            `json:"visible_nodes"`
	VisibleEdges int            `json:"visible_edges"`
	TotalWeight  int            `json:"total_weight"`
	ByCategory   map[string]int `json:"by_category"`
	Excluded     []string       `json:"excluded,omitempty"`
}

// Run is one saved build of the graph
type Run struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Weighting string    `json:"weighting"`
	Nodes     int       `json:"nodes"`
	Edges     int       `json:"edges"`
	CreatedAt time.Time `json:"created_at"`
}
