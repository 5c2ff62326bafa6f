// Package render draws a co-occurrence graph as a PNG image.
package render

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"

	"github.com/pbaille/ankigraph/internal/domain"
)

// View is the read side of a graph the renderer needs
type View interface {
	VisibleNodes(exclude domain.CategorySet) []domain.NodeView
	Edges(exclude domain.CategorySet) []domain.EdgeView
}

// Options control image size and layout
type Options struct {
	Width      int
	Height     int
	Margin     float64
	Iterations int
	NodeRadius float64
	Labels     bool
	FontPath   string
	FontSize   float64
	Seed       int64
}

// DefaultOptions returns the options used when a field is left zero
func DefaultOptions() Options {
	return Options{
		Width:      1600,
		Height:     1600,
		Margin:     40,
		Iterations: 200,
		NodeRadius: 5,
		FontSize:   8,
		Seed:       1,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.Margin <= 0 {
		o.Margin = d.Margin
	}
	if short := math.Min(float64(o.Width), float64(o.Height)); 2*o.Margin >= short {
		o.Margin = short / 10
	}
	if o.Iterations <= 0 {
		o.Iterations = d.Iterations
	}
	if o.NodeRadius <= 0 {
		o.NodeRadius = d.NodeRadius
	}
	if o.FontSize <= 0 {
		o.FontSize = d.FontSize
	}
	if o.Seed == 0 {
		o.Seed = d.Seed
	}
	return o
}

var edgeColor = color.NRGBA{R: 120, G: 120, B: 120, A: 110}

// PNG lays out the visible part of g and writes it as a PNG image
func PNG(w io.Writer, g View, exclude domain.CategorySet, opts Options) error {
	opts = opts.withDefaults()
	nodes := g.VisibleNodes(exclude)
	edges := g.Edges(exclude)
	pos := Layout(nodes, edges, opts)

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetColor(color.White)
	dc.Clear()

	if opts.Labels && opts.FontPath != "" {
		if err := dc.LoadFontFace(opts.FontPath, opts.FontSize); err != nil {
			return fmt.Errorf("load font: %w", err)
		}
	}

	dc.SetColor(edgeColor)
	for _, e := range edges {
		a, b := pos[e.A], pos[e.B]
		dc.SetLineWidth(edgeWidth(e.Weight))
		dc.DrawLine(a.X, a.Y, b.X, b.Y)
		dc.Stroke()
	}

	for _, n := range nodes {
		p := pos[n.ID]
		dc.SetColor(n.Color.NRGBA())
		dc.DrawCircle(p.X, p.Y, opts.NodeRadius)
		dc.Fill()
	}

	if opts.Labels {
		dc.SetColor(color.Black)
		for _, n := range nodes {
			p := pos[n.ID]
			dc.DrawStringAnchored(n.Tag, p.X, p.Y-opts.NodeRadius-2, 0.5, 0)
		}
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func edgeWidth(weight int) float64 {
	return 0.5 + math.Log1p(float64(weight))
}
