package render

import (
	"math"
	"math/rand"

	"github.com/pbaille/ankigraph/internal/domain"
)

// Point is a node position in image coordinates
type Point struct {
	X, Y float64
}

type body struct {
	pos, disp Point
}

// Layout places nodes with a Fruchterman-Reingold spring simulation.
// The result depends only on the inputs and opts.Seed.
func Layout(nodes []domain.NodeView, edges []domain.EdgeView, opts Options) map[int]Point {
	opts = opts.withDefaults()
	out := make(map[int]Point, len(nodes))
	if len(nodes) == 0 {
		return out
	}

	w, h := float64(opts.Width), float64(opts.Height)
	margin := opts.Margin
	if len(nodes) == 1 {
		out[nodes[0].ID] = Point{X: w / 2, Y: h / 2}
		return out
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	index := make(map[int]int, len(nodes))
	bodies := make([]body, len(nodes))
	for i, n := range nodes {
		index[n.ID] = i
		bodies[i].pos = Point{
			X: margin + rng.Float64()*(w-2*margin),
			Y: margin + rng.Float64()*(h-2*margin),
		}
	}

	k := math.Sqrt((w - 2*margin) * (h - 2*margin) / float64(len(nodes)))
	temp := w / 10
	cool := temp / float64(opts.Iterations+1)

	for iter := 0; iter < opts.Iterations; iter++ {
		for i := range bodies {
			bodies[i].disp = Point{}
		}

		for i := range bodies {
			for j := i + 1; j < len(bodies); j++ {
				dx, dy, dist := delta(bodies[i].pos, bodies[j].pos)
				f := k * k / dist
				bodies[i].disp.X += dx / dist * f
				bodies[i].disp.Y += dy / dist * f
				bodies[j].disp.X -= dx / dist * f
				bodies[j].disp.Y -= dy / dist * f
			}
		}

		for _, e := range edges {
			a, okA := index[e.A]
			b, okB := index[e.B]
			if !okA || !okB {
				continue
			}
			dx, dy, dist := delta(bodies[a].pos, bodies[b].pos)
			f := dist * dist / k
			bodies[a].disp.X -= dx / dist * f
			bodies[a].disp.Y -= dy / dist * f
			bodies[b].disp.X += dx / dist * f
			bodies[b].disp.Y += dy / dist * f
		}

		for i := range bodies {
			d := bodies[i].disp
			length := math.Max(math.Hypot(d.X, d.Y), 0.01)
			step := math.Min(length, temp)
			bodies[i].pos.X = clamp(bodies[i].pos.X+d.X/length*step, margin, w-margin)
			bodies[i].pos.Y = clamp(bodies[i].pos.Y+d.Y/length*step, margin, h-margin)
		}
		temp -= cool
	}

	for i, n := range nodes {
		out[n.ID] = bodies[i].pos
	}
	return out
}

func delta(a, b Point) (dx, dy, dist float64) {
	dx, dy = a.X-b.X, a.Y-b.Y
	dist = math.Max(math.Hypot(dx, dy), 0.01)
	return dx, dy, dist
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
