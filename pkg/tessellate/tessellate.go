// Package tessellate turns a grid plan into triangle meshes using a geometry
// kernel. Every column and row becomes a slab, and the margins become a frame
// around the grid area. One mesh is produced per part.
package tessellate

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/mattlean/gridnik/pkg/kernel"
	"github.com/mattlean/gridnik/pkg/plan"
)

// ErrEmptyPlan is returned when a plan has nothing to build.
var ErrEmptyPlan = errors.New("tessellate: plan has no parts")

// DefaultDepth is the slab thickness used when Options.Depth is not set.
const DefaultDepth = 12.0

// Options control slab thickness and concurrency.
type Options struct {
	// Depth is the column slab thickness. Rows sit on top of the columns and
	// the margin frame lies under them, both at half this thickness.
	Depth float64
	// Workers bounds concurrent ToMesh calls. Zero means GOMAXPROCS.
	Workers int
}

func (o Options) depth() float64 {
	if o.Depth <= 0 {
		return DefaultDepth
	}
	return o.Depth
}

func (o Options) workers() int {
	if o.Workers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Workers
}

// part is one named solid waiting to be meshed.
type part struct {
	name  string
	kind  string
	solid kernel.Solid
}

// slab places a plan rectangle in kernel space. Plan y grows downwards, so
// it is flipped against the canvas height.
func slab(k kernel.Kernel, canvas plan.Rect, r plan.Rect, z, depth float64) kernel.Solid {
	y := canvas.Height - r.Bottom()
	return k.Translate(k.Box(r.Width, r.Height, depth), r.X, y, z)
}

// coversCanvas reports whether the grid area leaves no margin at all.
func coversCanvas(p *plan.Plan) bool {
	g := p.Grid
	return g.X <= 0 && g.Y <= 0 && g.Right() >= p.Canvas.Width && g.Bottom() >= p.Canvas.Height
}

// parts builds every solid in the plan: the margin frame first, then the
// columns and the rows.
func parts(p *plan.Plan, k kernel.Kernel, opts Options) []part {
	depth := opts.depth()
	out := make([]part, 0, 1+len(p.Columns)+len(p.Rows))

	if !coversCanvas(p) {
		frameDepth := depth / 2
		canvas := slab(k, p.Canvas, p.Canvas, 0, frameDepth)
		// The cut overshoots the frame in z so no skin is left behind.
		hole := slab(k, p.Canvas, p.Grid, -frameDepth, 3*frameDepth)
		out = append(out, part{
			name:  "Margins",
			kind:  "margin",
			solid: k.Difference(canvas, hole),
		})
	}

	for _, r := range p.Columns {
		if r.Width <= 0 || r.Height <= 0 {
			continue
		}
		out = append(out, part{name: r.Name, kind: string(r.Kind), solid: slab(k, p.Canvas, r, 0, depth)})
	}
	for _, r := range p.Rows {
		if r.Width <= 0 || r.Height <= 0 {
			continue
		}
		out = append(out, part{name: r.Name, kind: string(r.Kind), solid: slab(k, p.Canvas, r, depth, depth/2)})
	}
	return out
}

// Tessellate produces one mesh per part of the plan. Parts are meshed
// concurrently with at most opts.Workers in flight; the result keeps the
// frame, column, row order. The first error cancels the remaining work.
func Tessellate(ctx context.Context, p *plan.Plan, k kernel.Kernel, opts Options) ([]*kernel.Mesh, error) {
	if p == nil {
		return nil, nil
	}
	ps := parts(p, k, opts)
	meshes := make([]*kernel.Mesh, len(ps))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.workers())
	for i, pt := range ps {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			mesh, err := k.ToMesh(pt.solid)
			if err != nil {
				return fmt.Errorf("tessellate: ToMesh failed for %s: %w", pt.name, err)
			}
			mesh.PartName = pt.name
			mesh.Kind = pt.kind
			meshes[i] = mesh
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return meshes, nil
}

// Solid unions every part of the plan into a single solid for export.
func Solid(p *plan.Plan, k kernel.Kernel, opts Options) (kernel.Solid, error) {
	if p == nil {
		return nil, ErrEmptyPlan
	}
	ps := parts(p, k, opts)
	if len(ps) == 0 {
		return nil, ErrEmptyPlan
	}
	s := ps[0].solid
	for _, pt := range ps[1:] {
		s = k.Union(s, pt.solid)
	}
	return s, nil
}
