// Package plan turns a solved grid layout into flat drawing geometry: the
// canvas, the grid area, one rectangle per column and row, and the gridlines
// that bound them. Coordinates are canvas units with the origin at the top
// left corner and y growing downwards.
package plan

import (
	"errors"
	"fmt"

	"github.com/mattlean/gridnik/pkg/grid"
)

// ErrNotDrawable is returned for layouts whose final attempt on any axis
// still carries a critical error.
var ErrNotDrawable = errors.New("plan: layout is not drawable")

// Kind classifies a rectangle.
type Kind string

const (
	KindCanvas Kind = "canvas"
	KindGrid   Kind = "grid"
	KindColumn Kind = "column"
	KindRow    Kind = "row"
)

// Rect is an axis-aligned rectangle.
type Rect struct {
	Name   string  `json:"name" yaml:"name"`
	Kind   Kind    `json:"kind" yaml:"kind"`
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Line is a gridline segment. Column gridlines are vertical, row gridlines
// horizontal.
type Line struct {
	Name string    `json:"name" yaml:"name"`
	Axis grid.Axis `json:"axis" yaml:"axis"`
	X1   float64   `json:"x1" yaml:"x1"`
	Y1   float64   `json:"y1" yaml:"y1"`
	X2   float64   `json:"x2" yaml:"x2"`
	Y2   float64   `json:"y2" yaml:"y2"`
}

// Plan is the drawable form of a layout.
type Plan struct {
	Canvas    Rect   `json:"canvas" yaml:"canvas"`
	Grid      Rect   `json:"grid" yaml:"grid"`
	Columns   []Rect `json:"columns" yaml:"columns"`
	Rows      []Rect `json:"rows" yaml:"rows"`
	Gridlines []Line `json:"gridlines" yaml:"gridlines"`
}

// Rects returns every pillar rectangle, columns first.
func (p *Plan) Rects() []Rect {
	out := make([]Rect, 0, len(p.Columns)+len(p.Rows))
	out = append(out, p.Columns...)
	return append(out, p.Rows...)
}

// Build lays out the rectangles of a solved layout.
func Build(l grid.Layout) (*Plan, error) {
	if !l.OK() {
		return nil, fmt.Errorf("%w: %s", ErrNotDrawable, describe(l.Errs()))
	}

	cols := l.Columns.State
	f := l.Form
	left, top := f.LeftMargin.Float(), f.TopMargin.Float()
	gridWidth := l.Columns.Final().GridWidth
	gridHeight := l.GridHeight()

	p := &Plan{
		Canvas: Rect{
			Name:   "Canvas",
			Kind:   KindCanvas,
			Width:  f.CanvasWidth.Float(),
			Height: f.CanvasHeight.Float(),
		},
		Grid: Rect{
			Name:   "Grid",
			Kind:   KindGrid,
			X:      left,
			Y:      top,
			Width:  gridWidth,
			Height: gridHeight,
		},
		Columns:   make([]Rect, 0, cols.Pillars),
		Gridlines: make([]Line, 0, 2*cols.Pillars),
	}

	for i := 0; i < cols.Pillars; i++ {
		r := Rect{
			Name:   fmt.Sprintf("Column %d", i+1),
			Kind:   KindColumn,
			X:      left + float64(i)*(cols.PillarWidth+cols.GutterWidth),
			Y:      top,
			Width:  cols.PillarWidth,
			Height: gridHeight,
		}
		p.Columns = append(p.Columns, r)
		p.Gridlines = append(p.Gridlines,
			Line{Name: r.Name + " Left", Axis: grid.Columns, X1: r.X, Y1: r.Y, X2: r.X, Y2: r.Bottom()},
			Line{Name: r.Name + " Right", Axis: grid.Columns, X1: r.Right(), Y1: r.Y, X2: r.Right(), Y2: r.Bottom()},
		)
	}

	if l.Rows == nil {
		return p, nil
	}

	// Row state is transposed: its start margin is the top margin.
	rows := l.Rows.State
	p.Rows = make([]Rect, 0, rows.Pillars)
	for i := 0; i < rows.Pillars; i++ {
		r := Rect{
			Name:   fmt.Sprintf("Row %d", i+1),
			Kind:   KindRow,
			X:      left,
			Y:      top + float64(i)*(rows.PillarWidth+rows.GutterWidth),
			Width:  gridWidth,
			Height: rows.PillarWidth,
		}
		p.Rows = append(p.Rows, r)
		p.Gridlines = append(p.Gridlines,
			Line{Name: r.Name + " Top", Axis: grid.Rows, X1: r.X, Y1: r.Y, X2: r.Right(), Y2: r.Y},
			Line{Name: r.Name + " Bottom", Axis: grid.Rows, X1: r.X, Y1: r.Bottom(), X2: r.Right(), Y2: r.Bottom()},
		)
	}
	return p, nil
}

func describe(errs []grid.GridCalcError) string {
	for _, e := range errs {
		if e.IsCritical() {
			return e.Error()
		}
	}
	return "no result"
}
