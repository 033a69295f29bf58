package grid

import (
	"fmt"
	"math"
)

// Axis selects which dimension the pillars run along.
type Axis int

const (
	Columns Axis = iota // pillars laid out along the canvas width
	Rows                // pillars laid out along the canvas height
)

func (a Axis) String() string {
	switch a {
	case Columns:
		return "columns"
	case Rows:
		return "rows"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// Cross returns the orthogonal axis.
func (a Axis) Cross() Axis {
	if a == Rows {
		return Columns
	}
	return Rows
}

// MarshalText implements encoding.TextMarshaler.
func (a Axis) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Axis) UnmarshalText(b []byte) error {
	switch string(b) {
	case "columns", "cols", "":
		*a = Columns
	case "rows":
		*a = Rows
	default:
		return fmt.Errorf("grid: unknown axis %q", string(b))
	}
	return nil
}

// ---------------------------------------------------------------------------
// Raw input
// ---------------------------------------------------------------------------

// Input is the raw, axis-neutral state of one calculation. For the row axis
// the fields are transposed: CanvasWidth holds the canvas height, LeftMargin
// the top margin, RightMargin the bottom margin, and so on.
type Input struct {
	Axis         Axis
	CanvasWidth  Value
	CanvasHeight Value
	Pillars      Value
	GutterWidth  Value
	PillarWidth  Value
	TopMargin    Value
	RightMargin  Value
	BottomMargin Value
	LeftMargin   Value
	FloorVals    bool
}

// State converts the input into a numeric CalcState. Non-numeric fields
// become 0, so callers gate on the feasibility predicates first.
func (in Input) State() CalcState {
	return CalcState{
		Axis:         in.Axis,
		CanvasWidth:  in.CanvasWidth.Float(),
		CanvasHeight: in.CanvasHeight.Float(),
		Pillars:      int(in.Pillars.Float()),
		GutterWidth:  in.GutterWidth.Float(),
		PillarWidth:  in.PillarWidth.Float(),
		TopMargin:    in.TopMargin.Float(),
		RightMargin:  in.RightMargin.Float(),
		BottomMargin: in.BottomMargin.Float(),
		LeftMargin:   in.LeftMargin.Float(),
		FloorVals:    in.FloorVals,
	}
}

// ---------------------------------------------------------------------------
// Numeric state
// ---------------------------------------------------------------------------

// CalcState is the numeric working record of one axis. It is always passed
// by value; calculators return the transformed copy.
type CalcState struct {
	Axis         Axis
	CanvasWidth  float64
	CanvasHeight float64
	Pillars      int
	GutterWidth  float64
	PillarWidth  float64
	TopMargin    float64
	RightMargin  float64
	BottomMargin float64
	LeftMargin   float64
	FloorVals    bool
}

// floorVal truncates toward zero when FloorVals is set.
func (s CalcState) floorVal(x float64) float64 {
	if s.FloorVals {
		return math.Trunc(x)
	}
	return x
}

// floorPositive floors x like floorVal but keeps negative values as they
// are, so truncation toward zero cannot turn an overrun into a valid -0.
func (s CalcState) floorPositive(x float64) float64 {
	if x < 0 {
		return x
	}
	return s.floorVal(x)
}

// pillarCount never reports fewer than one pillar, so divisions stay defined.
func (s CalcState) pillarCount() float64 {
	if s.Pillars < 1 {
		return 1
	}
	return float64(s.Pillars)
}

// ---------------------------------------------------------------------------
// Two-axis form
// ---------------------------------------------------------------------------

// Form is the full two-axis form a user edits. Rows are optional: when Rows
// is blank only the columns and the resulting grid height are computed.
type Form struct {
	CanvasWidth    Value `json:"canvasWidth" yaml:"canvasWidth"`
	CanvasHeight   Value `json:"canvasHeight" yaml:"canvasHeight"`
	Cols           Value `json:"cols" yaml:"cols"`
	ColGutterWidth Value `json:"colGutterWidth" yaml:"colGutterWidth"`
	ColWidth       Value `json:"colWidth" yaml:"colWidth"`
	Rows           Value `json:"rows" yaml:"rows"`
	RowGutterWidth Value `json:"rowGutterWidth" yaml:"rowGutterWidth"`
	RowHeight      Value `json:"rowHeight" yaml:"rowHeight"`
	TopMargin      Value `json:"topMargin" yaml:"topMargin"`
	RightMargin    Value `json:"rightMargin" yaml:"rightMargin"`
	BottomMargin   Value `json:"bottomMargin" yaml:"bottomMargin"`
	LeftMargin     Value `json:"leftMargin" yaml:"leftMargin"`
	FloorVals      bool  `json:"floorVals" yaml:"floorVals"`
}

// HasRows reports whether the row axis is modeled.
func (f Form) HasRows() bool { return !f.Rows.IsBlank() }

// Input normalizes the form into the axis-neutral input of one axis.
func (f Form) Input(axis Axis) Input {
	if axis == Rows {
		return Input{
			Axis:         Rows,
			CanvasWidth:  f.CanvasHeight,
			CanvasHeight: f.CanvasWidth,
			Pillars:      f.Rows,
			GutterWidth:  f.RowGutterWidth,
			PillarWidth:  f.RowHeight,
			TopMargin:    f.LeftMargin,
			RightMargin:  f.BottomMargin,
			BottomMargin: f.RightMargin,
			LeftMargin:   f.TopMargin,
			FloorVals:    f.FloorVals,
		}
	}
	return Input{
		Axis:         Columns,
		CanvasWidth:  f.CanvasWidth,
		CanvasHeight: f.CanvasHeight,
		Pillars:      f.Cols,
		GutterWidth:  f.ColGutterWidth,
		PillarWidth:  f.ColWidth,
		TopMargin:    f.TopMargin,
		RightMargin:  f.RightMargin,
		BottomMargin: f.BottomMargin,
		LeftMargin:   f.LeftMargin,
		FloorVals:    f.FloorVals,
	}
}

// ApplyInput writes a normalized input back into the form.
func (f *Form) ApplyInput(in Input) {
	if in.Axis == Rows {
		f.CanvasHeight = in.CanvasWidth
		f.CanvasWidth = in.CanvasHeight
		f.Rows = in.Pillars
		f.RowGutterWidth = in.GutterWidth
		f.RowHeight = in.PillarWidth
		f.LeftMargin = in.TopMargin
		f.BottomMargin = in.RightMargin
		f.RightMargin = in.BottomMargin
		f.TopMargin = in.LeftMargin
		return
	}
	f.CanvasWidth = in.CanvasWidth
	f.CanvasHeight = in.CanvasHeight
	f.Cols = in.Pillars
	f.ColGutterWidth = in.GutterWidth
	f.ColWidth = in.PillarWidth
	f.TopMargin = in.TopMargin
	f.RightMargin = in.RightMargin
	f.BottomMargin = in.BottomMargin
	f.LeftMargin = in.LeftMargin
}

// Apply writes the solved values of a final state back into the form. Only
// the main axis and its margins are written; the cross-axis margins belong
// to the other axis.
func (f *Form) Apply(s CalcState) {
	if s.Axis == Rows {
		f.Rows = Num(float64(s.Pillars))
		f.RowGutterWidth = Num(s.GutterWidth)
		f.RowHeight = Num(s.PillarWidth)
		f.TopMargin = Num(s.LeftMargin)
		f.BottomMargin = Num(s.RightMargin)
		return
	}
	f.Cols = Num(float64(s.Pillars))
	f.ColGutterWidth = Num(s.GutterWidth)
	f.ColWidth = Num(s.PillarWidth)
	f.LeftMargin = Num(s.LeftMargin)
	f.RightMargin = Num(s.RightMargin)
}
