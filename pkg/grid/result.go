package grid

import "fmt"

// CalcKind tags which unknown a calculation solved for.
type CalcKind int

const (
	KindPillarWidth CalcKind = iota + 1
	KindGutterWidth
)

func (k CalcKind) String() string {
	switch k {
	case KindPillarWidth:
		return "pillarWidth"
	case KindGutterWidth:
		return "gutterWidth"
	default:
		return fmt.Sprintf("CalcKind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k CalcKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText accepts the canonical names plus the column and row aliases.
func (k *CalcKind) UnmarshalText(b []byte) error {
	switch normalizeName(string(b)) {
	case "pillarwidth", "colwidth", "columnwidth", "rowheight", "width", "height":
		*k = KindPillarWidth
	case "gutterwidth", "gutter", "colgutterwidth", "rowgutterwidth":
		*k = KindGutterWidth
	default:
		return fmt.Errorf("grid: unknown calculation %q", string(b))
	}
	return nil
}

// MarginAdjustment records main-axis margins that differ from the input,
// either because they were rescaled or because rounding slack was absorbed.
// Start is the left (or top) margin, End the right (or bottom) margin.
type MarginAdjustment struct {
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
}

// Measures holds everything one calculation attempt derived.
type Measures struct {
	Axis            Axis              `json:"axis" yaml:"axis"`
	PillarWidth     float64           `json:"pillarWidth" yaml:"pillarWidth"`
	PillarWidthsSum float64           `json:"pillarWidthsSum" yaml:"pillarWidthsSum"`
	GridWidth       float64           `json:"gridWidth" yaml:"gridWidth"`
	GutterWidth     float64           `json:"gutterWidth" yaml:"gutterWidth"`
	GutterWidthsSum float64           `json:"gutterWidthsSum" yaml:"gutterWidthsSum"`
	MarginsSum      float64           `json:"marginsSum" yaml:"marginsSum"`
	Margins         *MarginAdjustment `json:"margins,omitempty" yaml:"margins,omitempty"`
	Errs            []GridCalcError   `json:"errs" yaml:"errs"`
}

// Result is one attempt of a pillar width or gutter width calculation.
// The concrete variants are *PillarWidthResult and *GutterWidthResult.
type Result interface {
	Kind() CalcKind
	Base() *Measures
}

// PillarWidthResult is an attempt that solved for the pillar width.
type PillarWidthResult struct {
	Measures
}

// Kind implements Result.
func (r *PillarWidthResult) Kind() CalcKind { return KindPillarWidth }

// Base implements Result.
func (r *PillarWidthResult) Base() *Measures { return &r.Measures }

// GutterWidthResult is an attempt that solved for the gutter width.
type GutterWidthResult struct {
	Measures
}

// Kind implements Result.
func (r *GutterWidthResult) Kind() CalcKind { return KindGutterWidth }

// Base implements Result.
func (r *GutterWidthResult) Base() *Measures { return &r.Measures }

// MarginsResult is the outcome of reconciling one pair of margins.
type MarginsResult struct {
	Start     float64         `json:"start" yaml:"start"`
	End       float64         `json:"end" yaml:"end"`
	Sum       float64         `json:"sum" yaml:"sum"`
	Corrected bool            `json:"corrected" yaml:"corrected"`
	Errs      []GridCalcError `json:"errs" yaml:"errs"`
}

// GridHeightResult is the span left on the cross axis once its margins are
// reconciled.
type GridHeightResult struct {
	Axis       Axis            `json:"axis" yaml:"axis"`
	GridHeight float64         `json:"gridHeight" yaml:"gridHeight"`
	MarginsSum float64         `json:"marginsSum" yaml:"marginsSum"`
	Margins    *MarginsResult  `json:"margins,omitempty" yaml:"margins,omitempty"`
	Errs       []GridCalcError `json:"errs" yaml:"errs"`
}

// OK reports whether the grid height is usable.
func (r *GridHeightResult) OK() bool { return r != nil && !HasCritical(r.Errs) }

// Chain is the ordered sequence of attempts made by one calculation. The
// last entry is the outcome; earlier entries are the failed attempts that
// triggered each correction.
type Chain []Result

// Last returns the final attempt, or nil for an empty chain.
func (c Chain) Last() Result {
	if len(c) == 0 {
		return nil
	}
	return c[len(c)-1]
}

// OK reports whether the final attempt carries no critical errors.
func (c Chain) OK() bool {
	last := c.Last()
	return last != nil && !HasCritical(last.Base().Errs)
}
