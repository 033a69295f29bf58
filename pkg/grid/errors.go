package grid

import "fmt"

// Severity separates errors that invalidate a result from informational
// ones that were already corrected.
type Severity int

const (
	Critical Severity = iota // the result is unusable
	Silent                   // the input was corrected; the result stands
)

func (s Severity) String() string {
	switch s {
	case Critical:
		return "critical"
	case Silent:
		return "silent"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Code identifies a calculation diagnostic. The numeric values are stable
// and shared with host integrations.
type Code int

const (
	CodePillarWidthTooSmall      Code = iota + 1 // 1: pillar width below minimum
	CodeGridWidthTooSmall                        // 2: grid width below minimum
	CodeMarginsTooLarge                          // 3: left/right margins rescaled
	CodeGutterWidthTooSmall                      // 4: gutter width below minimum
	CodeTopBottomMarginsTooLarge                 // 5: top/bottom margins rescaled
	CodeInvalidPillarWidthInput                  // 6: pillar width calc not feasible
	CodeInvalidGutterWidthInput                  // 7: gutter width calc not feasible
	CodeInvalidGridHeightInput                   // 8: grid height calc not feasible
)

// Limits holds the minimums a valid result must respect.
type Limits struct {
	MinPillarWidth float64
	MinGridWidth   float64
	MinGutterWidth float64
}

// DefaultLimits are the minimums used by every calculator.
var DefaultLimits = Limits{
	MinPillarWidth: 1,
	MinGridWidth:   1,
	MinGutterWidth: 0,
}

// GridCalcError is a single diagnostic attached to a result.
type GridCalcError struct {
	Code     Code     `json:"code" yaml:"code"`
	Severity Severity `json:"severity" yaml:"severity"`
	Axis     Axis     `json:"axis" yaml:"axis"`
	Message  string   `json:"message" yaml:"message"`
}

func (e GridCalcError) Error() string {
	return fmt.Sprintf("[%s] %s (code %d)", e.Severity, e.Message, e.Code)
}

// IsCritical reports whether the error invalidates its result.
func (e GridCalcError) IsCritical() bool { return e.Severity == Critical }

// NewError builds the diagnostic for code on the given axis.
func NewError(code Code, axis Axis) GridCalcError {
	t, ok := messages[code]
	if !ok {
		return GridCalcError{
			Code:     code,
			Severity: Critical,
			Axis:     axis,
			Message:  fmt.Sprintf("Unknown grid calculation error %d.", int(code)),
		}
	}
	return GridCalcError{
		Code:     code,
		Severity: t.severity,
		Axis:     axis,
		Message:  t.format(nounsFor(axis), DefaultLimits),
	}
}

// ---------------------------------------------------------------------------
// Message table
// ---------------------------------------------------------------------------

// nouns names the measurements of one axis.
type nouns struct {
	pillar    string // "column"
	pillarDim string // "Column width"
	span      string // "Grid width"
	calc      string // "column width"
	gutter    string // "Gutter width"
}

func nounsFor(axis Axis) nouns {
	if axis == Rows {
		return nouns{pillar: "row", pillarDim: "Row height", span: "Grid height", calc: "row height", gutter: "Row gutter width"}
	}
	return nouns{pillar: "column", pillarDim: "Column width", span: "Grid width", calc: "column width", gutter: "Gutter width"}
}

type template struct {
	severity Severity
	format   func(n nouns, l Limits) string
}

var messages map[Code]template

func init() {
	messages = map[Code]template{
		CodePillarWidthTooSmall: {Critical, func(n nouns, l Limits) string {
			return fmt.Sprintf("%s is less than %g.", n.pillarDim, l.MinPillarWidth)
		}},
		CodeGridWidthTooSmall: {Critical, func(n nouns, l Limits) string {
			return fmt.Sprintf("%s is less than %g.", n.span, l.MinGridWidth)
		}},
		CodeMarginsTooLarge: {Silent, func(n nouns, l Limits) string {
			return "Right & left margins exceeded the canvas width and were scaled down."
		}},
		CodeGutterWidthTooSmall: {Critical, func(n nouns, l Limits) string {
			return fmt.Sprintf("%s is less than %g.", n.gutter, l.MinGutterWidth)
		}},
		CodeTopBottomMarginsTooLarge: {Silent, func(n nouns, l Limits) string {
			return "Top & bottom margins exceeded the canvas height and were scaled down."
		}},
		CodeInvalidPillarWidthInput: {Critical, func(n nouns, l Limits) string {
			return fmt.Sprintf("Invalid form data for %s calculations.", n.calc)
		}},
		CodeInvalidGutterWidthInput: {Critical, func(n nouns, l Limits) string {
			return fmt.Sprintf("Invalid form data for %s gutter width calculations.", n.pillar)
		}},
		CodeInvalidGridHeightInput: {Critical, func(n nouns, l Limits) string {
			return "Invalid form data for grid height calculations."
		}},
	}
}

// HasCritical reports whether any error in errs is critical.
func HasCritical(errs []GridCalcError) bool {
	for _, e := range errs {
		if e.IsCritical() {
			return true
		}
	}
	return false
}
