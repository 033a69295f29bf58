package grid

import (
	"fmt"
	"strings"
)

// Correction is one fallback adjustment applied after a failed attempt.
type Correction int

const (
	CorrectMargins     Correction = iota + 1 // zero the main-axis margins
	CorrectPillars                           // collapse to a single pillar
	CorrectGutterWidth                       // zero the gutter
	CorrectPillarWidth                       // shrink pillars to the minimum width
)

func (c Correction) String() string {
	switch c {
	case CorrectMargins:
		return "margins"
	case CorrectPillars:
		return "pillars"
	case CorrectGutterWidth:
		return "gutterWidth"
	case CorrectPillarWidth:
		return "pillarWidth"
	default:
		return fmt.Sprintf("Correction(%d)", int(c))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Correction) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Correction) UnmarshalText(b []byte) error {
	parsed, err := ParseCorrection(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// apply adjusts the state and returns the calculation to retry with.
func (c Correction) apply(s CalcState) (CalcState, CalcKind) {
	switch c {
	case CorrectMargins:
		s.LeftMargin, s.RightMargin = 0, 0
		return s, KindPillarWidth
	case CorrectPillars:
		s.Pillars = 1
		s.GutterWidth = 0
		return s, KindPillarWidth
	case CorrectGutterWidth:
		s.GutterWidth = 0
		return s, KindPillarWidth
	case CorrectPillarWidth:
		s.PillarWidth = DefaultLimits.MinPillarWidth
		return s, KindGutterWidth
	}
	return s, KindPillarWidth
}

// normalizeName lowercases a name and drops separators so that kebab, snake
// and camel spellings compare equal.
func normalizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', '_', ' ':
			return -1
		}
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, strings.TrimSpace(name))
}

// ParseCorrection maps a correction name to its value. Column and row
// spellings are accepted alongside the axis-neutral ones.
func ParseCorrection(name string) (Correction, error) {
	switch normalizeName(name) {
	case "margins", "rightleftmargins", "topbottommargins":
		return CorrectMargins, nil
	case "pillars", "cols", "columns", "rows":
		return CorrectPillars, nil
	case "gutterwidth", "gutter", "colgutterwidth", "rowgutterwidth":
		return CorrectGutterWidth, nil
	case "pillarwidth", "colwidth", "columnwidth", "rowheight":
		return CorrectPillarWidth, nil
	}
	return 0, fmt.Errorf("grid: unknown correction %q", name)
}

// ---------------------------------------------------------------------------
// Correction stack
// ---------------------------------------------------------------------------

// Corrections is an ordered stack of corrections consumed from the back.
// It is never modified in place; Pop returns the remaining stack.
type Corrections []Correction

// CanonicalCorrections tries the pillar width first, then the gutter, then
// the pillar count, and gives up the margins last.
var CanonicalCorrections = Corrections{
	CorrectMargins,
	CorrectPillars,
	CorrectGutterWidth,
	CorrectPillarWidth,
}

// Pop returns the top correction and the stack below it.
func (c Corrections) Pop() (Correction, Corrections, bool) {
	if len(c) == 0 {
		return 0, nil, false
	}
	n := len(c) - 1
	return c[n], c[:n:n], true
}

// ParseCorrections parses an ordered list of correction names.
func ParseCorrections(names []string) (Corrections, error) {
	out := make(Corrections, 0, len(names))
	for _, name := range names {
		c, err := ParseCorrection(name)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Strings returns the canonical names in stack order.
func (c Corrections) Strings() []string {
	out := make([]string, len(c))
	for i, corr := range c {
		out[i] = corr.String()
	}
	return out
}
