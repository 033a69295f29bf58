package grid

import "math"

// slackEpsilon is the rounding slack below which margins are left untouched.
const slackEpsilon = 1e-9

// Options control how a calculation recovers and where slack goes.
type Options struct {
	// Corrections is the fallback stack, consumed from the back. A nil stack
	// means a failed first attempt is final.
	Corrections Corrections
	// UpdateLeftMargin absorbs rounding slack into the start margin (left,
	// or top on the row axis) instead of the end margin.
	UpdateLeftMargin bool
}

// DefaultOptions uses the canonical correction order.
func DefaultOptions() Options {
	return Options{Corrections: CanonicalCorrections}
}

// CalcPillarWidth solves for the pillar width given the gutter, pillar count
// and margins. On failure it applies corrections until an attempt passes or
// the stack is empty. The returned state carries the solved values; the
// chain lists every attempt in order.
func CalcPillarWidth(s CalcState, opts Options) (CalcState, Chain) {
	return solve(s, KindPillarWidth, opts)
}

// CalcGutterWidth solves for the gutter width given the pillar width,
// pillar count and margins, with the same recovery as CalcPillarWidth.
func CalcGutterWidth(s CalcState, opts Options) (CalcState, Chain) {
	return solve(s, KindGutterWidth, opts)
}

// solve folds the correction stack over successive attempts.
func solve(s CalcState, kind CalcKind, opts Options) (CalcState, Chain) {
	var chain Chain
	pending := opts.Corrections
	for {
		next, res, ok := attempt(s, kind, opts.UpdateLeftMargin)
		chain = append(chain, res)
		s = next
		if ok {
			return s, chain
		}

		c, rest, more := pending.Pop()
		if !more {
			return s, chain
		}
		pending = rest
		s, kind = c.apply(s)
	}
}

func attempt(s CalcState, kind CalcKind, updateStart bool) (CalcState, Result, bool) {
	if kind == KindGutterWidth {
		return gutterWidthAttempt(s, updateStart)
	}
	return pillarWidthAttempt(s, updateStart)
}

// newMeasures reconciles the main-axis margins and seeds the measures with
// the outcome. The reconciled margins stay in the state even if the attempt
// fails.
func newMeasures(s CalcState) (CalcState, Measures) {
	s, margins := CalcRightLeftMargins(s)
	m := Measures{
		Axis:       s.Axis,
		MarginsSum: margins.Sum,
		Errs:       margins.Errs,
	}
	if margins.Corrected {
		m.Margins = &MarginAdjustment{Start: margins.Start, End: margins.End}
	}
	return s, m
}

func pillarWidthAttempt(s CalcState, updateStart bool) (CalcState, Result, bool) {
	s, m := newMeasures(s)
	n := s.pillarCount()

	m.GutterWidth = s.GutterWidth
	m.GutterWidthsSum = s.floorVal(s.GutterWidth * (n - 1))
	m.PillarWidth = s.floorPositive((s.CanvasWidth - m.MarginsSum - m.GutterWidthsSum) / n)
	m.PillarWidthsSum = s.floorVal(m.PillarWidth * n)
	m.GridWidth = s.floorVal(m.PillarWidthsSum + m.GutterWidthsSum)

	res := &PillarWidthResult{Measures: m}
	if !ValidateCalcResult(res) {
		return s, res, false
	}
	s.PillarWidth = res.PillarWidth
	s = absorbSlack(s, &res.Measures, updateStart)
	return s, res, true
}

func gutterWidthAttempt(s CalcState, updateStart bool) (CalcState, Result, bool) {
	s, m := newMeasures(s)
	n := s.pillarCount()

	m.PillarWidth = s.PillarWidth
	m.PillarWidthsSum = s.floorVal(s.PillarWidth * n)
	available := s.CanvasWidth - m.MarginsSum - m.PillarWidthsSum
	if n == 1 {
		// A lone pillar has no gutter; a pillar wider than the space left
		// shows up as a negative gutter.
		m.GutterWidth = s.floorPositive(math.Min(available, 0))
		m.GutterWidthsSum = 0
	} else {
		m.GutterWidth = s.floorPositive(available / (n - 1))
		m.GutterWidthsSum = s.floorVal(m.GutterWidth * (n - 1))
	}
	m.GridWidth = s.floorVal(m.PillarWidthsSum + m.GutterWidthsSum)

	res := &GutterWidthResult{Measures: m}
	if !ValidateCalcResult(res) {
		return s, res, false
	}
	s.GutterWidth = res.GutterWidth
	s = absorbSlack(s, &res.Measures, updateStart)
	return s, res, true
}

// absorbSlack moves whatever the grid and margins leave of the canvas into
// one margin so the three always add up to the canvas width. Slack is never
// negative for an accepted attempt; if rounding says otherwise the margins
// are left alone rather than pushed below 0.
func absorbSlack(s CalcState, m *Measures, updateStart bool) CalcState {
	slack := s.CanvasWidth - m.GridWidth - m.MarginsSum
	if slack < slackEpsilon {
		return s
	}
	if updateStart {
		s.LeftMargin += slack
	} else {
		s.RightMargin += slack
	}
	m.MarginsSum = s.LeftMargin + s.RightMargin
	m.Margins = &MarginAdjustment{Start: s.LeftMargin, End: s.RightMargin}
	return s
}

// ---------------------------------------------------------------------------
// Cross axis
// ---------------------------------------------------------------------------

// CalcGridHeight reconciles the cross-axis margins and returns the span they
// leave, i.e. the grid height when the state describes columns.
func CalcGridHeight(s CalcState) (CalcState, *GridHeightResult) {
	s, margins := CalcTopBottomMargins(s)
	res := &GridHeightResult{
		Axis:       s.Axis.Cross(),
		GridHeight: s.floorVal(s.CanvasHeight - margins.Sum),
		MarginsSum: margins.Sum,
		Errs:       append([]GridCalcError(nil), margins.Errs...),
	}
	if margins.Corrected {
		res.Margins = margins
	}
	if res.GridHeight < DefaultLimits.MinGridWidth {
		res.Errs = append(res.Errs, NewError(CodeGridWidthTooSmall, res.Axis))
	}
	return s, res
}
