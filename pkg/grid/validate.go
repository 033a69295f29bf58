package grid

import "math"

// ---------------------------------------------------------------------------
// Input coercion and clamping
// ---------------------------------------------------------------------------

// ValidateInputs coerces numeric text, defaults a blank gutter and blank
// margins to 0 and clamps every numeric field into its legal range, in
// place. Any other blank or non-numeric field is left alone so the
// feasibility predicates can reject it. Running it twice has no further
// effect.
func ValidateInputs(in *Input) {
	coerce := func(v *Value, integer bool) {
		switch {
		case v.IsNumber():
		case v.IsNumeric():
			f, _ := v.parseNumeric()
			*v = Num(f)
		default:
			return
		}
		if integer || in.FloorVals {
			*v = Num(math.Trunc(v.num))
		}
	}
	blankTo := func(v *Value, def float64) {
		if v.IsBlank() {
			*v = Num(def)
		}
	}

	coerce(&in.CanvasWidth, false)
	coerce(&in.CanvasHeight, false)
	coerce(&in.Pillars, true)
	coerce(&in.GutterWidth, false)
	coerce(&in.PillarWidth, false)
	coerce(&in.TopMargin, false)
	coerce(&in.RightMargin, false)
	coerce(&in.BottomMargin, false)
	coerce(&in.LeftMargin, false)

	blankTo(&in.GutterWidth, 0)
	blankTo(&in.TopMargin, 0)
	blankTo(&in.RightMargin, 0)
	blankTo(&in.BottomMargin, 0)
	blankTo(&in.LeftMargin, 0)

	atLeast(&in.CanvasWidth, 1)
	atLeast(&in.CanvasHeight, 1)
	atLeast(&in.Pillars, 1)
	atLeast(&in.GutterWidth, DefaultLimits.MinGutterWidth)
	atLeast(&in.PillarWidth, DefaultLimits.MinPillarWidth)
	atLeast(&in.TopMargin, 0)
	atLeast(&in.RightMargin, 0)
	atLeast(&in.BottomMargin, 0)
	atLeast(&in.LeftMargin, 0)

	if in.CanvasWidth.IsNumber() {
		w := in.CanvasWidth.num
		atMost(&in.Pillars, math.Max(1, math.Floor(w)))
		atMost(&in.GutterWidth, w)
		atMost(&in.PillarWidth, w)
		atMost(&in.RightMargin, w-1)
		atMost(&in.LeftMargin, w-1)
	}
	if in.CanvasHeight.IsNumber() {
		h := in.CanvasHeight.num
		atMost(&in.TopMargin, h-1)
		atMost(&in.BottomMargin, h-1)
	}

	if in.Pillars.IsNumber() && in.Pillars.num == 1 {
		in.GutterWidth = Num(0)
	}
}

func atLeast(v *Value, min float64) {
	if v.IsNumber() && v.num < min {
		*v = Num(min)
	}
}

func atMost(v *Value, max float64) {
	if v.IsNumber() && v.num > max {
		*v = Num(max)
	}
}

// ---------------------------------------------------------------------------
// Feasibility
// ---------------------------------------------------------------------------

// ValidatePillarWidthCalc reports whether every field read when solving for
// the pillar width is numeric.
func ValidatePillarWidthCalc(in Input) bool {
	return allNumeric(in.CanvasWidth, in.Pillars, in.GutterWidth, in.RightMargin, in.LeftMargin)
}

// ValidateGutterWidthCalc reports whether every field read when solving for
// the gutter width is numeric.
func ValidateGutterWidthCalc(in Input) bool {
	return allNumeric(in.CanvasWidth, in.Pillars, in.PillarWidth, in.RightMargin, in.LeftMargin)
}

// ValidateGridHeightCalc reports whether the cross-axis span can be derived.
func ValidateGridHeightCalc(in Input) bool {
	return allNumeric(in.CanvasHeight, in.TopMargin, in.BottomMargin)
}

func allNumeric(vals ...Value) bool {
	for _, v := range vals {
		if !v.IsNumeric() {
			return false
		}
	}
	return true
}

// ---------------------------------------------------------------------------
// Result validation
// ---------------------------------------------------------------------------

// ValidateCalcResult checks the pillar width, grid width and gutter width of
// r against DefaultLimits, in that order, appending one critical error per
// violation. It reports whether r passed.
func ValidateCalcResult(r Result) bool {
	m := r.Base()
	ok := true
	if m.PillarWidth < DefaultLimits.MinPillarWidth {
		m.Errs = append(m.Errs, NewError(CodePillarWidthTooSmall, m.Axis))
		ok = false
	}
	if m.GridWidth < DefaultLimits.MinGridWidth {
		m.Errs = append(m.Errs, NewError(CodeGridWidthTooSmall, m.Axis))
		ok = false
	}
	if m.GutterWidth < DefaultLimits.MinGutterWidth {
		m.Errs = append(m.Errs, NewError(CodeGutterWidthTooSmall, m.Axis))
		ok = false
	}
	return ok
}
