package grid

// marginPair names a physical pair of opposite margins.
type marginPair int

const (
	pairLeftRight marginPair = iota
	pairTopBottom
)

// code is the silent diagnostic recorded when the pair is rescaled.
func (p marginPair) code() Code {
	if p == pairTopBottom {
		return CodeTopBottomMarginsTooLarge
	}
	return CodeMarginsTooLarge
}

// mainPair is the physical pair the state's left and right margins hold.
func (s CalcState) mainPair() marginPair {
	if s.Axis == Rows {
		return pairTopBottom
	}
	return pairLeftRight
}

func (s CalcState) crossPair() marginPair {
	if s.Axis == Rows {
		return pairLeftRight
	}
	return pairTopBottom
}

// reconcile rescales start and end when together they leave less than one
// unit of canvas. The pair keeps its ratio and is brought down to a sum of
// (canvas-1)/2.
func (s CalcState) reconcile(canvas, start, end float64, pair marginPair, axis Axis) *MarginsResult {
	sum := start + end
	res := &MarginsResult{Start: start, End: end, Sum: sum}
	if sum <= canvas-1 {
		return res
	}

	target := (canvas - 1) / 2
	res.Start = s.floorVal(target * start / sum)
	res.End = s.floorVal(target * end / sum)
	res.Sum = res.Start + res.End
	res.Corrected = true
	res.Errs = append(res.Errs, NewError(pair.code(), axis))
	return res
}

// CalcRightLeftMargins reconciles the margins along the state's axis: left
// and right for columns, top and bottom for rows (which the transposed state
// holds in LeftMargin and RightMargin).
func CalcRightLeftMargins(s CalcState) (CalcState, *MarginsResult) {
	res := s.reconcile(s.CanvasWidth, s.LeftMargin, s.RightMargin, s.mainPair(), s.Axis)
	s.LeftMargin, s.RightMargin = res.Start, res.End
	return s, res
}

// CalcTopBottomMargins reconciles the margins across the state's axis.
func CalcTopBottomMargins(s CalcState) (CalcState, *MarginsResult) {
	res := s.reconcile(s.CanvasHeight, s.TopMargin, s.BottomMargin, s.crossPair(), s.Axis.Cross())
	s.TopMargin, s.BottomMargin = res.Start, res.End
	return s, res
}
