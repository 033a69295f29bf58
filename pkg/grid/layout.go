package grid

// AxisRequest says which unknown to solve for on one axis and how to
// recover when the request is infeasible.
type AxisRequest struct {
	Solve   CalcKind
	Options Options
}

// DefaultAxisRequest solves for the pillar width with the canonical
// corrections.
func DefaultAxisRequest() AxisRequest {
	return AxisRequest{Solve: KindPillarWidth, Options: DefaultOptions()}
}

// Definition is a named grid request.
type Definition struct {
	Name    string
	Form    Form
	Columns AxisRequest
	Rows    AxisRequest
}

// AxisLayout is the outcome of one axis.
type AxisLayout struct {
	Axis  Axis
	State CalcState
	Chain Chain
	// Errs holds errors raised before any attempt ran, such as an
	// infeasible request.
	Errs []GridCalcError
}

// OK reports whether the axis was solved.
func (a *AxisLayout) OK() bool {
	return a != nil && len(a.Errs) == 0 && a.Chain.OK()
}

// Final returns the measures of the last attempt, or nil.
func (a *AxisLayout) Final() *Measures {
	if a == nil {
		return nil
	}
	if last := a.Chain.Last(); last != nil {
		return last.Base()
	}
	return nil
}

// Layout is a fully computed two-axis grid.
type Layout struct {
	// Form is the input form after validation, with the solved values of
	// every successful axis written back.
	Form    Form
	Columns *AxisLayout
	// Rows is nil unless the form models rows.
	Rows *AxisLayout
	// Height is the grid height derived from the column state when rows
	// are not modeled.
	Height *GridHeightResult
}

// OK reports whether every computed part of the layout is usable.
func (l Layout) OK() bool {
	if !l.Columns.OK() {
		return false
	}
	if l.Rows != nil {
		return l.Rows.OK()
	}
	return l.Height.OK()
}

// Errs collects every diagnostic in the layout: pre-flight errors and the
// errors of each final attempt.
func (l Layout) Errs() []GridCalcError {
	var errs []GridCalcError
	for _, a := range []*AxisLayout{l.Columns, l.Rows} {
		if a == nil {
			continue
		}
		errs = append(errs, a.Errs...)
		if m := a.Final(); m != nil {
			errs = append(errs, m.Errs...)
		}
	}
	if l.Height != nil {
		errs = append(errs, l.Height.Errs...)
	}
	return errs
}

// GridHeight returns the span of the columns: the row grid width when rows
// are modeled, the derived grid height otherwise.
func (l Layout) GridHeight() float64 {
	if l.Rows != nil {
		if m := l.Rows.Final(); m != nil {
			return m.GridWidth
		}
		return 0
	}
	if l.Height != nil {
		return l.Height.GridHeight
	}
	return 0
}

// CalcLayout validates the form, solves the column axis and then either the
// row axis or the grid height. Each axis is corrected independently.
func CalcLayout(form Form, cols, rows AxisRequest) Layout {
	out := Layout{Form: form}

	colIn := form.Input(Columns)
	ValidateInputs(&colIn)
	out.Form.ApplyInput(colIn)

	out.Columns = calcAxis(colIn, cols)
	if out.Columns.OK() {
		out.Form.Apply(out.Columns.State)
	}

	if !form.HasRows() {
		if !ValidateGridHeightCalc(colIn) {
			out.Height = &GridHeightResult{
				Axis: Rows,
				Errs: []GridCalcError{NewError(CodeInvalidGridHeightInput, Rows)},
			}
			return out
		}
		s, h := CalcGridHeight(colIn.State())
		out.Height = h
		out.Form.TopMargin = Num(s.TopMargin)
		out.Form.BottomMargin = Num(s.BottomMargin)
		return out
	}

	rowIn := out.Form.Input(Rows)
	ValidateInputs(&rowIn)
	out.Form.ApplyInput(rowIn)
	out.Rows = calcAxis(rowIn, rows)
	if out.Rows.OK() {
		out.Form.Apply(out.Rows.State)
	}
	return out
}

// calcAxis runs the feasibility gate and the requested calculator.
func calcAxis(in Input, req AxisRequest) *AxisLayout {
	a := &AxisLayout{Axis: in.Axis, State: in.State()}
	switch req.Solve {
	case KindGutterWidth:
		if !ValidateGutterWidthCalc(in) {
			a.Errs = append(a.Errs, NewError(CodeInvalidGutterWidthInput, in.Axis))
			return a
		}
		a.State, a.Chain = CalcGutterWidth(a.State, req.Options)
	default:
		if !ValidatePillarWidthCalc(in) {
			a.Errs = append(a.Errs, NewError(CodeInvalidPillarWidthInput, in.Axis))
			return a
		}
		a.State, a.Chain = CalcPillarWidth(a.State, req.Options)
	}
	return a
}
