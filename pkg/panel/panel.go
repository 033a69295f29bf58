// Package panel is the request/response service behind the grid form. A
// request carries the whole form and the field whose edit triggered it; the
// response carries the corrected form, per-axis reports, diagnostics and,
// when the layout is drawable, the plan to draw.
package panel

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mattlean/gridnik/pkg/grid"
	"github.com/mattlean/gridnik/pkg/plan"
)

// Field names a form field, using the form's JSON names.
type Field string

const (
	FieldCanvasWidth    Field = "canvasWidth"
	FieldCanvasHeight   Field = "canvasHeight"
	FieldCols           Field = "cols"
	FieldColGutterWidth Field = "colGutterWidth"
	FieldColWidth       Field = "colWidth"
	FieldRows           Field = "rows"
	FieldRowGutterWidth Field = "rowGutterWidth"
	FieldRowHeight      Field = "rowHeight"
	FieldTopMargin      Field = "topMargin"
	FieldRightMargin    Field = "rightMargin"
	FieldBottomMargin   Field = "bottomMargin"
	FieldLeftMargin     Field = "leftMargin"
	FieldFloorVals      Field = "floorVals"
)

var knownFields = map[Field]bool{
	FieldCanvasWidth: true, FieldCanvasHeight: true,
	FieldCols: true, FieldColGutterWidth: true, FieldColWidth: true,
	FieldRows: true, FieldRowGutterWidth: true, FieldRowHeight: true,
	FieldTopMargin: true, FieldRightMargin: true, FieldBottomMargin: true, FieldLeftMargin: true,
	FieldFloorVals: true,
}

// Valid reports whether f names a form field. The empty field is valid and
// means no particular field changed.
func (f Field) Valid() bool { return f == "" || knownFields[f] }

// Request is one calculation request.
type Request struct {
	Form    grid.Form `json:"form" yaml:"form"`
	Changed Field     `json:"changed,omitempty" yaml:"changed,omitempty"`
}

// Attempt summarizes one entry of a correction chain.
type Attempt struct {
	Kind        grid.CalcKind `json:"kind" yaml:"kind"`
	PillarWidth float64       `json:"pillarWidth" yaml:"pillarWidth"`
	GutterWidth float64       `json:"gutterWidth" yaml:"gutterWidth"`
	GridWidth   float64       `json:"gridWidth" yaml:"gridWidth"`
	Codes       []grid.Code   `json:"codes" yaml:"codes"`
}

// AxisReport is the outcome of one axis.
type AxisReport struct {
	Axis     grid.Axis      `json:"axis" yaml:"axis"`
	Solved   grid.CalcKind  `json:"solved" yaml:"solved"`
	OK       bool           `json:"ok" yaml:"ok"`
	Final    *grid.Measures `json:"final,omitempty" yaml:"final,omitempty"`
	Attempts []Attempt      `json:"attempts" yaml:"attempts"`
}

// Response is the outcome of one request.
type Response struct {
	RequestID   string               `json:"requestId" yaml:"requestId"`
	Name        string               `json:"name,omitempty" yaml:"name,omitempty"`
	Form        grid.Form            `json:"form" yaml:"form"`
	Columns     *AxisReport          `json:"columns" yaml:"columns"`
	Rows        *AxisReport          `json:"rows,omitempty" yaml:"rows,omitempty"`
	GridHeight  float64              `json:"gridHeight" yaml:"gridHeight"`
	Diagnostics []grid.GridCalcError `json:"diagnostics" yaml:"diagnostics"`
	Drawable    bool                 `json:"drawable" yaml:"drawable"`
	Plan        *plan.Plan           `json:"plan,omitempty" yaml:"plan,omitempty"`
}

// Critical reports whether any diagnostic is critical.
func (r Response) Critical() bool { return grid.HasCritical(r.Diagnostics) }

// Panel runs calculations with a fixed set of defaults.
type Panel struct {
	logger   *zap.Logger
	defaults grid.Options
}

// New returns a panel. A nil logger discards output.
func New(defaults grid.Options, logger *zap.Logger) *Panel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Panel{logger: logger.Named("panel"), defaults: defaults}
}

// Requests returns the axis requests for an edit of changed. Editing a
// pillar width solves that axis for its gutter instead.
func (p *Panel) Requests(changed Field) (cols, rows grid.AxisRequest) {
	cols = grid.AxisRequest{Solve: grid.KindPillarWidth, Options: p.defaults}
	rows = cols
	switch changed {
	case FieldColWidth:
		cols.Solve = grid.KindGutterWidth
	case FieldRowHeight:
		rows.Solve = grid.KindGutterWidth
	}
	return cols, rows
}

// Submit calculates the layout for a form request.
func (p *Panel) Submit(req Request) (Response, error) {
	if !req.Changed.Valid() {
		return Response{}, fmt.Errorf("panel: unknown field %q", req.Changed)
	}
	cols, rows := p.Requests(req.Changed)
	resp := p.respond(grid.CalcLayout(req.Form, cols, rows))
	p.logger.Info("calculated layout",
		zap.String("request_id", resp.RequestID),
		zap.String("changed", string(req.Changed)),
		zap.Bool("drawable", resp.Drawable),
		zap.Int("diagnostics", len(resp.Diagnostics)),
	)
	return resp, nil
}

// Evaluate calculates the layout of a named definition.
func (p *Panel) Evaluate(def grid.Definition) Response {
	resp := p.respond(grid.CalcLayout(def.Form, def.Columns, def.Rows))
	resp.Name = def.Name
	p.logger.Info("calculated grid",
		zap.String("request_id", resp.RequestID),
		zap.String("grid", def.Name),
		zap.Bool("drawable", resp.Drawable),
		zap.Int("diagnostics", len(resp.Diagnostics)),
	)
	return resp
}

func (p *Panel) respond(l grid.Layout) Response {
	resp := Response{
		RequestID:   uuid.NewString(),
		Form:        l.Form,
		Columns:     axisReport(l.Columns),
		Rows:        axisReport(l.Rows),
		GridHeight:  l.GridHeight(),
		Diagnostics: diagnostics(l),
	}

	pl, err := plan.Build(l)
	switch {
	case err == nil:
		resp.Drawable = true
		resp.Plan = pl
	case errors.Is(err, plan.ErrNotDrawable):
		p.logger.Debug("layout not drawable", zap.String("request_id", resp.RequestID), zap.Error(err))
	default:
		p.logger.Error("building plan", zap.String("request_id", resp.RequestID), zap.Error(err))
	}

	for _, d := range resp.Diagnostics {
		p.logger.Debug("diagnostic",
			zap.String("request_id", resp.RequestID),
			zap.Int("code", int(d.Code)),
			zap.Stringer("severity", d.Severity),
			zap.Stringer("axis", d.Axis),
		)
	}
	return resp
}

func axisReport(a *grid.AxisLayout) *AxisReport {
	if a == nil {
		return nil
	}
	r := &AxisReport{
		Axis:     a.Axis,
		OK:       a.OK(),
		Final:    a.Final(),
		Attempts: make([]Attempt, 0, len(a.Chain)),
	}
	if last := a.Chain.Last(); last != nil {
		r.Solved = last.Kind()
	}
	for _, res := range a.Chain {
		m := res.Base()
		codes := make([]grid.Code, 0, len(m.Errs))
		for _, e := range m.Errs {
			codes = append(codes, e.Code)
		}
		r.Attempts = append(r.Attempts, Attempt{
			Kind:        res.Kind(),
			PillarWidth: m.PillarWidth,
			GutterWidth: m.GutterWidth,
			GridWidth:   m.GridWidth,
			Codes:       codes,
		})
	}
	return r
}

// diagnostics lists the errors of the layout. Silent errors from earlier
// attempts are kept, since the corrections they report carry forward;
// critical errors of superseded attempts are dropped.
func diagnostics(l grid.Layout) []grid.GridCalcError {
	type key struct {
		code grid.Code
		axis grid.Axis
	}
	seen := make(map[key]bool)
	out := make([]grid.GridCalcError, 0)
	add := func(e grid.GridCalcError) {
		k := key{e.Code, e.Axis}
		if seen[k] {
			return
		}
		seen[k] = true
		out = append(out, e)
	}

	for _, a := range []*grid.AxisLayout{l.Columns, l.Rows} {
		if a == nil || len(a.Chain) < 2 {
			continue
		}
		for _, res := range a.Chain[:len(a.Chain)-1] {
			for _, e := range res.Base().Errs {
				if !e.IsCritical() {
					add(e)
				}
			}
		}
	}
	for _, e := range l.Errs() {
		add(e)
	}
	return out
}
