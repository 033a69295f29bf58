package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/jsonc"
	"go.uber.org/zap"

	"github.com/mattlean/gridnik/pkg/grid"
	"github.com/mattlean/gridnik/pkg/panel"
)

// calcFlags holds the raw flag values of the calc command. Form fields stay
// strings so they go through the same coercion as form text.
type calcFlags struct {
	input      string
	canvas     string
	cols       string
	gutter     string
	colWidth   string
	rows       string
	rowGutter  string
	rowHeight  string
	margins    string
	floor      bool
	changed    string
	solve      string
	rowSolve   string
	correction []string
	updateLeft bool
}

func newCalcCmd(s *state) *cobra.Command {
	var fl calcFlags

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate a grid from form values.",
		Long: `Calculate a grid from form values given as flags or read from a JSON
(or JSONC) file. Flags override values from the file.

  gridnik calc --canvas 1920x1080 --cols 12 --gutter 15 --margins 0,390,0,390`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := fl.request(cmd, s)
			if err != nil {
				return err
			}
			p := panel.New(s.cfg.Calc.Options(), s.logger)
			if !req.Changed.Valid() {
				return fmt.Errorf("unknown field %q for --changed", req.Changed)
			}
			cols, rows, err := fl.axisRequests(cmd, p, req.Changed)
			if err != nil {
				return err
			}

			resp := p.Evaluate(grid.Definition{Form: req.Form, Columns: cols, Rows: rows})
			s.logger.Debug("calc finished", zap.String("request_id", resp.RequestID), zap.Bool("drawable", resp.Drawable))

			f, _ := parseFormat(s.output)
			return render(cmd.OutOrStdout(), f, resp)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&fl.input, "input", "i", "", "read the form from a JSON or JSONC file")
	flags.StringVar(&fl.canvas, "canvas", "", "canvas size as WIDTHxHEIGHT")
	flags.StringVar(&fl.cols, "cols", "", "number of columns")
	flags.StringVar(&fl.gutter, "gutter", "", "column gutter width")
	flags.StringVar(&fl.colWidth, "col-width", "", "column width")
	flags.StringVar(&fl.rows, "rows", "", "number of rows (rows are skipped when blank)")
	flags.StringVar(&fl.rowGutter, "row-gutter", "", "row gutter width")
	flags.StringVar(&fl.rowHeight, "row-height", "", "row height")
	flags.StringVar(&fl.margins, "margins", "", "margins as ALL, VERTICAL,HORIZONTAL or TOP,RIGHT,BOTTOM,LEFT")
	flags.BoolVar(&fl.floor, "floor", false, "truncate every value to an integer")
	flags.StringVar(&fl.changed, "changed", "", "form field that was edited, e.g. colWidth")
	flags.StringVar(&fl.solve, "solve", "", "column unknown: pillar-width or gutter-width")
	flags.StringVar(&fl.rowSolve, "row-solve", "", "row unknown: pillar-width or gutter-width")
	flags.StringSliceVar(&fl.correction, "corrections", nil, "fallback corrections in stack order, last tried first")
	flags.BoolVar(&fl.updateLeft, "update-left", false, "absorb rounding slack into the left (top) margin")
	return cmd
}

// request assembles the form from the input file and the flags.
func (fl *calcFlags) request(cmd *cobra.Command, s *state) (panel.Request, error) {
	var req panel.Request
	req.Form.FloorVals = s.cfg.Calc.FloorVals

	if fl.input != "" {
		r, err := readRequest(fl.input)
		if err != nil {
			return req, err
		}
		req = r
	}

	flags := cmd.Flags()
	set := func(name, raw string, dst *grid.Value) {
		if flags.Changed(name) {
			*dst = grid.Text(raw)
		}
	}
	f := &req.Form
	if flags.Changed("canvas") {
		w, h, err := parseCanvas(fl.canvas)
		if err != nil {
			return req, err
		}
		f.CanvasWidth, f.CanvasHeight = w, h
	}
	set("cols", fl.cols, &f.Cols)
	set("gutter", fl.gutter, &f.ColGutterWidth)
	set("col-width", fl.colWidth, &f.ColWidth)
	set("rows", fl.rows, &f.Rows)
	set("row-gutter", fl.rowGutter, &f.RowGutterWidth)
	set("row-height", fl.rowHeight, &f.RowHeight)
	if flags.Changed("margins") {
		m, err := parseMargins(fl.margins)
		if err != nil {
			return req, err
		}
		f.TopMargin, f.RightMargin, f.BottomMargin, f.LeftMargin = m[0], m[1], m[2], m[3]
	}
	if flags.Changed("floor") {
		f.FloorVals = fl.floor
	}
	if flags.Changed("changed") {
		req.Changed = panel.Field(fl.changed)
	}
	return req, nil
}

// axisRequests starts from the panel's choice for the changed field and
// applies the explicit overrides.
func (fl *calcFlags) axisRequests(cmd *cobra.Command, p *panel.Panel, changed panel.Field) (cols, rows grid.AxisRequest, err error) {
	cols, rows = p.Requests(changed)
	flags := cmd.Flags()

	if flags.Changed("solve") {
		if err := cols.Solve.UnmarshalText([]byte(fl.solve)); err != nil {
			return cols, rows, err
		}
	}
	if flags.Changed("row-solve") {
		if err := rows.Solve.UnmarshalText([]byte(fl.rowSolve)); err != nil {
			return cols, rows, err
		}
	}
	if flags.Changed("corrections") {
		c, err := grid.ParseCorrections(fl.correction)
		if err != nil {
			return cols, rows, err
		}
		cols.Options.Corrections = c
		rows.Options.Corrections = c
	}
	if flags.Changed("update-left") {
		cols.Options.UpdateLeftMargin = fl.updateLeft
		rows.Options.UpdateLeftMargin = fl.updateLeft
	}
	return cols, rows, nil
}

// readRequest reads a request from a JSON file. Comments and trailing commas
// are allowed. A file holding a bare form is accepted as well.
func readRequest(path string) (panel.Request, error) {
	var req panel.Request
	data, err := os.ReadFile(path)
	if err != nil {
		return req, fmt.Errorf("reading input: %w", err)
	}
	data = jsonc.ToJSON(data)

	var probe map[string]any
	if err := json.Unmarshal(data, &probe); err != nil {
		return req, fmt.Errorf("parsing %s: %w", path, err)
	}
	if _, wrapped := probe["form"]; wrapped {
		err = json.Unmarshal(data, &req)
	} else {
		err = json.Unmarshal(data, &req.Form)
	}
	if err != nil {
		return req, fmt.Errorf("parsing %s: %w", path, err)
	}
	return req, nil
}

func parseCanvas(s string) (w, h grid.Value, err error) {
	parts := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool { return r == 'x' || r == '×' })
	switch len(parts) {
	case 1:
		return grid.Text(strings.TrimSpace(parts[0])), grid.Unset(), nil
	case 2:
		return grid.Text(strings.TrimSpace(parts[0])), grid.Text(strings.TrimSpace(parts[1])), nil
	}
	return w, h, fmt.Errorf("invalid canvas %q, expected WIDTHxHEIGHT", s)
}

// parseMargins returns top, right, bottom and left.
func parseMargins(s string) ([4]grid.Value, error) {
	var out [4]grid.Value
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	switch len(parts) {
	case 1:
		v := grid.Text(parts[0])
		out = [4]grid.Value{v, v, v, v}
	case 2:
		v, h := grid.Text(parts[0]), grid.Text(parts[1])
		out = [4]grid.Value{v, h, v, h}
	case 4:
		for i, p := range parts {
			out[i] = grid.Text(p)
		}
	default:
		return out, fmt.Errorf("invalid margins %q, expected 1, 2 or 4 values", s)
	}
	return out, nil
}
