package cli

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/mattlean/gridnik/pkg/grid"
	"github.com/mattlean/gridnik/pkg/panel"
)

// format is an output encoding.
type format string

const (
	formatText format = "text"
	formatJSON format = "json"
	formatYAML format = "yaml"
)

func parseFormat(s string) (format, error) {
	switch f := format(strings.ToLower(s)); f {
	case formatText, formatJSON, formatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q, expected text, json or yaml", s)
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	labelStyle    = lipgloss.NewStyle().Width(10).Foreground(lipgloss.Color("8"))
	criticalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	silentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// render writes responses in the requested format. JSON and YAML output a
// single object for one response and a list otherwise.
func render(w io.Writer, f format, resps ...panel.Response) error {
	var v any = resps
	if len(resps) == 1 {
		v = resps[0]
	}
	switch f {
	case formatJSON:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", b)
		return err
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	}

	for i, r := range resps {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if _, err := io.WriteString(w, renderText(r)); err != nil {
			return err
		}
	}
	return nil
}

func num(f float64) string {
	return strconv.FormatFloat(math.Round(f*1e4)/1e4, 'f', -1, 64)
}

func row(b *strings.Builder, label, value string) {
	b.WriteString(labelStyle.Render(label))
	b.WriteString(value)
	b.WriteByte('\n')
}

func axisLine(a *panel.AxisReport, count grid.Value) string {
	m := a.Final
	if m == nil {
		return "not calculated"
	}
	attempts := "1 attempt"
	if n := len(a.Attempts); n != 1 {
		attempts = fmt.Sprintf("%d attempts", n)
	}
	return fmt.Sprintf("%s × %s, gutter %s, span %s (%s, %s)",
		count.Raw(), num(m.PillarWidth), num(m.GutterWidth), num(m.GridWidth), a.Solved, attempts)
}

func renderText(r panel.Response) string {
	var b strings.Builder
	title := "Grid"
	if r.Name != "" {
		title = "Grid " + r.Name
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteByte('\n')

	f := r.Form
	row(&b, "Canvas", f.CanvasWidth.Raw()+" × "+f.CanvasHeight.Raw())
	if r.Columns != nil {
		row(&b, "Columns", axisLine(r.Columns, f.Cols))
	}
	if r.Rows != nil {
		row(&b, "Rows", axisLine(r.Rows, f.Rows))
	}
	row(&b, "Margins", fmt.Sprintf("top %s  right %s  bottom %s  left %s",
		f.TopMargin.Raw(), f.RightMargin.Raw(), f.BottomMargin.Raw(), f.LeftMargin.Raw()))
	row(&b, "Height", num(r.GridHeight))

	for _, d := range r.Diagnostics {
		style := silentStyle
		if d.Severity == grid.Critical {
			style = criticalStyle
		}
		b.WriteString(style.Render(d.Error()))
		b.WriteByte('\n')
	}
	if r.Drawable {
		row(&b, "Drawable", okStyle.Render("yes"))
	} else {
		row(&b, "Drawable", criticalStyle.Render("no"))
	}
	return b.String()
}
