package main

import (
	"os"
	"testing"

	"github.com/mattlean/gridnik/pkg/config"
	"github.com/mattlean/gridnik/pkg/grid"
	"github.com/mattlean/gridnik/pkg/panel"
)

// newTestApp returns an App with a coarse mesh so the end-to-end tests stay
// fast.
func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := config.NewDefaultConfig()
	cfg.Export.MeshCells = 40
	cfg.Export.Workers = 2
	return NewApp(cfg, nil)
}

// TestE2EBootstrapExample exercises the full pipeline: Lisp source → engine →
// panel → plan → tessellate → meshes. This is the same path that the Wails
// Evaluate binding takes, but without the Wails runtime.
func TestE2EBootstrapExample(t *testing.T) {
	app := newTestApp(t)

	source, err := os.ReadFile("examples/bootstrap.gridnik")
	if err != nil {
		t.Fatalf("failed to read bootstrap.gridnik: %v", err)
	}

	result := app.Evaluate(string(source))

	// No errors expected.
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}
	if len(result.Grids) != 1 {
		t.Fatalf("expected 1 grid, got %d", len(result.Grids))
	}

	// Expect the margin frame plus 12 columns.
	if len(result.Meshes) != 13 {
		t.Fatalf("expected 13 meshes, got %d", len(result.Meshes))
	}

	frame := result.Meshes[0]
	if frame.PartName != "Margins" || frame.Kind != "margin" {
		t.Errorf("first mesh = %q (%s), want the margin frame", frame.PartName, frame.Kind)
	}
	if frame.Color != marginColor {
		t.Errorf("frame color = %q, want %q", frame.Color, marginColor)
	}

	for i, m := range result.Meshes[1:] {
		if m.Kind != "column" {
			t.Errorf("mesh %d: kind = %q, want column", i+1, m.Kind)
		}
		if m.Grid != "bootstrap" {
			t.Errorf("mesh %d: grid = %q", i+1, m.Grid)
		}

		// Each mesh must have non-empty geometry.
		if len(m.Vertices) == 0 {
			t.Errorf("part %q: no vertices", m.PartName)
		}
		if len(m.Normals) == 0 {
			t.Errorf("part %q: no normals", m.PartName)
		}
		if len(m.Indices) == 0 {
			t.Errorf("part %q: no indices", m.PartName)
		}

		// Must have a color assigned.
		if m.Color == "" {
			t.Errorf("part %q: no color assigned", m.PartName)
		}
	}
	if result.Meshes[1].PartName != "Column 1" || result.Meshes[12].PartName != "Column 12" {
		t.Errorf("columns out of order: %q .. %q", result.Meshes[1].PartName, result.Meshes[12].PartName)
	}

	cols := result.Grids[0].Columns
	if cols == nil || cols.Final == nil {
		t.Fatal("expected a final column measure")
	}
	if cols.Final.PillarWidth != 81.25 {
		t.Errorf("column width = %v, want 81.25", cols.Final.PillarWidth)
	}
}

// TestE2EEditorialExample evaluates a sheet with several grids, rows and
// inheritance.
func TestE2EEditorialExample(t *testing.T) {
	app := newTestApp(t)

	source, err := os.ReadFile("examples/editorial.gridnik")
	if err != nil {
		t.Fatalf("failed to read editorial.gridnik: %v", err)
	}

	result := app.Evaluate(string(source))
	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Grids) != 3 {
		t.Fatalf("expected 3 grids, got %d", len(result.Grids))
	}

	names := []string{"page", "fixed-measure", "bleed"}
	for i, want := range names {
		if result.Grids[i].Name != want {
			t.Errorf("grid %d = %q, want %q", i, result.Grids[i].Name, want)
		}
		if !result.Grids[i].Drawable {
			t.Errorf("grid %q should be drawable", want)
		}
	}

	// page: frame + 6 columns + 8 rows. bleed has no frame.
	counts := map[string]int{}
	for _, m := range result.Meshes {
		counts[m.Grid]++
	}
	if counts["page"] != 15 {
		t.Errorf("page meshes = %d, want 15", counts["page"])
	}
	if counts["bleed"] != 14 {
		t.Errorf("bleed meshes = %d, want 14", counts["bleed"])
	}

	if got := result.Grids[1].Columns.Solved; got != grid.KindGutterWidth {
		t.Errorf("fixed-measure solved %s, want gutterWidth", got)
	}
}

// TestE2EEmptySource ensures the pipeline handles empty input gracefully.
func TestE2EEmptySource(t *testing.T) {
	app := newTestApp(t)
	result := app.Evaluate("")

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors for empty source: %v", result.Errors)
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes for empty source, got %d", len(result.Meshes))
	}
}

// TestE2ESyntaxError ensures syntax errors are reported, not panicked.
func TestE2ESyntaxError(t *testing.T) {
	app := newTestApp(t)
	result := app.Evaluate(`(defgrid "broken"`)

	if len(result.Errors) == 0 {
		t.Error("expected errors for malformed source, got none")
	}
	if len(result.Meshes) != 0 {
		t.Errorf("expected 0 meshes on error, got %d", len(result.Meshes))
	}
}

// TestCalculateBinding drives the form panel binding directly.
func TestCalculateBinding(t *testing.T) {
	app := newTestApp(t)
	form := grid.Form{
		CanvasWidth:    grid.Text("1920"),
		CanvasHeight:   grid.Text("1080"),
		Cols:           grid.Text("12"),
		ColGutterWidth: grid.Text("15"),
		ColWidth:       grid.Text("80"),
		TopMargin:      grid.Text("0"),
		RightMargin:    grid.Text("390"),
		BottomMargin:   grid.Text("0"),
		LeftMargin:     grid.Text("390"),
	}

	resp, err := app.Calculate(panel.Request{Form: form, Changed: panel.FieldColWidth})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}
	if !resp.Drawable {
		t.Fatalf("expected a drawable layout, got %v", resp.Diagnostics)
	}
	if resp.Columns.Solved != grid.KindGutterWidth {
		t.Errorf("solved %s, want gutterWidth", resp.Columns.Solved)
	}
	if resp.RequestID == "" {
		t.Error("expected a request id")
	}
}

// TestExportSTL writes a grid to disk without the save dialog.
func TestExportSTL(t *testing.T) {
	app := newTestApp(t)
	source, err := os.ReadFile("examples/bootstrap.gridnik")
	if err != nil {
		t.Fatalf("failed to read bootstrap.gridnik: %v", err)
	}

	path := t.TempDir() + "/bootstrap.stl"
	if err := app.ExportSTL(string(source), "bootstrap", path); err != nil {
		t.Fatalf("ExportSTL: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("exported file is empty")
	}
}

// TestExportSTLWithoutPath fails when there is no window to ask for a path.
func TestExportSTLWithoutPath(t *testing.T) {
	app := newTestApp(t)
	err := app.ExportSTL(`(defgrid "a" :canvas (canvas 100 100) :columns (columns :count 2 :gutter 10))`, "", "")
	if err != ErrNoExportPath {
		t.Errorf("err = %v, want ErrNoExportPath", err)
	}
}
