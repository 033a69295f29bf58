package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/wailsapp/wails/v2/pkg/runtime"
	"go.uber.org/zap"

	"github.com/mattlean/gridnik/pkg/config"
	"github.com/mattlean/gridnik/pkg/engine"
	"github.com/mattlean/gridnik/pkg/grid"
	"github.com/mattlean/gridnik/pkg/kernel"
	"github.com/mattlean/gridnik/pkg/kernel/backend"
	"github.com/mattlean/gridnik/pkg/kernel/sdfx"
	"github.com/mattlean/gridnik/pkg/panel"
	"github.com/mattlean/gridnik/pkg/plan"
	"github.com/mattlean/gridnik/pkg/tessellate"
)

// colorPalette is a default palette used to assign distinct colors to columns
// and rows. The margin frame is always drawn in marginColor.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

const marginColor = "#B0B0B0"

// ErrNoExportPath is returned when an export has neither a path nor a window
// to ask for one.
var ErrNoExportPath = errors.New("no export path")

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx      context.Context
	logger   *zap.Logger
	engine   *engine.Engine
	panel    *panel.Panel
	kernel   kernel.Kernel
	tessOpts tessellate.Options
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Grid     string    `json:"grid"`
	PartName string    `json:"partName"`
	Kind     string    `json:"kind"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Grid    string `json:"grid,omitempty"`
	Code    int    `json:"code,omitempty"`
	Message string `json:"message"`
}

// EvalResult is the full result returned to the frontend.
type EvalResult struct {
	Grids    []panel.Response `json:"grids"`
	Meshes   []MeshData       `json:"meshes"`
	Errors   []EvalErrorData  `json:"errors"`
	Warnings []EvalErrorData  `json:"warnings"`
}

// NewApp creates a new App from the loaded configuration.
func NewApp(cfg *config.Config, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := cfg.Calc.Options()
	k, err := backend.New(cfg.Export.Kernel, cfg.Export.MeshCells)
	if err != nil {
		logger.Warn("kernel unavailable, using sdfx", zap.String("kernel", cfg.Export.Kernel), zap.Error(err))
		k = sdfx.New(cfg.Export.MeshCells)
	}
	return &App{
		logger: logger,
		engine: engine.NewEngine(
			engine.WithTimeout(cfg.Engine.EvalTimeout),
			engine.WithLogger(logger.Named("engine")),
			engine.WithDefaults(grid.AxisRequest{Solve: grid.KindPillarWidth, Options: opts}, cfg.Calc.FloorVals),
		),
		panel:    panel.New(opts, logger),
		kernel:   k,
		tessOpts: tessellate.Options{Depth: cfg.Export.Depth, Workers: cfg.Export.Workers},
	}
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

func (a *App) context() context.Context {
	if a.ctx == nil {
		return context.Background()
	}
	return a.ctx
}

// Calculate recalculates the form after the user leaves a field. This is the
// binding behind the grid panel.
func (a *App) Calculate(req panel.Request) (panel.Response, error) {
	return a.panel.Submit(req)
}

// Evaluate takes grid source and returns every grid with its meshes.
// This is the primary binding called by the frontend editor.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Grids:    []panel.Response{},
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the source into grid definitions.
	sheet, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		a.logger.Warn("evaluate fatal error", zap.Error(err))
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	// Step 2: Convert eval errors to the frontend format.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}

	// Step 3: Calculate each grid and tessellate the drawable ones.
	for _, def := range sheet.Grids {
		resp := a.panel.Evaluate(def)
		result.Grids = append(result.Grids, resp)

		for _, d := range resp.Diagnostics {
			data := EvalErrorData{Grid: def.Name, Code: int(d.Code), Message: d.Message}
			if d.IsCritical() {
				result.Errors = append(result.Errors, data)
			} else {
				result.Warnings = append(result.Warnings, data)
			}
		}
		if !resp.Drawable {
			continue
		}

		meshes, err := tessellate.Tessellate(a.context(), resp.Plan, a.kernel, a.tessOpts)
		if err != nil {
			a.logger.Error("tessellate error", zap.String("grid", def.Name), zap.Error(err))
			result.Errors = append(result.Errors, EvalErrorData{
				Grid:    def.Name,
				Message: "tessellation failed: " + err.Error(),
			})
			continue
		}

		// Step 4: Convert kernel meshes to the frontend MeshData format.
		for i, m := range meshes {
			color := colorPalette[i%len(colorPalette)]
			if m.Kind == "margin" {
				color = marginColor
			}
			result.Meshes = append(result.Meshes, MeshData{
				Vertices: m.Vertices,
				Normals:  m.Normals,
				Indices:  m.Indices,
				Grid:     def.Name,
				PartName: m.PartName,
				Kind:     m.Kind,
				Color:    color,
			})
		}
	}

	return result
}

// ExportSTL writes one grid of source to path as STL. With an empty path the
// user is asked for one; an empty grid name selects the first grid.
func (a *App) ExportSTL(source, gridName, path string) error {
	sheet, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		return err
	}
	if len(evalErrs) > 0 {
		return fmt.Errorf("source has errors: %w", evalErrs[0])
	}
	if sheet.Len() == 0 {
		return errors.New("source defines no grids")
	}

	def := sheet.Grids[0]
	if gridName != "" {
		var ok bool
		if def, ok = sheet.Lookup(gridName); !ok {
			return fmt.Errorf("no grid named %q", gridName)
		}
	}

	if path == "" {
		if a.ctx == nil {
			return ErrNoExportPath
		}
		path, err = runtime.SaveFileDialog(a.ctx, runtime.SaveDialogOptions{
			Title:           "Export grid",
			DefaultFilename: def.Name + ".stl",
			Filters:         []runtime.FileFilter{{DisplayName: "STL files", Pattern: "*.stl"}},
		})
		if err != nil {
			return err
		}
		if path == "" {
			return ErrNoExportPath
		}
	}

	p, err := plan.Build(grid.CalcLayout(def.Form, def.Columns, def.Rows))
	if err != nil {
		return fmt.Errorf("grid %q: %w", def.Name, err)
	}
	solid, err := tessellate.Solid(p, a.kernel, a.tessOpts)
	if err != nil {
		return err
	}
	if err := a.kernel.ExportSTL(solid, path); err != nil {
		return err
	}
	a.logger.Info("exported grid", zap.String("grid", def.Name), zap.String("path", path))
	return nil
}
