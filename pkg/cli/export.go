package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mattlean/gridnik/pkg/grid"
	"github.com/mattlean/gridnik/pkg/kernel/backend"
	"github.com/mattlean/gridnik/pkg/plan"
	"github.com/mattlean/gridnik/pkg/tessellate"
)

// ErrUnknownGrid is returned when --grid names no grid in the source.
var ErrUnknownGrid = errors.New("unknown grid")

func newExportCmd(s *state) *cobra.Command {
	var gridName, out, kernelName string

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Export one grid of a source file as an STL relief.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sheet, err := s.evaluateFile(args[0])
			if err != nil {
				return err
			}
			if sheet.Len() == 0 {
				return fmt.Errorf("%w: %s defines no grids", ErrUnknownGrid, args[0])
			}

			def := sheet.Grids[0]
			if gridName != "" {
				var ok bool
				if def, ok = sheet.Lookup(gridName); !ok {
					return fmt.Errorf("%w: %q", ErrUnknownGrid, gridName)
				}
			}

			p, err := plan.Build(grid.CalcLayout(def.Form, def.Columns, def.Rows))
			if err != nil {
				return fmt.Errorf("grid %q: %w", def.Name, err)
			}

			name := s.cfg.Export.Kernel
			if kernelName != "" {
				name = kernelName
			}
			k, err := backend.New(name, s.cfg.Export.MeshCells)
			if err != nil {
				return err
			}
			solid, err := tessellate.Solid(p, k, tessellate.Options{Depth: s.cfg.Export.Depth})
			if err != nil {
				return err
			}
			if err := k.ExportSTL(solid, out); err != nil {
				return err
			}

			s.logger.Info("exported grid", zap.String("grid", def.Name), zap.String("path", out),
				zap.Int("columns", len(p.Columns)), zap.Int("rows", len(p.Rows)))
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s)\n", out, def.Name)
			return err
		},
	}
	cmd.Flags().StringVarP(&gridName, "grid", "g", "", "grid to export (default is the first grid)")
	cmd.Flags().StringVar(&out, "out", "grid.stl", "output STL path")
	cmd.Flags().StringVar(&kernelName, "kernel", "", "geometry kernel: "+strings.Join(backend.Names, " or ")+" (default from config)")
	return cmd
}
