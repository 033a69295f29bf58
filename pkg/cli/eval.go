package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mattlean/gridnik/pkg/engine"
	"github.com/mattlean/gridnik/pkg/grid"
	"github.com/mattlean/gridnik/pkg/panel"
)

// ErrEvaluation is returned when a source file has errors.
var ErrEvaluation = errors.New("evaluation failed")

func newEvalCmd(s *state) *cobra.Command {
	return &cobra.Command{
		Use:   "eval FILE",
		Short: "Evaluate a grid source file and report every grid it defines.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sheet, err := s.evaluateFile(args[0])
			if err != nil {
				return err
			}

			p := panel.New(s.cfg.Calc.Options(), s.logger)
			resps := make([]panel.Response, 0, sheet.Len())
			for _, def := range sheet.Grids {
				resps = append(resps, p.Evaluate(def))
			}
			if len(resps) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "no grids defined")
				return nil
			}

			f, _ := parseFormat(s.output)
			return render(cmd.OutOrStdout(), f, resps...)
		},
	}
}

// evaluateFile runs a source file through the DSL engine with the
// configured defaults.
func (s *state) evaluateFile(path string) (*engine.Sheet, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}

	req := grid.AxisRequest{Solve: grid.KindPillarWidth, Options: s.cfg.Calc.Options()}
	eng := engine.NewEngine(
		engine.WithTimeout(s.cfg.Engine.EvalTimeout),
		engine.WithLogger(s.logger.Named("engine")),
		engine.WithDefaults(req, s.cfg.Calc.FloorVals),
	)

	sheet, evalErrs, err := eng.Evaluate(string(source))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(evalErrs) > 0 {
		msgs := make([]string, len(evalErrs))
		for i, e := range evalErrs {
			msgs[i] = e.Error()
			s.logger.Debug("eval error", zap.String("file", path), zap.Int("line", e.Line), zap.String("message", e.Message))
		}
		return nil, fmt.Errorf("%w: %s: %s", ErrEvaluation, path, strings.Join(msgs, "; "))
	}
	return sheet, nil
}
