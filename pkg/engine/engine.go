// Package engine evaluates Gridnik grid definitions written in a small Lisp.
// It wraps zygomys in a sandboxed environment and produces a Sheet of named
// grid definitions from user source code.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/mattlean/gridnik/pkg/grid"
	"go.uber.org/zap"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// Sheet is the ordered set of grid definitions produced by one evaluation.
type Sheet struct {
	Grids []grid.Definition
	index map[string]int
}

// NewSheet returns an empty sheet.
func NewSheet() *Sheet {
	return &Sheet{index: make(map[string]int)}
}

// Add appends a definition. Names must be unique within a sheet.
func (s *Sheet) Add(def grid.Definition) error {
	if _, dup := s.index[def.Name]; dup {
		return fmt.Errorf("grid %q is already defined", def.Name)
	}
	s.index[def.Name] = len(s.Grids)
	s.Grids = append(s.Grids, def)
	return nil
}

// Lookup returns the definition with the given name.
func (s *Sheet) Lookup(name string) (grid.Definition, bool) {
	i, ok := s.index[name]
	if !ok {
		return grid.Definition{}, false
	}
	return s.Grids[i], true
}

// Len returns the number of definitions.
func (s *Sheet) Len() int { return len(s.Grids) }

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout sets the hard limit for a single evaluation.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithLogger sets the logger used for evaluation diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithDefaults sets the calculation request applied to both axes of every
// grid unless the source overrides it.
func WithDefaults(req grid.AxisRequest, floorVals bool) Option {
	return func(e *Engine) {
		e.defaults = req
		e.floorVals = floorVals
	}
}

// Engine wraps the zygomys interpreter for grid evaluation.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64

	timeout   time.Duration
	logger    *zap.Logger
	defaults  grid.AxisRequest
	floorVals bool
}

// NewEngine creates a new Engine instance.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		timeout:  EvalTimeout,
		logger:   zap.NewNop(),
		defaults: grid.DefaultAxisRequest(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate takes Lisp source code and produces a new Sheet.
// Each call creates a fresh zygomys sandbox for deterministic evaluation.
//
// Return semantics:
//   - On success: returns sheet + nil errors + nil error
//   - On parse/eval failure: returns nil sheet + eval errors + nil error
//   - On fatal failure (timeout, panic, superseded): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*Sheet, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		sheet, evalErrs, err := e.evaluate(source)
		ch <- evalResult{sheet: sheet, errors: evalErrs, err: err}
	}()

	sheet, evalErrs, err := waitWithTimeout(ch, gen, e.timeout, &e.mu, &e.generation)
	switch {
	case err != nil:
		e.logger.Warn("evaluation failed", zap.Uint64("generation", gen), zap.Error(err))
	case len(evalErrs) > 0:
		e.logger.Debug("evaluation reported errors", zap.Uint64("generation", gen), zap.Int("count", len(evalErrs)))
	default:
		e.logger.Debug("evaluation finished", zap.Uint64("generation", gen), zap.Int("grids", sheet.Len()))
	}
	return sheet, evalErrs, err
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*Sheet, []EvalError, error) {
	// Empty source is a valid program that produces an empty sheet.
	if strings.TrimSpace(source) == "" {
		return NewSheet(), nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	sheet := NewSheet()
	registerBuiltins(env, sheet, builtinDefaults{request: e.defaults, floorVals: e.floorVals})

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}
	return sheet, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, p := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := p.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}

	// No line info available.
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
