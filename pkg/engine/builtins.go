package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/mattlean/gridnik/pkg/grid"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms grid source code before passing it to zygomys.
// It performs three transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: col-width -> col_width
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
//  3. Lisp line comments: ; and ;; become //.
//
// All transformations respect string literal boundaries.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpCanvas is returned by `canvas` and consumed by `defgrid`.
type sexpCanvas struct {
	width, height grid.Value
}

func (c *sexpCanvas) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(canvas %s %s)", c.width.Raw(), c.height.Raw())
}
func (c *sexpCanvas) Type() *zygo.RegisteredType { return nil }

// sexpMargins is returned by `margins`.
type sexpMargins struct {
	top, right, bottom, left grid.Value
}

func (m *sexpMargins) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(margins :top %s :right %s :bottom %s :left %s)",
		m.top.Raw(), m.right.Raw(), m.bottom.Raw(), m.left.Raw())
}
func (m *sexpMargins) Type() *zygo.RegisteredType { return nil }

// sexpPillars is returned by `columns` and `rows`. size is the column width
// or the row height.
type sexpPillars struct {
	axis                grid.Axis
	count, gutter, size grid.Value
}

func (p *sexpPillars) SexpString(ps *zygo.PrintState) string {
	sizeKW := "width"
	if p.axis == grid.Rows {
		sizeKW = "height"
	}
	return fmt.Sprintf("(%s :count %s :gutter %s :%s %s)",
		p.axis, p.count.Raw(), p.gutter.Raw(), sizeKW, p.size.Raw())
}
func (p *sexpPillars) Type() *zygo.RegisteredType { return nil }

// sexpGridRef names a grid already added to the sheet.
type sexpGridRef struct {
	name string
}

func (g *sexpGridRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(grid %q)", g.name)
}
func (g *sexpGridRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value is a flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toValue converts a number, string or nil into a calculator input. Strings
// stay raw so they go through the same coercion as form text.
func toValue(s zygo.Sexp) (grid.Value, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return grid.Num(float64(v.Val)), nil
	case *zygo.SexpFloat:
		return grid.Num(v.Val), nil
	case *zygo.SexpStr:
		if _, kw := isKW(v); kw {
			return grid.Value{}, fmt.Errorf("expected number or string, got keyword %s", v.S[len(kwPrefix):])
		}
		return grid.Text(v.S), nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return grid.Unset(), nil
		}
	}
	return grid.Value{}, fmt.Errorf("expected number or string, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toBool extracts a boolean from a Sexp.
func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected true or false, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_z) and plain strings ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toCalcKind converts :pillar-width, :col-width, :gutter-width and friends.
func toCalcKind(s zygo.Sexp) (grid.CalcKind, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, err
	}
	var k grid.CalcKind
	if err := k.UnmarshalText([]byte(name)); err != nil {
		return 0, err
	}
	return k, nil
}

// toCorrections converts a list of correction keywords, in stack order.
func toCorrections(s zygo.Sexp) (grid.Corrections, error) {
	items, err := sexpListToSlice(s)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		name, err := toKeywordString(item)
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return grid.ParseCorrections(names)
}

// toUpdateLeft converts an :absorb keyword into the slack margin choice.
func toUpdateLeft(s zygo.Sexp) (bool, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return false, err
	}
	switch name {
	case "start", "left", "top":
		return true, nil
	case "end", "right", "bottom":
		return false, nil
	}
	return false, fmt.Errorf("invalid margin %q, expected start or end", name)
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// valueKW reads an optional keyword argument as a calculator input.
func valueKW(pa kwArgs, key string, dst *grid.Value) error {
	v, ok := pa.kw[key]
	if !ok {
		return nil
	}
	val, err := toValue(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = val
	return nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// builtinDefaults seeds every grid a source defines.
type builtinDefaults struct {
	request   grid.AxisRequest
	floorVals bool
}

// registerBuiltins installs the grid DSL builtins into a zygomys environment.
// The builtins add definitions to sheet during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, sheet *Sheet, defaults builtinDefaults) {

	// -----------------------------------------------------------------------
	// (canvas 1920 1080) or (canvas :width 1920 :height 1080)
	// -----------------------------------------------------------------------
	env.AddFunction("canvas", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		c := &sexpCanvas{}

		if len(pa.positional) > 2 {
			return zygo.SexpNull, fmt.Errorf("canvas takes at most a width and a height, got %d values", len(pa.positional))
		}
		dims := []*grid.Value{&c.width, &c.height}
		for i, arg := range pa.positional {
			v, err := toValue(arg)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("canvas: %w", err)
			}
			*dims[i] = v
		}
		if err := valueKW(pa, "width", &c.width); err != nil {
			return zygo.SexpNull, fmt.Errorf("canvas: %w", err)
		}
		if err := valueKW(pa, "height", &c.height); err != nil {
			return zygo.SexpNull, fmt.Errorf("canvas: %w", err)
		}
		return c, nil
	})

	// -----------------------------------------------------------------------
	// (margins 40) or (margins :top 0 :right 390 :bottom 0 :left 390)
	// -----------------------------------------------------------------------
	env.AddFunction("margins", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		m := &sexpMargins{}

		switch len(pa.positional) {
		case 0:
		case 1:
			v, err := toValue(pa.positional[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("margins: %w", err)
			}
			m.top, m.right, m.bottom, m.left = v, v, v, v
		default:
			return zygo.SexpNull, fmt.Errorf("margins takes one shared value or keywords, got %d values", len(pa.positional))
		}

		for key, dst := range map[string]*grid.Value{
			"top": &m.top, "right": &m.right, "bottom": &m.bottom, "left": &m.left,
		} {
			if err := valueKW(pa, key, dst); err != nil {
				return zygo.SexpNull, fmt.Errorf("margins: %w", err)
			}
		}
		return m, nil
	})

	// -----------------------------------------------------------------------
	// (columns :count 12 :gutter 15 :width 81.25)
	// (rows :count 4 :gutter 20 :height 225)
	// -----------------------------------------------------------------------
	pillars := func(axis grid.Axis, sizeKW string) func(*zygo.Zlisp, string, []zygo.Sexp) (zygo.Sexp, error) {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			pa := parseArgs(args)
			p := &sexpPillars{axis: axis}

			if len(pa.positional) > 0 {
				return zygo.SexpNull, fmt.Errorf("%s: expected keyword arguments only", name)
			}
			if err := valueKW(pa, "count", &p.count); err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			if err := valueKW(pa, "gutter", &p.gutter); err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			if err := valueKW(pa, sizeKW, &p.size); err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			return p, nil
		}
	}
	env.AddFunction("columns", pillars(grid.Columns, "width"))
	env.AddFunction("rows", pillars(grid.Rows, "height"))

	// -----------------------------------------------------------------------
	// (defgrid "name" :canvas (canvas ...) :columns (columns ...)
	//          :rows (rows ...) :margins (margins ...) :base (grid "other")
	//          :floor true :solve :gutter-width :row-solve :pillar-width
	//          :corrections (list :margins :cols) :absorb :start)
	// -----------------------------------------------------------------------
	env.AddFunction("defgrid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("defgrid requires a name")
		}
		gridName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defgrid: name: %w", err)
		}
		pa := parseArgs(args[1:])
		if len(pa.positional) > 0 {
			return zygo.SexpNull, fmt.Errorf("defgrid %q: unexpected positional argument %s",
				gridName, pa.positional[0].SexpString(nil))
		}

		def := grid.Definition{
			Name:    gridName,
			Form:    grid.Form{FloorVals: defaults.floorVals},
			Columns: defaults.request,
			Rows:    defaults.request,
		}
		hasCanvas := false

		if v, ok := pa.kw["base"]; ok {
			ref, ok := v.(*sexpGridRef)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("defgrid %q: base: expected grid reference, got %T", gridName, v)
			}
			base, _ := sheet.Lookup(ref.name)
			def.Form = base.Form
			def.Columns = base.Columns
			def.Rows = base.Rows
			hasCanvas = true
		}

		if v, ok := pa.kw["canvas"]; ok {
			c, ok := v.(*sexpCanvas)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("defgrid %q: canvas: expected (canvas ...), got %T", gridName, v)
			}
			def.Form.CanvasWidth, def.Form.CanvasHeight = c.width, c.height
			hasCanvas = true
		}
		if !hasCanvas {
			return zygo.SexpNull, fmt.Errorf("defgrid %q: a :canvas is required", gridName)
		}

		if v, ok := pa.kw["columns"]; ok {
			p, ok := v.(*sexpPillars)
			if !ok || p.axis != grid.Columns {
				return zygo.SexpNull, fmt.Errorf("defgrid %q: columns: expected (columns ...), got %s", gridName, v.SexpString(nil))
			}
			def.Form.Cols, def.Form.ColGutterWidth, def.Form.ColWidth = p.count, p.gutter, p.size
		}
		if v, ok := pa.kw["rows"]; ok {
			p, ok := v.(*sexpPillars)
			if !ok || p.axis != grid.Rows {
				return zygo.SexpNull, fmt.Errorf("defgrid %q: rows: expected (rows ...), got %s", gridName, v.SexpString(nil))
			}
			def.Form.Rows, def.Form.RowGutterWidth, def.Form.RowHeight = p.count, p.gutter, p.size
		}
		if v, ok := pa.kw["margins"]; ok {
			m, ok := v.(*sexpMargins)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("defgrid %q: margins: expected (margins ...), got %T", gridName, v)
			}
			def.Form.TopMargin, def.Form.RightMargin = m.top, m.right
			def.Form.BottomMargin, def.Form.LeftMargin = m.bottom, m.left
		}
		if v, ok := pa.kw["floor"]; ok {
			b, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("defgrid %q: floor: %w", gridName, err)
			}
			def.Form.FloorVals = b
		}
		if v, ok := pa.kw["solve"]; ok {
			k, err := toCalcKind(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("defgrid %q: solve: %w", gridName, err)
			}
			def.Columns.Solve = k
			def.Rows.Solve = k
		}
		if v, ok := pa.kw["row-solve"]; ok {
			k, err := toCalcKind(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("defgrid %q: row-solve: %w", gridName, err)
			}
			def.Rows.Solve = k
		}
		if v, ok := pa.kw["corrections"]; ok {
			c, err := toCorrections(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("defgrid %q: corrections: %w", gridName, err)
			}
			def.Columns.Options.Corrections = c
			def.Rows.Options.Corrections = c
		}
		if v, ok := pa.kw["absorb"]; ok {
			left, err := toUpdateLeft(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("defgrid %q: absorb: %w", gridName, err)
			}
			def.Columns.Options.UpdateLeftMargin = left
			def.Rows.Options.UpdateLeftMargin = left
		}

		if err := sheet.Add(def); err != nil {
			return zygo.SexpNull, fmt.Errorf("defgrid: %w", err)
		}
		return &sexpGridRef{name: gridName}, nil
	})

	// -----------------------------------------------------------------------
	// (grid "name")
	// -----------------------------------------------------------------------
	env.AddFunction("grid", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("grid requires a name argument")
		}
		gridName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("grid: name: %w", err)
		}
		if _, ok := sheet.Lookup(gridName); !ok {
			return zygo.SexpNull, fmt.Errorf("grid: no grid named %q", gridName)
		}
		return &sexpGridRef{name: gridName}, nil
	})
}
