package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bootstrapForm() Form {
	return Form{
		CanvasWidth:    Text("1920"),
		CanvasHeight:   Text("1080"),
		Cols:           Text("12"),
		ColGutterWidth: Text("15"),
		ColWidth:       Text(""),
		TopMargin:      Text("0"),
		RightMargin:    Text("390"),
		BottomMargin:   Text("0"),
		LeftMargin:     Text("390"),
	}
}

func TestCalcLayoutColumnsOnly(t *testing.T) {
	l := CalcLayout(bootstrapForm(), DefaultAxisRequest(), DefaultAxisRequest())

	require.True(t, l.OK())
	assert.Nil(t, l.Rows)
	require.NotNil(t, l.Height)
	assert.Equal(t, 1080.0, l.GridHeight())

	assert.Equal(t, Num(81.25), l.Form.ColWidth)
	assert.Equal(t, Num(12), l.Form.Cols)
	assert.Equal(t, Num(1920), l.Form.CanvasWidth)
	assert.Empty(t, l.Errs())
}

func TestCalcLayoutWithRows(t *testing.T) {
	form := bootstrapForm()
	form.Rows = Text("4")
	form.RowGutterWidth = Text("20")
	form.TopMargin = Text("60")
	form.BottomMargin = Text("60")

	l := CalcLayout(form, DefaultAxisRequest(), DefaultAxisRequest())

	require.True(t, l.OK())
	require.NotNil(t, l.Rows)
	assert.Nil(t, l.Height)

	rows := l.Rows.Final()
	require.NotNil(t, rows)
	assert.Equal(t, Rows, rows.Axis)
	// (1080 - 120 - 60) / 4
	assert.InDelta(t, 225, rows.PillarWidth, 1e-9)
	assert.InDelta(t, 960, rows.GridWidth, 1e-9)
	assert.Equal(t, 960.0, l.GridHeight())
	assert.Equal(t, Num(225), l.Form.RowHeight)
	assert.Equal(t, Num(60), l.Form.TopMargin)
}

func TestCalcLayoutSolvesGutter(t *testing.T) {
	form := bootstrapForm()
	form.ColWidth = Text("65")
	form.RightMargin = Text("405")
	form.LeftMargin = Text("405")

	cols := AxisRequest{Solve: KindGutterWidth, Options: DefaultOptions()}
	l := CalcLayout(form, cols, DefaultAxisRequest())

	require.True(t, l.OK())
	assert.Equal(t, KindGutterWidth, l.Columns.Chain.Last().Kind())
	assert.Equal(t, Num(30), l.Form.ColGutterWidth)
}

func TestCalcLayoutInfeasible(t *testing.T) {
	t.Run("pillar width", func(t *testing.T) {
		form := bootstrapForm()
		form.Cols = Text("many")
		l := CalcLayout(form, DefaultAxisRequest(), DefaultAxisRequest())

		assert.False(t, l.OK())
		assert.Empty(t, l.Columns.Chain)
		assert.Equal(t, []Code{CodeInvalidPillarWidthInput}, codesOf(l.Columns.Errs))
		assert.Equal(t, Text("many"), l.Form.Cols, "form keeps what the user typed")
	})

	t.Run("gutter width", func(t *testing.T) {
		form := bootstrapForm()
		cols := AxisRequest{Solve: KindGutterWidth}
		l := CalcLayout(form, cols, DefaultAxisRequest())
		assert.Equal(t, []Code{CodeInvalidGutterWidthInput}, codesOf(l.Columns.Errs))
	})

	t.Run("grid height", func(t *testing.T) {
		form := bootstrapForm()
		form.CanvasHeight = Text("tall")
		l := CalcLayout(form, DefaultAxisRequest(), DefaultAxisRequest())
		assert.True(t, l.Columns.OK())
		require.NotNil(t, l.Height)
		assert.Equal(t, []Code{CodeInvalidGridHeightInput}, codesOf(l.Height.Errs))
		assert.False(t, l.OK())
	})
}

func TestCalcLayoutBlankCanvas(t *testing.T) {
	t.Run("width", func(t *testing.T) {
		form := bootstrapForm()
		form.CanvasWidth = Text("")
		l := CalcLayout(form, DefaultAxisRequest(), DefaultAxisRequest())

		assert.False(t, l.OK())
		assert.Equal(t, []Code{CodeInvalidPillarWidthInput}, codesOf(l.Columns.Errs))
		assert.True(t, l.Form.CanvasWidth.IsBlank())
		assert.Equal(t, Num(12), l.Form.Cols, "columns are not clamped to a missing canvas")
		assert.Equal(t, Num(15), l.Form.ColGutterWidth)
	})

	t.Run("height", func(t *testing.T) {
		form := bootstrapForm()
		form.CanvasHeight = Text("")
		l := CalcLayout(form, DefaultAxisRequest(), DefaultAxisRequest())

		assert.True(t, l.Columns.OK())
		require.NotNil(t, l.Height)
		assert.Equal(t, []Code{CodeInvalidGridHeightInput}, codesOf(l.Height.Errs))
		assert.False(t, l.OK())
	})
}

func TestCalcLayoutFailedAxisLeavesForm(t *testing.T) {
	form := bootstrapForm()
	form.ColGutterWidth = Text("999")
	req := AxisRequest{Solve: KindPillarWidth}
	l := CalcLayout(form, req, DefaultAxisRequest())

	assert.False(t, l.Columns.OK())
	assert.Equal(t, Num(999), l.Form.ColGutterWidth)
	assert.True(t, l.Form.ColWidth.IsBlank())
	assert.Equal(t, []Code{CodePillarWidthTooSmall}, codesOf(l.Errs()))
}

func TestCalcLayoutRowsIndependent(t *testing.T) {
	form := bootstrapForm()
	form.Rows = Text("2000")
	form.RowGutterWidth = Text("10")

	l := CalcLayout(form, DefaultAxisRequest(), DefaultAxisRequest())

	assert.True(t, l.Columns.OK(), "columns are solved regardless of rows")
	assert.True(t, l.Rows.OK(), "rows recover through their own corrections")
	assert.Equal(t, Num(1080), l.Form.Rows, "row count is capped to the canvas height")
}

func TestFormInputTransposes(t *testing.T) {
	form := Form{
		CanvasWidth: Num(1920), CanvasHeight: Num(1080),
		Rows: Num(4), RowGutterWidth: Num(20), RowHeight: Num(100),
		TopMargin: Num(1), RightMargin: Num(2), BottomMargin: Num(3), LeftMargin: Num(4),
	}
	in := form.Input(Rows)

	assert.Equal(t, Rows, in.Axis)
	assert.Equal(t, Num(1080), in.CanvasWidth)
	assert.Equal(t, Num(1920), in.CanvasHeight)
	assert.Equal(t, Num(4), in.Pillars)
	assert.Equal(t, Num(1), in.LeftMargin, "top becomes the start margin")
	assert.Equal(t, Num(3), in.RightMargin, "bottom becomes the end margin")

	var back Form
	back.ApplyInput(in)
	assert.Equal(t, form.TopMargin, back.TopMargin)
	assert.Equal(t, form.BottomMargin, back.BottomMargin)
	assert.Equal(t, form.LeftMargin, back.LeftMargin)
	assert.Equal(t, form.RightMargin, back.RightMargin)
	assert.Equal(t, form.RowHeight, back.RowHeight)
}
