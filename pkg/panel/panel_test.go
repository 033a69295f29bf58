package panel

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mattlean/gridnik/pkg/grid"
)

var approx = cmpopts.EquateApprox(0, 1e-6)

func bootstrapForm() grid.Form {
	return grid.Form{
		CanvasWidth:    grid.Text("1920"),
		CanvasHeight:   grid.Text("1080"),
		Cols:           grid.Text("12"),
		ColGutterWidth: grid.Text("15"),
		ColWidth:       grid.Text(""),
		TopMargin:      grid.Text("0"),
		RightMargin:    grid.Text("390"),
		BottomMargin:   grid.Text("0"),
		LeftMargin:     grid.Text("390"),
	}
}

func newObservedPanel(opts grid.Options) (*Panel, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return New(opts, zap.New(core)), logs
}

func TestSubmitSolvesColumnWidth(t *testing.T) {
	p, logs := newObservedPanel(grid.DefaultOptions())

	resp, err := p.Submit(Request{Form: bootstrapForm(), Changed: FieldCols})
	require.NoError(t, err)

	_, err = uuid.Parse(resp.RequestID)
	assert.NoError(t, err, "request id is a uuid")

	assert.Empty(t, cmp.Diff(81.25, resp.Form.ColWidth.Float(), approx))
	assert.Equal(t, grid.Num(1920), resp.Form.CanvasWidth)
	assert.Equal(t, 1080.0, resp.GridHeight)
	assert.Empty(t, resp.Diagnostics)
	assert.False(t, resp.Critical())

	require.NotNil(t, resp.Columns)
	assert.True(t, resp.Columns.OK)
	assert.Equal(t, grid.KindPillarWidth, resp.Columns.Solved)
	assert.Len(t, resp.Columns.Attempts, 1)
	assert.Nil(t, resp.Rows)

	assert.True(t, resp.Drawable)
	require.NotNil(t, resp.Plan)
	assert.Len(t, resp.Plan.Columns, 12)

	entries := logs.FilterMessage("calculated layout").All()
	require.Len(t, entries, 1)
	assert.Equal(t, resp.RequestID, entries[0].ContextMap()["request_id"])
	assert.Equal(t, "cols", entries[0].ContextMap()["changed"])
}

func TestSubmitColumnWidthEditSolvesGutter(t *testing.T) {
	p := New(grid.DefaultOptions(), nil)
	f := bootstrapForm()
	f.ColWidth = grid.Text("80")

	resp, err := p.Submit(Request{Form: f, Changed: FieldColWidth})
	require.NoError(t, err)

	assert.Equal(t, grid.KindGutterWidth, resp.Columns.Solved)
	assert.Equal(t, grid.Num(80), resp.Form.ColWidth)
	assert.Empty(t, cmp.Diff(180.0/11, resp.Form.ColGutterWidth.Float(), approx))
	assert.True(t, resp.Drawable)
}

func TestSubmitRowHeightEditSolvesRowGutter(t *testing.T) {
	p := New(grid.DefaultOptions(), nil)
	f := bootstrapForm()
	f.Rows = grid.Text("4")
	f.RowGutterWidth = grid.Text("20")
	f.RowHeight = grid.Text("200")

	resp, err := p.Submit(Request{Form: f, Changed: FieldRowHeight})
	require.NoError(t, err)

	require.NotNil(t, resp.Rows)
	assert.Equal(t, grid.KindPillarWidth, resp.Columns.Solved)
	assert.Equal(t, grid.KindGutterWidth, resp.Rows.Solved)
	assert.Empty(t, cmp.Diff(280.0/3, resp.Form.RowGutterWidth.Float(), approx))
	require.True(t, resp.Drawable)
	assert.Len(t, resp.Plan.Rows, 4)
}

func TestSubmitNotDrawable(t *testing.T) {
	p := New(grid.Options{}, nil)
	f := bootstrapForm()
	f.CanvasWidth = grid.Text("100")
	f.LeftMargin = grid.Text("0")
	f.RightMargin = grid.Text("0")

	resp, err := p.Submit(Request{Form: f})
	require.NoError(t, err)

	assert.False(t, resp.Drawable)
	assert.Nil(t, resp.Plan)
	assert.True(t, resp.Critical())
	assert.False(t, resp.Columns.OK)
	assert.Equal(t, grid.CodePillarWidthTooSmall, resp.Diagnostics[0].Code)
	assert.Equal(t, grid.Text("12"), f.Cols, "request form is not modified")
	assert.Equal(t, grid.Num(12), resp.Form.Cols, "inputs are still coerced")
}

func TestSubmitKeepsSilentErrorsOfEarlierAttempts(t *testing.T) {
	p := New(grid.DefaultOptions(), nil)
	f := bootstrapForm()
	f.ColGutterWidth = grid.Text("100")
	f.LeftMargin = grid.Text("1500")
	f.RightMargin = grid.Text("1500")

	resp, err := p.Submit(Request{Form: f})
	require.NoError(t, err)

	require.Len(t, resp.Columns.Attempts, 2)
	assert.ElementsMatch(t,
		[]grid.Code{grid.CodeMarginsTooLarge, grid.CodePillarWidthTooSmall},
		resp.Columns.Attempts[0].Codes)
	assert.Equal(t, grid.KindGutterWidth, resp.Columns.Solved)

	require.Len(t, resp.Diagnostics, 1)
	assert.Equal(t, grid.CodeMarginsTooLarge, resp.Diagnostics[0].Code)
	assert.Equal(t, grid.Silent, resp.Diagnostics[0].Severity)
	assert.True(t, resp.Drawable)
	assert.Less(t, resp.Form.LeftMargin.Float(), 1500.0)
}

func TestSubmitRejectsUnknownField(t *testing.T) {
	p := New(grid.DefaultOptions(), nil)
	_, err := p.Submit(Request{Form: bootstrapForm(), Changed: "colour"})
	assert.ErrorContains(t, err, "colour")
}

func TestEvaluateDefinition(t *testing.T) {
	p, logs := newObservedPanel(grid.DefaultOptions())
	def := grid.Definition{
		Name:    "bootstrap",
		Form:    bootstrapForm(),
		Columns: grid.DefaultAxisRequest(),
		Rows:    grid.DefaultAxisRequest(),
	}

	resp := p.Evaluate(def)
	assert.Equal(t, "bootstrap", resp.Name)
	assert.True(t, resp.Drawable)

	entries := logs.FilterMessage("calculated grid").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "bootstrap", entries[0].ContextMap()["grid"])
}

func TestRequests(t *testing.T) {
	p := New(grid.DefaultOptions(), nil)
	tests := []struct {
		changed    Field
		cols, rows grid.CalcKind
	}{
		{"", grid.KindPillarWidth, grid.KindPillarWidth},
		{FieldColGutterWidth, grid.KindPillarWidth, grid.KindPillarWidth},
		{FieldColWidth, grid.KindGutterWidth, grid.KindPillarWidth},
		{FieldRowHeight, grid.KindPillarWidth, grid.KindGutterWidth},
	}
	for _, tt := range tests {
		t.Run(string(tt.changed), func(t *testing.T) {
			cols, rows := p.Requests(tt.changed)
			assert.Equal(t, tt.cols, cols.Solve)
			assert.Equal(t, tt.rows, rows.Solve)
			assert.Equal(t, grid.CanonicalCorrections, cols.Options.Corrections)
		})
	}
}

func TestFieldValid(t *testing.T) {
	assert.True(t, Field("").Valid())
	assert.True(t, FieldLeftMargin.Valid())
	assert.False(t, Field("left").Valid())
}
