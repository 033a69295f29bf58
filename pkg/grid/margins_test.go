package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalcRightLeftMarginsFit(t *testing.T) {
	s := CalcState{CanvasWidth: 1920, LeftMargin: 390, RightMargin: 390}
	out, res := CalcRightLeftMargins(s)

	assert.Equal(t, 780.0, res.Sum)
	assert.False(t, res.Corrected)
	assert.Empty(t, res.Errs)
	assert.Equal(t, s, out)
}

func TestCalcRightLeftMarginsRescale(t *testing.T) {
	s := CalcState{CanvasWidth: 1920, RightMargin: 1919, LeftMargin: 390}
	out, res := CalcRightLeftMargins(s)

	require.True(t, res.Corrected)
	assert.InDelta(t, 797.4363360762235, res.End, 1e-9)
	assert.InDelta(t, 162.06366392377652, res.Start, 1e-9)
	assert.InDelta(t, 959.5, res.Sum, 1e-9)
	assert.InDelta(t, 1919.0/390.0, res.End/res.Start, 1e-9, "ratio is preserved")

	require.Len(t, res.Errs, 1)
	assert.Equal(t, CodeMarginsTooLarge, res.Errs[0].Code)
	assert.Equal(t, Silent, res.Errs[0].Severity)

	assert.Equal(t, res.End, out.RightMargin)
	assert.Equal(t, res.Start, out.LeftMargin)
}

// Margins that do not fit keep their ratio, record one silent code 3 and are
// brought down to a pair summing to (canvas-1)/2.
func TestCalcRightLeftMarginsTooLarge(t *testing.T) {
	tests := []struct {
		canvas, left, right float64
	}{
		{1920, 1500, 1500},
		{1920, 390, 1919},
		{100, 99, 1},
		{10, 9, 9},
	}
	for _, tt := range tests {
		s := CalcState{CanvasWidth: tt.canvas, LeftMargin: tt.left, RightMargin: tt.right}
		out, res := CalcRightLeftMargins(s)

		require.True(t, res.Corrected)
		require.Len(t, res.Errs, 1)
		assert.Equal(t, CodeMarginsTooLarge, res.Errs[0].Code)
		assert.Equal(t, Silent, res.Errs[0].Severity)
		assert.InDelta(t, (tt.canvas-1)/2, out.LeftMargin+out.RightMargin, 1e-9)
		assert.InDelta(t, res.Sum, out.LeftMargin+out.RightMargin, 1e-9)
		assert.InDelta(t, tt.left/tt.right, out.LeftMargin/out.RightMargin, 1e-9, "ratio is preserved")
	}
}

func TestCalcRightLeftMarginsBoundary(t *testing.T) {
	// A sum of exactly canvas-1 still fits.
	_, res := CalcRightLeftMargins(CalcState{CanvasWidth: 100, LeftMargin: 50, RightMargin: 49})
	assert.False(t, res.Corrected)

	_, res = CalcRightLeftMargins(CalcState{CanvasWidth: 100, LeftMargin: 50, RightMargin: 50})
	assert.True(t, res.Corrected)
	assert.InDelta(t, 49.5, res.Sum, 1e-9)
}

func TestCalcRightLeftMarginsFloored(t *testing.T) {
	_, res := CalcRightLeftMargins(CalcState{CanvasWidth: 1920, RightMargin: 1919, LeftMargin: 390, FloorVals: true})
	assert.Equal(t, 797.0, res.End)
	assert.Equal(t, 162.0, res.Start)
	assert.Equal(t, 959.0, res.Sum)
}

func TestCalcRightLeftMarginsRowAxis(t *testing.T) {
	// On the row axis the main pair is top and bottom.
	_, res := CalcRightLeftMargins(CalcState{Axis: Rows, CanvasWidth: 1080, LeftMargin: 1079, RightMargin: 100})
	require.Len(t, res.Errs, 1)
	assert.Equal(t, CodeTopBottomMarginsTooLarge, res.Errs[0].Code)
	assert.Equal(t, Rows, res.Errs[0].Axis)
}

func TestCalcTopBottomMargins(t *testing.T) {
	out, res := CalcTopBottomMargins(CalcState{CanvasHeight: 1080, TopMargin: 1079, BottomMargin: 100})

	require.Len(t, res.Errs, 1)
	assert.Equal(t, CodeTopBottomMarginsTooLarge, res.Errs[0].Code)
	assert.InDelta(t, 493.74088210347753, out.TopMargin, 1e-9)
	assert.InDelta(t, 45.759117896522476, out.BottomMargin, 1e-9)
	assert.InDelta(t, 539.5, res.Sum, 1e-9)
}
