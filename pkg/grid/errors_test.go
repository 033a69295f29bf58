package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewErrorMessages(t *testing.T) {
	tests := []struct {
		code     Code
		axis     Axis
		severity Severity
		message  string
	}{
		{CodePillarWidthTooSmall, Columns, Critical, "Column width is less than 1."},
		{CodePillarWidthTooSmall, Rows, Critical, "Row height is less than 1."},
		{CodeGridWidthTooSmall, Columns, Critical, "Grid width is less than 1."},
		{CodeGridWidthTooSmall, Rows, Critical, "Grid height is less than 1."},
		{CodeMarginsTooLarge, Columns, Silent, "Right & left margins exceeded the canvas width and were scaled down."},
		{CodeGutterWidthTooSmall, Columns, Critical, "Gutter width is less than 0."},
		{CodeTopBottomMarginsTooLarge, Rows, Silent, "Top & bottom margins exceeded the canvas height and were scaled down."},
		{CodeInvalidPillarWidthInput, Columns, Critical, "Invalid form data for column width calculations."},
		{CodeInvalidGutterWidthInput, Rows, Critical, "Invalid form data for row gutter width calculations."},
		{CodeInvalidGridHeightInput, Rows, Critical, "Invalid form data for grid height calculations."},
	}
	for _, tt := range tests {
		e := NewError(tt.code, tt.axis)
		assert.Equal(t, tt.code, e.Code)
		assert.Equal(t, tt.axis, e.Axis)
		assert.Equal(t, tt.severity, e.Severity, "code %d", tt.code)
		assert.Equal(t, tt.message, e.Message)
	}
}

func TestNewErrorUnknownCode(t *testing.T) {
	e := NewError(Code(42), Columns)
	assert.True(t, e.IsCritical())
	assert.Contains(t, e.Message, "42")
}

func TestGridCalcErrorString(t *testing.T) {
	e := NewError(CodeMarginsTooLarge, Columns)
	assert.Equal(t, "[silent] Right & left margins exceeded the canvas width and were scaled down. (code 3)", e.Error())
}

func TestHasCritical(t *testing.T) {
	assert.False(t, HasCritical(nil))
	assert.False(t, HasCritical([]GridCalcError{NewError(CodeMarginsTooLarge, Columns)}))
	assert.True(t, HasCritical([]GridCalcError{
		NewError(CodeMarginsTooLarge, Columns),
		NewError(CodeGridWidthTooSmall, Columns),
	}))
}
