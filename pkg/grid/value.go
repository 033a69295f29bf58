package grid

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type valueKind uint8

const (
	valueUnset valueKind = iota
	valueText
	valueNumber
)

// Value is one calculator input as it arrives from a form field: unset, raw
// text (which may or may not be numeric), or a number.
type Value struct {
	kind valueKind
	num  float64
	text string
}

// Unset returns a value for a field that was never filled in.
func Unset() Value { return Value{} }

// Num returns a numeric value.
func Num(f float64) Value { return Value{kind: valueNumber, num: f} }

// Text returns a raw, unconverted text value.
func Text(s string) Value { return Value{kind: valueText, text: s} }

// IsUnset reports whether the field was never filled in.
func (v Value) IsUnset() bool { return v.kind == valueUnset }

// IsNumber reports whether the value is already numeric.
func (v Value) IsNumber() bool { return v.kind == valueNumber }

// IsBlank reports whether the value is unset or empty text.
func (v Value) IsBlank() bool {
	return v.kind == valueUnset || (v.kind == valueText && v.text == "")
}

// Float returns the numeric value, or 0 when the value is not a number.
func (v Value) Float() float64 {
	if v.kind != valueNumber {
		return 0
	}
	return v.num
}

// Raw returns the value as it would be shown in a form field.
func (v Value) Raw() string {
	switch v.kind {
	case valueNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case valueText:
		return v.text
	}
	return ""
}

func (v Value) String() string {
	switch v.kind {
	case valueNumber:
		return v.Raw()
	case valueText:
		return strconv.Quote(v.text)
	}
	return "<unset>"
}

// parseNumeric reports whether the text holds a finite number.
func (v Value) parseNumeric() (float64, bool) {
	if v.kind != valueText {
		return 0, false
	}
	s := strings.TrimSpace(v.text)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// IsNumeric reports whether the value is a number or numeric text.
func (v Value) IsNumeric() bool {
	if v.kind == valueNumber {
		return true
	}
	_, ok := v.parseNumeric()
	return ok
}

// MarshalJSON encodes numbers as JSON numbers, text as strings and unset as
// null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case valueNumber:
		if math.IsInf(v.num, 0) || math.IsNaN(v.num) {
			return nil, fmt.Errorf("grid: value %v is not finite", v.num)
		}
		return []byte(strconv.FormatFloat(v.num, 'f', -1, 64)), nil
	case valueText:
		return json.Marshal(v.text)
	}
	return []byte("null"), nil
}

// UnmarshalJSON accepts a number, a string or null.
func (v *Value) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*v = Unset()
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var t string
		if err := json.Unmarshal(b, &t); err != nil {
			return err
		}
		*v = Text(t)
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("grid: cannot decode %s as a value", s)
	}
	*v = Num(f)
	return nil
}

// MarshalYAML renders the value the way MarshalJSON does.
func (v Value) MarshalYAML() (interface{}, error) {
	switch v.kind {
	case valueNumber:
		return v.num, nil
	case valueText:
		return v.text, nil
	}
	return nil, nil
}
