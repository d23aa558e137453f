package model

import (
	"strconv"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// ParseScalar interprets a raw notation or template token as the most
// specific cty value it can represent: number, then bool, then string.
func ParseScalar(s string) cty.Value {
	if v, err := convert.Convert(cty.StringVal(s), cty.Number); err == nil {
		return v
	}
	if v, err := convert.Convert(cty.StringVal(s), cty.Bool); err == nil {
		return v
	}
	return cty.StringVal(s)
}

// ScalarString renders a cty scalar back to its notation token form.
// Non-scalar or null values render as the empty string.
func ScalarString(v cty.Value) string {
	if v.IsNull() || !v.IsKnown() {
		return ""
	}
	switch v.Type() {
	case cty.String:
		return v.AsString()
	case cty.Number:
		return v.AsBigFloat().Text('f', -1)
	case cty.Bool:
		return strconv.FormatBool(v.True())
	default:
		return ""
	}
}
