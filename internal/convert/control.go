package convert

import (
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/puran-water/flownote/internal/model"
)

// controllerPrefixes is the fixed set of instrument-tag prefixes that mark
// a unit as a control function.
var controllerPrefixes = map[string]bool{
	"FC": true, "LC": true, "PC": true, "TC": true,
	"FIC": true, "LIC": true, "PIC": true, "TIC": true,
	"AC": true, "AIC": true,
}

// measuredVariables maps a controller prefix to the variable it measures.
// Prefixes outside the table default to "Flow".
var measuredVariables = map[string]string{
	"FC": "Flow", "FIC": "Flow",
	"LC": "Level", "LIC": "Level",
	"PC": "Pressure", "PIC": "Pressure",
	"TC": "Temperature", "TIC": "Temperature",
	"AC": "Analysis", "AIC": "Analysis",
}

// controllerTypeAttr is the equipment attribute that preserves the original
// controller-type token across a round trip.
const controllerTypeAttr = "controller_type"

// isControlUnit classifies a unit as a control function: an explicit
// control parameter, a controller-type parameter key, or a recognized
// instrument-tag prefix on the name.
func isControlUnit(u *model.Unit) bool {
	if v, ok := u.Params["control"]; ok && v.RawEquals(cty.True) {
		return true
	}
	if _, ok := u.Params[controllerTypeAttr]; ok {
		return true
	}
	return controllerPrefixes[controllerPrefix(u.Name)]
}

// controllerPrefix extracts the letter prefix of an instrument-style tag
// such as "FC-101".
func controllerPrefix(name string) string {
	if i := strings.Index(name, "-"); i > 0 {
		return strings.ToUpper(name[:i])
	}
	return ""
}

// measuredVariable returns the measured variable for a controller unit.
func measuredVariable(u *model.Unit) string {
	key := u.Type
	if key == "" {
		key = controllerPrefix(u.Name)
	}
	if v, ok := measuredVariables[strings.ToUpper(key)]; ok {
		return v
	}
	return "Flow"
}
