package registry

// Category groups definitions by broad process role.
type Category string

const (
	CategoryRotating   Category = "rotating"
	CategoryStatic     Category = "static"
	CategorySeparation Category = "separation"
	CategoryBiological Category = "biological"
	CategoryThermal    Category = "thermal"
)

// ComponentDefinition is the canonical record behind one or more aliases.
type ComponentDefinition struct {
	// ID is the canonical type key, also used as the preferred alias when
	// serializing back to notation.
	ID string
	// Class is the plant-model class this definition instantiates.
	Class string
	// AbstractBlock names the coarse process block this definition realizes,
	// empty when the type is only reachable through a concrete alias.
	AbstractBlock string
	Category      Category
	// DefaultPorts is the number of nozzles generated when the caller does
	// not supply connection points.
	DefaultPorts int
	// MaxPorts bounds nozzle allocation; 0 means unbounded.
	MaxPorts int
}

// builtinDefinitions is the compiled-in component catalogue. HCL definition
// files loaded at startup are merged over it, later files winning.
var builtinDefinitions = []*ComponentDefinition{
	{ID: "pump_centrifugal", Class: "CentrifugalPump", AbstractBlock: "pumping", Category: CategoryRotating, DefaultPorts: 2},
	{ID: "pump_diaphragm", Class: "ReciprocatingPump", Category: CategoryRotating, DefaultPorts: 2},
	{ID: "blower", Class: "CentrifugalBlower", AbstractBlock: "aeration", Category: CategoryRotating, DefaultPorts: 2},
	{ID: "mixer", Class: "Agitator", Category: CategoryRotating, DefaultPorts: 1},
	{ID: "tank", Class: "Tank", AbstractBlock: "equalization", Category: CategoryStatic, DefaultPorts: 2, MaxPorts: 6},
	{ID: "vessel", Class: "PressureVessel", Category: CategoryStatic, DefaultPorts: 2, MaxPorts: 6},
	{ID: "valve_control", Class: "ControlValve", Category: CategoryStatic, DefaultPorts: 2, MaxPorts: 2},
	{ID: "screen", Class: "BarScreen", AbstractBlock: "screening", Category: CategorySeparation, DefaultPorts: 2},
	{ID: "clarifier", Class: "Clarifier", AbstractBlock: "clarification", Category: CategorySeparation, DefaultPorts: 3},
	{ID: "thickener", Class: "GravityThickener", AbstractBlock: "thickening", Category: CategorySeparation, DefaultPorts: 3},
	{ID: "centrifuge", Class: "Centrifuge", AbstractBlock: "dewatering", Category: CategorySeparation, DefaultPorts: 3},
	{ID: "membrane", Class: "MembraneUnit", AbstractBlock: "filtration", Category: CategorySeparation, DefaultPorts: 3},
	{ID: "digester", Class: "AnaerobicDigester", AbstractBlock: "digestion", Category: CategoryBiological, DefaultPorts: 4},
	{ID: "heat_exchanger", Class: "PlateHeatExchanger", Category: CategoryThermal, DefaultPorts: 4, MaxPorts: 4},
}

// builtinAliases maps additional notation spellings onto canonical IDs.
var builtinAliases = map[string]string{
	"pump":         "pump_centrifugal",
	"pump_pd":      "pump_diaphragm",
	"compressor":   "blower",
	"agitator":     "mixer",
	"storage_tank": "tank",
	"reactor":      "vessel",
	"cv":           "valve_control",
	"settler":      "clarifier",
	"uf_membrane":  "membrane",
	"hx":           "heat_exchanger",
}
