package app

import "fmt"

// Conversion directions accepted by Run.
const (
	DirectionToModel    = "to-model"
	DirectionToNotation = "to-notation"
	DirectionRoundTrip  = "roundtrip"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// InputPath is a file path, or "-" for stdin.
	InputPath string
	// Direction selects the conversion: to-model, to-notation, roundtrip.
	Direction string
	// TemplatesPath is the directory holding process template .hcl files.
	TemplatesPath string
	// DefinitionsPath is the directory holding component definition .hcl
	// files merged over the built-ins.
	DefinitionsPath string
	// Canonical enables sorted, deterministic notation output.
	Canonical bool
	// ExpandAbstractBlocks maps abstract block types through the registry.
	ExpandAbstractBlocks bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates a config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.InputPath == "" {
		return nil, fmt.Errorf("InputPath is a required configuration field and cannot be empty")
	}
	switch cfg.Direction {
	case DirectionToModel, DirectionToNotation, DirectionRoundTrip:
	default:
		return nil, fmt.Errorf("invalid direction %q: must be %q, %q, or %q",
			cfg.Direction, DirectionToModel, DirectionToNotation, DirectionRoundTrip)
	}
	return &cfg, nil
}
