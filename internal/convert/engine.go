package convert

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/puran-water/flownote/internal/ctxlog"
	"github.com/puran-water/flownote/internal/model"
	"github.com/puran-water/flownote/internal/notation"
	"github.com/puran-water/flownote/internal/plant"
	"github.com/puran-water/flownote/internal/registry"
)

// Options configures the forward conversion.
type Options struct {
	// ExpandAbstractBlocks maps abstract-block unit types through the
	// registry's block table, attaching every returned object with the
	// first as primary. An empty expansion falls back to direct
	// instantiation.
	ExpandAbstractBlocks bool
	// Metadata is copied onto the resulting plant model.
	Metadata map[string]string
}

// Engine converts between notation and the structured plant model.
type Engine struct {
	parser *notation.Parser
	reg    *registry.Registry
}

// NewEngine builds a conversion engine over a parser and a registry. Both
// are read-only after construction and shareable across calls; every
// conversion builds a fresh result.
func NewEngine(parser *notation.Parser, reg *registry.Registry) *Engine {
	return &Engine{parser: parser, reg: reg}
}

// ToPlantModel parses notation text and converts it to a plant model.
func (e *Engine) ToPlantModel(ctx context.Context, text string, opts Options) (*plant.Model, error) {
	m, err := e.parser.Parse(ctx, text)
	if err != nil {
		return nil, err
	}
	return e.BuildPlantModel(ctx, m, opts)
}

// BuildPlantModel converts an intermediate model to a plant model.
//
// Units split into control functions and ordinary equipment. Ordinary
// units instantiate through the registry; every ordinary-ordinary stream
// must resolve both endpoints or the call fails with an
// InvalidStreamReferenceError. Streams touching a control unit feed
// instrumentation instead of piping.
func (e *Engine) BuildPlantModel(ctx context.Context, m *model.IntermediateModel, opts Options) (*plant.Model, error) {
	logger := ctxlog.FromContext(ctx)
	pm := plant.NewModel()
	for k, v := range opts.Metadata {
		pm.Metadata[k] = v
	}
	pm.Metadata["kind"] = string(m.Kind)

	var control, ordinary []*model.Unit
	for _, u := range m.Units {
		if isControlUnit(u) {
			control = append(control, u)
		} else {
			ordinary = append(ordinary, u)
		}
	}

	primary := make(map[string]*plant.Equipment, len(ordinary))
	for _, u := range ordinary {
		items, err := e.instantiateUnit(u, opts.ExpandAbstractBlocks)
		if err != nil {
			return nil, err
		}
		primary[u.Name] = items[0]
		for _, item := range items {
			pm.AddEquipment(item)
		}
	}

	known := make([]string, 0, len(primary))
	for name := range primary {
		known = append(known, name)
	}
	sort.Strings(known)

	for _, s := range m.Streams {
		if u := m.UnitByName(s.From); u != nil && isControlUnit(u) {
			continue
		}
		if u := m.UnitByName(s.To); u != nil && isControlUnit(u) {
			continue
		}
		from, ok := primary[s.From]
		if !ok {
			return nil, &InvalidStreamReferenceError{Stream: streamLabel(s), Endpoint: s.From, Known: known}
		}
		to, ok := primary[s.To]
		if !ok {
			return nil, &InvalidStreamReferenceError{Stream: streamLabel(s), Endpoint: s.To, Known: known}
		}
		buildConnection(ctx, pm, from, to, s)
	}

	for _, u := range control {
		pm.AddInstrumentation(e.buildInstrumentation(u, m, primary))
	}

	logger.Debug("plant model built",
		"equipment", len(pm.Equipment),
		"piping", len(pm.PipingSystems),
		"instrumentation", len(pm.Instrumentation))
	return pm, nil
}

// instantiateUnit resolves a unit's type and builds its equipment. The
// unit name doubles as the type key when no explicit type is present, so
// bare detailed notation like "pump->tank" still resolves.
func (e *Engine) instantiateUnit(u *model.Unit, expandBlocks bool) ([]*plant.Equipment, error) {
	key := u.Type
	if key == "" {
		key = strings.ToLower(u.Name)
	}

	if expandBlocks && e.reg.HasAbstractBlock(key) {
		items, err := e.reg.InstantiateAbstractBlock(key, u.Name, u.Params)
		if err != nil {
			return nil, err
		}
		if len(items) > 0 {
			return items, nil
		}
		// Empty expansion falls through to direct instantiation.
	}

	def, err := e.reg.Resolve(key)
	if err != nil {
		return nil, err
	}
	eq, err := e.reg.Instantiate(def, u.Name, u.Params)
	if err != nil {
		return nil, err
	}
	return []*plant.Equipment{eq}, nil
}

// buildInstrumentation converts a control unit into an instrumentation
// function. The first incoming stream from an ordinary unit supplies the
// sensing location; an unconnected instrument is legal and keeps an empty
// one. The original controller-type token survives as an attribute.
func (e *Engine) buildInstrumentation(u *model.Unit, m *model.IntermediateModel, primary map[string]*plant.Equipment) *plant.InstrumentationFunction {
	f := plant.NewInstrumentationFunction(strings.ToUpper(u.Name))
	f.MeasuredVariable = measuredVariable(u)
	if u.Type != "" {
		f.Attrs[controllerTypeAttr] = u.Type
	}
	for k, v := range u.Params {
		f.Attrs[k] = model.ScalarString(v)
	}

	signal := &plant.SignalFunction{Tag: f.Tag + "-S01"}
	for _, s := range m.Streams {
		if s.To != u.Name {
			continue
		}
		if eq, ok := primary[s.From]; ok {
			signal.SensingLocation = eq.Tag
			break
		}
	}
	f.Signals = append(f.Signals, signal)
	return f
}

func streamLabel(s *model.Stream) string {
	return fmt.Sprintf("%s -> %s", s.From, s.To)
}
