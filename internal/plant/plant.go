// Package plant defines the structured plant-model schema the conversion
// engine targets: equipment with connection points, piping systems built
// from segments, and instrumentation functions. The converter treats this
// schema as an opaque target; only the operations below are relied upon.
package plant

import (
	"fmt"
	"strings"
)

// Default nozzle specification applied when a component definition does not
// supply one.
const (
	DefaultNominalSize = "DN100"
	DefaultRating      = "PN16"
)

// ConnectionPoint is a named attachment point (nozzle) on a piece of equipment.
type ConnectionPoint struct {
	ID          string
	SubTag      string
	NominalSize string
	Rating      string
	Connected   bool
}

// NewConnectionPoint builds a nozzle with the default size/rating pair.
func NewConnectionPoint(id, subTag string) *ConnectionPoint {
	return &ConnectionPoint{
		ID:          id,
		SubTag:      subTag,
		NominalSize: DefaultNominalSize,
		Rating:      DefaultRating,
	}
}

// Equipment is a concrete plant item.
type Equipment struct {
	Tag     string
	Class   string
	Nozzles []*ConnectionPoint
	// Attrs carries recognized optional parameters and direct overrides as
	// custom string attributes.
	Attrs map[string]string
}

// NewEquipment returns equipment with an initialized attribute map.
func NewEquipment(tag, class string) *Equipment {
	return &Equipment{
		Tag:   tag,
		Class: class,
		Attrs: make(map[string]string),
	}
}

// NozzleByID returns the nozzle with the given ID, or nil.
func (e *Equipment) NozzleByID(id string) *ConnectionPoint {
	for _, n := range e.Nozzles {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// ItemRef points at a nozzle on a tagged item.
type ItemRef struct {
	ItemTag  string
	NozzleID string
}

// PipingSegment is one run of pipe between two item references. Its ID
// embeds both endpoint tags so connectivity can be recovered by scanning
// identifiers alone.
type PipingSegment struct {
	ID     string
	Source *ItemRef
	Target *ItemRef
	// Attrs carries stream tags and other auxiliary attributes.
	Attrs map[string]string
}

// SegmentIDPrefix and SegmentIDSeparator define the identifier convention
// `segment__FROM__TO` used for fallback connectivity extraction.
const (
	SegmentIDPrefix    = "segment"
	SegmentIDSeparator = "__"
)

// SegmentID builds the canonical segment identifier for a from/to tag pair.
func SegmentID(fromTag, toTag string) string {
	return SegmentIDPrefix + SegmentIDSeparator + fromTag + SegmentIDSeparator + toTag
}

// ParseSegmentID recovers the endpoint tags from a canonical segment
// identifier. It reports false for identifiers that do not follow the
// convention.
func ParseSegmentID(id string) (fromTag, toTag string, ok bool) {
	parts := strings.Split(id, SegmentIDSeparator)
	if len(parts) != 3 || parts[0] != SegmentIDPrefix || parts[1] == "" || parts[2] == "" {
		return "", "", false
	}
	return parts[1], parts[2], true
}

// PipingSystem groups the segments of one pipe run under a pipe tag.
type PipingSystem struct {
	Tag      string
	Segments []*PipingSegment
}

// SignalFunction is the signal-generating sub-function nested under an
// instrumentation function. SensingLocation is the tag of the equipment the
// signal is taken from; empty when the instrument is unconnected.
type SignalFunction struct {
	Tag             string
	SensingLocation string
}

// InstrumentationFunction is a control or measurement function.
type InstrumentationFunction struct {
	Tag              string
	MeasuredVariable string
	Signals          []*SignalFunction
	// Attrs carries custom string attributes; the original controller-type
	// token is preserved here for lossless round-tripping.
	Attrs map[string]string
}

// NewInstrumentationFunction returns an instrumentation function with an
// initialized attribute map.
func NewInstrumentationFunction(tag string) *InstrumentationFunction {
	return &InstrumentationFunction{
		Tag:   tag,
		Attrs: make(map[string]string),
	}
}

// Model is the root of the structured plant model.
type Model struct {
	Equipment       []*Equipment
	PipingSystems   []*PipingSystem
	Instrumentation []*InstrumentationFunction
	Metadata        map[string]string
}

// NewModel returns an empty plant model.
func NewModel() *Model {
	return &Model{
		Metadata: make(map[string]string),
	}
}

// AddEquipment appends an equipment item.
func (m *Model) AddEquipment(e *Equipment) {
	m.Equipment = append(m.Equipment, e)
}

// AddPipingSystem appends a piping system.
func (m *Model) AddPipingSystem(p *PipingSystem) {
	m.PipingSystems = append(m.PipingSystems, p)
}

// AddInstrumentation appends an instrumentation function.
func (m *Model) AddInstrumentation(f *InstrumentationFunction) {
	m.Instrumentation = append(m.Instrumentation, f)
}

// EquipmentByTag returns the equipment with the given tag, or nil.
func (m *Model) EquipmentByTag(tag string) *Equipment {
	for _, e := range m.Equipment {
		if e.Tag == tag {
			return e
		}
	}
	return nil
}

// Link marks both endpoint nozzles of a segment as connected. It fails when
// either endpoint cannot be resolved against the model; callers treat that
// as non-fatal because the segment identifier already encodes connectivity.
func (m *Model) Link(seg *PipingSegment) error {
	if seg.Source == nil || seg.Target == nil {
		return fmt.Errorf("segment %s has incomplete endpoint references", seg.ID)
	}
	for _, ref := range []*ItemRef{seg.Source, seg.Target} {
		eq := m.EquipmentByTag(ref.ItemTag)
		if eq == nil {
			return fmt.Errorf("segment %s references unknown item %s", seg.ID, ref.ItemTag)
		}
		n := eq.NozzleByID(ref.NozzleID)
		if n == nil {
			return fmt.Errorf("segment %s references unknown nozzle %s on %s", seg.ID, ref.NozzleID, ref.ItemTag)
		}
		n.Connected = true
	}
	return nil
}
