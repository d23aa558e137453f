// Package model defines the intermediate representation shared by both
// conversion directions: a flat list of process units and the directed
// streams between them. The notation parsers produce it, the conversion
// engine consumes it, and the reverse path rebuilds it from a plant model.
//
// Why an intermediate model?
//
// The two notation grammars and the structured plant model all disagree on
// what a "unit" is. Normalizing into one flat representation means every
// engine downstream of the parser handles exactly one shape, and the
// serializer can regenerate notation without knowing which grammar the text
// originally used.
package model

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Kind distinguishes abstract-block flowsheets from fully detailed ones.
type Kind string

const (
	// KindDetailed marks a model whose unit types name concrete equipment.
	KindDetailed Kind = "detailed"
	// KindAbstract marks a model whose unit types name process blocks that
	// require template expansion before they map to equipment.
	KindAbstract Kind = "abstract"
)

// Unit is a single process unit from the notation: a piece of equipment, an
// abstract block, or a control function.
type Unit struct {
	// Name is the unit's identifier, unique within a model.
	Name string
	// Type is the unit's type tag. May be empty (e.g. a bare controller tag).
	Type string
	// Params holds free-form unit parameters as cty values so that string,
	// number, and bool parameters survive without duck typing.
	Params map[string]cty.Value
	// SeqIndex is the ordinal recovered from "kind-index" style names, or -1.
	SeqIndex int
}

// NewUnit returns a Unit with an initialized parameter map and no sequence index.
func NewUnit(name, typ string) *Unit {
	return &Unit{
		Name:     name,
		Type:     typ,
		Params:   make(map[string]cty.Value),
		SeqIndex: -1,
	}
}

// Stream is a directed flow between two units.
type Stream struct {
	From string
	To   string
	// Name is the stream label, empty when the notation did not name it.
	Name string
	// Props holds stream properties (phase, composition hints, ...).
	Props map[string]cty.Value
	// Tags holds inline tag blocks collected during parsing, keyed by tag kind.
	Tags map[string]string
}

// NewStream returns a Stream with initialized maps.
func NewStream(from, to string) *Stream {
	return &Stream{
		From:  from,
		To:    to,
		Props: make(map[string]cty.Value),
		Tags:  make(map[string]string),
	}
}

// IntermediateModel is the parsed form of a notation text.
type IntermediateModel struct {
	Units    []*Unit
	Streams  []*Stream
	Kind     Kind
	Metadata map[string]string

	byName map[string]*Unit
}

// NewIntermediateModel returns an empty detailed model.
func NewIntermediateModel() *IntermediateModel {
	return &IntermediateModel{
		Kind:     KindDetailed,
		Metadata: make(map[string]string),
		byName:   make(map[string]*Unit),
	}
}

// AddUnit appends a unit, enforcing name uniqueness within the model.
func (m *IntermediateModel) AddUnit(u *Unit) error {
	if _, exists := m.byName[u.Name]; exists {
		return fmt.Errorf("duplicate unit name: %s", u.Name)
	}
	m.Units = append(m.Units, u)
	m.byName[u.Name] = u
	return nil
}

// AddStream appends a stream. Endpoint resolution is deliberately not
// checked here: streams may legally reference units declared later in the
// text, so the conversion engine validates endpoints instead.
func (m *IntermediateModel) AddStream(s *Stream) {
	m.Streams = append(m.Streams, s)
}

// UnitByName returns the unit with the given name, or nil.
func (m *IntermediateModel) UnitByName(name string) *Unit {
	return m.byName[name]
}

// UnitNames returns the names of all units in declaration order.
func (m *IntermediateModel) UnitNames() []string {
	names := make([]string, len(m.Units))
	for i, u := range m.Units {
		names[i] = u.Name
	}
	return names
}

// Empty reports whether the model contains neither units nor streams.
func (m *IntermediateModel) Empty() bool {
	return len(m.Units) == 0 && len(m.Streams) == 0
}
