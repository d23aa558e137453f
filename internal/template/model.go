package template

// EquipmentSpec declares one equipment position in a template. String
// fields may contain ${name} placeholders that stay unresolved until
// expansion time.
type EquipmentSpec struct {
	// LocalID is the template-scoped identifier connections refer to.
	LocalID string
	// Type is the component type key; resolved against the registry.
	Type string
	// Library optionally names a shared library entry whose fields are
	// merged under local overrides at load time.
	Library string
	// TagPrefix feeds the deterministic tag scheme at expansion.
	TagPrefix string
	// Count is the number of instances per train (or total, when shared).
	Count int
	// Shared marks equipment instantiated once across all trains.
	Shared bool
	// Params are default parameters, deferred-substitutable.
	Params map[string]string
	// Ports names the nozzles to realize; empty means definition defaults.
	Ports []string
	// Condition gates inclusion; empty means always included.
	Condition string
}

// ConnectionSpec is one parsed line of the connection micro-language.
type ConnectionSpec struct {
	SrcID   string
	SrcPort string
	DstID   string
	DstPort string
	// Kind is the stream kind, "process" unless annotated.
	Kind string
	// PerTrain is set when either endpoint carries a train pattern marker.
	PerTrain bool
	// Raw preserves the original line; boundary lines are never
	// pattern-expanded and rely on this verbatim form.
	Raw string
}

// ParameterDecl is the normalized form of a template parameter declaration.
type ParameterDecl struct {
	Name    string
	Type    string
	Default string
	Enum    []string
	Min     *float64
	Max     *float64
	Affects []string
}

// ProcessTemplate is a fully resolved template.
type ProcessTemplate struct {
	ID          string
	Description string
	Parameters  []*ParameterDecl
	// PerTrain holds specs instantiated once per train; Shared holds specs
	// instantiated once per expansion.
	PerTrain    []*EquipmentSpec
	Shared      []*EquipmentSpec
	Connections []*ConnectionSpec
	// PortMappings maps DSL port names to nozzle identifiers.
	PortMappings map[string]string
	// ComponentsUsed records the fragments composed into this template.
	ComponentsUsed []string
}

// DeepCopy returns an independent copy so expansion can substitute
// parameters without mutating the cached template.
func (t *ProcessTemplate) DeepCopy() *ProcessTemplate {
	out := &ProcessTemplate{
		ID:             t.ID,
		Description:    t.Description,
		PortMappings:   make(map[string]string, len(t.PortMappings)),
		ComponentsUsed: append([]string(nil), t.ComponentsUsed...),
	}
	for k, v := range t.PortMappings {
		out.PortMappings[k] = v
	}
	for _, p := range t.Parameters {
		cp := *p
		cp.Enum = append([]string(nil), p.Enum...)
		cp.Affects = append([]string(nil), p.Affects...)
		out.Parameters = append(out.Parameters, &cp)
	}
	for _, e := range t.PerTrain {
		out.PerTrain = append(out.PerTrain, e.deepCopy())
	}
	for _, e := range t.Shared {
		out.Shared = append(out.Shared, e.deepCopy())
	}
	for _, c := range t.Connections {
		cp := *c
		out.Connections = append(out.Connections, &cp)
	}
	return out
}

func (e *EquipmentSpec) deepCopy() *EquipmentSpec {
	cp := *e
	cp.Params = make(map[string]string, len(e.Params))
	for k, v := range e.Params {
		cp.Params[k] = v
	}
	cp.Ports = append([]string(nil), e.Ports...)
	return &cp
}

// ParamByName returns the declaration for a parameter name, or nil.
func (t *ProcessTemplate) ParamByName(name string) *ParameterDecl {
	for _, p := range t.Parameters {
		if p.Name == name {
			return p
		}
	}
	return nil
}
