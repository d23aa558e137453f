package expand

import (
	"context"
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/puran-water/flownote/internal/ctxlog"
	"github.com/puran-water/flownote/internal/model"
	"github.com/puran-water/flownote/internal/plant"
	"github.com/puran-water/flownote/internal/registry"
	"github.com/puran-water/flownote/internal/template"
)

// EquipmentInstance is one concrete equipment item produced by expansion.
type EquipmentInstance struct {
	// ID is the instance key: local id plus train and instance suffixes.
	// Exactly trains x count distinct keys exist; instances are never
	// collapsed.
	ID    string
	Tag   string
	Class string
	// Object is the instantiated plant equipment.
	Object *plant.Equipment
	// Train is the 1-based train number, 0 for shared equipment.
	Train int
	// Params is the parameter snapshot the instance was built with.
	Params map[string]cty.Value
	Ports  []string
}

// ConnectionInstance is one resolved connection between instance ids, or
// between an instance and the external boundary.
type ConnectionInstance struct {
	SrcID   string
	SrcPort string
	DstID   string
	DstPort string
	Kind    string
	// Boundary marks connections touching the battery limit.
	Boundary bool
}

// Metadata describes the provenance of an expansion result.
type Metadata struct {
	BlockID         string
	ProcessID       string
	Area            int
	TrainCount      int
	Params          map[string]cty.Value
	EquipmentCount  int
	ConnectionCount int
	ComponentsUsed  []string
}

// Result is a flat expansion: equipment, connections, provenance.
type Result struct {
	Equipment   []*EquipmentInstance
	Connections []*ConnectionInstance
	Metadata    *Metadata
}

// InstanceByID returns the equipment instance with the given id, or nil.
func (r *Result) InstanceByID(id string) *EquipmentInstance {
	for _, e := range r.Equipment {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// Engine expands process templates into equipment trains.
type Engine struct {
	templates *template.Store
	registry  *registry.Registry
}

// New creates an expansion engine over a template store and type registry.
func New(templates *template.Store, reg *registry.Registry) *Engine {
	return &Engine{templates: templates, registry: reg}
}

// Expand resolves a template and instantiates trainCount parallel trains.
//
// Runtime params override template defaults and may introduce undeclared
// names. The cached template is never touched: substitution and evaluation
// run against a deep copy. Connection endpoints that resolve to unknown
// instance ids are dropped, not errored: train patterns legitimately
// over-generate across conditional and boundary equipment.
func (e *Engine) Expand(ctx context.Context, blockID, processID string, area, trainCount int, params map[string]cty.Value) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	if trainCount < 1 {
		return nil, fmt.Errorf("train count must be at least 1, got %d", trainCount)
	}

	tmpl, err := e.templates.Load(ctx, processID)
	if err != nil {
		return nil, err
	}

	effective := effectiveParams(tmpl, params)

	work := tmpl.DeepCopy()
	if err := template.SubstituteAll(work, effective); err != nil {
		return nil, err
	}

	result := &Result{
		Metadata: &Metadata{
			BlockID:        blockID,
			ProcessID:      processID,
			Area:           area,
			TrainCount:     trainCount,
			Params:         effective,
			ComponentsUsed: append([]string(nil), work.ComponentsUsed...),
		},
	}
	byID := make(map[string]*EquipmentInstance)

	add := func(inst *EquipmentInstance) {
		result.Equipment = append(result.Equipment, inst)
		byID[inst.ID] = inst
	}

	for t := 1; t <= trainCount; t++ {
		for _, spec := range work.PerTrain {
			ok, err := EvalCondition(spec.Condition, effective)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			for inst := 1; inst <= spec.Count; inst++ {
				instance, err := e.instantiate(spec, area, t, inst, effective)
				if err != nil {
					return nil, err
				}
				add(instance)
			}
		}
	}

	for _, spec := range work.Shared {
		ok, err := EvalCondition(spec.Condition, effective)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		for inst := 1; inst <= spec.Count; inst++ {
			instance, err := e.instantiate(spec, area, 0, inst, effective)
			if err != nil {
				return nil, err
			}
			add(instance)
		}
	}

	for _, c := range work.Connections {
		for _, pair := range expandPairs(c.SrcID, c.DstID, trainCount) {
			srcBoundary := strings.Contains(pair.src, template.BoundaryMarker)
			dstBoundary := strings.Contains(pair.dst, template.BoundaryMarker)
			if !srcBoundary && byID[pair.src] == nil {
				logger.Debug("dropping connection with unknown source", "src", pair.src, "line", c.Raw)
				continue
			}
			if !dstBoundary && byID[pair.dst] == nil {
				logger.Debug("dropping connection with unknown target", "dst", pair.dst, "line", c.Raw)
				continue
			}
			result.Connections = append(result.Connections, &ConnectionInstance{
				SrcID:    pair.src,
				SrcPort:  c.SrcPort,
				DstID:    pair.dst,
				DstPort:  c.DstPort,
				Kind:     c.Kind,
				Boundary: srcBoundary || dstBoundary,
			})
		}
	}

	result.Metadata.EquipmentCount = len(result.Equipment)
	result.Metadata.ConnectionCount = len(result.Connections)
	logger.Debug("template expanded",
		"process", processID,
		"trains", trainCount,
		"equipment", result.Metadata.EquipmentCount,
		"connections", result.Metadata.ConnectionCount)
	return result, nil
}

// instantiate builds one equipment instance. train == 0 means shared.
func (e *Engine) instantiate(spec *template.EquipmentSpec, area, train, inst int, effective map[string]cty.Value) (*EquipmentInstance, error) {
	def, err := e.registry.Resolve(spec.Type)
	if err != nil {
		return nil, err
	}

	id := instanceID(spec, train, inst)
	tag := instanceTag(spec, area, train, inst)

	params := make(map[string]cty.Value, len(spec.Params))
	for k, v := range spec.Params {
		params[k] = model.ParseScalar(v)
	}

	obj, err := e.registry.InstantiateWithPorts(def, tag, params, spec.Ports)
	if err != nil {
		return nil, err
	}

	return &EquipmentInstance{
		ID:     id,
		Tag:    obj.Tag,
		Class:  def.Class,
		Object: obj,
		Train:  train,
		Params: params,
		Ports:  append([]string(nil), spec.Ports...),
	}, nil
}

// instanceID builds the key connections resolve against. The scheme keeps
// trains x count keys distinct.
func instanceID(spec *template.EquipmentSpec, train, inst int) string {
	switch {
	case train == 0 && spec.Count == 1:
		return spec.LocalID
	case train == 0:
		return fmt.Sprintf("%s.%02d", spec.LocalID, inst)
	case spec.Count == 1:
		return fmt.Sprintf("%s-%d", spec.LocalID, train)
	default:
		return fmt.Sprintf("%s-%d.%02d", spec.LocalID, train, inst)
	}
}

// instanceTag builds the deterministic equipment tag.
func instanceTag(spec *template.EquipmentSpec, area, train, inst int) string {
	switch {
	case train == 0:
		return fmt.Sprintf("%d-%s-%02d", area, spec.TagPrefix, inst)
	case spec.Count == 1:
		return fmt.Sprintf("%d-%s-%02d", area, spec.TagPrefix, train)
	default:
		return fmt.Sprintf("%d-%s-%02d.%02d", area, spec.TagPrefix, train, inst)
	}
}

// effectiveParams overlays runtime values on declared defaults. Runtime
// params may add names no declaration mentions.
func effectiveParams(tmpl *template.ProcessTemplate, runtime map[string]cty.Value) map[string]cty.Value {
	out := make(map[string]cty.Value)
	for _, decl := range tmpl.Parameters {
		if decl.Default != "" {
			out[decl.Name] = model.ParseScalar(decl.Default)
		}
	}
	for k, v := range runtime {
		out[k] = v
	}
	return out
}
