package registry

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"github.com/puran-water/flownote/internal/model"
	"github.com/puran-water/flownote/internal/plant"
)

// Recognized optional parameter keys. Anything else that survives to the
// end of instantiation is applied verbatim as an equipment attribute.
const (
	paramNominalSize = "nominal_size"
	paramRating      = "rating"
	paramDescription = "description"
)

// Instantiate builds a concrete equipment item from a definition. The tag
// is upper-cased, default nozzles are generated when no port names are
// supplied, recognized optional parameters are applied, and any remaining
// keys become direct attribute overrides.
func (r *Registry) Instantiate(def *ComponentDefinition, tag string, params map[string]cty.Value) (*plant.Equipment, error) {
	return r.InstantiateWithPorts(def, tag, params, nil)
}

// InstantiateWithPorts is Instantiate with explicit port names, used by
// template expansion where the template declares the nozzle layout.
func (r *Registry) InstantiateWithPorts(def *ComponentDefinition, tag string, params map[string]cty.Value, ports []string) (*plant.Equipment, error) {
	if def == nil {
		return nil, fmt.Errorf("nil component definition for tag %q", tag)
	}

	eq := plant.NewEquipment(strings.ToUpper(tag), def.Class)

	if len(ports) == 0 {
		for i := 0; i < def.DefaultPorts; i++ {
			id := fmt.Sprintf("N%d", i+1)
			eq.Nozzles = append(eq.Nozzles, plant.NewConnectionPoint(id, id))
		}
	} else {
		if def.MaxPorts > 0 && len(ports) > def.MaxPorts {
			return nil, fmt.Errorf("component %s allows at most %d ports, got %d", def.ID, def.MaxPorts, len(ports))
		}
		for i, name := range ports {
			eq.Nozzles = append(eq.Nozzles, plant.NewConnectionPoint(fmt.Sprintf("N%d", i+1), name))
		}
	}

	rest := make(map[string]cty.Value, len(params))
	for k, v := range params {
		rest[k] = v
	}

	if v, ok := rest[paramNominalSize]; ok {
		for _, n := range eq.Nozzles {
			n.NominalSize = model.ScalarString(v)
		}
		delete(rest, paramNominalSize)
	}
	if v, ok := rest[paramRating]; ok {
		for _, n := range eq.Nozzles {
			n.Rating = model.ScalarString(v)
		}
		delete(rest, paramRating)
	}
	if v, ok := rest[paramDescription]; ok {
		eq.Attrs[paramDescription] = model.ScalarString(v)
		delete(rest, paramDescription)
	}

	// Remaining keys become direct overrides.
	for k, v := range rest {
		eq.Attrs[k] = model.ScalarString(v)
	}

	return eq, nil
}

// InstantiateAbstractBlock resolves an abstract-block key and instantiates
// its mapped type. The result is a slice so that a future multi-item
// template expansion can attach to the same key; today it holds one item.
func (r *Registry) InstantiateAbstractBlock(blockID, tag string, params map[string]cty.Value) ([]*plant.Equipment, error) {
	def, err := r.ResolveAbstract(blockID)
	if err != nil {
		return nil, err
	}
	eq, err := r.Instantiate(def, tag, params)
	if err != nil {
		return nil, err
	}
	return []*plant.Equipment{eq}, nil
}

// TypeKeyForClass returns the notation type key for a plant class: the
// canonical definition id when one targets the class, otherwise the
// snake-cased class name.
func (r *Registry) TypeKeyForClass(class string) string {
	if def, ok := r.ResolveClass(class); ok {
		return def.ID
	}
	return SnakeCase(class)
}

// SnakeCase converts a CamelCase class name to its snake_case fallback key.
func SnakeCase(s string) string {
	var sb strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r - 'A' + 'a')
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
