package registry

import (
	"context"
	"sort"

	"github.com/puran-water/flownote/internal/ctxlog"
)

// Registry resolves type keys and abstract-block ids to component
// definitions. It is constructed once at startup and read-only afterwards,
// so it may be shared freely across concurrent conversions.
type Registry struct {
	defs       map[string]*ComponentDefinition // alias -> definition
	byAbstract map[string]*ComponentDefinition // abstract block id -> definition
	byClass    map[string]*ComponentDefinition // plant class -> definition
}

// New creates a registry populated with the built-in component catalogue.
func New() *Registry {
	r := &Registry{
		defs:       make(map[string]*ComponentDefinition),
		byAbstract: make(map[string]*ComponentDefinition),
		byClass:    make(map[string]*ComponentDefinition),
	}
	for _, def := range builtinDefinitions {
		r.register(def)
	}
	for alias, id := range builtinAliases {
		r.defs[alias] = r.defs[id]
	}
	return r
}

// register installs a definition under its canonical id and indexes.
func (r *Registry) register(def *ComponentDefinition) {
	r.defs[def.ID] = def
	r.byClass[def.Class] = def
	if def.AbstractBlock != "" {
		r.byAbstract[def.AbstractBlock] = def
	}
}

// Resolve returns the definition for a type key. An unknown key is an
// UnknownComponentTypeError enumerating all known keys; there is no
// generic fallback definition.
func (r *Registry) Resolve(key string) (*ComponentDefinition, error) {
	def, ok := r.defs[key]
	if !ok {
		return nil, &UnknownComponentTypeError{Key: key, Known: r.KnownKeys()}
	}
	return def, nil
}

// ResolveAbstract returns the definition mapped to an abstract-block id.
// Unmapped ids are a TemplateNotFoundError, a distinct kind from unknown
// component types: multi-item template expansion attaches to this key.
func (r *Registry) ResolveAbstract(blockID string) (*ComponentDefinition, error) {
	def, ok := r.byAbstract[blockID]
	if !ok {
		return nil, &TemplateNotFoundError{Key: blockID, Known: r.KnownAbstractBlocks()}
	}
	return def, nil
}

// ResolveClass returns the definition targeting a plant-model class, used
// by the reverse conversion path. The boolean reports whether one exists;
// callers fall back to a derived type name rather than failing.
func (r *Registry) ResolveClass(class string) (*ComponentDefinition, bool) {
	def, ok := r.byClass[class]
	return def, ok
}

// HasAbstractBlock reports whether an abstract-block id is mapped.
func (r *Registry) HasAbstractBlock(blockID string) bool {
	_, ok := r.byAbstract[blockID]
	return ok
}

// KnownKeys returns all registered aliases and canonical ids, sorted.
func (r *Registry) KnownKeys() []string {
	keys := make([]string, 0, len(r.defs))
	for k := range r.defs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// KnownAbstractBlocks returns all mapped abstract-block ids, sorted.
func (r *Registry) KnownAbstractBlocks() []string {
	keys := make([]string, 0, len(r.byAbstract))
	for k := range r.byAbstract {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// LoadDefinitions merges component definitions from HCL files under dir
// into the registry. Later files override earlier entries and built-ins.
// Must be called before the registry is shared.
func (r *Registry) LoadDefinitions(ctx context.Context, dir string) error {
	logger := ctxlog.FromContext(ctx)

	defs, err := loadDefinitionFiles(dir)
	if err != nil {
		return err
	}
	for _, loaded := range defs {
		r.register(loaded.definition)
		for _, alias := range loaded.aliases {
			r.defs[alias] = loaded.definition
		}
	}

	logger.Debug("component definitions loaded", "dir", dir, "count", len(defs))
	return nil
}
