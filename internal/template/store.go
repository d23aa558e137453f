package template

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/zclconf/go-cty/cty"

	"github.com/puran-water/flownote/internal/ctxlog"
	"github.com/puran-water/flownote/internal/model"
	"github.com/puran-water/flownote/internal/registry"
)

// Store loads and caches resolved process templates. The mutex makes first
// use race-free: concurrent Load calls for the same id resolve the template
// once and share the cached instance.
type Store struct {
	dir string
	reg *registry.Registry

	mu    sync.Mutex
	files *fileSet
	cache map[string]*ProcessTemplate
}

// NewStore creates a template store over an HCL template directory.
func NewStore(dir string, reg *registry.Registry) *Store {
	return &Store{
		dir:   dir,
		reg:   reg,
		cache: make(map[string]*ProcessTemplate),
	}
}

// Load returns the resolved template for a process id, composing it on
// first use. Missing ids are a TemplateNotFoundError enumerating every
// known process. The returned template is shared and must not be mutated;
// expansion deep-copies it.
func (s *Store) Load(ctx context.Context, processID string) (*ProcessTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureFiles(); err != nil {
		return nil, err
	}
	if t, ok := s.cache[processID]; ok {
		return t, nil
	}

	pb, ok := s.files.processes[processID]
	if !ok {
		return nil, &registry.TemplateNotFoundError{Key: processID, Known: s.knownLocked()}
	}

	t, err := s.compose(pb)
	if err != nil {
		return nil, err
	}

	ctxlog.FromContext(ctx).Debug("process template resolved",
		"process", processID,
		"per_train", len(t.PerTrain),
		"shared", len(t.Shared),
		"connections", len(t.Connections),
		"components", t.ComponentsUsed)

	s.cache[processID] = t
	return t, nil
}

// KnownProcesses returns all process ids available to this store, sorted.
func (s *Store) KnownProcesses() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureFiles(); err != nil {
		return nil, err
	}
	return s.knownLocked(), nil
}

func (s *Store) ensureFiles() error {
	if s.files != nil {
		return nil
	}
	fs, err := loadFileSet(s.dir)
	if err != nil {
		return err
	}
	s.files = fs
	return nil
}

func (s *Store) knownLocked() []string {
	ids := make([]string, 0, len(s.files.processes))
	for id := range s.files.processes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// compose runs the resolution pipeline: fragment composition, library
// reference merge, connection-DSL parse, and parameter normalization.
// Runtime ${param} substitution is deliberately deferred to expansion.
func (s *Store) compose(pb *processBlock) (*ProcessTemplate, error) {
	t := &ProcessTemplate{
		ID:           pb.ID,
		Description:  pb.Description,
		PortMappings: make(map[string]string),
	}
	for _, p := range pb.Parameters {
		t.Parameters = append(t.Parameters, normalizeParam(p))
	}
	for _, pm := range pb.PortMappings {
		t.PortMappings[pm.Port] = pm.Nozzle
	}

	connText := []string{pb.Connections}

	for _, block := range pb.Equipment {
		spec, err := s.convertEquipment(block, false)
		if err != nil {
			return nil, err
		}
		t.PerTrain = append(t.PerTrain, spec)
	}
	for _, block := range pb.Shared {
		spec, err := s.convertEquipment(block, true)
		if err != nil {
			return nil, err
		}
		t.Shared = append(t.Shared, spec)
	}

	for _, inc := range pb.Includes {
		fragConn, err := s.composeFragment(t, inc)
		if err != nil {
			return nil, err
		}
		connText = append(connText, fragConn)
	}

	conns, err := ParseConnections(strings.Join(connText, "\n"))
	if err != nil {
		return nil, err
	}
	t.Connections = conns

	// Concrete type keys must resolve now; placeholder types resolve at
	// expansion time instead.
	for _, spec := range append(append([]*EquipmentSpec(nil), t.PerTrain...), t.Shared...) {
		if spec.Type == "" || strings.Contains(spec.Type, "${") {
			continue
		}
		if _, err := s.reg.Resolve(spec.Type); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// composeFragment merges one included fragment into the template,
// substituting the include's call-syntax args first. It returns the
// fragment's substituted connection text.
func (s *Store) composeFragment(t *ProcessTemplate, inc *includeBlock) (string, error) {
	frag, ok := s.files.fragments[inc.Name]
	if !ok {
		known := make([]string, 0, len(s.files.fragments))
		for name := range s.files.fragments {
			known = append(known, name)
		}
		sort.Strings(known)
		return "", &registry.TemplateNotFoundError{Key: inc.Name, Known: known}
	}

	args := make(map[string]cty.Value, len(inc.Args))
	for k, v := range inc.Args {
		args[k] = model.ParseScalar(v)
	}

	for _, block := range frag.Equipment {
		spec, err := s.convertEquipment(block, false)
		if err != nil {
			return "", err
		}
		if err := substituteSpec(spec, args, false); err != nil {
			return "", err
		}
		t.PerTrain = append(t.PerTrain, spec)
	}
	for _, block := range frag.Shared {
		spec, err := s.convertEquipment(block, true)
		if err != nil {
			return "", err
		}
		if err := substituteSpec(spec, args, false); err != nil {
			return "", err
		}
		t.Shared = append(t.Shared, spec)
	}

	for _, p := range frag.Parameters {
		if t.ParamByName(p.Name) == nil {
			t.Parameters = append(t.Parameters, normalizeParam(p))
		}
	}
	for _, pm := range frag.PortMappings {
		if _, exists := t.PortMappings[pm.Port]; !exists {
			t.PortMappings[pm.Port] = pm.Nozzle
		}
	}
	t.ComponentsUsed = append(t.ComponentsUsed, inc.Name)

	return Substitute(frag.Connections, args, false)
}

// convertEquipment turns an HCL equipment block into a spec, merging a
// library reference when present: library fields first, local overrides on
// top.
func (s *Store) convertEquipment(block *equipmentBlock, shared bool) (*EquipmentSpec, error) {
	spec := &EquipmentSpec{
		LocalID:   block.LocalID,
		Type:      block.Type,
		Library:   block.Library,
		TagPrefix: block.TagPrefix,
		Count:     block.Count,
		Shared:    shared,
		Params:    make(map[string]string),
		Ports:     append([]string(nil), block.Ports...),
		Condition: block.Condition,
	}

	if block.Library != "" {
		lib, ok := s.files.library[block.Library]
		if !ok {
			known := make([]string, 0, len(s.files.library))
			for name := range s.files.library {
				known = append(known, name)
			}
			sort.Strings(known)
			return nil, &registry.TemplateNotFoundError{Key: block.Library, Known: known}
		}
		if spec.Type == "" {
			spec.Type = lib.Type
		}
		if spec.TagPrefix == "" {
			spec.TagPrefix = lib.TagPrefix
		}
		if spec.Count == 0 {
			spec.Count = lib.Count
		}
		if len(spec.Ports) == 0 {
			spec.Ports = append([]string(nil), lib.Ports...)
		}
		if spec.Condition == "" {
			spec.Condition = lib.Condition
		}
		for k, v := range lib.Params {
			spec.Params[k] = v
		}
	}

	// Local params override library params.
	for k, v := range block.Params {
		spec.Params[k] = v
	}
	if spec.Count == 0 {
		spec.Count = 1
	}

	return spec, nil
}

// normalizeParam produces the uniform parameter-declaration record.
func normalizeParam(p *parameterBlock) *ParameterDecl {
	typ := p.Type
	if typ == "" {
		typ = "string"
	}
	return &ParameterDecl{
		Name:    p.Name,
		Type:    typ,
		Default: p.Default,
		Enum:    append([]string(nil), p.Enum...),
		Min:     p.Min,
		Max:     p.Max,
		Affects: append([]string(nil), p.Affects...),
	}
}
