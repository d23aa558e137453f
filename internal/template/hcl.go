package template

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/puran-water/flownote/internal/fsutil"
)

// templateFile is the top-level structure of a template HCL file.
//
// Deferred ${name} placeholders must be written as $${name} in HCL string
// attributes so they survive HCL's own interpolation syntax.
type templateFile struct {
	Processes []*processBlock  `hcl:"process,block"`
	Fragments []*fragmentBlock `hcl:"fragment,block"`
	Library   []*libraryBlock  `hcl:"library,block"`
}

// processBlock declares one process template.
type processBlock struct {
	ID           string              `hcl:"id,label"`
	Description  string              `hcl:"description,optional"`
	Parameters   []*parameterBlock   `hcl:"parameter,block"`
	Includes     []*includeBlock     `hcl:"include,block"`
	Equipment    []*equipmentBlock   `hcl:"equipment,block"`
	Shared       []*equipmentBlock   `hcl:"shared_equipment,block"`
	Connections  string              `hcl:"connections,optional"`
	PortMappings []*portMappingBlock `hcl:"port_mapping,block"`
}

// fragmentBlock declares a reusable sub-template composed via include.
type fragmentBlock struct {
	Name         string              `hcl:"name,label"`
	Parameters   []*parameterBlock   `hcl:"parameter,block"`
	Equipment    []*equipmentBlock   `hcl:"equipment,block"`
	Shared       []*equipmentBlock   `hcl:"shared_equipment,block"`
	Connections  string              `hcl:"connections,optional"`
	PortMappings []*portMappingBlock `hcl:"port_mapping,block"`
}

// libraryBlock declares a shared equipment entry referenced by name.
type libraryBlock struct {
	Name      string            `hcl:"name,label"`
	Type      string            `hcl:"type,optional"`
	TagPrefix string            `hcl:"tag_prefix,optional"`
	Count     int               `hcl:"count,optional"`
	Params    map[string]string `hcl:"params,optional"`
	Ports     []string          `hcl:"ports,optional"`
	Condition string            `hcl:"condition,optional"`
}

// equipmentBlock declares one equipment position.
type equipmentBlock struct {
	LocalID   string            `hcl:"id,label"`
	Type      string            `hcl:"type,optional"`
	Library   string            `hcl:"library,optional"`
	TagPrefix string            `hcl:"tag_prefix,optional"`
	Count     int               `hcl:"count,optional"`
	Params    map[string]string `hcl:"params,optional"`
	Ports     []string          `hcl:"ports,optional"`
	Condition string            `hcl:"condition,optional"`
}

// parameterBlock declares a template parameter.
type parameterBlock struct {
	Name    string   `hcl:"name,label"`
	Type    string   `hcl:"type,optional"`
	Default string   `hcl:"default,optional"`
	Enum    []string `hcl:"enum,optional"`
	Min     *float64 `hcl:"min,optional"`
	Max     *float64 `hcl:"max,optional"`
	Affects []string `hcl:"affects,optional"`
}

// includeBlock composes a fragment into a process.
type includeBlock struct {
	Name string            `hcl:"name,label"`
	Args map[string]string `hcl:"args,optional"`
}

// portMappingBlock maps a DSL port name to a nozzle id.
type portMappingBlock struct {
	Port   string `hcl:"port,label"`
	Nozzle string `hcl:"nozzle"`
}

// fileSet is the merged content of every template file in a directory.
type fileSet struct {
	processes map[string]*processBlock
	fragments map[string]*fragmentBlock
	library   map[string]*libraryBlock
}

// loadFileSet parses all .hcl files under dir into one fileSet. Duplicate
// ids across files are an error: template identity must be unambiguous.
func loadFileSet(dir string) (*fileSet, error) {
	files, err := fsutil.FindFilesByExtension(dir, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to find template files in %s: %w", dir, err)
	}

	fs := &fileSet{
		processes: make(map[string]*processBlock),
		fragments: make(map[string]*fragmentBlock),
		library:   make(map[string]*libraryBlock),
	}

	parser := hclparse.NewParser()
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse template file %s: %w", file, diags)
		}

		var parsed templateFile
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &parsed); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode template file %s: %w", file, diags)
		}

		for _, p := range parsed.Processes {
			if _, exists := fs.processes[p.ID]; exists {
				return nil, fmt.Errorf("duplicate process template %q in %s", p.ID, file)
			}
			fs.processes[p.ID] = p
		}
		for _, f := range parsed.Fragments {
			if _, exists := fs.fragments[f.Name]; exists {
				return nil, fmt.Errorf("duplicate fragment %q in %s", f.Name, file)
			}
			fs.fragments[f.Name] = f
		}
		for _, l := range parsed.Library {
			if _, exists := fs.library[l.Name]; exists {
				return nil, fmt.Errorf("duplicate library entry %q in %s", l.Name, file)
			}
			fs.library[l.Name] = l
		}
	}

	return fs, nil
}
