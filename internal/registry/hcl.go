package registry

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/puran-water/flownote/internal/fsutil"
)

// definitionFile is the top-level structure of a component definition file.
type definitionFile struct {
	Components []*componentBlock `hcl:"component,block"`
}

// componentBlock declares one component definition in HCL, mirroring the
// fields of ComponentDefinition plus extra aliases.
type componentBlock struct {
	ID            string   `hcl:"id,label"`
	Class         string   `hcl:"class"`
	AbstractBlock string   `hcl:"abstract_block,optional"`
	Category      string   `hcl:"category,optional"`
	DefaultPorts  int      `hcl:"default_ports,optional"`
	MaxPorts      int      `hcl:"max_ports,optional"`
	Aliases       []string `hcl:"aliases,optional"`
}

type loadedDefinition struct {
	definition *ComponentDefinition
	aliases    []string
}

// loadDefinitionFiles parses every .hcl file under dir into component
// definitions. A missing directory is not an error: built-ins stand alone.
func loadDefinitionFiles(dir string) ([]*loadedDefinition, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	files, err := fsutil.FindFilesByExtension(dir, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("failed to find definition files in %s: %w", dir, err)
	}

	parser := hclparse.NewParser()
	var out []*loadedDefinition
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse definition file %s: %w", file, diags)
		}

		var parsed definitionFile
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &parsed); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode definition file %s: %w", file, diags)
		}

		for _, block := range parsed.Components {
			if block.Class == "" {
				return nil, fmt.Errorf("component %q in %s has no class", block.ID, file)
			}
			ports := block.DefaultPorts
			if ports == 0 {
				ports = 2
			}
			out = append(out, &loadedDefinition{
				definition: &ComponentDefinition{
					ID:            block.ID,
					Class:         block.Class,
					AbstractBlock: block.AbstractBlock,
					Category:      Category(block.Category),
					DefaultPorts:  ports,
					MaxPorts:      block.MaxPorts,
				},
				aliases: block.Aliases,
			})
		}
	}

	return out, nil
}
