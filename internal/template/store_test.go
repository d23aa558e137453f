package template

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puran-water/flownote/internal/registry"
)

// writeTemplates lays out HCL template files in a temp directory.
func writeTemplates(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

const equalizationTemplate = `
process "equalization" {
  description = "flow equalization with transfer pumping"

  parameter "include_mixer" {
    type    = "bool"
    default = "false"
    affects = ["Mixer"]
  }
  parameter "basin_volume" {
    type    = "number"
    default = "100"
    min     = 10
    max     = 5000
  }

  equipment "Basin" {
    type       = "tank"
    tag_prefix = "EQ-TK"
    ports      = ["inlet", "outlet", "overflow"]
    params = {
      volume_m3 = "$${basin_volume|100}"
    }
  }

  equipment "Mixer" {
    type       = "mixer"
    tag_prefix = "EQ-MX"
    condition  = "$${include_mixer|false}"
  }

  include "transfer_pumping" {
    args = {
      duty = "continuous"
    }
  }

  shared_equipment "Blower" {
    type       = "blower"
    tag_prefix = "EQ-BL"
  }

  connections = <<-EOT
    BATTERY_LIMIT -> Basin-*.inlet
    Basin-*.outlet -> Pump-*.inlet
    Pump-*.outlet -> BATTERY_LIMIT
  EOT

  port_mapping "inlet" {
    nozzle = "N1"
  }
  port_mapping "outlet" {
    nozzle = "N2"
  }
}

fragment "transfer_pumping" {
  parameter "pump_count" {
    type    = "number"
    default = "1"
  }

  equipment "Pump" {
    library    = "transfer_pump"
    count      = 1
    params = {
      duty = "$${duty}"
    }
  }
}

library "transfer_pump" {
  type       = "pump_centrifugal"
  tag_prefix = "EQ-P"
  params = {
    seal = "mechanical"
  }
}
`

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := writeTemplates(t, map[string]string{"equalization.hcl": equalizationTemplate})
	return NewStore(dir, registry.New())
}

func TestLoadComposesTemplate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tmpl, err := s.Load(ctx, "equalization")
	require.NoError(t, err)

	assert.Equal(t, "equalization", tmpl.ID)
	assert.Equal(t, []string{"transfer_pumping"}, tmpl.ComponentsUsed)

	// Own equipment plus the fragment's pump.
	require.Len(t, tmpl.PerTrain, 3)
	require.Len(t, tmpl.Shared, 1)

	t.Run("fragment args substituted before merge", func(t *testing.T) {
		pump := tmpl.PerTrain[2]
		assert.Equal(t, "Pump", pump.LocalID)
		assert.Equal(t, "continuous", pump.Params["duty"])
	})

	t.Run("library fields merged under local overrides", func(t *testing.T) {
		pump := tmpl.PerTrain[2]
		assert.Equal(t, "pump_centrifugal", pump.Type)
		assert.Equal(t, "EQ-P", pump.TagPrefix)
		assert.Equal(t, "mechanical", pump.Params["seal"])
	})

	t.Run("template params keep deferred placeholders", func(t *testing.T) {
		basin := tmpl.PerTrain[0]
		assert.Equal(t, "${basin_volume|100}", basin.Params["volume_m3"])
	})

	t.Run("fragment parameters appended", func(t *testing.T) {
		require.NotNil(t, tmpl.ParamByName("pump_count"))
		decl := tmpl.ParamByName("basin_volume")
		require.NotNil(t, decl)
		require.NotNil(t, decl.Min)
		assert.Equal(t, 10.0, *decl.Min)
	})

	t.Run("connections parsed including fragment lines", func(t *testing.T) {
		require.Len(t, tmpl.Connections, 3)
		assert.Equal(t, BoundaryMarker, tmpl.Connections[0].SrcID)
	})

	t.Run("port mappings", func(t *testing.T) {
		assert.Equal(t, "N1", tmpl.PortMappings["inlet"])
		assert.Equal(t, "N2", tmpl.PortMappings["outlet"])
	})
}

func TestLoadCachesResolvedTemplate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.Load(ctx, "equalization")
	require.NoError(t, err)
	second, err := s.Load(ctx, "equalization")
	require.NoError(t, err)
	assert.Same(t, first, second)

	// Callers mutate copies, never the cached template.
	cp := first.DeepCopy()
	cp.PerTrain[0].TagPrefix = "MUTATED"
	assert.Equal(t, "EQ-TK", first.PerTrain[0].TagPrefix)
}

func TestLoadUnknownProcess(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Load(context.Background(), "missing_process")
	var notFound *registry.TemplateNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing_process", notFound.Key)
	assert.Equal(t, []string{"equalization"}, notFound.Known)
}

func TestLoadUnknownFragment(t *testing.T) {
	dir := writeTemplates(t, map[string]string{"p.hcl": `
process "p" {
  include "no_such_fragment" {}
}
`})
	s := NewStore(dir, registry.New())

	_, err := s.Load(context.Background(), "p")
	var notFound *registry.TemplateNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "no_such_fragment", notFound.Key)
}

func TestLoadUnknownEquipmentType(t *testing.T) {
	dir := writeTemplates(t, map[string]string{"p.hcl": `
process "p" {
  equipment "X" {
    type       = "warp_drive"
    tag_prefix = "WD"
  }
}
`})
	s := NewStore(dir, registry.New())

	_, err := s.Load(context.Background(), "p")
	var unknown *registry.UnknownComponentTypeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "warp_drive", unknown.Key)
}
