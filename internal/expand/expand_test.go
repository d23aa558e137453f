package expand

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"github.com/puran-water/flownote/internal/registry"
	"github.com/puran-water/flownote/internal/template"
)

const plantTemplate = `
process "plant" {
  parameter "include_mixer" {
    type    = "bool"
    default = "false"
  }

  equipment "Basin" {
    type       = "tank"
    tag_prefix = "T"
  }

  equipment "Mixer" {
    type       = "mixer"
    tag_prefix = "MX"
    condition  = "$${include_mixer|false}"
  }

  equipment "Pump" {
    type       = "pump_centrifugal"
    tag_prefix = "P"
  }

  shared_equipment "Blower" {
    type       = "blower"
    tag_prefix = "BL"
  }

  connections = <<-EOT
    BATTERY_LIMIT -> Basin-*.inlet
    Basin-*.outlet -> Pump-*.inlet
    Basin-*.outlet -> Basin-*+1.inlet [overflow]
    Pump-$last.outlet -> Blower.inlet
    Mixer-*.outlet -> Basin-*.inlet
  EOT
}

process "duplex" {
  equipment "Pump" {
    type       = "pump_centrifugal"
    tag_prefix = "P"
    count      = 2
  }
}
`

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "plant.hcl")
	require.NoError(t, os.WriteFile(path, []byte(plantTemplate), 0o644))
	reg := registry.New()
	return New(template.NewStore(dir, reg), reg)
}

func TestExpandTagGeneration(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Expand(context.Background(), "B1", "plant", 230, 4, nil)
	require.NoError(t, err)

	var basinTags []string
	for _, inst := range res.Equipment {
		if inst.Class == "Tank" {
			basinTags = append(basinTags, inst.Tag)
		}
	}
	assert.Equal(t, []string{"230-T-01", "230-T-02", "230-T-03", "230-T-04"}, basinTags)

	for i := 1; i <= 4; i++ {
		inst := res.InstanceByID("Basin-" + string(rune('0'+i)))
		require.NotNil(t, inst)
		assert.Equal(t, i, inst.Train)
		require.NotNil(t, inst.Object)
		assert.Equal(t, inst.Tag, inst.Object.Tag)
	}
}

func TestExpandSharedEquipment(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Expand(context.Background(), "B1", "plant", 100, 3, nil)
	require.NoError(t, err)

	blower := res.InstanceByID("Blower")
	require.NotNil(t, blower)
	assert.Equal(t, 0, blower.Train)
	assert.Equal(t, "100-BL-01", blower.Tag)
}

func TestExpandCountMultipliesPerTrain(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Expand(context.Background(), "B2", "duplex", 310, 3, nil)
	require.NoError(t, err)

	require.Len(t, res.Equipment, 6)
	ids := make(map[string]bool)
	for _, inst := range res.Equipment {
		ids[inst.ID] = true
	}
	for _, id := range []string{
		"Pump-1.01", "Pump-1.02",
		"Pump-2.01", "Pump-2.02",
		"Pump-3.01", "Pump-3.02",
	} {
		assert.True(t, ids[id], "missing instance %s", id)
	}
	assert.Equal(t, "310-P-02.01", res.InstanceByID("Pump-2.01").Tag)
}

func TestExpandConditionGating(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	t.Run("default excludes", func(t *testing.T) {
		res, err := e.Expand(ctx, "B1", "plant", 100, 2, nil)
		require.NoError(t, err)
		assert.Nil(t, res.InstanceByID("Mixer-1"))
	})

	t.Run("runtime override includes", func(t *testing.T) {
		res, err := e.Expand(ctx, "B1", "plant", 100, 2,
			map[string]cty.Value{"include_mixer": cty.True})
		require.NoError(t, err)
		require.NotNil(t, res.InstanceByID("Mixer-1"))
		require.NotNil(t, res.InstanceByID("Mixer-2"))
	})
}

func TestExpandWildcardPairsWithinTrains(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Expand(context.Background(), "B1", "plant", 100, 3, nil)
	require.NoError(t, err)

	var pairs [][2]string
	for _, c := range res.Connections {
		if c.SrcPort == "outlet" && c.DstPort == "inlet" && c.Kind == "process" &&
			res.InstanceByID(c.DstID) != nil && res.InstanceByID(c.DstID).Class == "CentrifugalPump" {
			pairs = append(pairs, [2]string{c.SrcID, c.DstID})
		}
	}
	assert.Equal(t, [][2]string{
		{"Basin-1", "Pump-1"},
		{"Basin-2", "Pump-2"},
		{"Basin-3", "Pump-3"},
	}, pairs)
}

func TestExpandBoundaryConnections(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Expand(context.Background(), "B1", "plant", 100, 2, nil)
	require.NoError(t, err)

	var boundary []*ConnectionInstance
	for _, c := range res.Connections {
		if c.Boundary {
			boundary = append(boundary, c)
		}
	}
	require.Len(t, boundary, 2)
	assert.Equal(t, template.BoundaryMarker, boundary[0].SrcID)
	assert.Equal(t, "Basin-1", boundary[0].DstID)
	assert.Equal(t, "Basin-2", boundary[1].DstID)
}

func TestExpandOffsetChains(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	overflow := func(res *Result) [][2]string {
		var pairs [][2]string
		for _, c := range res.Connections {
			if c.Kind == "overflow" {
				pairs = append(pairs, [2]string{c.SrcID, c.DstID})
			}
		}
		return pairs
	}

	t.Run("three trains give two links", func(t *testing.T) {
		res, err := e.Expand(ctx, "B1", "plant", 100, 3, nil)
		require.NoError(t, err)
		assert.Equal(t, [][2]string{
			{"Basin-1", "Basin-2"},
			{"Basin-2", "Basin-3"},
		}, overflow(res))
	})

	t.Run("single train gives none", func(t *testing.T) {
		res, err := e.Expand(ctx, "B1", "plant", 100, 1, nil)
		require.NoError(t, err)
		assert.Empty(t, overflow(res))
	})
}

func TestExpandLastMarker(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Expand(context.Background(), "B1", "plant", 100, 3, nil)
	require.NoError(t, err)

	var toBlower []*ConnectionInstance
	for _, c := range res.Connections {
		if c.DstID == "Blower" {
			toBlower = append(toBlower, c)
		}
	}
	require.Len(t, toBlower, 1)
	assert.Equal(t, "Pump-3", toBlower[0].SrcID)
}

func TestExpandDropsConnectionsToAbsentEquipment(t *testing.T) {
	e := newTestEngine(t)

	// Mixer is gated off by default, so its connection lines vanish
	// instead of erroring.
	res, err := e.Expand(context.Background(), "B1", "plant", 100, 2, nil)
	require.NoError(t, err)
	for _, c := range res.Connections {
		assert.NotContains(t, c.SrcID, "Mixer")
	}
}

func TestExpandMetadata(t *testing.T) {
	e := newTestEngine(t)

	res, err := e.Expand(context.Background(), "B7", "plant", 400, 2, nil)
	require.NoError(t, err)

	md := res.Metadata
	assert.Equal(t, "B7", md.BlockID)
	assert.Equal(t, "plant", md.ProcessID)
	assert.Equal(t, 400, md.Area)
	assert.Equal(t, 2, md.TrainCount)
	assert.Equal(t, len(res.Equipment), md.EquipmentCount)
	assert.Equal(t, len(res.Connections), md.ConnectionCount)
}

func TestExpandInvalidTrainCount(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Expand(context.Background(), "B1", "plant", 100, 0, nil)
	assert.Error(t, err)
}

func TestExpandUnknownProcess(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Expand(context.Background(), "B1", "no_such_process", 100, 1, nil)
	var notFound *registry.TemplateNotFoundError
	assert.ErrorAs(t, err, &notFound)
}
