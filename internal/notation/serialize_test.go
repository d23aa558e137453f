package notation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/puran-water/flownote/internal/model"
)

func chainModel(t *testing.T) *model.IntermediateModel {
	t.Helper()
	m := model.NewIntermediateModel()
	require.NoError(t, m.AddUnit(model.NewUnit("pump", "pump_centrifugal")))
	require.NoError(t, m.AddUnit(model.NewUnit("tank", "tank")))
	m.AddStream(model.NewStream("pump", "tank"))
	return m
}

func TestNotationOfArrow(t *testing.T) {
	text, err := NotationOf(chainModel(t), true, VersionArrow)
	require.NoError(t, err)
	assert.Equal(t, "pump[pump_centrifugal]->tank[tank]", text)
}

func TestNotationOfParen(t *testing.T) {
	text, err := NotationOf(chainModel(t), true, VersionParen)
	require.NoError(t, err)
	assert.Equal(t, "(pump)(tank)", text)
}

func TestNotationOfUnsupportedVersion(t *testing.T) {
	_, err := NotationOf(chainModel(t), true, 3)
	assert.ErrorContains(t, err, "unsupported notation version")
}

func TestNotationOfStandaloneUnit(t *testing.T) {
	m := model.NewIntermediateModel()
	require.NoError(t, m.AddUnit(model.NewUnit("FC-101", "")))
	text, err := NotationOf(m, true, VersionArrow)
	require.NoError(t, err)
	assert.Equal(t, "FC-101", text)
}

func TestNotationOfEmitsTags(t *testing.T) {
	m := chainModel(t)
	m.Streams[0].Tags[TagKindControl] = "FC-101"
	text, err := NotationOf(m, true, VersionArrow)
	require.NoError(t, err)
	assert.Equal(t, "pump[pump_centrifugal]{FC-101}->tank[tank]", text)
}

func TestNotationRoundTrip(t *testing.T) {
	p := NewParser(nil)
	in := "screen[screen]->tank[tank]->pump[pump_centrifugal]\nFC-101"

	m, err := p.Parse(context.Background(), in)
	require.NoError(t, err)
	out, err := NotationOf(m, false, VersionArrow)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

// Canonical serialization must not depend on declaration order: any
// permutation of the same units and streams serializes byte-identically.
func TestCanonicalDeterminism(t *testing.T) {
	units := []struct{ name, typ string }{
		{"screen", "screen"}, {"basin", "tank"}, {"pump", "pump_centrifugal"}, {"clar", "clarifier"},
	}
	streams := [][2]string{
		{"screen", "basin"}, {"basin", "pump"}, {"pump", "clar"},
	}

	build := func(unitOrder, streamOrder []int) *model.IntermediateModel {
		m := model.NewIntermediateModel()
		for _, i := range unitOrder {
			require.NoError(t, m.AddUnit(model.NewUnit(units[i].name, units[i].typ)))
		}
		for _, i := range streamOrder {
			m.AddStream(model.NewStream(streams[i][0], streams[i][1]))
		}
		return m
	}

	reference, err := NotationOf(build([]int{0, 1, 2, 3}, []int{0, 1, 2}), true, VersionArrow)
	require.NoError(t, err)

	rapid.Check(t, func(t *rapid.T) {
		unitOrder := rapid.Permutation([]int{0, 1, 2, 3}).Draw(t, "unitOrder")
		streamOrder := rapid.Permutation([]int{0, 1, 2}).Draw(t, "streamOrder")

		got, err := NotationOf(build(unitOrder, streamOrder), true, VersionArrow)
		if err != nil {
			t.Fatalf("serialize failed: %v", err)
		}
		if got != reference {
			t.Fatalf("canonical output changed under relabeling:\n%s\nvs\n%s", got, reference)
		}
	})
}
