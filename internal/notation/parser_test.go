package notation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/puran-water/flownote/internal/graph"
	"github.com/puran-water/flownote/internal/model"
)

func TestParseArrowGrammar(t *testing.T) {
	p := NewParser(nil)
	ctx := context.Background()

	t.Run("simple chain", func(t *testing.T) {
		m, err := p.Parse(ctx, "pump[pump_centrifugal]->tank[tank]")
		require.NoError(t, err)
		require.Len(t, m.Units, 2)
		require.Len(t, m.Streams, 1)
		assert.Equal(t, "pump_centrifugal", m.UnitByName("pump").Type)
		assert.Equal(t, "tank", m.UnitByName("tank").Type)
		assert.Equal(t, "pump", m.Streams[0].From)
		assert.Equal(t, "tank", m.Streams[0].To)
		assert.Equal(t, model.KindDetailed, m.Kind)
	})

	t.Run("bare controller tag is a single unit", func(t *testing.T) {
		m, err := p.Parse(ctx, "FC-101")
		require.NoError(t, err)
		require.Len(t, m.Units, 1)
		assert.Empty(t, m.Streams)
		assert.Equal(t, "FC-101", m.Units[0].Name)
		assert.Empty(t, m.Units[0].Type)
	})

	t.Run("inline tags attach to the stream by kind", func(t *testing.T) {
		m, err := p.Parse(ctx, "pump[pump]{FC-101}{7}{note}->tank[tank]")
		require.NoError(t, err)
		require.Len(t, m.Streams, 1)
		s := m.Streams[0]
		assert.Equal(t, "FC-101", s.Tags[TagKindControl])
		assert.Equal(t, "7", s.Tags[TagKindRecycle])
		assert.Equal(t, "note", s.Tags[TagKindGeneral])
	})

	t.Run("repeated unit names merge", func(t *testing.T) {
		m, err := p.Parse(ctx, "a[tank]->b[pump]\nb->c[tank]")
		require.NoError(t, err)
		assert.Len(t, m.Units, 3)
		assert.Equal(t, "pump", m.UnitByName("b").Type)
		assert.Len(t, m.Streams, 2)
	})

	t.Run("abstract kind inferred from type vocabulary", func(t *testing.T) {
		m, err := p.Parse(ctx, "eq[equalization]->cl[clarification]")
		require.NoError(t, err)
		assert.Equal(t, model.KindAbstract, m.Kind)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := p.Parse(ctx, "   \n ")
		var emptyErr *NotationEmptyError
		assert.ErrorAs(t, err, &emptyErr)
	})

	t.Run("unparseable token", func(t *testing.T) {
		_, err := p.Parse(ctx, "%%%->???")
		var emptyErr *NotationEmptyError
		assert.ErrorAs(t, err, &emptyErr)
	})
}

// fakeGrammarA returns a prebuilt graph regardless of input, standing in
// for the external native parser.
type fakeGrammarA struct {
	g   *graph.Graph
	err error
}

func (f *fakeGrammarA) Parse(ctx context.Context, text string) (*graph.Graph, error) {
	return f.g, f.err
}

func TestParseGrammarA(t *testing.T) {
	ctx := context.Background()

	g := graph.New()
	g.AddNode("pump-1", nil)
	g.AddNode("tank-2", map[string]string{"type": "storage_tank"})
	require.NoError(t, g.AddEdge("pump-1", "tank-2", map[string]string{"name": "feed"}))

	p := NewParser(&fakeGrammarA{g: g})
	m, err := p.Parse(ctx, "(pump-1)(tank-2)")
	require.NoError(t, err)

	// kind-index name split recovers the type when no attribute exists.
	pu := m.UnitByName("pump-1")
	require.NotNil(t, pu)
	assert.Equal(t, "pump", pu.Type)
	assert.Equal(t, 1, pu.SeqIndex)

	// An explicit type attribute wins over name splitting.
	tu := m.UnitByName("tank-2")
	require.NotNil(t, tu)
	assert.Equal(t, "storage_tank", tu.Type)

	require.Len(t, m.Streams, 1)
	assert.Equal(t, "feed", m.Streams[0].Name)
}

func TestParseGrammarAWithoutParser(t *testing.T) {
	// Without a native parser, parenthesized text falls through to the
	// arrow grammar and fails loud instead of guessing.
	p := NewParser(nil)
	_, err := p.Parse(context.Background(), "(pump-1)(tank-2)")
	var emptyErr *NotationEmptyError
	assert.ErrorAs(t, err, &emptyErr)
}
