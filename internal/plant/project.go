package plant

import (
	"fmt"

	"github.com/puran-water/flownote/internal/graph"
)

// ProjectGraph projects the model onto a labeled directed graph: one node
// per equipment item and instrumentation function, one edge per piping
// segment with resolvable endpoint references.
//
// Segments without endpoint references make the projection fail; the
// reverse converter then falls back to scanning segment identifiers.
func ProjectGraph(m *Model) (*graph.Graph, error) {
	g := graph.New()

	for _, e := range m.Equipment {
		g.AddNode(e.Tag, map[string]string{"class": e.Class})
	}
	for _, f := range m.Instrumentation {
		g.AddNode(f.Tag, map[string]string{"class": "InstrumentationFunction"})
	}

	for _, ps := range m.PipingSystems {
		for _, seg := range ps.Segments {
			if seg.Source == nil || seg.Target == nil {
				return nil, fmt.Errorf("segment %s lacks endpoint references", seg.ID)
			}
			attrs := map[string]string{"pipe": ps.Tag, "segment": seg.ID}
			for k, v := range seg.Attrs {
				attrs[k] = v
			}
			if err := g.AddEdge(seg.Source.ItemTag, seg.Target.ItemTag, attrs); err != nil {
				return nil, fmt.Errorf("projecting segment %s: %w", seg.ID, err)
			}
		}
	}

	return g, nil
}
