package convert

import (
	"context"

	"github.com/puran-water/flownote/internal/ctxlog"
	"github.com/puran-water/flownote/internal/model"
	"github.com/puran-water/flownote/internal/notation"
	"github.com/puran-water/flownote/internal/plant"
)

// FromPlantModel extracts an intermediate model from a plant model:
// equipment and instrumentation become units, piping connectivity becomes
// streams.
//
// Connectivity extraction tries three sources in order. The graph
// projection is preferred; when it fails (a segment without endpoint
// references), every segment identifier is scanned for the embedded
// `segment__FROM__TO` convention, and segments that follow neither carry
// their source/target references directly. The projection failure is the
// one deliberate soft-fail in the engine.
func (e *Engine) FromPlantModel(ctx context.Context, pm *plant.Model) (*model.IntermediateModel, error) {
	logger := ctxlog.FromContext(ctx)
	m := model.NewIntermediateModel()
	m.Kind = model.KindDetailed

	for _, eq := range pm.Equipment {
		u := model.NewUnit(eq.Tag, e.reg.TypeKeyForClass(eq.Class))
		if err := m.AddUnit(u); err != nil {
			return nil, err
		}
	}
	for _, f := range pm.Instrumentation {
		u := model.NewUnit(f.Tag, f.Attrs[controllerTypeAttr])
		if err := m.AddUnit(u); err != nil {
			return nil, err
		}
	}

	g, err := plant.ProjectGraph(pm)
	if err == nil {
		for _, edge := range g.Edges() {
			m.AddStream(streamFromAttrs(edge.From, edge.To, edge.Attrs))
		}
		return m, nil
	}
	logger.Debug("graph projection failed, scanning segment identifiers", "error", err)

	for _, ps := range pm.PipingSystems {
		for _, seg := range ps.Segments {
			from, to, ok := plant.ParseSegmentID(seg.ID)
			if !ok {
				if seg.Source == nil || seg.Target == nil {
					logger.Debug("segment has no recoverable endpoints", "segment", seg.ID)
					continue
				}
				from, to = seg.Source.ItemTag, seg.Target.ItemTag
			}
			m.AddStream(streamFromAttrs(from, to, seg.Attrs))
		}
	}
	return m, nil
}

// ToNotation converts a plant model back to notation text.
func (e *Engine) ToNotation(ctx context.Context, pm *plant.Model, canonical bool, version int) (string, error) {
	m, err := e.FromPlantModel(ctx, pm)
	if err != nil {
		return "", err
	}
	return notation.NotationOf(m, canonical, version)
}

// streamFromAttrs rebuilds a stream from persisted segment attributes,
// restoring the name, tag kinds, and remaining properties.
func streamFromAttrs(from, to string, attrs map[string]string) *model.Stream {
	s := model.NewStream(from, to)
	for k, v := range attrs {
		switch k {
		case "name":
			s.Name = v
		case notation.TagKindControl, notation.TagKindRecycle, notation.TagKindGeneral:
			s.Tags[k] = v
		case "pipe", "segment", "class":
			// Projection bookkeeping, not stream data.
		default:
			s.Props[k] = model.ParseScalar(v)
		}
	}
	return s
}
