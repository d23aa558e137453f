package convert

import (
	"context"
	"fmt"

	"github.com/puran-water/flownote/internal/ctxlog"
	"github.com/puran-water/flownote/internal/model"
	"github.com/puran-water/flownote/internal/plant"
)

// buildConnection pipes a stream between two equipment items: one piping
// system with one segment whose identifier embeds both endpoint tags.
// Proper linkage through the plant model is attempted but non-fatal; the
// embedded segment id is the load-bearing connectivity record.
func buildConnection(ctx context.Context, pm *plant.Model, from, to *plant.Equipment, s *model.Stream) {
	src := allocateNozzle(from, true)
	dst := allocateNozzle(to, false)

	seg := &plant.PipingSegment{
		ID:     plant.SegmentID(from.Tag, to.Tag),
		Source: &plant.ItemRef{ItemTag: from.Tag, NozzleID: src.ID},
		Target: &plant.ItemRef{ItemTag: to.Tag, NozzleID: dst.ID},
		Attrs:  segmentAttrs(s),
	}
	pm.AddPipingSystem(&plant.PipingSystem{
		Tag:      from.Tag + "_to_" + to.Tag,
		Segments: []*plant.PipingSegment{seg},
	})

	if err := pm.Link(seg); err != nil {
		ctxlog.FromContext(ctx).Debug("segment linkage skipped", "segment", seg.ID, "error", err)
	}
}

// allocateNozzle picks an unconnected nozzle, scanning from the list end on
// the source side and from the start on the target side so conventional
// outlet/inlet layouts pair up naturally. When every nozzle is taken a new
// one is appended.
func allocateNozzle(e *plant.Equipment, source bool) *plant.ConnectionPoint {
	if source {
		for i := len(e.Nozzles) - 1; i >= 0; i-- {
			if !e.Nozzles[i].Connected {
				e.Nozzles[i].Connected = true
				return e.Nozzles[i]
			}
		}
	} else {
		for _, n := range e.Nozzles {
			if !n.Connected {
				n.Connected = true
				return n
			}
		}
	}

	n := plant.NewConnectionPoint(fmt.Sprintf("N%d", len(e.Nozzles)+1), "")
	n.Connected = true
	e.Nozzles = append(e.Nozzles, n)
	return n
}

// segmentAttrs persists a stream's name, tags, and properties as auxiliary
// segment attributes so the reverse path can restore them.
func segmentAttrs(s *model.Stream) map[string]string {
	attrs := make(map[string]string)
	if s.Name != "" {
		attrs["name"] = s.Name
	}
	for k, v := range s.Tags {
		attrs[k] = v
	}
	for k, v := range s.Props {
		attrs[k] = model.ScalarString(v)
	}
	return attrs
}
