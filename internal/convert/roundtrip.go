package convert

import (
	"context"
	"sort"

	"github.com/google/go-cmp/cmp"

	"github.com/puran-water/flownote/internal/notation"
	"github.com/puran-water/flownote/internal/plant"
)

// signature is the invariant surface of a plant model under a round trip:
// the equipment tag set, the connection tag-pair set, and the
// instrumentation tag to controller-kind mapping.
type signature struct {
	Equipment   []string
	Connections [][2]string
	Instruments map[string]string
}

// RoundTripCheck converts a plant model to notation and back, then
// compares the rebuilt model's signature against the original. It returns
// whether the signatures match and the go-cmp rendering of any difference.
func (e *Engine) RoundTripCheck(ctx context.Context, original *plant.Model) (bool, string, error) {
	text, err := e.ToNotation(ctx, original, true, notation.VersionArrow)
	if err != nil {
		return false, "", err
	}
	rebuilt, err := e.ToPlantModel(ctx, text, Options{})
	if err != nil {
		return false, "", err
	}

	diff := cmp.Diff(signatureOf(original), signatureOf(rebuilt))
	return diff == "", diff, nil
}

// signatureOf computes the comparable round-trip signature of a model.
// Connectivity comes from segment identifiers with a source/target-ref
// fallback, matching the reverse extraction order.
func signatureOf(pm *plant.Model) signature {
	sig := signature{Instruments: make(map[string]string)}

	for _, eq := range pm.Equipment {
		sig.Equipment = append(sig.Equipment, eq.Tag)
	}
	sort.Strings(sig.Equipment)

	for _, ps := range pm.PipingSystems {
		for _, seg := range ps.Segments {
			from, to, ok := plant.ParseSegmentID(seg.ID)
			if !ok {
				if seg.Source == nil || seg.Target == nil {
					continue
				}
				from, to = seg.Source.ItemTag, seg.Target.ItemTag
			}
			sig.Connections = append(sig.Connections, [2]string{from, to})
		}
	}
	sort.Slice(sig.Connections, func(i, j int) bool {
		if sig.Connections[i][0] != sig.Connections[j][0] {
			return sig.Connections[i][0] < sig.Connections[j][0]
		}
		return sig.Connections[i][1] < sig.Connections[j][1]
	})

	for _, f := range pm.Instrumentation {
		kind := f.Attrs[controllerTypeAttr]
		if kind == "" {
			kind = controllerPrefix(f.Tag)
		}
		sig.Instruments[f.Tag] = kind
	}

	return sig
}
