package notation

import (
	"strings"

	"github.com/puran-water/flownote/internal/model"
)

// abstractVocabulary is the fixed set of block-type-name fragments that
// mark a model as abstract when no explicit kind is present. A unit type
// containing any fragment means the flowsheet speaks in process blocks,
// not concrete equipment.
var abstractVocabulary = []string{
	"treatment",
	"screening",
	"equalization",
	"clarification",
	"aeration",
	"filtration",
	"digestion",
	"thickening",
	"dewatering",
	"disinfection",
}

// inferKind classifies a model as abstract or detailed from its unit types.
func inferKind(m *model.IntermediateModel) model.Kind {
	for _, u := range m.Units {
		typ := strings.ToLower(u.Type)
		if typ == "" {
			continue
		}
		for _, fragment := range abstractVocabulary {
			if strings.Contains(typ, fragment) {
				return model.KindAbstract
			}
		}
	}
	return model.KindDetailed
}
