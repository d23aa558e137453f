package expand

import (
	"strconv"
	"strings"

	"github.com/puran-water/flownote/internal/template"
)

// Endpoint pattern markers, in precedence order: boundary endpoints pass
// through unchanged, the next-train offset pairs train t with t+1, the bare
// wildcard spans all trains, and $last pins to the final train.
const (
	offsetMarker = "*+1"
	wildcard     = "*"
	lastMarker   = "$last"
)

// endpointPair is one resolved (source, target) id combination.
type endpointPair struct {
	src string
	dst string
}

// expandPairs resolves the pattern markers of a connection's endpoints over
// trainCount trains. Markers in both endpoints resolve jointly per train so
// parallel trains stay wired within themselves.
func expandPairs(srcID, dstID string, trainCount int) []endpointPair {
	srcHas := hasTrainMarker(srcID)
	dstHas := hasTrainMarker(dstID)
	if !srcHas && !dstHas {
		return []endpointPair{{src: srcID, dst: dstID}}
	}

	hasOffset := strings.Contains(srcID, offsetMarker) || strings.Contains(dstID, offsetMarker)
	hasWild := strings.Contains(strings.ReplaceAll(srcID, offsetMarker, ""), wildcard) ||
		strings.Contains(strings.ReplaceAll(dstID, offsetMarker, ""), wildcard)

	var pairs []endpointPair
	switch {
	case hasOffset:
		// Cross-train chains reach trains 2..T; a single train has none.
		for t := 1; t+1 <= trainCount; t++ {
			pairs = append(pairs, endpointPair{
				src: resolveEndpoint(srcID, t, trainCount),
				dst: resolveEndpoint(dstID, t, trainCount),
			})
		}
	case hasWild:
		for t := 1; t <= trainCount; t++ {
			pairs = append(pairs, endpointPair{
				src: resolveEndpoint(srcID, t, trainCount),
				dst: resolveEndpoint(dstID, t, trainCount),
			})
		}
	default: // only $last
		pairs = append(pairs, endpointPair{
			src: resolveEndpoint(srcID, trainCount, trainCount),
			dst: resolveEndpoint(dstID, trainCount, trainCount),
		})
	}
	return pairs
}

// hasTrainMarker reports whether an endpoint id carries any train pattern.
// Boundary endpoints never do: they are retained verbatim.
func hasTrainMarker(id string) bool {
	if strings.Contains(id, template.BoundaryMarker) {
		return false
	}
	return strings.Contains(id, wildcard) || strings.Contains(id, lastMarker)
}

// resolveEndpoint substitutes train markers for a concrete train number.
func resolveEndpoint(id string, train, trainCount int) string {
	if strings.Contains(id, template.BoundaryMarker) {
		return id
	}
	id = strings.ReplaceAll(id, offsetMarker, strconv.Itoa(train+1))
	id = strings.ReplaceAll(id, wildcard, strconv.Itoa(train))
	id = strings.ReplaceAll(id, lastMarker, strconv.Itoa(trainCount))
	return id
}
