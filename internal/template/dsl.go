package template

import (
	"fmt"
	"strings"
)

// BoundaryMarker is the external-boundary endpoint. Lines referencing it
// are retained verbatim and never pattern-expanded.
const BoundaryMarker = "BATTERY_LIMIT"

// Default ports applied when a DSL endpoint names none.
const (
	DefaultSourcePort = "outlet"
	DefaultTargetPort = "inlet"
)

// ParseConnections parses the line-oriented connection micro-language:
//
//	<source>[.<port>] -> <target>[.<port>] [kind]
//
// Blank lines and lines starting with '#' are skipped. A trailing
// bracketed token overrides the stream kind.
func ParseConnections(dsl string) ([]*ConnectionSpec, error) {
	var specs []*ConnectionSpec

	for _, line := range strings.Split(dsl, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, "->")
		if len(parts) != 2 {
			return nil, fmt.Errorf("connection line %q must contain exactly one '->'", line)
		}

		kind := "process"
		rhs := strings.TrimSpace(parts[1])
		if open := strings.LastIndex(rhs, "["); open != -1 && strings.HasSuffix(rhs, "]") {
			kind = rhs[open+1 : len(rhs)-1]
			rhs = strings.TrimSpace(rhs[:open])
		}

		srcID, srcPort := splitEndpoint(strings.TrimSpace(parts[0]), DefaultSourcePort)
		dstID, dstPort := splitEndpoint(rhs, DefaultTargetPort)
		if srcID == "" || dstID == "" {
			return nil, fmt.Errorf("connection line %q has an empty endpoint", line)
		}

		specs = append(specs, &ConnectionSpec{
			SrcID:    srcID,
			SrcPort:  srcPort,
			DstID:    dstID,
			DstPort:  dstPort,
			Kind:     kind,
			PerTrain: strings.Contains(srcID, "*") || strings.Contains(dstID, "*"),
			Raw:      line,
		})
	}

	return specs, nil
}

// splitEndpoint separates an endpoint into id and port. The boundary marker
// never carries a port.
func splitEndpoint(endpoint, defaultPort string) (id, port string) {
	if endpoint == BoundaryMarker {
		return endpoint, ""
	}
	if i := strings.LastIndex(endpoint, "."); i > 0 {
		return endpoint[:i], endpoint[i+1:]
	}
	return endpoint, defaultPort
}
