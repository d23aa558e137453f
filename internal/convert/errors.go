package convert

import (
	"fmt"
	"strings"
)

// InvalidStreamReferenceError reports a stream whose endpoint names no
// known ordinary unit. Unlike the expansion engine, which over-generates
// connection patterns and drops the misses, a parsed stream naming a
// missing unit is author error and fails loudly.
type InvalidStreamReferenceError struct {
	// Stream is the offending stream rendered as "from -> to".
	Stream string
	// Endpoint is the unresolved unit name.
	Endpoint string
	// Known lists every resolvable unit name, sorted.
	Known []string
}

func (e *InvalidStreamReferenceError) Error() string {
	return fmt.Sprintf("stream %q references unknown unit %q (known units: %s)",
		e.Stream, e.Endpoint, strings.Join(e.Known, ", "))
}
