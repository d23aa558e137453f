package registry

import (
	"fmt"
	"strings"
)

// UnknownComponentTypeError reports a type-key lookup miss. It carries the
// full set of known keys so the caller can see exactly what the registry
// would have accepted.
type UnknownComponentTypeError struct {
	Key   string
	Known []string
}

func (e *UnknownComponentTypeError) Error() string {
	return fmt.Sprintf("unknown component type %q; known types: %s", e.Key, strings.Join(e.Known, ", "))
}

// TemplateNotFoundError reports a missing abstract-block or process
// template entry, listing every id that is registered.
type TemplateNotFoundError struct {
	Key   string
	Known []string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("no template registered for %q; known ids: %s", e.Key, strings.Join(e.Known, ", "))
}
