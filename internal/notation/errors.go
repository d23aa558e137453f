package notation

import "fmt"

// NotationEmptyError reports that input text matched neither grammar or
// produced a model with zero units and streams. An empty parse result is
// always an error, never an empty model.
type NotationEmptyError struct {
	Reason string
}

func (e *NotationEmptyError) Error() string {
	return fmt.Sprintf("notation yielded no units or streams: %s", e.Reason)
}
