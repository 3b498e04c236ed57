package glyphbrush

import "errors"

// Batch errors.
var (
	// ErrCapacityExceeded is returned when a batch would hold more glyph
	// instances than Config.MaxInstances. The batch is never truncated.
	ErrCapacityExceeded = errors.New("glyphbrush: batch capacity exceeded")

	// ErrMalformedInstance is returned for a glyph instance whose geometry
	// or texture rectangle is inverted.
	ErrMalformedInstance = errors.New("glyphbrush: malformed glyph instance")
)
