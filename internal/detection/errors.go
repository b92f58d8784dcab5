package detection

import "errors"

// Pipeline failures. Stages wrap these with context, so callers should match
// them with errors.Is.
var (
	// ErrDegenerateRange reports a flat plane (max == min) at a normalization
	// step, where contrast stretching is undefined.
	ErrDegenerateRange = errors.New("degenerate intensity range")

	// ErrNoCandidate reports that every connected component was rejected by
	// the aspect-ratio test.
	ErrNoCandidate = errors.New("no plate candidate found")

	// ErrEmptyImage reports an image with no pixels, mismatched channel
	// planes, or one too small for a windowed operation to have an interior.
	ErrEmptyImage = errors.New("empty image")
)
