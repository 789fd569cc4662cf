package analyses

import "errors"

var (
	// ErrContentNotFound means extraction has not produced structured
	// content yet. "Not ready", as opposed to "will never be ready".
	ErrContentNotFound = errors.New("resume content not available yet")
	// ErrInvalidScoreRange means the model returned a numeric score outside
	// [0,100]. Never coerced; the analysis fails.
	ErrInvalidScoreRange = errors.New("match score outside [0,100]")
	ErrNotFound          = errors.New("analysis not found")
)
