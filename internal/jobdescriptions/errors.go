package jobdescriptions

import "errors"

var (
	// ErrValidationUnavailable means the classifier's output could not be
	// parsed. Retryable service error, not a verdict on the text.
	ErrValidationUnavailable = errors.New("job description validation unavailable")
	ErrNotFound              = errors.New("job description not found")
)
