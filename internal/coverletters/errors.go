package coverletters

import "errors"

var (
	// ErrGenerationFailed means all attempts were exhausted. Wraps the last
	// underlying cause.
	ErrGenerationFailed = errors.New("cover letter generation failed")
	// ErrMissingCandidateName refuses generation when the résumé content has
	// no candidate name to write the letter under.
	ErrMissingCandidateName = errors.New("resume content has no candidate name")
	ErrNotFound             = errors.New("cover letter not found")
)
