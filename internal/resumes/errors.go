package resumes

import "errors"

var (
	ErrUnauthenticated  = errors.New("caller identity is required")
	ErrUnconfigured     = errors.New("profile has no storage key configured")
	ErrUnsupportedType  = errors.New("file extension is not allowed")
	ErrPathMismatch     = errors.New("path is outside the caller's storage key")
	ErrDuplicateName    = errors.New("a resume with this file name already exists")
	ErrDuplicatePath    = errors.New("a resume already references this path")
	ErrAlreadyFinalized = errors.New("a resume was already finalized at this path")
	ErrNotFound         = errors.New("not found")
)
