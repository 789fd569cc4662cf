package content

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no content row exists for a résumé.
var ErrNotFound = errors.New("resume content not found")

// Repo defines persistence operations for résumé content.
type Repo interface {
	// Upsert creates or replaces the single content row for a résumé.
	// Keyed by résumé id so storage-event redelivery is idempotent.
	Upsert(ctx context.Context, c ResumeContent) error
	GetByResumeID(ctx context.Context, resumeID string) (ResumeContent, error)
	ExistsByResumeID(ctx context.Context, resumeID string) (bool, error)
}
