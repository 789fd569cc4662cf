package resumes

import "context"

// Repo defines persistence operations for résumés.
type Repo interface {
	// Create inserts a new résumé. It must reject a duplicate file path with
	// ErrDuplicatePath and a duplicate non-deleted (storageKey, fileName)
	// pair with ErrDuplicateName, closing the validate/finalize race.
	Create(ctx context.Context, resume Resume) error
	GetByID(ctx context.Context, resumeID string) (Resume, error)
	GetByPath(ctx context.Context, filePath string) (Resume, error)
	// FileNameExists reports whether a non-deleted résumé with the file name
	// exists under the storage key.
	FileNameExists(ctx context.Context, storageKey, fileName string) (bool, error)
	// MaxVersion returns the highest version ever assigned for the storage
	// key, soft-deleted rows included, so versions are never reused.
	MaxVersion(ctx context.Context, storageKey string) (int, error)
	ListByProfile(ctx context.Context, profileID string) ([]Resume, error)
	UpdateStatus(ctx context.Context, resumeID, status string) error
	SoftDelete(ctx context.Context, resumeID, profileID string) error
}

// ContentChecker reports whether structured content exists for a résumé.
// Implemented by the content repo; used when computing effective status.
type ContentChecker interface {
	ExistsByResumeID(ctx context.Context, resumeID string) (bool, error)
}
