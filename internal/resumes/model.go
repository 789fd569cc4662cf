package resumes

import "time"

// Stored résumé statuses. StatusFailed is never stored; it is an effective
// status computed by the reconciler for stuck extractions.
const (
	StatusPending        = "pending"
	StatusProcessing     = "processing"
	StatusProcessed      = "processed"
	StatusAnalysisFailed = "analysis failed"
	StatusFailed         = "failed"
)

// Resume represents an uploaded résumé owned by a profile. Immutable after
// finalize except for status and soft-delete.
type Resume struct {
	ID         string
	ProfileID  string
	StorageKey string
	FilePath   string
	FileName   string
	SizeBytes  int64
	Version    int
	IsActive   bool
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time
}

// UploadSlot is the result of reserving an upload: a write-capable URL scoped
// to exactly one object path.
type UploadSlot struct {
	ResumeID         string
	Path             string
	UploadURL        string
	ExpiresInSeconds int64
}
