package resumes

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores résumés in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Resume
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Resume)}
}

// Create stores the résumé, enforcing the path and file-name uniqueness the
// Postgres schema guarantees.
func (r *MemoryRepo) Create(ctx context.Context, resume Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.FilePath == resume.FilePath {
			return ErrDuplicatePath
		}
		if existing.DeletedAt == nil &&
			existing.StorageKey == resume.StorageKey &&
			existing.FileName == resume.FileName {
			return ErrDuplicateName
		}
	}
	r.byID[resume.ID] = resume
	return nil
}

// GetByID returns a résumé by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, resumeID string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	resume, ok := r.byID[resumeID]
	if !ok {
		return Resume{}, ErrNotFound
	}
	return resume, nil
}

// GetByPath returns a résumé by its exact object path.
func (r *MemoryRepo) GetByPath(ctx context.Context, filePath string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, resume := range r.byID {
		if resume.FilePath == filePath {
			return resume, nil
		}
	}
	return Resume{}, ErrNotFound
}

// FileNameExists reports a non-deleted duplicate file name under a storage key.
func (r *MemoryRepo) FileNameExists(ctx context.Context, storageKey, fileName string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, resume := range r.byID {
		if resume.DeletedAt == nil && resume.StorageKey == storageKey && resume.FileName == fileName {
			return true, nil
		}
	}
	return false, nil
}

// MaxVersion returns the highest version ever assigned for a storage key,
// soft-deleted rows included.
func (r *MemoryRepo) MaxVersion(ctx context.Context, storageKey string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	maxVersion := 0
	for _, resume := range r.byID {
		if resume.StorageKey == storageKey && resume.Version > maxVersion {
			maxVersion = resume.Version
		}
	}
	return maxVersion, nil
}

// ListByProfile returns non-deleted résumés for a profile, newest first.
func (r *MemoryRepo) ListByProfile(ctx context.Context, profileID string) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Resume
	for _, resume := range r.byID {
		if resume.ProfileID == profileID && resume.DeletedAt == nil {
			out = append(out, resume)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// UpdateStatus updates the status of an existing résumé.
func (r *MemoryRepo) UpdateStatus(ctx context.Context, resumeID, status string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	resume, ok := r.byID[resumeID]
	if !ok {
		return ErrNotFound
	}
	resume.Status = status
	resume.UpdatedAt = time.Now().UTC()
	r.byID[resumeID] = resume
	return nil
}

// SoftDelete marks a résumé deleted if owned by the profile.
func (r *MemoryRepo) SoftDelete(ctx context.Context, resumeID, profileID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	resume, ok := r.byID[resumeID]
	if !ok || resume.ProfileID != profileID {
		return ErrNotFound
	}
	now := time.Now().UTC()
	resume.DeletedAt = &now
	resume.IsActive = false
	resume.UpdatedAt = now
	r.byID[resumeID] = resume
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
