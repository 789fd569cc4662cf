package content

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo stores résumé content in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu         sync.RWMutex
	byResumeID map[string]ResumeContent
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byResumeID: make(map[string]ResumeContent)}
}

// Upsert creates or replaces the content row for a résumé.
func (r *MemoryRepo) Upsert(ctx context.Context, c ResumeContent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	if existing, ok := r.byResumeID[c.ResumeID]; ok {
		c.ID = existing.ID
		c.CreatedAt = existing.CreatedAt
	} else if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	r.byResumeID[c.ResumeID] = c
	return nil
}

// GetByResumeID returns the content row for a résumé.
func (r *MemoryRepo) GetByResumeID(ctx context.Context, resumeID string) (ResumeContent, error) {
	if err := ctx.Err(); err != nil {
		return ResumeContent{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byResumeID[resumeID]
	if !ok {
		return ResumeContent{}, ErrNotFound
	}
	return c, nil
}

// ExistsByResumeID reports whether a content row exists for a résumé.
func (r *MemoryRepo) ExistsByResumeID(ctx context.Context, resumeID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byResumeID[resumeID]
	return ok, nil
}

// Count returns the number of stored content rows. Test helper.
func (r *MemoryRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byResumeID)
}

var _ Repo = (*MemoryRepo)(nil)
