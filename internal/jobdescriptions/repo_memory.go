package jobdescriptions

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores job descriptions in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]JobDescription
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]JobDescription)}
}

// Create stores the job description.
func (r *MemoryRepo) Create(ctx context.Context, jd JobDescription) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[jd.ID] = jd
	return nil
}

// GetByID returns a job description by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (JobDescription, error) {
	if err := ctx.Err(); err != nil {
		return JobDescription{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	jd, ok := r.byID[id]
	if !ok {
		return JobDescription{}, ErrNotFound
	}
	return jd, nil
}

// ListByProfile returns a profile's job descriptions, newest first.
func (r *MemoryRepo) ListByProfile(ctx context.Context, profileID string) ([]JobDescription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []JobDescription
	for _, jd := range r.byID {
		if jd.ProfileID == profileID {
			out = append(out, jd)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Delete removes a job description if owned by the profile.
func (r *MemoryRepo) Delete(ctx context.Context, id, profileID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	jd, ok := r.byID[id]
	if !ok || jd.ProfileID != profileID {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
