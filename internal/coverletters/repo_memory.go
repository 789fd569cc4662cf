package coverletters

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores cover letters in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]CoverLetter
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]CoverLetter)}
}

// Create stores the cover letter.
func (r *MemoryRepo) Create(ctx context.Context, letter CoverLetter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[letter.ID] = letter
	return nil
}

// GetByID returns a cover letter by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, id string) (CoverLetter, error) {
	if err := ctx.Err(); err != nil {
		return CoverLetter{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	letter, ok := r.byID[id]
	if !ok {
		return CoverLetter{}, ErrNotFound
	}
	return letter, nil
}

// ListByProfile returns a profile's cover letters, newest first.
func (r *MemoryRepo) ListByProfile(ctx context.Context, profileID string) ([]CoverLetter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []CoverLetter
	for _, letter := range r.byID {
		if letter.ProfileID == profileID {
			out = append(out, letter)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Delete removes a cover letter if owned by the profile.
func (r *MemoryRepo) Delete(ctx context.Context, id, profileID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	letter, ok := r.byID[id]
	if !ok || letter.ProfileID != profileID {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
