package coverletters

import "context"

// Repo persists cover letters.
type Repo interface {
	Create(ctx context.Context, letter CoverLetter) error
	GetByID(ctx context.Context, id string) (CoverLetter, error)
	ListByProfile(ctx context.Context, profileID string) ([]CoverLetter, error)
	Delete(ctx context.Context, id, profileID string) error
}
