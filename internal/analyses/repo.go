package analyses

import "context"

// Repo persists analyses. Append-only: there is no update operation.
type Repo interface {
	Create(ctx context.Context, a Analysis) error
	GetByID(ctx context.Context, id string) (Analysis, error)
	ListByProfile(ctx context.Context, profileID string) ([]Analysis, error)
}
