package jobdescriptions

import "context"

// Repo persists job descriptions.
type Repo interface {
	Create(ctx context.Context, jd JobDescription) error
	GetByID(ctx context.Context, id string) (JobDescription, error)
	ListByProfile(ctx context.Context, profileID string) ([]JobDescription, error)
	Delete(ctx context.Context, id, profileID string) error
}
