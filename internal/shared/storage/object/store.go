package object

import (
	"context"
	"io"
	"time"
)

// ObjectStore defines the contract for uploading and retrieving binary objects.
// Keys follow the {storageKey}/{resumeId}/{fileName} convention and are built
// by the upload slot service, never by the store.
type ObjectStore interface {
	// Download opens a stored object and reports its content type.
	Download(ctx context.Context, key string) (io.ReadCloser, string, error)
	// Put writes an object at the exact key.
	Put(ctx context.Context, key string, contentType string, r io.Reader) (int64, error)
	// PresignPut returns a short-lived URL granting a write to exactly one key.
	PresignPut(ctx context.Context, key string, expires time.Duration) (string, error)
}
