package storage

import "context"

// Namespace prefixes for stored avatar blobs.
const (
	NamespaceOriginals = "originals"
	NamespaceGenerated = "generated"
)

// BlobStore persists binary artifacts and addresses them by durable URL. The
// generation workflow only ever talks to this interface; production uses the
// S3 client, development and tests use the filesystem store.
type BlobStore interface {
	Upload(ctx context.Context, data []byte, key, contentType string) (string, error)
	Delete(ctx context.Context, url string) error
}
