package storage

import "context"

// ObjectStore is the narrow blob-storage surface the platform needs. The
// production implementation is S3; tests use MemoryStore.
type ObjectStore interface {
	// Put writes body under bucket/key with optional object metadata.
	Put(ctx context.Context, bucket, key string, body []byte, metadata map[string]string) error

	// Get reads the object at bucket/key. A missing object yields an error
	// satisfying errors.Is(err, domain.ErrNotFound).
	Get(ctx context.Context, bucket, key string) ([]byte, error)

	// Head checks that the object at bucket/key exists without reading it.
	// A missing object yields domain.ErrNotFound like Get.
	Head(ctx context.Context, bucket, key string) error
}
