package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/lexiflow/translation-platform/internal/domain"
)

// MemoryStore is an in-process ObjectStore for tests.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte

	// PutErr and GetErr, when set, fail the corresponding operation.
	PutErr error
	GetErr error
}

// NewMemory creates an empty MemoryStore.
func NewMemory() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func objectKey(bucket, key string) string {
	return bucket + "/" + key
}

// Put stores a copy of body under bucket/key.
func (m *MemoryStore) Put(ctx context.Context, bucket, key string, body []byte, metadata map[string]string) error {
	if m.PutErr != nil {
		return m.PutErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[objectKey(bucket, key)] = append([]byte(nil), body...)
	return nil
}

// Get returns a copy of the stored object, or domain.ErrNotFound.
func (m *MemoryStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	body, ok := m.objects[objectKey(bucket, key)]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", bucket, key, domain.ErrNotFound)
	}
	return append([]byte(nil), body...), nil
}

// Head reports object existence.
func (m *MemoryStore) Head(ctx context.Context, bucket, key string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.objects[objectKey(bucket, key)]; !ok {
		return fmt.Errorf("%s/%s: %w", bucket, key, domain.ErrNotFound)
	}
	return nil
}

// Len reports how many objects are stored.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
