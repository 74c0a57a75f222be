package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/lexiflow/translation-platform/internal/domain"
)

// FileStore persists the ledger as a flat JSON array at a fixed path.
// Concurrent processes writing the same file race last-writer-wins; that is
// an accepted property of a single-user local tool.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// DefaultPath returns the well-known ledger location under the user's home
// directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".translate-cli", "history.json"), nil
}

// NewFileStore creates a file-backed store at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the ledger. A missing or unreadable file, or one holding
// anything but a record array, yields an empty ledger.
func (s *FileStore) Load() []domain.HistoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	body, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}

	var records []domain.HistoryRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil
	}
	return records
}

// Save writes the full record list, creating the parent directory on first
// use.
func (s *FileStore) Save(records []domain.HistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	body, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, body, 0o600)
}

// MemoryStore is an in-process Store for tests.
type MemoryStore struct {
	mu      sync.Mutex
	records []domain.HistoryRecord

	// SaveErr, when set, fails Save.
	SaveErr error
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns a copy of the stored records.
func (s *MemoryStore) Load() []domain.HistoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.HistoryRecord(nil), s.records...)
}

// Save replaces the stored records.
func (s *MemoryStore) Save(records []domain.HistoryRecord) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append([]domain.HistoryRecord(nil), records...)
	return nil
}
