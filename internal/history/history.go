// Package history keeps the client-local, append-only record of submitted
// jobs. The ledger is advisory state: it is capped, unsynchronized across
// processes, and a corrupt file simply reads back empty.
package history

import (
	"strings"

	"github.com/lexiflow/translation-platform/internal/domain"
)

// Cap is the maximum number of records the ledger retains. Appending past
// the cap evicts the oldest records first.
const Cap = 100

// Store persists the raw record list. Implementations: FileStore for the
// real ledger, MemoryStore for tests.
type Store interface {
	// Load returns all records, oldest first. Missing or corrupt state
	// yields an empty list, never an error.
	Load() []domain.HistoryRecord

	// Save replaces the stored records.
	Save(records []domain.HistoryRecord) error
}

// Ledger is the capped job history.
type Ledger struct {
	store Store
	cap   int
}

// New creates a Ledger over the given store.
func New(store Store) *Ledger {
	return &Ledger{store: store, cap: Cap}
}

// Append adds one record, evicting the oldest entries beyond the cap.
func (l *Ledger) Append(record domain.HistoryRecord) error {
	records := append(l.store.Load(), record)
	if len(records) > l.cap {
		records = records[len(records)-l.cap:]
	}
	return l.store.Save(records)
}

// Find returns the most recent record whose translation id starts with
// prefix.
func (l *Ledger) Find(prefix string) (domain.HistoryRecord, bool) {
	if prefix == "" {
		return domain.HistoryRecord{}, false
	}
	records := l.store.Load()
	for i := len(records) - 1; i >= 0; i-- {
		if strings.HasPrefix(records[i].TranslationID, prefix) {
			return records[i], true
		}
	}
	return domain.HistoryRecord{}, false
}

// List returns up to limit records, most recent first. A non-positive limit
// returns everything.
func (l *Ledger) List(limit int) []domain.HistoryRecord {
	records := l.store.Load()
	if limit <= 0 || limit > len(records) {
		limit = len(records)
	}

	out := make([]domain.HistoryRecord, 0, limit)
	for i := len(records) - 1; i >= len(records)-limit; i-- {
		out = append(out, records[i])
	}
	return out
}

// Len reports the current number of records.
func (l *Ledger) Len() int {
	return len(l.store.Load())
}
