package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/tlaurent/agendawatch/internal/event"
)

// Record tracks processing state for one event id.
type Record struct {
	ProcessedAt string `json:"processed_at"`
	Notified    bool   `json:"notified"`
	NotifiedAt  string `json:"notified_at,omitempty"`
}

// Store holds processed-event records in memory and persists them as JSON.
type Store struct {
	path    string
	log     *zap.Logger
	records map[string]Record
}

// New creates a store backed by the given file and loads any existing state.
// A missing file yields an empty store; a corrupt file is logged and treated
// as empty so one bad write cannot block future runs.
func New(path string, log *zap.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	s := &Store{
		path:    path,
		log:     log,
		records: make(map[string]Record),
	}
	s.load()
	return s, nil
}

func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("could not read event store, starting empty",
				zap.String("path", s.path), zap.Error(err))
		}
		return
	}

	var records map[string]Record
	if err := json.Unmarshal(data, &records); err != nil {
		s.log.Warn("event store corrupt, starting empty",
			zap.String("path", s.path), zap.Error(err))
		return
	}
	if records != nil {
		s.records = records
	}
}

// Save writes the current records to disk, overwriting the previous state.
func (s *Store) Save() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding event store: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing event store: %w", err)
	}
	return nil
}

// Len reports the number of known event ids.
func (s *Store) Len() int {
	return len(s.records)
}

// IsNew reports whether the event id has never been seen.
func (s *Store) IsNew(id string) bool {
	_, seen := s.records[id]
	return !seen
}

// RecordSeen inserts a fresh record for the id if absent; an existing record
// is left untouched.
func (s *Store) RecordSeen(id string, now time.Time) {
	if _, seen := s.records[id]; seen {
		return
	}
	s.records[id] = Record{
		ProcessedAt: now.Format(event.TimeLayout),
		Notified:    false,
	}
}

// Notified reports whether the id has already been notified about. Unknown
// ids report false.
func (s *Store) Notified(id string) bool {
	return s.records[id].Notified
}

// MarkNotified flips the notified flag for an existing id and stamps the
// delivery time. It reports whether the id was known; an absent id is a
// no-op, not an error.
func (s *Store) MarkNotified(id string, now time.Time) bool {
	rec, seen := s.records[id]
	if !seen {
		return false
	}
	rec.Notified = true
	rec.NotifiedAt = now.Format(event.TimeLayout)
	s.records[id] = rec
	return true
}

// Reset wipes all state, in memory and on disk. Used for a full re-scan.
func (s *Store) Reset() error {
	s.records = make(map[string]Record)
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing event store: %w", err)
	}
	return nil
}
