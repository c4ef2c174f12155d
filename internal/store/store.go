// Package store persists mood entries as one ordered collection. Every
// operation reads the whole collection, mutates it in memory and writes it
// back; there is no cache between calls
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pbaille/mindmate/internal/config"
	"github.com/pbaille/mindmate/internal/domain"
	"go.uber.org/zap"
)

// Store is the durable entry log. Entries are addressed by position only.
// Each Store serializes its own operations; separate processes sharing a
// backing file still race with last-write-wins
type Store interface {
	// Load returns every entry in storage order. A missing or malformed
	// backing file reads as empty
	Load() ([]domain.MoodEntry, error)
	// Save replaces the whole collection
	Save(entries []domain.MoodEntry) error
	// Append adds entries at the end and returns the new total
	Append(entries ...domain.MoodEntry) (int, error)
	// DeleteAll empties storage and returns how many entries were removed
	DeleteAll() (int, error)
	// DeleteAt removes the entry at index and returns it together with the
	// number of entries left
	DeleteAt(index int) (domain.MoodEntry, int, error)
	// DeleteRange removes entries whose timestamp is within [start, end],
	// compared as strings. It returns how many were removed and how many
	// are left
	DeleteRange(start, end string) (removed, remaining int, err error)
	Stats() (domain.StoreStats, error)
	Close() error
}

// Open creates the store selected by cfg.Driver
func Open(cfg config.Storage, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Driver {
	case config.DriverJSON, "":
		return NewJSONFile(cfg.Path, logger), nil
	case config.DriverSQLite:
		if err := ensureDir(cfg.Path); err != nil {
			return nil, err
		}
		return NewSQLite(cfg.Path, logger)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	return nil
}

// inRange reports whether ts lies in [start, end]. Empty bounds match nothing
func inRange(ts, start, end string) bool {
	if start == "" || end == "" {
		return false
	}
	return start <= ts && ts <= end
}

func statsFor(entries []domain.MoodEntry, exists bool, size int64) domain.StoreStats {
	st := domain.StoreStats{
		TotalEntries: len(entries),
		FileExists:   exists,
		SizeBytes:    size,
		FileSizeKB:   float64(size) / 1024,
	}
	if len(entries) > 0 {
		first := entries[0].Timestamp
		last := entries[len(entries)-1].Timestamp
		st.FirstEntry = &first
		st.LastEntry = &last
	}
	return st
}
