package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pbaille/mindmate/internal/domain"
	"go.uber.org/zap"
)

// JSONFile is a Store backed by a single indented JSON array on disk.
// Writes go to a temp file in the same directory and are renamed over the
// target, so readers never observe a partial file
type JSONFile struct {
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

// NewJSONFile creates a store for the file at path. The file and its
// directory are created on the first write
func NewJSONFile(path string, logger *zap.Logger) *JSONFile {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JSONFile{path: path, logger: logger}
}

// Path returns the backing file path
func (s *JSONFile) Path() string { return s.path }

// Load reads all entries
func (s *JSONFile) Load() ([]domain.MoodEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(), nil
}

// Save overwrites the file with entries
func (s *JSONFile) Save(entries []domain.MoodEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(entries)
}

// Append adds entries to the end of the log
func (s *JSONFile) Append(entries ...domain.MoodEntry) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := append(s.load(), entries...)
	if err := s.write(all); err != nil {
		return 0, err
	}
	return len(all), nil
}

// DeleteAll empties the log
func (s *JSONFile) DeleteAll() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.load())
	if err := s.write([]domain.MoodEntry{}); err != nil {
		return 0, err
	}
	return n, nil
}

// DeleteAt removes the entry at index
func (s *JSONFile) DeleteAt(index int) (domain.MoodEntry, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.load()
	if index < 0 || index >= len(entries) {
		return domain.MoodEntry{}, 0, fmt.Errorf("delete entry %d of %d: %w", index, len(entries), domain.ErrIndexOutOfRange)
	}
	removed := entries[index]
	entries = append(entries[:index], entries[index+1:]...)
	if err := s.write(entries); err != nil {
		return domain.MoodEntry{}, 0, err
	}
	return removed, len(entries), nil
}

// DeleteRange removes entries with timestamps in [start, end]
func (s *JSONFile) DeleteRange(start, end string) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.load()
	kept := make([]domain.MoodEntry, 0, len(entries))
	for _, e := range entries {
		if !inRange(e.Timestamp, start, end) {
			kept = append(kept, e)
		}
	}
	if err := s.write(kept); err != nil {
		return 0, 0, err
	}
	return len(entries) - len(kept), len(kept), nil
}

// Stats describes the current file
func (s *JSONFile) Stats() (domain.StoreStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.load()
	var (
		exists bool
		size   int64
	)
	if info, err := os.Stat(s.path); err == nil {
		exists = true
		size = info.Size()
	}
	return statsFor(entries, exists, size), nil
}

// Close is a no-op; the file is only open during an operation
func (s *JSONFile) Close() error { return nil }

// load applies the fail-soft policy on top of read
func (s *JSONFile) load() []domain.MoodEntry {
	entries, err := s.read()
	if err != nil {
		s.logger.Warn("treating mood log as empty",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return []domain.MoodEntry{}
	}
	return entries
}

// read returns the stored entries. A missing file is empty; anything else
// that prevents decoding a JSON array is ErrMalformedStore
func (s *JSONFile) read() ([]domain.MoodEntry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []domain.MoodEntry{}, nil
		}
		return nil, fmt.Errorf("read %s: %w: %w", s.path, domain.ErrMalformedStore, err)
	}

	var entries []domain.MoodEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w: %w", s.path, domain.ErrMalformedStore, err)
	}
	if entries == nil {
		// "null" decodes without error
		entries = []domain.MoodEntry{}
	}
	return entries, nil
}

func (s *JSONFile) write(entries []domain.MoodEntry) error {
	if entries == nil {
		entries = []domain.MoodEntry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal entries: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	// CreateTemp uses 0600
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write entries: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("sync entries: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
