package store

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pbaille/mindmate/internal/domain"
	"go.uber.org/zap"
)

//go:embed schema.sql
var schema string

// SQLite is a Store backed by a sqlite database. Storage order is the
// autoincrement seq column; the uuid id is internal and never exposed
type SQLite struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

// NewSQLite opens (or creates) the database at path
func NewSQLite(path string, logger *zap.Logger) (*SQLite, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &SQLite{db: db, path: path, logger: logger}, nil
}

// Close closes the database connection
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Load returns all entries ordered by insertion
func (s *SQLite) Load() ([]domain.MoodEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list()
}

// Save replaces every row in one transaction
func (s *SQLite) Save(entries []domain.MoodEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM mood_entries"); err != nil {
			return fmt.Errorf("clear entries: %w", err)
		}
		return insertEntries(tx, entries)
	})
}

// Append inserts entries after the existing ones
func (s *SQLite) Append(entries ...domain.MoodEntry) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int
	err := s.inTx(func(tx *sql.Tx) error {
		if err := insertEntries(tx, entries); err != nil {
			return err
		}
		return tx.QueryRow("SELECT COUNT(*) FROM mood_entries").Scan(&total)
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// DeleteAll removes every row
func (s *SQLite) DeleteAll() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM mood_entries")
	if err != nil {
		return 0, fmt.Errorf("delete all: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete all: %w", err)
	}
	return int(n), nil
}

// DeleteAt removes the entry at position index
func (s *SQLite) DeleteAt(index int) (domain.MoodEntry, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		removed domain.MoodEntry
		total   int
	)
	err := s.inTx(func(tx *sql.Tx) error {
		if err := tx.QueryRow("SELECT COUNT(*) FROM mood_entries").Scan(&total); err != nil {
			return fmt.Errorf("count entries: %w", err)
		}
		if index < 0 || index >= total {
			return fmt.Errorf("delete entry %d of %d: %w", index, total, domain.ErrIndexOutOfRange)
		}

		row := tx.QueryRow(
			"SELECT id, timestamp, emotion_name, intensity, user_input, trigger_names, activity_names FROM mood_entries ORDER BY seq LIMIT 1 OFFSET ?",
			index,
		)
		id, e, err := scanEntry(row)
		if err != nil {
			return err
		}
		if _, err := tx.Exec("DELETE FROM mood_entries WHERE id = ?", id); err != nil {
			return fmt.Errorf("delete entry: %w", err)
		}
		removed = e
		return nil
	})
	if err != nil {
		return domain.MoodEntry{}, 0, err
	}
	return removed, total - 1, nil
}

// DeleteRange removes entries with timestamps in [start, end]. An empty
// bound matches nothing
func (s *SQLite) DeleteRange(start, end string) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed, remaining int
	err := s.inTx(func(tx *sql.Tx) error {
		if start != "" && end != "" {
			res, err := tx.Exec(
				"DELETE FROM mood_entries WHERE timestamp >= ? AND timestamp <= ?",
				start, end,
			)
			if err != nil {
				return fmt.Errorf("delete range: %w", err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("delete range: %w", err)
			}
			removed = int(n)
		}
		if err := tx.QueryRow("SELECT COUNT(*) FROM mood_entries").Scan(&remaining); err != nil {
			return fmt.Errorf("count entries: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return removed, remaining, nil
}

// Stats describes the database contents and file size
func (s *SQLite) Stats() (domain.StoreStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.list()
	if err != nil {
		return domain.StoreStats{}, err
	}
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

func (s *SQLite) list() ([]domain.MoodEntry, error) {
	rows, err := s.db.Query(
		"SELECT id, timestamp, emotion_name, intensity, user_input, trigger_names, activity_names FROM mood_entries ORDER BY seq",
	)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.MoodEntry{}
	for rows.Next() {
		_, e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

func (s *SQLite) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Warn("rollback failed", zap.Error(rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func insertEntries(tx *sql.Tx, entries []domain.MoodEntry) error {
	stmt, err := tx.Prepare(
		"INSERT INTO mood_entries (id, timestamp, emotion_name, intensity, user_input, trigger_names, activity_names) VALUES (?, ?, ?, ?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		triggers, err := json.Marshal(e.TriggerNames)
		if err != nil {
			return fmt.Errorf("marshal triggers: %w", err)
		}
		activities, err := json.Marshal(e.ActivityNames)
		if err != nil {
			return fmt.Errorf("marshal activities: %w", err)
		}
		if _, err := stmt.Exec(
			uuid.New().String(), e.Timestamp, e.EmotionName, e.Intensity, e.UserInput,
			string(triggers), string(activities),
		); err != nil {
			return fmt.Errorf("insert entry: %w", err)
		}
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (string, domain.MoodEntry, error) {
	var (
		id                   string
		e                    domain.MoodEntry
		triggers, activities string
	)
	if err := row.Scan(&id, &e.Timestamp, &e.EmotionName, &e.Intensity, &e.UserInput, &triggers, &activities); err != nil {
		return "", domain.MoodEntry{}, fmt.Errorf("scan entry: %w", err)
	}
	if err := json.Unmarshal([]byte(triggers), &e.TriggerNames); err != nil {
		return "", domain.MoodEntry{}, fmt.Errorf("decode triggers: %w", err)
	}
	if err := json.Unmarshal([]byte(activities), &e.ActivityNames); err != nil {
		return "", domain.MoodEntry{}, fmt.Errorf("decode activities: %w", err)
	}
	return id, e, nil
}
