// Package journal implements the mood journal operations on top of a
// store. It is transport-agnostic: the HTTP API and the CLI both call it
package journal

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pbaille/mindmate/internal/analyzer"
	"github.com/pbaille/mindmate/internal/domain"
	"github.com/pbaille/mindmate/internal/metrics"
	"github.com/pbaille/mindmate/internal/store"
	"github.com/pbaille/mindmate/internal/suggest"
	"go.uber.org/zap"
)

// Defaults applied when a request leaves a field out
const (
	DefaultLogEmotion       = "happy"
	DefaultLogIntensity     = 0.5
	DefaultSuggestEmotion   = "anxious"
	DefaultSuggestIntensity = 0.7
)

// Service runs journal operations
type Service struct {
	store   store.Store
	metrics *metrics.Collector
	logger  *zap.Logger
	now     func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a Service. collector and logger may be nil
func New(st store.Store, collector *metrics.Collector, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		store:   st,
		metrics: collector,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LogRequest describes a new entry. Nil fields take the defaults
type LogRequest struct {
	EmotionName   *string  `json:"emotion_name"`
	Intensity     *float64 `json:"intensity"`
	UserInput     string   `json:"user_input"`
	TriggerNames  []string `json:"trigger_names"`
	ActivityNames []string `json:"activity_names"`
}

// LogResult is returned by LogMood
type LogResult struct {
	Entry       domain.MoodEntry    `json:"entry"`
	Total       int                 `json:"total_logs"`
	Suggestions []domain.Suggestion `json:"suggestions"`
}

// LogMood stamps and appends a new entry, then returns the suggestions
// for its emotion
func (s *Service) LogMood(req LogRequest) (LogResult, error) {
	entry := domain.MoodEntry{
		Timestamp:     domain.FormatTimestamp(s.now()),
		EmotionName:   DefaultLogEmotion,
		Intensity:     DefaultLogIntensity,
		UserInput:     req.UserInput,
		TriggerNames:  nonNil(req.TriggerNames),
		ActivityNames: nonNil(req.ActivityNames),
	}
	if req.EmotionName != nil {
		entry.EmotionName = *req.EmotionName
	}
	if req.Intensity != nil {
		entry.Intensity = *req.Intensity
	}

	total, err := s.store.Append(entry)
	if err != nil {
		return LogResult{}, fmt.Errorf("log mood: %w", err)
	}

	if s.metrics != nil {
		s.metrics.EntriesLogged.Inc()
		s.metrics.StoreEntries.Set(float64(total))
	}
	s.logger.Debug("mood logged",
		zap.String("emotion", entry.EmotionName),
		zap.Float64("intensity", entry.Intensity),
		zap.Int("total", total),
	)

	return LogResult{
		Entry:       entry,
		Total:       total,
		Suggestions: suggest.For(entry.EmotionName),
	}, nil
}

// Analyze reports on the whole history
func (s *Service) Analyze() (domain.Report, error) {
	entries, err := s.store.Load()
	if err != nil {
		return domain.Report{}, fmt.Errorf("analyze: %w", err)
	}
	return analyzer.Analyze(entries), nil
}

// SuggestResult is returned by Suggestions
type SuggestResult struct {
	Emotion     string              `json:"emotion"`
	Intensity   float64             `json:"intensity"`
	Suggestions []domain.Suggestion `json:"suggestions"`
}

// Suggestions looks up suggestions for emotion. Intensity is echoed back
// but does not affect the selection
func (s *Service) Suggestions(emotion *string, intensity *float64) SuggestResult {
	res := SuggestResult{Emotion: DefaultSuggestEmotion, Intensity: DefaultSuggestIntensity}
	if emotion != nil {
		res.Emotion = *emotion
	}
	if intensity != nil {
		res.Intensity = *intensity
	}
	if !suggest.Known(res.Emotion) {
		s.logger.Debug("no suggestions for emotion, using fallback",
			zap.String("emotion", res.Emotion),
			zap.String("fallback", suggest.Fallback),
		)
	}
	res.Suggestions = suggest.For(res.Emotion)
	return res
}

// Export is a full copy of the store
type Export struct {
	Data         []domain.MoodEntry `json:"data"`
	TotalEntries int                `json:"total_entries"`
	ExportDate   string             `json:"export_date"`
}

// Export returns every entry with the export time
func (s *Service) Export() (Export, error) {
	entries, err := s.store.Load()
	if err != nil {
		return Export{}, fmt.Errorf("export: %w", err)
	}
	return Export{
		Data:         entries,
		TotalEntries: len(entries),
		ExportDate:   domain.FormatTimestamp(s.now()),
	}, nil
}

// MutationResult reports the outcome of an import or delete
type MutationResult struct {
	Message          string `json:"message"`
	TotalEntries     int    `json:"total_entries"`
	DeletedTimestamp string `json:"deleted_timestamp,omitempty"` // DeleteAt only
	DeletedCount     int    `json:"deleted_count,omitempty"`
}

// DecodeEntries parses an import payload. The payload must be a JSON array;
// a missing payload (nil or "null") is an empty import
func DecodeEntries(raw json.RawMessage) ([]domain.MoodEntry, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []domain.MoodEntry{}, nil
	}
	var entries []domain.MoodEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: expected a list of mood entries", domain.ErrInvalidInput)
	}
	return entries, nil
}

// Import replaces the store with entries, or appends them when replace is false
func (s *Service) Import(entries []domain.MoodEntry, replace bool) (MutationResult, error) {
	if entries == nil {
		entries = []domain.MoodEntry{}
	}

	var res MutationResult
	if replace {
		if err := s.store.Save(entries); err != nil {
			return MutationResult{}, fmt.Errorf("import: %w", err)
		}
		res = MutationResult{
			Message:      fmt.Sprintf("Replaced all data with %d imported entries", len(entries)),
			TotalEntries: len(entries),
		}
	} else {
		total, err := s.store.Append(entries...)
		if err != nil {
			return MutationResult{}, fmt.Errorf("import: %w", err)
		}
		res = MutationResult{
			Message:      fmt.Sprintf("Added %d entries to existing %d entries", len(entries), total-len(entries)),
			TotalEntries: total,
		}
	}

	if s.metrics != nil {
		s.metrics.EntriesImported.Add(float64(len(entries)))
		s.metrics.StoreEntries.Set(float64(res.TotalEntries))
	}
	s.logger.Info("entries imported",
		zap.Int("count", len(entries)),
		zap.Bool("replace", replace),
		zap.Int("total", res.TotalEntries),
	)
	return res, nil
}

// DeleteAll empties the store
func (s *Service) DeleteAll() (MutationResult, error) {
	n, err := s.store.DeleteAll()
	if err != nil {
		return MutationResult{}, fmt.Errorf("delete all: %w", err)
	}
	s.recordDelete(n, 0)
	return MutationResult{Message: "All mood entries deleted", TotalEntries: 0, DeletedCount: n}, nil
}

// DeleteAt removes the entry at index. Indexes are positions in the
// current store, so concurrent writers can shift them
func (s *Service) DeleteAt(index int) (MutationResult, error) {
	removed, remaining, err := s.store.DeleteAt(index)
	if err != nil {
		return MutationResult{}, err
	}
	s.recordDelete(1, remaining)

	ts := removed.Timestamp
	if ts == "" {
		ts = "unknown time"
	}
	return MutationResult{
		Message:          fmt.Sprintf("Deleted entry from %s", ts),
		TotalEntries:     remaining,
		DeletedTimestamp: removed.Timestamp,
	}, nil
}

// DeleteRange removes entries with timestamps in [start, end]. If either
// bound is empty nothing is removed
func (s *Service) DeleteRange(start, end string) (MutationResult, error) {
	n, remaining, err := s.store.DeleteRange(start, end)
	if err != nil {
		return MutationResult{}, fmt.Errorf("delete range: %w", err)
	}
	s.recordDelete(n, remaining)
	return MutationResult{
		Message:      fmt.Sprintf("Deleted %d entries", n),
		TotalEntries: remaining,
		DeletedCount: n,
	}, nil
}

// Stats describes the store
func (s *Service) Stats() (domain.StoreStats, error) {
	st, err := s.store.Stats()
	if err != nil {
		return domain.StoreStats{}, fmt.Errorf("stats: %w", err)
	}
	return st, nil
}

func (s *Service) recordDelete(removed, total int) {
	if s.metrics != nil {
		s.metrics.EntriesDeleted.Add(float64(removed))
		s.metrics.StoreEntries.Set(float64(total))
	}
	s.logger.Info("entries deleted", zap.Int("removed", removed), zap.Int("total", total))
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
