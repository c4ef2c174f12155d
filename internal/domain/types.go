package domain

import "time"

// TimestampLayout is the ISO-8601 form used for entry timestamps. It has no
// zone suffix and fixed-width fields, so string order equals time order
const TimestampLayout = "2006-01-02T15:04:05.000000"

// FormatTimestamp renders t in TimestampLayout
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// MoodEntry is one journal record. It has no identifier of its own; callers
// address it by its position in the store
type MoodEntry struct {
	Timestamp     string   `json:"timestamp"`
	EmotionName   string   `json:"emotion_name"`
	Intensity     float64  `json:"intensity"`
	UserInput     string   `json:"user_input"`
	TriggerNames  []string `json:"trigger_names"`
	ActivityNames []string `json:"activity_names"`
}

// Suggestion is a canned self-care prompt
type Suggestion struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Type    string `json:"type"`
}

// Report summarizes a snapshot of entries
type Report struct {
	TotalEntries  int      `json:"total_entries"`
	MostCommon    string   `json:"most_common"`
	Trend         string   `json:"trend"`
	TopTriggers   []string `json:"top_triggers"`
	TopActivities []string `json:"top_activities"`
}

// StoreStats describes the backing store as of a fresh load.
// FirstEntry and LastEntry follow storage order, not sorted time
type StoreStats struct {
	TotalEntries int     `json:"total_entries"`
	FirstEntry   *string `json:"first_entry"`
	LastEntry    *string `json:"last_entry"`
	FileExists   bool    `json:"file_exists"`
	SizeBytes    int64   `json:"size_bytes"`
	FileSizeKB   float64 `json:"file_size_kb"`
}
