package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pbaille/mindmate/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time checks
var (
	_ Store = (*JSONFile)(nil)
	_ Store = (*SQLite)(nil)
)

func sampleEntries() []domain.MoodEntry {
	return []domain.MoodEntry{
		{
			Timestamp:     "2025-03-01T09:00:00.000000",
			EmotionName:   "anxious",
			Intensity:     0.8,
			UserInput:     "big meeting",
			TriggerNames:  []string{"work", "deadline"},
			ActivityNames: []string{"breathing"},
		},
		{
			Timestamp:     "2025-03-02T09:00:00.000000",
			EmotionName:   "calm",
			Intensity:     0.2,
			TriggerNames:  []string{},
			ActivityNames: []string{"walk"},
		},
		{
			Timestamp:     "2025-03-03T09:00:00.000000",
			EmotionName:   "whimsical",
			Intensity:     1.7,
			TriggerNames:  []string{"weather"},
			ActivityNames: []string{},
		},
	}
}

func newTestJSON(t *testing.T) *JSONFile {
	t.Helper()
	return NewJSONFile(filepath.Join(t.TempDir(), "mood_logs.json"), nil)
}

func TestJSONFile_RoundTrip(t *testing.T) {
	s := newTestJSON(t)
	want := sampleEntries()

	require.NoError(t, s.Save(want))
	got, err := s.Load()
	require.NoError(t, err)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONFile_LayoutIsIndentedArray(t *testing.T) {
	s := newTestJSON(t)
	require.NoError(t, s.Save(sampleEntries()[:1]))

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "[\n  {"), "expected indented array, got %q", data[:10])

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	for _, key := range []string{"timestamp", "emotion_name", "intensity", "user_input", "trigger_names", "activity_names"} {
		assert.Contains(t, raw[0], key)
	}
}

func TestJSONFile_LoadMissingFile(t *testing.T) {
	s := newTestJSON(t)
	got, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestJSONFile_LoadCorruptFileIsEmpty(t *testing.T) {
	for name, content := range map[string]string{
		"garbage":    "{{{ not json",
		"object":     `{"timestamp": "x"}`,
		"empty file": "",
		"truncated":  `[{"timestamp": "2025-01-01T00:00:00.000000"`,
	} {
		t.Run(name, func(t *testing.T) {
			s := newTestJSON(t)
			require.NoError(t, os.WriteFile(s.Path(), []byte(content), 0644))

			_, err := s.read()
			assert.ErrorIs(t, err, domain.ErrMalformedStore)

			got, err := s.Load()
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestJSONFile_LoadNullIsEmpty(t *testing.T) {
	s := newTestJSON(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("null"), 0644))

	got, err := s.read()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestJSONFile_Append(t *testing.T) {
	s := newTestJSON(t)
	entries := sampleEntries()
	require.NoError(t, s.Save(entries[:2]))

	total, err := s.Append(entries[2])
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	got, err := s.Load()
	require.NoError(t, err)
	require.Len(t, got, 3)
	if diff := cmp.Diff(entries[2], got[2]); diff != "" {
		t.Errorf("last entry mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONFile_AppendCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "mood_logs.json")
	s := NewJSONFile(path, nil)

	total, err := s.Append(sampleEntries()[0])
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.FileExists(t, path)
}

func TestJSONFile_AppendOverCorruptFileStartsFresh(t *testing.T) {
	s := newTestJSON(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("oops"), 0644))

	total, err := s.Append(sampleEntries()[0])
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestJSONFile_DeleteAll(t *testing.T) {
	s := newTestJSON(t)
	require.NoError(t, s.Save(sampleEntries()))
	n, err := s.DeleteAll()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	got, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, got)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestJSONFile_DeleteAt(t *testing.T) {
	s := newTestJSON(t)
	entries := sampleEntries()
	require.NoError(t, s.Save(entries))

	removed, remaining, err := s.DeleteAt(1)
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)
	if diff := cmp.Diff(entries[1], removed); diff != "" {
		t.Errorf("removed entry mismatch (-want +got):\n%s", diff)
	}

	got, err := s.Load()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, entries[0].Timestamp, got[0].Timestamp)
	assert.Equal(t, entries[2].Timestamp, got[1].Timestamp)
}

func TestJSONFile_DeleteAtOutOfRange(t *testing.T) {
	s := newTestJSON(t)
	require.NoError(t, s.Save(sampleEntries()))
	before, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	for _, idx := range []int{-1, 3, 100} {
		_, _, err := s.DeleteAt(idx)
		assert.ErrorIs(t, err, domain.ErrIndexOutOfRange, "index %d", idx)
	}

	after, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after, "failed delete must not touch the file")
}

func TestJSONFile_DeleteAtEmptyStore(t *testing.T) {
	s := newTestJSON(t)
	_, _, err := s.DeleteAt(0)
	assert.ErrorIs(t, err, domain.ErrIndexOutOfRange)
}

func TestJSONFile_DeleteRange(t *testing.T) {
	s := newTestJSON(t)
	entries := sampleEntries()
	require.NoError(t, s.Save(entries))

	n, remaining, err := s.DeleteRange(entries[0].Timestamp, entries[1].Timestamp)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, remaining)

	got, err := s.Load()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, entries[2].Timestamp, got[0].Timestamp)
}

func TestJSONFile_DeleteRangeDatePrefixes(t *testing.T) {
	s := newTestJSON(t)
	require.NoError(t, s.Save(sampleEntries()))

	// A bare date sorts before any timestamp on that day
	n, _, err := s.DeleteRange("2025-03-02", "2025-03-04")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestJSONFile_DeleteRangeMissingBound(t *testing.T) {
	s := newTestJSON(t)
	require.NoError(t, s.Save(sampleEntries()))

	n, remaining, err := s.DeleteRange("", "2099-01-01")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 3, remaining)

	got, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestJSONFile_Stats(t *testing.T) {
	s := newTestJSON(t)

	st, err := s.Stats()
	require.NoError(t, err)
	assert.Zero(t, st.TotalEntries)
	assert.Nil(t, st.FirstEntry)
	assert.Nil(t, st.LastEntry)
	assert.False(t, st.FileExists)

	entries := sampleEntries()
	require.NoError(t, s.Save(entries))

	st, err = s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 3, st.TotalEntries)
	require.NotNil(t, st.FirstEntry)
	require.NotNil(t, st.LastEntry)
	assert.Equal(t, entries[0].Timestamp, *st.FirstEntry)
	assert.Equal(t, entries[2].Timestamp, *st.LastEntry)
	assert.True(t, st.FileExists)

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, info.Size(), st.SizeBytes)
	assert.InDelta(t, float64(info.Size())/1024, st.FileSizeKB, 1e-9)
}

func TestJSONFile_StatsUsesStorageOrder(t *testing.T) {
	s := newTestJSON(t)
	entries := sampleEntries()
	entries[0], entries[2] = entries[2], entries[0]
	require.NoError(t, s.Save(entries))

	st, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, "2025-03-03T09:00:00.000000", *st.FirstEntry)
	assert.Equal(t, "2025-03-01T09:00:00.000000", *st.LastEntry)
}

func TestJSONFile_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewJSONFile(filepath.Join(dir, "mood_logs.json"), nil)
	require.NoError(t, s.Save(sampleEntries()))
	require.NoError(t, s.Save(sampleEntries()[:1]))

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "mood_logs.json", files[0].Name())
}

func TestJSONFile_ConcurrentAppendsAreSerialized(t *testing.T) {
	s := newTestJSON(t)
	const n = 20

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Append(domain.MoodEntry{Timestamp: "2025-01-01T00:00:00.000000", EmotionName: "happy"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.Load()
	require.NoError(t, err)
	assert.Len(t, got, n)
}
