package main

import (
	"errors"
	"testing"

	"github.com/pbaille/mindmate/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeImportFile(t *testing.T) {
	t.Run("bare array", func(t *testing.T) {
		entries, err := decodeImportFile([]byte(`[{"timestamp":"2025-03-01T09:00:00.000000","emotion_name":"calm","intensity":0.4}]`))
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "calm", entries[0].EmotionName)
	})

	t.Run("export envelope", func(t *testing.T) {
		raw := `{"status":"success","data":[{"emotion_name":"sad","intensity":0.8},{"emotion_name":"happy","intensity":0.2}],"total_entries":2}`
		entries, err := decodeImportFile([]byte(raw))
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "happy", entries[1].EmotionName)
	})

	t.Run("not a list", func(t *testing.T) {
		_, err := decodeImportFile([]byte(`"nope"`))
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	})

	t.Run("broken envelope", func(t *testing.T) {
		_, err := decodeImportFile([]byte(`{"data": [`))
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	})
}

func TestDeleteRequiresOneMode(t *testing.T) {
	dir := t.TempDir()

	for _, args := range [][]string{
		{"delete"},
		{"delete", "--all", "--index", "0"},
		{"delete", "--index", "1", "--from", "2025-01-01"},
	} {
		root := rootCmd()
		root.SetArgs(append(args, "--config", dir+"/none.yaml", "--data", dir+"/mood_logs.json"))
		err := root.Execute()
		assert.ErrorContains(t, err, "choose exactly one", "args %v", args)
	}
}

func TestLogThenStats(t *testing.T) {
	dir := t.TempDir()
	common := []string{"--config", dir + "/none.yaml", "--data", dir + "/mood_logs.json"}

	root := rootCmd()
	root.SetArgs(append([]string{"log", "sad", "--intensity", "0.9", "--trigger", "work"}, common...))
	require.NoError(t, root.Execute())

	s, err := getStore()
	require.NoError(t, err)
	defer s.Close()

	entries, err := s.Load()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "sad", entries[0].EmotionName)
	assert.Equal(t, 0.9, entries[0].Intensity)
	assert.Equal(t, []string{"work"}, entries[0].TriggerNames)
}

func TestFlagOverridesBadEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MINDMATE_STORAGE_DRIVER", "bogus")
	common := []string{"--config", dir + "/none.yaml", "--data", dir + "/mood_logs.json"}

	root := rootCmd()
	root.SetArgs(append([]string{"stats"}, common...))
	assert.ErrorContains(t, root.Execute(), "bogus")

	root = rootCmd()
	root.SetArgs(append([]string{"stats", "--driver", "json"}, common...))
	require.NoError(t, root.Execute())
	assert.Equal(t, "json", cfg.Storage.Driver)
}
