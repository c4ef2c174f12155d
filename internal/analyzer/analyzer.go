// Package analyzer computes frequency statistics and a coarse intensity
// trend over a snapshot of mood entries. It holds no state and never
// touches storage
package analyzer

import (
	"sort"

	"github.com/pbaille/mindmate/internal/domain"
)

// Trend messages
const (
	TrendNoData   = "Start logging moods to see trends"
	TrendTooFew   = "Keep logging to see patterns emerge"
	TrendHigh     = "Your recent moods show higher intensity - consider self-care activities"
	TrendLow      = "Your mood intensity is lower - you're managing well!"
	TrendBalanced = "Your moods are balanced - keep up the good work!"
)

// NoMostCommon is reported when there is nothing to count
const NoMostCommon = "N/A"

const (
	topN          = 3
	trendWindow   = 3
	highIntensity = 0.7
	lowIntensity  = 0.3
)

// Analyze builds a Report from entries in storage order
func Analyze(entries []domain.MoodEntry) domain.Report {
	if len(entries) == 0 {
		return domain.Report{
			TotalEntries:  0,
			MostCommon:    NoMostCommon,
			Trend:         TrendNoData,
			TopTriggers:   []string{},
			TopActivities: []string{},
		}
	}

	emotions := make([]string, len(entries))
	var triggers, activities []string
	for i, e := range entries {
		emotions[i] = e.EmotionName
		triggers = append(triggers, e.TriggerNames...)
		activities = append(activities, e.ActivityNames...)
	}

	return domain.Report{
		TotalEntries:  len(entries),
		MostCommon:    MostCommon(emotions),
		Trend:         Trend(entries),
		TopTriggers:   TopN(triggers, topN),
		TopActivities: TopN(activities, topN),
	}
}

// MostCommon returns the most frequent value, or "N/A" for no values.
// Ties go to the value seen first
func MostCommon(values []string) string {
	top := TopN(values, 1)
	if len(top) == 0 {
		return NoMostCommon
	}
	return top[0]
}

// TopN returns up to n distinct values ordered by descending count. Equal
// counts keep first-occurrence order. The result is never nil
func TopN(values []string, n int) []string {
	counts := make(map[string]int)
	var order []string
	for _, v := range values {
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > n {
		order = order[:n]
	}
	if order == nil {
		return []string{}
	}
	return order
}

// Trend classifies the mean intensity of the last three entries. Emotion
// labels and triggers play no part
func Trend(entries []domain.MoodEntry) string {
	if len(entries) == 0 {
		return TrendNoData
	}
	if len(entries) < trendWindow {
		return TrendTooFew
	}

	var sum float64
	for _, e := range entries[len(entries)-trendWindow:] {
		sum += e.Intensity
	}
	avg := sum / trendWindow

	switch {
	case avg > highIntensity:
		return TrendHigh
	case avg < lowIntensity:
		return TrendLow
	default:
		return TrendBalanced
	}
}
