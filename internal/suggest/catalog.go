// Package suggest holds the fixed self-care suggestions for each emotion
package suggest

import "github.com/pbaille/mindmate/internal/domain"

// Fallback is the emotion whose suggestions are returned for unknown labels
const Fallback = "anxious"

var emotions = []string{"anxious", "happy", "sad", "stressed", "calm", "angry", "excited", "tired"}

var catalog = map[string][]domain.Suggestion{
	"anxious": {
		{Title: "Box Breathing", Content: "Breathe in for 4 seconds, hold for 4, out for 4, hold for 4. Repeat 5 times.", Type: "breathing"},
		{Title: "Progressive Muscle Relaxation", Content: "Tense and release each muscle group, starting from your toes.", Type: "exercise"},
	},
	"happy": {
		{Title: "Gratitude Journal", Content: "Write down 3 things you're grateful for today.", Type: "journaling"},
		{Title: "Share Your Joy", Content: "Call a friend or family member and share what made you happy.", Type: "social"},
	},
	"sad": {
		{Title: "Self-Compassion Break", Content: "Place your hand on your heart. Say: 'This is a moment of suffering. Suffering is part of life. May I be kind to myself.'", Type: "affirmation"},
		{Title: "Gentle Movement", Content: "Take a short walk outside or do some light stretching.", Type: "exercise"},
	},
	"stressed": {
		{Title: "5-4-3-2-1 Grounding", Content: "Name 5 things you see, 4 you can touch, 3 you hear, 2 you smell, 1 you taste.", Type: "mindfulness"},
		{Title: "Time Management", Content: "Write down your top 3 priorities for today. Focus on one at a time.", Type: "organization"},
	},
	"calm": {
		{Title: "Mindful Meditation", Content: "Sit quietly for 5 minutes, focusing on your breath.", Type: "meditation"},
		{Title: "Creative Expression", Content: "Draw, write, or engage in any creative activity you enjoy.", Type: "creative"},
	},
	"angry": {
		{Title: "Physical Release", Content: "Go for a brisk walk or do some physical exercise to release tension.", Type: "exercise"},
		{Title: "Cooling Breath", Content: "Take deep breaths and count to 10 slowly before responding.", Type: "breathing"},
	},
	"excited": {
		{Title: "Channel Your Energy", Content: "Use this positive energy to tackle a task you've been putting off.", Type: "productivity"},
		{Title: "Celebrate Mindfully", Content: "Take a moment to savor this feeling and appreciate what led to it.", Type: "mindfulness"},
	},
	"tired": {
		{Title: "Power Nap", Content: "Take a 15-20 minute nap to recharge your energy.", Type: "rest"},
		{Title: "Gentle Stretching", Content: "Do some light stretches to wake up your body.", Type: "exercise"},
	},
}

// For returns the suggestions for emotion, matched exactly. Unknown labels
// get the Fallback list. The returned slice is a copy
func For(emotion string) []domain.Suggestion {
	list, ok := catalog[emotion]
	if !ok {
		list = catalog[Fallback]
	}
	out := make([]domain.Suggestion, len(list))
	copy(out, list)
	return out
}

// Known reports whether emotion has its own entry
func Known(emotion string) bool {
	_, ok := catalog[emotion]
	return ok
}

// Emotions lists the known labels in vocabulary order
func Emotions() []string {
	out := make([]string, len(emotions))
	copy(out, emotions)
	return out
}
