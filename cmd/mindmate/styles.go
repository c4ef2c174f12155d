package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pbaille/mindmate/internal/domain"
)

var (
	heading  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	emphasis = lipgloss.NewStyle().Bold(true)
	label    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Width(16)
	kind     = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
)

func printField(name, value string) {
	fmt.Println(label.Render(name+":") + value)
}

func printSuggestions(suggestions []domain.Suggestion) {
	fmt.Println(heading.Render("Suggestions"))
	for _, s := range suggestions {
		fmt.Printf("  %s %s\n", emphasis.Render(s.Title), kind.Render("["+s.Type+"]"))
		fmt.Printf("    %s\n", s.Content)
	}
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
