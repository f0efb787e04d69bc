package cli

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/custodia-labs/threadlight/internal/core/domain"
)

// Theme defines the colour palette for terminal output.
type Theme struct {
	Primary lipgloss.Color
	Code    lipgloss.Color
	Phone   lipgloss.Color
	Mention lipgloss.Color
	Muted   lipgloss.Color
	Warning lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary: lipgloss.Color("#7C3AED"), // Purple
		Code:    lipgloss.Color("#A6E3A1"), // Green
		Phone:   lipgloss.Color("#06B6D4"), // Cyan
		Mention: lipgloss.Color("#F9E2AF"), // Yellow
		Muted:   lipgloss.Color("#6C7086"), // Medium gray
		Warning: lipgloss.Color("#F38BA8"), // Red
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	Title   lipgloss.Style
	Muted   lipgloss.Style
	Warning lipgloss.Style

	kinds map[domain.HighlightKind]lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),

		kinds: map[domain.HighlightKind]lipgloss.Style{
			domain.HighlightCode: lipgloss.NewStyle().
				Bold(true).
				Foreground(theme.Code),
			domain.HighlightPhoneNumber: lipgloss.NewStyle().
				Underline(true).
				Foreground(theme.Phone),
			domain.HighlightMention: lipgloss.NewStyle().
				Bold(true).
				Foreground(theme.Mention),
		},
	}
}

// Highlight returns the style for a highlight kind.
func (s *Styles) Highlight(kind domain.HighlightKind) lipgloss.Style {
	if st, ok := s.kinds[kind]; ok {
		return st
	}
	return lipgloss.NewStyle()
}

// isTerminal reports whether stdout is an interactive terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
