package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/cerval-labs/cerval-cli/internal/core/domain"
)

// Theme defines the colour palette for the review UI.
type Theme struct {
	// Primary is the main accent colour.
	Primary lipgloss.Color

	// Foreground is the default text colour.
	Foreground lipgloss.Color

	// Muted is for less important text.
	Muted lipgloss.Color

	// Success indicates positive outcomes.
	Success lipgloss.Color

	// Warning indicates caution.
	Warning lipgloss.Color

	// Error indicates problems.
	Error lipgloss.Color

	// Info is for advisory findings.
	Info lipgloss.Color

	// Border is the border colour.
	Border lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#7C3AED"), // Purple
		Foreground: lipgloss.Color("#CDD6F4"), // Light gray
		Muted:      lipgloss.Color("#6C7086"), // Medium gray
		Success:    lipgloss.Color("#A6E3A1"), // Green
		Warning:    lipgloss.Color("#F9E2AF"), // Yellow
		Error:      lipgloss.Color("#F38BA8"), // Red
		Info:       lipgloss.Color("#06B6D4"), // Cyan
		Border:     lipgloss.Color("#45475A"), // Border gray
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	// Title style for the header.
	Title lipgloss.Style

	// Normal style for regular text.
	Normal lipgloss.Style

	// Muted style for less important text.
	Muted lipgloss.Style

	// Selected style for the highlighted issue.
	Selected lipgloss.Style

	// Success style for the complete banner.
	Success lipgloss.Style

	// Error style for the not-complete banner.
	Error lipgloss.Style

	// Help style for the key hints.
	Help lipgloss.Style

	// Detail style for the bordered detail pane.
	Detail lipgloss.Style

	severity map[domain.Severity]lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Foreground).
			Background(theme.Primary),

		Success: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Success),

		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Error),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Detail: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		severity: map[domain.Severity]lipgloss.Style{
			domain.SeverityCritical:   lipgloss.NewStyle().Bold(true).Foreground(theme.Error),
			domain.SeverityMajor:      lipgloss.NewStyle().Foreground(theme.Warning),
			domain.SeverityMinor:      lipgloss.NewStyle().Foreground(theme.Info),
			domain.SeveritySuggestion: lipgloss.NewStyle().Foreground(theme.Muted),
		},
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Severity returns the style for a severity tier.
func (s *Styles) Severity(sev domain.Severity) lipgloss.Style {
	if style, ok := s.severity[sev]; ok {
		return style
	}
	return s.Normal
}
