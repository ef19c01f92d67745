// Package tui provides the interactive issue browser for validation results.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cerval-labs/cerval-cli/internal/core/domain"
)

// Model is the review UI: a navigable, severity-filterable list of the
// issues one validation run produced, with a detail pane for the
// selected issue.
type Model struct {
	doc    *domain.Document
	result *domain.Result

	styles *Styles
	keys   *KeyMap

	// filter narrows the list to one severity tier. Empty shows all.
	filter domain.Severity

	cursor int
	width  int
	height int
	ready  bool
}

// NewReview creates the review model for a validated document.
func NewReview(doc *domain.Document, result *domain.Result) *Model {
	return &Model{
		doc:    doc,
		result: result,
		styles: DefaultStyles(),
		keys:   DefaultKeyMap(),
		width:  80,
		height: 24,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visibleIssues())-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.All):
		m.setFilter("")

	case key.Matches(msg, m.keys.Critical):
		m.setFilter(domain.SeverityCritical)

	case key.Matches(msg, m.keys.Major):
		m.setFilter(domain.SeverityMajor)

	case key.Matches(msg, m.keys.Minor):
		m.setFilter(domain.SeverityMinor)

	case key.Matches(msg, m.keys.Suggestion):
		m.setFilter(domain.SeveritySuggestion)
	}
	return m, nil
}

func (m *Model) setFilter(sev domain.Severity) {
	m.filter = sev
	m.cursor = 0
}

// visibleIssues returns the issues matching the active filter, in
// result order.
func (m *Model) visibleIssues() []domain.Issue {
	if m.filter == "" {
		return m.result.Issues
	}
	return m.result.BySeverity(m.filter)
}

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	issues := m.visibleIssues()
	if len(issues) == 0 {
		b.WriteString(m.styles.Muted.Render(m.emptyMessage()))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderList(issues))
		b.WriteString("\n")
		b.WriteString(m.renderDetail(issues[m.cursor]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m *Model) renderHeader() string {
	title := m.doc.Title
	if title == "" {
		title = m.doc.ID
	}

	status := m.styles.Error.Render("NOT COMPLETE")
	if m.result.Complete {
		status = m.styles.Success.Render("COMPLETE")
	}

	line := fmt.Sprintf("%s  %s  %s",
		m.styles.Title.Render(title),
		m.styles.Muted.Render(m.doc.Framework.String()),
		status,
	)

	counts := m.result.Counts()
	summary := fmt.Sprintf("%d issues: %d critical, %d major, %d minor, %d suggestions",
		len(m.result.Issues),
		counts[domain.SeverityCritical],
		counts[domain.SeverityMajor],
		counts[domain.SeverityMinor],
		counts[domain.SeveritySuggestion],
	)
	if m.filter != "" {
		summary += fmt.Sprintf("  (showing %s only)", m.filter)
	}

	return line + "\n" + m.styles.Muted.Render(summary)
}

func (m *Model) renderList(issues []domain.Issue) string {
	top, bottom := m.window(len(issues))

	var b strings.Builder
	for i := top; i < bottom; i++ {
		issue := issues[i]
		tag := m.styles.Severity(issue.Severity).Render(fmt.Sprintf("[%-10s]", issue.Severity))
		line := fmt.Sprintf("%s %s", tag, truncate(issue.Message, m.width-16))

		if i == m.cursor {
			line = m.styles.Selected.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// window bounds the visible slice of the list so the cursor stays on
// screen on small terminals.
func (m *Model) window(total int) (int, int) {
	visible := m.height - 12
	if visible < 3 {
		visible = 3
	}
	if total <= visible {
		return 0, total
	}

	top := m.cursor - visible/2
	if top < 0 {
		top = 0
	}
	if top+visible > total {
		top = total - visible
	}
	return top, top + visible
}

func (m *Model) renderDetail(issue domain.Issue) string {
	var lines []string
	lines = append(lines, m.styles.Normal.Render(issue.Message))
	lines = append(lines, m.styles.Muted.Render("Type: "+issue.Type.String()))
	if issue.SectionID != "" {
		lines = append(lines, m.styles.Muted.Render("Section: "+issue.SectionID))
	}
	if issue.RegulatoryRef != "" {
		lines = append(lines, m.styles.Muted.Render("Reference: "+issue.RegulatoryRef))
	}
	for k, v := range issue.Details {
		lines = append(lines, m.styles.Muted.Render(fmt.Sprintf("%s: %s", k, v)))
	}

	width := m.width - 4
	if width < 20 {
		width = 20
	}
	return m.styles.Detail.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) emptyMessage() string {
	if m.filter != "" {
		return fmt.Sprintf("No %s issues. Press 'a' to show all severities.", m.filter)
	}
	if m.result.Complete {
		return "No issues found. The document is complete."
	}
	return "No issues listed."
}

func (m *Model) renderHelp() string {
	var parts []string
	for _, binding := range m.keys.ShortHelp() {
		parts = append(parts, fmt.Sprintf("%s %s", binding.Help().Key, binding.Help().Desc))
	}
	return m.styles.Help.Render(strings.Join(parts, "  •  "))
}

func truncate(s string, max int) string {
	if max < 4 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
