package tui

import (
	"fmt"
	"strings"

	"blockpatch/internal/patcher"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FFFF"))
	removedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F5F"))
	addedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FFF5F"))
	gutterStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
	boundaryStyle = lipgloss.NewStyle().Faint(true).Italic(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00"))
)

// ModelView renders the review screen.
func ModelView(m model) string {
	switch m.Decision {
	case DecisionApprove:
		return "Applying patch...\n"
	case DecisionAbort:
		return "Patch aborted.\n"
	}

	match := m.plan.Match
	header := headerStyle.Render(fmt.Sprintf("Patch %s", m.plan.Buffer.Path)) + "\n" +
		fmt.Sprintf("Replacing lines %d-%d (%s)", match.FirstLine, match.LastLine, m.plan.Pattern)

	footer := helpStyle.Render("y/enter apply • n/q/esc abort • ↑/↓ pgup/pgdn scroll") +
		gutterStyle.Render(fmt.Sprintf("  %3.f%%", m.viewport.ScrollPercent()*100))

	body := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#555555")).
		Render(m.viewport.View())

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// Preview renders plan for non-interactive output, lines cut to width cells.
func Preview(plan *patcher.Plan, width int) string {
	return renderPreview(plan, width)
}

// renderPreview lays out the current block, the replacement and the boundary
// that follows them, each line prefixed with its line number.
func renderPreview(plan *patcher.Plan, width int) string {
	match := plan.Match
	var b strings.Builder

	b.WriteString(headerStyle.Render("Current block") + "\n")
	writeNumbered(&b, plan.Before(), match.FirstLine, "-", removedStyle, width)

	b.WriteString("\n" + headerStyle.Render("Replacement") + "\n")
	writeNumbered(&b, plan.After(), match.FirstLine, "+", addedStyle, width)

	b.WriteString("\n")
	if match.Boundary == "" {
		b.WriteString(boundaryStyle.Render("(end of file)"))
	} else {
		b.WriteString(boundaryStyle.Render("continues with: " + match.Boundary))
	}
	return b.String()
}

func writeNumbered(b *strings.Builder, text string, firstLine int, sign string, style lipgloss.Style, width int) {
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	for i, line := range lines {
		gutter := fmt.Sprintf("%5d %s ", firstLine+i, sign)
		line = strings.TrimRight(line, "\r")
		if avail := width - runewidth.StringWidth(gutter) - 2; avail > 1 {
			line = runewidth.Truncate(line, avail, "…")
		}
		b.WriteString(gutterStyle.Render(gutter))
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
}
