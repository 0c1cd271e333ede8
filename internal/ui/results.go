package ui

import (
	"fmt"
	"strings"
)

// renderResults renders the result list pane.
func (m Model) renderResults() string {
	var b strings.Builder

	switch {
	case m.searching:
		b.WriteString(m.styles.InfoText.Render("searching…"))
		b.WriteString("\n\n")
	case m.timedOut:
		b.WriteString(m.styles.WarningText.Render("search timed out"))
		b.WriteString("\n\n")
	case len(m.results) == 0:
		b.WriteString(m.styles.MutedText.Render("no results, press / to set filters and s to search"))
		if len(m.collections) > 0 {
			b.WriteString("\n\n")
			b.WriteString(m.styles.FaintText.Render(fmt.Sprintf("%d collections available", len(m.collections))))
		}
		return b.String()
	default:
		b.WriteString(m.styles.MutedText.Render(fmt.Sprintf("%d results", len(m.results))))
		b.WriteString("\n\n")
	}

	width := m.sideWidth()
	visible := m.contentHeight() - 3
	if visible < 1 {
		visible = 1
	}
	start := 0
	if m.selectedRow >= visible {
		start = m.selectedRow - visible + 1
	}
	for i := start; i < len(m.results) && i < start+visible; i++ {
		item := m.results[i]
		line := item.ID
		if item.Properties.Datetime != "" && len(item.Properties.Datetime) >= 10 {
			line = item.Properties.Datetime[:10] + "  " + line
		}
		if item.Properties.CloudCover != nil {
			line += fmt.Sprintf("  %2.0f%%", *item.Properties.CloudCover)
		}
		line = truncate(line, width-2)
		if i == m.selectedRow {
			b.WriteString(m.styles.Selected.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	return b.String()
}
