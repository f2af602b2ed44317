package live

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the session header line.
func renderHeader(state State, now time.Time, noColor bool) string {
	line := "Session " + state.SessionID
	if state.Adapter != "" {
		line += " | Adapter: " + state.Adapter
	}
	if !state.StartedAt.IsZero() {
		line += " | Elapsed: " + now.Sub(state.StartedAt).Round(100*time.Millisecond).String()
	}
	return stylize(line, noColor, lipgloss.Color("33"))
}

// renderSummary renders the status counts line.
func renderSummary(state State, noColor bool) string {
	counts := state.Counts
	line := "Idle: " + fmtInt(counts.Idle) +
		" Solving: " + fmtInt(counts.Solving) +
		" Applied: " + fmtInt(counts.Success) +
		" Error: " + fmtInt(counts.Error) +
		" Timeout: " + fmtInt(counts.Timeout)
	return stylize(line, noColor, lipgloss.Color("242"))
}

// renderPageLine renders the quiz title and URL.
func renderPageLine(state State, noColor bool) string {
	if state.Title == "" && state.URL == "" {
		return ""
	}
	line := state.Title
	if state.URL != "" {
		if line != "" {
			line += " | "
		}
		line += state.URL
	}
	return stylize(line, noColor, lipgloss.Color("240"))
}

// renderFooter renders the last event line.
func renderFooter(state State, noColor bool) string {
	if state.LastEvent == "" {
		return ""
	}
	return stylize("Last event: "+state.LastEvent, noColor, lipgloss.Color("244"))
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
