package live

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"quizpilot/internal/solver"
)

// formatIndex formats a question index.
func formatIndex(index int) string {
	return "Q" + pad2(index+1)
}

// pad2 left-pads a number to two digits when needed.
func pad2(value int) string {
	if value >= 10 {
		return fmtInt(value)
	}
	return "0" + fmtInt(value)
}

// fmtInt converts an int to string.
func fmtInt(value int) string {
	return strconv.Itoa(value)
}

// formatQuestionText truncates question text for display.
func formatQuestionText(text string) string {
	normalized := strings.Join(strings.Fields(text), " ")
	const limit = 80
	runes := []rune(normalized)
	if len(runes) <= limit {
		return normalized
	}
	return string(runes[:limit-3]) + "..."
}

// formatAnswer shows the applied labels, or a dash before any success.
func formatAnswer(row QuestionRow) string {
	if row.Answer == "" {
		return "-"
	}
	return formatQuestionText(row.Answer)
}

// formatStatus renders a status string for a row.
func formatStatus(row QuestionRow, noColor bool) string {
	text := statusLabel(row.Status)
	if row.Attempts > 1 {
		text += " (try " + fmtInt(row.Attempts) + ")"
	}
	switch {
	case row.Status == solver.StatusSuccess:
	case row.Reason != "":
		text += ": " + row.Reason
	case firstLine(row.Detail) != "":
		text += ": " + firstLine(row.Detail)
	}
	return stylizeStatus(text, row.Status, noColor)
}

// statusLabel maps status codes to display labels.
func statusLabel(status solver.Status) string {
	switch status {
	case solver.StatusIdle:
		return "idle"
	case solver.StatusSolving:
		return "solving"
	case solver.StatusSuccess:
		return "applied"
	case solver.StatusError:
		return "error"
	case solver.StatusTimeout:
		return "timeout"
	default:
		return string(status)
	}
}

// formatRowDuration returns elapsed or total time for a row.
func formatRowDuration(row QuestionRow, now time.Time) string {
	if row.StartedAt.IsZero() {
		return ""
	}
	if !row.FinishedAt.IsZero() {
		return formatDuration(row.FinishedAt.Sub(row.StartedAt))
	}
	return formatDuration(now.Sub(row.StartedAt))
}

// formatSummary formats the session end message.
func formatSummary(summary solver.Summary) string {
	return fmt.Sprintf("done: %d applied, %d failed, %d timed out of %d",
		summary.Success, summary.Error, summary.Timeout, summary.Total)
}

// stylizeStatus applies status coloring when enabled.
func stylizeStatus(text string, status solver.Status, noColor bool) string {
	if noColor {
		return text
	}
	return statusStyle(status).Render(text)
}

// statusStyle selects a style for a given status.
func statusStyle(status solver.Status) lipgloss.Style {
	color := lipgloss.Color("244")
	switch status {
	case solver.StatusSuccess:
		color = lipgloss.Color("42")
	case solver.StatusError:
		color = lipgloss.Color("196")
	case solver.StatusTimeout:
		color = lipgloss.Color("220")
	case solver.StatusSolving:
		color = lipgloss.Color("33")
	case solver.StatusIdle:
		color = lipgloss.Color("246")
	}
	return lipgloss.NewStyle().Foreground(color)
}
