package live

import (
	"fmt"
	"strings"
	"time"

	"quizpilot/internal/solver"
)

// Reduce applies a question event to the UI state. A failed retry keeps the
// answer written by an earlier success, since the page still holds it.
func Reduce(state State, event solver.QuestionEvent) State {
	state = ensureRow(state, event)
	state = applyQuestionEvent(state, event)
	state.Counts = recount(state.Rows)
	if message := formatLastEvent(event); message != "" {
		state.LastEvent = message
	}
	return state
}

// ensureRow grows the state rows to include the target index.
func ensureRow(state State, event solver.QuestionEvent) State {
	if event.Index < 0 || event.Index < len(state.Rows) {
		return state
	}
	rows := make([]QuestionRow, event.Index+1)
	copy(rows, state.Rows)
	for i := len(state.Rows); i < len(rows); i++ {
		rows[i] = QuestionRow{Index: i, Status: solver.StatusIdle}
	}
	state.Rows = rows
	return state
}

// applyQuestionEvent updates a row with the given event.
func applyQuestionEvent(state State, event solver.QuestionEvent) State {
	if event.Index < 0 || event.Index >= len(state.Rows) {
		return state
	}
	row := state.Rows[event.Index]
	if event.QuestionID != "" {
		row.ID = event.QuestionID
	}
	if event.QuestionText != "" {
		row.Text = event.QuestionText
	}
	if event.Type != "" {
		row.Type = event.Type
	}
	row.Status = event.Status
	switch {
	case event.Status == solver.StatusSolving:
		row.Attempts++
		row.StartedAt = event.EmittedAt
		row.FinishedAt = time.Time{}
		row.Detail = ""
		row.Reason = ""
	case event.Status.Terminal():
		row.FinishedAt = event.EmittedAt
		row.Detail = event.Detail
		row.Reason = event.Reason
		if len(event.Applied) > 0 {
			row.Answer = strings.Join(event.Applied, ", ")
		}
	}
	state.Rows[event.Index] = row
	return state
}

// recount recomputes status counts for the current rows.
func recount(rows []QuestionRow) StatusCounts {
	var counts StatusCounts
	for _, row := range rows {
		switch row.Status {
		case solver.StatusIdle:
			counts.Idle++
		case solver.StatusSolving:
			counts.Solving++
		case solver.StatusSuccess:
			counts.Success++
		case solver.StatusError:
			counts.Error++
		case solver.StatusTimeout:
			counts.Timeout++
		}
	}
	return counts
}

// formatLastEvent creates a short footer message for the event.
func formatLastEvent(event solver.QuestionEvent) string {
	label := formatIndex(event.Index)
	switch event.Status {
	case solver.StatusIdle:
		return fmt.Sprintf("%s attached (%s)", label, event.Type)
	case solver.StatusSolving:
		return fmt.Sprintf("%s requesting answer", label)
	case solver.StatusSuccess:
		return fmt.Sprintf("%s %s", label, firstLine(event.Detail))
	case solver.StatusError:
		if event.Reason != "" {
			return fmt.Sprintf("%s %s: %s", label, event.Reason, firstLine(event.Detail))
		}
		return fmt.Sprintf("%s error: %s", label, firstLine(event.Detail))
	case solver.StatusTimeout:
		return fmt.Sprintf("%s timed out", label)
	}
	return ""
}

// firstLine keeps the headline of a multi-line detail.
func firstLine(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	return line
}

// formatDuration renders a rounded duration for display.
func formatDuration(duration time.Duration) string {
	if duration <= 0 {
		return "0s"
	}
	return duration.Round(100 * time.Millisecond).String()
}
