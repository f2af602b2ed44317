package live

import (
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// defaultColumns returns the column layout for an 80 column terminal.
func defaultColumns() []table.Column {
	return columnsForWidth(80)
}

// columnsForWidth splits the spare width between the question, answer and
// status columns.
func columnsForWidth(width int) []table.Column {
	const fixed = 4 + 9 + 8 + 12
	spare := max(width-fixed, 36)
	question := spare * 2 / 5
	answer := spare / 4
	return []table.Column{
		{Title: "Q", Width: 4},
		{Title: "Question", Width: question},
		{Title: "Type", Width: 9},
		{Title: "Answer", Width: answer},
		{Title: "Status", Width: spare - question - answer},
		{Title: "Time", Width: 8},
	}
}

// tableStyles returns table styles for the UI.
func tableStyles(noColor bool) table.Styles {
	if noColor {
		return table.DefaultStyles()
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	return styles
}

// rowsForState converts UI state into table rows.
func rowsForState(state State, now time.Time, noColor bool) []table.Row {
	rows := make([]table.Row, 0, len(state.Rows))
	for _, row := range state.Rows {
		rows = append(rows, table.Row{
			formatIndex(row.Index),
			formatQuestionText(row.Text),
			row.Type,
			formatAnswer(row),
			formatStatus(row, noColor),
			formatRowDuration(row, now),
		})
	}
	return rows
}
