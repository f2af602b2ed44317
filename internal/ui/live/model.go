package live

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Model draws a Board as a question table. The cursor picks a question and
// enter toggles a pane with its full resolution detail, which is where the
// available choices of a failed answer are listed.
type Model struct {
	board    *Board
	state    State
	version  uint64
	table    table.Model
	interval time.Duration
	now      time.Time
	noColor  bool
	expanded bool
}

// Options configures the live UI model.
type Options struct {
	NoColor      bool
	TickInterval time.Duration
}

// NewModel constructs a model that redraws board on every tick.
func NewModel(board *Board, opts Options) Model {
	interval := opts.TickInterval
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}
	t := table.New(
		table.WithColumns(defaultColumns()),
		table.WithRows([]table.Row{}),
		table.WithFocused(true),
	)
	t.SetStyles(tableStyles(opts.NoColor))
	return Model{
		board:    board,
		table:    t,
		interval: interval,
		now:      time.Now(),
		noColor:  opts.NoColor,
	}
}

// State returns the last board snapshot the model has drawn.
func (m Model) State() State {
	return m.state
}

// Init starts the redraw clock.
func (m Model) Init() tea.Cmd {
	return tick(m.interval)
}

// Update handles navigation keys and redraw ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetWidth(typed.Width)
		m.table.SetHeight(max(typed.Height-6, 1))
		m.table.SetColumns(columnsForWidth(typed.Width))
		return m, nil
	case tea.KeyMsg:
		switch typed.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			m.table.MoveUp(1)
		case "down", "j":
			m.table.MoveDown(1)
		case "enter":
			m.expanded = !m.expanded
		}
		return m, nil
	case tickMsg:
		m.now = time.Time(typed)
		m = m.refresh()
		if m.state.Finished {
			return m, tea.Quit
		}
		return m, tick(m.interval)
	}
	return m, nil
}

// refresh pulls a new snapshot when the board changed since the last draw.
func (m Model) refresh() Model {
	if m.board != nil {
		if state, version := m.board.Snapshot(); version != m.version {
			m.state, m.version = state, version
		}
	}
	m.table.SetRows(rowsForState(m.state, m.now, m.noColor))
	return m
}

// selected returns the row under the cursor.
func (m Model) selected() (QuestionRow, bool) {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.state.Rows) {
		return QuestionRow{}, false
	}
	return m.state.Rows[cursor], true
}

// View renders the live UI.
func (m Model) View() string {
	parts := []string{
		renderHeader(m.state, m.now, m.noColor),
		renderSummary(m.state, m.noColor),
		renderPageLine(m.state, m.noColor),
		m.table.View(),
	}
	if m.expanded {
		if row, ok := m.selected(); ok {
			parts = append(parts, renderDetail(row, m.noColor))
		}
	}
	parts = append(parts, renderFooter(m.state, m.noColor))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderDetail renders the full text, answer and resolution detail of row.
func renderDetail(row QuestionRow, noColor bool) string {
	var b strings.Builder
	b.WriteString(formatIndex(row.Index) + " " + row.ID + " (" + row.Type + ")\n")
	b.WriteString(strings.Join(strings.Fields(row.Text), " "))
	if row.Answer != "" {
		b.WriteString("\nanswer: " + row.Answer)
	}
	if row.Reason != "" {
		b.WriteString("\nreason: " + row.Reason)
	}
	if row.Detail != "" {
		b.WriteString("\n" + row.Detail)
	}
	return stylize(b.String(), noColor, lipgloss.Color("250"))
}

type tickMsg time.Time

func tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}
