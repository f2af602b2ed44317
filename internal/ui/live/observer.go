package live

import (
	"io"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"quizpilot/internal/solver"
)

// Board is the quiz state shared by the solver goroutines and the UI. The
// solver side reduces every event into it, so no status update is lost when
// the UI redraws slowly.
type Board struct {
	mu      sync.Mutex
	state   State
	version uint64
	now     func() time.Time
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{now: time.Now}
}

// Snapshot returns a copy of the state and its version. The version grows
// with every change.
func (b *Board) Snapshot() (State, uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	state := b.state
	state.Rows = append([]QuestionRow(nil), b.state.Rows...)
	return state, b.version
}

func (b *Board) update(fn func(State) State) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = fn(b.state)
	b.version++
}

// OnSessionStart resets the board for a newly attached page.
func (b *Board) OnSessionStart(info solver.SessionInfo) {
	started := b.now()
	b.update(func(State) State {
		return State{
			SessionID: info.SessionID,
			URL:       info.URL,
			Adapter:   info.Adapter,
			Title:     info.Title,
			StartedAt: started,
		}
	})
}

// OnQuestionEvent reduces a question status update into the board.
func (b *Board) OnQuestionEvent(event solver.QuestionEvent) {
	b.update(func(state State) State { return Reduce(state, event) })
}

// OnSessionEnd records the summary and marks the board finished.
func (b *Board) OnSessionEnd(summary solver.Summary) {
	b.update(func(state State) State {
		state.LastEvent = formatSummary(summary)
		state.Finished = true
		return state
	})
}

func (b *Board) finish() {
	b.update(func(state State) State {
		state.Finished = true
		return state
	})
}

// Controller runs the live UI for one solve run and implements
// solver.Observer through its board.
type Controller struct {
	*Board
	program *tea.Program
	done    chan struct{}
}

// Start launches the live UI on stdout. The UI exits on its own once the
// session ends or Close is called.
func Start(stdout io.Writer, opts Options) *Controller {
	if stdout == nil {
		stdout = os.Stdout
	}
	board := NewBoard()
	program := tea.NewProgram(NewModel(board, opts), tea.WithOutput(stdout), tea.WithAltScreen())
	controller := &Controller{
		Board:   board,
		program: program,
		done:    make(chan struct{}),
	}
	go func() {
		_, _ = program.Run()
		close(controller.done)
	}()
	return controller
}

// Close asks the UI to draw the final board and exit.
func (c *Controller) Close() {
	if c == nil {
		return
	}
	c.finish()
}

// Wait blocks until the UI has exited.
func (c *Controller) Wait() {
	if c == nil {
		return
	}
	<-c.done
}
