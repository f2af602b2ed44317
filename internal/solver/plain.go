package solver

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// PlainObserver writes one line per status change.
type PlainObserver struct {
	mu sync.Mutex
	w  io.Writer
}

// NewPlainObserver writes to w.
func NewPlainObserver(w io.Writer) *PlainObserver {
	return &PlainObserver{w: w}
}

// OnSessionStart prints the page header.
func (o *PlainObserver) OnSessionStart(info SessionInfo) {
	o.mu.Lock()
	defer o.mu.Unlock()
	title := info.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(o.w, "%s [%s] %s\n", title, info.Adapter, info.URL)
}

// OnQuestionEvent prints attach and terminal events; solving is implied.
func (o *PlainObserver) OnQuestionEvent(event QuestionEvent) {
	if event.Status == StatusSolving {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	label := fmt.Sprintf("Q%02d %s", event.Index+1, event.QuestionID)
	if event.Status == StatusIdle {
		fmt.Fprintf(o.w, "%s (%s) %s\n", label, event.Type, event.QuestionText)
		return
	}
	detail := strings.ReplaceAll(event.Detail, "\n", "\n    ")
	fmt.Fprintf(o.w, "%s %s: %s\n", label, event.Status, detail)
}

// OnSessionEnd prints the totals.
func (o *PlainObserver) OnSessionEnd(summary Summary) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.w, "%d questions: %d applied, %d failed, %d timed out, %d not attempted\n",
		summary.Total, summary.Success, summary.Error, summary.Timeout, summary.Idle)
}
