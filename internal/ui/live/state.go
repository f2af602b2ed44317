package live

import (
	"time"

	"quizpilot/internal/solver"
)

// QuestionRow holds UI state for a single question. Answer holds the
// labels the last successful attempt wrote into the page.
type QuestionRow struct {
	Index      int
	ID         string
	Text       string
	Type       string
	Status     solver.Status
	Answer     string
	Reason     string
	Detail     string
	Attempts   int
	StartedAt  time.Time
	FinishedAt time.Time
}

// StatusCounts aggregates counts by status bucket.
type StatusCounts struct {
	Idle    int
	Solving int
	Success int
	Error   int
	Timeout int
}

// State captures the live UI state for an observed page.
type State struct {
	SessionID string
	URL       string
	Adapter   string
	Title     string
	StartedAt time.Time
	LastEvent string
	Finished  bool
	Rows      []QuestionRow
	Counts    StatusCounts
}
