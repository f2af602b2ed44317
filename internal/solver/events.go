package solver

import "time"

// Status is the per-question state shown to the user.
type Status string

const (
	// StatusIdle marks an attached question that has not been solved.
	StatusIdle Status = "idle"
	// StatusSolving marks a request in flight.
	StatusSolving Status = "solving"
	// StatusSuccess marks an applied answer.
	StatusSuccess Status = "success"
	// StatusError marks a transport or application failure.
	StatusError Status = "error"
	// StatusTimeout marks a request that ran out of time.
	StatusTimeout Status = "timeout"
)

// Terminal reports whether s ends a solve attempt.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusError || s == StatusTimeout
}

// QuestionEvent carries a single status update for a question. Applied
// lists the labels written by a successful attempt and Reason names the
// resolution failure of an unsuccessful one.
type QuestionEvent struct {
	Index        int
	QuestionID   string
	QuestionText string
	Type         string
	Status       Status
	Detail       string
	Applied      []string
	Reason       string
	EmittedAt    time.Time
}

// SessionInfo describes the page a session is attached to.
type SessionInfo struct {
	SessionID string
	URL       string
	Adapter   string
	Title     string
}

// Observer receives session lifecycle events for UI or logging.
type Observer interface {
	// OnSessionStart signals that observation began.
	OnSessionStart(info SessionInfo)
	// OnQuestionEvent delivers a question status update.
	OnQuestionEvent(event QuestionEvent)
	// OnSessionEnd signals that the session stopped.
	OnSessionEnd(summary Summary)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) OnSessionStart(SessionInfo) {}
func (NopObserver) OnQuestionEvent(QuestionEvent) {}
func (NopObserver) OnSessionEnd(Summary) {}

// MultiObserver fans events out to several observers.
type MultiObserver []Observer

// OnSessionStart forwards to every observer.
func (m MultiObserver) OnSessionStart(info SessionInfo) {
	for _, o := range m {
		o.OnSessionStart(info)
	}
}

// OnQuestionEvent forwards to every observer.
func (m MultiObserver) OnQuestionEvent(event QuestionEvent) {
	for _, o := range m {
		o.OnQuestionEvent(event)
	}
}

// OnSessionEnd forwards to every observer.
func (m MultiObserver) OnSessionEnd(summary Summary) {
	for _, o := range m {
		o.OnSessionEnd(summary)
	}
}
