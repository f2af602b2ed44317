// Package solver ties an adapter, a transport and answer application into a
// per-page session with one status per attached question.
package solver

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"quizpilot/internal/answer"
	"quizpilot/internal/audit"
	"quizpilot/internal/dom"
	"quizpilot/internal/platform"
	"quizpilot/internal/question"
	"quizpilot/internal/screenshot"
	"quizpilot/internal/transport"
)

var (
	// ErrInFlight rejects a second solve while one is running.
	ErrInFlight = errors.New("question is already being solved")
	// ErrUnknownQuestion reports an id that was never attached.
	ErrUnknownQuestion = errors.New("unknown question")
	// ErrDetached reports a container that left the page.
	ErrDetached = errors.New("question is no longer on the page")
)

// Recorder persists attempts.
type Recorder interface {
	Record(ctx context.Context, attempt audit.Attempt) (string, error)
}

// Mirror replays applied changes somewhere else, such as a live browser tab.
type Mirror interface {
	Mirror(ctx context.Context, changes []answer.Change) error
}

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Config wires a session.
type Config struct {
	Document    *dom.Document
	Adapter     platform.Adapter
	Transport   transport.Transport
	Screenshots screenshot.Provider
	Recorder    Recorder
	Mirror      Mirror
	Observer    Observer
	Logger      *zap.Logger
	Clock       Clock
}

type entry struct {
	index     int
	id        string
	container *html.Node
	fallback  int
	text      string
	qtype     question.Type
	status    Status
	detail    string
	applied   []string
	reason    string
}

// Session tracks the questions of one page.
type Session struct {
	cfg     Config
	id      string
	ids     *question.IDRegistry
	mu      sync.Mutex
	entries []*entry
	byID    map[string]*entry
	title   string
	stop    func()
}

// New validates cfg and returns an idle session.
func New(cfg Config) (*Session, error) {
	if cfg.Document == nil {
		return nil, fmt.Errorf("document is required")
	}
	if cfg.Adapter == nil {
		return nil, fmt.Errorf("adapter is required")
	}
	if cfg.Transport == nil {
		return nil, fmt.Errorf("transport is required")
	}
	if cfg.Screenshots == nil {
		cfg.Screenshots = screenshot.None{}
	}
	if cfg.Observer == nil {
		cfg.Observer = NopObserver{}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Clock == nil {
		cfg.Clock = systemClock{}
	}
	id := uuid.NewString()
	return &Session{
		cfg:  cfg,
		id:   id,
		ids:  question.NewIDRegistry(),
		byID: map[string]*entry{},
	}, nil
}

// ID returns the session id used for audit records.
func (s *Session) ID() string {
	return s.id
}

// Title returns the quiz title captured at Start.
func (s *Session) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.title
}

// Start begins observing questions. Containers found immediately are
// attached before Start returns.
func (s *Session) Start() {
	doc := s.cfg.Document
	var title, pageURL string
	doc.Do(func() {
		title = s.cfg.Adapter.QuizTitle(doc)
		pageURL = doc.URL()
	})
	s.mu.Lock()
	s.title = title
	s.mu.Unlock()
	s.cfg.Observer.OnSessionStart(SessionInfo{
		SessionID: s.id,
		URL:       pageURL,
		Adapter:   s.cfg.Adapter.Name(),
		Title:     title,
	})
	stop := s.cfg.Adapter.ObserveQuestions(doc, s.attach)
	s.mu.Lock()
	s.stop = stop
	s.mu.Unlock()
}

// Close stops observation and reports the summary.
func (s *Session) Close() Summary {
	s.mu.Lock()
	stop := s.stop
	s.stop = nil
	s.mu.Unlock()
	if stop != nil {
		stop()
	}
	summary := s.Summary()
	s.cfg.Observer.OnSessionEnd(summary)
	return summary
}

// attach registers a delivered container under a unique question id.
func (s *Session) attach(container *html.Node, fallbackIndex int) {
	var q question.Question
	s.cfg.Document.Do(func() {
		q = s.cfg.Adapter.ParseQuestion(container, fallbackIndex)
	})
	s.mu.Lock()
	e := &entry{
		index:     len(s.entries),
		id:        s.ids.Claim(q.ID),
		container: container,
		fallback:  fallbackIndex,
		text:      q.Text,
		qtype:     q.Type,
		status:    StatusIdle,
	}
	s.entries = append(s.entries, e)
	s.byID[e.id] = e
	event := s.eventLocked(e)
	s.mu.Unlock()
	s.cfg.Logger.Debug("question attached",
		zap.String("question", e.id),
		zap.String("type", string(q.Type)),
		zap.Int("index", e.index),
	)
	s.cfg.Observer.OnQuestionEvent(event)
}

// Question is the public view of an attached question.
type Question struct {
	Index  int           `json:"index"`
	ID     string        `json:"id"`
	Type   question.Type `json:"type"`
	Text   string        `json:"text"`
	Status Status        `json:"status"`
	Detail string        `json:"detail,omitempty"`
}

// Questions lists attached questions in attach order.
func (s *Session) Questions() []Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Question, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, Question{
			Index:  e.index,
			ID:     e.id,
			Type:   e.qtype,
			Text:   e.text,
			Status: e.status,
			Detail: e.detail,
		})
	}
	return out
}

// Parse returns a fresh parse of an attached question from the live
// document, under its session id.
func (s *Session) Parse(id string) (question.Question, error) {
	s.mu.Lock()
	e, ok := s.byID[id]
	s.mu.Unlock()
	if !ok {
		return question.Question{}, fmt.Errorf("%w: %s", ErrUnknownQuestion, id)
	}
	q, _, err := s.reparse(e)
	return q, err
}

func (s *Session) reparse(e *entry) (question.Question, string, error) {
	doc := s.cfg.Document
	var q question.Question
	var path string
	attached := false
	doc.Do(func() {
		if !dom.Connected(e.container, doc.Root()) {
			return
		}
		attached = true
		q = s.cfg.Adapter.ParseQuestion(e.container, e.fallback)
		path = dom.CSSPath(e.container)
	})
	if !attached {
		return question.Question{}, "", fmt.Errorf("%w: %s", ErrDetached, e.id)
	}
	q.ID = e.id
	return q, path, nil
}

func (s *Session) eventLocked(e *entry) QuestionEvent {
	return QuestionEvent{
		Index:        e.index,
		QuestionID:   e.id,
		QuestionText: e.text,
		Type:         string(e.qtype),
		Status:       e.status,
		Detail:       e.detail,
		Applied:      append([]string(nil), e.applied...),
		Reason:       e.reason,
		EmittedAt:    s.cfg.Clock.Now(),
	}
}

// transition records the report on e and notifies the observer outside the lock.
func (s *Session) transition(e *entry, report Report, q *question.Question) {
	s.mu.Lock()
	e.status = report.Status
	e.detail = report.Detail
	e.applied, e.reason = nil, ""
	if report.Result != nil {
		e.applied = report.Result.Applied
		e.reason = string(report.Result.Reason)
	}
	if q != nil {
		e.text = q.Text
		e.qtype = q.Type
	}
	event := s.eventLocked(e)
	s.mu.Unlock()
	s.cfg.Observer.OnQuestionEvent(event)
}
