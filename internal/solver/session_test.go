package solver

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"quizpilot/internal/answer"
	"quizpilot/internal/audit"
	"quizpilot/internal/dom"
	"quizpilot/internal/platform"
	"quizpilot/internal/question"
	"quizpilot/internal/screenshot"
	"quizpilot/internal/testutil"
	"quizpilot/internal/transport"
)

const radioQuestion = `<p class="prompt">Capital of France?</p>
<label><input type="radio" id="opt-a" name="cap" value="lon"> London</label>
<label><input type="radio" id="opt-b" name="cap" value="par"> Paris</label>`

type recordingObserver struct {
	mu     sync.Mutex
	starts []SessionInfo
	events []QuestionEvent
	ends   int
}

func (o *recordingObserver) OnSessionStart(info SessionInfo) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.starts = append(o.starts, info)
}

func (o *recordingObserver) OnQuestionEvent(event QuestionEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, event)
}

func (o *recordingObserver) OnSessionEnd(Summary) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ends++
}

func (o *recordingObserver) statuses(id string) []Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	var out []Status
	for _, event := range o.events {
		if event.QuestionID == id {
			out = append(out, event.Status)
		}
	}
	return out
}

func (o *recordingObserver) last(id string) QuestionEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i := len(o.events) - 1; i >= 0; i-- {
		if o.events[i].QuestionID == id {
			return o.events[i]
		}
	}
	return QuestionEvent{}
}

type memoryRecorder struct {
	mu       sync.Mutex
	attempts []audit.Attempt
}

func (r *memoryRecorder) Record(_ context.Context, attempt audit.Attempt) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts = append(r.attempts, attempt)
	return "id", nil
}

func (r *memoryRecorder) snapshot() []audit.Attempt {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]audit.Attempt(nil), r.attempts...)
}

type harness struct {
	doc      *dom.Document
	session  *Session
	observer *recordingObserver
	recorder *memoryRecorder
}

func newHarness(t *testing.T, markup string, tr transport.Transport, shots screenshot.Provider) *harness {
	t.Helper()
	doc, err := dom.ParseString(markup, "https://quiz.test/attempt")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	host, err := platform.NewHost(platform.Profile{
		Name:               "test",
		ContainerSelectors: []string{".question"},
		PromptSelector:     ".prompt",
		TitleSelectors:     []string{"h1"},
	}, platform.Options{Debounce: 10 * time.Millisecond})
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	h := &harness{doc: doc, observer: &recordingObserver{}, recorder: &memoryRecorder{}}
	session, err := New(Config{
		Document:    doc,
		Adapter:     host,
		Transport:   tr,
		Screenshots: shots,
		Recorder:    h.recorder,
		Observer:    h.observer,
		Clock:       testutil.NewFakeClock(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)),
	})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	session.Start()
	t.Cleanup(func() { session.Close() })
	h.session = session
	return h
}

func (h *harness) checked() []string {
	var out []string
	h.doc.Do(func() {
		for _, n := range dom.Widgets(h.doc.Root()) {
			if dom.IsChecked(n) {
				out = append(out, dom.Attr(n, "id"))
			}
		}
	})
	return out
}

func answerIDs(ids ...string) transport.Transport {
	return transport.Func(func(context.Context, transport.Request) transport.Outcome {
		return transport.Success(question.Suggestion{ChoiceIDs: ids})
	})
}

// TestAttachDisambiguatesQuestionIDs verifies a colliding base id gets a numeric suffix.
func TestAttachDisambiguatesQuestionIDs(t *testing.T) {
	markup := `<h1>Week 3</h1>
<div class="question" data-question-id="dup">` + radioQuestion + `</div>
<div class="question" data-question-id="dup"><p class="prompt">Second one?</p><input type="text" name="t"></div>`
	h := newHarness(t, markup, answerIDs(), nil)
	var ids []string
	for _, q := range h.session.Questions() {
		ids = append(ids, q.ID)
	}
	if !reflect.DeepEqual(ids, []string{"dup", "dup-1"}) {
		t.Fatalf("expected dup and dup-1, got %v", ids)
	}
	if h.session.Title() != "Week 3" {
		t.Fatalf("unexpected title %q", h.session.Title())
	}
	if len(h.observer.starts) != 1 || h.observer.starts[0].Adapter != "test" {
		t.Fatalf("unexpected session start %+v", h.observer.starts)
	}
	q, err := h.session.Parse("dup-1")
	if err != nil || q.ID != "dup-1" || q.Type != question.TypeText {
		t.Fatalf("unexpected parse %+v (%v)", q, err)
	}
}

// TestSolveAppliesAfterRerender verifies the answer lands on widgets rendered during the request.
func TestSolveAppliesAfterRerender(t *testing.T) {
	var h *harness
	var seen transport.Request
	tr := transport.Func(func(_ context.Context, req transport.Request) transport.Outcome {
		seen = req
		h.doc.Do(func() {
			container := dom.Query(h.doc.Root(), ".question")
			if err := h.doc.SetInnerHTML(container, radioQuestion); err != nil {
				t.Errorf("rerender: %v", err)
			}
		})
		return transport.Success(question.Suggestion{ChoiceIDs: question.IDList{"B"}})
	})
	var target screenshot.Target
	shots := screenshot.Func(func(_ context.Context, tg screenshot.Target) ([]byte, error) {
		target = tg
		return nil, errors.New("no renderer")
	})
	h = newHarness(t, `<div class="question" id="q1">`+radioQuestion+`</div>`, tr, shots)

	report, err := h.session.Solve(testutil.Context(t, 0), "q1")
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if report.Status != StatusSuccess {
		t.Fatalf("expected success, got %+v", report)
	}
	if got := h.checked(); !reflect.DeepEqual(got, []string{"opt-b"}) {
		t.Fatalf("expected opt-b checked, got %v", got)
	}
	if seen.QuestionID != "q1" || len(seen.Choices) != 2 || seen.Image != nil {
		t.Fatalf("unexpected request %+v", seen)
	}
	if target.QuestionID != "q1" || target.Selector == "" {
		t.Fatalf("unexpected screenshot target %+v", target)
	}
	want := []Status{StatusIdle, StatusSolving, StatusSuccess}
	if got := h.observer.statuses("q1"); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if last := h.observer.last("q1"); len(last.Applied) != 1 || !strings.Contains(last.Applied[0], "Paris") {
		t.Fatalf("expected the applied label on the final event, got %+v", last)
	}
	attempts := h.recorder.snapshot()
	if len(attempts) != 1 || attempts[0].Outcome != "success" || attempts[0].SessionID != h.session.ID() {
		t.Fatalf("unexpected attempts %+v", attempts)
	}
}

// TestSolveRefusesConcurrentRequests verifies a second solve while one is in flight fails fast.
func TestSolveRefusesConcurrentRequests(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	tr := transport.Func(func(context.Context, transport.Request) transport.Outcome {
		close(entered)
		<-release
		return transport.Success(question.Suggestion{ChoiceIDs: question.IDList{"opt-a"}})
	})
	h := newHarness(t, `<div class="question" id="q1">`+radioQuestion+`</div>`, tr, nil)
	ctx := testutil.Context(t, 0)

	done := make(chan error, 1)
	go func() {
		_, err := h.session.Solve(ctx, "q1")
		done <- err
	}()
	<-entered
	if _, err := h.session.Solve(ctx, "q1"); !errors.Is(err, ErrInFlight) {
		t.Fatalf("expected ErrInFlight, got %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first solve: %v", err)
	}
	if _, err := h.session.Solve(ctx, "missing"); !errors.Is(err, ErrUnknownQuestion) {
		t.Fatalf("expected ErrUnknownQuestion, got %v", err)
	}
}

// TestSolveReportsTransportOutcomes verifies timeouts and errors leave the page untouched.
func TestSolveReportsTransportOutcomes(t *testing.T) {
	outcomes := []transport.Outcome{transport.Timeout("no answer within 1s"), transport.Failure("quota exceeded")}
	statuses := []Status{StatusTimeout, StatusError}
	for i, outcome := range outcomes {
		h := newHarness(t, `<div class="question" id="q1">`+radioQuestion+`</div>`,
			transport.Func(func(context.Context, transport.Request) transport.Outcome { return outcome }), nil)
		report, err := h.session.Solve(testutil.Context(t, 0), "q1")
		if err != nil {
			t.Fatalf("solve: %v", err)
		}
		if report.Status != statuses[i] || report.Detail != outcome.Message {
			t.Fatalf("expected %s, got %+v", statuses[i], report)
		}
		if got := h.checked(); len(got) != 0 {
			t.Fatalf("expected nothing checked, got %v", got)
		}
		if attempts := h.recorder.snapshot(); len(attempts) != 1 || attempts[0].Outcome != string(statuses[i]) {
			t.Fatalf("unexpected attempts %+v", attempts)
		}
	}
}

// TestSolveApplyFailureCarriesDiagnostics verifies unmatched answers report the available choices.
func TestSolveApplyFailureCarriesDiagnostics(t *testing.T) {
	h := newHarness(t, `<div class="question" id="q1">`+radioQuestion+`</div>`, answerIDs("zzz"), nil)
	report, err := h.session.Solve(testutil.Context(t, 0), "q1")
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if report.Status != StatusError || report.Result == nil || report.Result.Diagnostics == nil {
		t.Fatalf("expected diagnostic failure, got %+v", report)
	}
	if len(report.Result.Diagnostics.Available) != 2 {
		t.Fatalf("expected two available choices, got %+v", report.Result.Diagnostics)
	}
	if attempts := h.recorder.snapshot(); len(attempts) != 1 || attempts[0].Reason != "no_matching_choice" {
		t.Fatalf("unexpected attempts %+v", attempts)
	}
	if last := h.observer.last("q1"); last.Reason != "no_matching_choice" || len(last.Applied) != 0 {
		t.Fatalf("expected the failure reason on the final event, got %+v", last)
	}
}

// TestSolveDetachedQuestion verifies removed containers are reported, not parsed.
func TestSolveDetachedQuestion(t *testing.T) {
	h := newHarness(t, `<div class="question" id="q1">`+radioQuestion+`</div>`, answerIDs("opt-a"), nil)
	h.doc.Do(func() { h.doc.Remove(dom.Query(h.doc.Root(), ".question")) })
	report, err := h.session.Solve(testutil.Context(t, 0), "q1")
	if !errors.Is(err, ErrDetached) || report.Status != StatusError {
		t.Fatalf("expected ErrDetached, got %+v (%v)", report, err)
	}
}

// TestSolveAllSummarizes verifies every attached question is attempted in order.
func TestSolveAllSummarizes(t *testing.T) {
	markup := `<div class="question" id="q1">` + radioQuestion + `</div>
<div class="question" id="q2"><p class="prompt">Name the river</p><input type="text" id="river"></div>`
	tr := transport.Func(func(_ context.Context, req transport.Request) transport.Outcome {
		if req.QuestionID == "q2" {
			return transport.Success(question.Suggestion{Text: question.TextOf("Nile")})
		}
		return transport.Failure("model unavailable")
	})
	h := newHarness(t, markup, tr, nil)
	summary := h.session.SolveAll(testutil.Context(t, 0))
	if summary.Total != 2 || summary.Success != 1 || summary.Error != 1 || len(summary.Reports) != 2 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if summary.Reports[0].QuestionID != "q1" || summary.Reports[1].QuestionID != "q2" {
		t.Fatalf("unexpected order %+v", summary.Reports)
	}
	var value string
	h.doc.Do(func() { value = dom.Value(dom.ElementByID(h.doc.Root(), "river")) })
	if value != "Nile" {
		t.Fatalf("unexpected river value %q", value)
	}
}

type failingMirror struct{}

func (failingMirror) Mirror(context.Context, []answer.Change) error {
	return errors.New("tab closed")
}

// TestSolveMirrorFailure verifies a live page that rejects the replay is reported as an error.
func TestSolveMirrorFailure(t *testing.T) {
	h := newHarness(t, `<div class="question" id="q1">`+radioQuestion+`</div>`, answerIDs("opt-a"), nil)
	h.session.cfg.Mirror = failingMirror{}
	report, err := h.session.Solve(testutil.Context(t, 0), "q1")
	if err != nil {
		t.Fatalf("solve: %v", err)
	}
	if report.Status != StatusError || report.Result == nil || !report.Result.OK {
		t.Fatalf("expected applied snapshot with mirror error, got %+v", report)
	}
}
