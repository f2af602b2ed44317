package solver

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"quizpilot/internal/answer"
	"quizpilot/internal/audit"
	"quizpilot/internal/question"
	"quizpilot/internal/screenshot"
	"quizpilot/internal/transport"
)

// Report is the outcome of one solve attempt.
type Report struct {
	QuestionID string            `json:"questionId"`
	Status     Status            `json:"status"`
	Detail     string            `json:"detail"`
	Outcome    transport.Outcome `json:"outcome"`
	Result     *answer.Result    `json:"result,omitempty"`
}

// Solve answers one attached question. The question is parsed fresh from the
// live document before the request and again before applying, so re-renders
// during the request are tolerated. It returns ErrInFlight while another
// solve of the same question runs.
func (s *Session) Solve(ctx context.Context, id string) (Report, error) {
	s.mu.Lock()
	e, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return Report{}, fmt.Errorf("%w: %s", ErrUnknownQuestion, id)
	}
	if e.status == StatusSolving {
		s.mu.Unlock()
		return Report{}, fmt.Errorf("%w: %s", ErrInFlight, id)
	}
	e.status = StatusSolving
	e.detail = ""
	e.applied, e.reason = nil, ""
	event := s.eventLocked(e)
	title := s.title
	s.mu.Unlock()
	s.cfg.Observer.OnQuestionEvent(event)

	started := s.cfg.Clock.Now()
	logger := s.cfg.Logger.With(zap.String("question", id))
	attempt := audit.Attempt{
		SessionID: s.id,
		PageURL:   s.pageURL(),
		Adapter:   s.cfg.Adapter.Name(),
		StartedAt: started,
	}

	q, path, err := s.reparse(e)
	if err != nil {
		report := Report{QuestionID: id, Status: StatusError, Detail: err.Error()}
		s.finish(ctx, e, report, nil, attempt)
		return report, err
	}
	attempt.Question = q

	image := screenshot.Take(ctx, s.cfg.Screenshots, screenshot.Target{QuestionID: id, Selector: path}, logger)
	req := transport.NewRequest(q, title).WithImage(image)
	logger.Debug("requesting answer", zap.Int("choices", len(req.Choices)), zap.Bool("image", len(image) > 0))
	outcome := s.cfg.Transport.Ask(ctx, req)
	attempt.Suggestion = outcome.Suggestion

	switch outcome.Status {
	case transport.StatusSuccess:
	case transport.StatusTimeout:
		report := Report{QuestionID: id, Status: StatusTimeout, Detail: outcome.Message, Outcome: outcome}
		s.finish(ctx, e, report, &q, attempt)
		return report, nil
	default:
		report := Report{QuestionID: id, Status: StatusError, Detail: outcome.Message, Outcome: outcome}
		s.finish(ctx, e, report, &q, attempt)
		return report, nil
	}

	fresh, _, err := s.reparse(e)
	if err != nil {
		report := Report{QuestionID: id, Status: StatusError, Detail: err.Error(), Outcome: outcome}
		s.finish(ctx, e, report, &q, attempt)
		return report, err
	}
	attempt.Question = fresh

	result := answer.Apply(s.cfg.Document, fresh, outcome.Suggestion)
	report := Report{QuestionID: id, Outcome: outcome, Result: &result, Detail: result.Detail()}
	if !result.OK {
		report.Status = StatusError
		s.finish(ctx, e, report, &fresh, attempt)
		return report, nil
	}
	report.Status = StatusSuccess
	if s.cfg.Mirror != nil && len(result.Changes) > 0 {
		if err := s.cfg.Mirror.Mirror(ctx, result.Changes); err != nil {
			logger.Warn("mirror failed", zap.Error(err))
			report.Status = StatusError
			report.Detail = fmt.Sprintf("%s (live page not updated: %v)", report.Detail, err)
		}
	}
	s.finish(ctx, e, report, &fresh, attempt)
	return report, nil
}

func (s *Session) finish(ctx context.Context, e *entry, report Report, q *question.Question, attempt audit.Attempt) {
	s.transition(e, report, q)
	logger := s.cfg.Logger.With(zap.String("question", e.id), zap.String("status", string(report.Status)))
	if report.Status == StatusSuccess {
		logger.Info("answer applied", zap.String("detail", report.Detail))
	} else {
		logger.Warn("solve failed", zap.String("detail", report.Detail))
	}
	if s.cfg.Recorder == nil {
		return
	}
	if attempt.Question.ID == "" {
		attempt.Question = question.Question{ID: e.id, Type: e.qtype, Text: e.text}
	}
	attempt.Outcome = string(report.Status)
	attempt.Detail = report.Detail
	if report.Result != nil {
		attempt.Reason = string(report.Result.Reason)
	}
	attempt.FinishedAt = s.cfg.Clock.Now()
	// A cancelled solve still deserves an audit row.
	recordCtx := context.WithoutCancel(ctx)
	if _, err := s.cfg.Recorder.Record(recordCtx, attempt); err != nil {
		logger.Warn("audit record failed", zap.Error(err))
	}
}

func (s *Session) pageURL() string {
	var out string
	s.cfg.Document.Do(func() { out = s.cfg.Document.URL() })
	return out
}

// Summary counts question statuses.
type Summary struct {
	SessionID string   `json:"sessionId"`
	Total     int      `json:"total"`
	Idle      int      `json:"idle"`
	Success   int      `json:"success"`
	Error     int      `json:"error"`
	Timeout   int      `json:"timeout"`
	Reports   []Report `json:"reports,omitempty"`
}

// Summary reports the current status counts.
func (s *Session) Summary() Summary {
	summary := Summary{SessionID: s.id}
	for _, q := range s.Questions() {
		summary.Total++
		switch q.Status {
		case StatusIdle, StatusSolving:
			summary.Idle++
		case StatusSuccess:
			summary.Success++
		case StatusError:
			summary.Error++
		case StatusTimeout:
			summary.Timeout++
		}
	}
	return summary
}

// SolveAll solves every attached question in attach order. Questions
// already in flight are skipped.
func (s *Session) SolveAll(ctx context.Context) Summary {
	var reports []Report
	for _, q := range s.Questions() {
		if ctx.Err() != nil {
			break
		}
		report, err := s.Solve(ctx, q.ID)
		if errors.Is(err, ErrInFlight) {
			continue
		}
		reports = append(reports, report)
	}
	summary := s.Summary()
	summary.Reports = reports
	return summary
}
