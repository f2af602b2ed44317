// Package transport sends normalized questions to a remote model and
// returns its loosely structured answer.
package transport

import (
	"context"
	"fmt"

	"quizpilot/internal/question"
)

// Status classifies an Outcome.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
	StatusTimeout Status = "timeout"
)

// Outcome is the result of one remote request.
type Outcome struct {
	Status     Status              `json:"status"`
	Suggestion question.Suggestion `json:"suggestion"`
	Message    string              `json:"message,omitempty"`
	Raw        string              `json:"raw,omitempty"`
}

// Transport answers questions.
type Transport interface {
	Ask(ctx context.Context, req Request) Outcome
}

// Func adapts a function to Transport.
type Func func(ctx context.Context, req Request) Outcome

// Ask calls f.
func (f Func) Ask(ctx context.Context, req Request) Outcome {
	return f(ctx, req)
}

// Success wraps a suggestion.
func Success(s question.Suggestion) Outcome {
	return Outcome{Status: StatusSuccess, Suggestion: s}
}

// Failure builds an error outcome.
func Failure(format string, args ...any) Outcome {
	return Outcome{Status: StatusError, Message: fmt.Sprintf(format, args...)}
}

// Timeout builds a timeout outcome.
func Timeout(format string, args ...any) Outcome {
	return Outcome{Status: StatusTimeout, Message: fmt.Sprintf(format, args...)}
}
