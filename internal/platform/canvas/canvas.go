// Package canvas recognizes Canvas LMS classic quizzes.
package canvas

import (
	"strings"

	"quizpilot/internal/dom"
	"quizpilot/internal/labels"
	"quizpilot/internal/platform"
)

// Name identifies the adapter.
const Name = "canvas"

// URLPatterns gate detection to quiz pages of hosted Canvas instances.
var URLPatterns = []string{
	"*://*.instructure.com/courses/*/quizzes/*",
}

// HostPatterns are the hosts a live browser may open for Canvas.
var HostPatterns = []string{"*.instructure.com"}

// Profile is the Canvas page signature. Canvas renders quizzes client side
// and changes pages without reloads, so the URL is polled.
var Profile = platform.Profile{
	Name:               Name,
	URLPatterns:        URLPatterns,
	ContainerSelectors: []string{".display_question.question"},
	PromptSelector:     ".question_text",
	NumberSelector:     ".question_name",
	TitleSelectors:     []string{"#quiz_title", ".quiz-header h1", "header.quiz-header h2"},
	PollURL:            true,
}

// Adapter is the Canvas variant.
type Adapter struct {
	*platform.Host
}

// New returns a Canvas adapter.
func New(opts platform.Options) *Adapter {
	return &Adapter{Host: platform.MustHost(Profile, opts)}
}

// QuizTitle reads the quiz heading, falling back to the document title
// without the course name Canvas appends after a colon.
func (a *Adapter) QuizTitle(doc *dom.Document) string {
	for _, selector := range Profile.TitleSelectors {
		if n := dom.Query(doc.Root(), selector); n != nil {
			if text := labels.Text(n); text != "" {
				return text
			}
		}
	}
	title := doc.Title()
	if before, _, ok := strings.Cut(title, ": "); ok {
		return before
	}
	return title
}
