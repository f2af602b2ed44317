// Package moodle recognizes Moodle quiz attempt pages.
package moodle

import (
	"strings"

	"golang.org/x/net/html"

	"quizpilot/internal/dom"
	"quizpilot/internal/labels"
	"quizpilot/internal/platform"
	"quizpilot/internal/question"
)

// Name identifies the adapter.
const Name = "moodle"

// URLPatterns match the attempt page of any Moodle site.
var URLPatterns = []string{"*://*/mod/quiz/attempt.php*"}

// HostPatterns are the hosts a live browser may open for Moodle. Sites on
// other domains are added through configuration.
var HostPatterns = []string{"*moodle*"}

// Profile is the Moodle page signature.
var Profile = platform.Profile{
	Name:               Name,
	URLPatterns:        URLPatterns,
	ContainerSelectors: []string{".que"},
	PromptSelector:     ".qtext",
	NumberSelector:     ".info .qno",
	TitleSelectors:     []string{".page-header-headings h1", "#page-header h1", "#region-main h2"},
}

// Adapter is the Moodle variant.
type Adapter struct {
	*platform.Host
}

// New returns a Moodle adapter.
func New(opts platform.Options) *Adapter {
	return &Adapter{Host: platform.MustHost(Profile, opts)}
}

// ParseQuestion drops the "a." enumeration Moodle prints inside every
// answer label.
func (a *Adapter) ParseQuestion(container *html.Node, fallbackIndex int) question.Question {
	q := a.Host.ParseQuestion(container, fallbackIndex)
	for i, choice := range q.Choices {
		if choice.Kind != question.KindSingle && choice.Kind != question.KindMulti {
			continue
		}
		number := answerNumber(choice.Widget)
		if number == "" {
			continue
		}
		if trimmed := question.SanitizeText(strings.TrimPrefix(choice.Label, number)); trimmed != "" {
			q.Choices[i].Label = trimmed
		}
	}
	return q
}

func answerNumber(widget *html.Node) string {
	if widget == nil || widget.Parent == nil {
		return ""
	}
	if n := dom.Query(widget.Parent, ".answernumber"); n != nil {
		return labels.Text(n)
	}
	return ""
}
