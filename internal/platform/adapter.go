// Package platform detects quiz pages, discovers question containers and
// parses them into normalized questions.
package platform

import (
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"quizpilot/internal/dom"
	"quizpilot/internal/labels"
	"quizpilot/internal/question"
)

// ContainerFunc receives each newly discovered question container with its
// 0-based position among the containers found by the same scan.
type ContainerFunc func(container *html.Node, fallbackIndex int)

// Adapter recognizes one quiz host.
//
// IsQuizPage, ParseQuestion and QuizTitle read the tree and must run inside
// doc.Do. ObserveQuestions locks the document itself and must not.
type Adapter interface {
	Name() string
	IsQuizPage(doc *dom.Document) bool
	ObserveQuestions(doc *dom.Document, fn ContainerFunc) (stop func())
	ParseQuestion(container *html.Node, fallbackIndex int) question.Question
	QuizTitle(doc *dom.Document) string
}

// Profile describes the structural signature of a host.
type Profile struct {
	Name string
	// URLPatterns gate IsQuizPage. Empty means every URL.
	URLPatterns []string
	// ContainerSelectors mark question containers explicitly. When empty,
	// containers are inferred by clustering widgets.
	ContainerSelectors []string
	// PromptSelector locates the prompt inside a container.
	PromptSelector string
	// NumberSelector locates the host question number inside a container.
	NumberSelector string
	// TitleSelectors are tried in order before the document title.
	TitleSelectors []string
	// PollURL enables URL polling for single-page apps.
	PollURL bool
	// Exclude drops discovered containers that are not questions.
	Exclude func(container *html.Node) bool
}

// Options tune observation.
type Options struct {
	Debounce time.Duration
	URLPoll  time.Duration
	Logger   *zap.Logger
}

const (
	DefaultDebounce = 300 * time.Millisecond
	DefaultURLPoll  = time.Second
)

func (o Options) normalized() Options {
	if o.Debounce <= 0 {
		o.Debounce = DefaultDebounce
	}
	if o.URLPoll <= 0 {
		o.URLPoll = DefaultURLPoll
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// Host implements Adapter for a Profile. Host packages embed it and
// override what their page structure needs.
type Host struct {
	profile  Profile
	patterns []Pattern
	opts     Options
}

// NewHost validates the profile and returns a Host.
func NewHost(profile Profile, opts Options) (*Host, error) {
	patterns, err := ParsePatterns(profile.URLPatterns)
	if err != nil {
		return nil, err
	}
	return &Host{profile: profile, patterns: patterns, opts: opts.normalized()}, nil
}

// MustHost is NewHost for built-in profiles.
func MustHost(profile Profile, opts Options) *Host {
	host, err := NewHost(profile, opts)
	if err != nil {
		panic(err)
	}
	return host
}

// Name returns the profile name.
func (h *Host) Name() string {
	return h.profile.Name
}

// Profile returns the host profile.
func (h *Host) Profile() Profile {
	return h.profile
}

// URLMatches reports whether rawURL satisfies the URL precondition.
func (h *Host) URLMatches(rawURL string) bool {
	if len(h.patterns) == 0 {
		return true
	}
	return MatchAny(h.patterns, rawURL)
}

// IsQuizPage reports whether the URL matches and at least one question
// container is present.
func (h *Host) IsQuizPage(doc *dom.Document) bool {
	if !h.URLMatches(doc.URL()) {
		return false
	}
	return len(Discover(doc.Root(), h.profile)) > 0
}

// ParseQuestion normalizes a container.
func (h *Host) ParseQuestion(container *html.Node, fallbackIndex int) question.Question {
	return ParseContainer(container, fallbackIndex, h.profile)
}

// QuizTitle returns the first title selector with text, else the document
// title.
func (h *Host) QuizTitle(doc *dom.Document) string {
	for _, selector := range h.profile.TitleSelectors {
		if n := dom.Query(doc.Root(), selector); n != nil {
			if text := labels.Text(n); text != "" {
				return text
			}
		}
	}
	return doc.Title()
}

// ObserveQuestions delivers every container found now and every new one
// that appears while the subscription is active.
func (h *Host) ObserveQuestions(doc *dom.Document, fn ContainerFunc) func() {
	return observe(doc, h, fn, h.opts)
}
