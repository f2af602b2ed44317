//go:build cucumber

package answer

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"quizpilot/internal/dom"
	"quizpilot/internal/platform"
	"quizpilot/internal/question"
)

// TestApplyScenarios runs the answer application feature scenarios.
func TestApplyScenarios(t *testing.T) {
	suite := godog.TestSuite{
		Name:                "answer-apply",
		ScenarioInitializer: InitializeApplyScenario,
		Options: &godog.Options{
			Format:    "pretty",
			Paths:     []string{filepath.Join("testdata", "features")},
			Strict:    true,
			TestingT:  t,
			Randomize: 0,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

// InitializeApplyScenario wires steps for answer application scenarios.
func InitializeApplyScenario(ctx *godog.ScenarioContext) {
	state := &applyScenarioState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		state.reset()
		return ctx, nil
	})

	ctx.Step(`^the quiz page:$`, state.givenQuizPage)
	ctx.Step(`^the model answers ids "([^"]*)"$`, state.whenModelAnswersIDs)
	ctx.Step(`^the model answers text "([^"]*)"$`, state.whenModelAnswersText)
	ctx.Step(`^the result is a success$`, state.thenSuccess)
	ctx.Step(`^the result fails with reason "([^"]+)"$`, state.thenFailsWith)
	ctx.Step(`^the checked widgets are "([^"]*)"$`, state.thenChecked)
	ctx.Step(`^widget "([^"]+)" received (\d+) change events?$`, state.thenChangeEvents)
}

// applyScenarioState holds the page and the last result of a scenario.
type applyScenarioState struct {
	doc     *dom.Document
	changes map[string]int
	result  Result
}

func (s *applyScenarioState) reset() {
	s.doc = nil
	s.changes = map[string]int{}
	s.result = Result{}
}

func (s *applyScenarioState) givenQuizPage(markup *godog.DocString) error {
	doc, err := dom.ParseString(markup.Content, "https://quiz.test/q")
	if err != nil {
		return err
	}
	doc.Do(func() {
		doc.AddEventListener(doc.Body(), "change", func(event dom.Event) {
			s.changes[dom.Attr(event.Target, "id")]++
		})
	})
	s.doc = doc
	return nil
}

func (s *applyScenarioState) apply(suggestion question.Suggestion) error {
	if s.doc == nil {
		return fmt.Errorf("page not loaded")
	}
	var q question.Question
	s.doc.Do(func() {
		if container := dom.Query(s.doc.Root(), ".question"); container != nil {
			q = platform.ParseContainer(container, 0, platform.Profile{PromptSelector: ".prompt"})
		}
	})
	s.result = Apply(s.doc, q, suggestion)
	return nil
}

func (s *applyScenarioState) whenModelAnswersIDs(ids string) error {
	var list question.IDList
	for _, id := range strings.Split(ids, ",") {
		list = append(list, strings.TrimSpace(id))
	}
	return s.apply(question.Suggestion{ChoiceIDs: list})
}

func (s *applyScenarioState) whenModelAnswersText(text string) error {
	return s.apply(question.Suggestion{Text: question.TextOf(text)})
}

func (s *applyScenarioState) thenSuccess() error {
	if !s.result.OK {
		return fmt.Errorf("expected success, got %s", s.result.Detail())
	}
	return nil
}

func (s *applyScenarioState) thenFailsWith(reason string) error {
	if s.result.OK || string(s.result.Reason) != reason {
		return fmt.Errorf("expected failure %q, got %+v", reason, s.result)
	}
	return nil
}

func (s *applyScenarioState) thenChecked(expected string) error {
	var got []string
	s.doc.Do(func() {
		for _, n := range dom.Widgets(s.doc.Root()) {
			if dom.IsChecked(n) {
				got = append(got, dom.Attr(n, "id"))
			}
		}
	})
	sort.Strings(got)
	if strings.Join(got, ",") != expected {
		return fmt.Errorf("expected checked %q, got %q", expected, strings.Join(got, ","))
	}
	return nil
}

func (s *applyScenarioState) thenChangeEvents(id string, count int) error {
	if s.changes[id] != count {
		return fmt.Errorf("expected %d change events on %s, got %d", count, id, s.changes[id])
	}
	return nil
}
