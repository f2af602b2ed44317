package moodle

import (
	"os"
	"testing"

	"quizpilot/internal/dom"
	"quizpilot/internal/platform"
	"quizpilot/internal/question"
)

// TestMoodleParsesAttempt verifies Moodle attempt markup maps to normalized questions.
func TestMoodleParsesAttempt(t *testing.T) {
	file, err := os.Open("testdata/attempt.html")
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	defer file.Close()
	doc, err := dom.Parse(file, "https://moodle.school.edu/mod/quiz/attempt.php?attempt=9&cmid=3")
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	adapter := New(platform.Options{})
	var questions []question.Question
	var title string
	var quiz bool
	doc.Do(func() {
		quiz = adapter.IsQuizPage(doc)
		title = adapter.QuizTitle(doc)
		for i, container := range platform.Discover(doc.Root(), Profile) {
			questions = append(questions, adapter.ParseQuestion(container, i))
		}
	})
	if !quiz || title != "Algebra Basics" {
		t.Fatalf("unexpected detection quiz=%v title=%q", quiz, title)
	}
	if len(questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(questions))
	}
	single := questions[0]
	if single.ID != "question-88-1" || single.Number != 1 || single.Type != question.TypeSingle {
		t.Fatalf("unexpected first question %+v", single)
	}
	if single.Text != "Solve x − 2 = 0." {
		t.Fatalf("unexpected prompt %q", single.Text)
	}
	if single.Choices[0].Label != "x = 2" || single.Choices[1].Label != "x = −2" {
		t.Fatalf("expected enumeration to be stripped, got %+v", single.Choices)
	}
	text := questions[1]
	if text.Type != question.TypeText || text.Choices[0].Label != "Answer:" || text.Choices[0].ID != "q88:2_answer" {
		t.Fatalf("unexpected text question %+v", text)
	}
	gap := questions[2]
	if gap.Type != question.TypeSelect || len(gap.Choices) != 2 {
		t.Fatalf("unexpected gap question %+v", gap)
	}
	if gap.Text != "The slope of y = 3x is [Dropdown 1] ." || gap.Choices[0].ID != "q88:3_p1::1" {
		t.Fatalf("unexpected gap question text %q choices %+v", gap.Text, gap.Choices)
	}
}
