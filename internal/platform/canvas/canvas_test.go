package canvas

import (
	"os"
	"testing"

	"quizpilot/internal/dom"
	"quizpilot/internal/platform"
	"quizpilot/internal/question"
)

const quizURL = "https://school.instructure.com/courses/42/quizzes/7/take"

func loadFixture(t *testing.T, pageURL string) *dom.Document {
	t.Helper()
	file, err := os.Open("testdata/quiz.html")
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	defer file.Close()
	doc, err := dom.Parse(file, pageURL)
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

// TestCanvasParsesQuiz verifies Canvas question markup maps to normalized questions.
func TestCanvasParsesQuiz(t *testing.T) {
	doc := loadFixture(t, quizURL)
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
	if !quiz {
		t.Fatalf("expected quiz page")
	}
	if title != "Week 3 Check-in" {
		t.Fatalf("unexpected title %q", title)
	}
	if len(questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(questions))
	}
	single := questions[0]
	if single.ID != "question_1001" || single.Type != question.TypeSingle || single.Number != 1 {
		t.Fatalf("unexpected first question %+v", single)
	}
	if single.Text != "Which organelle produces ATP?" {
		t.Fatalf("unexpected prompt %q", single.Text)
	}
	if len(single.Choices) != 3 || single.Choices[1].Label != "Mitochondria" || single.Choices[1].ID != "question_1001_answer_12" {
		t.Fatalf("unexpected choices %+v", single.Choices)
	}
	if questions[1].Type != question.TypeMulti || questions[1].Choices[0].Label != "E. coli" {
		t.Fatalf("unexpected second question %+v", questions[1])
	}
	dropdowns := questions[2]
	if dropdowns.Type != question.TypeSelect || len(dropdowns.Choices) != 4 {
		t.Fatalf("unexpected dropdown question %+v", dropdowns)
	}
	if dropdowns.Text != "DNA is copied by [Dropdown 1] during [Dropdown 2] ." {
		t.Fatalf("unexpected dropdown prompt %q", dropdowns.Text)
	}
	if dropdowns.Choices[0].ID != "question_1003_enzyme::31" || dropdowns.Choices[2].Label != "phase: S phase" {
		t.Fatalf("unexpected dropdown choices %+v", dropdowns.Choices)
	}
}

// TestCanvasRejectsOtherHosts verifies the URL precondition gates detection.
func TestCanvasRejectsOtherHosts(t *testing.T) {
	doc := loadFixture(t, "https://example.com/courses/42/quizzes/7")
	adapter := New(platform.Options{})
	var quiz bool
	doc.Do(func() { quiz = adapter.IsQuizPage(doc) })
	if quiz {
		t.Fatalf("expected other hosts to be rejected")
	}
}
