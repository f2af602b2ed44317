package solver

import (
	"sync"

	"golang.org/x/net/html"

	"quizpilot/internal/dom"
	"quizpilot/internal/platform"
	"quizpilot/internal/question"
)

// Inventory parses every question an adapter finds on a static page, under
// unique ids in discovery order, and returns them with the quiz title.
func Inventory(doc *dom.Document, adapter platform.Adapter) (string, []question.Question) {
	var title string
	doc.Do(func() { title = adapter.QuizTitle(doc) })

	var mu sync.Mutex
	var questions []question.Question
	ids := question.NewIDRegistry()
	stop := adapter.ObserveQuestions(doc, func(container *html.Node, fallbackIndex int) {
		var q question.Question
		doc.Do(func() { q = adapter.ParseQuestion(container, fallbackIndex) })
		mu.Lock()
		defer mu.Unlock()
		q.ID = ids.Claim(q.ID)
		questions = append(questions, q)
	})
	stop()

	mu.Lock()
	defer mu.Unlock()
	return title, questions
}
