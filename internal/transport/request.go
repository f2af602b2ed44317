package transport

import (
	"quizpilot/internal/question"
)

// ChoiceDescriptor is the model-facing view of one choice.
type ChoiceDescriptor struct {
	ID     string        `json:"id"`
	Label  string        `json:"label"`
	Kind   question.Kind `json:"kind"`
	Value  string        `json:"value,omitempty"`
	Index  int           `json:"index"`
	Letter string        `json:"letter"`
}

// Request is the payload for one question.
type Request struct {
	QuestionID string             `json:"questionId"`
	Type       question.Type      `json:"type"`
	Text       string             `json:"text"`
	Choices    []ChoiceDescriptor `json:"choices"`
	QuizTitle  string             `json:"quizTitle,omitempty"`
	Number     int                `json:"number,omitempty"`
	Image      []byte             `json:"-"`
	ImageType  string             `json:"-"`
}

// NewRequest describes q for the model. The screenshot is attached
// separately because capture may fail without blocking the request.
func NewRequest(q question.Question, quizTitle string) Request {
	choices := make([]ChoiceDescriptor, 0, len(q.Choices))
	for i, choice := range q.Choices {
		choices = append(choices, ChoiceDescriptor{
			ID:     choice.ID,
			Label:  choice.Label,
			Kind:   choice.Kind,
			Value:  choice.Value,
			Index:  i + 1,
			Letter: question.DeriveChoiceLetter(i),
		})
	}
	return Request{
		QuestionID: q.ID,
		Type:       q.Type,
		Text:       q.Text,
		Choices:    choices,
		QuizTitle:  quizTitle,
		Number:     q.Number,
	}
}

// WithImage returns a copy of r carrying a PNG screenshot. Empty images
// leave the request text-only.
func (r Request) WithImage(png []byte) Request {
	if len(png) == 0 {
		r.Image, r.ImageType = nil, ""
		return r
	}
	r.Image = png
	r.ImageType = "image/png"
	return r
}
