package transport

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"quizpilot/internal/question"
)

const instructions = `You answer quiz questions. Reply with a single JSON object and nothing else:
{"answerChoiceIds": [...], "answerText": ..., "reasoning": "..."}

- single: answerChoiceIds holds exactly one choice id.
- multi: answerChoiceIds holds every correct choice id.
- select: answerChoiceIds holds one choice id per dropdown, in order.
- text: answerText holds the text to type; answerChoiceIds is empty.
Use the ids exactly as given. Keep reasoning to one or two sentences.`

// contentPart is one element of a multimodal user message.
type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

// userContent renders the question as text plus an optional image part.
func userContent(req Request) ([]contentPart, error) {
	payload, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal question: %w", err)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Question type: %s\n", req.Type)
	if hint := typeHint(req.Type); hint != "" {
		b.WriteString(hint)
		b.WriteString("\n")
	}
	b.WriteString("Question:\n")
	b.Write(payload)
	parts := []contentPart{{Type: "text", Text: b.String()}}
	if len(req.Image) > 0 {
		parts = append(parts, contentPart{
			Type:     "image_url",
			ImageURL: &imageURL{URL: dataURI(req.ImageType, req.Image)},
		})
	}
	return parts, nil
}

func typeHint(t question.Type) string {
	switch t {
	case question.TypeSelect:
		return "Dropdowns appear in the text as [Dropdown N]; choice ids are dropdown::value."
	case question.TypeMulti:
		return "More than one choice may be correct."
	}
	return ""
}

func dataURI(mediaType string, data []byte) string {
	if mediaType == "" {
		mediaType = "image/png"
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
