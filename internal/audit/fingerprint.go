package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"quizpilot/internal/question"
)

type choiceKey struct {
	Label string        `json:"label"`
	Kind  question.Kind `json:"kind"`
	Value string        `json:"value"`
}

// QuestionKey fingerprints the parts of a question that parsing must
// reproduce, so repeated attempts at the same question share a key.
func QuestionKey(q question.Question) (string, error) {
	choices := make([]choiceKey, 0, len(q.Choices))
	for _, choice := range q.Choices {
		choices = append(choices, choiceKey{Label: choice.Label, Kind: choice.Kind, Value: choice.Value})
	}
	data, err := json.Marshal(struct {
		Type    question.Type `json:"type"`
		Text    string        `json:"text"`
		Choices []choiceKey   `json:"choices"`
	}{q.Type, q.Text, choices})
	if err != nil {
		return "", err
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}
