package question

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Suggestion is the loosely formatted answer a remote model returns. Both
// fields are untrusted hints that answer resolution matches against choices.
type Suggestion struct {
	ChoiceIDs IDList     `json:"answerChoiceIds" yaml:"choice_ids"`
	Text      AnswerText `json:"answerText" yaml:"text"`
	Reasoning string     `json:"reasoning,omitempty" yaml:"reasoning,omitempty"`
}

// Empty reports whether the suggestion claims nothing at all.
func (s Suggestion) Empty() bool {
	return len(s.ChoiceIDs.Normalized()) == 0 && s.Text.Empty()
}

// IDList is a list of claimed identifiers. It decodes from a list of
// strings or numbers, a bare string, a bare number, or null.
type IDList []string

// Normalized returns the non-empty identifiers after NormalizeID.
func (l IDList) Normalized() []string {
	out := make([]string, 0, len(l))
	for _, id := range l {
		if normalized := NormalizeID(id); normalized != "" {
			out = append(out, normalized)
		}
	}
	return out
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *IDList) UnmarshalJSON(data []byte) error {
	values, _, err := decodeLoose(data)
	if err != nil {
		return fmt.Errorf("answerChoiceIds: %w", err)
	}
	*l = values
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *IDList) UnmarshalYAML(node *yaml.Node) error {
	values, _, err := decodeLooseYAML(node)
	if err != nil {
		return err
	}
	*l = values
	return nil
}

// AnswerText is the free-form payload: a single string or a list of strings.
type AnswerText struct {
	values []string
	list   bool
}

// TextOf builds a single-string payload.
func TextOf(value string) AnswerText {
	return AnswerText{values: []string{value}}
}

// TextList builds a list payload.
func TextList(values ...string) AnswerText {
	return AnswerText{values: append([]string(nil), values...), list: true}
}

// Joined returns the payload as one string, list entries joined by newline.
func (t AnswerText) Joined() string {
	return strings.Join(t.values, "\n")
}

// Empty reports whether the payload has no visible text.
func (t AnswerText) Empty() bool {
	return strings.TrimSpace(t.Joined()) == ""
}

// Texts returns the trimmed, non-empty lines of the payload for label matching.
func (t AnswerText) Texts() []string {
	var out []string
	for _, value := range t.values {
		for _, line := range strings.Split(value, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				out = append(out, line)
			}
		}
	}
	return out
}

// Parts splits the payload into one entry per dropdown for n dropdowns. A
// list is used as is. A single string is kept whole for one dropdown;
// otherwise it splits on newlines, then semicolons, then commas, taking the
// first separator that yields exactly n parts. When none does, the whole
// string is the only part, so option labels containing a separator are
// never torn apart.
func (t AnswerText) Parts(n int) []string {
	if t.list {
		out := make([]string, 0, len(t.values))
		for _, value := range t.values {
			out = append(out, strings.TrimSpace(value))
		}
		return out
	}
	joined := strings.TrimSpace(t.Joined())
	if joined == "" {
		return nil
	}
	if n > 1 {
		for _, sep := range []string{"\n", ";", ","} {
			if parts := splitTrim(joined, sep); len(parts) == n {
				return parts
			}
		}
	}
	return []string{joined}
}

// MarshalJSON writes a string for single payloads and an array for lists.
func (t AnswerText) MarshalJSON() ([]byte, error) {
	if t.list {
		return json.Marshal(t.values)
	}
	if len(t.values) == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(t.values[0])
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *AnswerText) UnmarshalJSON(data []byte) error {
	values, list, err := decodeLoose(data)
	if err != nil {
		return fmt.Errorf("answerText: %w", err)
	}
	*t = AnswerText{values: values, list: list}
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *AnswerText) UnmarshalYAML(node *yaml.Node) error {
	values, list, err := decodeLooseYAML(node)
	if err != nil {
		return err
	}
	*t = AnswerText{values: values, list: list}
	return nil
}

// ErrMissingAnswer indicates that no JSON object was found in model output.
var ErrMissingAnswer = errors.New("missing answer object")

// ExtractAnswerJSON returns the outermost JSON object in model output,
// ignoring code fences and surrounding prose.
func ExtractAnswerJSON(output string) (string, error) {
	trimmed := strings.TrimSpace(output)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
		if newline := strings.IndexByte(trimmed, '\n'); newline >= 0 {
			trimmed = trimmed[newline+1:]
		}
		trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	}
	start := strings.IndexByte(trimmed, '{')
	end := strings.LastIndexByte(trimmed, '}')
	if start == -1 || end < start {
		return "", ErrMissingAnswer
	}
	return trimmed[start : end+1], nil
}

// ParseSuggestion decodes an answer object. An object that claims nothing
// decodes to an empty suggestion; resolution reports it with diagnostics.
func ParseSuggestion(fragment string) (Suggestion, error) {
	var suggestion Suggestion
	if err := json.Unmarshal([]byte(fragment), &suggestion); err != nil {
		return Suggestion{}, fmt.Errorf("parse answer json: %w", err)
	}
	return suggestion, nil
}

// ParseSuggestionFromOutput extracts and decodes the answer object in output.
func ParseSuggestionFromOutput(output string) (Suggestion, error) {
	fragment, err := ExtractAnswerJSON(output)
	if err != nil {
		return Suggestion{}, err
	}
	return ParseSuggestion(fragment)
}

func decodeLoose(data []byte) ([]string, bool, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, false, nil
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, false, err
	}
	switch value := raw.(type) {
	case []any:
		out := make([]string, 0, len(value))
		for i, item := range value {
			text, ok := scalarString(item)
			if !ok {
				return nil, false, fmt.Errorf("entry %d is not a string", i)
			}
			out = append(out, text)
		}
		return out, true, nil
	default:
		text, ok := scalarString(value)
		if !ok {
			return nil, false, fmt.Errorf("unsupported value %s", string(data))
		}
		return []string{text}, false, nil
	}
}

func decodeLooseYAML(node *yaml.Node) ([]string, bool, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return nil, false, nil
		}
		return []string{node.Value}, false, nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(node.Content))
		for i, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, false, fmt.Errorf("line %d: entry %d is not a scalar", item.Line, i)
			}
			out = append(out, item.Value)
		}
		return out, true, nil
	}
	return nil, false, fmt.Errorf("line %d: expected a string or a list", node.Line)
}

func scalarString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	}
	return "", false
}

func splitTrim(value, sep string) []string {
	var out []string
	for _, part := range strings.Split(value, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
