package question

import "golang.org/x/net/html"

// Kind is the widget family a choice belongs to.
type Kind string

const (
	KindSingle Kind = "single"
	KindMulti  Kind = "multi"
	KindText   Kind = "text"
	KindSelect Kind = "select"
)

// Type is the inferred answer shape of a question.
type Type string

const (
	TypeSingle  Type = "single"
	TypeMulti   Type = "multi"
	TypeText    Type = "text"
	TypeSelect  Type = "select"
	TypeUnknown Type = "unknown"
)

// Choice is one selectable or fillable unit of a question. Widget references
// the live form control; several select choices share one <select>.
type Choice struct {
	ID     string     `json:"id"`
	Label  string     `json:"label"`
	Kind   Kind       `json:"kind"`
	Value  string     `json:"value,omitempty"`
	Widget *html.Node `json:"-"`
}

// Question is one assessable unit on the page. Questions are derived from
// the live document on every use and never cached.
type Question struct {
	ID      string     `json:"id"`
	Type    Type       `json:"type"`
	Text    string     `json:"text"`
	HTML    string     `json:"html,omitempty"`
	Number  int        `json:"number,omitempty"`
	Choices []Choice   `json:"choices"`
	Root    *html.Node `json:"-"`
}

// Widgets returns the distinct widgets referenced by the choices in order of
// first appearance.
func (q Question) Widgets() []*html.Node {
	seen := map[*html.Node]struct{}{}
	var out []*html.Node
	for _, choice := range q.Choices {
		if choice.Widget == nil {
			continue
		}
		if _, ok := seen[choice.Widget]; ok {
			continue
		}
		seen[choice.Widget] = struct{}{}
		out = append(out, choice.Widget)
	}
	return out
}

// KindFor returns the choice kind that a question type carries.
func KindFor(t Type) (Kind, bool) {
	switch t {
	case TypeSingle:
		return KindSingle, true
	case TypeMulti:
		return KindMulti, true
	case TypeText:
		return KindText, true
	case TypeSelect:
		return KindSelect, true
	}
	return "", false
}

// InferType picks the question type from the widget families present.
// Radios win over checkboxes, checkboxes over dropdowns, dropdowns over text.
func InferType(kinds ...Kind) Type {
	present := map[Kind]bool{}
	for _, kind := range kinds {
		present[kind] = true
	}
	switch {
	case present[KindSingle]:
		return TypeSingle
	case present[KindMulti]:
		return TypeMulti
	case present[KindSelect]:
		return TypeSelect
	case present[KindText]:
		return TypeText
	}
	return TypeUnknown
}
