// Package labels resolves human-readable text for quiz widgets.
package labels

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"quizpilot/internal/dom"
	"quizpilot/internal/question"
)

// TextSelector matches elements that hold the visible text of one answer.
const TextSelector = ".answer_label, .answer_text, .answer-text, .answer-label, " +
	"[data-region=answer-label], .flex-fill, .option-text, .choice-text, .label, label"

// ResolveLabel returns the first non-empty text among, in order: the
// data-label attribute, aria-label, the aria-labelledby targets,
// label[for=id] within root and then the whole page, the wrapping <label>,
// the answer container around the widget, and the raw value. Selects never
// fall back to their value. The result is "" when nothing yields text.
func ResolveLabel(widget, root *html.Node) string {
	if widget == nil {
		return ""
	}
	for _, resolve := range chain {
		if text := resolve(widget, root); text != "" {
			return text
		}
	}
	return ""
}

var chain = []func(widget, root *html.Node) string{
	fromAttr("data-label"),
	fromAttr("aria-label"),
	fromLabelledBy,
	fromLabelFor,
	fromWrappingLabel,
	fromAnswerContainer,
	fromValue,
}

func fromAttr(name string) func(widget, root *html.Node) string {
	return func(widget, _ *html.Node) string {
		return question.SanitizeText(dom.Attr(widget, name))
	}
}

func fromLabelledBy(widget, _ *html.Node) string {
	ids := strings.Fields(dom.Attr(widget, "aria-labelledby"))
	if len(ids) == 0 {
		return ""
	}
	page := dom.TopAncestor(widget)
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		if target := dom.ElementByID(page, id); target != nil {
			if text := Text(target); text != "" {
				parts = append(parts, text)
			}
		}
	}
	return strings.Join(parts, " ")
}

func fromLabelFor(widget, root *html.Node) string {
	id := dom.Attr(widget, "id")
	if id == "" {
		return ""
	}
	selector := dom.AttrSelector("label", "for", id)
	for _, scope := range []*html.Node{root, dom.TopAncestor(widget)} {
		if scope == nil {
			continue
		}
		if label := dom.Query(scope, selector); label != nil {
			if text := Text(label); text != "" {
				return text
			}
		}
	}
	return ""
}

func fromWrappingLabel(widget, _ *html.Node) string {
	label := dom.ClosestFunc(widget.Parent, nil, func(n *html.Node) bool {
		return n.DataAtom == atom.Label
	})
	if label == nil {
		return ""
	}
	return Text(label)
}

// fromAnswerContainer reads the answer container holding only this widget:
// the nearest answer-like ancestor, or the immediate parent. A dedicated text
// element inside it is preferred over the text following the widget.
func fromAnswerContainer(widget, root *html.Node) string {
	container := dom.ClosestFunc(widget.Parent, root, IsAnswerContainer)
	if container == nil || len(dom.Widgets(container)) != 1 {
		container = widget.Parent
	}
	if container != nil && container != root && dom.IsElement(container) && len(dom.Widgets(container)) == 1 {
		for _, candidate := range dom.QueryAll(container, TextSelector) {
			if dom.Contains(candidate, widget) {
				continue
			}
			if text := Text(candidate); text != "" {
				return text
			}
		}
	}
	return followingText(widget)
}

// IsAnswerContainer reports whether an element carries an answer, option or
// choice class.
func IsAnswerContainer(n *html.Node) bool {
	for _, class := range dom.Classes(n) {
		lower := strings.ToLower(class)
		if strings.Contains(lower, "answer") || strings.Contains(lower, "option") || strings.Contains(lower, "choice") {
			return true
		}
	}
	return false
}

// followingText collects sibling text after the widget up to the next
// sibling that holds another widget.
func followingText(widget *html.Node) string {
	var parts []string
	for sib := widget.NextSibling; sib != nil; sib = sib.NextSibling {
		if dom.Widget(sib) != dom.WidgetNone || len(dom.Widgets(sib)) > 0 {
			break
		}
		if dom.IsElement(sib) && sib.DataAtom == atom.Br && len(parts) > 0 {
			break
		}
		if text := Text(sib); text != "" {
			parts = append(parts, text)
		}
	}
	return question.SanitizeText(strings.Join(parts, " "))
}

func fromValue(widget, _ *html.Node) string {
	if dom.Widget(widget) == dom.WidgetSelect {
		return ""
	}
	return question.SanitizeText(dom.Attr(widget, "value"))
}
