package labels

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"quizpilot/internal/dom"
)

// AnswerTextFilter returns a predicate matching the nodes under root that
// carry the text of an individual answer rather than the question prompt:
// labels, and for radios and checkboxes the answer container holding the
// widget and the sibling text that follows it. It is meant as the skip
// argument of PromptText.
func AnswerTextFilter(root *html.Node) func(*html.Node) bool {
	owned := map[*html.Node]bool{}
	for _, widget := range dom.Widgets(root) {
		if id := dom.Attr(widget, "id"); id != "" {
			for _, label := range dom.QueryAll(root, dom.AttrSelector("label", "for", id)) {
				owned[label] = true
			}
		}
		kind := dom.Widget(widget)
		if kind != dom.WidgetRadio && kind != dom.WidgetCheckbox {
			continue
		}
		for cur := widget.Parent; cur != nil && cur != root; cur = cur.Parent {
			if cur.DataAtom == atom.Label {
				owned[cur] = true
			}
			if len(dom.Widgets(cur)) != 1 {
				break
			}
			if IsAnswerContainer(cur) || cur == widget.Parent {
				owned[cur] = true
			}
		}
		for sib := widget.NextSibling; sib != nil; sib = sib.NextSibling {
			if dom.Widget(sib) != dom.WidgetNone || len(dom.Widgets(sib)) > 0 {
				break
			}
			if dom.IsElement(sib) && sib.DataAtom == atom.Br {
				break
			}
			owned[sib] = true
		}
	}
	return func(n *html.Node) bool {
		return owned[n]
	}
}
