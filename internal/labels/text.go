package labels

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"quizpilot/internal/dom"
	"quizpilot/internal/question"
)

// Text returns the sanitized text under n. When n has no text, the alt text
// of contained images is used instead.
func Text(n *html.Node) string {
	if text := question.SanitizeText(controlFreeText(n)); text != "" {
		return text
	}
	return altText(n)
}

// controlFreeText concatenates the text under n without the contents of
// form controls (option lists, textarea values, button captions).
func controlFreeText(n *html.Node) string {
	var b strings.Builder
	dom.Walk(n, func(cur *html.Node) bool {
		switch cur.Type {
		case html.TextNode:
			b.WriteString(cur.Data)
			b.WriteByte(' ')
		case html.ElementNode:
			switch cur.DataAtom {
			case atom.Script, atom.Style, atom.Template, atom.Noscript, atom.Select, atom.Textarea:
				return false
			case atom.Option, atom.Button:
				return cur == n
			}
		}
		return true
	})
	return b.String()
}

func altText(n *html.Node) string {
	var parts []string
	dom.Walk(n, func(cur *html.Node) bool {
		if dom.IsElement(cur) && cur.DataAtom == atom.Img {
			if alt := question.SanitizeText(dom.Attr(cur, "alt")); alt != "" {
				parts = append(parts, alt)
			}
		}
		return true
	})
	return strings.Join(parts, " ")
}

// Placeholder is the positional marker a dropdown takes inside prompt text.
func Placeholder(index int) string {
	return fmt.Sprintf("[Dropdown %d]", index)
}

// PromptText returns the sanitized text under n with every select listed in
// dropdowns replaced by its 1-based placeholder. Nodes for which skip returns
// true are left out along with their subtrees; skip may be nil.
func PromptText(n *html.Node, dropdowns map[*html.Node]int, skip func(*html.Node) bool) string {
	var b strings.Builder
	dom.Walk(n, func(cur *html.Node) bool {
		if cur != n && skip != nil && skip(cur) {
			return false
		}
		switch cur.Type {
		case html.TextNode:
			b.WriteString(cur.Data)
			return true
		case html.ElementNode:
		default:
			return true
		}
		switch cur.DataAtom {
		case atom.Select:
			if index, ok := dropdowns[cur]; ok {
				b.WriteString(" " + Placeholder(index) + " ")
			}
			return false
		case atom.Script, atom.Style, atom.Template, atom.Noscript, atom.Textarea, atom.Button:
			return false
		case atom.Img:
			if alt := dom.Attr(cur, "alt"); alt != "" {
				b.WriteString(" " + alt + " ")
			}
		case atom.Br, atom.P, atom.Div, atom.Li:
			b.WriteByte(' ')
		}
		return true
	})
	return question.SanitizeText(b.String())
}
