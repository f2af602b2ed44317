package dom

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// WidgetKind classifies the form controls the quiz layer understands.
type WidgetKind int

const (
	// WidgetNone is any element that is not an answer widget.
	WidgetNone WidgetKind = iota
	// WidgetRadio is <input type=radio>.
	WidgetRadio
	// WidgetCheckbox is <input type=checkbox>.
	WidgetCheckbox
	// WidgetText is a free-form text input or textarea.
	WidgetText
	// WidgetSelect is a <select> dropdown.
	WidgetSelect
)

// WidgetSelector matches every element Widget may classify.
const WidgetSelector = "input, textarea, select"

var textInputTypes = map[string]bool{
	"":       true,
	"text":   true,
	"number": true,
	"email":  true,
	"search": true,
	"tel":    true,
	"url":    true,
}

// Widget classifies an element.
func Widget(n *html.Node) WidgetKind {
	if !IsElement(n) {
		return WidgetNone
	}
	switch n.DataAtom {
	case atom.Input:
		kind := strings.ToLower(strings.TrimSpace(Attr(n, "type")))
		switch {
		case kind == "radio":
			return WidgetRadio
		case kind == "checkbox":
			return WidgetCheckbox
		case textInputTypes[kind]:
			return WidgetText
		}
	case atom.Textarea:
		return WidgetText
	case atom.Select:
		return WidgetSelect
	}
	return WidgetNone
}

// Widgets returns the answer widgets under root in document order.
func Widgets(root *html.Node) []*html.Node {
	var out []*html.Node
	for _, n := range QueryAll(root, WidgetSelector) {
		if Widget(n) != WidgetNone {
			out = append(out, n)
		}
	}
	return out
}

// IsDisabled reports whether a widget cannot be answered: disabled,
// aria-disabled, read-only, or inside a disabled fieldset.
func IsDisabled(n *html.Node) bool {
	if HasAttr(n, "disabled") || HasAttr(n, "readonly") {
		return true
	}
	if strings.EqualFold(Attr(n, "aria-disabled"), "true") {
		return true
	}
	for cur := n.Parent; cur != nil; cur = cur.Parent {
		if IsElement(cur) && cur.DataAtom == atom.Fieldset && HasAttr(cur, "disabled") {
			return true
		}
	}
	return false
}

// IsChecked reports the checked state of a radio or checkbox.
func IsChecked(n *html.Node) bool {
	return HasAttr(n, "checked")
}

// Value reads the current value of a widget.
func Value(n *html.Node) string {
	if !IsElement(n) {
		return ""
	}
	switch n.DataAtom {
	case atom.Textarea:
		return TextContent(n)
	case atom.Select:
		if opt := SelectedOption(n); opt != nil {
			return OptionValue(opt)
		}
		return ""
	}
	return Attr(n, "value")
}

// Options lists the <option> elements of a select, including those nested
// in <optgroup>.
func Options(sel *html.Node) []*html.Node {
	var out []*html.Node
	Walk(sel, func(n *html.Node) bool {
		if IsElement(n) && n.DataAtom == atom.Option {
			out = append(out, n)
			return false
		}
		return true
	})
	return out
}

// SelectedOption returns the option marked selected, or the first option
// when none is marked, matching browser defaults for single selects.
func SelectedOption(sel *html.Node) *html.Node {
	opts := Options(sel)
	for _, opt := range opts {
		if HasAttr(opt, "selected") {
			return opt
		}
	}
	if len(opts) > 0 {
		return opts[0]
	}
	return nil
}

// OptionValue returns the submitted value of an option.
func OptionValue(opt *html.Node) string {
	if value, ok := LookupAttr(opt, "value"); ok {
		return value
	}
	return collapse(TextContent(opt))
}

// OptionLabel returns the displayed label of an option.
func OptionLabel(opt *html.Node) string {
	if label := collapse(Attr(opt, "label")); label != "" {
		return label
	}
	return collapse(TextContent(opt))
}

// RadioGroup returns the radios sharing n's name within its form, or within
// the whole tree when n has no form owner.
func RadioGroup(n *html.Node) []*html.Node {
	name := Attr(n, "name")
	if name == "" {
		return []*html.Node{n}
	}
	scope := ClosestFunc(n.Parent, nil, func(cur *html.Node) bool {
		return cur.DataAtom == atom.Form
	})
	if scope == nil {
		scope = TopAncestor(n)
	}
	var group []*html.Node
	Walk(scope, func(cur *html.Node) bool {
		if Widget(cur) == WidgetRadio && Attr(cur, "name") == name {
			group = append(group, cur)
		}
		return true
	})
	return group
}

// SetChecked sets the checked state of a radio or checkbox and reports
// whether n changed. Checking a radio unchecks the rest of its group.
func (d *Document) SetChecked(n *html.Node, checked bool) bool {
	if n == nil {
		return false
	}
	groupChanged := false
	if checked && Widget(n) == WidgetRadio {
		for _, other := range RadioGroup(n) {
			if other != n && removeAttr(other, "checked") {
				groupChanged = true
			}
		}
	}
	changed := IsChecked(n) != checked
	if changed {
		if checked {
			setAttr(n, "checked", "")
		} else {
			removeAttr(n, "checked")
		}
	}
	if changed || groupChanged {
		d.notify()
	}
	return changed
}

// SetValue writes a widget value and reports whether it changed. A select
// only accepts values of its existing options; other values leave it as is.
func (d *Document) SetValue(n *html.Node, value string) bool {
	if !IsElement(n) || Value(n) == value {
		return false
	}
	switch n.DataAtom {
	case atom.Textarea:
		for c := n.FirstChild; c != nil; {
			next := c.NextSibling
			n.RemoveChild(c)
			c = next
		}
		n.AppendChild(&html.Node{Type: html.TextNode, Data: value})
	case atom.Select:
		var target *html.Node
		for _, opt := range Options(n) {
			if OptionValue(opt) == value {
				target = opt
				break
			}
		}
		if target == nil {
			return false
		}
		for _, opt := range Options(n) {
			if opt != target {
				removeAttr(opt, "selected")
			}
		}
		setAttr(target, "selected", "")
	default:
		setAttr(n, "value", value)
	}
	d.notify()
	return true
}

// MarkedOption returns the index of the option carrying the selected
// attribute, or -1 when none does.
func MarkedOption(sel *html.Node) int {
	for i, opt := range Options(sel) {
		if HasAttr(opt, "selected") {
			return i
		}
	}
	return -1
}

// RestoreOption marks the option at index as the only selected one, or
// clears every mark when index is -1.
func (d *Document) RestoreOption(sel *html.Node, index int) {
	changed := false
	for i, opt := range Options(sel) {
		if i == index {
			if !HasAttr(opt, "selected") {
				setAttr(opt, "selected", "")
				changed = true
			}
			continue
		}
		if removeAttr(opt, "selected") {
			changed = true
		}
	}
	if changed {
		d.notify()
	}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
