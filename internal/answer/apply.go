// Package answer resolves loosely formatted model suggestions against parsed
// questions and writes the result into the live document.
package answer

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"quizpilot/internal/dom"
	"quizpilot/internal/platform"
	"quizpilot/internal/question"
)

// Apply resolves s against q and mutates the matched widgets of doc. It
// locks the document itself, so callers must not hold doc.Do. Failures are
// returned as results; a panic inside resolution becomes ReasonInternal.
func Apply(doc *dom.Document, q question.Question, s question.Suggestion) (result Result) {
	doc.Do(func() {
		defer func() {
			if r := recover(); r != nil {
				result = failure(q, s, ReasonInternal, "internal error while applying answer: %v", r)
			}
		}()
		result = apply(doc, q, s)
	})
	return result
}

func apply(doc *dom.Document, q question.Question, s question.Suggestion) Result {
	kind, ok := question.KindFor(q.Type)
	if !ok {
		return failure(q, s, ReasonUnsupportedType, "unsupported question type %q", q.Type)
	}
	switch kind {
	case question.KindSingle:
		return applySingle(doc, q, s)
	case question.KindMulti:
		return applyMulti(doc, q, s)
	case question.KindText:
		return applyText(doc, q, s)
	case question.KindSelect:
		return applySelect(doc, q, s)
	}
	return failure(q, s, ReasonUnsupportedType, "unsupported question type %q", q.Type)
}

func applySingle(doc *dom.Document, q question.Question, s question.Suggestion) Result {
	target := -1
	for _, matches := range strategies(q, s) {
		if len(matches) > 0 {
			target = matches[0]
			break
		}
	}
	if target < 0 {
		return failure(q, s, ReasonNoMatch, "no choice matched the suggested answer")
	}
	choice := q.Choices[target]
	if !dom.Connected(choice.Widget, doc.Root()) {
		return failure(q, s, ReasonMissingWidget, "widget for choice %q is no longer on the page", choice.ID)
	}
	if dom.IsChecked(choice.Widget) {
		return success("already selected", []string{choice.Label}, nil)
	}
	doc.SetChecked(choice.Widget, true)
	doc.DispatchInputChange(choice.Widget)
	return success("selected", []string{choice.Label}, []Change{checkedChange(choice, true)})
}

func applyMulti(doc *dom.Document, q question.Question, s question.Suggestion) Result {
	selected := map[int]bool{}
	for _, matches := range strategies(q, s) {
		for _, i := range matches {
			selected[i] = true
		}
	}
	if len(selected) == 0 {
		return failure(q, s, ReasonNoMatch, "no choice matched the suggested answer")
	}
	for _, choice := range q.Choices {
		if !dom.Connected(choice.Widget, doc.Root()) {
			return failure(q, s, ReasonMissingWidget, "widget for choice %q is no longer on the page", choice.ID)
		}
	}

	var applied []string
	var changes []Change
	var changed []*html.Node
	for i, choice := range q.Choices {
		want := selected[i]
		if want {
			applied = append(applied, choice.Label)
		}
		if doc.SetChecked(choice.Widget, want) {
			changes = append(changes, checkedChange(choice, want))
			changed = append(changed, choice.Widget)
		}
	}
	// Events go out after every write so handlers observe the final state.
	for _, widget := range changed {
		doc.DispatchInputChange(widget)
	}
	return success("checked", applied, changes)
}

func applyText(doc *dom.Document, q question.Question, s question.Suggestion) Result {
	value := s.Text.Joined()
	if strings.TrimSpace(value) == "" {
		return failure(q, s, ReasonEmptyText, "the suggestion has no answer text")
	}
	if len(q.Choices) == 0 || !dom.Connected(q.Choices[0].Widget, doc.Root()) {
		return failure(q, s, ReasonMissingWidget, "no text field to fill")
	}
	choice := q.Choices[0]
	if !doc.SetValue(choice.Widget, value) {
		return success("already filled", []string{value}, nil)
	}
	doc.DispatchInputChange(choice.Widget)
	return success("filled", []string{value}, []Change{{
		ChoiceID: choice.ID,
		Kind:     choice.Kind,
		Path:     dom.CSSPath(choice.Widget),
		Value:    value,
		Widget:   choice.Widget,
	}})
}

// dropdown groups the choices that share one select widget.
type dropdown struct {
	widget  *html.Node
	choices []question.Choice
}

func dropdowns(q question.Question) []*dropdown {
	var out []*dropdown
	index := map[*html.Node]*dropdown{}
	for _, choice := range q.Choices {
		d, ok := index[choice.Widget]
		if !ok {
			d = &dropdown{widget: choice.Widget}
			index[choice.Widget] = d
			out = append(out, d)
		}
		d.choices = append(d.choices, choice)
	}
	return out
}

func applySelect(doc *dom.Document, q question.Question, s question.Suggestion) Result {
	groups := dropdowns(q)
	if len(groups) == 0 {
		return failure(q, s, ReasonMissingWidget, "question has no dropdowns")
	}
	for _, group := range groups {
		if !dom.Connected(group.widget, doc.Root()) {
			return failure(q, s, ReasonMissingWidget, "a dropdown is no longer on the page")
		}
	}

	plan := map[*html.Node]question.Choice{}
	for _, raw := range s.ChoiceIDs {
		id := question.NormalizeID(raw)
		if id == "" {
			continue
		}
		for _, choice := range q.Choices {
			if question.NormalizeID(choice.ID) != id {
				continue
			}
			if _, taken := plan[choice.Widget]; !taken {
				plan[choice.Widget] = choice
			}
			break
		}
	}
	if len(plan) < len(groups) {
		parts := s.Text.Parts(len(groups))
		for i, group := range groups {
			if _, ok := plan[group.widget]; ok || i >= len(parts) {
				continue
			}
			if choice, ok := matchOption(group, parts[i]); ok {
				plan[group.widget] = choice
			}
		}
	}
	if len(plan) == 0 {
		return failure(q, s, ReasonNoMatch, "no dropdown option matched the suggested answer")
	}
	if len(plan) < len(groups) {
		return failure(q, s, ReasonPartialDropdowns,
			"only %d of %d dropdowns could be matched; nothing was changed", len(plan), len(groups))
	}

	marked := make([]int, len(groups))
	var changed []*dropdown
	for i, group := range groups {
		marked[i] = dom.MarkedOption(group.widget)
		want := plan[group.widget].Value
		if doc.SetValue(group.widget, want) {
			changed = append(changed, group)
		}
		if got := dom.Value(group.widget); got != want {
			for j := 0; j <= i; j++ {
				doc.RestoreOption(groups[j].widget, marked[j])
			}
			return failure(q, s, ReasonRejected,
				"dropdown %d rejected value %q (read back %q); nothing was changed", i+1, want, got)
		}
	}

	var applied []string
	var changes []Change
	for _, group := range groups {
		choice := plan[group.widget]
		applied = append(applied, choice.Label)
		for _, c := range changed {
			if c == group {
				changes = append(changes, Change{
					ChoiceID: choice.ID,
					Kind:     question.KindSelect,
					Path:     dom.CSSPath(group.widget),
					Value:    choice.Value,
					Widget:   group.widget,
				})
			}
		}
	}
	for _, group := range changed {
		doc.DispatchInputChange(group.widget)
	}
	message := "selected"
	if len(changed) == 0 {
		message = "already selected"
	}
	return success(message, applied, changes)
}

// matchOption resolves one free-form part against a dropdown's options:
// exact value, then case-insensitive label, then label containment.
func matchOption(group *dropdown, part string) (question.Choice, bool) {
	part = strings.TrimSpace(part)
	if part == "" {
		return question.Choice{}, false
	}
	for _, choice := range group.choices {
		if choice.Value == part {
			return choice, true
		}
	}
	for _, choice := range group.choices {
		if strings.EqualFold(optionLabel(choice), part) {
			return choice, true
		}
	}
	lower := strings.ToLower(part)
	for _, choice := range group.choices {
		label := strings.ToLower(optionLabel(choice))
		if label == "" {
			continue
		}
		if strings.Contains(label, lower) || strings.Contains(lower, label) {
			return choice, true
		}
	}
	return question.Choice{}, false
}

// optionLabel strips the dropdown label prefix from a select choice label.
func optionLabel(choice question.Choice) string {
	for _, opt := range dom.Options(choice.Widget) {
		if dom.OptionValue(opt) == choice.Value && !platform.IsPlaceholderOption(opt) {
			if label := dom.OptionLabel(opt); label != "" {
				return label
			}
			return choice.Value
		}
	}
	if _, after, ok := strings.Cut(choice.Label, ": "); ok {
		return after
	}
	return choice.Label
}

func checkedChange(choice question.Choice, checked bool) Change {
	return Change{
		ChoiceID: choice.ID,
		Kind:     choice.Kind,
		Path:     dom.CSSPath(choice.Widget),
		Checked:  checked,
		Value:    choice.Value,
		Widget:   choice.Widget,
	}
}

// Summary formats a one-line description of a result for logs.
func Summary(q question.Question, r Result) string {
	if r.OK {
		return fmt.Sprintf("%s: %s", q.ID, r.Detail())
	}
	return fmt.Sprintf("%s: %s (%s)", q.ID, r.Message, r.Reason)
}
