package platform

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"quizpilot/internal/dom"
	"quizpilot/internal/labels"
	"quizpilot/internal/question"
)

var (
	placeholderOption = regexp.MustCompile(`^\s*(--|\[?\s*select\b)`)
	firstNumber       = regexp.MustCompile(`\d+`)
)

// ParseContainer turns a container into a Question. It only reads the tree,
// so parsing an unchanged container twice yields the same result.
func ParseContainer(container *html.Node, fallbackIndex int, profile Profile) question.Question {
	widgets := dom.Widgets(container)
	var kinds []question.Kind
	var selects []*html.Node
	dropdowns := map[*html.Node]int{}
	for _, widget := range widgets {
		kind := kindOf(dom.Widget(widget))
		kinds = append(kinds, kind)
		if kind == question.KindSelect {
			selects = append(selects, widget)
			dropdowns[widget] = len(selects)
		}
	}
	qtype := question.InferType(kinds...)

	q := question.Question{
		ID:     questionID(container, fallbackIndex),
		Type:   qtype,
		Text:   promptText(container, profile, dropdowns),
		HTML:   dom.OuterHTML(container),
		Number: questionNumber(container, profile),
		Root:   container,
	}
	kind, ok := question.KindFor(qtype)
	if !ok {
		return q
	}
	ids := question.NewIDRegistry()
	if kind == question.KindSelect {
		for i, sel := range selects {
			q.Choices = append(q.Choices, selectChoices(sel, i, container, ids)...)
		}
		return q
	}
	position := 0
	for _, widget := range widgets {
		if kindOf(dom.Widget(widget)) != kind {
			continue
		}
		position++
		label := labels.ResolveLabel(widget, container)
		if label == "" {
			label = placeholderLabel(kind, position)
		}
		q.Choices = append(q.Choices, question.Choice{
			ID:     ids.Claim(choiceID(widget, kind, position)),
			Label:  label,
			Kind:   kind,
			Value:  dom.Value(widget),
			Widget: widget,
		})
	}
	return q
}

func kindOf(widget dom.WidgetKind) question.Kind {
	switch widget {
	case dom.WidgetRadio:
		return question.KindSingle
	case dom.WidgetCheckbox:
		return question.KindMulti
	case dom.WidgetSelect:
		return question.KindSelect
	case dom.WidgetText:
		return question.KindText
	}
	return ""
}

// questionID prefers stable host attributes over the positional fallback.
func questionID(container *html.Node, fallbackIndex int) string {
	for _, attr := range []string{"id", "data-question-id"} {
		if value := strings.TrimSpace(dom.Attr(container, attr)); value != "" {
			return value
		}
	}
	return fmt.Sprintf("question-%d", fallbackIndex+1)
}

func promptText(container *html.Node, profile Profile, dropdowns map[*html.Node]int) string {
	skip := labels.AnswerTextFilter(container)
	if profile.PromptSelector != "" {
		if prompt := dom.Query(container, profile.PromptSelector); prompt != nil {
			if text := labels.PromptText(prompt, dropdowns, skip); text != "" {
				return text
			}
		}
	}
	if profile.NumberSelector != "" {
		numbers := map[*html.Node]bool{}
		for _, n := range dom.QueryAll(container, profile.NumberSelector) {
			numbers[n] = true
		}
		answers := skip
		skip = func(n *html.Node) bool { return numbers[n] || answers(n) }
	}
	return labels.PromptText(container, dropdowns, skip)
}

func questionNumber(container *html.Node, profile Profile) int {
	if profile.NumberSelector == "" {
		return 0
	}
	n := dom.Query(container, profile.NumberSelector)
	if n == nil {
		return 0
	}
	match := firstNumber.FindString(labels.Text(n))
	if match == "" {
		return 0
	}
	number, err := strconv.Atoi(match)
	if err != nil || number < 1 {
		return 0
	}
	return number
}

// choiceID uses the widget id, else name and value, else the position.
func choiceID(widget *html.Node, kind question.Kind, position int) string {
	if id := strings.TrimSpace(dom.Attr(widget, "id")); id != "" {
		return id
	}
	name := strings.TrimSpace(dom.Attr(widget, "name"))
	value := strings.TrimSpace(dom.Attr(widget, "value"))
	if kind != question.KindText && name != "" && value != "" {
		return name + ":" + value
	}
	if kind == question.KindText && name != "" {
		return name
	}
	return fmt.Sprintf("%s-%d", kind, position)
}

func placeholderLabel(kind question.Kind, position int) string {
	if kind == question.KindText {
		return fmt.Sprintf("Answer %d", position)
	}
	return fmt.Sprintf("Choice %d", position)
}

// SelectID returns the stable id of a dropdown with "::" made safe for use
// as the choice id delimiter.
func SelectID(sel *html.Node, index int) string {
	id := strings.TrimSpace(dom.Attr(sel, "id"))
	if id == "" {
		id = strings.TrimSpace(dom.Attr(sel, "name"))
	}
	if id == "" {
		id = fmt.Sprintf("dropdown-%d", index+1)
	}
	return strings.ReplaceAll(id, "::", "__")
}

// IsPlaceholderOption reports options that only prompt for a selection.
func IsPlaceholderOption(opt *html.Node) bool {
	if strings.TrimSpace(dom.OptionValue(opt)) == "" {
		return true
	}
	return placeholderOption.MatchString(strings.ToLower(dom.OptionLabel(opt)))
}

func selectChoices(sel *html.Node, index int, container *html.Node, ids *question.IDRegistry) []question.Choice {
	sid := SelectID(sel, index)
	dropdownLabel := labels.ResolveLabel(sel, container)
	if dropdownLabel == "" {
		dropdownLabel = fmt.Sprintf("Dropdown %d", index+1)
	}
	var choices []question.Choice
	for _, opt := range dom.Options(sel) {
		if IsPlaceholderOption(opt) {
			continue
		}
		value := dom.OptionValue(opt)
		optionLabel := dom.OptionLabel(opt)
		if optionLabel == "" {
			optionLabel = value
		}
		choices = append(choices, question.Choice{
			ID:     ids.Claim(sid + "::" + value),
			Label:  dropdownLabel + ": " + optionLabel,
			Kind:   question.KindSelect,
			Value:  value,
			Widget: sel,
		})
	}
	return choices
}
