package answer

import (
	"strconv"
	"strings"

	"quizpilot/internal/question"
)

// MatchIdentifiers returns the indexes of choices named by the claimed
// identifiers, in claim order. Each identifier is tried against choice ids,
// then values, then derived letters, then 1-based positions; the first
// family that hits decides that identifier's match.
func MatchIdentifiers(choices []question.Choice, claimed []string) []int {
	var out []int
	for _, raw := range claimed {
		id := question.NormalizeID(raw)
		if id == "" {
			continue
		}
		if index := matchIdentifier(choices, id); index >= 0 {
			out = appendUnique(out, index)
		}
	}
	return out
}

func matchIdentifier(choices []question.Choice, id string) int {
	keys := []func(i int, c question.Choice) string{
		func(_ int, c question.Choice) string { return question.NormalizeID(c.ID) },
		func(_ int, c question.Choice) string { return question.NormalizeID(c.Value) },
		func(i int, _ question.Choice) string { return strings.ToLower(question.DeriveChoiceLetter(i)) },
		func(i int, _ question.Choice) string { return strconv.Itoa(i + 1) },
	}
	for _, key := range keys {
		for i, choice := range choices {
			if candidate := key(i, choice); candidate != "" && candidate == id {
				return i
			}
		}
	}
	return -1
}

// MatchLabels returns the indexes of choices whose label matches any of the
// texts. For each text an exact match after NormalizeLabel is preferred;
// without one, labels containing the text or contained in it match.
func MatchLabels(choices []question.Choice, texts []string) []int {
	normalized := make([]string, len(choices))
	for i, choice := range choices {
		normalized[i] = question.NormalizeLabel(choice.Label)
	}
	var out []int
	for _, text := range texts {
		target := question.NormalizeLabel(text)
		if target == "" {
			continue
		}
		var exact []int
		for i, label := range normalized {
			if label == target {
				exact = append(exact, i)
			}
		}
		if len(exact) > 0 {
			for _, i := range exact {
				out = appendUnique(out, i)
			}
			continue
		}
		for i, label := range normalized {
			if label == "" {
				continue
			}
			if strings.Contains(label, target) || strings.Contains(target, label) {
				out = appendUnique(out, i)
			}
		}
	}
	return out
}

// strategies returns the three matching strategies in priority order:
// identifiers, answer text against labels, identifiers against labels.
func strategies(q question.Question, s question.Suggestion) [][]int {
	return [][]int{
		MatchIdentifiers(q.Choices, s.ChoiceIDs),
		MatchLabels(q.Choices, s.Text.Texts()),
		MatchLabels(q.Choices, s.ChoiceIDs),
	}
}

func appendUnique(list []int, value int) []int {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}
