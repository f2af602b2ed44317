package answer

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"quizpilot/internal/question"
)

// Reason classifies an application failure.
type Reason string

const (
	ReasonUnsupportedType  Reason = "unsupported_question_type"
	ReasonNoMatch          Reason = "no_matching_choice"
	ReasonEmptyText        Reason = "empty_answer_text"
	ReasonMissingWidget    Reason = "missing_widget"
	ReasonPartialDropdowns Reason = "partial_dropdown_coverage"
	ReasonRejected         Reason = "dropdown_value_rejected"
	ReasonInternal         Reason = "internal_error"
)

// Change records one widget whose state was written.
type Change struct {
	ChoiceID string        `json:"choiceId,omitempty"`
	Kind     question.Kind `json:"kind"`
	Path     string        `json:"path"`
	Checked  bool          `json:"checked"`
	Value    string        `json:"value,omitempty"`
	Widget   *html.Node    `json:"-"`
}

// ChoiceSummary describes a choice for diagnostics.
type ChoiceSummary struct {
	Index  int    `json:"index"`
	Letter string `json:"letter"`
	ID     string `json:"id"`
	Label  string `json:"label"`
}

// Diagnostics carries everything an operator needs to see why matching
// failed: the choices on offer and what the model claimed.
type Diagnostics struct {
	Available   []ChoiceSummary `json:"available"`
	ClaimedIDs  []string        `json:"claimedIds"`
	ClaimedText string          `json:"claimedText"`
}

// Result is the outcome of applying a suggestion.
type Result struct {
	OK          bool         `json:"ok"`
	Reason      Reason       `json:"reason,omitempty"`
	Message     string       `json:"message"`
	Applied     []string     `json:"applied,omitempty"`
	Changes     []Change     `json:"changes,omitempty"`
	Diagnostics *Diagnostics `json:"diagnostics,omitempty"`
}

// Detail renders the result for display, including diagnostics on failure.
func (r Result) Detail() string {
	if r.OK {
		if len(r.Applied) == 0 {
			return r.Message
		}
		return fmt.Sprintf("%s: %s", r.Message, strings.Join(r.Applied, ", "))
	}
	var b strings.Builder
	b.WriteString(r.Message)
	if r.Diagnostics == nil {
		return b.String()
	}
	b.WriteString("\navailable choices:")
	for _, choice := range r.Diagnostics.Available {
		fmt.Fprintf(&b, "\n  %d. [%s] %s: %s", choice.Index, choice.Letter, choice.ID, choice.Label)
	}
	if len(r.Diagnostics.Available) == 0 {
		b.WriteString(" none")
	}
	fmt.Fprintf(&b, "\nmodel returned ids: [%s]", strings.Join(r.Diagnostics.ClaimedIDs, ", "))
	fmt.Fprintf(&b, "\nmodel returned text: %q", r.Diagnostics.ClaimedText)
	return b.String()
}

func success(message string, applied []string, changes []Change) Result {
	return Result{OK: true, Message: message, Applied: applied, Changes: changes}
}

func failure(q question.Question, s question.Suggestion, reason Reason, format string, args ...any) Result {
	return Result{
		Reason:      reason,
		Message:     fmt.Sprintf(format, args...),
		Diagnostics: diagnose(q, s),
	}
}

func diagnose(q question.Question, s question.Suggestion) *Diagnostics {
	available := make([]ChoiceSummary, 0, len(q.Choices))
	for i, choice := range q.Choices {
		available = append(available, ChoiceSummary{
			Index:  i + 1,
			Letter: question.DeriveChoiceLetter(i),
			ID:     choice.ID,
			Label:  choice.Label,
		})
	}
	return &Diagnostics{
		Available:   available,
		ClaimedIDs:  append([]string{}, s.ChoiceIDs...),
		ClaimedText: s.Text.Joined(),
	}
}
