package question

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// TestDeriveChoiceLetter verifies base-26 letters run A..AB without gaps.
func TestDeriveChoiceLetter(t *testing.T) {
	want := []string{
		"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M",
		"N", "O", "P", "Q", "R", "S", "T", "U", "V", "W", "X", "Y", "Z",
		"AA", "AB",
	}
	for i, letter := range want {
		if got := DeriveChoiceLetter(i); got != letter {
			t.Fatalf("index %d: got %q want %q", i, got, letter)
		}
	}
	if got := DeriveChoiceLetter(701); got != "ZZ" {
		t.Fatalf("expected ZZ, got %q", got)
	}
	if got := DeriveChoiceLetter(702); got != "AAA" {
		t.Fatalf("expected AAA, got %q", got)
	}
}

// TestInferTypePriority verifies radios win over every other family.
func TestInferTypePriority(t *testing.T) {
	cases := []struct {
		kinds []Kind
		want  Type
	}{
		{[]Kind{KindText, KindSelect, KindMulti, KindSingle}, TypeSingle},
		{[]Kind{KindText, KindMulti}, TypeMulti},
		{[]Kind{KindText, KindSelect}, TypeSelect},
		{[]Kind{KindText}, TypeText},
		{nil, TypeUnknown},
	}
	for _, tc := range cases {
		if got := InferType(tc.kinds...); got != tc.want {
			t.Fatalf("kinds %v: got %s want %s", tc.kinds, got, tc.want)
		}
	}
}

// TestNormalizeID verifies decoration is stripped and case folded.
func TestNormalizeID(t *testing.T) {
	cases := map[string]string{
		"[B]":       "b",
		" (opt-A) ": "opt-a",
		"#choice_1": "choice_1",
		"[ ]":       "",
		"C)":        "c",
	}
	for in, want := range cases {
		if got := NormalizeID(in); got != want {
			t.Fatalf("NormalizeID(%q) = %q want %q", in, got, want)
		}
	}
}

// TestNormalizeLabel verifies notational differences compare equal.
func TestNormalizeLabel(t *testing.T) {
	if NormalizeLabel("x − 2 = 0") != NormalizeLabel("x-2=0") {
		t.Fatalf("expected unicode minus to normalize")
	}
	if got := NormalizeLabel("  Paris,  France! "); got != "parisfrance" {
		t.Fatalf("unexpected label %q", got)
	}
}

// TestIDRegistryClaimsSuffixes verifies colliding base ids get numeric suffixes.
func TestIDRegistryClaimsSuffixes(t *testing.T) {
	registry := NewIDRegistry()
	if got := registry.Claim("question-1"); got != "question-1" {
		t.Fatalf("expected base id, got %q", got)
	}
	if got := registry.Claim("question-1"); got != "question-1-1" {
		t.Fatalf("expected first suffix, got %q", got)
	}
	if got := registry.Claim("question-1"); got != "question-1-2" {
		t.Fatalf("expected second suffix, got %q", got)
	}
	if registry.Len() != 3 {
		t.Fatalf("expected three ids, got %d", registry.Len())
	}
	registry.Release("question-1")
	if got := registry.Claim("question-1"); got != "question-1" {
		t.Fatalf("expected released base to be reusable, got %q", got)
	}
}

// TestSuggestionDecodesLooseShapes verifies bare strings and numbers decode.
func TestSuggestionDecodesLooseShapes(t *testing.T) {
	var s Suggestion
	payload := `{"answerChoiceIds": "B", "answerText": ["x = 2", 3], "reasoning": "r"}`
	if err := json.Unmarshal([]byte(payload), &s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual([]string(s.ChoiceIDs), []string{"B"}) {
		t.Fatalf("unexpected ids %v", s.ChoiceIDs)
	}
	if got := s.Text.Joined(); got != "x = 2\n3" {
		t.Fatalf("unexpected joined text %q", got)
	}
	if !reflect.DeepEqual(s.Text.Parts(2), []string{"x = 2", "3"}) {
		t.Fatalf("unexpected parts %v", s.Text.Parts(2))
	}

	var ids Suggestion
	if err := json.Unmarshal([]byte(`{"answerChoiceIds": [1, "c"], "answerText": null}`), &ids); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(ids.ChoiceIDs.Normalized(), []string{"1", "c"}) {
		t.Fatalf("unexpected ids %v", ids.ChoiceIDs)
	}
	if !ids.Text.Empty() {
		t.Fatalf("expected empty text")
	}
}

// TestAnswerTextParts verifies single strings split into exactly one part
// per dropdown, or stay whole.
func TestAnswerTextParts(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want []string
	}{
		{"red\nblue", 2, []string{"red", "blue"}},
		{"red; blue", 2, []string{"red", "blue"}},
		{"red, blue", 2, []string{"red", "blue"}},
		{"red; dark, blue", 2, []string{"red", "dark, blue"}},
		{"red, dark, blue", 3, []string{"red", "dark", "blue"}},
		{"only", 2, []string{"only"}},
		{"1,000", 1, []string{"1,000"}},
		{"1,000", 3, []string{"1,000"}},
		{"red, dark, blue", 2, []string{"red, dark, blue"}},
	}
	for _, tc := range cases {
		if got := TextOf(tc.in).Parts(tc.n); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("Parts(%q, %d) = %v want %v", tc.in, tc.n, got, tc.want)
		}
	}
	if got := TextOf("  ").Parts(2); got != nil {
		t.Fatalf("expected no parts, got %v", got)
	}
}

// TestParseSuggestionFromOutput verifies fenced and chatty output is accepted.
func TestParseSuggestionFromOutput(t *testing.T) {
	output := "```json\n{\"answerChoiceIds\": [\"opt-b\"], \"reasoning\": \"because\"}\n```"
	s, err := ParseSuggestionFromOutput(output)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if s.Reasoning != "because" || len(s.ChoiceIDs) != 1 {
		t.Fatalf("unexpected suggestion %+v", s)
	}
	if _, err := ParseSuggestionFromOutput("I think it is B."); !errors.Is(err, ErrMissingAnswer) {
		t.Fatalf("expected missing answer, got %v", err)
	}
	empty, err := ParseSuggestionFromOutput(`{"answerChoiceIds": [], "answerText": ""}`)
	if err != nil || !empty.Empty() {
		t.Fatalf("expected an empty suggestion without error, got %+v %v", empty, err)
	}
}

// TestLoadAnswerKeyYAML verifies YAML answer keys load and look up by id and number.
func TestLoadAnswerKeyYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "answers.yml")
	payload := `version: 1
answers:
  - question: " q1 "
    choice_ids: B
  - number: 2
    text: [red, blue]
`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write key: %v", err)
	}
	key, err := LoadAnswerKey(path)
	if err != nil {
		t.Fatalf("load key: %v", err)
	}
	first, ok := key.Lookup(Question{ID: "q1"})
	if !ok || !reflect.DeepEqual([]string(first.ChoiceIDs), []string{"B"}) {
		t.Fatalf("unexpected lookup by id: %+v", first)
	}
	second, ok := key.Lookup(Question{ID: "other", Number: 2})
	if !ok || !reflect.DeepEqual(second.Text.Parts(2), []string{"red", "blue"}) {
		t.Fatalf("unexpected lookup by number: %+v", second)
	}
	if _, ok := key.Lookup(Question{ID: "missing"}); ok {
		t.Fatalf("expected no entry")
	}
}

// TestLoadAnswerKeyJSON verifies JSON keys use the model answer field names.
func TestLoadAnswerKeyJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "answers.json")
	payload := `{"version": 1, "answers": [{"question": "q9", "answerText": "Paris"}]}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write key: %v", err)
	}
	key, err := LoadAnswerKey(path)
	if err != nil {
		t.Fatalf("load key: %v", err)
	}
	s, ok := key.Lookup(Question{ID: "q9"})
	if !ok || s.Text.Joined() != "Paris" {
		t.Fatalf("unexpected entry %+v", s)
	}
}

// TestLoadAnswerKeyValidationErrors verifies invalid keys return validation errors.
func TestLoadAnswerKeyValidationErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "answers.yml")
	payload := `version: 1
answers:
  - question: dup
    choice_ids: [a]
  - question: dup
    choice_ids: [b]
  - text: orphan
`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write key: %v", err)
	}
	_, err := LoadAnswerKey(path)
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(validationErr.Issues) != 2 {
		t.Fatalf("expected two issues, got %+v", validationErr.Issues)
	}
}
