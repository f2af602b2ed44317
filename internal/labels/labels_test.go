package labels

import (
	"testing"

	"golang.org/x/net/html"

	"quizpilot/internal/dom"
)

func parse(t *testing.T, markup string) *dom.Document {
	t.Helper()
	doc, err := dom.ParseString(markup, "https://example.test/")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func byID(doc *dom.Document, id string) *html.Node {
	return dom.ElementByID(doc.Root(), id)
}

// TestResolveLabelChain verifies each source in the label chain in priority order.
func TestResolveLabelChain(t *testing.T) {
	doc := parse(t, `<div id="q">
<input type="radio" id="w1" data-label=" Data  label " aria-label="aria">
<input type="radio" id="w2" aria-label="Aria label">
<span id="p1">Part</span><span id="p2">two</span>
<input type="radio" id="w3" aria-labelledby="p1 missing p2">
<label for="w4">For label</label><input type="radio" id="w4">
<label><input type="checkbox" id="w5"> Wrapped <select><option>hidden</option></select></label>
<div class="answer"><input type="radio" id="w6"><span class="answer_text">Container text</span></div>
<p><input type="radio" id="w7"> Following <b>text</b><br>next line</p>
<input type="radio" id="w8" value="raw-value">
</div>`)
	root := byID(doc, "q")
	cases := map[string]string{
		"w1": "Data label",
		"w2": "Aria label",
		"w3": "Part two",
		"w4": "For label",
		"w5": "Wrapped",
		"w6": "Container text",
		"w7": "Following text",
		"w8": "raw-value",
	}
	for id, want := range cases {
		if got := ResolveLabel(byID(doc, id), root); got != want {
			t.Fatalf("%s: got %q want %q", id, got, want)
		}
	}
}

// TestResolveLabelForOutsideRoot verifies label[for] falls back to a page-wide lookup.
func TestResolveLabelForOutsideRoot(t *testing.T) {
	doc := parse(t, `<label for='a"b\c'>Global</label><div id="q"><input type="radio" id='a"b\c'></div>`)
	if got := ResolveLabel(byID(doc, `a"b\c`), byID(doc, "q")); got != "Global" {
		t.Fatalf("unexpected label %q", got)
	}
}

// TestResolveLabelImageAlt verifies image alt text is used when no text exists.
func TestResolveLabelImageAlt(t *testing.T) {
	doc := parse(t, `<div id="q"><label><input type="radio" id="w"><img src="x.png" alt="A triangle"></label></div>`)
	if got := ResolveLabel(byID(doc, "w"), byID(doc, "q")); got != "A triangle" {
		t.Fatalf("unexpected label %q", got)
	}
}

// TestResolveLabelSelectHasNoValueFallback verifies selects never use their value as label.
func TestResolveLabelSelectHasNoValueFallback(t *testing.T) {
	doc := parse(t, `<div id="q"><div><select id="s"><option value="v">V</option></select></div><select id="t"></select></div>`)
	if got := ResolveLabel(byID(doc, "s"), byID(doc, "q")); got != "" {
		t.Fatalf("expected no label, got %q", got)
	}
}

// TestPromptTextPlaceholders verifies dropdowns become positional placeholders.
func TestPromptTextPlaceholders(t *testing.T) {
	doc := parse(t, `<div id="q">The capital of <b>France</b> is <select id="a"><option>Paris</option></select>
and of Spain is <select id="b"><option>Madrid</option></select>.<span class="skip">ignored</span></div>`)
	dropdowns := map[*html.Node]int{byID(doc, "a"): 1, byID(doc, "b"): 2}
	skip := func(n *html.Node) bool { return dom.HasClass(n, "skip") }
	got := PromptText(byID(doc, "q"), dropdowns, skip)
	want := "The capital of France is [Dropdown 1] and of Spain is [Dropdown 2] ."
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

// TestAnswerTextFilterKeepsPrompt verifies answer text is separated from the prompt.
func TestAnswerTextFilterKeepsPrompt(t *testing.T) {
	doc := parse(t, `<div id="q"><p>Pick the largest planet</p>
<input type="radio" name="p" id="a"> Jupiter<br>
<div class="answer"><input type="radio" name="p" id="b"><span>Mars</span></div>
<label for="c">Venus</label><input type="radio" name="p" id="c">
<p>Capital: <select id="s"><option>Rome</option></select> today</p></div>`)
	root := byID(doc, "q")
	dropdowns := map[*html.Node]int{byID(doc, "s"): 1}
	got := PromptText(root, dropdowns, AnswerTextFilter(root))
	want := "Pick the largest planet Capital: [Dropdown 1] today"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}
