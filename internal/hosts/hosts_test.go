package hosts

import (
	"reflect"
	"testing"

	"quizpilot/internal/dom"
	"quizpilot/internal/platform"
)

// TestDefaultOrder verifies built-in adapters keep their priority order.
func TestDefaultOrder(t *testing.T) {
	registry, err := Default(platform.Options{}, []string{"quiz.school.edu"})
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	if got := registry.Names(); !reflect.DeepEqual(got, []string{"canvas", "moodle", "generic"}) {
		t.Fatalf("unexpected order %v", got)
	}
	if !registry.HostAllowed("https://quiz.school.edu/x") || !registry.HostAllowed("https://u.instructure.com/") {
		t.Fatalf("expected configured and built-in hosts to be allowed")
	}
	if registry.HostAllowed("https://bank.example/") {
		t.Fatalf("unexpected host allowed")
	}
}

// TestDefaultFallsBackToGeneric verifies host adapters win only on their own pages.
func TestDefaultFallsBackToGeneric(t *testing.T) {
	registry, err := Default(platform.Options{}, nil)
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	markup := `<div class="que" id="question-1-1"><div class="qtext">Pick the even number</div>
<label><input type="radio" name="n" value="2"> 2</label><label><input type="radio" name="n" value="3"> 3</label></div>`
	cases := map[string]string{
		"https://moodle.school.edu/mod/quiz/attempt.php?attempt=1": "moodle",
		"https://school.instructure.com/courses/1/quizzes/2":       "generic",
	}
	for pageURL, want := range cases {
		doc, err := dom.ParseString(markup, pageURL)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		adapter, ok := registry.Detect(doc)
		if !ok || adapter.Name() != want {
			t.Fatalf("%s: expected %s, got %v", pageURL, want, adapter)
		}
	}
}
