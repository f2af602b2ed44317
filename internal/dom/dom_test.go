package dom

import (
	"strings"
	"testing"
	"time"
)

func mustParse(t *testing.T, markup string) *Document {
	t.Helper()
	doc, err := ParseString(markup, "https://example.test/quiz")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

// TestWidgetClassification verifies form controls map to widget kinds.
func TestWidgetClassification(t *testing.T) {
	doc := mustParse(t, `<form>
<input id="r" type="radio"><input id="c" type="CHECKBOX"><input id="t">
<input id="n" type="number"><input id="h" type="hidden"><input id="s" type="submit">
<textarea id="ta"></textarea><select id="sel"></select></form>`)
	cases := map[string]WidgetKind{
		"r": WidgetRadio, "c": WidgetCheckbox, "t": WidgetText, "n": WidgetText,
		"h": WidgetNone, "s": WidgetNone, "ta": WidgetText, "sel": WidgetSelect,
	}
	for id, want := range cases {
		if got := Widget(ElementByID(doc.Root(), id)); got != want {
			t.Fatalf("widget %s: got %v want %v", id, got, want)
		}
	}
	if got := len(Widgets(doc.Root())); got != 6 {
		t.Fatalf("expected 6 widgets, got %d", got)
	}
}

// TestSetCheckedRadioGroup verifies radios in a group are mutually exclusive.
func TestSetCheckedRadioGroup(t *testing.T) {
	doc := mustParse(t, `<form><input type="radio" name="q" id="a" checked><input type="radio" name="q" id="b"></form>
<form><input type="radio" name="q" id="c" checked></form>`)
	a := ElementByID(doc.Root(), "a")
	b := ElementByID(doc.Root(), "b")
	c := ElementByID(doc.Root(), "c")
	if !doc.SetChecked(b, true) {
		t.Fatalf("expected b to change")
	}
	if IsChecked(a) || !IsChecked(b) {
		t.Fatalf("expected only b checked")
	}
	if !IsChecked(c) {
		t.Fatalf("radio in another form must keep its state")
	}
	if doc.SetChecked(b, true) {
		t.Fatalf("second check must report no change")
	}
}

// TestSelectValueRejectsUnknownOption verifies selects keep their value for
// options that do not exist.
func TestSelectValueRejectsUnknownOption(t *testing.T) {
	doc := mustParse(t, `<select id="s"><option value="">Select</option><option value="x">X</option>
<optgroup label="g"><option>Y</option></optgroup></select>`)
	sel := ElementByID(doc.Root(), "s")
	if Value(sel) != "" {
		t.Fatalf("expected first option default, got %q", Value(sel))
	}
	if !doc.SetValue(sel, "Y") || Value(sel) != "Y" {
		t.Fatalf("expected optgroup option to be selectable, got %q", Value(sel))
	}
	if doc.SetValue(sel, "missing") {
		t.Fatalf("unknown option must not change the select")
	}
	if Value(sel) != "Y" {
		t.Fatalf("expected value to stay Y, got %q", Value(sel))
	}
}

// TestTextareaValue verifies textarea values round-trip through text content.
func TestTextareaValue(t *testing.T) {
	doc := mustParse(t, `<textarea id="t">old</textarea>`)
	ta := ElementByID(doc.Root(), "t")
	doc.SetValue(ta, "line one\nline two")
	if Value(ta) != "line one\nline two" {
		t.Fatalf("unexpected value %q", Value(ta))
	}
}

// TestDispatchBubbles verifies events reach the target and its ancestors.
func TestDispatchBubbles(t *testing.T) {
	doc := mustParse(t, `<div id="outer"><input id="in" type="checkbox"></div>`)
	in := ElementByID(doc.Root(), "in")
	var seen []string
	doc.AddEventListener(in, "change", func(e Event) { seen = append(seen, "target:"+e.Type) })
	doc.AddEventListener(ElementByID(doc.Root(), "outer"), "change", func(e Event) {
		if e.Target != in {
			t.Fatalf("unexpected target")
		}
		seen = append(seen, "outer:"+e.Type)
	})
	doc.AddEventListener(doc.Root(), "input", func(e Event) { seen = append(seen, "root:"+e.Type) })
	doc.DispatchInputChange(in)
	want := "root:input,target:change,outer:change"
	if got := strings.Join(seen, ","); got != want {
		t.Fatalf("got %s want %s", got, want)
	}
}

// TestNodeSetPrunesDetached verifies removed nodes leave the set.
func TestNodeSetPrunesDetached(t *testing.T) {
	doc := mustParse(t, `<div id="a"></div><div id="b"></div>`)
	a := ElementByID(doc.Root(), "a")
	b := ElementByID(doc.Root(), "b")
	set := NewNodeSet()
	set.Add(a)
	set.Add(b)
	doc.Remove(a)
	set.Prune(doc.Root())
	if set.Has(a) || !set.Has(b) || set.Len() != 1 {
		t.Fatalf("expected only b to remain")
	}
}

// TestEscapeAttrSelector verifies quotes and backslashes survive selector lookup.
func TestEscapeAttrSelector(t *testing.T) {
	if got := EscapeAttr(`a"b\c`); got != `a\"b\\c` {
		t.Fatalf("unexpected escape %q", got)
	}
	doc := mustParse(t, `<label for='we"ird\id'>Weird</label>`)
	sel := AttrSelector("label", "for", `we"ird\id`)
	label := Query(doc.Root(), sel)
	if label == nil {
		t.Fatalf("expected label lookup via %s", sel)
	}
}

// TestCSSPathResolves verifies CSSPath addresses the original node.
func TestCSSPathResolves(t *testing.T) {
	doc := mustParse(t, `<div><p>a</p><p><span id="x">b</span></p></div>`)
	x := ElementByID(doc.Root(), "x")
	path := CSSPath(x)
	if !strings.HasPrefix(path, "html > body") {
		t.Fatalf("unexpected path %q", path)
	}
	if got := Query(doc.Root(), path); got != x {
		t.Fatalf("path %q did not resolve to the node", path)
	}
}

// TestSubscribeCoalesces verifies mutation signals coalesce and stop after unsubscribe.
func TestSubscribeCoalesces(t *testing.T) {
	doc := mustParse(t, `<div id="host"></div>`)
	ch, cancel := doc.Subscribe()
	host := ElementByID(doc.Root(), "host")
	doc.Do(func() {
		_ = doc.AppendHTML(host, "<p>one</p>")
		_ = doc.AppendHTML(host, "<p>two</p>")
	})
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatalf("expected a mutation signal")
	}
	select {
	case <-ch:
		t.Fatalf("expected bursts to coalesce")
	default:
	}
	cancel()
	doc.Touch()
	select {
	case <-ch:
		t.Fatalf("unsubscribed channel must not be signalled")
	default:
	}
	if len(QueryAll(host, "p")) != 2 {
		t.Fatalf("expected appended paragraphs")
	}
}

// TestQueryExcludesRoot verifies QueryAll only returns descendants.
func TestQueryExcludesRoot(t *testing.T) {
	doc := mustParse(t, `<div class="q"><div class="q"></div></div>`)
	outer := Query(doc.Root(), ".q")
	if got := QueryAll(outer, ".q"); len(got) != 1 || got[0] == outer {
		t.Fatalf("expected only the nested match")
	}
	if QueryAll(outer, "[[bad") != nil {
		t.Fatalf("invalid selectors must match nothing")
	}
	inner := QueryAll(outer, ".q")[0]
	if Closest(inner, "div.q") != inner {
		t.Fatalf("closest must include the node itself")
	}
}
