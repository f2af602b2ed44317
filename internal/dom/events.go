package dom

import "golang.org/x/net/html"

// Event is a synthetic DOM event.
type Event struct {
	Type    string
	Target  *html.Node
	Current *html.Node
	Bubbles bool
}

// Listener receives dispatched events.
type Listener func(Event)

type listenerEntry struct {
	eventType string
	fn        Listener
}

// AddEventListener registers fn for events of eventType reaching n.
func (d *Document) AddEventListener(n *html.Node, eventType string, fn Listener) {
	if n == nil || fn == nil {
		return
	}
	d.listeners[n] = append(d.listeners[n], listenerEntry{eventType: eventType, fn: fn})
}

// Dispatch fires a bubbling event at target: listeners on the target run
// first, then those on each ancestor up to the document node.
func (d *Document) Dispatch(target *html.Node, eventType string) {
	if target == nil {
		return
	}
	for cur := target; cur != nil; cur = cur.Parent {
		for _, entry := range d.listeners[cur] {
			if entry.eventType != eventType {
				continue
			}
			entry.fn(Event{Type: eventType, Target: target, Current: cur, Bubbles: true})
		}
	}
}

// DispatchInputChange fires the input and change pair host pages listen to
// after a programmatic value change.
func (d *Document) DispatchInputChange(target *html.Node) {
	d.Dispatch(target, "input")
	d.Dispatch(target, "change")
}
