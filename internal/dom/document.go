package dom

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a mutable HTML page snapshot with a current URL.
//
// Tree access is serialized through Do. Mutators such as SetChecked, SetValue
// and AppendHTML assume the caller is inside Do; they record the change and
// wake every mutation subscriber.
type Document struct {
	mu        sync.Mutex
	root      *html.Node
	url       string
	listeners map[*html.Node][]listenerEntry

	subMu  sync.Mutex
	subs   map[int]chan struct{}
	nextID int
}

// Parse reads an HTML document and associates it with pageURL.
func Parse(r io.Reader, pageURL string) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{
		root:      root,
		url:       strings.TrimSpace(pageURL),
		listeners: map[*html.Node][]listenerEntry{},
		subs:      map[int]chan struct{}{},
	}, nil
}

// ParseString is Parse for an in-memory snapshot.
func ParseString(markup, pageURL string) (*Document, error) {
	return Parse(strings.NewReader(markup), pageURL)
}

// Do runs fn with exclusive access to the document tree.
func (d *Document) Do(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn()
}

// Root returns the document node.
func (d *Document) Root() *html.Node {
	return d.root
}

// Body returns the body element, or nil.
func (d *Document) Body() *html.Node {
	return findAtom(d.root, atom.Body)
}

// URL returns the current page address.
func (d *Document) URL() string {
	return d.url
}

// Title returns the sanitized <title> text.
func (d *Document) Title() string {
	title := findAtom(d.root, atom.Title)
	if title == nil {
		return ""
	}
	return strings.Join(strings.Fields(TextContent(title)), " ")
}

// Navigate changes the page address without reloading, the way a
// single-page app updates history.
func (d *Document) Navigate(pageURL string) {
	d.url = strings.TrimSpace(pageURL)
	d.notify()
}

// AppendHTML parses markup as a fragment and appends it to parent.
func (d *Document) AppendHTML(parent *html.Node, markup string) error {
	if parent == nil {
		return fmt.Errorf("append html: parent is nil")
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), contextNode(parent))
	if err != nil {
		return fmt.Errorf("append html: %w", err)
	}
	for _, n := range nodes {
		parent.AppendChild(n)
	}
	d.notify()
	return nil
}

// SetInnerHTML replaces the children of n with parsed markup.
func (d *Document) SetInnerHTML(n *html.Node, markup string) error {
	if n == nil {
		return fmt.Errorf("set inner html: node is nil")
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), contextNode(n))
	if err != nil {
		return fmt.Errorf("set inner html: %w", err)
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	for _, child := range nodes {
		n.AppendChild(child)
	}
	d.notify()
	return nil
}

// Remove detaches n from the tree.
func (d *Document) Remove(n *html.Node) {
	if n == nil || n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
	delete(d.listeners, n)
	d.notify()
}

// Render writes the serialized document.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// String serializes the document.
func (d *Document) String() string {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// Subscribe registers for mutation notifications. The channel holds at most
// one pending signal, so bursts of mutations coalesce.
func (d *Document) Subscribe() (<-chan struct{}, func()) {
	d.subMu.Lock()
	defer d.subMu.Unlock()
	id := d.nextID
	d.nextID++
	ch := make(chan struct{}, 1)
	d.subs[id] = ch
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			d.subMu.Lock()
			delete(d.subs, id)
			d.subMu.Unlock()
		})
	}
}

// Touch records an out-of-band mutation.
func (d *Document) Touch() {
	d.notify()
}

func (d *Document) notify() {
	d.subMu.Lock()
	defer d.subMu.Unlock()
	for _, ch := range d.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// contextNode picks the fragment parsing context for a parent element.
func contextNode(parent *html.Node) *html.Node {
	if parent.Type == html.ElementNode {
		return parent
	}
	return &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
}

func findAtom(n *html.Node, a atom.Atom) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findAtom(c, a); found != nil {
			return found
		}
	}
	return nil
}
