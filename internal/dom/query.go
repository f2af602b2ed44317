package dom

import (
	"sync"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

var selectorCache sync.Map // string -> cascadia.SelectorGroup

// compile parses a selector group once and caches it. Invalid selectors
// yield ok=false.
func compile(selector string) (cascadia.SelectorGroup, bool) {
	if cached, ok := selectorCache.Load(selector); ok {
		group, valid := cached.(cascadia.SelectorGroup)
		return group, valid
	}
	group, err := cascadia.ParseGroup(selector)
	if err != nil {
		selectorCache.Store(selector, false)
		return nil, false
	}
	selectorCache.Store(selector, group)
	return group, true
}

// ValidSelector reports whether selector parses.
func ValidSelector(selector string) bool {
	_, ok := compile(selector)
	return ok
}

// QueryAll returns the descendants of root matching selector in document
// order. root itself is never included.
func QueryAll(root *html.Node, selector string) []*html.Node {
	if root == nil {
		return nil
	}
	group, ok := compile(selector)
	if !ok {
		return nil
	}
	return cascadia.QueryAll(root, group)
}

// Query returns the first descendant of root matching selector.
func Query(root *html.Node, selector string) *html.Node {
	if root == nil {
		return nil
	}
	group, ok := compile(selector)
	if !ok {
		return nil
	}
	return cascadia.Query(root, group)
}

// Matches reports whether the element matches selector.
func Matches(n *html.Node, selector string) bool {
	if !IsElement(n) {
		return false
	}
	group, ok := compile(selector)
	if !ok {
		return false
	}
	return group.Match(n)
}

// Closest returns n or its nearest ancestor matching selector.
func Closest(n *html.Node, selector string) *html.Node {
	return ClosestFunc(n, nil, func(cur *html.Node) bool {
		return Matches(cur, selector)
	})
}
