package platform

import (
	"fmt"
	"sort"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"quizpilot/internal/dom"
	"quizpilot/internal/labels"
)

// MinPromptRunes is the prompt length an inferred container needs before it
// is taken to hold a whole question.
const MinPromptRunes = 8

// Discover returns the question containers under root in document order.
// Nested containers and containers whose widgets are all disabled are left
// out.
func Discover(root *html.Node, profile Profile) []*html.Node {
	var candidates []*html.Node
	if len(profile.ContainerSelectors) > 0 {
		for _, selector := range profile.ContainerSelectors {
			candidates = append(candidates, dom.QueryAll(root, selector)...)
		}
	} else {
		candidates = clusterContainers(root)
	}
	if len(candidates) == 0 {
		return nil
	}
	order := dom.DocumentOrder(root)
	seen := map[*html.Node]bool{}
	unique := candidates[:0]
	for _, candidate := range candidates {
		if seen[candidate] {
			continue
		}
		seen[candidate] = true
		unique = append(unique, candidate)
	}
	sort.SliceStable(unique, func(i, j int) bool {
		return order[unique[i]] < order[unique[j]]
	})
	var out []*html.Node
	for _, candidate := range unique {
		if nestedIn(candidate, out) || locked(candidate) {
			continue
		}
		if profile.Exclude != nil && profile.Exclude(candidate) {
			continue
		}
		out = append(out, candidate)
	}
	return out
}

func nestedIn(n *html.Node, selected []*html.Node) bool {
	for _, outer := range selected {
		if outer != n && dom.Contains(outer, n) {
			return true
		}
	}
	return false
}

// locked reports whether a container has widgets and none can be answered.
func locked(container *html.Node) bool {
	widgets := dom.Widgets(container)
	if len(widgets) == 0 {
		return false
	}
	for _, widget := range widgets {
		if !dom.IsDisabled(widget) {
			return false
		}
	}
	return true
}

// clusterContainers groups widgets into probable questions. Radios and
// checkboxes sharing a name form one cluster. Other widgets, and unnamed
// radios and checkboxes, are grouped by their nearest block ancestor so a
// sentence with several blanks or dropdowns stays one question. Each
// cluster climbs from its common ancestor to the first element with enough
// prompt text, never reaching body or html and never swallowing another
// cluster.
func clusterContainers(root *html.Node) []*html.Node {
	var clusters [][]*html.Node
	byName := map[string]int{}
	byBlock := map[*html.Node]int{}
	owner := map[*html.Node]int{}
	for _, widget := range dom.Widgets(root) {
		kind := dom.Widget(widget)
		name := dom.Attr(widget, "name")
		if (kind == dom.WidgetRadio || kind == dom.WidgetCheckbox) && name != "" {
			key := fmt.Sprintf("%d:%s", kind, name)
			if index, ok := byName[key]; ok {
				clusters[index] = append(clusters[index], widget)
				owner[widget] = index
				continue
			}
			byName[key] = len(clusters)
		} else if block := blockAncestor(widget); block != nil {
			if index, ok := byBlock[block]; ok {
				clusters[index] = append(clusters[index], widget)
				owner[widget] = index
				continue
			}
			byBlock[block] = len(clusters)
		}
		owner[widget] = len(clusters)
		clusters = append(clusters, []*html.Node{widget})
	}
	var out []*html.Node
	for index, cluster := range clusters {
		if container := climb(commonAncestor(cluster), index, owner); container != nil {
			out = append(out, container)
		}
	}
	return out
}

// inlineAtoms are phrasing elements that wrap a widget without starting a
// new question.
var inlineAtoms = map[atom.Atom]bool{
	atom.A: true, atom.Abbr: true, atom.B: true, atom.Bdi: true, atom.Bdo: true,
	atom.Cite: true, atom.Code: true, atom.Em: true, atom.Font: true, atom.I: true,
	atom.Kbd: true, atom.Label: true, atom.Mark: true, atom.Q: true, atom.S: true,
	atom.Small: true, atom.Span: true, atom.Strong: true, atom.Sub: true,
	atom.Sup: true, atom.U: true,
}

// blockAncestor returns the nearest ancestor of n that is not an inline
// wrapper, or nil at body and html.
func blockAncestor(n *html.Node) *html.Node {
	for cur := n.Parent; dom.IsElement(cur); cur = cur.Parent {
		if cur.DataAtom == atom.Body || cur.DataAtom == atom.Html {
			return nil
		}
		if !inlineAtoms[cur.DataAtom] {
			return cur
		}
	}
	return nil
}

func climb(start *html.Node, cluster int, owner map[*html.Node]int) *html.Node {
	var last *html.Node
	for cur := start; dom.IsElement(cur); cur = cur.Parent {
		if cur.DataAtom == atom.Body || cur.DataAtom == atom.Html {
			return last
		}
		if holdsForeign(cur, cluster, owner) {
			return last
		}
		if promptRunes(cur) >= MinPromptRunes {
			return cur
		}
		last = cur
	}
	return last
}

func holdsForeign(n *html.Node, cluster int, owner map[*html.Node]int) bool {
	for _, widget := range dom.Widgets(n) {
		if index, ok := owner[widget]; ok && index != cluster {
			return true
		}
	}
	return false
}

func promptRunes(n *html.Node) int {
	return len([]rune(labels.PromptText(n, nil, labels.AnswerTextFilter(n))))
}

func commonAncestor(nodes []*html.Node) *html.Node {
	if len(nodes) == 0 {
		return nil
	}
	candidate := nodes[0].Parent
	for candidate != nil {
		all := true
		for _, n := range nodes[1:] {
			if !dom.Contains(candidate, n) {
				all = false
				break
			}
		}
		if all {
			return candidate
		}
		candidate = candidate.Parent
	}
	return nil
}
