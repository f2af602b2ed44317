package dom

import (
	"weak"

	"golang.org/x/net/html"
)

// NodeSet tracks nodes by identity without keeping them alive. Entries whose
// node was collected or detached from the tree are dropped by Prune.
type NodeSet struct {
	entries map[weak.Pointer[html.Node]]struct{}
}

// NewNodeSet returns an empty set.
func NewNodeSet() *NodeSet {
	return &NodeSet{entries: map[weak.Pointer[html.Node]]struct{}{}}
}

// Add inserts n.
func (s *NodeSet) Add(n *html.Node) {
	if n == nil {
		return
	}
	s.entries[weak.Make(n)] = struct{}{}
}

// Has reports whether n was added and not pruned.
func (s *NodeSet) Has(n *html.Node) bool {
	if n == nil {
		return false
	}
	_, ok := s.entries[weak.Make(n)]
	return ok
}

// Delete removes n.
func (s *NodeSet) Delete(n *html.Node) {
	if n == nil {
		return
	}
	delete(s.entries, weak.Make(n))
}

// Len returns the number of tracked entries.
func (s *NodeSet) Len() int {
	return len(s.entries)
}

// Prune drops entries that were garbage collected or are no longer
// connected to root.
func (s *NodeSet) Prune(root *html.Node) {
	for ptr := range s.entries {
		n := ptr.Value()
		if n == nil || !Connected(n, root) {
			delete(s.entries, ptr)
		}
	}
}
