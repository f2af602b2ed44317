package question

import (
	"fmt"
	"sync"
)

// IDRegistry hands out page-unique question ids. A base id that is already
// taken gets a numeric suffix: base, base-1, base-2, ...
type IDRegistry struct {
	mu    sync.Mutex
	taken map[string]struct{}
	next  map[string]int
}

// NewIDRegistry returns an empty registry.
func NewIDRegistry() *IDRegistry {
	return &IDRegistry{taken: map[string]struct{}{}, next: map[string]int{}}
}

// Claim registers and returns a unique id derived from base.
func (r *IDRegistry) Claim(base string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if base == "" {
		base = "question"
	}
	if _, ok := r.taken[base]; !ok {
		r.taken[base] = struct{}{}
		return base
	}
	for {
		r.next[base]++
		candidate := fmt.Sprintf("%s-%d", base, r.next[base])
		if _, ok := r.taken[candidate]; ok {
			continue
		}
		r.taken[candidate] = struct{}{}
		return candidate
	}
}

// Release frees an id so a later Claim may reuse it. Suffix counters keep
// increasing so released suffixed ids are never handed out twice.
func (r *IDRegistry) Release(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.taken, id)
}

// Len returns the number of claimed ids.
func (r *IDRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.taken)
}
