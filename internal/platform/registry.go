package platform

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"quizpilot/internal/dom"
)

type entry struct {
	adapter Adapter
	urls    []Pattern
	hosts   []string
}

// Registry holds adapters in registration order. Earlier registrations win
// detection ties.
type Registry struct {
	mu      sync.RWMutex
	entries []entry
	logger  *zap.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{logger: logger}
}

// Register appends an adapter with the URL match patterns that gate it and
// the host globs a live browser may open for it.
func (r *Registry) Register(adapter Adapter, urlPatterns, hostPatterns []string) error {
	if adapter == nil {
		return fmt.Errorf("register adapter: adapter is nil")
	}
	name := strings.TrimSpace(adapter.Name())
	if name == "" {
		return fmt.Errorf("register adapter: name is required")
	}
	if len(urlPatterns) == 0 {
		return fmt.Errorf("register adapter %s: at least one url pattern is required", name)
	}
	urls, err := ParsePatterns(urlPatterns)
	if err != nil {
		return fmt.Errorf("register adapter %s: %w", name, err)
	}
	for _, host := range hostPatterns {
		if !ValidHostPattern(host) {
			return fmt.Errorf("register adapter %s: invalid host pattern %q", name, host)
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.entries {
		if existing.adapter.Name() == name {
			return fmt.Errorf("register adapter %s: already registered", name)
		}
	}
	r.entries = append(r.entries, entry{adapter: adapter, urls: urls, hosts: append([]string(nil), hostPatterns...)})
	return nil
}

// Detect returns the first adapter whose URL patterns match the document
// address and whose IsQuizPage accepts the document. An adapter that panics
// is treated as a non-match.
func (r *Registry) Detect(doc *dom.Document) (Adapter, bool) {
	var pageURL string
	doc.Do(func() { pageURL = doc.URL() })
	for _, e := range r.snapshot() {
		if !MatchAny(e.urls, pageURL) {
			continue
		}
		if r.isQuizPage(e.adapter, doc) {
			return e.adapter, true
		}
	}
	return nil, false
}

func (r *Registry) isQuizPage(adapter Adapter, doc *dom.Document) (ok bool) {
	defer func() {
		if recovered := recover(); recovered != nil {
			r.logger.Warn("adapter detection panicked",
				zap.String("adapter", adapter.Name()),
				zap.Any("panic", recovered))
			ok = false
		}
	}()
	doc.Do(func() { ok = adapter.IsQuizPage(doc) })
	return ok
}

// Lookup returns a registered adapter by name.
func (r *Registry) Lookup(name string) (Adapter, bool) {
	for _, e := range r.snapshot() {
		if e.adapter.Name() == name {
			return e.adapter, true
		}
	}
	return nil, false
}

// Names returns adapter names in priority order.
func (r *Registry) Names() []string {
	entries := r.snapshot()
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.adapter.Name())
	}
	return names
}

// HostAllowed reports whether any adapter lists a host glob matching the
// host of rawURL.
func (r *Registry) HostAllowed(rawURL string) bool {
	for _, e := range r.snapshot() {
		for _, host := range e.hosts {
			if MatchHost(host, rawURL) {
				return true
			}
		}
	}
	return false
}

func (r *Registry) snapshot() []entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]entry(nil), r.entries...)
}
