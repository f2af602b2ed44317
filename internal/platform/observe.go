package platform

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"quizpilot/internal/dom"
)

type delivery struct {
	container *html.Node
	index     int
}

// observe runs an immediate discovery pass on the caller's goroutine, then
// rescans after each debounced burst of mutations and, when the profile
// polls, after each URL change. Every container is delivered once while it
// stays attached.
func observe(doc *dom.Document, h *Host, fn ContainerFunc, opts Options) func() {
	changes, unsubscribe := doc.Subscribe()
	done := make(chan struct{})
	seen := dom.NewNodeSet()
	logger := opts.Logger.With(zap.String("adapter", h.Name()))

	stopped := func() bool {
		select {
		case <-done:
			return true
		default:
			return false
		}
	}

	scan := func(reason string) {
		var fresh []delivery
		doc.Do(func() {
			seen.Prune(doc.Root())
			if !h.URLMatches(doc.URL()) {
				return
			}
			for index, container := range Discover(doc.Root(), h.profile) {
				if seen.Has(container) {
					continue
				}
				seen.Add(container)
				fresh = append(fresh, delivery{container: container, index: index})
			}
		})
		if len(fresh) > 0 {
			logger.Debug("question containers discovered", zap.String("reason", reason), zap.Int("count", len(fresh)))
		}
		for _, d := range fresh {
			if stopped() {
				return
			}
			fn(d.container, d.index)
		}
	}

	var lastURL string
	doc.Do(func() { lastURL = doc.URL() })
	scan("initial")

	go func() {
		var debounce *time.Timer
		var fire <-chan time.Time
		defer func() {
			if debounce != nil {
				debounce.Stop()
			}
		}()
		var poll <-chan time.Time
		if h.profile.PollURL {
			ticker := time.NewTicker(opts.URLPoll)
			defer ticker.Stop()
			poll = ticker.C
		}
		for {
			select {
			case <-done:
				return
			case <-changes:
				if debounce == nil {
					debounce = time.NewTimer(opts.Debounce)
				} else {
					debounce.Reset(opts.Debounce)
				}
				fire = debounce.C
			case <-fire:
				fire = nil
				scan("mutation")
			case <-poll:
				var current string
				doc.Do(func() { current = doc.URL() })
				if current != lastURL {
					lastURL = current
					logger.Debug("page address changed", zap.String("url", current))
					scan("navigation")
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			unsubscribe()
		})
	}
}
