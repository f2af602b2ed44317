// Package hosts builds the process-wide adapter registry.
package hosts

import (
	"fmt"

	"quizpilot/internal/platform"
	"quizpilot/internal/platform/canvas"
	"quizpilot/internal/platform/generic"
	"quizpilot/internal/platform/moodle"
)

// Default registers the built-in adapters in priority order: Canvas,
// Moodle, then the generic fallback. extraHosts are host globs a live
// browser may additionally open, such as self-hosted Moodle domains.
func Default(opts platform.Options, extraHosts []string) (*platform.Registry, error) {
	registry := platform.NewRegistry(opts.Logger)
	entries := []struct {
		adapter platform.Adapter
		urls    []string
		hosts   []string
	}{
		{canvas.New(opts), canvas.URLPatterns, canvas.HostPatterns},
		{moodle.New(opts), moodle.URLPatterns, moodle.HostPatterns},
		{generic.New(opts), generic.URLPatterns, extraHosts},
	}
	for _, e := range entries {
		if err := registry.Register(e.adapter, e.urls, e.hosts); err != nil {
			return nil, fmt.Errorf("build registry: %w", err)
		}
	}
	return registry, nil
}
