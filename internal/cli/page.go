package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"quizpilot/internal/dom"
	"quizpilot/internal/platform"
)

// loadSnapshot parses a saved page. Without pageURL the file URL is used,
// which only the generic adapter accepts.
func loadSnapshot(path, pageURL string) (*dom.Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer file.Close()
	if strings.TrimSpace(pageURL) == "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolve snapshot: %w", err)
		}
		pageURL = "file://" + filepath.ToSlash(abs)
	}
	doc, err := dom.Parse(file, pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return doc, nil
}

// snapshotArg returns the single positional snapshot path.
func snapshotArg(args []string) (string, error) {
	switch len(args) {
	case 0:
		return "", fmt.Errorf("missing <snapshot.html>")
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("unexpected arguments: %s", strings.Join(args[1:], " "))
	}
}

// detectPage loads a snapshot and finds its adapter.
func detectPage(rt *runtime, path, pageURL string) (*dom.Document, platform.Adapter, error) {
	doc, err := loadSnapshot(path, pageURL)
	if err != nil {
		return nil, nil, err
	}
	registry, err := rt.registry()
	if err != nil {
		return nil, nil, err
	}
	adapter, ok := registry.Detect(doc)
	if !ok {
		return doc, nil, nil
	}
	return doc, adapter, nil
}
