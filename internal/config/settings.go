package config

import (
	"path/filepath"

	"quizpilot/internal/transport"
)

// Settings converts the transport section for the remote provider.
func (c TransportConfig) Settings() transport.Settings {
	return transport.Settings{
		Provider:    c.Provider,
		Model:       c.Model,
		BaseURL:     c.BaseURL,
		Temperature: c.Temperature,
		Timeout:     c.Timeout(),
	}
}

// ResolvePath anchors a relative config path at root.
func ResolvePath(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
