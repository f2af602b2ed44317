package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() Config {
	cfg := Config{Version: 1}
	Normalize(&cfg)
	return cfg
}

// TestNormalizeDefaults verifies unset fields receive defaults.
func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	if cfg.Transport.Provider != ProviderOpenRouter {
		t.Fatalf("expected openrouter provider, got %q", cfg.Transport.Provider)
	}
	if cfg.Transport.APIKeyEnv != DefaultAPIKeyEnv {
		t.Fatalf("expected default api key env, got %q", cfg.Transport.APIKeyEnv)
	}
	if cfg.Observe.Debounce().Milliseconds() != 300 {
		t.Fatalf("expected default debounce, got %s", cfg.Observe.Debounce())
	}
	if !cfg.Browser.IsHeadless() {
		t.Fatalf("expected headless by default")
	}
	if cfg.Audit.Path != "" {
		t.Fatalf("expected audit to stay disabled, got %q", cfg.Audit.Path)
	}
	if err := Validate(&cfg, t.TempDir()); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

// TestNormalizeInfersAnswerKeyProvider verifies an answer key selects the offline provider.
func TestNormalizeInfersAnswerKeyProvider(t *testing.T) {
	cfg := Config{Version: 1, Transport: TransportConfig{AnswerKey: "answers.yml"}}
	Normalize(&cfg)
	if cfg.Transport.Provider != ProviderAnswerKey {
		t.Fatalf("expected answer_key provider, got %q", cfg.Transport.Provider)
	}
	if cfg.Transport.Model != "" {
		t.Fatalf("expected no model default for answer keys, got %q", cfg.Transport.Model)
	}
}

// TestValidateCollectsIssues verifies every invalid field is reported at once.
func TestValidateCollectsIssues(t *testing.T) {
	cfg := validConfig()
	cfg.Version = 2
	cfg.Transport.Temperature = 3
	cfg.Log.Level = "loud"
	cfg.Server.Addr = "nowhere"
	cfg.Browser.WaitSelector = "div["
	cfg.Browser.AllowedHosts = []string{"[bad"}

	err := Validate(&cfg, t.TempDir())
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	fields := map[string]bool{}
	for _, issue := range validationErr.Issues {
		fields[issue.Field] = true
	}
	for _, want := range []string{
		"version",
		"transport.temperature",
		"log.level",
		"server.addr",
		"browser.wait_selector",
		"browser.allowed_hosts[0]",
	} {
		if !fields[want] {
			t.Fatalf("expected issue for %s, got %v", want, validationErr.Issues)
		}
	}
}

// TestValidateAnswerKeyPath verifies the answer key must exist relative to the root.
func TestValidateAnswerKeyPath(t *testing.T) {
	root := t.TempDir()
	cfg := Config{Version: 1, Transport: TransportConfig{Provider: ProviderAnswerKey, AnswerKey: "answers.yml"}}
	Normalize(&cfg)
	err := Validate(&cfg, root)
	if err == nil || !strings.Contains(err.Error(), "transport.answer_key") {
		t.Fatalf("expected answer_key error, got %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "answers.yml"), []byte("version: 1\n"), 0o644); err != nil {
		t.Fatalf("write answer key: %v", err)
	}
	if err := Validate(&cfg, root); err != nil {
		t.Fatalf("expected config to validate, got %v", err)
	}
}

// TestParseRejectsUnknownFields verifies typos are caught.
func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("version: 1\ntransport:\n  modle: x\n"))
	if err == nil || !strings.Contains(err.Error(), "modle") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

// TestParseRejectsMultipleDocuments verifies only one YAML document is accepted.
func TestParseRejectsMultipleDocuments(t *testing.T) {
	_, err := Parse([]byte("version: 1\n---\nversion: 1\n"))
	if err == nil || !strings.Contains(err.Error(), "multiple") {
		t.Fatalf("expected multiple document error, got %v", err)
	}
}

// TestScaffoldLoads verifies the scaffolded config loads cleanly.
func TestScaffoldLoads(t *testing.T) {
	root := t.TempDir()
	path := ConfigPath(root)
	if err := Scaffold(path); err != nil {
		t.Fatalf("scaffold: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load scaffolded config: %v", err)
	}
	if cfg.Audit.Path != DefaultAuditPath {
		t.Fatalf("expected audit path, got %q", cfg.Audit.Path)
	}
	if ResolvePath(RootFromConfigPath(path), cfg.Audit.Path) != filepath.Join(root, DefaultAuditPath) {
		t.Fatalf("expected audit path under root")
	}
	if err := Scaffold(path); err == nil {
		t.Fatalf("expected second scaffold to fail")
	}
}

// TestFindConfigPathWalksUp verifies discovery from nested directories.
func TestFindConfigPathWalksUp(t *testing.T) {
	root := t.TempDir()
	if err := Scaffold(ConfigPath(root)); err != nil {
		t.Fatalf("scaffold: %v", err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	found, err := FindConfigPath(nested)
	if err != nil {
		t.Fatalf("find config: %v", err)
	}
	if found != ConfigPath(root) {
		t.Fatalf("expected %s, got %s", ConfigPath(root), found)
	}
}

// TestFindConfigPathNotFound verifies a typed error when nothing exists.
func TestFindConfigPathNotFound(t *testing.T) {
	_, err := FindConfigPath(t.TempDir())
	var notFound *ErrNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
