package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const defaultConfig = `version: 1

transport:
  provider: "openrouter"
  model: "openai/gpt-4o-mini"
  api_key_env: "LLM_API_KEY"
  temperature: 0.0
  timeout_ms: 60000
  screenshots: true
  # answer_key: "answers.yml"

observe:
  debounce_ms: 300
  url_poll_ms: 1000

browser:
  headless: true
  wait_selector: "body"
  timeout_ms: 30000
  allowed_hosts: []

audit:
  path: ".quizpilot/history.duckdb"

log:
  level: "info"
  format: "console"

server:
  addr: "127.0.0.1:8765"
  allowed_origins: []
`

const defaultAnswerKey = `# Answers used when transport.provider is answer_key.
version: 1
answers:
  - question: "q1"
    choice_ids: ["A"]
`

// Scaffold writes a default config and an example answer key next to it.
func Scaffold(configPath string) error {
	if configPath == "" {
		return fmt.Errorf("config path is required")
	}
	if err := ensureAbsent(configPath, "config"); err != nil {
		return err
	}
	keyPath := filepath.Join(filepath.Dir(configPath), "answers.example.yml")
	if err := ensureAbsent(keyPath, "answer key"); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	if err := os.WriteFile(keyPath, []byte(defaultAnswerKey), 0o644); err != nil {
		return fmt.Errorf("write answer key: %w", err)
	}
	return nil
}

func ensureAbsent(path, what string) error {
	info, err := os.Stat(path)
	if err == nil {
		if info.IsDir() {
			return fmt.Errorf("%s path %q is a directory", what, path)
		}
		return fmt.Errorf("%s file already exists at %q", what, path)
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s file: %w", what, err)
	}
	return nil
}
