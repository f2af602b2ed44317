package config

import (
	"strings"

	"quizpilot/internal/platform"
	"quizpilot/internal/transport"
)

// Default values filled in by Normalize.
const (
	DefaultAPIKeyEnv  = "LLM_API_KEY"
	DefaultModel      = "openai/gpt-4o-mini"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "console"
	DefaultServerAddr = "127.0.0.1:8765"
)

// Normalize fills unset fields with defaults.
func Normalize(cfg *Config) {
	t := &cfg.Transport
	t.Provider = strings.ToLower(strings.TrimSpace(t.Provider))
	if t.Provider == "" {
		t.Provider = ProviderOpenRouter
		if strings.TrimSpace(t.AnswerKey) != "" {
			t.Provider = ProviderAnswerKey
		}
	}
	if t.Provider == ProviderOpenRouter {
		if strings.TrimSpace(t.Model) == "" {
			t.Model = DefaultModel
		}
		if strings.TrimSpace(t.BaseURL) == "" {
			t.BaseURL = transport.DefaultOpenRouterBaseURL
		}
		if strings.TrimSpace(t.APIKeyEnv) == "" {
			t.APIKeyEnv = DefaultAPIKeyEnv
		}
	}
	if t.TimeoutMs == 0 {
		t.TimeoutMs = int(transport.DefaultTimeout.Milliseconds())
	}

	if cfg.Observe.DebounceMs == 0 {
		cfg.Observe.DebounceMs = int(platform.DefaultDebounce.Milliseconds())
	}
	if cfg.Observe.URLPollMs == 0 {
		cfg.Observe.URLPollMs = int(platform.DefaultURLPoll.Milliseconds())
	}

	if cfg.Browser.TimeoutMs == 0 {
		cfg.Browser.TimeoutMs = 30000
	}
	if strings.TrimSpace(cfg.Browser.WaitSelector) == "" {
		cfg.Browser.WaitSelector = "body"
	}

	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	cfg.Log.Format = strings.ToLower(strings.TrimSpace(cfg.Log.Format))
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		cfg.Server.Addr = DefaultServerAddr
	}
	if cfg.Server.TimeoutMs == 0 {
		cfg.Server.TimeoutMs = 15000
	}
}
