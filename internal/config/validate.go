package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"

	"quizpilot/internal/dom"
	"quizpilot/internal/platform"
)

// Validate checks a config for correctness and referenced files.
func Validate(cfg *Config, baseDir string) error {
	collector := &issueCollector{}

	if cfg.Version == 0 {
		collector.add("version", "is required")
	} else if cfg.Version != 1 {
		collector.add("version", fmt.Sprintf("unsupported version %d", cfg.Version))
	}
	if baseDir == "" {
		baseDir = "."
	}

	validateTransport(cfg.Transport, baseDir, collector.section("transport"))
	validateObserve(cfg.Observe, collector.section("observe"))
	validateBrowser(cfg.Browser, collector.section("browser"))
	validateLog(cfg.Log, collector.section("log"))
	validateServer(cfg.Server, collector.section("server"))

	return collector.result()
}

func validateTransport(t TransportConfig, baseDir string, add issueAdder) {
	switch t.Provider {
	case ProviderOpenRouter:
		if strings.TrimSpace(t.Model) == "" {
			add("model", "is required")
		}
		if _, err := url.ParseRequestURI(t.BaseURL); err != nil {
			add("base_url", fmt.Sprintf("invalid URL %q", t.BaseURL))
		}
		if strings.TrimSpace(t.APIKeyEnv) == "" {
			add("api_key_env", "is required")
		}
	case ProviderAnswerKey:
		path := strings.TrimSpace(t.AnswerKey)
		if path == "" {
			add("answer_key", "is required for the answer_key provider")
		} else if info, err := os.Stat(ResolvePath(baseDir, path)); err != nil {
			add("answer_key", fmt.Sprintf("cannot read %q", path))
		} else if info.IsDir() {
			add("answer_key", fmt.Sprintf("%q is a directory", path))
		}
	default:
		add("provider", fmt.Sprintf("unsupported provider %q", t.Provider))
	}
	if t.Temperature < 0 || t.Temperature > 2 {
		add("temperature", "must be between 0 and 2")
	}
	if t.TimeoutMs < 0 {
		add("timeout_ms", "must not be negative")
	}
}

func validateObserve(o ObserveConfig, add issueAdder) {
	if o.DebounceMs < 0 {
		add("debounce_ms", "must not be negative")
	}
	if o.URLPollMs < 0 {
		add("url_poll_ms", "must not be negative")
	}
}

func validateBrowser(b BrowserConfig, add issueAdder) {
	if b.TimeoutMs < 0 {
		add("timeout_ms", "must not be negative")
	}
	if !dom.ValidSelector(b.WaitSelector) {
		add("wait_selector", fmt.Sprintf("invalid selector %q", b.WaitSelector))
	}
	for i, host := range b.AllowedHosts {
		if !platform.ValidHostPattern(host) {
			add(fmt.Sprintf("allowed_hosts[%d]", i), fmt.Sprintf("invalid host pattern %q", host))
		}
	}
}

func validateLog(l LogConfig, add issueAdder) {
	switch l.Level {
	case "debug", "info", "warn", "error":
	default:
		add("level", fmt.Sprintf("unsupported level %q", l.Level))
	}
	switch l.Format {
	case "console", "json":
	default:
		add("format", fmt.Sprintf("unsupported format %q", l.Format))
	}
}

func validateServer(s ServerConfig, add issueAdder) {
	if _, _, err := net.SplitHostPort(s.Addr); err != nil {
		add("addr", fmt.Sprintf("invalid address %q", s.Addr))
	}
	if s.TimeoutMs < 0 {
		add("timeout_ms", "must not be negative")
	}
	for i, origin := range s.AllowedOrigins {
		if strings.TrimSpace(origin) == "" {
			add(fmt.Sprintf("allowed_origins[%d]", i), "is empty")
		}
	}
}
