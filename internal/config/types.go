package config

import "time"

// Config is the on-disk quizpilot configuration.
type Config struct {
	Version   int             `yaml:"version"`
	Transport TransportConfig `yaml:"transport"`
	Observe   ObserveConfig   `yaml:"observe"`
	Browser   BrowserConfig   `yaml:"browser"`
	Audit     AuditConfig     `yaml:"audit"`
	Log       LogConfig       `yaml:"log"`
	Server    ServerConfig    `yaml:"server"`
}

// TransportConfig selects where suggestions come from.
type TransportConfig struct {
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Temperature float64 `yaml:"temperature"`
	TimeoutMs   int     `yaml:"timeout_ms"`
	AnswerKey   string  `yaml:"answer_key"`
	Screenshots bool    `yaml:"screenshots"`
}

// ObserveConfig tunes question observation.
type ObserveConfig struct {
	DebounceMs int `yaml:"debounce_ms"`
	URLPollMs  int `yaml:"url_poll_ms"`
}

// BrowserConfig configures the live Chrome session.
type BrowserConfig struct {
	Headless     *bool    `yaml:"headless"`
	ExecPath     string   `yaml:"exec_path"`
	UserDataDir  string   `yaml:"user_data_dir"`
	WaitSelector string   `yaml:"wait_selector"`
	TimeoutMs    int      `yaml:"timeout_ms"`
	AllowedHosts []string `yaml:"allowed_hosts"`
}

// AuditConfig locates the attempt history database. An empty path
// disables recording.
type AuditConfig struct {
	Path string `yaml:"path"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	TimeoutMs      int      `yaml:"timeout_ms"`
}

// Provider names accepted in transport.provider.
const (
	ProviderOpenRouter = "openrouter"
	ProviderAnswerKey  = "answer_key"
)

// Timeout returns the request deadline.
func (c TransportConfig) Timeout() time.Duration {
	return millis(c.TimeoutMs)
}

// Debounce returns the mutation debounce window.
func (c ObserveConfig) Debounce() time.Duration {
	return millis(c.DebounceMs)
}

// URLPoll returns the location polling interval.
func (c ObserveConfig) URLPoll() time.Duration {
	return millis(c.URLPollMs)
}

// IsHeadless reports whether Chrome runs without a window; unset means yes.
func (c BrowserConfig) IsHeadless() bool {
	return c.Headless == nil || *c.Headless
}

// Timeout returns the per-action browser deadline.
func (c BrowserConfig) Timeout() time.Duration {
	return millis(c.TimeoutMs)
}

// Timeout returns the per-request handler deadline.
func (c ServerConfig) Timeout() time.Duration {
	return millis(c.TimeoutMs)
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
