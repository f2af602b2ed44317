package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultOpenRouterBaseURL is the default OpenRouter API base URL.
const DefaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// DefaultTimeout bounds a request when the settings leave it unset.
const DefaultTimeout = 60 * time.Second

// HTTPDoer abstracts HTTP clients used by providers.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Settings configure a remote provider.
type Settings struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float64
	Timeout     time.Duration
}

// OpenRouter implements Transport for the OpenRouter chat completions API.
type OpenRouter struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
	Client      HTTPDoer
	Logger      *zap.Logger
}

// FromSettings builds a transport for the configured provider. A blank key
// is read from the environment variable apiKeyEnv.
func FromSettings(settings Settings, apiKeyEnv string, client HTTPDoer, logger *zap.Logger) (*OpenRouter, error) {
	provider := strings.TrimSpace(settings.Provider)
	if provider == "" {
		provider = "openrouter"
	}
	if provider != "openrouter" {
		return nil, fmt.Errorf("unsupported provider %q", provider)
	}
	if strings.TrimSpace(settings.APIKey) == "" && apiKeyEnv != "" {
		settings.APIKey = strings.TrimSpace(os.Getenv(apiKeyEnv))
		if settings.APIKey == "" {
			return nil, fmt.Errorf("%s is required", apiKeyEnv)
		}
	}
	return NewOpenRouter(settings, client, logger)
}

// NewOpenRouter constructs an OpenRouter transport with explicit settings.
func NewOpenRouter(settings Settings, client HTTPDoer, logger *zap.Logger) (*OpenRouter, error) {
	if strings.TrimSpace(settings.Model) == "" {
		return nil, fmt.Errorf("model is required")
	}
	if strings.TrimSpace(settings.APIKey) == "" {
		return nil, fmt.Errorf("api key is required")
	}
	baseURL := strings.TrimSpace(settings.BaseURL)
	if baseURL == "" {
		baseURL = DefaultOpenRouterBaseURL
	}
	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenRouter{
		APIKey:      settings.APIKey,
		BaseURL:     strings.TrimRight(baseURL, "/"),
		Model:       settings.Model,
		Temperature: settings.Temperature,
		Timeout:     settings.Timeout,
		Client:      client,
		Logger:      logger,
	}, nil
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Ask sends one question and maps every failure to an Outcome.
func (p *OpenRouter) Ask(ctx context.Context, req Request) Outcome {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	started := time.Now()
	content, err := p.complete(ctx, req)
	logger := p.Logger.With(
		zap.String("question", req.QuestionID),
		zap.String("model", p.Model),
		zap.Duration("elapsed", time.Since(started)),
	)
	if err != nil {
		if isTimeout(ctx, err) {
			logger.Warn("model request timed out", zap.Error(err))
			return Timeout("no answer within %s", p.Timeout)
		}
		logger.Warn("model request failed", zap.Error(err))
		return Failure("%v", err)
	}
	suggestion, err := ParseOutput(content)
	if err != nil {
		logger.Warn("model answer unusable", zap.Error(err))
		outcome := Failure("unusable model answer: %v", err)
		outcome.Raw = content
		return outcome
	}
	logger.Debug("model answered", zap.Strings("ids", suggestion.ChoiceIDs))
	outcome := Success(suggestion)
	outcome.Raw = content
	return outcome
}

func (p *OpenRouter) complete(ctx context.Context, req Request) (string, error) {
	parts, err := userContent(req)
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(chatRequest{
		Model: p.Model,
		Messages: []chatMessage{
			{Role: "system", Content: instructions},
			{Role: "user", Content: parts},
		},
		Temperature:    p.Temperature,
		ResponseFormat: responseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := p.BaseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("openrouter error (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var decoded chatResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if decoded.Error != nil && decoded.Error.Message != "" {
		return "", fmt.Errorf("openrouter error: %s", decoded.Error.Message)
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("openrouter returned no choices")
	}
	return decoded.Choices[0].Message.Content, nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
