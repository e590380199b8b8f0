package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"golang.org/x/time/rate"
)

const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

var defaultChatModels = map[string]string{
	ProviderOpenAI: "gpt-4o-mini",
	ProviderOllama: "mistral",
}

// ErrDisabled is returned when the configured provider cannot be reached
// without credentials that were not supplied.
var ErrDisabled = errors.New("external analysis disabled: no API key")

// ChatConfig represents the configuration for a chat engine.
type ChatConfig struct {
	Provider          string
	Model             string
	BaseURL           string
	APIKey            string
	Temperature       float64
	MaxTokens         int
	RequestsPerMinute int
	HTTPClient        *http.Client
}

// ChatEngine sends single-prompt completions to an OpenAI-compatible or
// Ollama server. It satisfies types.Generator.
type ChatEngine struct {
	config  ChatConfig
	llm     llms.Model
	limiter *rate.Limiter
}

// NewWithConfig creates a new ChatEngine with the given configuration.
func NewWithConfig(config ChatConfig) (*ChatEngine, error) {
	config.Provider = strings.ToLower(strings.TrimSpace(config.Provider))
	if config.Provider == "" {
		config.Provider = ProviderOpenAI
	}
	if config.Temperature < 0 || config.Temperature > 2 {
		return nil, fmt.Errorf("temperature must be between 0 and 2")
	} else if config.Temperature == 0 {
		config.Temperature = 0.7
	}
	if config.MaxTokens < 0 {
		return nil, fmt.Errorf("max tokens cannot be negative")
	} else if config.MaxTokens == 0 {
		config.MaxTokens = 1500
	}
	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = 60
	}
	if config.Model == "" {
		config.Model = defaultChatModels[config.Provider]
	}

	model, err := newModel(config)
	if err != nil {
		return nil, err
	}

	return &ChatEngine{
		config:  config,
		llm:     model,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(config.RequestsPerMinute)), 1),
	}, nil
}

func newModel(config ChatConfig) (llms.Model, error) {
	switch config.Provider {
	case ProviderOpenAI:
		if config.APIKey == "" {
			return nil, ErrDisabled
		}
		opts := []openai.Option{
			openai.WithToken(config.APIKey),
			openai.WithModel(config.Model),
		}
		if config.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(config.BaseURL))
		}
		if config.HTTPClient != nil {
			opts = append(opts, openai.WithHTTPClient(config.HTTPClient))
		}
		model, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize LLM: %w", err)
		}
		return model, nil

	case ProviderOllama:
		serverURL, err := checkServerURL(config.BaseURL, "http://localhost:11434")
		if err != nil {
			return nil, err
		}
		opts := []ollama.Option{
			ollama.WithModel(config.Model),
			ollama.WithServerURL(serverURL),
		}
		if config.HTTPClient != nil {
			opts = append(opts, ollama.WithHTTPClient(config.HTTPClient))
		}
		model, err := ollama.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize LLM: %w", err)
		}
		return model, nil

	default:
		return nil, fmt.Errorf("unknown provider %q", config.Provider)
	}
}

// Generate sends prompt as a single user message and returns the reply text.
// It waits for the rate limiter and never retries.
func (ce *ChatEngine) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ce.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	reply, err := llms.GenerateFromSinglePrompt(ctx, ce.llm, prompt,
		llms.WithMaxTokens(ce.config.MaxTokens),
		llms.WithTemperature(ce.config.Temperature),
	)
	if err != nil {
		return "", fmt.Errorf("chat error: %w", err)
	}

	return strings.TrimSpace(reply), nil
}

// checkServerURL validates raw before it reaches the Ollama client, which
// exits the process on a malformed URL.
func checkServerURL(raw, fallback string) (string, error) {
	if raw == "" {
		return fallback, nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid server URL %q", raw)
	}
	return raw, nil
}

// Model returns the configured model name.
func (ce *ChatEngine) Model() string {
	return ce.config.Model
}
