package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// EmbedderConfig represents the configuration for an Embedder.
type EmbedderConfig struct {
	Provider   string
	Model      string
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

type embeddingModel interface {
	CreateEmbedding(ctx context.Context, inputTexts []string) ([][]float32, error)
}

// Embedder turns analysis text into vectors for the similarity archive.
type Embedder struct {
	Config EmbedderConfig
	model  embeddingModel
}

func NewEmbedderWithConfig(config EmbedderConfig) (*Embedder, error) {
	config.Provider = strings.ToLower(strings.TrimSpace(config.Provider))
	if config.Provider == "" {
		config.Provider = ProviderOpenAI
	}

	var (
		model embeddingModel
		err   error
	)
	switch config.Provider {
	case ProviderOpenAI:
		if config.APIKey == "" {
			return nil, ErrDisabled
		}
		if config.Model == "" {
			config.Model = "text-embedding-3-small"
		}
		opts := []openai.Option{
			openai.WithToken(config.APIKey),
			openai.WithEmbeddingModel(config.Model),
		}
		if config.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(config.BaseURL))
		}
		if config.HTTPClient != nil {
			opts = append(opts, openai.WithHTTPClient(config.HTTPClient))
		}
		model, err = openai.New(opts...)

	case ProviderOllama:
		if config.Model == "" {
			config.Model = "nomic-embed-text:latest"
		}
		serverURL, urlErr := checkServerURL(config.BaseURL, "http://localhost:11434")
		if urlErr != nil {
			return nil, urlErr
		}
		opts := []ollama.Option{
			ollama.WithModel(config.Model),
			ollama.WithServerURL(serverURL),
		}
		if config.HTTPClient != nil {
			opts = append(opts, ollama.WithHTTPClient(config.HTTPClient))
		}
		model, err = ollama.New(opts...)

	default:
		return nil, fmt.Errorf("unknown provider %q", config.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	return &Embedder{Config: config, model: model}, nil
}

// Embed returns the vector for a single text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.model.CreateEmbedding(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embedding error: %w", err)
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, fmt.Errorf("embedding error: empty vector")
	}
	return vectors[0], nil
}

// EmbeddingText is the text embedded for an analysis: its title followed by
// its summary.
func EmbeddingText(title, summary string) string {
	return strings.TrimSpace(title + "\n\n" + summary)
}
