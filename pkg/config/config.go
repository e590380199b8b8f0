package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

type LLMConfig struct {
	Provider          string        `yaml:"provider"`
	BaseURL           string        `yaml:"base_url"`
	APIKey            string        `yaml:"api_key"`
	Model             string        `yaml:"model"`
	EmbeddingModel    string        `yaml:"embedding_model"`
	MaxTokens         int           `yaml:"max_tokens"`
	Temperature       float64       `yaml:"temperature"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
}

type AnalyzerConfig struct {
	MinExternalLength int `yaml:"min_external_length"`
	MaxPromptChars    int `yaml:"max_prompt_chars"`
}

type DatabaseConfig struct {
	URL       string `yaml:"url"`
	TableName string `yaml:"table_name"`
	VectorDim int    `yaml:"vector_dim"`
	Embed     bool   `yaml:"embed"`
}

type ScraperConfig struct {
	RateLimit         float64       `yaml:"rate_limit"`
	Timeout           time.Duration `yaml:"timeout"`
	UserAgent         string        `yaml:"user_agent"`
	AllowedExtensions []string      `yaml:"allowed_extensions"`
}

type OutputConfig struct {
	Dir string `yaml:"dir"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type Config struct {
	LLM      LLMConfig      `yaml:"llm"`
	Analyzer AnalyzerConfig `yaml:"analyzer"`
	Database DatabaseConfig `yaml:"database"`
	Scraper  ScraperConfig  `yaml:"scraper"`
	Output   OutputConfig   `yaml:"output"`
	Log      LogConfig      `yaml:"log"`
}

// LLMEnabled reports whether an external analysis service is configured.
// OpenAI needs an API key; a local Ollama server does not.
func (c *Config) LLMEnabled() bool {
	switch c.LLM.Provider {
	case ProviderOllama:
		return true
	case ProviderOpenAI:
		return c.LLM.APIKey != ""
	default:
		return false
	}
}

// LoadEnvFile loads KEY=VALUE pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error loading env file: %w", err)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"infographic.yaml",
			"config.yaml",
			filepath.Join(os.Getenv("HOME"), ".config/infographic/config.yaml"),
			"/etc/infographic/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	mergeWithEnv(&config)
	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() *Config {
	config := &Config{}
	mergeWithEnv(config)
	applyDefaults(config)
	return config
}

func applyDefaults(config *Config) {
	config.LLM.Provider = strings.ToLower(strings.TrimSpace(config.LLM.Provider))
	if config.LLM.Provider == "" {
		config.LLM.Provider = ProviderOpenAI
	}
	ollama := config.LLM.Provider == ProviderOllama

	if config.LLM.BaseURL == "" {
		if ollama {
			config.LLM.BaseURL = "http://localhost:11434"
		} else {
			config.LLM.BaseURL = "https://api.openai.com/v1"
		}
	}
	if config.LLM.Model == "" {
		if ollama {
			config.LLM.Model = "mistral"
		} else {
			config.LLM.Model = "gpt-4o-mini"
		}
	}
	if config.LLM.EmbeddingModel == "" {
		if ollama {
			config.LLM.EmbeddingModel = "nomic-embed-text:latest"
		} else {
			config.LLM.EmbeddingModel = "text-embedding-3-small"
		}
	}
	if config.LLM.MaxTokens == 0 {
		config.LLM.MaxTokens = 1500
	}
	if config.LLM.Temperature == 0 {
		config.LLM.Temperature = 0.7
	}
	if config.LLM.Timeout == 0 {
		config.LLM.Timeout = 60 * time.Second
	}
	if config.LLM.RequestsPerMinute == 0 {
		config.LLM.RequestsPerMinute = 60
	}

	if config.Analyzer.MinExternalLength == 0 {
		config.Analyzer.MinExternalLength = 50
	}
	if config.Analyzer.MaxPromptChars == 0 {
		config.Analyzer.MaxPromptChars = 8000
	}

	if config.Database.TableName == "" {
		config.Database.TableName = "analyses"
	}
	if config.Database.VectorDim == 0 {
		if ollama {
			config.Database.VectorDim = 768
		} else {
			config.Database.VectorDim = 1536
		}
	}

	if config.Scraper.RateLimit == 0 {
		config.Scraper.RateLimit = 2.0
	}
	if config.Scraper.Timeout == 0 {
		config.Scraper.Timeout = 30 * time.Second
	}
	if config.Scraper.UserAgent == "" {
		config.Scraper.UserAgent = "infographic/1.0"
	}
	if len(config.Scraper.AllowedExtensions) == 0 {
		config.Scraper.AllowedExtensions = []string{".html", ".htm", "/", ""}
	}

	if config.Output.Dir == "" {
		config.Output.Dir = "output"
	}

	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
}

func mergeWithEnv(config *Config) {
	if provider := os.Getenv("INFOGRAPHIC_LLM_PROVIDER"); provider != "" {
		config.LLM.Provider = provider
	}
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		config.LLM.APIKey = apiKey
	}
	if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" && strings.EqualFold(config.LLM.Provider, ProviderOllama) {
		config.LLM.BaseURL = baseURL
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		config.Database.URL = dbURL
	}
	if level := os.Getenv("INFOGRAPHIC_LOG_LEVEL"); level != "" {
		config.Log.Level = level
	}
}
