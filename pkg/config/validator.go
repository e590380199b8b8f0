package config

import (
	"fmt"
	"net/url"
	"strings"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Validate LLM config
	if c.LLM.Provider != ProviderOpenAI && c.LLM.Provider != ProviderOllama {
		errors = append(errors, ValidationError{
			Field:   "llm.provider",
			Message: fmt.Sprintf("unknown provider %q, expected openai or ollama", c.LLM.Provider),
		})
	}

	if c.LLM.BaseURL == "" {
		errors = append(errors, ValidationError{
			Field:   "llm.base_url",
			Message: "LLM base URL is required",
		})
	} else if u, err := url.Parse(c.LLM.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, ValidationError{
			Field:   "llm.base_url",
			Message: "invalid LLM base URL",
		})
	}

	if c.LLM.MaxTokens < 1 || c.LLM.MaxTokens > 4096 {
		errors = append(errors, ValidationError{
			Field:   "llm.max_tokens",
			Message: "max_tokens must be between 1 and 4096",
		})
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errors = append(errors, ValidationError{
			Field:   "llm.temperature",
			Message: "temperature must be between 0 and 2",
		})
	}

	if c.LLM.Timeout < 0 {
		errors = append(errors, ValidationError{
			Field:   "llm.timeout",
			Message: "timeout cannot be negative",
		})
	}

	if c.LLM.RequestsPerMinute < 1 {
		errors = append(errors, ValidationError{
			Field:   "llm.requests_per_minute",
			Message: "requests_per_minute must be positive",
		})
	}

	// Validate Analyzer config
	if c.Analyzer.MinExternalLength < 1 {
		errors = append(errors, ValidationError{
			Field:   "analyzer.min_external_length",
			Message: "min_external_length must be positive",
		})
	}

	if c.Analyzer.MaxPromptChars < 1 {
		errors = append(errors, ValidationError{
			Field:   "analyzer.max_prompt_chars",
			Message: "max_prompt_chars must be positive",
		})
	}

	// Validate Database config
	if c.Database.URL != "" {
		if u, err := url.Parse(c.Database.URL); err != nil || (u.Scheme != "postgres" && u.Scheme != "postgresql") {
			errors = append(errors, ValidationError{
				Field:   "database.url",
				Message: "invalid database URL",
			})
		}
	}

	if c.Database.VectorDim < 1 {
		errors = append(errors, ValidationError{
			Field:   "database.vector_dim",
			Message: "vector_dim must be positive",
		})
	}

	// Validate Scraper config
	if c.Scraper.RateLimit <= 0 {
		errors = append(errors, ValidationError{
			Field:   "scraper.rate_limit",
			Message: "rate_limit must be positive",
		})
	}

	for _, ext := range c.Scraper.AllowedExtensions {
		if !strings.HasPrefix(ext, ".") && ext != "" && ext != "/" {
			errors = append(errors, ValidationError{
				Field:   "scraper.allowed_extensions",
				Message: fmt.Sprintf("invalid extension format: %s", ext),
			})
		}
	}

	if c.Output.Dir == "" {
		errors = append(errors, ValidationError{
			Field:   "output.dir",
			Message: "output directory is required",
		})
	}

	return errors
}
