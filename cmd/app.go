package main

import (
	"context"
	"errors"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/xhad/infographic/internal/logger"
	"github.com/xhad/infographic/internal/types"
	"github.com/xhad/infographic/pkg/analyzer"
	"github.com/xhad/infographic/pkg/extractor"
	"github.com/xhad/infographic/pkg/llm"
	"github.com/xhad/infographic/pkg/processor"
	"github.com/xhad/infographic/pkg/scraper"
	"github.com/xhad/infographic/pkg/store"
)

func (a *app) newAnalyzer() *analyzer.Analyzer {
	var generator types.Generator
	if a.cfg.LLMEnabled() {
		engine, err := llm.NewWithConfig(llm.ChatConfig{
			Provider:          a.cfg.LLM.Provider,
			Model:             a.cfg.LLM.Model,
			BaseURL:           a.cfg.LLM.BaseURL,
			APIKey:            a.cfg.LLM.APIKey,
			MaxTokens:         a.cfg.LLM.MaxTokens,
			Temperature:       a.cfg.LLM.Temperature,
			RequestsPerMinute: a.cfg.LLM.RequestsPerMinute,
		})
		if err != nil {
			logger.Log.WithError(err).Warn("external analysis disabled")
		} else {
			generator = engine
		}
	} else {
		logger.Log.Debug("no external analysis service configured")
	}

	return analyzer.New(analyzer.Config{
		Generator:         generator,
		MinExternalLength: a.cfg.Analyzer.MinExternalLength,
		MaxPromptChars:    a.cfg.Analyzer.MaxPromptChars,
		Timeout:           a.cfg.LLM.Timeout,
		Logger:            logger.Log,
	})
}

func (a *app) newRegistry() *extractor.Registry {
	web := scraper.NewWithConfig(scraper.ScraperConfig{
		RateLimit:         a.cfg.Scraper.RateLimit,
		AllowedExtensions: a.cfg.Scraper.AllowedExtensions,
		Timeout:           a.cfg.Scraper.Timeout,
		UserAgent:         a.cfg.Scraper.UserAgent,
		Logger:            logger.Log,
	})
	return extractor.NewRegistry(processor.NewWithConfig(processor.ProcessorConfig{}), web)
}

func (a *app) openStore(ctx context.Context) (*store.AnalysisStore, error) {
	if a.cfg.Database.URL == "" {
		return nil, errors.New("database.url is not configured (set DATABASE_URL)")
	}
	return store.NewWithConfig(ctx, store.AnalysisStoreConfig{
		ConnString: a.cfg.Database.URL,
		TableName:  a.cfg.Database.TableName,
		VectorDim:  a.cfg.Database.VectorDim,
	})
}

func (a *app) newEmbedder() (*llm.Embedder, error) {
	return llm.NewEmbedderWithConfig(llm.EmbedderConfig{
		Provider: a.cfg.LLM.Provider,
		Model:    a.cfg.LLM.EmbeddingModel,
		BaseURL:  a.cfg.LLM.BaseURL,
		APIKey:   a.cfg.LLM.APIKey,
	})
}

// fallbackTitle is the file name without its extension, or the last path
// segment of a URL.
func fallbackTitle(source string) string {
	if scraper.IsURL(source) {
		u, _ := url.Parse(source)
		base := path.Base(strings.TrimSuffix(u.Path, "/"))
		if base == "." || base == "/" {
			return u.Hostname()
		}
		return strings.TrimSuffix(base, path.Ext(base))
	}
	base := filepath.Base(source)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
