package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"cinemetrics/internal/analytics"
	"cinemetrics/internal/config"
	"cinemetrics/internal/llm"
	llmclient "cinemetrics/internal/llm/client"
)

var ErrMissingAPIKey = errors.New("GEMINI_API_KEY (or API_KEY) is required")

// NewAnalyticsClient builds the provider stack described by cfg: the Gemini
// client wrapped in logging, retry and rate limiting.
func NewAnalyticsClient(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*analytics.Client, error) {
	if cfg.Gemini.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	gemini, err := llmclient.NewGeminiClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return NewAnalyticsClientWithProvider(gemini, cfg, logger), nil
}

// NewAnalyticsClientWithProvider applies the configured middleware chain to
// inner.
func NewAnalyticsClientWithProvider(inner llmclient.LLMClient, cfg *config.Config, logger zerolog.Logger) *analytics.Client {
	provider := llm.Wrap(inner,
		llm.WithLogging(logger),
		llm.Retry(cfg.Gemini.RetryAttempts, cfg.Gemini.RetryDelay),
		llm.RateLimit(cfg.Gemini.RPS, cfg.Gemini.Burst),
	)
	opts := analytics.DefaultOptions()
	opts.Currency = cfg.Analytics.Currency
	opts.FallbackRate = cfg.Analytics.USDRate
	opts.Grounded = cfg.Analytics.Grounded
	return analytics.NewClient(provider, opts)
}
