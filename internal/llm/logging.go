package llm

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	llmclient "cinemetrics/internal/llm/client"
)

// WithLogging logs request size, latency and errors. The logger carried by
// the request context wins over the fallback passed here.
func WithLogging(fallback zerolog.Logger) Middleware {
	return func(next llmclient.LLMClient) llmclient.LLMClient {
		return &logging{next: next, log: fallback}
	}
}

type logging struct {
	next llmclient.LLMClient
	log  zerolog.Logger
}

func (l *logging) Name() string { return l.next.Name() }
func (l *logging) Close() error { return l.next.Close() }

func (l *logging) GenerateJSON(ctx context.Context, req llmclient.Request) (json.RawMessage, error) {
	logger := l.logger(ctx).With().
		Str("provider", l.next.Name()).
		Bool("grounded", req.Grounded).
		Logger()

	logger.Debug().Int("prompt_bytes", len(req.Prompt)).Msg("llm request")
	start := time.Now()
	raw, err := l.next.GenerateJSON(ctx, req)
	elapsed := time.Since(start)
	if err != nil {
		logger.Error().Err(err).Dur("elapsed", elapsed).Msg("llm request failed")
		return raw, err
	}
	logger.Info().Int("response_bytes", len(raw)).Dur("elapsed", elapsed).Msg("llm response")
	return raw, nil
}

func (l *logging) logger(ctx context.Context) *zerolog.Logger {
	if ctxLogger := zerolog.Ctx(ctx); ctxLogger != nil && ctxLogger.GetLevel() != zerolog.Disabled {
		return ctxLogger
	}
	return &l.log
}
