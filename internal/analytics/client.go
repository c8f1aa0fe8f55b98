package analytics

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	llmclient "cinemetrics/internal/llm/client"
	"cinemetrics/internal/report"
)

// Client issues the single structured report request. It does not retry,
// cache or persist anything; every call is one provider round trip.
type Client struct {
	llm  llmclient.LLMClient
	opts Options
}

func NewClient(llm llmclient.LLMClient, opts Options) *Client {
	return &Client{llm: llm, opts: opts.withDefaults()}
}

func (c *Client) Name() string { return c.llm.Name() }
func (c *Client) Close() error { return c.llm.Close() }

// FetchReport asks the provider for a report about focus ("" for the global
// overview). Failures are always *ProviderError.
func (c *Client) FetchReport(ctx context.Context, focus string) (*report.Report, error) {
	logger := zerolog.Ctx(ctx)

	raw, err := c.llm.GenerateJSON(ctx, llmclient.Request{
		Prompt:   BuildPrompt(focus, c.opts),
		Schema:   report.Schema(),
		Grounded: c.opts.Grounded,
	})
	if err != nil {
		if errors.Is(err, llmclient.ErrEmptyResponse) {
			return nil, &ProviderError{Kind: MalformedResponse, Err: err}
		}
		return nil, &ProviderError{Kind: TransportFailure, Err: err}
	}

	rep, err := report.Decode(raw)
	if err != nil {
		logger.Warn().Err(err).Int("bytes", len(raw)).Msg("provider payload rejected")
		return nil, &ProviderError{Kind: MalformedResponse, Err: err}
	}
	logger.Debug().
		Int("movies", len(rep.TrendingMovies)).
		Int("genres", len(rep.TopGenres)).
		Int("regions", len(rep.RegionalRevenue)).
		Msg("report decoded")
	return rep, nil
}
