package dashboard

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"cinemetrics/internal/report"
	"cinemetrics/internal/suggest"
)

var (
	ErrEmptyQuery    = errors.New("dashboard: search query is empty")
	ErrMovieNotFound = errors.New("dashboard: movie not found")
	// ErrStale is returned to a caller whose fetch was superseded by a newer
	// one before it finished. The store keeps the newer fetch's outcome.
	ErrStale = errors.New("dashboard: fetch superseded by a newer request")
)

// Fetcher is the provider side of a refresh. *analytics.Client satisfies it.
type Fetcher interface {
	FetchReport(ctx context.Context, focus string) (*report.Report, error)
}

type Service struct {
	fetcher Fetcher
	store   *Store
	timeout time.Duration
}

const defaultFetchTimeout = 120 * time.Second

func NewService(fetcher Fetcher, store *Store, fetchTimeout time.Duration) *Service {
	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}
	return &Service{fetcher: fetcher, store: store, timeout: fetchTimeout}
}

func (s *Service) Store() *Store { return s.store }

type fetchResult struct {
	report *report.Report
	err    error
}

// Refresh fetches a report about focus and installs it if no newer fetch has
// started in the meantime. The provider call outlives ctx: when the caller
// gives up, Refresh returns ctx.Err() while the fetch still lands in the
// store (bounded by the fetch timeout).
func (s *Service) Refresh(ctx context.Context, focus string) (*report.Report, error) {
	seq, fetchID := s.store.Begin(focus)

	logger := zerolog.Ctx(ctx).With().
		Str("fetch_id", fetchID).
		Uint64("seq", seq).
		Str("focus", focus).
		Logger()

	fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	fetchCtx = logger.WithContext(fetchCtx)

	done := make(chan fetchResult, 1)
	go func() {
		defer cancel()
		started := time.Now()
		logger.Info().Msg("fetch started")

		rep, err := s.fetcher.FetchReport(fetchCtx, focus)
		elapsed := time.Since(started)
		if err != nil {
			if !s.store.Fail(seq, err) {
				logger.Info().Err(err).Dur("elapsed", elapsed).Msg("stale fetch failure discarded")
				done <- fetchResult{err: ErrStale}
				return
			}
			logger.Error().Err(err).Dur("elapsed", elapsed).Msg("fetch failed")
			done <- fetchResult{err: err}
			return
		}
		if !s.store.Apply(seq, rep) {
			logger.Info().Dur("elapsed", elapsed).Msg("stale report discarded")
			done <- fetchResult{err: ErrStale}
			return
		}
		logger.Info().Dur("elapsed", elapsed).Int("movies", len(rep.TrendingMovies)).Msg("report applied")
		done <- fetchResult{report: rep}
	}()

	select {
	case res := <-done:
		return res.report, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Search refreshes with query, as typed, as the focus. Blank queries are
// rejected without contacting the provider.
func (s *Service) Search(ctx context.Context, query string) (*report.Report, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	return s.Refresh(ctx, query)
}

// Retry repeats the most recently requested fetch, global or focused.
func (s *Service) Retry(ctx context.Context) (*report.Report, error) {
	return s.Refresh(ctx, s.store.Snapshot().Focus)
}

func (s *Service) Snapshot() Snapshot { return s.store.Snapshot() }

func (s *Service) Suggest(query string) []suggest.Suggestion { return s.store.Suggest(query) }

func (s *Service) Subscribe(ctx context.Context) <-chan Event { return s.store.Subscribe(ctx) }

// Movie looks id up in the current report.
func (s *Service) Movie(id string) (report.Movie, error) {
	m, ok := s.store.Snapshot().Report.MovieByID(id)
	if !ok {
		return report.Movie{}, ErrMovieNotFound
	}
	return m, nil
}
