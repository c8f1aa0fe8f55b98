package terminal

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"cinemetrics/internal/dashboard"
	"cinemetrics/internal/gateway/app"
	"cinemetrics/internal/report"
	"cinemetrics/internal/suggest"
)

func (cli *CLI) newReportCmd() *cobra.Command {
	var (
		focus  string
		asJSON bool
		server string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Fetch one analytics report and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rep, err := cli.fetch(cmd.Context(), focus, server)
			if err != nil {
				return err
			}
			if asJSON {
				return cli.reporter.JSON(rep)
			}
			return cli.reporter.Report(focus, rep)
		},
	}
	cmd.Flags().StringVarP(&focus, "focus", "f", "", "movie, genre or region to focus on (empty for a global overview)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw report as JSON")
	cmd.Flags().StringVar(&server, "server", "", "query a running gateway at this base URL instead of the provider")
	return cmd
}

func (cli *CLI) newSuggestCmd() *cobra.Command {
	var (
		focus  string
		server string
	)
	cmd := &cobra.Command{
		Use:   "suggest QUERY",
		Short: "List autocomplete suggestions for QUERY",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := args[0]
			if server != "" {
				resp, err := cli.remote(server).Suggest(cmd.Context(), query)
				if err != nil {
					return err
				}
				return cli.reporter.Suggestions(resp.Suggestions)
			}
			rep, err := cli.fetch(cmd.Context(), focus, "")
			if err != nil {
				return err
			}
			return cli.reporter.Suggestions(suggest.Filter(suggest.BuildIndex(rep), query))
		},
	}
	cmd.Flags().StringVarP(&focus, "focus", "f", "", "focus of the report the suggestions come from")
	cmd.Flags().StringVar(&server, "server", "", "ask a running gateway at this base URL")
	return cmd
}

func (cli *CLI) newMovieCmd() *cobra.Command {
	var (
		focus  string
		asJSON bool
		server string
	)
	cmd := &cobra.Command{
		Use:   "movie ID",
		Short: "Show the full analytics of one trending movie",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			movie, err := cli.movie(cmd.Context(), args[0], focus, server)
			if err != nil {
				return err
			}
			if asJSON {
				return cli.reporter.JSON(movie)
			}
			return cli.reporter.Movie(movie)
		},
	}
	cmd.Flags().StringVarP(&focus, "focus", "f", "", "focus of the report to look the movie up in")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the movie as JSON")
	cmd.Flags().StringVar(&server, "server", "", "look the movie up in a running gateway's current report")
	return cmd
}

func (cli *CLI) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard gateway",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, ctx, err := cli.setup(cmd.Context())
			if err != nil {
				return err
			}

			var a *app.App
			if cli.opts.Provider != nil {
				a = app.NewWithProvider(cfg, logger, cli.opts.Provider)
			} else if a, err = app.New(ctx, cfg, logger); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- a.Start() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			logger.Info().Msg("shutting down server")

			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Gateway.ShutdownTimeout)
			defer cancel()
			return a.Shutdown(shutdownCtx)
		},
	}
}

// movie resolves id against the gateway's current report when server is set,
// otherwise against a freshly fetched one.
func (cli *CLI) movie(ctx context.Context, id, focus, server string) (report.Movie, error) {
	if server != "" && focus == "" {
		resp, err := cli.remote(server).GetMovie(ctx, id)
		if err != nil {
			return report.Movie{}, err
		}
		return resp.Movie, nil
	}
	rep, err := cli.fetch(ctx, focus, server)
	if err != nil {
		return report.Movie{}, err
	}
	m, ok := rep.MovieByID(id)
	if !ok {
		return report.Movie{}, fmt.Errorf("movie %q: %w", id, dashboard.ErrMovieNotFound)
	}
	return m, nil
}

// fetch returns a report either straight from the provider or, with server
// set, from a running gateway.
func (cli *CLI) fetch(ctx context.Context, focus, server string) (*report.Report, error) {
	if server != "" {
		remote := cli.remote(server)
		if focus == "" {
			st, err := remote.GetReport(ctx)
			if err != nil {
				return nil, err
			}
			if st.Report == nil {
				return nil, errors.New("gateway has no report yet")
			}
			return st.Report, nil
		}
		st, err := remote.Search(ctx, focus)
		if err != nil {
			return nil, err
		}
		return st.Report, nil
	}

	cfg, logger, ctx, err := cli.setup(ctx)
	if err != nil {
		return nil, err
	}
	client, err := cli.analyticsClient(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	fetchCtx, cancel := context.WithTimeout(ctx, cfg.Analytics.FetchTimeout)
	defer cancel()
	return client.FetchReport(fetchCtx, focus)
}
