// Package terminal implements the cinemetrics command line.
package terminal

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"cinemetrics/internal/analytics"
	"cinemetrics/internal/config"
	"cinemetrics/internal/format"
	"cinemetrics/internal/gateway/app"
	"cinemetrics/internal/gateway/handler/rpc"
	llmclient "cinemetrics/internal/llm/client"
)

// CLI represents the command-line interface
type CLI struct {
	opts     Options
	v        *viper.Viper
	reporter *format.Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Output    io.Writer
	ErrOutput io.Writer
	// Provider replaces the Gemini client when set.
	Provider llmclient.LLMClient
	// HTTPClient is used with --server.
	HTTPClient *http.Client
}

func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.ErrOutput == nil {
		opts.ErrOutput = os.Stderr
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	cli := &CLI{
		opts:     opts,
		v:        config.New(),
		reporter: format.NewReporter(opts.Output),
	}
	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) ExecuteContext(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cinemetrics",
		Short:         "Film industry analytics from a grounded generative model",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(cli.opts.Output)
	cmd.SetErr(cli.opts.ErrOutput)

	flags := cmd.PersistentFlags()
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("model", config.DefaultModel, "Gemini model name")
	flags.Bool("grounded", true, "let the model use live web search")
	_ = cli.v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = cli.v.BindPFlag("gemini_model", flags.Lookup("model"))
	_ = cli.v.BindPFlag("analytics_grounded", flags.Lookup("grounded"))

	cmd.AddCommand(cli.newReportCmd())
	cmd.AddCommand(cli.newSuggestCmd())
	cmd.AddCommand(cli.newMovieCmd())
	cmd.AddCommand(cli.newServeCmd())
	return cmd
}

// setup resolves config and the root logger. CLI logs go to ErrOutput so
// stdout stays machine readable.
func (cli *CLI) setup(ctx context.Context) (*config.Config, zerolog.Logger, context.Context, error) {
	cfg, err := config.Load(cli.v)
	if err != nil {
		return nil, zerolog.Nop(), ctx, err
	}
	logger := cfg.NewLogger(cli.opts.ErrOutput)
	return cfg, logger, logger.WithContext(ctx), nil
}

func (cli *CLI) analyticsClient(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*analytics.Client, error) {
	if cli.opts.Provider != nil {
		return app.NewAnalyticsClientWithProvider(cli.opts.Provider, cfg, logger), nil
	}
	return app.NewAnalyticsClient(ctx, cfg, logger)
}

func (cli *CLI) remote(server string) *rpc.DashboardClient {
	return rpc.NewDashboardClient(cli.opts.HTTPClient, server)
}
