package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"cinemetrics/internal/analytics"
	"cinemetrics/internal/config"
	"cinemetrics/internal/dashboard"
	"cinemetrics/internal/gateway/handler/rpc"
	"cinemetrics/internal/gateway/server"
	llmclient "cinemetrics/internal/llm/client"
)

type App struct {
	cfg     *config.Config
	logger  zerolog.Logger
	client  *analytics.Client
	service *dashboard.Service
	server  *server.Server
}

func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*App, error) {
	client, err := NewAnalyticsClient(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to init provider: %w", err)
	}
	return newApp(cfg, logger, client), nil
}

// NewWithProvider wires the app around an existing provider client.
func NewWithProvider(cfg *config.Config, logger zerolog.Logger, provider llmclient.LLMClient) *App {
	return newApp(cfg, logger, NewAnalyticsClientWithProvider(provider, cfg, logger))
}

func newApp(cfg *config.Config, logger zerolog.Logger, client *analytics.Client) *App {
	// Dependencies
	store := dashboard.NewStore(cfg.Gateway.SuggestCacheSize)
	svc := dashboard.NewService(client, store, cfg.Analytics.FetchTimeout)
	dashboardHandler := rpc.NewDashboardHandler(svc)

	// Routing & Server
	router := server.NewRouter(dashboardHandler, server.RouterConfig{
		AllowedOrigin: cfg.Gateway.AllowedOrigin,
		Logger:        logger,
	})
	srv := server.New(cfg.Port, router, logger)

	return &App{
		cfg:     cfg,
		logger:  logger,
		client:  client,
		service: svc,
		server:  srv,
	}
}

func (a *App) Service() *dashboard.Service { return a.service }

func (a *App) Handler() http.Handler { return a.server.Handler() }

// Start serves until Shutdown. When configured, the global overview is
// fetched in the background as the server comes up.
func (a *App) Start() error {
	if a.cfg.Analytics.FetchOnStart {
		go a.initialFetch()
	}
	return a.server.Start()
}

func (a *App) initialFetch() {
	ctx := a.logger.WithContext(context.Background())
	if _, err := a.service.Refresh(ctx, ""); err != nil && !errors.Is(err, dashboard.ErrStale) {
		a.logger.Warn().Err(err).Msg("initial fetch failed")
	}
}

func (a *App) Shutdown(ctx context.Context) error {
	err := a.server.Shutdown(ctx)
	if cerr := a.client.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}
