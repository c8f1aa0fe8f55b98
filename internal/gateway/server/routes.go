package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"cinemetrics/internal/gateway/handler/rpc"
	"cinemetrics/internal/gateway/middleware"
)

type RouterConfig struct {
	AllowedOrigin string
	Logger        zerolog.Logger
}

func NewRouter(dashboardHandler *rpc.DashboardHandler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger(&cfg.Logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigin))

	// RPC
	path, handler := rpc.NewDashboardServiceHandler(dashboardHandler)
	r.Mount(path, handler)

	// Watch stream
	r.Get("/ws/dashboard", dashboardHandler.HandleWatchWS)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	return r
}
