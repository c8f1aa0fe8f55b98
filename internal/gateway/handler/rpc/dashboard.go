package rpc

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"cinemetrics/internal/analytics"
	"cinemetrics/internal/dashboard"
	"cinemetrics/internal/report"
	"cinemetrics/internal/suggest"
)

const DashboardServiceName = "cinemetrics.v1.DashboardService"

const (
	GetReportProcedure = "/" + DashboardServiceName + "/GetReport"
	SearchProcedure    = "/" + DashboardServiceName + "/Search"
	RetryProcedure     = "/" + DashboardServiceName + "/Retry"
	SuggestProcedure   = "/" + DashboardServiceName + "/Suggest"
	GetMovieProcedure  = "/" + DashboardServiceName + "/GetMovie"
)

// Dashboard is the part of *dashboard.Service the RPC and watch handlers use.
type Dashboard interface {
	Snapshot() dashboard.Snapshot
	Search(ctx context.Context, query string) (*report.Report, error)
	Retry(ctx context.Context) (*report.Report, error)
	Suggest(query string) []suggest.Suggestion
	Movie(id string) (report.Movie, error)
	Subscribe(ctx context.Context) <-chan dashboard.Event
}

type DashboardHandler struct {
	svc Dashboard
}

func NewDashboardHandler(svc Dashboard) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// NewDashboardServiceHandler mounts every procedure under one path prefix.
func NewDashboardServiceHandler(h *DashboardHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)
	readOnly := append(opts[:len(opts):len(opts)], connect.WithIdempotency(connect.IdempotencyNoSideEffects))

	mux := http.NewServeMux()
	mux.Handle(GetReportProcedure, connect.NewUnaryHandler(GetReportProcedure, h.GetReport, readOnly...))
	mux.Handle(SearchProcedure, connect.NewUnaryHandler(SearchProcedure, h.Search, opts...))
	mux.Handle(RetryProcedure, connect.NewUnaryHandler(RetryProcedure, h.Retry, opts...))
	mux.Handle(SuggestProcedure, connect.NewUnaryHandler(SuggestProcedure, h.Suggest, readOnly...))
	mux.Handle(GetMovieProcedure, connect.NewUnaryHandler(GetMovieProcedure, h.GetMovie, readOnly...))
	return "/" + DashboardServiceName + "/", mux
}

func (h *DashboardHandler) GetReport(_ context.Context, _ *connect.Request[GetReportRequest]) (*connect.Response[DashboardState], error) {
	return connect.NewResponse(stateFromSnapshot(h.svc.Snapshot())), nil
}

func (h *DashboardHandler) Search(ctx context.Context, req *connect.Request[SearchRequest]) (*connect.Response[DashboardState], error) {
	if _, err := h.svc.Search(ctx, req.Msg.Query); err != nil {
		return nil, toDashboardError(err)
	}
	return connect.NewResponse(stateFromSnapshot(h.svc.Snapshot())), nil
}

func (h *DashboardHandler) Retry(ctx context.Context, _ *connect.Request[RetryRequest]) (*connect.Response[DashboardState], error) {
	if _, err := h.svc.Retry(ctx); err != nil {
		return nil, toDashboardError(err)
	}
	return connect.NewResponse(stateFromSnapshot(h.svc.Snapshot())), nil
}

func (h *DashboardHandler) Suggest(_ context.Context, req *connect.Request[SuggestRequest]) (*connect.Response[SuggestResponse], error) {
	return connect.NewResponse(&SuggestResponse{Suggestions: h.svc.Suggest(req.Msg.Query)}), nil
}

func (h *DashboardHandler) GetMovie(_ context.Context, req *connect.Request[GetMovieRequest]) (*connect.Response[GetMovieResponse], error) {
	id := strings.TrimSpace(req.Msg.ID)
	if id == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("id is required"))
	}
	m, err := h.svc.Movie(id)
	if err != nil {
		return nil, toDashboardError(err)
	}
	return connect.NewResponse(&GetMovieResponse{Movie: m}), nil
}

func errorCode(err error) connect.Code {
	switch {
	case errors.Is(err, dashboard.ErrEmptyQuery):
		return connect.CodeInvalidArgument
	case errors.Is(err, dashboard.ErrMovieNotFound):
		return connect.CodeNotFound
	case errors.Is(err, dashboard.ErrStale):
		return connect.CodeAborted
	case analytics.IsTransport(err):
		return connect.CodeUnavailable
	case analytics.IsMalformed(err):
		return connect.CodeDataLoss
	case errors.Is(err, context.Canceled):
		return connect.CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return connect.CodeDeadlineExceeded
	}
	return connect.CodeInternal
}

func toDashboardError(err error) error {
	return connect.NewError(errorCode(err), err)
}
