package rpc

import (
	"context"
	"strings"

	"connectrpc.com/connect"
)

// DashboardClient calls a running gateway's DashboardService.
type DashboardClient struct {
	getReport *connect.Client[GetReportRequest, DashboardState]
	search    *connect.Client[SearchRequest, DashboardState]
	retry     *connect.Client[RetryRequest, DashboardState]
	suggest   *connect.Client[SuggestRequest, SuggestResponse]
	getMovie  *connect.Client[GetMovieRequest, GetMovieResponse]
}

func NewDashboardClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *DashboardClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &DashboardClient{
		getReport: connect.NewClient[GetReportRequest, DashboardState](httpClient, baseURL+GetReportProcedure, opts...),
		search:    connect.NewClient[SearchRequest, DashboardState](httpClient, baseURL+SearchProcedure, opts...),
		retry:     connect.NewClient[RetryRequest, DashboardState](httpClient, baseURL+RetryProcedure, opts...),
		suggest:   connect.NewClient[SuggestRequest, SuggestResponse](httpClient, baseURL+SuggestProcedure, opts...),
		getMovie:  connect.NewClient[GetMovieRequest, GetMovieResponse](httpClient, baseURL+GetMovieProcedure, opts...),
	}
}

func (c *DashboardClient) GetReport(ctx context.Context) (*DashboardState, error) {
	resp, err := c.getReport.CallUnary(ctx, connect.NewRequest(&GetReportRequest{}))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

func (c *DashboardClient) Search(ctx context.Context, query string) (*DashboardState, error) {
	resp, err := c.search.CallUnary(ctx, connect.NewRequest(&SearchRequest{Query: query}))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

func (c *DashboardClient) Retry(ctx context.Context) (*DashboardState, error) {
	resp, err := c.retry.CallUnary(ctx, connect.NewRequest(&RetryRequest{}))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

func (c *DashboardClient) Suggest(ctx context.Context, query string) (*SuggestResponse, error) {
	resp, err := c.suggest.CallUnary(ctx, connect.NewRequest(&SuggestRequest{Query: query}))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

func (c *DashboardClient) GetMovie(ctx context.Context, id string) (*GetMovieResponse, error) {
	resp, err := c.getMovie.CallUnary(ctx, connect.NewRequest(&GetMovieRequest{ID: id}))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}
