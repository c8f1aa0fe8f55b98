package rpc

import (
	"time"

	"cinemetrics/internal/analytics"
	"cinemetrics/internal/dashboard"
	"cinemetrics/internal/report"
	"cinemetrics/internal/suggest"
)

type GetReportRequest struct{}

type SearchRequest struct {
	Query string `json:"query"`
}

type RetryRequest struct{}

type SuggestRequest struct {
	Query string `json:"query"`
}

type SuggestResponse struct {
	Suggestions []suggest.Suggestion `json:"suggestions"`
}

type GetMovieRequest struct {
	ID string `json:"id"`
}

type GetMovieResponse struct {
	Movie report.Movie `json:"movie"`
}

// ErrorStatus describes the failure of the latest fetch.
type ErrorStatus struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// DashboardState is the dashboard as the UI renders it.
type DashboardState struct {
	Seq       uint64         `json:"seq"`
	FetchID   string         `json:"fetchId,omitempty"`
	Focus     string         `json:"focus"`
	Loading   bool           `json:"loading"`
	UpdatedAt *time.Time     `json:"updatedAt,omitempty"`
	Report    *report.Report `json:"report,omitempty"`
	Error     *ErrorStatus   `json:"error,omitempty"`
}

func stateFromSnapshot(s dashboard.Snapshot) *DashboardState {
	out := &DashboardState{
		Seq:     s.Seq,
		FetchID: s.FetchID,
		Focus:   s.Focus,
		Loading: s.Loading,
		Report:  s.Report,
		Error:   errorStatus(s.Err),
	}
	if !s.UpdatedAt.IsZero() {
		at := s.UpdatedAt
		out.UpdatedAt = &at
	}
	return out
}

func errorStatus(err error) *ErrorStatus {
	if err == nil {
		return nil
	}
	kind := "internal"
	if k, ok := analytics.KindOf(err); ok {
		switch k {
		case analytics.TransportFailure:
			kind = "transport_failure"
		case analytics.MalformedResponse:
			kind = "malformed_response"
		}
	}
	return &ErrorStatus{Kind: kind, Message: err.Error()}
}
