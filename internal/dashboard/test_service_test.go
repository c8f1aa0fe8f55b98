package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cinemetrics/internal/analytics"
	"cinemetrics/internal/report"
)

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchReport(ctx context.Context, focus string) (*report.Report, error) {
	args := m.Called(ctx, focus)
	rep, _ := args.Get(0).(*report.Report)
	return rep, args.Error(1)
}

// gatedFetcher blocks each call until the test releases it by focus.
type gatedFetcher struct {
	mu      sync.Mutex
	gates   map[string]chan fetchResult
	started chan string
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{gates: make(map[string]chan fetchResult), started: make(chan string, 4)}
}

func (g *gatedFetcher) gate(focus string) chan fetchResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.gates[focus]
	if !ok {
		ch = make(chan fetchResult, 1)
		g.gates[focus] = ch
	}
	return ch
}

func (g *gatedFetcher) FetchReport(ctx context.Context, focus string) (*report.Report, error) {
	gate := g.gate(focus)
	g.started <- focus
	select {
	case res := <-gate:
		return res.report, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (g *gatedFetcher) release(focus string, rep *report.Report, err error) {
	g.gate(focus) <- fetchResult{report: rep, err: err}
}

func TestRefreshAppliesReport(t *testing.T) {
	f := &mockFetcher{}
	want := reportWith("Animal")
	f.On("FetchReport", mock.Anything, "").Return(want, nil).Once()

	svc := NewService(f, NewStore(8), time.Second)
	got, err := svc.Refresh(context.Background(), "")
	require.NoError(t, err)
	assert.Same(t, want, got)
	assert.Same(t, want, svc.Snapshot().Report)
	f.AssertExpectations(t)
}

func TestRefreshFailureKeepsPriorReport(t *testing.T) {
	f := &mockFetcher{}
	prior := reportWith("Stree 2")
	cause := &analytics.ProviderError{Kind: analytics.TransportFailure, Err: errors.New("offline")}
	f.On("FetchReport", mock.Anything, "").Return(prior, nil).Once()
	f.On("FetchReport", mock.Anything, "Kalki").Return(nil, cause).Once()

	svc := NewService(f, NewStore(8), time.Second)
	_, err := svc.Refresh(context.Background(), "")
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), "Kalki")
	require.Error(t, err)
	assert.True(t, analytics.IsTransport(err))

	snap := svc.Snapshot()
	assert.Same(t, prior, snap.Report)
	assert.True(t, analytics.IsTransport(snap.Err))
	f.AssertExpectations(t)
}

func TestSearchRejectsBlankQuery(t *testing.T) {
	f := &mockFetcher{}
	svc := NewService(f, NewStore(8), time.Second)

	for _, q := range []string{"", "   ", "\t\n"} {
		_, err := svc.Search(context.Background(), q)
		assert.ErrorIs(t, err, ErrEmptyQuery)
	}
	f.AssertNotCalled(t, "FetchReport", mock.Anything, mock.Anything)
	assert.Zero(t, svc.Snapshot().Seq, "no fetch may begin")
}

func TestSearchPassesQueryVerbatim(t *testing.T) {
	f := &mockFetcher{}
	f.On("FetchReport", mock.Anything, "  Pushpa 2 ").Return(reportWith("Pushpa 2"), nil).Once()

	svc := NewService(f, NewStore(8), time.Second)
	_, err := svc.Search(context.Background(), "  Pushpa 2 ")
	require.NoError(t, err)
	assert.Equal(t, "  Pushpa 2 ", svc.Snapshot().Focus)
	f.AssertExpectations(t)
}

func TestRetryReissuesLastFocus(t *testing.T) {
	f := &mockFetcher{}
	cause := &analytics.ProviderError{Kind: analytics.MalformedResponse, Err: errors.New("bad json")}
	f.On("FetchReport", mock.Anything, "Jawan").Return(nil, cause).Once()
	f.On("FetchReport", mock.Anything, "Jawan").Return(reportWith("Jawan"), nil).Once()

	svc := NewService(f, NewStore(8), time.Second)
	_, err := svc.Search(context.Background(), "Jawan")
	require.Error(t, err)

	rep, err := svc.Retry(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Jawan", rep.TrendingMovies[0].Title)
	f.AssertExpectations(t)
}

func TestRetryAfterGlobalFetch(t *testing.T) {
	f := &mockFetcher{}
	f.On("FetchReport", mock.Anything, "").Return(reportWith("A"), nil).Twice()

	svc := NewService(f, NewStore(8), time.Second)
	_, err := svc.Refresh(context.Background(), "")
	require.NoError(t, err)
	_, err = svc.Retry(context.Background())
	require.NoError(t, err)
	f.AssertExpectations(t)
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	f := newGatedFetcher()
	svc := NewService(f, NewStore(8), 5*time.Second)

	type outcome struct {
		rep *report.Report
		err error
	}
	slow := make(chan outcome, 1)
	go func() {
		rep, err := svc.Refresh(context.Background(), "slow")
		slow <- outcome{rep, err}
	}()
	require.Equal(t, "slow", <-f.started)

	fast := make(chan outcome, 1)
	go func() {
		rep, err := svc.Search(context.Background(), "fast")
		fast <- outcome{rep, err}
	}()
	require.Equal(t, "fast", <-f.started)

	fastReport := reportWith("Fast")
	f.release("fast", fastReport, nil)
	got := <-fast
	require.NoError(t, got.err)

	f.release("slow", reportWith("Slow"), nil)
	got = <-slow
	assert.ErrorIs(t, got.err, ErrStale)
	assert.Nil(t, got.rep)

	snap := svc.Snapshot()
	assert.Same(t, fastReport, snap.Report)
	assert.Equal(t, "fast", snap.Focus)
}

func TestStaleFailureDoesNotSurface(t *testing.T) {
	f := newGatedFetcher()
	svc := NewService(f, NewStore(8), 5*time.Second)

	slow := make(chan error, 1)
	go func() {
		_, err := svc.Refresh(context.Background(), "slow")
		slow <- err
	}()
	require.Equal(t, "slow", <-f.started)

	fast := make(chan error, 1)
	go func() {
		_, err := svc.Refresh(context.Background(), "fast")
		fast <- err
	}()
	require.Equal(t, "fast", <-f.started)

	f.release("fast", reportWith("Fast"), nil)
	require.NoError(t, <-fast)
	f.release("slow", nil, errors.New("late failure"))
	assert.ErrorIs(t, <-slow, ErrStale)
	assert.NoError(t, svc.Snapshot().Err)
}

func TestRefreshOutlivesCallerCancellation(t *testing.T) {
	f := newGatedFetcher()
	svc := NewService(f, NewStore(8), 5*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := svc.Refresh(ctx, "")
		errCh <- err
	}()
	require.Equal(t, "", <-f.started)

	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)

	want := reportWith("Landed")
	f.release("", want, nil)
	require.Eventually(t, func() bool {
		return svc.Snapshot().Report == want
	}, time.Second, 5*time.Millisecond)
}

func TestRefreshTimeoutBoundsFetch(t *testing.T) {
	f := newGatedFetcher()
	svc := NewService(f, NewStore(8), 20*time.Millisecond)

	_, err := svc.Refresh(context.Background(), "")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, svc.Snapshot().Loading)
}

func TestMovieLookup(t *testing.T) {
	f := &mockFetcher{}
	f.On("FetchReport", mock.Anything, "").Return(reportWith("Animal", "Dunki"), nil).Once()
	svc := NewService(f, NewStore(8), time.Second)

	_, err := svc.Movie("a")
	assert.ErrorIs(t, err, ErrMovieNotFound)

	_, err = svc.Refresh(context.Background(), "")
	require.NoError(t, err)

	m, err := svc.Movie("b")
	require.NoError(t, err)
	assert.Equal(t, "Dunki", m.Title)

	_, err = svc.Movie("zz")
	assert.ErrorIs(t, err, ErrMovieNotFound)
}
