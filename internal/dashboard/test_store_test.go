package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinemetrics/internal/report"
	"cinemetrics/internal/suggest"
)

func reportWith(titles ...string) *report.Report {
	r := &report.Report{TotalMarketValue: 1}
	for i, title := range titles {
		r.TrendingMovies = append(r.TrendingMovies, report.Movie{ID: string(rune('a' + i)), Title: title})
	}
	return r
}

func TestStoreBeginIssuesIncreasingSeq(t *testing.T) {
	s := NewStore(8)
	first, id1 := s.Begin("")
	second, id2 := s.Begin("Pathaan")
	assert.Less(t, first, second)
	assert.NotEqual(t, id1, id2)

	snap := s.Snapshot()
	assert.Equal(t, second, snap.Seq)
	assert.Equal(t, id2, snap.FetchID)
	assert.Equal(t, "Pathaan", snap.Focus)
	assert.True(t, snap.Loading)
}

func TestStoreApplyOnlyLatest(t *testing.T) {
	s := NewStore(8)
	old, _ := s.Begin("")
	latest, _ := s.Begin("Jawan")

	assert.False(t, s.Apply(old, reportWith("Old")))
	snap := s.Snapshot()
	assert.Nil(t, snap.Report)
	assert.True(t, snap.Loading)

	fresh := reportWith("Jawan")
	assert.True(t, s.Apply(latest, fresh))
	snap = s.Snapshot()
	assert.Same(t, fresh, snap.Report)
	assert.False(t, snap.Loading)
	assert.NoError(t, snap.Err)
}

func TestStoreFailKeepsPriorReport(t *testing.T) {
	s := NewStore(8)
	seq, _ := s.Begin("")
	prior := reportWith("Stree 2")
	require.True(t, s.Apply(seq, prior))

	seq, _ = s.Begin("Kalki")
	cause := errors.New("boom")
	assert.True(t, s.Fail(seq, cause))

	snap := s.Snapshot()
	assert.Same(t, prior, snap.Report)
	assert.ErrorIs(t, snap.Err, cause)
	assert.False(t, snap.Loading)
}

func TestStoreFailIgnoresStale(t *testing.T) {
	s := NewStore(8)
	old, _ := s.Begin("")
	latest, _ := s.Begin("x")
	assert.False(t, s.Fail(old, errors.New("late")))
	require.True(t, s.Apply(latest, reportWith("A")))
	assert.NoError(t, s.Snapshot().Err)
}

func TestStoreApplyClearsError(t *testing.T) {
	s := NewStore(8)
	seq, _ := s.Begin("")
	require.True(t, s.Fail(seq, errors.New("down")))
	seq, _ = s.Begin("")
	require.True(t, s.Apply(seq, reportWith("A")))
	assert.NoError(t, s.Snapshot().Err)
}

func TestStoreSuggestFollowsReplacement(t *testing.T) {
	s := NewStore(8)
	assert.Empty(t, s.Suggest("av"))

	seq, _ := s.Begin("")
	require.True(t, s.Apply(seq, reportWith("Avatar", "Animal")))
	assert.Equal(t, []suggest.Suggestion{{Label: "Avatar", Kind: suggest.KindMovie}}, s.Suggest("av"))

	// memoized answer must not survive a new report
	seq, _ = s.Begin("")
	require.True(t, s.Apply(seq, reportWith("Dunki")))
	assert.Empty(t, s.Suggest("av"))
	assert.Len(t, s.Suggest("du"), 1)
}

func TestStoreSuggestReturnsCopies(t *testing.T) {
	s := NewStore(8)
	seq, _ := s.Begin("")
	require.True(t, s.Apply(seq, reportWith("Avatar")))

	got := s.Suggest("av")
	got[0].Label = "mutated"
	assert.Equal(t, "Avatar", s.Suggest("av")[0].Label)
}

func nextEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "subscription closed")
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
	return Event{}
}

func TestStoreSubscribeStreamsTransitions(t *testing.T) {
	s := NewStore(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := s.Subscribe(ctx)
	assert.Equal(t, EventSnapshot, nextEvent(t, sub).Kind)

	seq, fetchID := s.Begin("Fighter")
	ev := nextEvent(t, sub)
	assert.Equal(t, EventLoading, ev.Kind)
	assert.Equal(t, fetchID, ev.FetchID)
	assert.True(t, ev.Loading)

	require.True(t, s.Apply(seq, reportWith("Fighter")))
	ev = nextEvent(t, sub)
	assert.Equal(t, EventReport, ev.Kind)
	assert.Equal(t, seq, ev.Seq)
	require.NotNil(t, ev.Report)

	seq, _ = s.Begin("")
	_ = nextEvent(t, sub)
	require.True(t, s.Fail(seq, errors.New("x")))
	ev = nextEvent(t, sub)
	assert.Equal(t, EventError, ev.Kind)
	assert.Error(t, ev.Err)
	assert.NotNil(t, ev.Report, "error events still carry the prior report")
}

func TestStoreSubscribeClosesOnCancel(t *testing.T) {
	s := NewStore(8)
	ctx, cancel := context.WithCancel(context.Background())
	sub := s.Subscribe(ctx)
	_ = nextEvent(t, sub)
	cancel()

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-sub:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
}

func TestStoreSlowSubscriberDropsOldest(t *testing.T) {
	s := NewStore(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub := s.Subscribe(ctx)

	var last uint64
	for i := 0; i < subscriberBuffer*3; i++ {
		last, _ = s.Begin("")
	}

	var got Event
	for i := 0; i < subscriberBuffer; i++ {
		got = nextEvent(t, sub)
	}
	assert.Equal(t, last, got.Seq)
}
