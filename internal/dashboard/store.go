// Package dashboard holds the current report and sequences the fetches that
// replace it.
package dashboard

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"cinemetrics/internal/report"
	"cinemetrics/internal/suggest"
)

type EventKind string

const (
	// EventSnapshot is the first event every subscriber receives.
	EventSnapshot EventKind = "snapshot"
	EventLoading  EventKind = "loading"
	EventReport   EventKind = "report"
	EventError    EventKind = "error"
)

type Event struct {
	Kind    EventKind
	Seq     uint64
	FetchID string
	Focus   string
	Report  *report.Report
	Err     error
	Loading bool
	At      time.Time
}

// Snapshot is a point-in-time view of the store. Report is shared with the
// store and must be treated as read-only; it is replaced, never mutated.
type Snapshot struct {
	Seq       uint64
	FetchID   string
	Focus     string
	Report    *report.Report
	Err       error
	Loading   bool
	UpdatedAt time.Time
}

const subscriberBuffer = 8

type Store struct {
	mu sync.Mutex

	seq       uint64
	fetchID   string
	focus     string
	report    *report.Report
	err       error
	loading   bool
	updatedAt time.Time

	index []suggest.Suggestion
	memo  *lru.Cache[string, []suggest.Suggestion]

	subs   map[uint64]chan Event
	nextID uint64

	now func() time.Time
}

// NewStore returns an empty store whose suggestion memo holds up to
// cacheSize queries.
func NewStore(cacheSize int) *Store {
	if cacheSize <= 0 {
		cacheSize = 256
	}
	memo, err := lru.New[string, []suggest.Suggestion](cacheSize)
	if err != nil {
		// only returned for a non-positive size
		panic(err)
	}
	return &Store{
		index: suggest.BuildIndex(nil),
		memo:  memo,
		subs:  make(map[uint64]chan Event),
		now:   time.Now,
	}
}

// Begin issues the next sequence number for a fetch about focus and marks
// the store as loading. Any fetch started earlier becomes stale.
func (s *Store) Begin(focus string) (uint64, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.fetchID = uuid.NewString()
	s.focus = focus
	s.loading = true
	s.updatedAt = s.now()
	s.publishLocked(s.eventLocked(EventLoading))
	return s.seq, s.fetchID
}

// Apply installs r if seq is still the latest fetch. The error is cleared,
// the suggestion index rebuilt and the memo purged in the same step.
func (s *Store) Apply(seq uint64, r *report.Report) bool {
	if r == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return false
	}
	s.report = r
	s.err = nil
	s.loading = false
	s.index = suggest.BuildIndex(r)
	s.memo.Purge()
	s.updatedAt = s.now()
	s.publishLocked(s.eventLocked(EventReport))
	return true
}

// Fail records err for the latest fetch. The previous report stays in place.
func (s *Store) Fail(seq uint64, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return false
	}
	s.err = err
	s.loading = false
	s.updatedAt = s.now()
	s.publishLocked(s.eventLocked(EventError))
	return true
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Seq:       s.seq,
		FetchID:   s.fetchID,
		Focus:     s.focus,
		Report:    s.report,
		Err:       s.err,
		Loading:   s.loading,
		UpdatedAt: s.updatedAt,
	}
}

// Suggest filters the current index. Results are memoized per query until
// the next report replaces the index.
func (s *Store) Suggest(query string) []suggest.Suggestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	if hit, ok := s.memo.Get(query); ok {
		return slices.Clone(hit)
	}
	out := suggest.Filter(s.index, query)
	s.memo.Add(query, out)
	return slices.Clone(out)
}

// Subscribe streams state transitions until ctx is done. The current state
// is sent first as an EventSnapshot. A subscriber that falls behind loses its
// oldest pending events.
func (s *Store) Subscribe(ctx context.Context) <-chan Event {
	ch := make(chan Event, subscriberBuffer)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	pushEvent(ch, s.eventLocked(EventSnapshot))
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, id)
		close(ch)
		s.mu.Unlock()
	}()
	return ch
}

func (s *Store) eventLocked(kind EventKind) Event {
	return Event{
		Kind:    kind,
		Seq:     s.seq,
		FetchID: s.fetchID,
		Focus:   s.focus,
		Report:  s.report,
		Err:     s.err,
		Loading: s.loading,
		At:      s.updatedAt,
	}
}

func (s *Store) publishLocked(ev Event) {
	for _, ch := range s.subs {
		pushEvent(ch, ev)
	}
}

// pushEvent never blocks: when out is full the oldest event is dropped.
func pushEvent(out chan Event, ev Event) {
	select {
	case out <- ev:
		return
	default:
	}
	select {
	case <-out:
	default:
	}
	select {
	case out <- ev:
	default:
	}
}
