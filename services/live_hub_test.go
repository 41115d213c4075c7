package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeConn struct {
	mu        sync.Mutex
	messages  []interface{}
	failWrite bool
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWrite {
		return errors.New("write: broken pipe")
	}
	f.messages = append(f.messages, v)
	return nil
}

func (f *fakeConn) SetWriteDeadline(time.Time) error { return nil }

func (f *fakeConn) received() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}

type stubSummarySource struct {
	mu      sync.Mutex
	summary *PlaceSummary
	err     error
	calls   int
}

func (s *stubSummarySource) PlaceSummary(ctx context.Context, placeID uint) (*PlaceSummary, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	out := *s.summary
	out.PlaceID = placeID
	return &out, nil
}

func newTestHub(src *stubSummarySource) *LiveHub {
	return NewLiveHub(src, zap.NewNop())
}

func TestLiveHub_SubscribeIsIdempotent(t *testing.T) {
	hub := newTestHub(&stubSummarySource{summary: &PlaceSummary{}})
	conn := &fakeConn{}

	hub.Subscribe(1, conn)
	hub.Subscribe(1, conn)

	assert.Equal(t, 1, hub.SubscriberCount(1))
}

func TestLiveHub_NotifyPushesToPlaceSubscribersOnly(t *testing.T) {
	src := &stubSummarySource{summary: &PlaceSummary{Visits: 3, AverageRating: 4.5}}
	hub := newTestHub(src)

	watching := &fakeConn{}
	other := &fakeConn{}
	hub.Subscribe(1, watching)
	hub.Subscribe(2, other)

	hub.Notify(context.Background(), 1)

	assert.Equal(t, 1, watching.received())
	assert.Zero(t, other.received())

	pushed, ok := watching.messages[0].(*PlaceSummary)
	assert.True(t, ok)
	assert.Equal(t, uint(1), pushed.PlaceID)
	assert.Equal(t, int64(3), pushed.Visits)
}

func TestLiveHub_NotifyWithoutSubscribersSkipsSummary(t *testing.T) {
	src := &stubSummarySource{summary: &PlaceSummary{}}
	hub := newTestHub(src)

	hub.Notify(context.Background(), 42)

	assert.Zero(t, src.calls)
}

func TestLiveHub_UnsubscribeRemovesFromAllPlaces(t *testing.T) {
	hub := newTestHub(&stubSummarySource{summary: &PlaceSummary{}})
	conn := &fakeConn{}

	hub.Subscribe(1, conn)
	hub.Subscribe(2, conn)
	hub.Unsubscribe(conn)

	assert.Zero(t, hub.SubscriberCount(1))
	assert.Zero(t, hub.SubscriberCount(2))
}

func TestLiveHub_PushFailureDoesNotAffectOtherSubscribers(t *testing.T) {
	src := &stubSummarySource{summary: &PlaceSummary{Visits: 1}}
	hub := newTestHub(src)

	broken := &fakeConn{failWrite: true}
	healthy := &fakeConn{}
	hub.Subscribe(1, broken)
	hub.Subscribe(1, healthy)

	// Must not panic or error out; the healthy subscriber still gets the push.
	hub.Notify(context.Background(), 1)

	assert.Equal(t, 1, healthy.received())
}

func TestLiveHub_SummaryFailureIsSwallowed(t *testing.T) {
	src := &stubSummarySource{err: errors.New("db down")}
	hub := newTestHub(src)

	conn := &fakeConn{}
	hub.Subscribe(1, conn)

	hub.Notify(context.Background(), 1)

	assert.Zero(t, conn.received())
}

// slowConn flags any overlapping WriteJSON calls. Gorilla connections allow
// only one writer at a time, so an overlap here would be a panic in
// production.
type slowConn struct {
	inFlight int32
	overlap  int32
	writes   int32
}

func (c *slowConn) WriteJSON(interface{}) error {
	if atomic.AddInt32(&c.inFlight, 1) > 1 {
		atomic.StoreInt32(&c.overlap, 1)
	}
	time.Sleep(2 * time.Millisecond)
	atomic.AddInt32(&c.inFlight, -1)
	atomic.AddInt32(&c.writes, 1)
	return nil
}

func (c *slowConn) SetWriteDeadline(time.Time) error { return nil }

func TestLiveHub_WritesToOneConnNeverOverlap(t *testing.T) {
	src := &stubSummarySource{summary: &PlaceSummary{Visits: 1}}
	hub := newTestHub(src)

	conn := &slowConn{}
	hub.Subscribe(1, conn)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.Notify(context.Background(), 1)
		}()
	}
	// The subscribe-time ack races the fan-out on the same connection.
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, hub.Push(conn, &PlaceSummary{PlaceID: 1}))
	}()
	wg.Wait()

	assert.Zero(t, atomic.LoadInt32(&conn.overlap), "overlapping writes on a single connection")
	assert.Equal(t, int32(5), atomic.LoadInt32(&conn.writes))
}

func TestLiveHub_ConcurrentSubscribeUnsubscribe(t *testing.T) {
	hub := newTestHub(&stubSummarySource{summary: &PlaceSummary{}})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conn := &fakeConn{}
			hub.Subscribe(1, conn)
			hub.Notify(context.Background(), 1)
			hub.Unsubscribe(conn)
		}()
	}
	wg.Wait()

	assert.Zero(t, hub.SubscriberCount(1))
}
