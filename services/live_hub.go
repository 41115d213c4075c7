package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const pushWriteTimeout = 5 * time.Second

// LiveConn is the slice of a websocket connection the hub needs. The
// gorilla *websocket.Conn satisfies it; tests use fakes.
type LiveConn interface {
	WriteJSON(v interface{}) error
	SetWriteDeadline(t time.Time) error
}

// SummarySource produces the per-place payload pushed on every mutation.
// *PointsService is the production implementation.
type SummarySource interface {
	PlaceSummary(ctx context.Context, placeID uint) (*PlaceSummary, error)
}

// LiveHub fans refreshed place summaries out to subscribed connections.
// Subscriptions are in-memory only and die with the connection.
//
// Gorilla connections tolerate a single writer at a time, so every write —
// the fan-out in Notify and the subscribe-time ack via Push — goes through
// the connection's write lock.
type LiveHub struct {
	mu      sync.RWMutex
	subs    map[uint]map[LiveConn]bool // placeID -> connections
	writeMu map[LiveConn]*sync.Mutex
	points  SummarySource
	logger  *zap.Logger
}

func NewLiveHub(points SummarySource, logger *zap.Logger) *LiveHub {
	return &LiveHub{
		subs:    make(map[uint]map[LiveConn]bool),
		writeMu: make(map[LiveConn]*sync.Mutex),
		points:  points,
		logger:  logger,
	}
}

// Subscribe registers a connection under a place. Re-subscribing the same
// connection is a no-op.
func (h *LiveHub) Subscribe(placeID uint, conn LiveConn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs[placeID] == nil {
		h.subs[placeID] = make(map[LiveConn]bool)
	}
	h.subs[placeID][conn] = true
	if h.writeMu[conn] == nil {
		h.writeMu[conn] = &sync.Mutex{}
	}
}

// Unsubscribe removes the connection from every place it was watching.
func (h *LiveHub) Unsubscribe(conn LiveConn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for placeID, conns := range h.subs {
		delete(conns, conn)
		if len(conns) == 0 {
			delete(h.subs, placeID)
		}
	}
	delete(h.writeMu, conn)
}

// Push writes one payload to a single connection, serialized against any
// concurrent Notify fan-out on the same connection.
func (h *LiveHub) Push(conn LiveConn, v interface{}) error {
	h.mu.RLock()
	mu := h.writeMu[conn]
	h.mu.RUnlock()
	if mu == nil {
		// Not registered, so nothing else writes to it.
		mu = &sync.Mutex{}
	}
	return writeLocked(conn, mu, v)
}

func writeLocked(conn LiveConn, mu *sync.Mutex, v interface{}) error {
	mu.Lock()
	defer mu.Unlock()

	if err := conn.SetWriteDeadline(time.Now().Add(pushWriteTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(v)
}

// SubscriberCount returns how many connections watch the place.
func (h *LiveHub) SubscriberCount(placeID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[placeID])
}

// Notify recomputes the place summary and pushes it to every subscriber.
// Push problems are logged and swallowed so the mutation that triggered the
// notification never fails because of a slow or dead subscriber.
func (h *LiveHub) Notify(ctx context.Context, placeID uint) {
	type target struct {
		conn LiveConn
		mu   *sync.Mutex
	}

	h.mu.RLock()
	targets := make([]target, 0, len(h.subs[placeID]))
	for conn := range h.subs[placeID] {
		targets = append(targets, target{conn: conn, mu: h.writeMu[conn]})
	}
	h.mu.RUnlock()

	if len(targets) == 0 {
		return
	}

	summary, err := h.points.PlaceSummary(ctx, placeID)
	if err != nil {
		h.logger.Error("live update: failed to build place summary",
			zap.Uint("place_id", placeID), zap.Error(err))
		return
	}

	for _, tgt := range targets {
		if err := writeLocked(tgt.conn, tgt.mu, summary); err != nil {
			// Dead connections clean themselves up when their read loop exits.
			h.logger.Warn("live update: failed to push to subscriber",
				zap.Uint("place_id", placeID), zap.Error(err))
		}
	}
}
