// Package live fans trip updates out to connected observers.
//
// Each subscription owns a small buffered channel. Publish never blocks: when
// a subscriber's buffer is full its oldest pending event is discarded, since
// every event carries a full snapshot and only the newest one matters.
package live

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hpungsan/indotrip/internal/trip"
)

// EventTripUpdate is the event name carried by every snapshot.
const EventTripUpdate = "trip-update"

// Event is the wire form of an update: {"type":"trip-update","trip":{...}}.
type Event struct {
	Type string     `json:"type"`
	Trip *trip.View `json:"trip"`
}

// EncodeUpdate serializes a snapshot event for v.
func EncodeUpdate(v *trip.View) ([]byte, error) {
	return json.Marshal(Event{Type: EventTripUpdate, Trip: v})
}

// Hub tracks subscribers per trip.
type Hub struct {
	mu     sync.Mutex
	subs   map[string]map[*Subscription]struct{}
	buffer int
	closed bool
	log    zerolog.Logger
}

// NewHub creates a hub whose subscriptions buffer up to buffer events.
func NewHub(buffer int, log zerolog.Logger) *Hub {
	if buffer < 1 {
		buffer = 1
	}
	return &Hub{
		subs:   make(map[string]map[*Subscription]struct{}),
		buffer: buffer,
		log:    log.With().Str("component", "live").Logger(),
	}
}

// Subscription receives encoded events for one trip until closed.
type Subscription struct {
	TripID string

	// C yields encoded events. It is closed when the subscription ends.
	C <-chan []byte

	ch   chan []byte
	hub  *Hub
	once sync.Once
}

// Subscribe registers a new observer of tripID. On a closed hub the returned
// subscription is already closed.
func (h *Hub) Subscribe(tripID string) *Subscription {
	ch := make(chan []byte, h.buffer)
	s := &Subscription{TripID: tripID, C: ch, ch: ch, hub: h}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		s.once.Do(func() { close(ch) })
		return s
	}
	set, ok := h.subs[tripID]
	if !ok {
		set = make(map[*Subscription]struct{})
		h.subs[tripID] = set
	}
	set[s] = struct{}{}
	subscribersGauge.Inc()
	h.log.Debug().Str("trip_id", tripID).Int("subscribers", len(set)).Msg("subscribed")
	return s
}

// Close unregisters the subscription and closes C. Safe to call more than
// once and concurrently with Publish.
func (s *Subscription) Close() {
	s.once.Do(func() {
		h := s.hub
		h.mu.Lock()
		defer h.mu.Unlock()
		if set, ok := h.subs[s.TripID]; ok {
			if _, ok := set[s]; ok {
				delete(set, s)
				subscribersGauge.Dec()
			}
			if len(set) == 0 {
				delete(h.subs, s.TripID)
			}
		}
		close(s.ch)
	})
}

// Publish delivers event to every current subscriber of tripID and returns
// how many received it. Subscribers of other trips see nothing.
func (h *Hub) Publish(tripID string, event []byte) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	set := h.subs[tripID]
	for s := range set {
		deliver(s.ch, event)
	}
	eventsPublishedTotal.Add(float64(len(set)))
	return len(set)
}

// deliver enqueues without blocking, discarding the oldest pending event when
// the buffer is full. Callers hold the hub lock, so ch cannot close meanwhile.
func deliver(ch chan []byte, event []byte) {
	select {
	case ch <- event:
		return
	default:
	}
	select {
	case <-ch:
		eventsDroppedTotal.Inc()
	default:
	}
	select {
	case ch <- event:
	default:
		eventsDroppedTotal.Inc()
	}
}

// Subscribers reports how many observers tripID has.
func (h *Hub) Subscribers(tripID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[tripID])
}

// Close ends every subscription. Later subscriptions start closed.
func (h *Hub) Close() {
	h.mu.Lock()
	var all []*Subscription
	for _, set := range h.subs {
		for s := range set {
			all = append(all, s)
		}
	}
	h.closed = true
	h.mu.Unlock()

	for _, s := range all {
		s.Close()
	}
}
