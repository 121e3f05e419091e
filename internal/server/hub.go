package server

import (
	"log/slog"
	"sync"

	"github.com/idilsaglam/liste/internal/event"
)

// Hub fans every published event out to all subscribers. A subscriber that
// does not keep up loses messages instead of slowing the others down.
type Hub struct {
	mu      sync.Mutex
	subs    map[*Subscription]struct{}
	buffer  int
	log     *slog.Logger
	metrics *Metrics
}

type Subscription struct {
	C   <-chan []byte
	ch  chan []byte
	hub *Hub
}

func NewHub(buffer int, metrics *Metrics, log *slog.Logger) *Hub {
	if buffer <= 0 {
		buffer = 32
	}
	return &Hub{subs: make(map[*Subscription]struct{}), buffer: buffer, metrics: metrics, log: log}
}

func (h *Hub) Subscribe() *Subscription {
	ch := make(chan []byte, h.buffer)
	s := &Subscription{C: ch, ch: ch, hub: h}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	n := len(h.subs)
	h.mu.Unlock()
	h.metrics.Subscribers.Set(float64(n))
	return s
}

// Close unsubscribes. It is safe to call more than once.
func (s *Subscription) Close() {
	h := s.hub
	h.mu.Lock()
	_, ok := h.subs[s]
	delete(h.subs, s)
	n := len(h.subs)
	h.mu.Unlock()
	if ok {
		h.metrics.Subscribers.Set(float64(n))
	}
}

// Publish encodes ev once and offers it to every subscriber.
func (h *Hub) Publish(ev event.Event) {
	msg, err := event.Encode(ev)
	if err != nil {
		h.log.Error("encode event", "tag", ev.Tag(), "err", err)
		return
	}
	h.metrics.Events.WithLabelValues(string(ev.Tag())).Inc()

	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.subs {
		select {
		case s.ch <- msg:
		default:
			h.metrics.Dropped.Inc()
			h.log.Warn("subscriber lagging, dropping event", "tag", ev.Tag())
		}
	}
}
