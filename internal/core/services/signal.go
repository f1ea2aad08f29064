package services

import "sync"

// Hub is a minimal in-process broadcast: category mutations notify it and
// listeners such as the browse sidebar refresh on the signal. Sends never
// block; a listener that has not drained its slot just misses no information
// because the signal is edge-triggered.
type Hub struct {
	mu   sync.Mutex
	subs []chan struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{}
}

// Subscribe registers a listener. The returned channel has a one-slot buffer
// and carries coalesced change signals.
func (h *Hub) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	h.mu.Lock()
	h.subs = append(h.subs, ch)
	h.mu.Unlock()
	return ch
}

// Notify signals every listener without blocking.
func (h *Hub) Notify() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
