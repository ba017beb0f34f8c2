package store

import "sync"

// hub fans change notifications out to subscribers. Slow subscribers miss
// notifications rather than block writers.
type hub struct {
	mu   sync.RWMutex
	subs map[int]chan Change
	next int
}

func newHub() *hub {
	return &hub{subs: map[int]chan Change{}}
}

func (h *hub) subscribe(buffer int) (int, <-chan Change) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	id := h.next
	ch := make(chan Change, buffer)
	h.subs[id] = ch
	return id, ch
}

func (h *hub) unsubscribe(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

func (h *hub) broadcast(c Change) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- c:
		default:
		}
	}
}
