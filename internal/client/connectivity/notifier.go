package connectivity

import "sync"

type Event string

const (
	EventOnline     Event = "online"
	EventOffline    Event = "offline"
	EventForeground Event = "foreground"
)

// hub keeps the online flag and the subscriber list shared by notifiers.
type hub struct {
	mu     sync.Mutex
	online bool
	subs   map[int]func(Event)
	next   int
}

func (h *hub) Online() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.online
}

// Subscribe registers fn for every future event. Callbacks run on the
// publishing goroutine and must not block.
func (h *hub) Subscribe(fn func(Event)) (unsubscribe func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs == nil {
		h.subs = make(map[int]func(Event))
	}
	id := h.next
	h.next++
	h.subs[id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}
}

// setOnline records the new state and publishes it if it changed.
func (h *hub) setOnline(online bool) bool {
	h.mu.Lock()
	changed := h.online != online
	h.online = online
	h.mu.Unlock()

	if !changed {
		return false
	}
	if online {
		h.publish(EventOnline)
	} else {
		h.publish(EventOffline)
	}
	return true
}

func (h *hub) publish(e Event) {
	h.mu.Lock()
	fns := make([]func(Event), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}

// Manual is a notifier driven by explicit calls.
type Manual struct {
	hub
}

func NewManual(online bool) *Manual {
	m := &Manual{}
	m.online = online
	return m
}

func (m *Manual) SetOnline(online bool) { m.setOnline(online) }

// Foreground publishes EventForeground regardless of the online state.
func (m *Manual) Foreground() { m.publish(EventForeground) }
