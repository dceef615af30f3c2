package event

import (
	"log/slog"
	"sync"
)

// Subscription is the handle returned by Subscribe. Closing it detaches the
// handler; Close may be called any number of times.
type Subscription struct {
	once    sync.Once
	release func()
}

func (s *Subscription) Close() {
	if s == nil || s.release == nil {
		return
	}
	s.once.Do(s.release)
}

type listener struct {
	id      uint64
	handler Handler
}

// Bus is a synchronous publish/subscribe hub keyed by Family.
type Bus struct {
	mu        sync.Mutex
	nextID    uint64
	listeners [familyCount][]listener
	logger    *slog.Logger
}

type BusOption func(*Bus)

// WithLogger makes the bus log every dispatch at debug level.
func WithLogger(l *slog.Logger) BusOption {
	return func(b *Bus) {
		if l != nil {
			b.logger = l
		}
	}
}

func NewBus(opts ...BusOption) *Bus {
	b := &Bus{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers h for every event of family f.
func (b *Bus) Subscribe(f Family, h Handler) *Subscription {
	if f < 0 || f >= familyCount || h == nil {
		return &Subscription{}
	}
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.listeners[f] = append(b.listeners[f], listener{id: id, handler: h})
	b.mu.Unlock()

	return &Subscription{release: func() { b.remove(f, id) }}
}

func (b *Bus) remove(f Family, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ls := b.listeners[f]
	for i, l := range ls {
		if l.id == id {
			b.listeners[f] = append(ls[:i:i], ls[i+1:]...)
			return
		}
	}
}

// Publish delivers e to the handlers of its family in subscription order.
// Handlers run on the caller's goroutine against a snapshot of the listener
// list, so they may subscribe or unsubscribe while being called.
func (b *Bus) Publish(e Event) {
	f := e.Kind.Family()
	if f >= familyCount {
		return
	}
	b.mu.Lock()
	snapshot := append([]listener(nil), b.listeners[f]...)
	b.mu.Unlock()

	b.logger.Debug("dispatch", "event", e.Kind.String(), "family", f.String(), "listeners", len(snapshot))
	for _, l := range snapshot {
		l.handler(e)
	}
}

// Len reports how many handlers are subscribed to f.
func (b *Bus) Len(f Family) int {
	if f < 0 || f >= familyCount {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners[f])
}
