package event

import "sync"

// Source is anything that emits lifecycle events: one workspace, one
// database.
type Source interface {
	Name() string
	Subscribe(f Family, h Handler) *Subscription
}

// Holder keeps the process-wide active Source and tells listeners when it is
// replaced.
type Holder struct {
	mu      sync.Mutex
	current Source
	bus     *Bus
}

func NewHolder(opts ...BusOption) *Holder {
	return &Holder{bus: NewBus(opts...)}
}

// Current returns the active source, or nil before the first Replace.
func (h *Holder) Current() Source {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// Replace installs src and then notifies OnSourceChanged listeners with it.
func (h *Holder) Replace(src Source) {
	h.mu.Lock()
	h.current = src
	h.mu.Unlock()
	h.bus.Publish(Event{Kind: SourceChanged})
}

// OnSourceChanged registers fn to run after every Replace. fn receives the
// source that was current when it is called.
func (h *Holder) OnSourceChanged(fn func(Source)) *Subscription {
	return h.bus.Subscribe(FamilySource, func(Event) {
		fn(h.Current())
	})
}
