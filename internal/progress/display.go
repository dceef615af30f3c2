package progress

import (
	"sync"

	"github.com/alexanderramin/tomo/internal/domain"
	"github.com/alexanderramin/tomo/internal/event"
)

// Label is the render target of a Display.
type Label interface {
	SetText(text string)
	SetVisible(visible bool)
}

// Display keeps a Label showing the progress of the backlog that last
// changed on the active event source.
type Display struct {
	label Label
	opts  Options

	mu       sync.Mutex
	holdSub  *event.Subscription
	itemSub  *event.Subscription
	pomSub   *event.Subscription
	summary  Summary
	grouping domain.Grouping
}

// NewDisplay binds a display to holder. The label starts hidden; if the
// holder already has a source the display attaches to it right away.
func NewDisplay(holder *event.Holder, label Label, opts Options) *Display {
	d := &Display{label: label, opts: opts}
	label.SetVisible(false)
	d.holdSub = holder.OnSourceChanged(d.onSourceChanged)
	if src := holder.Current(); src != nil {
		d.onSourceChanged(src)
	}
	return d
}

func (d *Display) onSourceChanged(src event.Source) {
	d.releaseSourceSubs()
	d.Show(domain.NoGrouping())
	if src == nil {
		return
	}
	itemSub := src.Subscribe(event.FamilyWorkItem, d.onLifecycle)
	pomSub := src.Subscribe(event.FamilyPomodoro, d.onLifecycle)

	d.mu.Lock()
	d.itemSub, d.pomSub = itemSub, pomSub
	d.mu.Unlock()
}

func (d *Display) onLifecycle(e event.Event) {
	d.Show(domain.BacklogGrouping(e.Backlog))
}

// Show recomputes the summary for g and updates the label.
func (d *Display) Show(g domain.Grouping) {
	s := Compute(g, d.opts)

	d.mu.Lock()
	d.summary = s
	d.grouping = g
	d.mu.Unlock()

	visible := s.Visible()
	d.label.SetVisible(visible)
	d.label.SetText(s.Text())
}

// Summary returns the most recent computation.
func (d *Display) Summary() Summary {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.summary
}

// Grouping returns the selection the most recent computation ran over.
func (d *Display) Grouping() domain.Grouping {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.grouping
}

// Close detaches the display from the holder and the active source.
func (d *Display) Close() {
	d.releaseSourceSubs()
	d.mu.Lock()
	sub := d.holdSub
	d.holdSub = nil
	d.mu.Unlock()
	sub.Close()
}

func (d *Display) releaseSourceSubs() {
	d.mu.Lock()
	itemSub, pomSub := d.itemSub, d.pomSub
	d.itemSub, d.pomSub = nil, nil
	d.mu.Unlock()
	itemSub.Close()
	pomSub.Close()
}
