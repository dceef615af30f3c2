package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/tomo/internal/db"
	"github.com/alexanderramin/tomo/internal/event"
	"github.com/alexanderramin/tomo/internal/testutil"
)

type recordingPublisher struct {
	events []event.Event
}

func (r *recordingPublisher) Publish(e event.Event) { r.events = append(r.events, e) }

// kinds returns the published kinds in order, or nil when nothing was
// published.
func (r *recordingPublisher) kinds() []event.Kind {
	var out []event.Kind
	for _, e := range r.events {
		out = append(out, e.Kind)
	}
	return out
}

func (r *recordingPublisher) last() event.Event { return r.events[len(r.events)-1] }

func (r *recordingPublisher) reset() { r.events = nil }

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

// fakeClock returns a settable instant.
type fakeClock struct{ at time.Time }

func (c *fakeClock) now() time.Time { return c.at }

type harness struct {
	db        *sql.DB
	pub       *recordingPublisher
	clock     *fakeClock
	backlogs  BacklogService
	workItems WorkItemService
	pomodoros PomodoroService
	tags      TagService
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	database := testutil.NewTestDB(t)
	return newHarnessWithUoW(database, testutil.NewTestUoW(database), opts...)
}

func newHarnessWithUoW(database *sql.DB, uow db.UnitOfWork, opts ...Option) *harness {
	h := &harness{db: database, pub: &recordingPublisher{}, clock: &fakeClock{at: testutil.FixedNow}}
	opts = append([]Option{WithClock(h.clock.now)}, opts...)
	h.backlogs = NewBacklogService(database, uow, h.pub, opts...)
	h.workItems = NewWorkItemService(database, uow, h.pub, opts...)
	h.pomodoros = NewPomodoroService(database, uow, h.pub, opts...)
	h.tags = NewTagService(database)
	return h
}
