package event

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/alexanderramin/tomo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindFamily(t *testing.T) {
	cases := []struct {
		kind   Kind
		family Family
		name   string
	}{
		{SourceChanged, FamilySource, "AfterSourceChanged"},
		{BacklogCreated, FamilyBacklog, "AfterBacklogCreate"},
		{BacklogDeleted, FamilyBacklog, "AfterBacklogDelete"},
		{WorkItemCreated, FamilyWorkItem, "AfterWorkitemCreate"},
		{WorkItemCompleted, FamilyWorkItem, "AfterWorkitemComplete"},
		{WorkItemDeleted, FamilyWorkItem, "AfterWorkitemDelete"},
		{PomodoroAdded, FamilyPomodoro, "AfterPomodoroAdd"},
		{PomodoroVoided, FamilyPomodoro, "AfterPomodoroVoid"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.family, tc.kind.Family())
			assert.Equal(t, tc.name, tc.kind.String())
		})
	}
}

func TestEveryKindHasAName(t *testing.T) {
	for k := SourceChanged; k <= PomodoroVoided; k++ {
		assert.NotContains(t, k.String(), "Kind(", "kind %d", int(k))
		assert.Less(t, int(k.Family()), int(familyCount))
	}
}

func TestBus_DeliversByFamily(t *testing.T) {
	bus := NewBus()
	var items, pomodoros []Kind
	bus.Subscribe(FamilyWorkItem, func(e Event) { items = append(items, e.Kind) })
	bus.Subscribe(FamilyPomodoro, func(e Event) { pomodoros = append(pomodoros, e.Kind) })

	bus.Publish(Event{Kind: WorkItemCreated})
	bus.Publish(Event{Kind: PomodoroWorkStarted})
	bus.Publish(Event{Kind: BacklogRenamed})
	bus.Publish(Event{Kind: WorkItemCompleted})

	assert.Equal(t, []Kind{WorkItemCreated, WorkItemCompleted}, items)
	assert.Equal(t, []Kind{PomodoroWorkStarted}, pomodoros)
}

func TestBus_PayloadIsPassedThrough(t *testing.T) {
	bus := NewBus()
	backlog := &domain.Backlog{ID: "b1"}
	var got Event
	bus.Subscribe(FamilyWorkItem, func(e Event) { got = e })

	bus.Publish(Event{Kind: WorkItemStarted, Backlog: backlog, WorkItem: &domain.WorkItem{ID: "w1"}})
	assert.Same(t, backlog, got.Backlog)
	assert.Equal(t, "w1", got.WorkItem.ID)
}

func TestBus_ClosedSubscriptionReceivesNothing(t *testing.T) {
	bus := NewBus()
	calls := 0
	sub := bus.Subscribe(FamilyWorkItem, func(Event) { calls++ })
	require.Equal(t, 1, bus.Len(FamilyWorkItem))

	sub.Close()
	sub.Close()
	bus.Publish(Event{Kind: WorkItemCreated})

	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, bus.Len(FamilyWorkItem))
}

func TestBus_UnsubscribeDuringDispatch(t *testing.T) {
	bus := NewBus()
	var order []string
	var second *Subscription
	bus.Subscribe(FamilyWorkItem, func(Event) {
		order = append(order, "first")
		second.Close()
	})
	second = bus.Subscribe(FamilyWorkItem, func(Event) { order = append(order, "second") })

	bus.Publish(Event{Kind: WorkItemCreated})
	bus.Publish(Event{Kind: WorkItemCreated})

	// The first publish runs against the snapshot taken before the close.
	assert.Equal(t, []string{"first", "second", "first"}, order)
}

func TestBus_InvalidSubscriptionsAreInert(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe(Family(42), func(Event) {})
	sub.Close()
	bus.Subscribe(FamilyWorkItem, nil).Close()
	assert.Equal(t, 0, bus.Len(FamilyWorkItem))

	var nilSub *Subscription
	assert.NotPanics(t, nilSub.Close)
}

func TestBus_LogsDispatch(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	bus := NewBus(WithLogger(logger))
	bus.Publish(Event{Kind: PomodoroFinished})
	assert.Contains(t, buf.String(), "event=AfterPomodoroComplete")
	assert.Contains(t, buf.String(), "family=pomodoro")
}

type fakeSource struct {
	name string
	bus  *Bus
}

func (f *fakeSource) Name() string { return f.name }
func (f *fakeSource) Subscribe(fam Family, h Handler) *Subscription {
	return f.bus.Subscribe(fam, h)
}

func TestHolder_ReplaceNotifiesWithNewSource(t *testing.T) {
	h := NewHolder()
	assert.Nil(t, h.Current())

	var seen []string
	sub := h.OnSourceChanged(func(s Source) { seen = append(seen, s.Name()) })

	h.Replace(&fakeSource{name: "a", bus: NewBus()})
	h.Replace(&fakeSource{name: "b", bus: NewBus()})
	assert.Equal(t, []string{"a", "b"}, seen)
	assert.Equal(t, "b", h.Current().Name())

	sub.Close()
	h.Replace(&fakeSource{name: "c", bus: NewBus()})
	assert.Len(t, seen, 2)
}
