package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func itemWith(states ...PomodoroState) *WorkItem {
	w := &WorkItem{ID: "wi", State: WorkItemOpen}
	for i, s := range states {
		w.Pomodoros = append(w.Pomodoros, &Pomodoro{WorkItemID: "wi", OrderIndex: i, State: s})
	}
	return w
}

func TestWorkItemPredicates(t *testing.T) {
	cases := []struct {
		name      string
		item      *WorkItem
		startable bool
		running   bool
		sealed    bool
	}{
		{"no pomodoros", itemWith(), false, false, false},
		{"one new", itemWith(PomodoroNew), true, false, false},
		{"work in progress", itemWith(PomodoroWork, PomodoroNew), false, true, false},
		{"resting", itemWith(PomodoroRest), false, true, false},
		{"all finished, open", itemWith(PomodoroFinished, PomodoroCanceled), false, false, false},
		{"finished then new", itemWith(PomodoroFinished, PomodoroNew), true, false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.startable, tc.item.IsStartable())
			assert.Equal(t, tc.running, tc.item.IsRunning())
			assert.Equal(t, tc.sealed, tc.item.IsSealed())
		})
	}
}

func TestSealedItemIsNeverStartable(t *testing.T) {
	w := itemWith(PomodoroNew)
	w.State = WorkItemFinished
	assert.True(t, w.IsSealed())
	assert.False(t, w.IsStartable())
}

func TestStartPomodoro_PicksFirstStartable(t *testing.T) {
	w := itemWith(PomodoroFinished, PomodoroNew, PomodoroNew)
	p, err := w.StartPomodoro(testNow)
	require.NoError(t, err)
	assert.Equal(t, 1, p.OrderIndex)
	assert.Equal(t, PomodoroWork, p.State)
	require.NotNil(t, p.StartedAt)
	assert.Equal(t, testNow, *p.StartedAt)
	assert.True(t, w.IsRunning())
}

func TestStartPomodoro_Errors(t *testing.T) {
	_, err := itemWith(PomodoroWork, PomodoroNew).StartPomodoro(testNow)
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	_, err = itemWith(PomodoroFinished).StartPomodoro(testNow)
	assert.ErrorIs(t, err, ErrNoStartablePomodoro)

	sealed := itemWith(PomodoroNew)
	sealed.State = WorkItemCanceled
	_, err = sealed.StartPomodoro(testNow)
	assert.ErrorIs(t, err, ErrSealed)
}

func TestAddPomodoros(t *testing.T) {
	w := itemWith(PomodoroFinished)
	added, err := w.AddPomodoros(2, 25, 5, testNow)
	require.NoError(t, err)
	require.Len(t, added, 2)
	assert.Len(t, w.Pomodoros, 3)
	assert.Equal(t, 1, added[0].OrderIndex)
	assert.Equal(t, 2, added[1].OrderIndex)
	assert.Equal(t, "wi", added[0].WorkItemID)
	assert.Equal(t, 25, added[1].WorkMinutes)
	assert.Equal(t, 5, added[1].RestMinutes)
	assert.Equal(t, testNow, w.UpdatedAt)

	_, err = w.AddPomodoros(0, 25, 5, testNow)
	assert.Error(t, err)
}

func TestAddPomodoros_SealedRejected(t *testing.T) {
	w := itemWith()
	w.State = WorkItemFinished
	_, err := w.AddPomodoros(1, 25, 5, testNow)
	assert.ErrorIs(t, err, ErrSealed)
}

func TestRemovePomodoro_TakesLastStartable(t *testing.T) {
	w := itemWith(PomodoroNew, PomodoroNew, PomodoroFinished)
	w.Pomodoros[1].ID = "second"
	removed, err := w.RemovePomodoro(testNow)
	require.NoError(t, err)
	assert.Equal(t, "second", removed.ID)
	assert.Len(t, w.Pomodoros, 2)

	_, err = itemWith(PomodoroFinished, PomodoroWork).RemovePomodoro(testNow)
	assert.ErrorIs(t, err, ErrNoStartablePomodoro)
}

func TestSeal_VoidsRunningPomodoro(t *testing.T) {
	w := itemWith(PomodoroFinished, PomodoroWork, PomodoroNew)
	voided, err := w.Seal(WorkItemFinished, testNow)
	require.NoError(t, err)
	require.NotNil(t, voided)
	assert.Equal(t, PomodoroCanceled, voided.State)
	assert.Equal(t, PomodoroNew, w.Pomodoros[2].State, "startable pomodoros stay untouched")
	assert.True(t, w.IsSealed())
	require.NotNil(t, w.SealedAt)
	assert.Equal(t, testNow, *w.SealedAt)
}

func TestSeal_Idempotent(t *testing.T) {
	w := itemWith()
	_, err := w.Seal(WorkItemCanceled, testNow)
	require.NoError(t, err)

	voided, err := w.Seal(WorkItemCanceled, testNow.Add(time.Minute))
	require.NoError(t, err)
	assert.Nil(t, voided)
	assert.Equal(t, testNow, *w.SealedAt, "second seal must not move SealedAt")

	_, err = w.Seal(WorkItemFinished, testNow)
	assert.ErrorIs(t, err, ErrSealed)

	_, err = itemWith().Seal(WorkItemOpen, testNow)
	assert.Error(t, err)
}

func TestReopen(t *testing.T) {
	w := itemWith(PomodoroNew)
	_, err := w.Seal(WorkItemFinished, testNow)
	require.NoError(t, err)

	require.NoError(t, w.Reopen(testNow))
	assert.Equal(t, WorkItemOpen, w.State)
	assert.Nil(t, w.SealedAt)
	assert.True(t, w.IsStartable())

	err = w.Reopen(testNow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open")
}

func TestRename(t *testing.T) {
	w := itemWith()
	require.NoError(t, w.Rename("  Write report #work  ", testNow))
	assert.Equal(t, "Write report #work", w.Title)
	assert.Error(t, w.Rename("   ", testNow))

	w.State = WorkItemFinished
	assert.ErrorIs(t, w.Rename("x", testNow), ErrSealed)
}

func TestParseTags(t *testing.T) {
	assert.Nil(t, ParseTags("no tags here"))
	assert.Equal(t, []string{"work", "q3"}, ParseTags("Plan #Work for #q3 and more #work"))
	assert.Equal(t, []string{"deep-focus"}, ParseTags("#deep-focus session"))
}
