package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/tomo/internal/domain"
	"github.com/alexanderramin/tomo/internal/event"
	"github.com/alexanderramin/tomo/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBacklog(t *testing.T, h *harness) *domain.Backlog {
	t.Helper()
	b, err := h.backlogs.Create(context.Background(), "backlog")
	require.NoError(t, err)
	h.pub.reset()
	return b
}

func TestWorkItemService_CreateAppendsWithPomodoros(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, WithDurations(50, 10))
	b := newBacklog(t, h)

	first, err := h.workItems.Create(ctx, b.ID, "first", 3)
	require.NoError(t, err)
	second, err := h.workItems.Create(ctx, b.ID, "second", 0)
	require.NoError(t, err)

	assert.Equal(t, 0, first.OrderIndex)
	assert.Equal(t, 1, second.OrderIndex)
	require.Len(t, first.Pomodoros, 3)
	for _, p := range first.Pomodoros {
		assert.NotEmpty(t, p.ID)
		assert.Equal(t, 50, p.WorkMinutes)
		assert.Equal(t, 10, p.RestMinutes)
	}

	e := h.pub.events[0]
	assert.Equal(t, event.WorkItemCreated, e.Kind)
	assert.Equal(t, b.ID, e.Backlog.ID)
	require.Len(t, e.Backlog.WorkItems, 1)
	assert.Len(t, e.Backlog.WorkItems[0].Pomodoros, 3)
}

func TestWorkItemService_CreateValidates(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	b := newBacklog(t, h)

	_, err := h.workItems.Create(ctx, b.ID, "", 1)
	assert.Error(t, err)
	_, err = h.workItems.Create(ctx, b.ID, "x", -1)
	assert.Error(t, err)
	_, err = h.workItems.Create(ctx, "missing", "x", 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Empty(t, h.pub.events)
}

func TestWorkItemService_StartThenComplete(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	b := newBacklog(t, h)
	w, err := h.workItems.Create(ctx, b.ID, "task", 2)
	require.NoError(t, err)

	started, err := h.workItems.Start(ctx, w.ID)
	require.NoError(t, err)
	assert.True(t, started.IsRunning())
	assert.Equal(t, event.WorkItemStarted, h.pub.last().Kind)

	_, err = h.workItems.Start(ctx, w.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyRunning)

	done, err := h.workItems.Complete(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkItemFinished, done.State)
	assert.False(t, done.IsRunning())
	e := h.pub.last()
	assert.Equal(t, event.WorkItemCompleted, e.Kind)
	require.NotNil(t, e.Pomodoro, "the running pomodoro is voided")
	assert.Equal(t, domain.PomodoroCanceled, e.Pomodoro.State)

	reloaded, err := h.workItems.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PomodoroCanceled, reloaded.Pomodoros[0].State)
	assert.Equal(t, domain.PomodoroNew, reloaded.Pomodoros[1].State)
	require.NotNil(t, reloaded.SealedAt)
}

func TestWorkItemService_SealTransitions(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	b := newBacklog(t, h)
	w, err := h.workItems.Create(ctx, b.ID, "task", 1)
	require.NoError(t, err)

	_, err = h.workItems.Cancel(ctx, w.ID)
	require.NoError(t, err)
	_, err = h.workItems.Cancel(ctx, w.ID)
	assert.NoError(t, err, "sealing twice into the same state is a no-op")
	_, err = h.workItems.Complete(ctx, w.ID)
	assert.ErrorIs(t, err, domain.ErrSealed)
	_, err = h.workItems.Rename(ctx, w.ID, "new title")
	assert.ErrorIs(t, err, domain.ErrSealed)

	reopened, err := h.workItems.Reopen(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkItemOpen, reopened.State)
	assert.Nil(t, reopened.SealedAt)
	assert.Equal(t, event.WorkItemReopened, h.pub.last().Kind)
}

func TestWorkItemService_RenameRetags(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	b := newBacklog(t, h)
	w, err := h.workItems.Create(ctx, b.ID, "write #docs", 0)
	require.NoError(t, err)

	_, err = h.workItems.Rename(ctx, w.ID, "write #blog")
	require.NoError(t, err)
	assert.Equal(t, event.WorkItemRenamed, h.pub.last().Kind)

	tags, err := h.tags.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.TagCount{{Name: "blog", Count: 1}}, tags)
}

func TestWorkItemService_Delete(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	b := newBacklog(t, h)
	w, err := h.workItems.Create(ctx, b.ID, "task", 1)
	require.NoError(t, err)

	require.NoError(t, h.workItems.Delete(ctx, w.ID))
	e := h.pub.last()
	assert.Equal(t, event.WorkItemDeleted, e.Kind)
	assert.Equal(t, w.ID, e.WorkItem.ID)
	assert.Empty(t, e.Backlog.WorkItems)

	assert.ErrorIs(t, h.workItems.Delete(ctx, w.ID), repository.ErrNotFound)
}
