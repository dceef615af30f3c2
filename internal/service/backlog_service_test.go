package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/tomo/internal/event"
	"github.com/alexanderramin/tomo/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBacklogService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	b, err := h.backlogs.Create(ctx, "  Sprint  ")
	require.NoError(t, err)
	assert.Equal(t, "Sprint", b.Name)
	assert.Equal(t, event.BacklogCreated, h.pub.last().Kind)

	renamed, err := h.backlogs.Rename(ctx, b.ID, "Sprint 2")
	require.NoError(t, err)
	assert.Equal(t, "Sprint 2", renamed.Name)
	assert.Equal(t, event.BacklogRenamed, h.pub.last().Kind)
	assert.Equal(t, "Sprint 2", h.pub.last().Backlog.Name)

	list, err := h.backlogs.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, h.backlogs.Delete(ctx, b.ID))
	assert.Equal(t, event.BacklogDeleted, h.pub.last().Kind)
	_, err = h.backlogs.GetByID(ctx, b.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestBacklogService_RejectsBlankName(t *testing.T) {
	h := newHarness(t)

	_, err := h.backlogs.Create(context.Background(), "   ")
	assert.Error(t, err)
	assert.Empty(t, h.pub.events)
}

func TestBacklogService_LoadAssemblesTree(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	b, err := h.backlogs.Create(ctx, "b")
	require.NoError(t, err)
	_, err = h.workItems.Create(ctx, b.ID, "first", 2)
	require.NoError(t, err)
	_, err = h.workItems.Create(ctx, b.ID, "second", 0)
	require.NoError(t, err)

	loaded, err := h.backlogs.Load(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, loaded.WorkItems, 2)
	assert.Equal(t, "first", loaded.WorkItems[0].Title)
	assert.Len(t, loaded.WorkItems[0].Pomodoros, 2)
	assert.Empty(t, loaded.WorkItems[1].Pomodoros)
}

func TestBacklogService_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	b, err := h.backlogs.Create(ctx, "b")
	require.NoError(t, err)
	w, err := h.workItems.Create(ctx, b.ID, "doomed #x", 1)
	require.NoError(t, err)

	require.NoError(t, h.backlogs.Delete(ctx, b.ID))
	assert.Len(t, h.pub.last().Backlog.WorkItems, 1, "event carries the deleted tree")

	_, err = h.workItems.GetByID(ctx, w.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	tags, err := h.tags.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestBacklogService_ReportsUseCases(t *testing.T) {
	ctx := context.Background()
	obs := &recordingObserver{}
	h := newHarness(t, WithObserver(obs))

	_, err := h.backlogs.Create(ctx, "ok")
	require.NoError(t, err)
	_, err = h.backlogs.Rename(ctx, "missing", "x")
	require.Error(t, err)

	require.Len(t, obs.events, 2)
	assert.Equal(t, "create-backlog", obs.events[0].Name)
	assert.True(t, obs.events[0].Success)
	assert.Equal(t, "rename-backlog", obs.events[1].Name)
	assert.False(t, obs.events[1].Success)
	assert.ErrorIs(t, obs.events[1].Err, repository.ErrNotFound)
}
