package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/tomo/internal/domain"
	"github.com/alexanderramin/tomo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedBacklog(t *testing.T, database *sql.DB, name string) *domain.Backlog {
	t.Helper()
	b := testutil.NewTestBacklog(name)
	require.NoError(t, NewSQLiteBacklogRepo(database).Create(context.Background(), b))
	return b
}

func TestWorkItemRepo_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	b := seedBacklog(t, database, "b")
	repo := NewSQLiteWorkItemRepo(database)

	w := testutil.NewTestWorkItem(b.ID, "write docs #Writing", testutil.WithOrderIndex(3))
	require.NoError(t, repo.Create(ctx, w))

	got, err := repo.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.BacklogID)
	assert.Equal(t, 3, got.OrderIndex)
	assert.Equal(t, domain.WorkItemOpen, got.State)
	assert.Nil(t, got.SealedAt)
	assert.Empty(t, got.Pomodoros)
}

func TestWorkItemRepo_GetMissing(t *testing.T) {
	repo := NewSQLiteWorkItemRepo(testutil.NewTestDB(t))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWorkItemRepo_RequiresBacklog(t *testing.T) {
	repo := NewSQLiteWorkItemRepo(testutil.NewTestDB(t))

	err := repo.Create(context.Background(), testutil.NewTestWorkItem("no-such-backlog", "orphan"))
	assert.Error(t, err)
}

func TestWorkItemRepo_ListByBacklogOrdered(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	a := seedBacklog(t, database, "a")
	other := seedBacklog(t, database, "other")
	repo := NewSQLiteWorkItemRepo(database)

	require.NoError(t, repo.Create(ctx, testutil.NewTestWorkItem(a.ID, "second", testutil.WithOrderIndex(1))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestWorkItem(a.ID, "first", testutil.WithOrderIndex(0))))
	require.NoError(t, repo.Create(ctx, testutil.NewTestWorkItem(other.ID, "elsewhere")))

	items, err := repo.ListByBacklog(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "first", items[0].Title)
	assert.Equal(t, "second", items[1].Title)
}

func TestWorkItemRepo_NextOrderIndex(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	b := seedBacklog(t, database, "b")
	repo := NewSQLiteWorkItemRepo(database)

	next, err := repo.NextOrderIndex(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, next)

	require.NoError(t, repo.Create(ctx, testutil.NewTestWorkItem(b.ID, "x", testutil.WithOrderIndex(4))))
	next, err = repo.NextOrderIndex(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, next)
}

func TestWorkItemRepo_TagsFollowTitle(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	a := seedBacklog(t, database, "a")
	c := seedBacklog(t, database, "c")
	repo := NewSQLiteWorkItemRepo(database)

	w1 := testutil.NewTestWorkItem(a.ID, "fix login #bug #urgent")
	w2 := testutil.NewTestWorkItem(c.ID, "crash on save #BUG")
	require.NoError(t, repo.Create(ctx, w1))
	require.NoError(t, repo.Create(ctx, w2))

	tagged, err := repo.ListByTag(ctx, "bug")
	require.NoError(t, err)
	assert.Len(t, tagged, 2)

	tags, err := repo.ListTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.TagCount{{Name: "bug", Count: 2}, {Name: "urgent", Count: 1}}, tags)

	w1.Title = "fix login #urgent"
	require.NoError(t, repo.Update(ctx, w1))

	tagged, err = repo.ListByTag(ctx, "bug")
	require.NoError(t, err)
	require.Len(t, tagged, 1)
	assert.Equal(t, w2.ID, tagged[0].ID)
}

func TestWorkItemRepo_UpdateSealState(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	b := seedBacklog(t, database, "b")
	repo := NewSQLiteWorkItemRepo(database)

	w := testutil.NewTestWorkItem(b.ID, "ship it")
	require.NoError(t, repo.Create(ctx, w))

	testutil.WithWorkItemState(domain.WorkItemFinished)(w)
	require.NoError(t, repo.Update(ctx, w))

	got, err := repo.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.WorkItemFinished, got.State)
	require.NotNil(t, got.SealedAt)
	assert.True(t, testutil.FixedNow.Equal(*got.SealedAt))
}

func TestWorkItemRepo_DeleteDropsTags(t *testing.T) {
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	b := seedBacklog(t, database, "b")
	repo := NewSQLiteWorkItemRepo(database)

	w := testutil.NewTestWorkItem(b.ID, "tagged #gone")
	require.NoError(t, repo.Create(ctx, w))
	require.NoError(t, repo.Delete(ctx, w.ID))

	tags, err := repo.ListTags(ctx)
	require.NoError(t, err)
	assert.Empty(t, tags)
	assert.ErrorIs(t, repo.Delete(ctx, w.ID), ErrNotFound)
}
