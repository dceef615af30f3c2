package service

import (
	"context"
	"time"

	"github.com/alexanderramin/tomo/internal/domain"
)

type BacklogService interface {
	Create(ctx context.Context, name string) (*domain.Backlog, error)
	GetByID(ctx context.Context, id string) (*domain.Backlog, error)
	List(ctx context.Context) ([]*domain.Backlog, error)
	Rename(ctx context.Context, id, name string) (*domain.Backlog, error)
	Delete(ctx context.Context, id string) error
	// Load returns the backlog with its work items and their pomodoros.
	Load(ctx context.Context, id string) (*domain.Backlog, error)
}

type WorkItemService interface {
	Create(ctx context.Context, backlogID, title string, pomodoros int) (*domain.WorkItem, error)
	GetByID(ctx context.Context, id string) (*domain.WorkItem, error)
	Rename(ctx context.Context, id, title string) (*domain.WorkItem, error)
	Start(ctx context.Context, id string) (*domain.WorkItem, error)
	Complete(ctx context.Context, id string) (*domain.WorkItem, error)
	Cancel(ctx context.Context, id string) (*domain.WorkItem, error)
	Reopen(ctx context.Context, id string) (*domain.WorkItem, error)
	Delete(ctx context.Context, id string) error
}

// PomodoroService methods address pomodoros through their work item.
type PomodoroService interface {
	Add(ctx context.Context, itemID string, n int) ([]*domain.Pomodoro, error)
	Remove(ctx context.Context, itemID string) (*domain.Pomodoro, error)
	Start(ctx context.Context, itemID string) (*domain.Pomodoro, error)
	Finish(ctx context.Context, itemID string) (*domain.Pomodoro, error)
	Void(ctx context.Context, itemID string) (*domain.Pomodoro, error)
	// Advance applies every timer transition due at now and returns how
	// many pomodoros changed state.
	Advance(ctx context.Context, now time.Time) (int, error)
}

type TagService interface {
	List(ctx context.Context) ([]domain.TagCount, error)
	Load(ctx context.Context, name string) (*domain.Tag, error)
}
