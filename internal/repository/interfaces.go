package repository

import (
	"context"
	"errors"

	"github.com/alexanderramin/tomo/internal/domain"
)

var ErrNotFound = errors.New("not found")

type BacklogRepo interface {
	Create(ctx context.Context, b *domain.Backlog) error
	GetByID(ctx context.Context, id string) (*domain.Backlog, error)
	List(ctx context.Context) ([]*domain.Backlog, error)
	Update(ctx context.Context, b *domain.Backlog) error
	Delete(ctx context.Context, id string) error
}

// WorkItemRepo loads work items without their pomodoros; see PomodoroRepo.
type WorkItemRepo interface {
	Create(ctx context.Context, w *domain.WorkItem) error
	GetByID(ctx context.Context, id string) (*domain.WorkItem, error)
	ListByBacklog(ctx context.Context, backlogID string) ([]*domain.WorkItem, error)
	ListByTag(ctx context.Context, tag string) ([]*domain.WorkItem, error)
	ListTags(ctx context.Context) ([]domain.TagCount, error)
	NextOrderIndex(ctx context.Context, backlogID string) (int, error)
	Update(ctx context.Context, w *domain.WorkItem) error
	Delete(ctx context.Context, id string) error
}

type PomodoroRepo interface {
	Create(ctx context.Context, p *domain.Pomodoro) error
	ListByWorkItem(ctx context.Context, workItemID string) ([]*domain.Pomodoro, error)
	ListByWorkItems(ctx context.Context, workItemIDs []string) (map[string][]*domain.Pomodoro, error)
	ListRunning(ctx context.Context) ([]*domain.Pomodoro, error)
	Update(ctx context.Context, p *domain.Pomodoro) error
	Delete(ctx context.Context, id string) error
}
