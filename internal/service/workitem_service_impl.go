package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/tomo/internal/db"
	"github.com/alexanderramin/tomo/internal/domain"
	"github.com/alexanderramin/tomo/internal/event"
	"github.com/alexanderramin/tomo/internal/repository"
	"github.com/google/uuid"
)

type workItemService struct {
	*core
}

func NewWorkItemService(q db.DBTX, uow db.UnitOfWork, pub Publisher, opts ...Option) WorkItemService {
	return &workItemService{core: newCore(q, uow, pub, opts)}
}

// Create appends a work item to the end of the backlog with the given
// number of fresh pomodoros.
func (s *workItemService) Create(ctx context.Context, backlogID, title string, pomodoros int) (w *domain.WorkItem, err error) {
	defer s.observe(ctx, "create-work-item", map[string]any{"backlog": backlogID, "pomodoros": pomodoros})(&err)

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("work item title is required")
	}
	if pomodoros < 0 {
		return nil, fmt.Errorf("pomodoro count must not be negative, got %d", pomodoros)
	}
	now := s.clock()
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := repository.NewSQLiteBacklogRepo(tx).GetByID(ctx, backlogID); err != nil {
			return err
		}
		items := repository.NewSQLiteWorkItemRepo(tx)
		order, err := items.NextOrderIndex(ctx, backlogID)
		if err != nil {
			return err
		}
		w = &domain.WorkItem{
			ID:         uuid.New().String(),
			BacklogID:  backlogID,
			OrderIndex: order,
			Title:      title,
			State:      domain.WorkItemOpen,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := items.Create(ctx, w); err != nil {
			return err
		}
		if pomodoros == 0 {
			return nil
		}
		added, err := w.AddPomodoros(pomodoros, s.workMinutes, s.restMinutes, now)
		if err != nil {
			return err
		}
		return createPomodoros(ctx, tx, added)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, event.WorkItemCreated, backlogID, w, nil)
	return w, nil
}

func (s *workItemService) GetByID(ctx context.Context, id string) (*domain.WorkItem, error) {
	return loadWorkItem(ctx, s.q, id)
}

func (s *workItemService) Rename(ctx context.Context, id, title string) (w *domain.WorkItem, err error) {
	defer s.observe(ctx, "rename-work-item", map[string]any{"work_item": id})(&err)

	w, err = s.mutateItem(ctx, id, func(_ context.Context, _ db.DBTX, w *domain.WorkItem) error {
		return w.Rename(title, s.clock())
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, event.WorkItemRenamed, w.BacklogID, w, nil)
	return w, nil
}

// Start starts the next startable pomodoro of the item.
func (s *workItemService) Start(ctx context.Context, id string) (w *domain.WorkItem, err error) {
	defer s.observe(ctx, "start-work-item", map[string]any{"work_item": id})(&err)

	var started *domain.Pomodoro
	w, err = s.mutateItem(ctx, id, func(ctx context.Context, tx db.DBTX, w *domain.WorkItem) error {
		p, err := w.StartPomodoro(s.clock())
		if err != nil {
			return err
		}
		started = p
		return repository.NewSQLitePomodoroRepo(tx).Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, event.WorkItemStarted, w.BacklogID, w, started)
	return w, nil
}

func (s *workItemService) Complete(ctx context.Context, id string) (*domain.WorkItem, error) {
	return s.seal(ctx, id, domain.WorkItemFinished, event.WorkItemCompleted)
}

func (s *workItemService) Cancel(ctx context.Context, id string) (*domain.WorkItem, error) {
	return s.seal(ctx, id, domain.WorkItemCanceled, event.WorkItemCanceled)
}

func (s *workItemService) seal(ctx context.Context, id string, state domain.WorkItemState, kind event.Kind) (w *domain.WorkItem, err error) {
	defer s.observe(ctx, "seal-work-item", map[string]any{"work_item": id, "state": string(state)})(&err)

	var voided *domain.Pomodoro
	w, err = s.mutateItem(ctx, id, func(ctx context.Context, tx db.DBTX, w *domain.WorkItem) error {
		p, err := w.Seal(state, s.clock())
		if err != nil {
			return err
		}
		if p == nil {
			return nil
		}
		voided = p
		return repository.NewSQLitePomodoroRepo(tx).Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, kind, w.BacklogID, w, voided)
	return w, nil
}

func (s *workItemService) Reopen(ctx context.Context, id string) (w *domain.WorkItem, err error) {
	defer s.observe(ctx, "reopen-work-item", map[string]any{"work_item": id})(&err)

	w, err = s.mutateItem(ctx, id, func(_ context.Context, _ db.DBTX, w *domain.WorkItem) error {
		return w.Reopen(s.clock())
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, event.WorkItemReopened, w.BacklogID, w, nil)
	return w, nil
}

func (s *workItemService) Delete(ctx context.Context, id string) (err error) {
	defer s.observe(ctx, "delete-work-item", map[string]any{"work_item": id})(&err)

	var deleted *domain.WorkItem
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		w, err := loadWorkItem(ctx, tx, id)
		if err != nil {
			return err
		}
		deleted = w
		return repository.NewSQLiteWorkItemRepo(tx).Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.publish(ctx, event.WorkItemDeleted, deleted.BacklogID, deleted, nil)
	return nil
}

func createPomodoros(ctx context.Context, tx db.DBTX, pomodoros []*domain.Pomodoro) error {
	repo := repository.NewSQLitePomodoroRepo(tx)
	for _, p := range pomodoros {
		p.ID = uuid.New().String()
		if err := repo.Create(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
