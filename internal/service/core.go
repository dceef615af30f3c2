package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/tomo/internal/db"
	"github.com/alexanderramin/tomo/internal/domain"
	"github.com/alexanderramin/tomo/internal/event"
	"github.com/alexanderramin/tomo/internal/repository"
)

// Publisher receives lifecycle events after their transaction commits.
type Publisher interface {
	Publish(e event.Event)
}

// core is shared by the service implementations of one database. Reads go
// through q; writes go through uow.
type core struct {
	q   db.DBTX
	uow db.UnitOfWork
	pub Publisher
	settings
}

func newCore(q db.DBTX, uow db.UnitOfWork, pub Publisher, opts []Option) *core {
	return &core{q: q, uow: uow, pub: pub, settings: newSettings(opts)}
}

// observe starts timing a use case; call the result with the final error.
func (c *core) observe(ctx context.Context, name string, fields map[string]any) func(*error) {
	startedAt := time.Now()
	return func(errp *error) {
		var err error
		if errp != nil {
			err = *errp
		}
		c.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      name,
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}
}

// publish reloads the parent backlog so subscribers see committed state.
// The event is still delivered when the backlog is gone.
func (c *core) publish(ctx context.Context, kind event.Kind, backlogID string, w *domain.WorkItem, p *domain.Pomodoro) {
	e := event.Event{Kind: kind, At: c.clock(), WorkItem: w, Pomodoro: p}
	if backlogID != "" {
		if b, err := loadBacklog(ctx, c.q, backlogID); err == nil {
			e.Backlog = b
		}
	}
	c.emit(e)
}

func (c *core) emit(e event.Event) {
	if c.pub != nil {
		c.pub.Publish(e)
	}
}

// loadBacklog assembles a backlog with its work items and pomodoros.
func loadBacklog(ctx context.Context, q db.DBTX, id string) (*domain.Backlog, error) {
	b, err := repository.NewSQLiteBacklogRepo(q).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	items, err := repository.NewSQLiteWorkItemRepo(q).ListByBacklog(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := attachPomodoros(ctx, q, items); err != nil {
		return nil, err
	}
	b.WorkItems = items
	return b, nil
}

func loadWorkItem(ctx context.Context, q db.DBTX, id string) (*domain.WorkItem, error) {
	w, err := repository.NewSQLiteWorkItemRepo(q).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	w.Pomodoros, err = repository.NewSQLitePomodoroRepo(q).ListByWorkItem(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading pomodoros: %w", err)
	}
	return w, nil
}

func attachPomodoros(ctx context.Context, q db.DBTX, items []*domain.WorkItem) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]string, len(items))
	for i, w := range items {
		ids[i] = w.ID
	}
	byItem, err := repository.NewSQLitePomodoroRepo(q).ListByWorkItems(ctx, ids)
	if err != nil {
		return fmt.Errorf("loading pomodoros: %w", err)
	}
	for _, w := range items {
		w.Pomodoros = byItem[w.ID]
	}
	return nil
}

// mutateItem loads a work item inside a transaction, applies fn, and writes
// the item back. fn persists any pomodoro changes itself.
func (c *core) mutateItem(ctx context.Context, id string, fn func(ctx context.Context, tx db.DBTX, w *domain.WorkItem) error) (*domain.WorkItem, error) {
	var out *domain.WorkItem
	err := c.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		w, err := loadWorkItem(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(ctx, tx, w); err != nil {
			return err
		}
		if err := repository.NewSQLiteWorkItemRepo(tx).Update(ctx, w); err != nil {
			return err
		}
		out = w
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
