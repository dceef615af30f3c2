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

type backlogService struct {
	*core
}

func NewBacklogService(q db.DBTX, uow db.UnitOfWork, pub Publisher, opts ...Option) BacklogService {
	return &backlogService{core: newCore(q, uow, pub, opts)}
}

func (s *backlogService) Create(ctx context.Context, name string) (b *domain.Backlog, err error) {
	defer s.observe(ctx, "create-backlog", map[string]any{"name": name})(&err)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("backlog name is required")
	}
	now := s.clock()
	b = &domain.Backlog{ID: uuid.New().String(), Name: name, CreatedAt: now, UpdatedAt: now}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return repository.NewSQLiteBacklogRepo(tx).Create(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	s.emit(event.Event{Kind: event.BacklogCreated, At: now, Backlog: b})
	return b, nil
}

func (s *backlogService) GetByID(ctx context.Context, id string) (*domain.Backlog, error) {
	return repository.NewSQLiteBacklogRepo(s.q).GetByID(ctx, id)
}

func (s *backlogService) List(ctx context.Context) ([]*domain.Backlog, error) {
	return repository.NewSQLiteBacklogRepo(s.q).List(ctx)
}

func (s *backlogService) Rename(ctx context.Context, id, name string) (b *domain.Backlog, err error) {
	defer s.observe(ctx, "rename-backlog", map[string]any{"backlog": id})(&err)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("backlog name is required")
	}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repo := repository.NewSQLiteBacklogRepo(tx)
		found, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		found.Name = name
		found.UpdatedAt = s.clock()
		return repo.Update(ctx, found)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, event.BacklogRenamed, id, nil, nil)
	return s.Load(ctx, id)
}

// Delete removes the backlog and, by cascade, its work items and pomodoros.
func (s *backlogService) Delete(ctx context.Context, id string) (err error) {
	defer s.observe(ctx, "delete-backlog", map[string]any{"backlog": id})(&err)

	var deleted *domain.Backlog
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		b, err := loadBacklog(ctx, tx, id)
		if err != nil {
			return err
		}
		deleted = b
		return repository.NewSQLiteBacklogRepo(tx).Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.emit(event.Event{Kind: event.BacklogDeleted, At: s.clock(), Backlog: deleted})
	return nil
}

func (s *backlogService) Load(ctx context.Context, id string) (*domain.Backlog, error) {
	return loadBacklog(ctx, s.q, id)
}
