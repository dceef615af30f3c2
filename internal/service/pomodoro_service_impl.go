package service

import (
	"context"
	"time"

	"github.com/alexanderramin/tomo/internal/db"
	"github.com/alexanderramin/tomo/internal/domain"
	"github.com/alexanderramin/tomo/internal/event"
	"github.com/alexanderramin/tomo/internal/repository"
)

type pomodoroService struct {
	*core
}

func NewPomodoroService(q db.DBTX, uow db.UnitOfWork, pub Publisher, opts ...Option) PomodoroService {
	return &pomodoroService{core: newCore(q, uow, pub, opts)}
}

func (s *pomodoroService) Add(ctx context.Context, itemID string, n int) (added []*domain.Pomodoro, err error) {
	defer s.observe(ctx, "add-pomodoros", map[string]any{"work_item": itemID, "count": n})(&err)

	w, err := s.mutateItem(ctx, itemID, func(ctx context.Context, tx db.DBTX, w *domain.WorkItem) error {
		var err error
		added, err = w.AddPomodoros(n, s.workMinutes, s.restMinutes, s.clock())
		if err != nil {
			return err
		}
		return createPomodoros(ctx, tx, added)
	})
	if err != nil {
		return nil, err
	}
	for _, p := range added {
		s.publish(ctx, event.PomodoroAdded, w.BacklogID, w, p)
	}
	return added, nil
}

// Remove deletes the last startable pomodoro of the item.
func (s *pomodoroService) Remove(ctx context.Context, itemID string) (removed *domain.Pomodoro, err error) {
	defer s.observe(ctx, "remove-pomodoro", map[string]any{"work_item": itemID})(&err)

	w, err := s.mutateItem(ctx, itemID, func(ctx context.Context, tx db.DBTX, w *domain.WorkItem) error {
		var err error
		removed, err = w.RemovePomodoro(s.clock())
		if err != nil {
			return err
		}
		return repository.NewSQLitePomodoroRepo(tx).Delete(ctx, removed.ID)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, event.PomodoroRemoved, w.BacklogID, w, removed)
	return removed, nil
}

func (s *pomodoroService) Start(ctx context.Context, itemID string) (started *domain.Pomodoro, err error) {
	defer s.observe(ctx, "start-pomodoro", map[string]any{"work_item": itemID})(&err)

	w, err := s.mutateItem(ctx, itemID, func(ctx context.Context, tx db.DBTX, w *domain.WorkItem) error {
		var err error
		started, err = w.StartPomodoro(s.clock())
		if err != nil {
			return err
		}
		return repository.NewSQLitePomodoroRepo(tx).Update(ctx, started)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, event.PomodoroWorkStarted, w.BacklogID, w, started)
	return started, nil
}

func (s *pomodoroService) Finish(ctx context.Context, itemID string) (*domain.Pomodoro, error) {
	return s.stopRunning(ctx, itemID, "finish-pomodoro", event.PomodoroFinished, (*domain.Pomodoro).Finish)
}

func (s *pomodoroService) Void(ctx context.Context, itemID string) (*domain.Pomodoro, error) {
	return s.stopRunning(ctx, itemID, "void-pomodoro", event.PomodoroVoided, (*domain.Pomodoro).Void)
}

func (s *pomodoroService) stopRunning(ctx context.Context, itemID, useCase string, kind event.Kind, stop func(*domain.Pomodoro, time.Time) error) (p *domain.Pomodoro, err error) {
	defer s.observe(ctx, useCase, map[string]any{"work_item": itemID})(&err)

	w, err := s.mutateItem(ctx, itemID, func(ctx context.Context, tx db.DBTX, w *domain.WorkItem) error {
		p = w.RunningPomodoro()
		if p == nil {
			return domain.ErrNothingRunning
		}
		if err := stop(p, s.clock()); err != nil {
			return err
		}
		return repository.NewSQLitePomodoroRepo(tx).Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, kind, w.BacklogID, w, p)
	return p, nil
}

// Advance moves running pomodoros whose timers have elapsed. Transitions
// are stamped with the instant the timer expired rather than now, so a
// late tick does not stretch an interval.
func (s *pomodoroService) Advance(ctx context.Context, now time.Time) (int, error) {
	running, err := repository.NewSQLitePomodoroRepo(s.q).ListRunning(ctx)
	if err != nil {
		return 0, err
	}
	changed := 0
	for _, r := range running {
		if r.Due(now) == "" {
			continue
		}
		var (
			kinds []event.Kind
			p     *domain.Pomodoro
		)
		w, err := s.mutateItem(ctx, r.WorkItemID, func(ctx context.Context, tx db.DBTX, w *domain.WorkItem) error {
			p = w.RunningPomodoro()
			if p == nil || p.ID != r.ID {
				return nil
			}
			kinds = advanceTimer(p, now)
			if len(kinds) == 0 {
				return nil
			}
			return repository.NewSQLitePomodoroRepo(tx).Update(ctx, p)
		})
		if err != nil {
			s.observe(ctx, "advance-pomodoros", map[string]any{"pomodoro": r.ID})(&err)
			return changed, err
		}
		if len(kinds) == 0 {
			continue
		}
		changed++
		s.observe(ctx, "advance-pomodoros", map[string]any{"pomodoro": r.ID, "state": string(p.State)})(nil)
		for _, kind := range kinds {
			s.publish(ctx, kind, w.BacklogID, w, p)
		}
	}
	return changed, nil
}

func advanceTimer(p *domain.Pomodoro, now time.Time) []event.Kind {
	var kinds []event.Kind
	for {
		switch p.Due(now) {
		case domain.PomodoroRest:
			at := p.StartedAt.Add(time.Duration(p.WorkMinutes) * time.Minute)
			if err := p.StartRest(at); err != nil {
				return kinds
			}
			kinds = append(kinds, event.PomodoroRestStarted)
		case domain.PomodoroFinished:
			at := p.RestStartedAt.Add(time.Duration(p.RestMinutes) * time.Minute)
			if err := p.Finish(at); err != nil {
				return kinds
			}
			kinds = append(kinds, event.PomodoroFinished)
		default:
			return kinds
		}
	}
}
