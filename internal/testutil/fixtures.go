package testutil

import (
	"time"

	"github.com/alexanderramin/tomo/internal/domain"
	"github.com/google/uuid"
)

// FixedNow is the reference instant used by fixtures and time-dependent tests.
var FixedNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func NewTestBacklog(name string) *domain.Backlog {
	return &domain.Backlog{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: FixedNow,
		UpdatedAt: FixedNow,
	}
}

// Work item options
type WorkItemOption func(*domain.WorkItem)

func WithOrderIndex(i int) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.OrderIndex = i
	}
}

func WithWorkItemState(s domain.WorkItemState) WorkItemOption {
	return func(w *domain.WorkItem) {
		w.State = s
		if s.Sealed() {
			at := FixedNow
			w.SealedAt = &at
		} else {
			w.SealedAt = nil
		}
	}
}

// WithPomodoros attaches fresh pomodoros in the given states.
func WithPomodoros(states ...domain.PomodoroState) WorkItemOption {
	return func(w *domain.WorkItem) {
		for _, s := range states {
			w.Pomodoros = append(w.Pomodoros,
				NewTestPomodoro(w.ID, WithPomodoroState(s), WithPomodoroOrder(len(w.Pomodoros))))
		}
	}
}

func NewTestWorkItem(backlogID, title string, opts ...WorkItemOption) *domain.WorkItem {
	w := &domain.WorkItem{
		ID:        uuid.New().String(),
		BacklogID: backlogID,
		Title:     title,
		State:     domain.WorkItemOpen,
		CreatedAt: FixedNow,
		UpdatedAt: FixedNow,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Pomodoro options
type PomodoroOption func(*domain.Pomodoro)

func WithPomodoroOrder(i int) PomodoroOption {
	return func(p *domain.Pomodoro) {
		p.OrderIndex = i
	}
}

// WithPomodoroState fills in the timestamps the state implies.
func WithPomodoroState(s domain.PomodoroState) PomodoroOption {
	return func(p *domain.Pomodoro) {
		p.State = s
		at := FixedNow
		switch s {
		case domain.PomodoroWork:
			p.StartedAt = &at
		case domain.PomodoroRest:
			started := at.Add(-time.Duration(p.WorkMinutes) * time.Minute)
			p.StartedAt = &started
			p.RestStartedAt = &at
		case domain.PomodoroFinished, domain.PomodoroCanceled:
			p.FinishedAt = &at
		}
	}
}

func WithDurations(work, rest int) PomodoroOption {
	return func(p *domain.Pomodoro) {
		p.WorkMinutes = work
		p.RestMinutes = rest
	}
}

func NewTestPomodoro(workItemID string, opts ...PomodoroOption) *domain.Pomodoro {
	p := &domain.Pomodoro{
		ID:          uuid.New().String(),
		WorkItemID:  workItemID,
		State:       domain.PomodoroNew,
		WorkMinutes: domain.DefaultWorkMinutes,
		RestMinutes: domain.DefaultRestMinutes,
		CreatedAt:   FixedNow,
		UpdatedAt:   FixedNow,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}
