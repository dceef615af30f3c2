package domain

import (
	"fmt"
	"time"
)

type Pomodoro struct {
	ID          string
	WorkItemID  string
	OrderIndex  int
	State       PomodoroState
	WorkMinutes int
	RestMinutes int

	StartedAt     *time.Time
	RestStartedAt *time.Time
	FinishedAt    *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *Pomodoro) IsStartable() bool { return p.State == PomodoroNew }
func (p *Pomodoro) IsRunning() bool   { return p.State == PomodoroWork || p.State == PomodoroRest }
func (p *Pomodoro) IsFinished() bool  { return p.State == PomodoroFinished }
func (p *Pomodoro) IsCanceled() bool  { return p.State == PomodoroCanceled }

// Start begins the work interval.
func (p *Pomodoro) Start(now time.Time) error {
	if p.State != PomodoroNew {
		return p.transitionErr(PomodoroWork)
	}
	p.State = PomodoroWork
	p.StartedAt = &now
	p.UpdatedAt = now
	return nil
}

// StartRest ends the work interval and begins the rest interval.
func (p *Pomodoro) StartRest(now time.Time) error {
	if p.State != PomodoroWork {
		return p.transitionErr(PomodoroRest)
	}
	p.State = PomodoroRest
	p.RestStartedAt = &now
	p.UpdatedAt = now
	return nil
}

func (p *Pomodoro) Finish(now time.Time) error {
	if !p.IsRunning() {
		return p.transitionErr(PomodoroFinished)
	}
	p.State = PomodoroFinished
	p.FinishedAt = &now
	p.UpdatedAt = now
	return nil
}

// Void cancels a running pomodoro. Canceled pomodoros still count as done
// in progress reports.
func (p *Pomodoro) Void(now time.Time) error {
	if !p.IsRunning() {
		return p.transitionErr(PomodoroCanceled)
	}
	p.State = PomodoroCanceled
	p.FinishedAt = &now
	p.UpdatedAt = now
	return nil
}

// Due reports which transition an elapsed timer calls for at now:
// PomodoroRest when the work interval is over, PomodoroFinished when the
// rest interval is over, or "" when nothing is due.
func (p *Pomodoro) Due(now time.Time) PomodoroState {
	switch p.State {
	case PomodoroWork:
		if p.StartedAt != nil && !now.Before(p.StartedAt.Add(minutes(p.WorkMinutes))) {
			return PomodoroRest
		}
	case PomodoroRest:
		if p.RestStartedAt != nil && !now.Before(p.RestStartedAt.Add(minutes(p.RestMinutes))) {
			return PomodoroFinished
		}
	}
	return ""
}

func (p *Pomodoro) transitionErr(to PomodoroState) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, p.State, to)
}

func minutes(n int) time.Duration { return time.Duration(n) * time.Minute }
