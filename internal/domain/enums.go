package domain

import "errors"

type PomodoroState string

const (
	PomodoroNew      PomodoroState = "new"
	PomodoroWork     PomodoroState = "work"
	PomodoroRest     PomodoroState = "rest"
	PomodoroFinished PomodoroState = "finished"
	PomodoroCanceled PomodoroState = "canceled"
)

type WorkItemState string

const (
	WorkItemOpen     WorkItemState = "open"
	WorkItemFinished WorkItemState = "finished"
	WorkItemCanceled WorkItemState = "canceled"
)

// Sealed reports whether s is one of the terminal work item states.
func (s WorkItemState) Sealed() bool {
	return s == WorkItemFinished || s == WorkItemCanceled
}

const (
	DefaultWorkMinutes = 25
	DefaultRestMinutes = 5
)

var (
	ErrSealed              = errors.New("work item is sealed")
	ErrInvalidTransition   = errors.New("invalid pomodoro transition")
	ErrNoStartablePomodoro = errors.New("no startable pomodoro")
	ErrAlreadyRunning      = errors.New("a pomodoro is already running")
	ErrNothingRunning      = errors.New("no running pomodoro")
)
