package service

import (
	"log/slog"
	"time"

	"github.com/alexanderramin/tomo/internal/domain"
)

type settings struct {
	observer    UseCaseObserver
	logger      *slog.Logger
	clock       func() time.Time
	workMinutes int
	restMinutes int
}

type Option func(*settings)

func WithObserver(o UseCaseObserver) Option {
	return func(s *settings) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithLogger sets the logger handed to the event bus of a LocalSource.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.clock = now
		}
	}
}

// WithDurations sets the interval lengths given to newly added pomodoros.
// Non-positive values keep the defaults.
func WithDurations(workMinutes, restMinutes int) Option {
	return func(s *settings) {
		if workMinutes > 0 {
			s.workMinutes = workMinutes
		}
		if restMinutes > 0 {
			s.restMinutes = restMinutes
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{
		observer:    NoopUseCaseObserver{},
		clock:       func() time.Time { return time.Now().UTC() },
		workMinutes: domain.DefaultWorkMinutes,
		restMinutes: domain.DefaultRestMinutes,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
