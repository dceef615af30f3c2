package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/alexanderramin/tomo/internal/config"
	"github.com/alexanderramin/tomo/internal/event"
	"github.com/alexanderramin/tomo/internal/logging"
	"github.com/alexanderramin/tomo/internal/progress"
	"github.com/alexanderramin/tomo/internal/service"
)

var errNoSource = errors.New("no active source")

// App carries the process-wide state shared by CLI commands. The active
// LocalSource lives in Holder so that the progress display and the watch
// view follow it when it is replaced.
type App struct {
	Holder *event.Holder
	Config *config.Config
	Home   string
	Logger *slog.Logger

	// LogOutput receives the process log once config is loaded.
	LogOutput io.Writer

	// IsInteractive reports whether prompts may be shown.
	IsInteractive func() bool
	// Confirm and PromptText default to huh forms.
	Confirm    func(title string) (bool, error)
	PromptText func(title string) (string, error)

	mu    sync.Mutex
	owned []*service.LocalSource
}

func NewApp() *App {
	return &App{
		Holder: event.NewHolder(),
		Logger: slog.New(slog.DiscardHandler),
	}
}

// Init loads config from home and opens its database as the active
// source. It does nothing when a source is already active.
func (a *App) Init(home string) error {
	if a.Holder.Current() != nil {
		return nil
	}
	cfg, err := config.Load(home)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	a.Home = home
	a.Config = cfg
	a.Logger = logging.New(a.LogOutput, cfg.Log)

	src, err := a.openSource(cfg.DB.Path)
	if err != nil {
		return err
	}
	a.Holder.Replace(src)
	return nil
}

func (a *App) sourceOptions() []service.Option {
	opts := []service.Option{
		service.WithLogger(a.Logger),
		service.WithObserver(service.NewLogUseCaseObserver(a.Logger)),
	}
	if a.Config != nil {
		opts = append(opts, service.WithDurations(a.Config.Pomodoro.WorkMinutes, a.Config.Pomodoro.RestMinutes))
	}
	return opts
}

func (a *App) openSource(path string) (*service.LocalSource, error) {
	src, err := service.OpenLocalSource(path, a.sourceOptions()...)
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	a.owned = append(a.owned, src)
	a.mu.Unlock()
	a.Logger.Debug("source opened", "path", path)
	return src, nil
}

// SwapSource opens path and makes it the active source. The previous
// source is closed after subscribers have moved over.
func (a *App) SwapSource(path string) (*service.LocalSource, error) {
	old, _ := a.Holder.Current().(*service.LocalSource)
	if old != nil && old.Name() == path {
		return old, nil
	}
	src, err := a.openSource(path)
	if err != nil {
		return nil, err
	}
	a.Holder.Replace(src)
	if old != nil {
		a.release(old)
	}
	a.Logger.Info("source replaced", "path", path)
	return src, nil
}

// Source returns the active LocalSource.
func (a *App) Source() (*service.LocalSource, error) {
	src, ok := a.Holder.Current().(*service.LocalSource)
	if !ok || src == nil {
		return nil, errNoSource
	}
	return src, nil
}

// ProgressOptions returns the counting options from config.
func (a *App) ProgressOptions() progress.Options {
	opts := progress.DefaultOptions()
	if a.Config != nil {
		opts.CountSealedStartable = a.Config.Progress.CountSealedStartable
	}
	return opts
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) release(src *service.LocalSource) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, s := range a.owned {
		if s == src {
			a.owned = append(a.owned[:i], a.owned[i+1:]...)
			break
		}
	}
	if err := src.Close(); err != nil {
		a.Logger.Warn("closing source", "name", src.Name(), "error", err)
	}
}

// Close closes every source the App opened.
func (a *App) Close() error {
	a.mu.Lock()
	owned := a.owned
	a.owned = nil
	a.mu.Unlock()

	var errs []error
	for _, src := range owned {
		if err := src.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", src.Name(), err))
		}
	}
	return errors.Join(errs...)
}
