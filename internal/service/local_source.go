package service

import (
	"database/sql"
	"fmt"

	"github.com/alexanderramin/tomo/internal/db"
	"github.com/alexanderramin/tomo/internal/event"
)

// LocalSource is the event source of one SQLite database. Its services
// publish on the source's bus after each committed mutation.
type LocalSource struct {
	name     string
	database *sql.DB
	owned    bool
	bus      *event.Bus

	Backlogs  BacklogService
	WorkItems WorkItemService
	Pomodoros PomodoroService
	Tags      TagService
}

var _ event.Source = (*LocalSource)(nil)

// NewLocalSource wraps an open database. The caller keeps ownership of
// database and Close leaves it open.
func NewLocalSource(name string, database *sql.DB, opts ...Option) *LocalSource {
	return newLocalSource(name, database, false, opts)
}

// OpenLocalSource opens and migrates the database at path and owns it.
func OpenLocalSource(path string, opts ...Option) (*LocalSource, error) {
	database, err := db.OpenDB(path)
	if err != nil {
		return nil, fmt.Errorf("opening source %s: %w", path, err)
	}
	return newLocalSource(path, database, true, opts), nil
}

func newLocalSource(name string, database *sql.DB, owned bool, opts []Option) *LocalSource {
	st := newSettings(opts)
	var busOpts []event.BusOption
	if st.logger != nil {
		busOpts = append(busOpts, event.WithLogger(st.logger.With("source", name)))
	}
	bus := event.NewBus(busOpts...)
	uow := db.NewSQLiteUnitOfWork(database, db.WithTxLogger(st.logger))
	return &LocalSource{
		name:      name,
		database:  database,
		owned:     owned,
		bus:       bus,
		Backlogs:  NewBacklogService(database, uow, bus, opts...),
		WorkItems: NewWorkItemService(database, uow, bus, opts...),
		Pomodoros: NewPomodoroService(database, uow, bus, opts...),
		Tags:      NewTagService(database),
	}
}

func (s *LocalSource) Name() string { return s.name }

func (s *LocalSource) Subscribe(f event.Family, h event.Handler) *event.Subscription {
	return s.bus.Subscribe(f, h)
}

// Close closes the database if the source opened it.
func (s *LocalSource) Close() error {
	if !s.owned {
		return nil
	}
	return s.database.Close()
}
