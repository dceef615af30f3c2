package db

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations are applied in order; the index+1 of the last applied step is
// stored in PRAGMA user_version. Append only.
var migrations = []string{
	`CREATE TABLE backlogs (
		id         TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE work_items (
		id          TEXT PRIMARY KEY,
		backlog_id  TEXT NOT NULL REFERENCES backlogs(id) ON DELETE CASCADE,
		order_index INTEGER NOT NULL DEFAULT 0,
		title       TEXT NOT NULL,
		state       TEXT NOT NULL DEFAULT 'open'
		            CHECK(state IN ('open','finished','canceled')),
		sealed_at   TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,
	`CREATE INDEX idx_work_items_backlog ON work_items(backlog_id, order_index)`,

	`CREATE TABLE pomodoros (
		id              TEXT PRIMARY KEY,
		work_item_id    TEXT NOT NULL REFERENCES work_items(id) ON DELETE CASCADE,
		order_index     INTEGER NOT NULL DEFAULT 0,
		state           TEXT NOT NULL DEFAULT 'new'
		                CHECK(state IN ('new','work','rest','finished','canceled')),
		work_minutes    INTEGER NOT NULL DEFAULT 25 CHECK(work_minutes > 0),
		rest_minutes    INTEGER NOT NULL DEFAULT 5 CHECK(rest_minutes >= 0),
		started_at      TEXT,
		rest_started_at TEXT,
		finished_at     TEXT,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,
	`CREATE INDEX idx_pomodoros_work_item ON pomodoros(work_item_id, order_index)`,
	`CREATE INDEX idx_pomodoros_running ON pomodoros(state) WHERE state IN ('work','rest')`,

	`CREATE TABLE work_item_tags (
		work_item_id TEXT NOT NULL REFERENCES work_items(id) ON DELETE CASCADE,
		tag          TEXT NOT NULL,
		PRIMARY KEY (work_item_id, tag)
	)`,
	`CREATE INDEX idx_work_item_tags_tag ON work_item_tags(tag)`,
}

// SchemaVersion is the user_version of a fully migrated database.
func SchemaVersion() int { return len(migrations) }

// Migrate applies every migration newer than the database's user_version,
// all in one transaction. Running it on an up-to-date database is a no-op.
func Migrate(db *sql.DB) error {
	ctx := context.Background()

	var version int
	if err := db.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if version > len(migrations) {
		return fmt.Errorf("database schema version %d is newer than this build (%d)", version, len(migrations))
	}
	if version == len(migrations) {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting migration transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i := version; i < len(migrations); i++ {
		if _, err := tx.ExecContext(ctx, migrations[i]); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	// PRAGMA does not take bound parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d`, len(migrations))); err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migrations: %w", err)
	}
	return nil
}
