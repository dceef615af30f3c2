package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/tomo/internal/db"
	"github.com/alexanderramin/tomo/internal/domain"
)

type SQLitePomodoroRepo struct {
	db db.DBTX
}

func NewSQLitePomodoroRepo(db db.DBTX) *SQLitePomodoroRepo {
	return &SQLitePomodoroRepo{db: db}
}

const pomodoroColumns = `id, work_item_id, order_index, state, work_minutes, rest_minutes,
	started_at, rest_started_at, finished_at, created_at, updated_at`

func (r *SQLitePomodoroRepo) Create(ctx context.Context, p *domain.Pomodoro) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO pomodoros (`+pomodoroColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.WorkItemID, p.OrderIndex, string(p.State), p.WorkMinutes, p.RestMinutes,
		nullableTime(p.StartedAt), nullableTime(p.RestStartedAt), nullableTime(p.FinishedAt),
		formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("inserting pomodoro: %w", err)
	}
	return nil
}

func (r *SQLitePomodoroRepo) ListByWorkItem(ctx context.Context, workItemID string) ([]*domain.Pomodoro, error) {
	return r.query(ctx,
		`SELECT `+pomodoroColumns+` FROM pomodoros WHERE work_item_id = ? ORDER BY order_index`, workItemID)
}

// ListByWorkItems groups pomodoros by work item ID in a single query.
func (r *SQLitePomodoroRepo) ListByWorkItems(ctx context.Context, workItemIDs []string) (map[string][]*domain.Pomodoro, error) {
	out := make(map[string][]*domain.Pomodoro, len(workItemIDs))
	if len(workItemIDs) == 0 {
		return out, nil
	}
	args := make([]any, len(workItemIDs))
	for i, id := range workItemIDs {
		args[i] = id
	}
	pomodoros, err := r.query(ctx,
		`SELECT `+pomodoroColumns+` FROM pomodoros
		 WHERE work_item_id IN (`+placeholders(len(args))+`)
		 ORDER BY work_item_id, order_index`, args...)
	if err != nil {
		return nil, err
	}
	for _, p := range pomodoros {
		out[p.WorkItemID] = append(out[p.WorkItemID], p)
	}
	return out, nil
}

func (r *SQLitePomodoroRepo) ListRunning(ctx context.Context) ([]*domain.Pomodoro, error) {
	return r.query(ctx,
		`SELECT `+pomodoroColumns+` FROM pomodoros WHERE state IN ('work', 'rest') ORDER BY started_at`)
}

func (r *SQLitePomodoroRepo) Update(ctx context.Context, p *domain.Pomodoro) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE pomodoros SET order_index = ?, state = ?, work_minutes = ?, rest_minutes = ?,
		 started_at = ?, rest_started_at = ?, finished_at = ?, updated_at = ?
		 WHERE id = ?`,
		p.OrderIndex, string(p.State), p.WorkMinutes, p.RestMinutes,
		nullableTime(p.StartedAt), nullableTime(p.RestStartedAt), nullableTime(p.FinishedAt),
		formatTime(p.UpdatedAt), p.ID)
	if err != nil {
		return fmt.Errorf("updating pomodoro: %w", err)
	}
	return checkAffected(res, "pomodoro")
}

func (r *SQLitePomodoroRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pomodoros WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting pomodoro: %w", err)
	}
	return checkAffected(res, "pomodoro")
}

func (r *SQLitePomodoroRepo) query(ctx context.Context, q string, args ...any) ([]*domain.Pomodoro, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying pomodoros: %w", err)
	}
	defer rows.Close()

	var pomodoros []*domain.Pomodoro
	for rows.Next() {
		p, err := scanPomodoro(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning pomodoro row: %w", err)
		}
		pomodoros = append(pomodoros, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pomodoros: %w", err)
	}
	return pomodoros, nil
}

func scanPomodoro(s rowScanner) (*domain.Pomodoro, error) {
	var p domain.Pomodoro
	var state, createdAt, updatedAt string
	var startedAt, restStartedAt, finishedAt sql.NullString
	if err := s.Scan(&p.ID, &p.WorkItemID, &p.OrderIndex, &state, &p.WorkMinutes, &p.RestMinutes,
		&startedAt, &restStartedAt, &finishedAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	p.State = domain.PomodoroState(state)
	var err error
	if p.StartedAt, err = parseNullableTime(startedAt, "started_at"); err != nil {
		return nil, err
	}
	if p.RestStartedAt, err = parseNullableTime(restStartedAt, "rest_started_at"); err != nil {
		return nil, err
	}
	if p.FinishedAt, err = parseNullableTime(finishedAt, "finished_at"); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &p, nil
}
