package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alexanderramin/tomo/internal/db"
	"github.com/alexanderramin/tomo/internal/domain"
)

type SQLiteWorkItemRepo struct {
	db db.DBTX
}

func NewSQLiteWorkItemRepo(db db.DBTX) *SQLiteWorkItemRepo {
	return &SQLiteWorkItemRepo{db: db}
}

const workItemColumns = `w.id, w.backlog_id, w.order_index, w.title, w.state, w.sealed_at, w.created_at, w.updated_at`

func (r *SQLiteWorkItemRepo) Create(ctx context.Context, w *domain.WorkItem) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO work_items (id, backlog_id, order_index, title, state, sealed_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.BacklogID, w.OrderIndex, w.Title, string(w.State),
		nullableTime(w.SealedAt), formatTime(w.CreatedAt), formatTime(w.UpdatedAt))
	if err != nil {
		return fmt.Errorf("inserting work item: %w", err)
	}
	return r.writeTags(ctx, w)
}

func (r *SQLiteWorkItemRepo) GetByID(ctx context.Context, id string) (*domain.WorkItem, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+workItemColumns+` FROM work_items w WHERE w.id = ?`, id)
	w, err := scanWorkItem(row)
	if err != nil {
		return nil, notFound("work item", err)
	}
	return w, nil
}

func (r *SQLiteWorkItemRepo) ListByBacklog(ctx context.Context, backlogID string) ([]*domain.WorkItem, error) {
	return r.query(ctx,
		`SELECT `+workItemColumns+` FROM work_items w
		 WHERE w.backlog_id = ? ORDER BY w.order_index, w.created_at`, backlogID)
}

// ListByTag returns every work item carrying tag, across all backlogs.
func (r *SQLiteWorkItemRepo) ListByTag(ctx context.Context, tag string) ([]*domain.WorkItem, error) {
	return r.query(ctx,
		`SELECT `+workItemColumns+` FROM work_items w
		 JOIN work_item_tags t ON t.work_item_id = w.id
		 WHERE t.tag = ? ORDER BY w.created_at, w.order_index`, tag)
}

func (r *SQLiteWorkItemRepo) ListTags(ctx context.Context) ([]domain.TagCount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT tag, COUNT(*) FROM work_item_tags GROUP BY tag ORDER BY tag`)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer rows.Close()

	var tags []domain.TagCount
	for rows.Next() {
		var tc domain.TagCount
		if err := rows.Scan(&tc.Name, &tc.Count); err != nil {
			return nil, fmt.Errorf("scanning tag row: %w", err)
		}
		tags = append(tags, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}
	return tags, nil
}

func (r *SQLiteWorkItemRepo) NextOrderIndex(ctx context.Context, backlogID string) (int, error) {
	var next int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(order_index) + 1, 0) FROM work_items WHERE backlog_id = ?`,
		backlogID).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next order index: %w", err)
	}
	return next, nil
}

func (r *SQLiteWorkItemRepo) Update(ctx context.Context, w *domain.WorkItem) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE work_items SET order_index = ?, title = ?, state = ?, sealed_at = ?, updated_at = ?
		 WHERE id = ?`,
		w.OrderIndex, w.Title, string(w.State), nullableTime(w.SealedAt), formatTime(w.UpdatedAt), w.ID)
	if err != nil {
		return fmt.Errorf("updating work item: %w", err)
	}
	if err := checkAffected(res, "work item"); err != nil {
		return err
	}
	return r.writeTags(ctx, w)
}

func (r *SQLiteWorkItemRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM work_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting work item: %w", err)
	}
	return checkAffected(res, "work item")
}

// writeTags replaces the stored tag set with the one parsed from the title.
func (r *SQLiteWorkItemRepo) writeTags(ctx context.Context, w *domain.WorkItem) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM work_item_tags WHERE work_item_id = ?`, w.ID); err != nil {
		return fmt.Errorf("clearing tags: %w", err)
	}
	for _, tag := range w.Tags() {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO work_item_tags (work_item_id, tag) VALUES (?, ?)`, w.ID, tag); err != nil {
			return fmt.Errorf("inserting tag %q: %w", tag, err)
		}
	}
	return nil
}

// query drains rows before returning so callers may issue follow-up
// queries on a single-connection database.
func (r *SQLiteWorkItemRepo) query(ctx context.Context, q string, args ...any) ([]*domain.WorkItem, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("querying work items: %w", err)
	}
	defer rows.Close()

	var items []*domain.WorkItem
	for rows.Next() {
		w, err := scanWorkItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning work item row: %w", err)
		}
		items = append(items, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating work items: %w", err)
	}
	return items, nil
}

func scanWorkItem(s rowScanner) (*domain.WorkItem, error) {
	var w domain.WorkItem
	var state, createdAt, updatedAt string
	var sealedAt sql.NullString
	if err := s.Scan(&w.ID, &w.BacklogID, &w.OrderIndex, &w.Title, &state,
		&sealedAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	w.State = domain.WorkItemState(state)
	var err error
	if w.SealedAt, err = parseNullableTime(sealedAt, "sealed_at"); err != nil {
		return nil, err
	}
	if w.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if w.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &w, nil
}
