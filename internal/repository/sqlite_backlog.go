package repository

import (
	"context"
	"fmt"

	"github.com/alexanderramin/tomo/internal/db"
	"github.com/alexanderramin/tomo/internal/domain"
)

type SQLiteBacklogRepo struct {
	db db.DBTX
}

func NewSQLiteBacklogRepo(db db.DBTX) *SQLiteBacklogRepo {
	return &SQLiteBacklogRepo{db: db}
}

const backlogColumns = `id, name, created_at, updated_at`

func (r *SQLiteBacklogRepo) Create(ctx context.Context, b *domain.Backlog) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO backlogs (`+backlogColumns+`) VALUES (?, ?, ?, ?)`,
		b.ID, b.Name, formatTime(b.CreatedAt), formatTime(b.UpdatedAt))
	if err != nil {
		return fmt.Errorf("inserting backlog: %w", err)
	}
	return nil
}

func (r *SQLiteBacklogRepo) GetByID(ctx context.Context, id string) (*domain.Backlog, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+backlogColumns+` FROM backlogs WHERE id = ?`, id)
	b, err := scanBacklog(row)
	if err != nil {
		return nil, notFound("backlog", err)
	}
	return b, nil
}

func (r *SQLiteBacklogRepo) List(ctx context.Context) ([]*domain.Backlog, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+backlogColumns+` FROM backlogs ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing backlogs: %w", err)
	}
	defer rows.Close()

	var backlogs []*domain.Backlog
	for rows.Next() {
		b, err := scanBacklog(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning backlog row: %w", err)
		}
		backlogs = append(backlogs, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating backlogs: %w", err)
	}
	return backlogs, nil
}

func (r *SQLiteBacklogRepo) Update(ctx context.Context, b *domain.Backlog) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE backlogs SET name = ?, updated_at = ? WHERE id = ?`,
		b.Name, formatTime(b.UpdatedAt), b.ID)
	if err != nil {
		return fmt.Errorf("updating backlog: %w", err)
	}
	return checkAffected(res, "backlog")
}

func (r *SQLiteBacklogRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM backlogs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting backlog: %w", err)
	}
	return checkAffected(res, "backlog")
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBacklog(s rowScanner) (*domain.Backlog, error) {
	var b domain.Backlog
	var createdAt, updatedAt string
	if err := s.Scan(&b.ID, &b.Name, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if b.CreatedAt, err = parseTime(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if b.UpdatedAt, err = parseTime(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	return &b, nil
}
