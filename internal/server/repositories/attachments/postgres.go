// Package attachments implements PostgreSQL storage for task attachment
// metadata. File content is kept in object storage, not here.
package attachments

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/csemanager/internal/common"
	"github.com/dmitrijs2005/csemanager/internal/dbx"
	"github.com/dmitrijs2005/csemanager/internal/server/models"
)

const columns = `id, task_id, file_name, storage_key, upload_status, created_at`

// PostgresRepository implements attachment storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAttachment(s scanner) (*models.Attachment, error) {
	a := &models.Attachment{}
	err := s.Scan(&a.ID, &a.TaskID, &a.FileName, &a.StorageKey, &a.UploadStatus, &a.CreatedAt)
	return a, err
}

// Create inserts a new attachment row. A missing task surfaces as
// common.ErrNotFound through the foreign key.
func (r *PostgresRepository) Create(ctx context.Context, a *models.Attachment) (*models.Attachment, error) {
	query := `
		INSERT INTO task_attachments (task_id, file_name, storage_key, upload_status)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + columns

	created, err := scanAttachment(r.db.QueryRowContext(ctx, query, a.TaskID, a.FileName, a.StorageKey, a.UploadStatus))
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

// ListByTask returns the task's attachments, oldest first.
func (r *PostgresRepository) ListByTask(ctx context.Context, taskID int64) ([]*models.Attachment, error) {
	query := `SELECT ` + columns + ` FROM task_attachments WHERE task_id = $1 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Attachment, 0)
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, taskID, id int64) (*models.Attachment, error) {
	query := `SELECT ` + columns + ` FROM task_attachments WHERE task_id = $1 AND id = $2`

	a, err := scanAttachment(r.db.QueryRowContext(ctx, query, taskID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) SetUploadStatus(ctx context.Context, taskID, id int64, status string) error {
	query := `UPDATE task_attachments SET upload_status = $3 WHERE task_id = $1 AND id = $2`

	res, err := r.db.ExecContext(ctx, query, taskID, id, status)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
