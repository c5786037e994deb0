// Package tasks implements PostgreSQL storage for service jobs (table tarefas).
package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/csemanager/internal/common"
	"github.com/dmitrijs2005/csemanager/internal/dbx"
	"github.com/dmitrijs2005/csemanager/internal/server/models"
)

const selectTasks = `
	SELECT t.id, t.titulo, t.descricao, t.status, t.prioridade, t.cliente_id, t.data_servico,
	       t.created_at, t.updated_at, COALESCE(c.nome, ''), COALESCE(c.endereco, '')
	FROM tarefas t
	LEFT JOIN clientes c ON c.id = t.cliente_id`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (*models.Task, error) {
	var (
		t        models.Task
		status   string
		priority sql.NullInt64
		clientID sql.NullInt64
		date     sql.NullTime
	)

	err := s.Scan(&t.ID, &t.Title, &t.Description, &status, &priority, &clientID, &date,
		&t.CreatedAt, &t.UpdatedAt, &t.ClientName, &t.ClientAddress)
	if err != nil {
		return nil, err
	}

	t.Status = models.TaskStatus(status)
	if priority.Valid {
		p := int(priority.Int64)
		t.Priority = &p
	}
	if clientID.Valid {
		id := clientID.Int64
		t.ClientID = &id
	}
	if date.Valid {
		d := date.Time
		t.ServiceDate = &d
	}

	return &t, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Task, error) {
	rows, err := r.db.QueryContext(ctx, selectTasks+` ORDER BY t.id`)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx, selectTasks+` WHERE t.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

// Create inserts t and returns the stored row including client details.
func (r *PostgresRepository) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	query :=
		`INSERT INTO tarefas (titulo, descricao, status, prioridade, cliente_id, data_servico)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		t.Title, t.Description, string(t.Status), t.Priority, t.ClientID, t.ServiceDate).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return r.Get(ctx, id)
}

// Update overwrites every mutable column of t.
func (r *PostgresRepository) Update(ctx context.Context, t *models.Task) (*models.Task, error) {
	query :=
		`UPDATE tarefas
		 SET titulo = $2, descricao = $3, status = $4, prioridade = $5, cliente_id = $6,
		     data_servico = $7, updated_at = now()
		 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		t.ID, t.Title, t.Description, string(t.Status), t.Priority, t.ClientID, t.ServiceDate)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return nil, common.ErrNotFound
	}

	return r.Get(ctx, t.ID)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tarefas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
