// Package clients implements PostgreSQL storage for customers (table clientes).
package clients

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/csemanager/internal/common"
	"github.com/dmitrijs2005/csemanager/internal/dbx"
	"github.com/dmitrijs2005/csemanager/internal/server/models"
)

const columns = `id, nome, telefone, endereco, email, notas, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanClient(s scanner) (*models.Client, error) {
	c := &models.Client{}
	err := s.Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &c.Email, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Client, error) {
	query := `SELECT ` + columns + ` FROM clientes ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Client, error) {
	query := `SELECT ` + columns + ` FROM clientes WHERE id = $1`

	c, err := scanClient(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapErr(err)
	}
	return c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Client) (*models.Client, error) {
	query :=
		`INSERT INTO clientes (nome, telefone, endereco, email, notas)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING ` + columns

	created, err := scanClient(r.db.QueryRowContext(ctx, query, c.Name, c.Phone, c.Address, c.Email, c.Notes))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

func (r *PostgresRepository) Update(ctx context.Context, c *models.Client) (*models.Client, error) {
	query :=
		`UPDATE clientes
		 SET nome = $2, telefone = $3, endereco = $4, email = $5, notas = $6, updated_at = now()
		 WHERE id = $1
		 RETURNING ` + columns

	updated, err := scanClient(r.db.QueryRowContext(ctx, query, c.ID, c.Name, c.Phone, c.Address, c.Email, c.Notes))
	if err != nil {
		return nil, mapErr(err)
	}
	return updated, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clientes WHERE id = $1`, id)
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

func mapErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrNotFound
	}
	return fmt.Errorf("db error: %w", err)
}
