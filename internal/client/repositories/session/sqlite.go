package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/csemanager/internal/common"
	"github.com/dmitrijs2005/csemanager/internal/dbx"
)

const (
	keyUserID  = "session.user_id"
	keyEmail   = "session.email"
	keyToken   = "session.token"
	keySavedAt = "session.saved_at"
)

var sessionKeys = []string{keyUserID, keyEmail, keyToken, keySavedAt}

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Load(ctx context.Context) (*Session, error) {
	values, err := r.readAll(ctx)
	if err != nil {
		return nil, err
	}

	token := values[keyToken]
	if token == "" {
		return nil, common.ErrNotFound
	}

	id, err := strconv.ParseInt(values[keyUserID], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt session user id: %w", err)
	}

	s := &Session{UserID: id, Email: values[keyEmail], Token: token}
	if ts, err := time.Parse(time.RFC3339, values[keySavedAt]); err == nil {
		s.SavedAt = ts
	}
	return s, nil
}

// Save replaces the stored session atomically.
func (r *SQLiteRepository) Save(ctx context.Context, s *Session) error {
	if s.SavedAt.IsZero() {
		s.SavedAt = time.Now()
	}

	values := map[string]string{
		keyUserID:  strconv.FormatInt(s.UserID, 10),
		keyEmail:   s.Email,
		keyToken:   s.Token,
		keySavedAt: s.SavedAt.UTC().Format(time.RFC3339),
	}

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for k, v := range values {
			if err := set(ctx, tx, k, v); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, k := range sessionKeys {
			if _, err := tx.ExecContext(ctx, `DELETE FROM metadata WHERE key = ?`, k); err != nil {
				return fmt.Errorf("failed to delete metadata[%s]: %w", k, err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) readAll(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string, len(sessionKeys))
	for _, k := range sessionKeys {
		var v string
		err := r.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, k).Scan(&v)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get metadata[%s]: %w", k, err)
		}
		out[k] = v
	}
	return out, nil
}

func set(ctx context.Context, db dbx.DBTX, key, value string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set metadata[%s]: %w", key, err)
	}
	return nil
}
