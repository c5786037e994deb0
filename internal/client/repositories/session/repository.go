// Package session persists the CLI login session (user, e-mail and bearer
// token) in the local metadata table so it survives restarts.
package session

import (
	"context"
	"time"
)

type Session struct {
	UserID  int64
	Email   string
	Token   string
	SavedAt time.Time
}

// Repository loads and stores the single current session. Load returns
// common.ErrNotFound when nobody is logged in.
type Repository interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Clear(ctx context.Context) error
}
