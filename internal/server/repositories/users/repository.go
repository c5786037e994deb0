package users

import (
	"context"

	"github.com/dmitrijs2005/csemanager/internal/server/models"
)

// Repository is the credential store.
//
// FindByEmail and FindByID return common.ErrNotFound when no row matches.
// Save returns common.ErrConflict when the email is already taken.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	Save(ctx context.Context, user *models.User) (*models.User, error)
}
