package tasks

import (
	"context"

	"github.com/dmitrijs2005/csemanager/internal/server/models"
)

// Repository stores tasks. Reads include the linked client's name and
// address. Get, Update and Delete return common.ErrNotFound for unknown ids.
type Repository interface {
	List(ctx context.Context) ([]*models.Task, error)
	Get(ctx context.Context, id int64) (*models.Task, error)
	Create(ctx context.Context, t *models.Task) (*models.Task, error)
	Update(ctx context.Context, t *models.Task) (*models.Task, error)
	Delete(ctx context.Context, id int64) error
}
