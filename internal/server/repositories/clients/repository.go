package clients

import (
	"context"

	"github.com/dmitrijs2005/csemanager/internal/server/models"
)

// Repository stores clients. Get, Update and Delete return
// common.ErrNotFound for unknown ids.
type Repository interface {
	List(ctx context.Context) ([]*models.Client, error)
	Get(ctx context.Context, id int64) (*models.Client, error)
	Create(ctx context.Context, c *models.Client) (*models.Client, error)
	Update(ctx context.Context, c *models.Client) (*models.Client, error)
	Delete(ctx context.Context, id int64) error
}
