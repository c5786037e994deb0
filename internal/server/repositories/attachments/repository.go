package attachments

import (
	"context"

	"github.com/dmitrijs2005/csemanager/internal/server/models"
)

// Repository stores task attachment metadata. Lookups are scoped to a task:
// an attachment id under the wrong task is common.ErrNotFound.
type Repository interface {
	Create(ctx context.Context, a *models.Attachment) (*models.Attachment, error)
	ListByTask(ctx context.Context, taskID int64) ([]*models.Attachment, error)
	Get(ctx context.Context, taskID, id int64) (*models.Attachment, error)
	SetUploadStatus(ctx context.Context, taskID, id int64, status string) error
}
