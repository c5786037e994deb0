package services

import (
	"context"
	"database/sql"
	"fmt"
	"path"
	"strings"

	"github.com/dmitrijs2005/csemanager/internal/common"
	"github.com/dmitrijs2005/csemanager/internal/server/models"
	"github.com/dmitrijs2005/csemanager/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ObjectStore presigns object URLs. *storage.S3Store implements it.
type ObjectStore interface {
	PresignPut(ctx context.Context, key string) (string, error)
	PresignGet(ctx context.Context, key string) (string, error)
}

// AttachmentService manages files attached to tasks. Clients upload and
// download directly against object storage with presigned URLs.
type AttachmentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       ObjectStore
	newKey      func(taskID int64, fileName string) string
}

func NewAttachmentService(db *sql.DB, m repomanager.RepositoryManager, store ObjectStore) *AttachmentService {
	return &AttachmentService{
		db:          db,
		repomanager: m,
		store:       store,
		newKey:      StorageKey,
	}
}

// StorageKey builds a unique object key for a task file.
func StorageKey(taskID int64, fileName string) string {
	return fmt.Sprintf("tasks/%d/%s/%s", taskID, uuid.NewString(), fileName)
}

// Create registers a pending attachment and returns the upload URL.
func (s *AttachmentService) Create(ctx context.Context, taskID int64, fileName string) (*models.AttachmentUpload, error) {
	name := cleanFileName(fileName)
	if name == "" {
		v := &common.ValidationError{}
		v.Add("nomeArquivo", "O nome do arquivo é obrigatório")
		return nil, v
	}

	if _, err := s.repomanager.Tasks(s.db).Get(ctx, taskID); err != nil {
		return nil, err
	}

	key := s.newKey(taskID, name)

	url, err := s.store.PresignPut(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	a, err := s.repomanager.Attachments(s.db).Create(ctx, &models.Attachment{
		TaskID:       taskID,
		FileName:     name,
		StorageKey:   key,
		UploadStatus: models.UploadPending,
	})
	if err != nil {
		return nil, err
	}

	return &models.AttachmentUpload{Attachment: a, URL: url}, nil
}

// Complete marks an attachment as uploaded.
func (s *AttachmentService) Complete(ctx context.Context, taskID, id int64) error {
	return s.repomanager.Attachments(s.db).SetUploadStatus(ctx, taskID, id, models.UploadCompleted)
}

// List returns the attachments of a task; an unknown task is common.ErrNotFound.
func (s *AttachmentService) List(ctx context.Context, taskID int64) ([]*models.Attachment, error) {
	if _, err := s.repomanager.Tasks(s.db).Get(ctx, taskID); err != nil {
		return nil, err
	}
	return s.repomanager.Attachments(s.db).ListByTask(ctx, taskID)
}

// DownloadURL returns the attachment and a presigned URL for its content.
func (s *AttachmentService) DownloadURL(ctx context.Context, taskID, id int64) (*models.Attachment, string, error) {
	a, err := s.repomanager.Attachments(s.db).Get(ctx, taskID, id)
	if err != nil {
		return nil, "", err
	}

	url, err := s.store.PresignGet(ctx, a.StorageKey)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return a, url, nil
}

// cleanFileName keeps only the base name so keys cannot escape the task prefix.
func cleanFileName(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	if name == "" {
		return ""
	}
	base := path.Base(name)
	if base == "." || base == "/" || base == ".." {
		return ""
	}
	return base
}
