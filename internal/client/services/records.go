package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/csemanager/internal/client/models"
	"github.com/dmitrijs2005/csemanager/internal/filex"
	"github.com/dmitrijs2005/csemanager/internal/netx"
)

// Seams for tests.
var (
	readUpload   = filex.ReadUpload
	putPresigned = netx.PutPresigned
)

// RecordService runs the client, task and attachment commands. Every call
// goes through auth.Expire so a refused token ends the session.
type RecordService struct {
	api  API
	auth *AuthService
}

func NewRecordService(api API, auth *AuthService) *RecordService {
	return &RecordService{api: api, auth: auth}
}

func (s *RecordService) Clients(ctx context.Context) ([]models.Client, error) {
	list, err := s.api.ListClients(ctx)
	return list, s.auth.Expire(ctx, err)
}

func (s *RecordService) AddClient(ctx context.Context, in models.Client) (*models.Client, error) {
	c, err := s.api.CreateClient(ctx, in)
	return c, s.auth.Expire(ctx, err)
}

func (s *RecordService) Tasks(ctx context.Context) ([]models.Task, error) {
	list, err := s.api.ListTasks(ctx)
	return list, s.auth.Expire(ctx, err)
}

func (s *RecordService) AddTask(ctx context.Context, in models.Task) (*models.Task, error) {
	t, err := s.api.CreateTask(ctx, in)
	return t, s.auth.Expire(ctx, err)
}

func (s *RecordService) Attachments(ctx context.Context, taskID int64) ([]models.Attachment, error) {
	list, err := s.api.ListAttachments(ctx, taskID)
	return list, s.auth.Expire(ctx, err)
}

// Attach uploads the file at path to task taskID: register the attachment,
// PUT the content to the presigned URL, then confirm the upload.
func (s *RecordService) Attach(ctx context.Context, taskID int64, path string) (int64, error) {
	name, data, err := readUpload(path, filex.MaxUploadSize)
	if err != nil {
		return 0, err
	}

	up, err := s.api.CreateAttachment(ctx, taskID, name)
	if err != nil {
		return 0, s.auth.Expire(ctx, err)
	}

	if err := putPresigned(ctx, up.UploadURL, data, netx.ContentType(name)); err != nil {
		return 0, fmt.Errorf("upload %s: %w", name, err)
	}

	if err := s.api.CompleteAttachment(ctx, taskID, up.ID); err != nil {
		return 0, s.auth.Expire(ctx, err)
	}
	return up.ID, nil
}
