package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/csemanager/internal/client/client"
	"github.com/dmitrijs2005/csemanager/internal/client/models"
	"github.com/dmitrijs2005/csemanager/internal/client/repositories/session"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	token string

	auth    *models.Auth
	authErr error
	listErr error

	clients     []models.Client
	tasks       []models.Task
	upload      *models.AttachmentUpload
	completed   []int64
	createdName string
	completeErr error
}

func (f *fakeAPI) SetToken(token string) { f.token = token }

func (f *fakeAPI) Login(context.Context, string, string) (*models.Auth, error) {
	return f.auth, f.authErr
}

func (f *fakeAPI) Register(context.Context, string, string, string, string) (*models.Auth, error) {
	return f.auth, f.authErr
}

func (f *fakeAPI) Ping(context.Context) error { return nil }

func (f *fakeAPI) ListClients(context.Context) ([]models.Client, error) {
	return f.clients, f.listErr
}

func (f *fakeAPI) CreateClient(_ context.Context, in models.Client) (*models.Client, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	in.ID = int64(len(f.clients) + 1)
	f.clients = append(f.clients, in)
	return &in, nil
}

func (f *fakeAPI) ListTasks(context.Context) ([]models.Task, error) {
	return f.tasks, f.listErr
}

func (f *fakeAPI) CreateTask(_ context.Context, in models.Task) (*models.Task, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	in.ID = int64(len(f.tasks) + 1)
	f.tasks = append(f.tasks, in)
	return &in, nil
}

func (f *fakeAPI) CreateAttachment(_ context.Context, _ int64, name string) (*models.AttachmentUpload, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.createdName = name
	return f.upload, nil
}

func (f *fakeAPI) CompleteAttachment(_ context.Context, _ int64, id int64) error {
	if f.completeErr != nil {
		return f.completeErr
	}
	f.completed = append(f.completed, id)
	return nil
}

func (f *fakeAPI) ListAttachments(context.Context, int64) ([]models.Attachment, error) {
	return nil, f.listErr
}

func newSessionRepo(t *testing.T) *session.SQLiteRepository {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return session.NewSQLiteRepository(db)
}
