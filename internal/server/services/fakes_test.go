package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/csemanager/internal/common"
	"github.com/dmitrijs2005/csemanager/internal/dbx"
	"github.com/dmitrijs2005/csemanager/internal/server/models"
	"github.com/dmitrijs2005/csemanager/internal/server/repositories/attachments"
	"github.com/dmitrijs2005/csemanager/internal/server/repositories/clients"
	"github.com/dmitrijs2005/csemanager/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/csemanager/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// fakeUsersRepo is an in-memory credential store with a unique email index.
type fakeUsersRepo struct {
	mu      sync.Mutex
	byID    map[int64]*models.User
	nextID  int64
	findErr error
	saveErr error
	saves   int
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[int64]*models.User{}}
}

func (f *fakeUsersRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUsersRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) Save(ctx context.Context, user *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	for _, u := range f.byID {
		if u.Email == user.Email {
			return nil, common.ErrConflict
		}
	}
	f.nextID++
	f.saves++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	cp := *user
	f.byID[user.ID] = &cp
	return user, nil
}

func (f *fakeUsersRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

type fakeClientsRepo struct {
	items  map[int64]*models.Client
	nextID int64
	err    error
}

func newFakeClientsRepo(items ...*models.Client) *fakeClientsRepo {
	f := &fakeClientsRepo{items: map[int64]*models.Client{}}
	for _, c := range items {
		f.items[c.ID] = c
		if c.ID > f.nextID {
			f.nextID = c.ID
		}
	}
	return f
}

func (f *fakeClientsRepo) List(ctx context.Context) ([]*models.Client, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*models.Client, 0, len(f.items))
	for _, c := range f.items {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeClientsRepo) Get(ctx context.Context, id int64) (*models.Client, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.items[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return c, nil
}

func (f *fakeClientsRepo) Create(ctx context.Context, c *models.Client) (*models.Client, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	c.ID = f.nextID
	f.items[c.ID] = c
	return c, nil
}

func (f *fakeClientsRepo) Update(ctx context.Context, c *models.Client) (*models.Client, error) {
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.items[c.ID]; !ok {
		return nil, common.ErrNotFound
	}
	f.items[c.ID] = c
	return c, nil
}

func (f *fakeClientsRepo) Delete(ctx context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.items[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

type fakeTasksRepo struct {
	items   map[int64]*models.Task
	nextID  int64
	updated *models.Task
	err     error
}

func newFakeTasksRepo(items ...*models.Task) *fakeTasksRepo {
	f := &fakeTasksRepo{items: map[int64]*models.Task{}}
	for _, t := range items {
		f.items[t.ID] = t
		if t.ID > f.nextID {
			f.nextID = t.ID
		}
	}
	return f
}

func (f *fakeTasksRepo) List(ctx context.Context) ([]*models.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*models.Task, 0, len(f.items))
	for _, t := range f.items {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeTasksRepo) Get(ctx context.Context, id int64) (*models.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	t, ok := f.items[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return t, nil
}

func (f *fakeTasksRepo) Create(ctx context.Context, t *models.Task) (*models.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	t.ID = f.nextID
	f.items[t.ID] = t
	return t, nil
}

func (f *fakeTasksRepo) Update(ctx context.Context, t *models.Task) (*models.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.items[t.ID]; !ok {
		return nil, common.ErrNotFound
	}
	f.items[t.ID] = t
	f.updated = t
	return t, nil
}

func (f *fakeTasksRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.items[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

type fakeAttachmentsRepo struct {
	items  map[int64]*models.Attachment
	nextID int64
	err    error
}

func newFakeAttachmentsRepo() *fakeAttachmentsRepo {
	return &fakeAttachmentsRepo{items: map[int64]*models.Attachment{}}
}

func (f *fakeAttachmentsRepo) Create(ctx context.Context, a *models.Attachment) (*models.Attachment, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	a.ID = f.nextID
	f.items[a.ID] = a
	return a, nil
}

func (f *fakeAttachmentsRepo) ListByTask(ctx context.Context, taskID int64) ([]*models.Attachment, error) {
	out := make([]*models.Attachment, 0)
	for id := int64(1); id <= f.nextID; id++ {
		if a, ok := f.items[id]; ok && a.TaskID == taskID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAttachmentsRepo) Get(ctx context.Context, taskID, id int64) (*models.Attachment, error) {
	a, ok := f.items[id]
	if !ok || a.TaskID != taskID {
		return nil, common.ErrNotFound
	}
	return a, nil
}

func (f *fakeAttachmentsRepo) SetUploadStatus(ctx context.Context, taskID, id int64, status string) error {
	a, ok := f.items[id]
	if !ok || a.TaskID != taskID {
		return common.ErrNotFound
	}
	a.UploadStatus = status
	return nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	c *fakeClientsRepo
	t *fakeTasksRepo
	a *fakeAttachmentsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error  { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository             { return m.u }
func (m *fakeRepoManager) Clients(db dbx.DBTX) clients.Repository         { return m.c }
func (m *fakeRepoManager) Tasks(db dbx.DBTX) tasks.Repository             { return m.t }
func (m *fakeRepoManager) Attachments(db dbx.DBTX) attachments.Repository { return m.a }
