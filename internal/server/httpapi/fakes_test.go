package httpapi

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/csemanager/internal/common"
	"github.com/dmitrijs2005/csemanager/internal/logging"
	"github.com/dmitrijs2005/csemanager/internal/server/auth"
	"github.com/dmitrijs2005/csemanager/internal/server/models"
	"github.com/dmitrijs2005/csemanager/internal/server/services"
)

const testRegistrationSecret = "k3y"

// fakeAuth keeps users in memory but issues real tokens.
type fakeAuth struct {
	mu      sync.Mutex
	tokens  *auth.TokenService
	users   map[int64]*models.User
	pwds    map[string]string
	nextID  int64
	failErr error
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{
		tokens: auth.NewTokenService(auth.TokenConfig{
			Secret: []byte("test-secret"),
			TTL:    time.Hour,
			Issuer: "csemanager",
		}, time.Now),
		users: make(map[int64]*models.User),
		pwds:  make(map[string]string),
	}
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (*services.AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	email = services.NormalizeEmail(email)
	for id, u := range f.users {
		if u.Email == email && f.pwds[email] == password {
			return f.issue(id)
		}
	}
	return nil, common.ErrInvalidCredentials
}

func (f *fakeAuth) Register(_ context.Context, secret, name, email, password string) (*services.AuthResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if secret != testRegistrationSecret {
		return nil, common.ErrForbidden
	}
	v := &common.ValidationError{}
	if strings.TrimSpace(name) == "" {
		v.Add("name", "required")
	}
	if strings.TrimSpace(email) == "" {
		v.Add("email", "required")
	}
	if password == "" {
		v.Add("password", "required")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	email = services.NormalizeEmail(email)
	if _, ok := f.pwds[email]; ok {
		return nil, common.ErrConflict
	}

	f.nextID++
	f.users[f.nextID] = &models.User{ID: f.nextID, Name: name, Email: email}
	f.pwds[email] = password
	return f.issue(f.nextID)
}

func (f *fakeAuth) Authenticate(_ context.Context, token string) (*models.User, error) {
	if f.failErr != nil {
		return nil, f.failErr
	}
	id, err := f.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, common.ErrUnauthorized
	}
	return u, nil
}

func (f *fakeAuth) issue(id int64) (*services.AuthResult, error) {
	tok, err := f.tokens.Issue(id)
	if err != nil {
		return nil, err
	}
	return &services.AuthResult{UserID: id, Token: tok}, nil
}

type fakeClients struct {
	mu     sync.Mutex
	items  map[int64]*models.Client
	nextID int64
}

func newFakeClients() *fakeClients {
	return &fakeClients{items: make(map[int64]*models.Client)}
}

func (f *fakeClients) List(context.Context) ([]*models.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]*models.Client, 0, len(f.items))
	for _, c := range f.items {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeClients) Get(_ context.Context, id int64) (*models.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.items[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return c, nil
}

func (f *fakeClients) Create(_ context.Context, in services.ClientInput) (*models.Client, error) {
	if err := validateClient(in); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	c := &models.Client{ID: f.nextID, Name: in.Name, Phone: in.Phone, Address: in.Address, Email: in.Email, Notes: in.Notes}
	f.items[c.ID] = c
	return c, nil
}

func (f *fakeClients) Update(_ context.Context, id int64, in services.ClientInput) (*models.Client, error) {
	if err := validateClient(in); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return nil, common.ErrNotFound
	}
	c := &models.Client{ID: id, Name: in.Name, Phone: in.Phone, Address: in.Address, Email: in.Email, Notes: in.Notes}
	f.items[id] = c
	return c, nil
}

func (f *fakeClients) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func validateClient(in services.ClientInput) error {
	v := &common.ValidationError{}
	if in.Name == "" {
		v.Add("nome", "O nome é obrigatório")
	}
	if in.Phone == "" {
		v.Add("telefone", "O telefone é obrigatório")
	}
	if in.Address == "" {
		v.Add("endereco", "O endereço é obrigatório")
	}
	return v.OrNil()
}

type fakeTasks struct {
	mu     sync.Mutex
	items  map[int64]*models.Task
	nextID int64
	err    error
}

func newFakeTasks() *fakeTasks {
	return &fakeTasks{items: make(map[int64]*models.Task)}
}

func (f *fakeTasks) List(context.Context) ([]*models.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]*models.Task, 0, len(f.items))
	for _, t := range f.items {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeTasks) Get(_ context.Context, id int64) (*models.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.items[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return t, nil
}

func (f *fakeTasks) Create(_ context.Context, in services.TaskInput) (*models.Task, error) {
	t, err := taskFromInput(in)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	t.ID = f.nextID
	f.items[t.ID] = t
	return t, nil
}

func (f *fakeTasks) Update(_ context.Context, id int64, in services.TaskInput) (*models.Task, error) {
	t, err := taskFromInput(in)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return nil, common.ErrNotFound
	}
	t.ID = id
	f.items[id] = t
	return t, nil
}

func (f *fakeTasks) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func taskFromInput(in services.TaskInput) (*models.Task, error) {
	if in.Title == "" {
		return nil, &common.ValidationError{Fields: map[string]string{"titulo": "O título é obrigatório"}}
	}
	t := &models.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      models.TaskStatus(in.Status),
		Priority:    in.Priority,
		ClientID:    in.ClientID,
	}
	if t.Status == "" {
		t.Status = models.TaskOpen
	}
	if in.ClientID != nil {
		t.ClientName = fmt.Sprintf("Client %d", *in.ClientID)
		t.ClientAddress = "Rua A"
	}
	if in.ServiceDate != "" {
		d, err := time.Parse(common.DateLayout, in.ServiceDate)
		if err != nil {
			return nil, &common.ValidationError{Fields: map[string]string{"dataServico": "Data inválida"}}
		}
		t.ServiceDate = &d
	}
	return t, nil
}

type fakeAttachments struct {
	mu     sync.Mutex
	items  map[int64]*models.Attachment
	nextID int64
}

func newFakeAttachments() *fakeAttachments {
	return &fakeAttachments{items: make(map[int64]*models.Attachment)}
}

func (f *fakeAttachments) Create(_ context.Context, taskID int64, fileName string) (*models.AttachmentUpload, error) {
	if fileName == "" {
		return nil, &common.ValidationError{Fields: map[string]string{"nomeArquivo": "O nome do arquivo é obrigatório"}}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	a := &models.Attachment{
		ID:           f.nextID,
		TaskID:       taskID,
		FileName:     fileName,
		StorageKey:   services.StorageKey(taskID, fileName),
		UploadStatus: models.UploadPending,
	}
	f.items[a.ID] = a
	return &models.AttachmentUpload{Attachment: a, URL: "https://s3.local/put/" + a.StorageKey}, nil
}

func (f *fakeAttachments) Complete(_ context.Context, taskID, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.items[id]
	if !ok || a.TaskID != taskID {
		return common.ErrNotFound
	}
	a.UploadStatus = models.UploadCompleted
	return nil
}

func (f *fakeAttachments) List(_ context.Context, taskID int64) ([]*models.Attachment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*models.Attachment, 0)
	for _, a := range f.items {
		if a.TaskID == taskID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeAttachments) DownloadURL(_ context.Context, taskID, id int64) (*models.Attachment, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.items[id]
	if !ok || a.TaskID != taskID {
		return nil, "", common.ErrNotFound
	}
	return a, "https://s3.local/get/" + a.StorageKey, nil
}

type testEnv struct {
	srv         *Server
	auth        *fakeAuth
	clients     *fakeClients
	tasks       *fakeTasks
	attachments *fakeAttachments
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		auth:        newFakeAuth(),
		clients:     newFakeClients(),
		tasks:       newFakeTasks(),
		attachments: newFakeAttachments(),
	}
	env.srv = NewServer(Config{Address: ":0", CORSOrigins: "http://localhost:5173"}, Services{
		Auth:        env.auth,
		Clients:     env.clients,
		Tasks:       env.tasks,
		Attachments: env.attachments,
	}, logging.New(io.Discard, "error", "json"))

	return env
}
