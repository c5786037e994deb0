// Package services contains the CLI application services: the login
// session and the client/task/attachment operations behind the REPL.
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/csemanager/internal/client/client"
	"github.com/dmitrijs2005/csemanager/internal/client/models"
	"github.com/dmitrijs2005/csemanager/internal/client/repositories/session"
	"github.com/dmitrijs2005/csemanager/internal/common"
)

// API is the part of *client.APIClient the services use.
type API interface {
	SetToken(token string)
	Login(ctx context.Context, email, password string) (*models.Auth, error)
	Register(ctx context.Context, secret, name, email, password string) (*models.Auth, error)
	Ping(ctx context.Context) error
	ListClients(ctx context.Context) ([]models.Client, error)
	CreateClient(ctx context.Context, in models.Client) (*models.Client, error)
	ListTasks(ctx context.Context) ([]models.Task, error)
	CreateTask(ctx context.Context, in models.Task) (*models.Task, error)
	CreateAttachment(ctx context.Context, taskID int64, fileName string) (*models.AttachmentUpload, error)
	CompleteAttachment(ctx context.Context, taskID, id int64) error
	ListAttachments(ctx context.Context, taskID int64) ([]models.Attachment, error)
}

// AuthService keeps the API token and the cached session in step.
type AuthService struct {
	api  API
	repo session.Repository
}

func NewAuthService(api API, repo session.Repository) *AuthService {
	return &AuthService{api: api, repo: repo}
}

// Restore loads a cached session. It returns common.ErrNotFound when there
// is none.
func (s *AuthService) Restore(ctx context.Context) (*session.Session, error) {
	sess, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.api.SetToken(sess.Token)
	return sess, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*session.Session, error) {
	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return s.start(ctx, email, res)
}

func (s *AuthService) Register(ctx context.Context, secret, name, email, password string) (*session.Session, error) {
	res, err := s.api.Register(ctx, secret, name, email, password)
	if err != nil {
		return nil, err
	}
	return s.start(ctx, email, res)
}

func (s *AuthService) Logout(ctx context.Context) error {
	s.api.SetToken("")
	return s.repo.Clear(ctx)
}

// Ping reports whether the server answers.
func (s *AuthService) Ping(ctx context.Context) error {
	return s.api.Ping(ctx)
}

// Expire drops the session when err says the token was refused, and passes
// err through.
func (s *AuthService) Expire(ctx context.Context, err error) error {
	if errors.Is(err, client.ErrUnauthorized) {
		if cerr := s.Logout(ctx); cerr != nil {
			return errors.Join(err, cerr)
		}
	}
	return err
}

func (s *AuthService) start(ctx context.Context, email string, res *models.Auth) (*session.Session, error) {
	if res.Token == "" {
		return nil, common.ErrInvalidToken
	}

	sess := &session.Session{
		UserID: res.UserID,
		Email:  strings.ToLower(strings.TrimSpace(email)),
		Token:  res.Token,
	}
	if err := s.repo.Save(ctx, sess); err != nil {
		return nil, err
	}
	s.api.SetToken(sess.Token)
	return sess, nil
}
