// Package services contains server-side business logic. This file implements
// UserService: login, registration behind the shared secret, and resolving
// bearer tokens to users.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/csemanager/internal/common"
	"github.com/dmitrijs2005/csemanager/internal/server/auth"
	"github.com/dmitrijs2005/csemanager/internal/server/models"
	"github.com/dmitrijs2005/csemanager/internal/server/repositories/repomanager"
)

// bcrypt ignores input past this many bytes.
const maxPasswordBytes = 72

// Tokens issues and verifies bearer tokens. *auth.TokenService implements it.
type Tokens interface {
	Issue(userID int64) (string, error)
	Verify(token string) (int64, error)
}

// AuthResult is returned by successful login and registration.
type AuthResult struct {
	UserID int64
	Token  string
}

// UserService provides authentication-related operations.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      auth.PasswordHasher
	tokens      Tokens
	gate        *auth.RegistrationGate

	dummyOnce sync.Once
	dummyHash string
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher auth.PasswordHasher,
	tokens Tokens, gate *auth.RegistrationGate) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		gate:        gate,
	}
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login checks credentials and returns a fresh token. Unknown email and
// wrong password both yield common.ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.burnVerify(password)
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: find user: %v", common.ErrorInternal, err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	if !ok {
		return nil, common.ErrInvalidCredentials
	}

	return s.issue(user.ID)
}

// Register creates an account when secret matches the registration secret.
//
// Errors: common.ErrForbidden for a bad secret, *common.ValidationError for
// bad fields, common.ErrConflict when the email is taken.
func (s *UserService) Register(ctx context.Context, secret, name, email, password string) (*AuthResult, error) {
	if err := s.gate.Admit(secret); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if err := validateRegistration(name, email, password); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	// Fast path only; the unique index decides under concurrency.
	if _, err := repo.FindByEmail(ctx, email); err == nil {
		return nil, common.ErrConflict
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("%w: find user: %v", common.ErrorInternal, err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	user, err := repo.Save(ctx, &models.User{Name: name, Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, common.ErrConflict
		}
		return nil, fmt.Errorf("%w: save user: %v", common.ErrorInternal, err)
	}

	return s.issue(user.ID)
}

// Authenticate resolves a bearer token to its user. Token errors are
// common.ErrTokenExpired or common.ErrInvalidToken; a token for a user that
// no longer exists is common.ErrUnauthorized.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	id, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("%w: find user: %v", common.ErrorInternal, err)
	}

	return user, nil
}

func (s *UserService) issue(userID int64) (*AuthResult, error) {
	token, err := s.tokens.Issue(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return &AuthResult{UserID: userID, Token: token}, nil
}

// burnVerify runs one hash comparison so a missing account costs about as
// much time as a wrong password.
func (s *UserService) burnVerify(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("csemanager-dummy-password")
	})
	_, _ = s.hasher.Verify(password, s.dummyHash)
}

func validateRegistration(name, email, password string) error {
	v := &common.ValidationError{}

	if name == "" {
		v.Add("name", "name is required")
	}

	switch {
	case email == "":
		v.Add("email", "email is required")
	case !strings.Contains(email, "@") || strings.HasPrefix(email, "@") || strings.HasSuffix(email, "@"):
		v.Add("email", "email is invalid")
	}

	switch {
	case password == "":
		v.Add("password", "password is required")
	case len(password) > maxPasswordBytes:
		v.Add("password", fmt.Sprintf("password must be at most %d bytes", maxPasswordBytes))
	}

	return v.OrNil()
}
