package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmitrijs2005/csemanager/internal/common"
	"github.com/dmitrijs2005/csemanager/internal/server/models"
	"github.com/dmitrijs2005/csemanager/internal/server/repositories/repomanager"
)

// ClientInput carries the editable fields of a client.
type ClientInput struct {
	Name    string
	Phone   string
	Address string
	Email   string
	Notes   string
}

// ClientService implements client CRUD. Field errors use the API's JSON
// field names as keys.
type ClientService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewClientService(db *sql.DB, m repomanager.RepositoryManager) *ClientService {
	return &ClientService{db: db, repomanager: m}
}

func (s *ClientService) List(ctx context.Context) ([]*models.Client, error) {
	return s.repomanager.Clients(s.db).List(ctx)
}

func (s *ClientService) Get(ctx context.Context, id int64) (*models.Client, error) {
	return s.repomanager.Clients(s.db).Get(ctx, id)
}

func (s *ClientService) Create(ctx context.Context, in ClientInput) (*models.Client, error) {
	c, err := in.toModel()
	if err != nil {
		return nil, err
	}
	return s.repomanager.Clients(s.db).Create(ctx, c)
}

// Update validates before looking the client up, so bad input on an
// unknown id is a validation error.
func (s *ClientService) Update(ctx context.Context, id int64, in ClientInput) (*models.Client, error) {
	c, err := in.toModel()
	if err != nil {
		return nil, err
	}
	c.ID = id
	return s.repomanager.Clients(s.db).Update(ctx, c)
}

func (s *ClientService) Delete(ctx context.Context, id int64) error {
	return s.repomanager.Clients(s.db).Delete(ctx, id)
}

func (in ClientInput) toModel() (*models.Client, error) {
	c := &models.Client{
		Name:    strings.TrimSpace(in.Name),
		Phone:   strings.TrimSpace(in.Phone),
		Address: strings.TrimSpace(in.Address),
		Email:   strings.TrimSpace(in.Email),
		Notes:   in.Notes,
	}

	v := &common.ValidationError{}
	if c.Name == "" {
		v.Add("nome", "O nome é obrigatório")
	}
	if c.Phone == "" {
		v.Add("telefone", "O telefone é obrigatório")
	}
	if c.Address == "" {
		v.Add("endereco", "O endereço é obrigatório")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	return c, nil
}
