package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/csemanager/internal/common"
	"github.com/dmitrijs2005/csemanager/internal/dbx"
	"github.com/dmitrijs2005/csemanager/internal/server/models"
	"github.com/dmitrijs2005/csemanager/internal/server/repositories/clients"
	"github.com/dmitrijs2005/csemanager/internal/server/repositories/repomanager"
)

// TaskInput carries the editable fields of a task. ServiceDate is
// "yyyy-MM-dd" or empty.
type TaskInput struct {
	Title       string
	Description string
	Status      string
	Priority    *int
	ClientID    *int64
	ServiceDate string
}

// TaskService implements task CRUD.
//
// A ClientID that matches no client is ignored: on create the task gets no
// client, on update the previous link is kept. A nil ClientID on update
// clears the link.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewTaskService(db *sql.DB, m repomanager.RepositoryManager) *TaskService {
	return &TaskService{db: db, repomanager: m}
}

func (s *TaskService) List(ctx context.Context) ([]*models.Task, error) {
	return s.repomanager.Tasks(s.db).List(ctx)
}

func (s *TaskService) Get(ctx context.Context, id int64) (*models.Task, error) {
	return s.repomanager.Tasks(s.db).Get(ctx, id)
}

func (s *TaskService) Create(ctx context.Context, in TaskInput) (*models.Task, error) {
	t, err := in.toModel()
	if err != nil {
		return nil, err
	}

	if t.ClientID != nil {
		ok, err := clientExists(ctx, s.repomanager.Clients(s.db), *t.ClientID)
		if err != nil {
			return nil, err
		}
		if !ok {
			t.ClientID = nil
		}
	}

	return s.repomanager.Tasks(s.db).Create(ctx, t)
}

// Update rewrites the task inside one transaction.
func (s *TaskService) Update(ctx context.Context, id int64, in TaskInput) (*models.Task, error) {
	t, err := in.toModel()
	if err != nil {
		return nil, err
	}
	t.ID = id

	return dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*models.Task, error) {
		taskRepo := s.repomanager.Tasks(tx)

		current, err := taskRepo.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		if t.ClientID != nil {
			ok, err := clientExists(ctx, s.repomanager.Clients(tx), *t.ClientID)
			if err != nil {
				return nil, err
			}
			if !ok {
				t.ClientID = current.ClientID
			}
		}

		return taskRepo.Update(ctx, t)
	})
}

func (s *TaskService) Delete(ctx context.Context, id int64) error {
	return s.repomanager.Tasks(s.db).Delete(ctx, id)
}

func clientExists(ctx context.Context, repo clients.Repository, id int64) (bool, error) {
	_, err := repo.Get(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, common.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (in TaskInput) toModel() (*models.Task, error) {
	t := &models.Task{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Status:      models.TaskStatus(strings.TrimSpace(in.Status)),
		Priority:    in.Priority,
		ClientID:    in.ClientID,
	}
	if t.Status == "" {
		t.Status = models.TaskOpen
	}

	v := &common.ValidationError{}
	if t.Title == "" {
		v.Add("titulo", "O título é obrigatório")
	}
	if !t.Status.Valid() {
		v.Add("status", "Status deve ser EM_ABERTO, EM_ANDAMENTO ou FINALIZADO")
	}
	if t.Priority != nil && (*t.Priority < 1 || *t.Priority > 3) {
		v.Add("prioridade", "Prioridade deve estar entre 1 e 3")
	}
	if d := strings.TrimSpace(in.ServiceDate); d != "" {
		parsed, err := time.Parse(common.DateLayout, d)
		if err != nil {
			v.Add("dataServico", "Data deve estar no formato yyyy-MM-dd")
		} else {
			t.ServiceDate = &parsed
		}
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	return t, nil
}
