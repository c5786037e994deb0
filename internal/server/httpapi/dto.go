package httpapi

import (
	"time"

	"github.com/dmitrijs2005/csemanager/internal/common"
	"github.com/dmitrijs2005/csemanager/internal/server/models"
	"github.com/dmitrijs2005/csemanager/internal/server/services"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	SecretKey string `json:"secretKey"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type AuthResponse struct {
	UserID int64  `json:"userId"`
	Token  string `json:"token"`
}

type ClientDTO struct {
	ID       int64  `json:"id"`
	Nome     string `json:"nome"`
	Telefone string `json:"telefone"`
	Endereco string `json:"endereco"`
	Email    string `json:"email"`
	Notas    string `json:"notas"`
}

func toClientDTO(c *models.Client) ClientDTO {
	return ClientDTO{
		ID:       c.ID,
		Nome:     c.Name,
		Telefone: c.Phone,
		Endereco: c.Address,
		Email:    c.Email,
		Notas:    c.Notes,
	}
}

func (d ClientDTO) input() services.ClientInput {
	return services.ClientInput{
		Name:    d.Nome,
		Phone:   d.Telefone,
		Address: d.Endereco,
		Email:   d.Email,
		Notes:   d.Notas,
	}
}

// TaskDTO is used for both requests and responses. Client name and address
// are ignored on input.
type TaskDTO struct {
	ID              int64   `json:"id"`
	Titulo          string  `json:"titulo"`
	Descricao       string  `json:"descricao"`
	Status          string  `json:"status"`
	Prioridade      *int    `json:"prioridade"`
	ClienteID       *int64  `json:"clienteId"`
	ClienteNome     *string `json:"clienteNome"`
	ClienteEndereco *string `json:"clienteEndereco"`
	DataServico     *string `json:"dataServico"`
}

func toTaskDTO(t *models.Task) TaskDTO {
	d := TaskDTO{
		ID:         t.ID,
		Titulo:     t.Title,
		Descricao:  t.Description,
		Status:     string(t.Status),
		Prioridade: t.Priority,
		ClienteID:  t.ClientID,
	}
	if t.ClientID != nil {
		name, addr := t.ClientName, t.ClientAddress
		d.ClienteNome = &name
		d.ClienteEndereco = &addr
	}
	if t.ServiceDate != nil {
		s := t.ServiceDate.Format(common.DateLayout)
		d.DataServico = &s
	}
	return d
}

func (d TaskDTO) input() services.TaskInput {
	in := services.TaskInput{
		Title:       d.Titulo,
		Description: d.Descricao,
		Status:      d.Status,
		Priority:    d.Prioridade,
		ClientID:    d.ClienteID,
	}
	if d.DataServico != nil {
		in.ServiceDate = *d.DataServico
	}
	return in
}

type CreateAttachmentRequest struct {
	NomeArquivo string `json:"nomeArquivo"`
}

type CreateAttachmentResponse struct {
	ID        int64  `json:"id"`
	UploadURL string `json:"uploadUrl"`
}

type AttachmentDTO struct {
	ID          int64     `json:"id"`
	TarefaID    int64     `json:"tarefaId"`
	NomeArquivo string    `json:"nomeArquivo"`
	Status      string    `json:"status"`
	CriadoEm    time.Time `json:"criadoEm"`
}

func toAttachmentDTO(a *models.Attachment) AttachmentDTO {
	return AttachmentDTO{
		ID:          a.ID,
		TarefaID:    a.TaskID,
		NomeArquivo: a.FileName,
		Status:      a.UploadStatus,
		CriadoEm:    a.CreatedAt,
	}
}

type DownloadResponse struct {
	AttachmentDTO
	DownloadURL string `json:"downloadUrl"`
}

func mapSlice[T, D any](in []T, f func(T) D) []D {
	out := make([]D, 0, len(in))
	for _, v := range in {
		out = append(out, f(v))
	}
	return out
}
