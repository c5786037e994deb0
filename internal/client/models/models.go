// Package models holds the REST payloads as seen by the CLI.
package models

import "time"

type Auth struct {
	UserID int64  `json:"userId"`
	Token  string `json:"token"`
}

type Client struct {
	ID       int64  `json:"id,omitempty"`
	Nome     string `json:"nome"`
	Telefone string `json:"telefone"`
	Endereco string `json:"endereco"`
	Email    string `json:"email"`
	Notas    string `json:"notas"`
}

type Task struct {
	ID              int64   `json:"id,omitempty"`
	Titulo          string  `json:"titulo"`
	Descricao       string  `json:"descricao"`
	Status          string  `json:"status,omitempty"`
	Prioridade      *int    `json:"prioridade,omitempty"`
	ClienteID       *int64  `json:"clienteId,omitempty"`
	ClienteNome     *string `json:"clienteNome,omitempty"`
	ClienteEndereco *string `json:"clienteEndereco,omitempty"`
	DataServico     *string `json:"dataServico,omitempty"`
}

// ClientLabel is "name (address)" or "-" for tasks without a client.
func (t Task) ClientLabel() string {
	if t.ClienteNome == nil {
		return "-"
	}
	if t.ClienteEndereco == nil || *t.ClienteEndereco == "" {
		return *t.ClienteNome
	}
	return *t.ClienteNome + " (" + *t.ClienteEndereco + ")"
}

type AttachmentUpload struct {
	ID        int64  `json:"id"`
	UploadURL string `json:"uploadUrl"`
}

type Attachment struct {
	ID          int64     `json:"id"`
	TarefaID    int64     `json:"tarefaId"`
	NomeArquivo string    `json:"nomeArquivo"`
	Status      string    `json:"status"`
	CriadoEm    time.Time `json:"criadoEm"`
}
