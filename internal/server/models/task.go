package models

import "time"

// TaskStatus is the lifecycle state of a service job.
type TaskStatus string

const (
	TaskOpen       TaskStatus = "EM_ABERTO"
	TaskInProgress TaskStatus = "EM_ANDAMENTO"
	TaskDone       TaskStatus = "FINALIZADO"
)

// Valid reports whether s is one of the known states.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskOpen, TaskInProgress, TaskDone:
		return true
	}
	return false
}

// Task is a service job, optionally linked to a client.
//
// ClientName and ClientAddress are read-only copies of the linked client's
// fields, filled in by queries that join clientes.
type Task struct {
	ID          int64
	Title       string
	Description string
	Status      TaskStatus
	Priority    *int
	ClientID    *int64
	ServiceDate *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	ClientName    string
	ClientAddress string
}
