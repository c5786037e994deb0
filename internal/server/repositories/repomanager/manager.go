package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/csemanager/internal/dbx"
	"github.com/dmitrijs2005/csemanager/internal/server/repositories/attachments"
	"github.com/dmitrijs2005/csemanager/internal/server/repositories/clients"
	"github.com/dmitrijs2005/csemanager/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/csemanager/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to a DBTX, so services can
// use the same repository against the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Clients(db dbx.DBTX) clients.Repository
	Tasks(db dbx.DBTX) tasks.Repository
	Attachments(db dbx.DBTX) attachments.Repository
}
