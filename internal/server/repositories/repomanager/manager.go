// Package repomanager vends repository implementations bound to a database
// handle and applies the schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/fitkeeper/internal/dbx"
	"github.com/dmitrijs2005/fitkeeper/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
}
