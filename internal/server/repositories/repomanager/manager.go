package repomanager

import (
	"context"
	"database/sql"

	"github.com/lifememo/navi/internal/dbx"
	"github.com/lifememo/navi/internal/server/repositories/accounts"
	"github.com/lifememo/navi/internal/server/repositories/interviews"
	"github.com/lifememo/navi/internal/server/repositories/photos"
	"github.com/lifememo/navi/internal/server/repositories/timelines"
)

// RepositoryManager vends repositories bound to either a pool or a
// transaction, so services can run the same code both ways.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Interviews(db dbx.DBTX) interviews.Repository
	Timelines(db dbx.DBTX) timelines.Repository
	Photos(db dbx.DBTX) photos.Repository
}
