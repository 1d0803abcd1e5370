package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/budgetkeeper/internal/dbx"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/repositories/subcategories"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/repositories/transactions"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so the same factory
// serves both the pool and an open transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Transactions(db dbx.DBTX) transactions.Repository
	Subcategories(db dbx.DBTX) subcategories.Repository
}
