package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/budgetkeeper/internal/dbx"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/repositories/memory"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/repositories/subcategories"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/repositories/transactions"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/repositories/users"
)

// InMemoryRepositoryManager ignores the DBTX handle and serves one shared
// memory.Store. Pair it with dbx.NoTxRunner.
type InMemoryRepositoryManager struct {
	store *memory.Store
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{store: memory.NewStore()}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *InMemoryRepositoryManager) Users(dbx.DBTX) users.Repository {
	return m.store.Users()
}

func (m *InMemoryRepositoryManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository {
	return m.store.RefreshTokens()
}

func (m *InMemoryRepositoryManager) Transactions(dbx.DBTX) transactions.Repository {
	return m.store.Transactions()
}

func (m *InMemoryRepositoryManager) Subcategories(dbx.DBTX) subcategories.Repository {
	return m.store.Subcategories()
}
