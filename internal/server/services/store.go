// Package services contains server-side business logic: account lifecycle,
// session resolution, and the budget entities owned by a user.
package services

import (
	"fmt"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/dbx"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// Store bundles what services need to reach persistence: a handle for
// single statements, a runner for atomic units, and the repository factory.
type Store struct {
	DB    dbx.DBTX
	Tx    dbx.TxRunner
	Repos repomanager.RepositoryManager
}

func storeErr(err error) error {
	return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
}

// validID rejects identifiers that cannot name a stored row.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
