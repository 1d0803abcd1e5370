// Package memory keeps every repository in process memory. It backs tests
// and the "memory" DSN used for local runs without PostgreSQL.
package memory

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
	"github.com/google/uuid"
)

// Store holds the tables. Repositories created from the same Store share data.
type Store struct {
	mu            sync.RWMutex
	users         map[string]models.User
	refreshTokens map[string]models.RefreshToken
	transactions  map[string]models.Transaction
	subcategories map[string]models.Subcategory

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:         make(map[string]models.User),
		refreshTokens: make(map[string]models.RefreshToken),
		transactions:  make(map[string]models.Transaction),
		subcategories: make(map[string]models.Subcategory),
		now:           time.Now,
	}
}

func (s *Store) Users() *UserRepository                 { return &UserRepository{s: s} }
func (s *Store) RefreshTokens() *RefreshTokenRepository { return &RefreshTokenRepository{s: s} }
func (s *Store) Transactions() *TransactionRepository   { return &TransactionRepository{s: s} }
func (s *Store) Subcategories() *SubcategoryRepository  { return &SubcategoryRepository{s: s} }

func (s *Store) stamp() time.Time { return s.now().UTC() }

func newID() string { return uuid.NewString() }

// ownedBy returns common.ErrorNotFound for records of another user, mirroring
// the owner-scoped queries of the SQL repositories.
func ownedBy(found bool, owner, userID string) error {
	if !found || owner != userID {
		return common.ErrorNotFound
	}
	return nil
}
