package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/dbx"
	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/auth"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/repositories/subcategories"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/repositories/transactions"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testClock struct{ t time.Time }

func (c *testClock) Now() time.Time          { return c.t }
func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCodec(t *testing.T, clock *testClock) *auth.Codec {
	t.Helper()
	codec, err := auth.NewCodec(auth.CodecConfig{
		Secret:     []byte("test-secret"),
		Algorithm:  "HS256",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 14 * 24 * time.Hour,
	}, auth.WithClock(clock.Now))
	require.NoError(t, err)
	return codec
}

func memoryStore() (Store, *repomanager.InMemoryRepositoryManager) {
	m := repomanager.NewInMemoryRepositoryManager()
	return Store{Tx: dbx.NoTxRunner{}, Repos: m}, m
}

func newMemoryUserService(t *testing.T) (*UserService, *repomanager.InMemoryRepositoryManager, *testClock) {
	t.Helper()
	clock := &testClock{t: time.Now().UTC().Truncate(time.Second)}
	store, m := memoryStore()
	s := NewUserService(store, auth.NewHasher(bcrypt.MinCost), newTestCodec(t, clock), logging.Discard())
	s.now = clock.Now
	return s, m, clock
}

var errBoom = errors.New("boom")

// --- fakes for the transactional paths ---

type fakeUsersRepo struct {
	getByEmailOut *models.User
	getByEmailErr error
	getByIDOut    *models.User
	getByIDErr    error
	createErr     error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.ID = "11111111-1111-1111-1111-111111111111"
	return u, nil
}
func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.getByEmailOut, f.getByEmailErr
}
func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return f.getByIDOut, f.getByIDErr
}

type fakeRefreshRepo struct {
	created   []*models.RefreshToken
	createErr error
	findOut   *models.RefreshToken
	findErr   error
	revokeOK  bool
	revokeErr error
}

func (f *fakeRefreshRepo) Create(ctx context.Context, t *models.RefreshToken) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, t)
	return nil
}
func (f *fakeRefreshRepo) FindByHash(ctx context.Context, hash string) (*models.RefreshToken, error) {
	return f.findOut, f.findErr
}
func (f *fakeRefreshRepo) Revoke(ctx context.Context, id string) (bool, error) {
	return f.revokeOK, f.revokeErr
}
func (f *fakeRefreshRepo) RevokeAllForUser(ctx context.Context, userID string) (int64, error) {
	return 0, nil
}

type fakeTransactionsRepo struct {
	transactions.Repository
	listErr error
}

func (f *fakeTransactionsRepo) List(context.Context, string, models.TransactionFilter) ([]models.Transaction, error) {
	return nil, f.listErr
}

type fakeRepoManager struct {
	u  *fakeUsersRepo
	r  *fakeRefreshRepo
	tr *fakeTransactionsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error       { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository                 { return m.u }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository { return m.r }
func (m *fakeRepoManager) Transactions(db dbx.DBTX) transactions.Repository   { return m.tr }
func (m *fakeRepoManager) Subcategories(db dbx.DBTX) subcategories.Repository { return nil }
