package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/dmitrijs2005/budgetkeeper/internal/client/api"
	"github.com/dmitrijs2005/budgetkeeper/internal/client/config"
)

// Backend is the part of the REST client the CLI drives. *api.Client
// satisfies it; tests use a fake.
type Backend interface {
	LoggedIn() bool
	Signup(ctx context.Context, email, password string, fullName *string) error
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*api.Profile, error)
	ListTransactions(ctx context.Context, q api.TransactionQuery) ([]api.Transaction, error)
	CreateTransaction(ctx context.Context, t api.NewTransaction) (*api.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
	AttachReceipt(ctx context.Context, id string) (*api.ReceiptUpload, error)
	ReceiptURL(ctx context.Context, id string) (string, error)
}

type App struct {
	config   *config.Config
	backend  Backend
	reader   *bufio.Reader
	out      io.Writer
	userName string
}

func NewApp(c *config.Config) *App {
	return &App{
		config:  c,
		backend: api.New(c.ServerURL, c.RequestTimeout),
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}
}

// Run blocks in the REPL until the user exits or stdin closes.
func (a *App) Run(ctx context.Context) {
	a.Root(ctx)
	if a.backend.LoggedIn() {
		_ = a.backend.Logout(ctx)
	}
}

func (a *App) isLoggedIn() bool {
	return a.backend.LoggedIn()
}
