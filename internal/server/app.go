// Package server wires configuration, storage, services and transports
// together and runs the HTTP API and the gRPC health endpoint until shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/budgetkeeper/internal/dbx"
	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/auth"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/config"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/services"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	gs "github.com/dmitrijs2005/budgetkeeper/internal/server/grpc"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	httpServer *httpapi.Server
	grpcServer *gs.GRPCServer
}

// openPostgres is a seam for tests.
var openPostgres = func(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// openStore picks the repository backend from the DSN and migrates the schema.
// The returned *sql.DB is nil for the in-memory backend.
func openStore(ctx context.Context, dsn string) (services.Store, *sql.DB, error) {
	if dsn == config.MemoryDSN {
		return services.Store{Tx: dbx.NoTxRunner{}, Repos: repomanager.NewInMemoryRepositoryManager()}, nil, nil
	}

	db, err := openPostgres(ctx, dsn)
	if err != nil {
		return services.Store{}, nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return services.Store{}, nil, fmt.Errorf("migrations error: %w", err)
	}
	return services.Store{DB: db, Tx: dbx.SQLRunner{DB: db}, Repos: rm}, db, nil
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.New(os.Stdout, c.LogLevel)

	codec, err := auth.NewCodec(auth.CodecConfig{
		Secret:     []byte(c.JWTSecret),
		Algorithm:  c.JWTAlgorithm,
		AccessTTL:  c.AccessTokenTTL,
		RefreshTTL: c.RefreshTokenTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("token codec: %w", err)
	}

	store, db, err := openStore(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	receipts := storage.NewS3Presigner(storage.S3Config{
		Region:       c.S3Region,
		AccessKey:    c.S3RootUser,
		SecretKey:    c.S3RootPassword,
		BaseEndpoint: c.S3BaseEndpoint,
		Bucket:       c.S3Bucket,
	})

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	us := services.NewUserService(store, auth.NewHasher(c.BcryptCost), codec, logger)
	ts := services.NewTransactionService(store, receipts, logger)
	ss := services.NewSubcategoryService(store)

	httpServer := httpapi.NewServer(c.EndpointAddrHTTP, c.CORSOrigins, httpapi.Deps{
		Users:         us,
		Transactions:  ts,
		Subcategories: ss,
		Registry:      registry,
		Logger:        logger,
	})

	var probe gs.ReadyProbe
	if db != nil {
		probe = db
	}
	grpcServer := gs.NewGRPCServer(c.EndpointAddrGRPC, logger, probe)

	return &App{
		config:     c,
		logger:     logger,
		db:         db,
		httpServer: httpServer,
		grpcServer: grpcServer,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// runServer runs one transport; a failure stops the whole app.
func (app *App) runServer(ctx context.Context, cancelFunc context.CancelFunc, name string, run func(context.Context) error) {
	if err := run(ctx); err != nil {
		app.logger.Error(ctx, "server stopped with error", "server", name, "error", err)
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.runServer(ctx, cancelFunc, "http", app.httpServer.Run)
	}()
	go func() {
		defer wg.Done()
		app.runServer(ctx, cancelFunc, "grpc", app.grpcServer.Run)
	}()

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "closing database", "error", err)
		}
	}
	app.logger.Info(ctx, "App stopped")
}
