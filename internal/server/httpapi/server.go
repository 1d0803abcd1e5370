// Package httpapi exposes the budget backend over a JSON REST API built on fiber.
package httpapi

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	serviceName         = "budget-backend"
	defaultAuthRate     = 10
	shutdownGracePeriod = 5 * time.Second
)

// Deps lists what the HTTP layer needs from the rest of the server.
type Deps struct {
	Users         *services.UserService
	Transactions  *services.TransactionService
	Subcategories *services.SubcategoryService
	Registry      *prometheus.Registry
	Logger        logging.Logger

	// AuthRateLimit caps /auth requests per client IP per minute. Zero means 10.
	AuthRateLimit int
}

type Server struct {
	address string
	app     *fiber.App
	logger  logging.Logger
}

// NewServer builds the fiber application and registers every route.
func NewServer(address string, corsOrigins []string, d Deps) *Server {
	logger := d.Logger.With("module", "http_server")
	metrics := NewMetrics(d.Registry)

	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(logger),
	})

	app.Use(requestid.New())
	app.Use(observe(logger, metrics))
	app.Use(fiberrecover.New())
	app.Use(corsMiddleware(corsOrigins))

	h := &handler{
		users:         d.Users,
		transactions:  d.Transactions,
		subcategories: d.Subcategories,
		metrics:       metrics,
	}

	app.Get("/", h.root)
	app.Get("/healthz", h.healthz)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))

	rate := d.AuthRateLimit
	if rate <= 0 {
		rate = defaultAuthRate
	}
	authGroup := app.Group("/auth", authRateLimit(rate))
	authGroup.Post("/signup", h.signup)
	authGroup.Post("/login", h.login)
	authGroup.Post("/refresh", h.refresh)
	authGroup.Post("/logout", h.logout)

	requireUser := bearerAuth(d.Users)

	app.Get("/me", requireUser, h.me)

	app.Get("/transactions", requireUser, h.listTransactions)
	app.Post("/transactions", requireUser, h.createTransaction)
	app.Delete("/transactions/:id", requireUser, h.deleteTransaction)
	app.Post("/transactions/:id/receipt", requireUser, h.attachReceipt)
	app.Get("/transactions/:id/receipt", requireUser, h.receiptURL)

	app.Get("/subcategories", requireUser, h.listSubcategories)
	app.Post("/subcategories", requireUser, h.createSubcategory)
	app.Delete("/subcategories/:id", requireUser, h.deleteSubcategory)

	return &Server{address: address, app: app, logger: logger}
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run serves until ctx is cancelled, then drains open connections.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address)
		errCh <- s.app.Listen(s.address)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
		defer cancel()
		return s.app.ShutdownWithContext(shutdownCtx)
	}
}

func corsMiddleware(origins []string) fiber.Handler {
	allowed := strings.Join(origins, ",")
	return cors.New(cors.Config{
		AllowOrigins: allowed,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		// fiber refuses credentials together with a wildcard origin.
		AllowCredentials: allowed != "" && !strings.Contains(allowed, "*"),
	})
}
