package httpapi

import (
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/utils"
)

type localsKey string

const userKey localsKey = "user"

// observe writes the access log line and request metrics. Errors from the
// chain are rendered here so the recorded status is the one sent.
func observe(logger logging.Logger, m *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		m.inFlight.Inc()
		defer m.inFlight.Dec()

		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		// Label values outlive the request; fiber strings point into reused buffers.
		method := utils.CopyString(c.Method())
		path := utils.CopyString(c.Route().Path)
		status := c.Response().StatusCode()
		latency := time.Since(start)

		m.requests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(method, path, strconv.Itoa(status)).Observe(latency.Seconds())

		logger.Info(c.UserContext(), "request",
			"method", method,
			"path", c.Path(),
			"status", status,
			"latency", latency,
			"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
		)
		return nil
	}
}

func authRateLimit(max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(detail{Detail: "Too many requests"})
		},
	})
}

// bearerToken returns the credential of an "Authorization: Bearer <token>"
// header, or "" when the header is absent or uses another scheme.
func bearerToken(c *fiber.Ctx) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(c.Get(common.AuthorizationHeaderName)), " ")
	if !ok || !strings.EqualFold(scheme, common.BearerScheme) {
		return ""
	}
	return strings.TrimSpace(token)
}

// bearerAuth resolves the caller and stores it for the downstream handlers.
func bearerAuth(users *services.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := users.Authenticate(c.UserContext(), bearerToken(c))
		if err != nil {
			return err
		}
		c.Locals(userKey, user)
		return c.Next()
	}
}

func currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}
