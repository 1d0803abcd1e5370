package httpapi

import (
	"errors"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
	"github.com/gofiber/fiber/v2"
)

// detail is the error body shape: {"detail": "..."}.
type detail struct {
	Detail string `json:"detail"`
}

// statusFor maps an error to a status code and a message that is safe to
// show the caller. Unknown errors become a bare 500.
func statusFor(err error) (int, string) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, fe.Message
	}

	switch {
	case errors.Is(err, common.ErrDuplicateEmail):
		return fiber.StatusBadRequest, "Email already registered"
	case errors.Is(err, common.ErrInvalidCredentials):
		return fiber.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, common.ErrUnauthenticated):
		return fiber.StatusUnauthorized, "Not authenticated"
	case errors.Is(err, common.ErrInvalidToken):
		return fiber.StatusUnauthorized, "Invalid token"
	case errors.Is(err, common.ErrUserNotFound):
		return fiber.StatusUnauthorized, "User not found"
	case errors.Is(err, common.ErrInvalidSubcategory):
		return fiber.StatusBadRequest, "Invalid subcategory"
	case errors.Is(err, common.ErrNoReceipt):
		return fiber.StatusNotFound, "No receipt attached"
	case errors.Is(err, common.ErrorNotFound):
		return fiber.StatusNotFound, "Not found"
	case errors.Is(err, common.ErrValidation):
		return fiber.StatusUnprocessableEntity, "Validation error"
	}
	return fiber.StatusInternalServerError, "Internal server error"
}

func errorHandler(logger logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code, msg := statusFor(err)
		if code >= fiber.StatusInternalServerError {
			logger.Error(c.UserContext(), "request failed",
				"method", c.Method(), "path", c.Path(), "error", err)
		}
		return c.Status(code).JSON(detail{Detail: msg})
	}
}

// unprocessable wraps a request-shape failure into a 422 carrying the field errors.
func unprocessable(err error) error {
	return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
}
