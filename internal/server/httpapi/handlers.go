package httpapi

import (
	"context"

	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
	"github.com/dmitrijs2005/budgetkeeper/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

type handler struct {
	users         *services.UserService
	transactions  *services.TransactionService
	subcategories *services.SubcategoryService
	metrics       *Metrics
}

func userContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func ok(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true})
}

func (h *handler) root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true, "name": serviceName})
}

func (h *handler) healthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// --- auth ---

func (h *handler) signup(c *fiber.Ctx) error {
	var req signupRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	pair, err := h.users.Signup(userContext(c), req.Email, req.Password, req.FullName)
	h.metrics.authEvent("signup", err)
	if err != nil {
		return err
	}
	return c.JSON(newTokenPairResponse(pair))
}

func (h *handler) login(c *fiber.Ctx) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	pair, err := h.users.Login(userContext(c), req.Email, req.Password)
	h.metrics.authEvent("login", err)
	if err != nil {
		return err
	}
	return c.JSON(newTokenPairResponse(pair))
}

func (h *handler) refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	pair, err := h.users.Refresh(userContext(c), req.RefreshToken)
	h.metrics.authEvent("refresh", err)
	if err != nil {
		return err
	}
	return c.JSON(newTokenPairResponse(pair))
}

func (h *handler) logout(c *fiber.Ctx) error {
	var req refreshRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	err := h.users.Logout(userContext(c), req.RefreshToken)
	h.metrics.authEvent("logout", err)
	if err != nil {
		return err
	}
	return ok(c)
}

func (h *handler) me(c *fiber.Ctx) error {
	return c.JSON(currentUser(c).Profile())
}

// --- transactions ---

func (h *handler) listTransactions(c *fiber.Ctx) error {
	q := parseTransactionQuery(c)
	if err := q.Validate(); err != nil {
		return unprocessable(err)
	}

	list, err := h.transactions.List(userContext(c), currentUser(c).ID, q.filter())
	if err != nil {
		return err
	}

	out := make([]transactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, newTransactionResponse(t))
	}
	return c.JSON(out)
}

func (h *handler) createTransaction(c *fiber.Ctx) error {
	var req transactionRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	t, err := h.transactions.Create(userContext(c), currentUser(c).ID, req.toNew())
	if err != nil {
		return err
	}
	return c.JSON(newTransactionResponse(*t))
}

func (h *handler) deleteTransaction(c *fiber.Ctx) error {
	if err := h.transactions.Delete(userContext(c), currentUser(c).ID, c.Params("id")); err != nil {
		return err
	}
	return ok(c)
}

func (h *handler) attachReceipt(c *fiber.Ctx) error {
	up, err := h.transactions.AttachReceipt(userContext(c), currentUser(c).ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(receiptUploadResponse{StorageKey: up.StorageKey, UploadURL: up.UploadURL})
}

func (h *handler) receiptURL(c *fiber.Ctx) error {
	url, err := h.transactions.ReceiptURL(userContext(c), currentUser(c).ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(receiptDownloadResponse{DownloadURL: url})
}

// --- subcategories ---

func (h *handler) listSubcategories(c *fiber.Ctx) error {
	var bucketID *string
	if b := c.Query("bucket_id"); b != "" {
		bucketID = &b
	}
	list, err := h.subcategories.List(userContext(c), currentUser(c).ID, bucketID)
	if err != nil {
		return err
	}
	if list == nil {
		list = []models.Subcategory{}
	}
	return c.JSON(list)
}

func (h *handler) createSubcategory(c *fiber.Ctx) error {
	var req subcategoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	sc, err := h.subcategories.Create(userContext(c), currentUser(c).ID, models.Subcategory{
		BucketID: req.BucketID,
		Name:     req.Name,
		Color:    req.Color,
		Icon:     req.Icon,
	})
	if err != nil {
		return err
	}
	return c.JSON(sc)
}

func (h *handler) deleteSubcategory(c *fiber.Ctx) error {
	if err := h.subcategories.Delete(userContext(c), currentUser(c).ID, c.Params("id")); err != nil {
		return err
	}
	return ok(c)
}
