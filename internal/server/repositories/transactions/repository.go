package transactions

import (
	"context"

	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
)

// Repository persists transactions. Every lookup is scoped by owner, so a
// foreign id behaves exactly like a missing one (common.ErrorNotFound).
type Repository interface {
	List(ctx context.Context, userID string, filter models.TransactionFilter) ([]models.Transaction, error)
	Create(ctx context.Context, t *models.Transaction) (*models.Transaction, error)
	Get(ctx context.Context, userID, id string) (*models.Transaction, error)
	Delete(ctx context.Context, userID, id string) error
	SetReceiptKey(ctx context.Context, userID, id, key string) error
}
