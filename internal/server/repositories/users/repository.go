package users

import (
	"context"

	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
)

// Repository persists user accounts.
type Repository interface {
	// Create inserts user and fills in the generated fields. A taken email
	// yields common.ErrorAlreadyExist.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
