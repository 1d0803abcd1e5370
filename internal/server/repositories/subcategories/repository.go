package subcategories

import (
	"context"

	"github.com/dmitrijs2005/budgetkeeper/internal/server/models"
)

// Repository persists subcategories, scoped by owner.
type Repository interface {
	// List returns the user's subcategories, optionally narrowed to one bucket.
	List(ctx context.Context, userID string, bucketID *string) ([]models.Subcategory, error)
	Create(ctx context.Context, s *models.Subcategory) (*models.Subcategory, error)
	Get(ctx context.Context, userID, id string) (*models.Subcategory, error)
	Delete(ctx context.Context, userID, id string) error
}
